package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/GuardianBotGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used by the bot and the dashboard.
const (
	CollectionWarns      = "warns"
	CollectionMutes      = "mutes"
	CollectionBans       = "bans"
	CollectionSettings   = "guild_settings"
	CollectionAISettings = "ai_settings"
	CollectionActions    = "moderation_actions"
)

// MongoStore es la implementación de moderation.Store respaldada por MongoDB.
// Los documentos pequeños (settings, mutes, bans) pasan por DataManagers con
// caché; el historial de moderación consulta la colección directamente porque
// necesita orden, skip y limit.
type MongoStore struct {
	db       *Database
	warns    *DataManager[models.WarnsDocument]
	mutes    *DataManager[models.MuteDocument]
	bans     *DataManager[models.BanDocument]
	settings *DataManager[models.GuildSettings]
	ai       *DataManager[models.AIChannelSetting]

	// Serializa los read-modify-write sobre la lista de advertencias de un
	// mismo (guildId, userId).
	warnLocks sync.Map
}

// NewMongoStore creates a MongoStore over an established database connection
func NewMongoStore(db *Database) *MongoStore {
	return &MongoStore{
		db:       db,
		warns:    NewDataManager[models.WarnsDocument](CollectionWarns, db),
		mutes:    NewDataManager[models.MuteDocument](CollectionMutes, db),
		bans:     NewDataManager[models.BanDocument](CollectionBans, db),
		settings: NewDataManager[models.GuildSettings](CollectionSettings, db),
		ai:       NewDataManager[models.AIChannelSetting](CollectionAISettings, db),
	}
}

func (s *MongoStore) warnLock(guildID, userID string) *sync.Mutex {
	key := guildID + ":" + userID
	lock, _ := s.warnLocks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func userQuery(guildID, userID string) bson.M {
	return bson.M{"guildId": guildID, "userId": userID}
}

// Warnings implements moderation.Store
func (s *MongoStore) Warnings(_ context.Context, guildID, userID string) ([]models.Warn, error) {
	doc, err := s.warns.Get(userQuery(guildID, userID))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	out := make([]models.Warn, len(doc.Warns))
	copy(out, doc.Warns)
	return out, nil
}

// AppendWarning implements moderation.Store
func (s *MongoStore) AppendWarning(_ context.Context, guildID, userID string, w models.Warn) (int, error) {
	lock := s.warnLock(guildID, userID)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.warns.Get(userQuery(guildID, userID))
	if err != nil {
		return 0, err
	}

	// El documento cacheado jamás se muta: si la escritura falla, la caché
	// tiene que seguir reflejando lo persistido.
	next := models.WarnsDocument{GuildID: guildID, UserID: userID}
	if doc != nil {
		next.Warns = append(make([]models.Warn, 0, len(doc.Warns)+1), doc.Warns...)
	}
	next.Warns = append(next.Warns, w)

	if _, err := s.warns.Set(userQuery(guildID, userID), next); err != nil {
		return 0, err
	}
	return len(next.Warns), nil
}

// RemoveWarning implements moderation.Store
func (s *MongoStore) RemoveWarning(_ context.Context, guildID, userID, warnID string) (int, bool, error) {
	lock := s.warnLock(guildID, userID)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.warns.Get(userQuery(guildID, userID))
	if err != nil {
		return 0, false, err
	}
	if doc == nil {
		return 0, false, nil
	}

	filtered := make([]models.Warn, 0, len(doc.Warns))
	removed := false
	for _, w := range doc.Warns {
		if w.ID == warnID {
			removed = true
			continue
		}
		filtered = append(filtered, w)
	}
	if !removed {
		return len(doc.Warns), false, nil
	}

	next := models.WarnsDocument{GuildID: guildID, UserID: userID, Warns: filtered}
	if _, err := s.warns.Set(userQuery(guildID, userID), next); err != nil {
		return 0, false, err
	}
	return len(filtered), true, nil
}

// UpsertMute implements moderation.Store
func (s *MongoStore) UpsertMute(_ context.Context, m models.MuteDocument) error {
	_, err := s.mutes.Set(userQuery(m.GuildID, m.UserID), m)
	return err
}

// Mute implements moderation.Store
func (s *MongoStore) Mute(ctx context.Context, guildID, userID string) (*models.MuteDocument, error) {
	m, err := s.mutes.Get(userQuery(guildID, userID))
	if err != nil || m == nil {
		return nil, err
	}
	if m.ExpiresAt > 0 && m.ExpiresAt <= time.Now().Unix() {
		// Expirado en Discord: se trata como ausente y se limpia
		_ = s.mutes.Delete(userQuery(guildID, userID))
		return nil, nil
	}
	return m, nil
}

// DeleteMute implements moderation.Store
func (s *MongoStore) DeleteMute(_ context.Context, guildID, userID string) error {
	return s.mutes.Delete(userQuery(guildID, userID))
}

// UpsertBan implements moderation.Store
func (s *MongoStore) UpsertBan(_ context.Context, b models.BanDocument) error {
	_, err := s.bans.Set(userQuery(b.GuildID, b.UserID), b)
	return err
}

// Ban implements moderation.Store
func (s *MongoStore) Ban(_ context.Context, guildID, userID string) (*models.BanDocument, error) {
	return s.bans.Get(userQuery(guildID, userID))
}

// DeleteBan implements moderation.Store
func (s *MongoStore) DeleteBan(_ context.Context, guildID, userID string) error {
	return s.bans.Delete(userQuery(guildID, userID))
}

// Settings implements moderation.Store
func (s *MongoStore) Settings(_ context.Context, guildID string) (models.GuildSettings, error) {
	cfg, err := s.settings.Get(bson.M{"guildId": guildID})
	if err != nil {
		return models.GuildSettings{}, err
	}
	if cfg == nil {
		return models.DefaultGuildSettings(guildID), nil
	}
	return *cfg, nil
}

// SaveSettings implements moderation.Store
func (s *MongoStore) SaveSettings(_ context.Context, cfg models.GuildSettings) error {
	_, err := s.settings.Set(bson.M{"guildId": cfg.GuildID}, cfg)
	return err
}

// AIToggle implements moderation.Store
func (s *MongoStore) AIToggle(_ context.Context, guildID, channelID string) (*models.AIChannelSetting, error) {
	return s.ai.Get(bson.M{"guildId": guildID, "channelId": channelID})
}

// SetAIToggle implements moderation.Store
func (s *MongoStore) SetAIToggle(_ context.Context, t models.AIChannelSetting) error {
	_, err := s.ai.Set(bson.M{"guildId": t.GuildID, "channelId": t.ChannelID}, t)
	return err
}

// AIToggles implements moderation.Store
func (s *MongoStore) AIToggles(_ context.Context, guildID string) ([]models.AIChannelSetting, error) {
	docs, err := s.ai.GetAll(bson.M{"guildId": guildID})
	if err != nil {
		return nil, err
	}
	out := make([]models.AIChannelSetting, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d)
	}
	return out, nil
}

// AppendAction implements moderation.Store
func (s *MongoStore) AppendAction(ctx context.Context, a models.ModerationAction) error {
	if !s.db.Connected() {
		return fmt.Errorf("database not connected")
	}
	col := s.db.GetCollection(CollectionActions)
	if col == nil {
		return fmt.Errorf("database not connected")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := col.InsertOne(ctx, a)
	return err
}

// Actions implements moderation.Store
func (s *MongoStore) Actions(ctx context.Context, guildID string, limit, offset int) ([]models.ModerationAction, error) {
	if !s.db.Connected() {
		return nil, fmt.Errorf("database not connected")
	}
	col := s.db.GetCollection(CollectionActions)
	if col == nil {
		return nil, fmt.Errorf("database not connected")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"timestamp": -1})
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := col.Find(ctx, bson.M{"guildId": guildID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var actions []models.ModerationAction
	if err := cursor.All(ctx, &actions); err != nil {
		return nil, err
	}
	return actions, nil
}

// DeleteAction implements moderation.Store
func (s *MongoStore) DeleteAction(ctx context.Context, guildID, actionID string) (bool, error) {
	if !s.db.Connected() {
		return false, fmt.Errorf("database not connected")
	}
	col := s.db.GetCollection(CollectionActions)
	if col == nil {
		return false, fmt.Errorf("database not connected")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := col.DeleteOne(ctx, bson.M{"guildId": guildID, "id": actionID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// CountActions implements moderation.Store
func (s *MongoStore) CountActions(ctx context.Context, guildID string) (models.ActionStats, error) {
	var stats models.ActionStats
	if !s.db.Connected() {
		return stats, fmt.Errorf("database not connected")
	}
	col := s.db.GetCollection(CollectionActions)
	if col == nil {
		return stats, fmt.Errorf("database not connected")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	counts := map[string]*int{
		models.ActionWarn: &stats.Warnings,
		models.ActionBan:  &stats.Bans,
		models.ActionKick: &stats.Kicks,
		models.ActionMute: &stats.Mutes,
	}
	for actionType, dest := range counts {
		n, err := col.CountDocuments(ctx, bson.M{"guildId": guildID, "actionType": actionType})
		if err != nil {
			return models.ActionStats{}, err
		}
		*dest = int(n)
	}
	return stats, nil
}
