package moderation

import (
	"context"
	"sync"
	"time"

	"github.com/PancyStudios/GuardianBotGo/pkg/models"
)

// MemoryStore es una implementación de Store en memoria. Se usa en los tests
// y como último recurso cuando la base de datos no está disponible al
// arrancar (el estado se pierde al reiniciar).
type MemoryStore struct {
	mu       sync.Mutex
	warnings map[string][]models.Warn
	mutes    map[string]models.MuteDocument
	bans     map[string]models.BanDocument
	settings map[string]models.GuildSettings
	ai       map[string]models.AIChannelSetting
	actions  []models.ModerationAction
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		warnings: make(map[string][]models.Warn),
		mutes:    make(map[string]models.MuteDocument),
		bans:     make(map[string]models.BanDocument),
		settings: make(map[string]models.GuildSettings),
		ai:       make(map[string]models.AIChannelSetting),
	}
}

func memKey(guildID, userID string) string {
	return guildID + ":" + userID
}

// Warnings implements Store
func (s *MemoryStore) Warnings(_ context.Context, guildID, userID string) ([]models.Warn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.warnings[memKey(guildID, userID)]
	out := make([]models.Warn, len(list))
	copy(out, list)
	return out, nil
}

// AppendWarning implements Store
func (s *MemoryStore) AppendWarning(_ context.Context, guildID, userID string, w models.Warn) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := memKey(guildID, userID)
	s.warnings[key] = append(s.warnings[key], w)
	return len(s.warnings[key]), nil
}

// RemoveWarning implements Store
func (s *MemoryStore) RemoveWarning(_ context.Context, guildID, userID, warnID string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := memKey(guildID, userID)
	list := s.warnings[key]
	filtered := make([]models.Warn, 0, len(list))
	removed := false
	for _, w := range list {
		if w.ID == warnID {
			removed = true
			continue
		}
		filtered = append(filtered, w)
	}
	s.warnings[key] = filtered
	return len(filtered), removed, nil
}

// UpsertMute implements Store
func (s *MemoryStore) UpsertMute(_ context.Context, m models.MuteDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutes[memKey(m.GuildID, m.UserID)] = m
	return nil
}

// Mute implements Store
func (s *MemoryStore) Mute(_ context.Context, guildID, userID string) (*models.MuteDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mutes[memKey(guildID, userID)]
	if !ok {
		return nil, nil
	}
	if m.ExpiresAt > 0 && m.ExpiresAt <= time.Now().Unix() {
		// Expirado en Discord: se trata como ausente y se limpia
		delete(s.mutes, memKey(guildID, userID))
		return nil, nil
	}
	return &m, nil
}

// DeleteMute implements Store
func (s *MemoryStore) DeleteMute(_ context.Context, guildID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mutes, memKey(guildID, userID))
	return nil
}

// UpsertBan implements Store
func (s *MemoryStore) UpsertBan(_ context.Context, b models.BanDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bans[memKey(b.GuildID, b.UserID)] = b
	return nil
}

// Ban implements Store
func (s *MemoryStore) Ban(_ context.Context, guildID, userID string) (*models.BanDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bans[memKey(guildID, userID)]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

// DeleteBan implements Store
func (s *MemoryStore) DeleteBan(_ context.Context, guildID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bans, memKey(guildID, userID))
	return nil
}

// Settings implements Store
func (s *MemoryStore) Settings(_ context.Context, guildID string) (models.GuildSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg, ok := s.settings[guildID]; ok {
		return cfg, nil
	}
	return models.DefaultGuildSettings(guildID), nil
}

// SaveSettings implements Store
func (s *MemoryStore) SaveSettings(_ context.Context, cfg models.GuildSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[cfg.GuildID] = cfg
	return nil
}

// AIToggle implements Store
func (s *MemoryStore) AIToggle(_ context.Context, guildID, channelID string) (*models.AIChannelSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.ai[memKey(guildID, channelID)]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// SetAIToggle implements Store
func (s *MemoryStore) SetAIToggle(_ context.Context, t models.AIChannelSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ai[memKey(t.GuildID, t.ChannelID)] = t
	return nil
}

// AIToggles implements Store
func (s *MemoryStore) AIToggles(_ context.Context, guildID string) ([]models.AIChannelSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.AIChannelSetting
	for _, t := range s.ai {
		if t.GuildID == guildID {
			out = append(out, t)
		}
	}
	return out, nil
}

// AppendAction implements Store
func (s *MemoryStore) AppendAction(_ context.Context, a models.ModerationAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, a)
	return nil
}

// Actions implements Store
func (s *MemoryStore) Actions(_ context.Context, guildID string, limit, offset int) ([]models.ModerationAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var filtered []models.ModerationAction
	for i := len(s.actions) - 1; i >= 0; i-- {
		if s.actions[i].GuildID == guildID {
			filtered = append(filtered, s.actions[i])
		}
	}
	if offset >= len(filtered) {
		return nil, nil
	}
	filtered = filtered[offset:]
	if limit > 0 && limit < len(filtered) {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// DeleteAction implements Store
func (s *MemoryStore) DeleteAction(_ context.Context, guildID, actionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.actions {
		if a.GuildID == guildID && a.ID == actionID {
			s.actions = append(s.actions[:i], s.actions[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// CountActions implements Store
func (s *MemoryStore) CountActions(_ context.Context, guildID string) (models.ActionStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stats models.ActionStats
	for _, a := range s.actions {
		if a.GuildID != guildID {
			continue
		}
		switch a.ActionType {
		case models.ActionWarn:
			stats.Warnings++
		case models.ActionBan:
			stats.Bans++
		case models.ActionKick:
			stats.Kicks++
		case models.ActionMute:
			stats.Mutes++
		}
	}
	return stats, nil
}
