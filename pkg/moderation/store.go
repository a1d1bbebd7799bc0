package moderation

import (
	"context"

	"github.com/PancyStudios/GuardianBotGo/pkg/models"
)

// Store is the typed persistence contract for moderation state. Every key is
// an explicit (guildID, userID[, subID]) tuple; implementations must provide
// read-after-write consistency and serialize conflicting writes to the same
// key (two simultaneous warnings may never lose an entry).
//
// A write failure must surface as an error, never be queued or dropped: the
// engine treats store failures as fatal to the triggering request.
type Store interface {
	// Warnings returns the ordered warning list. A user with no warnings
	// yields an empty slice, not an error.
	Warnings(ctx context.Context, guildID, userID string) ([]models.Warn, error)
	// AppendWarning atomically appends and returns the new total count.
	AppendWarning(ctx context.Context, guildID, userID string, w models.Warn) (int, error)
	// RemoveWarning atomically removes the warning with the given id.
	// removed is false when no such id exists; the count is unchanged then.
	RemoveWarning(ctx context.Context, guildID, userID, warnID string) (remaining int, removed bool, err error)

	// UpsertMute overwrites the (guild,user) mute record: last write wins.
	UpsertMute(ctx context.Context, m models.MuteDocument) error
	// Mute returns the active mute or nil. Records past their ExpiresAt are
	// treated as absent.
	Mute(ctx context.Context, guildID, userID string) (*models.MuteDocument, error)
	DeleteMute(ctx context.Context, guildID, userID string) error

	UpsertBan(ctx context.Context, b models.BanDocument) error
	Ban(ctx context.Context, guildID, userID string) (*models.BanDocument, error)
	DeleteBan(ctx context.Context, guildID, userID string) error

	// Settings returns the stored settings or the defaults when absent.
	Settings(ctx context.Context, guildID string) (models.GuildSettings, error)
	SaveSettings(ctx context.Context, s models.GuildSettings) error

	// AIToggle returns the explicit per-channel toggle or nil when unset.
	// nil means "use the guild default", NOT "disabled".
	AIToggle(ctx context.Context, guildID, channelID string) (*models.AIChannelSetting, error)
	SetAIToggle(ctx context.Context, t models.AIChannelSetting) error
	AIToggles(ctx context.Context, guildID string) ([]models.AIChannelSetting, error)

	// AppendAction writes an audit-trail entry.
	AppendAction(ctx context.Context, a models.ModerationAction) error
	// Actions lists the newest entries first.
	Actions(ctx context.Context, guildID string, limit, offset int) ([]models.ModerationAction, error)
	// DeleteAction removes one entry; deleted is false when the id is unknown.
	DeleteAction(ctx context.Context, guildID, actionID string) (bool, error)
	CountActions(ctx context.Context, guildID string) (models.ActionStats, error)
}
