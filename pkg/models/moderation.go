package models

// MuteDocument representa el silencio activo de un usuario en un servidor.
// Como máximo uno por (guildId, userId): escribir de nuevo sobreescribe el anterior.
type MuteDocument struct {
	GuildID         string `bson:"guildId" json:"guildId"`
	UserID          string `bson:"userId" json:"userId"`
	Moderator       string `bson:"moderator" json:"moderator"`
	Reason          string `bson:"reason" json:"reason"`
	DurationMinutes int    `bson:"durationMinutes" json:"durationMinutes"`
	Timestamp       int64  `bson:"timestamp" json:"timestamp"`
	ExpiresAt       int64  `bson:"expiresAt" json:"expiresAt"`
}

// BanDocument representa la anotación local de un baneo.
// El estado real lo impone Discord; esto solo guarda razón y moderador.
type BanDocument struct {
	GuildID   string `bson:"guildId" json:"guildId"`
	UserID    string `bson:"userId" json:"userId"`
	Moderator string `bson:"moderator" json:"moderator"`
	Reason    string `bson:"reason" json:"reason"`
	Timestamp int64  `bson:"timestamp" json:"timestamp"`
}

// Action types for the moderation audit trail.
const (
	ActionWarn       = "warn"
	ActionRemoveWarn = "removewarn"
	ActionKick       = "kick"
	ActionBan        = "ban"
	ActionUnban      = "unban"
	ActionMute       = "mute"
	ActionUnmute     = "unmute"
)

// ModerationAction es una entrada del historial de moderación
// (colección "moderation_actions"), lo que lista el dashboard.
type ModerationAction struct {
	ID              string `bson:"id" json:"id"`
	GuildID         string `bson:"guildId" json:"guildId"`
	UserID          string `bson:"userId" json:"userId"`
	ActionType      string `bson:"actionType" json:"actionType"`
	Reason          string `bson:"reason" json:"reason"`
	Moderator       string `bson:"moderator" json:"moderator"`
	Timestamp       int64  `bson:"timestamp" json:"timestamp"`
	DurationMinutes int    `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
}

// ActionStats son los contadores por servidor que muestra el dashboard
type ActionStats struct {
	Warnings int `json:"totalWarnings"`
	Bans     int `json:"totalBans"`
	Kicks    int `json:"totalKicks"`
	Mutes    int `json:"totalMutes"`
}
