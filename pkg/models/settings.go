package models

// GuildSettings es la configuración por servidor (colección "guild_settings").
// Se crea con valores por defecto en la primera escritura.
type GuildSettings struct {
	GuildID      string   `bson:"guildId" json:"guildId"`
	Prefix       string   `bson:"prefix" json:"prefix"`
	LogChannelID string   `bson:"logChannelId" json:"logChannelId"`
	AutoRoleID   string   `bson:"autoRoleId" json:"autoRoleId"`
	AntiSpam     bool     `bson:"antiSpam" json:"antiSpam"`
	AntiSwear    bool     `bson:"antiSwear" json:"antiSwear"`
	AntiLink     bool     `bson:"antiLink" json:"antiLink"`
	AIEnabled    bool     `bson:"aiEnabled" json:"aiEnabled"`
	AIChannels   []string `bson:"aiChannels" json:"aiChannels"`
}

// DefaultGuildSettings returns the settings a guild has before anyone saves them
func DefaultGuildSettings(guildID string) GuildSettings {
	return GuildSettings{
		GuildID:   guildID,
		Prefix:    "!",
		AntiSpam:  true,
		AntiSwear: true,
		AntiLink:  true,
		AIEnabled: true,
	}
}

// AIChannelSetting es el toggle explícito de IA por canal (colección "ai_settings").
// La ausencia del documento NO significa desactivado: significa "usar el
// valor por defecto del servidor".
type AIChannelSetting struct {
	GuildID   string `bson:"guildId" json:"guildId"`
	ChannelID string `bson:"channelId" json:"channelId"`
	Enabled   bool   `bson:"enabled" json:"enabled"`
	UpdatedAt int64  `bson:"updatedAt" json:"updatedAt"`
}
