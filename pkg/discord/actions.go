package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
)

// PlatformAdapter ejecuta sobre discordgo las acciones externas que pide el
// motor de moderación. Discord es la fuente de verdad del estado aplicado;
// aquí no se escribe nada localmente.
type PlatformAdapter struct {
	session *discordgo.Session
}

// NewPlatformAdapter creates a PlatformAdapter over a session
func NewPlatformAdapter(session *discordgo.Session) *PlatformAdapter {
	return &PlatformAdapter{session: session}
}

// Kick removes a member from the guild
func (p *PlatformAdapter) Kick(ctx context.Context, guildID, userID, reason string) error {
	return p.session.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx))
}

// Ban bans a user from the guild without pruning message history
func (p *PlatformAdapter) Ban(ctx context.Context, guildID, userID, reason string) error {
	return p.session.GuildBanCreateWithReason(guildID, userID, reason, 0, discordgo.WithContext(ctx))
}

// Unban lifts a ban
func (p *PlatformAdapter) Unban(ctx context.Context, guildID, userID string) error {
	return p.session.GuildBanDelete(guildID, userID, discordgo.WithContext(ctx))
}

// Timeout applies a communication timeout; until == nil lifts it. The
// reason travels in the audit log header, like the kick and ban calls.
func (p *PlatformAdapter) Timeout(ctx context.Context, guildID, userID string, until *time.Time, reason string) error {
	return p.session.GuildMemberTimeout(guildID, userID, until, requestOptions(ctx, reason)...)
}

// requestOptions bundles the context with the audit log reason, when given
func requestOptions(ctx context.Context, reason string) []discordgo.RequestOption {
	opts := []discordgo.RequestOption{discordgo.WithContext(ctx)}
	if reason != "" {
		opts = append(opts, discordgo.WithAuditLogReason(reason))
	}
	return opts
}

// BulkDelete borra los últimos count mensajes del canal. Discord omite en
// silencio los mensajes de más de 14 días, por eso se devuelve cuántos se
// pidieron borrar realmente.
func (p *PlatformAdapter) BulkDelete(ctx context.Context, channelID string, count int) (int, error) {
	messages, err := p.session.ChannelMessages(channelID, count, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}

	if len(ids) == 1 {
		if err := p.session.ChannelMessageDelete(channelID, ids[0], discordgo.WithContext(ctx)); err != nil {
			return 0, err
		}
		return 1, nil
	}

	if err := p.session.ChannelMessagesBulkDelete(channelID, ids, discordgo.WithContext(ctx)); err != nil {
		return 0, err
	}
	return len(ids), nil
}
