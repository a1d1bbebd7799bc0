// Package mod - /mod mute command
package mod

import (
	"context"
	"fmt"

	"github.com/PancyStudios/GuardianBotGo/pkg/discord"
	"github.com/PancyStudios/GuardianBotGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createMuteCommand creates the /mod mute subcommand
func createMuteCommand() *discord.Command {
	return discord.NewCommand(
		"mute",
		"Silencia temporalmente a un usuario",
		"mod",
		muteHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a silenciar",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "minutos",
			Description: "Duración del silencio en minutos (máx. 28 días)",
			Required:    true,
			MinValue:    func() *float64 { v := 1.0; return &v }(),
			MaxValue:    moderation.MaxMuteMinutes,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón del silencio",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithBotPermissions(discordgo.PermissionModerateMembers).
		RequiresDatabase()
}

// muteHandler handles the /mod mute command
func muteHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}

	minutes := int(ctx.GetIntOption("minutos"))
	reason := ctx.GetStringOption("razon")
	if reason == "" {
		reason = defaultReason
	}

	engine := moderation.Get()
	err := engine.Mute(context.Background(), ctx.Interaction.GuildID, ctx.Actor(), ctx.TargetMember(user.ID), minutes, reason)
	if err != nil {
		return replyEngineError(ctx, err)
	}

	return ctx.Reply(fmt.Sprintf(
		"🔇 **%s** ha sido silenciado durante **%d** minuto(s).\n**Razón:** %s",
		user.Username,
		minutes,
		reason,
	))
}
