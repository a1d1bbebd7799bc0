// Package mod - /mod clear command
package mod

import (
	"context"
	"fmt"

	"github.com/PancyStudios/GuardianBotGo/pkg/discord"
	"github.com/PancyStudios/GuardianBotGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createClearCommand creates the /mod clear subcommand
func createClearCommand() *discord.Command {
	return discord.NewCommand(
		"clear",
		"Borra mensajes del canal en bloque",
		"mod",
		clearHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "cantidad",
			Description: "Cantidad de mensajes a borrar (1-100)",
			Required:    true,
			MinValue:    func() *float64 { v := 1.0; return &v }(),
			MaxValue:    moderation.MaxBulkDelete,
		},
	).WithUserPermissions(discordgo.PermissionManageMessages).
		WithBotPermissions(discordgo.PermissionManageMessages)
}

// clearHandler handles the /mod clear command
func clearHandler(ctx *discord.CommandContext) error {
	count := int(ctx.GetIntOption("cantidad"))

	engine := moderation.Get()
	deleted, err := engine.Purge(context.Background(), ctx.Interaction.ChannelID, ctx.Actor(), count)
	if err != nil {
		return replyEngineError(ctx, err)
	}

	return ctx.ReplyEphemeral(fmt.Sprintf("🧹 Se han borrado **%d** mensaje(s).", deleted))
}
