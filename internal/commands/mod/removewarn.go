// Package mod - /mod removewarn command
package mod

import (
	"context"
	"fmt"

	"github.com/PancyStudios/GuardianBotGo/pkg/discord"
	"github.com/PancyStudios/GuardianBotGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createRemoveWarnCommand creates the /mod removewarn subcommand
func createRemoveWarnCommand() *discord.Command {
	return discord.NewCommand(
		"removewarn",
		"Elimina una advertencia de un usuario",
		"mod",
		removeWarnHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario al que quitar la advertencia",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "ID de la advertencia (ver /mod warns)",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		RequiresDatabase()
}

// removeWarnHandler handles the /mod removewarn command
func removeWarnHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}
	warnID := ctx.GetStringOption("id")

	engine := moderation.Get()
	remaining, removed, err := engine.RemoveWarning(context.Background(), ctx.Interaction.GuildID, ctx.Actor(), user.ID, warnID)
	if err != nil {
		return replyEngineError(ctx, err)
	}

	if !removed {
		return ctx.ReplyEphemeral(fmt.Sprintf("ℹ️ No existe ninguna advertencia con el ID `%s` para **%s**.", warnID, user.Username))
	}

	return ctx.Reply(fmt.Sprintf(
		"✅ Advertencia `%s` eliminada de **%s**.\n**Advertencias restantes:** %d",
		warnID,
		user.Username,
		remaining,
	))
}
