// Package mod - /mod unban command
package mod

import (
	"context"
	"fmt"

	"github.com/PancyStudios/GuardianBotGo/pkg/discord"
	"github.com/PancyStudios/GuardianBotGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createUnbanCommand creates the /mod unban subcommand
func createUnbanCommand() *discord.Command {
	return discord.NewCommand(
		"unban",
		"Levanta el baneo de un usuario",
		"mod",
		unbanHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "ID del usuario baneado",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionBanMembers).
		RequiresDatabase()
}

// unbanHandler handles the /mod unban command. El objetivo ya no es miembro,
// por eso se identifica por ID y no hay opción de usuario.
func unbanHandler(ctx *discord.CommandContext) error {
	userID := ctx.GetStringOption("id")

	engine := moderation.Get()
	err := engine.Unban(context.Background(), ctx.Interaction.GuildID, ctx.Actor(), userID)
	if err != nil {
		return replyEngineError(ctx, err)
	}

	return ctx.Reply(fmt.Sprintf("🕊️ El baneo de <@%s> ha sido levantado.", userID))
}
