package mod

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/GuardianBotGo/pkg/discord"
	"github.com/PancyStudios/GuardianBotGo/pkg/errors"
	"github.com/PancyStudios/GuardianBotGo/pkg/logger"
	"github.com/PancyStudios/GuardianBotGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createWarningsCommand creates the /mod warns subcommand
func createWarningsCommand() *discord.Command {
	return discord.NewCommand(
		"warns",
		"Lista de advertencias de un usuario",
		"mod",
		warningsHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "[STAFF] Usuario a buscar (opcional)",
			Required:    false,
		},
	).RequiresDatabase()
}

func warningsHandler(ctx *discord.CommandContext) error {
	// Goroutine para no bloquear el hilo principal
	go func() {
		defer errors.RecoverMiddleware()()

		targetUser := ctx.GetUserOption("usuario")
		isSelf := false

		actor := ctx.Actor()
		isModerator := moderation.Get().Resolver().HasPermission(actor, moderation.PermissionModerateMembers)

		if targetUser == nil {
			targetUser = ctx.User()
			isSelf = true
		}

		// Cualquiera puede ver sus propias advertencias; las ajenas son de staff
		if !isSelf && !isModerator {
			ctx.ReplyEphemeral("❌ No tienes permisos para ver la lista de advertencias de otro usuario.")
			return
		}

		embedLoading := &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("🔖 - Lista de advertencias de %s", targetUser.Username),
			Description: "Espere un momento mientras obtenemos las advertencias...",
			Color:       0x3498db, // Blue
			Footer: &discordgo.MessageEmbedFooter{
				Text:    "🛡️ - Developed by PancyStudios",
				IconURL: ctx.Guild().IconURL(""),
			},
		}

		if err := ctx.ReplyEphemeralEmbed(embedLoading); err != nil {
			logger.Error(fmt.Sprintf("Error enviando reply inicial warns: %v", err), "CMD-Warns")
			return
		}

		warns, err := moderation.Get().Warnings(context.Background(), ctx.Interaction.GuildID, targetUser.ID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error consultando advertencias: %v", err), "CMD-Warns")
			ctx.EditReply("❌ Error al consultar la base de datos.")
			return
		}

		if len(warns) == 0 {
			ctx.EditReplyEmbed(&discordgo.MessageEmbed{
				Title:       fmt.Sprintf("🔖 - Lista de advertencias de %s", targetUser.Username),
				Color:       0x00FF00, // Green
				Description: fmt.Sprintf("No se han encontrado advertencias del usuario en este servidor\n\n> 🛡️ - **Cantidad de advertencias:** 0\n> 🕒 - **Fecha de consulta:** <t:%d>", time.Now().Unix()),
				Footer: &discordgo.MessageEmbedFooter{
					Text:    "🛡️ - Developed by PancyStudios",
					IconURL: ctx.Guild().IconURL(""),
				},
			})
			return
		}

		embedList := &discordgo.MessageEmbed{
			Title: fmt.Sprintf("🔖 - Lista de advertencias de %s (%s)", targetUser.Username, targetUser.ID),
			Color: 0xFFA500, // Orange
			Footer: &discordgo.MessageEmbedFooter{
				Text:    "🛡️ - Developed by PancyStudios",
				IconURL: ctx.Guild().IconURL(""),
			},
		}

		var description string
		for _, warn := range warns {
			modName := "Oculto"
			if isModerator {
				modUser, err := ctx.Session.User(warn.Moderator)
				if err == nil {
					modName = modUser.Username
				} else {
					modName = warn.Moderator
				}
			}
			description += fmt.Sprintf("> **Advertencia:** %s \n> **Moderador:** %s \n> **ID:** `%s` \n> **Fecha:** <t:%d>\n\n", warn.Reason, modName, warn.ID, warn.Timestamp)
		}
		description += fmt.Sprintf("> 🛡️ - **Cantidad de advertencias:** %d \n> 🕒 - **Fecha de consulta:** <t:%d>", len(warns), time.Now().Unix())

		embedList.Description = description
		ctx.EditReplyEmbed(embedList)
	}()

	return nil
}
