// Package ia - /ia chat command
package ia

import (
	"context"
	"fmt"

	"github.com/PancyStudios/GuardianBotGo/pkg/ai"
	"github.com/PancyStudios/GuardianBotGo/pkg/discord"
	"github.com/PancyStudios/GuardianBotGo/pkg/errors"
	"github.com/PancyStudios/GuardianBotGo/pkg/logger"
	"github.com/PancyStudios/GuardianBotGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createChatCommand creates the /ia chat subcommand
func createChatCommand() *discord.Command {
	return discord.NewCommand(
		"chat",
		"Habla con la IA del servidor",
		"ia",
		chatHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "mensaje",
			Description: "Lo que quieres preguntarle a la IA",
			Required:    true,
		},
	)
}

// chatHandler handles the /ia chat command
func chatHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		prompt := ctx.GetStringOption("mensaje")
		if prompt == "" {
			ctx.ReplyEphemeral("❌ Debes escribir un mensaje.")
			return
		}

		enabled, err := moderation.Get().AIEnabled(context.Background(), ctx.Interaction.GuildID, ctx.Interaction.ChannelID)
		if err != nil {
			logger.Warn(fmt.Sprintf("No se pudo resolver el estado de la IA: %v", err), "CMD-IA")
			ctx.ReplyEphemeral("❌ No se pudo comprobar la configuración de IA del canal.")
			return
		}
		if !enabled {
			ctx.ReplyEphemeral("🤖 La IA está desactivada en este canal.")
			return
		}

		// La respuesta del modelo puede tardar más que la ventana de 3s
		if err := ctx.Defer(); err != nil {
			logger.Error(fmt.Sprintf("Error al diferir la respuesta de IA: %v", err), "CMD-IA")
			return
		}

		reply, err := ai.Get().Chat(context.Background(), prompt)
		if err != nil {
			logger.Warn(fmt.Sprintf("La IA degradó la respuesta: %v", err), "CMD-IA")
		}
		if len(reply) > 1990 {
			reply = reply[:1990] + "…"
		}

		ctx.EditReply(reply)
	}()
	return nil
}
