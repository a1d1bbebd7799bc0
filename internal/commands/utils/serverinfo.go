package utils

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

// createServerInfoCommand creates the /utils serverinfo subcommand
func createServerInfoCommand() *discord.Command {
	return discord.NewCommand(
		"serverinfo",
		"Muestra información del servidor",
		"utils",
		serverInfoHandler,
	)
}

// serverInfoHandler handles the /utils serverinfo command
func serverInfoHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		guild := ctx.Guild()
		if guild == nil {
			ctx.ReplyEphemeral("❌ Este comando solo funciona dentro de un servidor.")
			return
		}

		var statsLine string
		if engine := moderation.Get(); engine != nil {
			stats, err := engine.Store().CountActions(context.Background(), guild.ID)
			if err != nil {
				logger.Warn(fmt.Sprintf("No se pudieron obtener las estadísticas de %s: %v", guild.ID, err), "CMD-ServerInfo")
				statsLine = "No disponibles"
			} else {
				statsLine = fmt.Sprintf("%d advertencias, %d baneos, %d expulsiones, %d silencios",
					stats.Warnings, stats.Bans, stats.Kicks, stats.Mutes)
			}
		}

		embed := &discordgo.MessageEmbed{
			Title: fmt.Sprintf("🏠 Información de %s", guild.Name),
			Color: 0x5865F2,
			Thumbnail: &discordgo.MessageEmbedThumbnail{
				URL: guild.IconURL("256"),
			},
			Fields: []*discordgo.MessageEmbedField{
				{Name: "🆔 ID", Value: guild.ID, Inline: true},
				{Name: "👥 Miembros", Value: fmt.Sprintf("%d", guild.MemberCount), Inline: true},
				{Name: "🏷 Roles", Value: fmt.Sprintf("%d", len(guild.Roles)), Inline: true},
				{Name: "👑 Propietario", Value: fmt.Sprintf("<@%s>", guild.OwnerID), Inline: true},
				{Name: "🛡️ Moderación", Value: statsLine, Inline: false},
			},
			Footer: &discordgo.MessageEmbedFooter{
				Text: "🛡️ - Developed by PancyStudios",
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}

		ctx.ReplyEmbed(embed)
	}()
	return nil
}
