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

// createUserInfoCommand creates the /utils userinfo subcommand
func createUserInfoCommand() *discord.Command {
	return discord.NewCommand(
		"userinfo",
		"Muestra información de un usuario",
		"utils",
		userInfoHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a consultar (por defecto, tú)",
			Required:    false,
		},
	)
}

// userInfoHandler handles the /utils userinfo command
func userInfoHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		user := ctx.GetUserOption("usuario")
		if user == nil {
			user = ctx.User()
		}

		warnCount := 0
		if engine := moderation.Get(); engine != nil {
			warns, err := engine.Warnings(context.Background(), ctx.Interaction.GuildID, user.ID)
			if err != nil {
				logger.Warn(fmt.Sprintf("No se pudieron contar las advertencias de %s: %v", user.ID, err), "CMD-UserInfo")
			} else {
				warnCount = len(warns)
			}
		}

		joinedAt := "Desconocida"
		roleCount := 0
		member, err := ctx.Session.State.Member(ctx.Interaction.GuildID, user.ID)
		if err == nil && member != nil {
			joinedAt = fmt.Sprintf("<t:%d>", member.JoinedAt.Unix())
			roleCount = len(member.Roles)
		}

		embed := &discordgo.MessageEmbed{
			Title: fmt.Sprintf("👤 Información de %s", user.Username),
			Color: 0x5865F2,
			Thumbnail: &discordgo.MessageEmbedThumbnail{
				URL: user.AvatarURL("256"),
			},
			Fields: []*discordgo.MessageEmbedField{
				{Name: "🆔 ID", Value: user.ID, Inline: true},
				{Name: "🏷 Roles", Value: fmt.Sprintf("%d", roleCount), Inline: true},
				{Name: "⚠️ Advertencias", Value: fmt.Sprintf("%d", warnCount), Inline: true},
				{Name: "📥 Se unió", Value: joinedAt, Inline: true},
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
