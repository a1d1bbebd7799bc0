// Package ia provides the AI chat commands organized under /ia
package ia

import (
	"github.com/PancyStudios/GuardianBotGo/pkg/discord"
)

// RegisterIACommands registers the AI commands as /ia subcommands
func RegisterIACommands(client *discord.ExtendedClient) {
	chatCmd := createChatCommand()

	iaGroup := client.CommandHandler.BuildCommandGroup(
		"ia",
		"Comandos de inteligencia artificial",
		chatCmd,
	)

	client.CommandHandler.AddGlobalCommand(iaGroup)
}
