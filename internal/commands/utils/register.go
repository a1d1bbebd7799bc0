package utils

import (
	"github.com/PancyStudios/GuardianBotGo/pkg/discord"
)

// RegisterUtilsCommands registers all utility commands as /utils subcommands
func RegisterUtilsCommands(client *discord.ExtendedClient) {
	// Create individual subcommands (each can be in its own file)
	pingCmd := createPingCommand()
	statusCmd := createStatusCommand()
	helpCmd := createHelpCommand()
	statsCmd := createStatsCommand()
	userInfoCmd := createUserInfoCommand()
	serverInfoCmd := createServerInfoCommand()

	// Build the /utils command group with all subcommands
	modGroup := client.CommandHandler.BuildCommandGroup(
		"utils",
		"Comandos de utilidad",
		pingCmd,
		statusCmd,
		helpCmd,
		statsCmd,
		userInfoCmd,
		serverInfoCmd,
	)

	// Register the command group
	client.CommandHandler.AddGlobalCommand(modGroup)
}
