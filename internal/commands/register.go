// Package commands provides a registry for organizing bot commands.
// Commands are organized in subdirectories by category (utils, mod, ia, dev).
package commands

import (
	"github.com/PancyStudios/GuardianBotGo/internal/commands/dev"
	"github.com/PancyStudios/GuardianBotGo/internal/commands/ia"
	"github.com/PancyStudios/GuardianBotGo/internal/commands/mod"
	"github.com/PancyStudios/GuardianBotGo/internal/commands/utils"
	"github.com/PancyStudios/GuardianBotGo/pkg/discord"
)

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient) {
	// Utility commands (/utils ping, /utils userinfo, ...)
	utils.RegisterUtilsCommands(client)

	// Moderation commands (/mod warn, /mod kick, /mod ban, /mod mute, ...)
	mod.RegisterModCommands(client)

	// AI commands (/ia chat)
	ia.RegisterIACommands(client)

	// Dev-only commands, registered solo en el servidor de desarrollo
	dev.Register(client)
}
