// Package events provides event handlers for message events
package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/GuardianBotGo/pkg/ai"
	"github.com/PancyStudios/GuardianBotGo/pkg/discord"
	"github.com/PancyStudios/GuardianBotGo/pkg/logger"
	"github.com/PancyStudios/GuardianBotGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// linkPatterns son los fragmentos que el filtro AntiLink busca en los mensajes
var linkPatterns = []string{
	"http://",
	"https://",
	"discord.gg/",
	"discord.com/invite/",
	"www.",
}

// swearWords es la lista por defecto del filtro AntiSwear
var swearWords = []string{
	"idiota",
	"imbecil",
	"imbécil",
	"estupido",
	"estúpido",
	"pendejo",
	"puta",
	"puto",
	"mierda",
	"cabron",
	"cabrón",
}

// RegisterMessageEvents registers all message-related event handlers
func RegisterMessageEvents(client *discord.ExtendedClient) {
	client.Session.AddHandler(onMessageCreate)
	client.Session.AddHandler(onMessageUpdate)
	client.Session.AddHandler(onMessageDelete)
}

// onMessageCreate is called when a new message is created
func onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignorar mensajes de bots y DMs
	if m.Author.Bot || m.GuildID == "" {
		return
	}

	engine := moderation.Get()
	if engine == nil {
		return
	}

	settings, err := engine.Store().Settings(context.Background(), m.GuildID)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo leer la configuración del servidor %s: %v", m.GuildID, err), "Message")
		return
	}

	// Filtros automáticos (los moderadores están exentos)
	if (settings.AntiLink || settings.AntiSwear) && !canManageMessages(s, m.Message) {
		if settings.AntiLink && containsLink(m.Content) {
			deleteAndNotify(s, m, "🔗 Los enlaces no están permitidos en este servidor.")
			return
		}
		if settings.AntiSwear && containsSwear(m.Content) {
			deleteAndNotify(s, m, "🤬 Ese lenguaje no está permitido en este servidor.")
			return
		}
	}

	// Responder con IA cuando mencionan al bot
	if mentionsBot(s, m.Message) {
		replyWithAI(s, m, engine)
	}
}

// canManageMessages reports whether the author can manage messages in the channel
func canManageMessages(s *discordgo.Session, m *discordgo.Message) bool {
	perms, err := s.State.MessagePermissions(m)
	if err != nil {
		return false
	}
	return perms&discordgo.PermissionManageMessages != 0
}

func containsLink(content string) bool {
	lowered := strings.ToLower(content)
	for _, pattern := range linkPatterns {
		if strings.Contains(lowered, pattern) {
			return true
		}
	}
	return false
}

func containsSwear(content string) bool {
	lowered := strings.ToLower(content)
	for _, word := range swearWords {
		for _, field := range strings.Fields(lowered) {
			if field == word {
				return true
			}
		}
	}
	return false
}

// deleteAndNotify removes the offending message and posts a short-lived notice
func deleteAndNotify(s *discordgo.Session, m *discordgo.MessageCreate, notice string) {
	if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo eliminar el mensaje %s: %v", m.ID, err), "Message")
		return
	}

	msg, err := s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("<@%s> %s", m.Author.ID, notice))
	if err != nil {
		logger.Debug(fmt.Sprintf("Error enviando aviso de filtro: %v", err), "Message")
		return
	}

	// El aviso se borra solo a los pocos segundos
	go func() {
		time.Sleep(7 * time.Second)
		_ = s.ChannelMessageDelete(msg.ChannelID, msg.ID)
	}()
}

func mentionsBot(s *discordgo.Session, m *discordgo.Message) bool {
	if s.State.User == nil {
		return false
	}
	for _, mention := range m.Mentions {
		if mention.ID == s.State.User.ID {
			return true
		}
	}
	return false
}

// replyWithAI answers a bot mention using the AI gateway, honoring the
// per-channel toggle
func replyWithAI(s *discordgo.Session, m *discordgo.MessageCreate, engine *moderation.Engine) {
	enabled, err := engine.AIEnabled(context.Background(), m.GuildID, m.ChannelID)
	if err != nil {
		logger.Warn(fmt.Sprintf("Error comprobando estado de IA: %v", err), "Message")
		return
	}
	if !enabled {
		return
	}

	prompt := stripBotMention(s, m.Content)
	if prompt == "" {
		prompt = "Hola"
	}

	go func() {
		_ = s.ChannelTyping(m.ChannelID)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		reply, aiErr := ai.Get().Chat(ctx, prompt)
		if aiErr != nil {
			logger.Warn(fmt.Sprintf("Fallo de IA en canal %s: %v", m.ChannelID, aiErr), "Message")
		}

		if len(reply) > 1990 {
			reply = reply[:1990] + "…"
		}

		if _, sendErr := s.ChannelMessageSendReply(m.ChannelID, reply, m.Reference()); sendErr != nil {
			logger.Error(fmt.Sprintf("Error enviando respuesta de IA: %v", sendErr), "Message")
		}
	}()
}

func stripBotMention(s *discordgo.Session, content string) string {
	if s.State.User == nil {
		return strings.TrimSpace(content)
	}
	id := s.State.User.ID
	content = strings.ReplaceAll(content, "<@"+id+">", "")
	content = strings.ReplaceAll(content, "<@!"+id+">", "")
	return strings.TrimSpace(content)
}

// onMessageUpdate is called when a message is edited
func onMessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	if m.Author != nil && !m.Author.Bot {
		logger.Debug(fmt.Sprintf("✏️ Mensaje editado por %s en canal %s",
			m.Author.Username, m.ChannelID), "Message")
	}
}

// onMessageDelete is called when a message is deleted
func onMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	logger.Debug(fmt.Sprintf("🗑️ Mensaje eliminado: ID %s en canal %s",
		m.ID, m.ChannelID), "Message")
}
