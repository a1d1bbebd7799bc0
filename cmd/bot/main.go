// Package main is the entry point for the GuardianBot Go application.
// It initializes all systems and starts the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/PancyStudios/GuardianBotGo/internal/commands"
	"github.com/PancyStudios/GuardianBotGo/internal/events"
	"github.com/PancyStudios/GuardianBotGo/pkg/ai"
	"github.com/PancyStudios/GuardianBotGo/pkg/config"
	"github.com/PancyStudios/GuardianBotGo/pkg/database"
	"github.com/PancyStudios/GuardianBotGo/pkg/discord"
	"github.com/PancyStudios/GuardianBotGo/pkg/errors"
	"github.com/PancyStudios/GuardianBotGo/pkg/logger"
	"github.com/PancyStudios/GuardianBotGo/pkg/moderation"
	"github.com/PancyStudios/GuardianBotGo/pkg/models"
	"github.com/PancyStudios/GuardianBotGo/pkg/mqtt"
	"github.com/PancyStudios/GuardianBotGo/pkg/web"
	"github.com/bwmarrin/discordgo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("Iniciando GuardianBot Go...", "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	for _, warning := range cfg.Warnings() {
		logger.Warn(warning, "Main")
	}

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	errors.Init(cfg.ErrorWebhook, func() {
		if discordClient != nil {
			err := discordClient.Stop()
			if err != nil {
				return
			}
		}
	})

	// Initialize database
	db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
	if err != nil {
		logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
		logger.Debug(fmt.Sprintf("Error connecting to database: %v", cfg.MongoDBURL), "Main")
		// Continue without database- it will attempt to reconnect
	}
	defer func() {
		if db != nil {
			err := db.Disconnect()
			if err != nil {
				return
			}
		}
	}()

	// El motor escribe contra Mongo; sin conexión, contra memoria (los
	// registros no sobreviven al reinicio y se avisa en el arranque).
	var store moderation.Store
	if db != nil && db.Connected() {
		store = database.NewMongoStore(db)
	} else {
		logger.Warn("Sin base de datos: usando registros en memoria", "Main")
		store = moderation.NewMemoryStore()
	}

	// Initialize MQTT
	mqttClientID := "guardianbot"
	if !cfg.IsProd() {
		mqttClientID = "guardianbot_canary"
	}

	mqttClient := mqtt.Init(
		cfg.MQTTHost,
		cfg.MQTTPort,
		cfg.MQTTUser,
		cfg.MQTTPassword,
		mqttClientID,
	)
	defer mqttClient.Destroy()

	// Initialize AI gateway
	ai.Init(cfg.OpenAIAPIKey, cfg.OpenAIModel)

	// Initialize web server (dashboard API + live feed)
	webServer := web.Init(cfg.LogsWebServerHook)
	web.SetupAPIRoutes(webServer)
	webServer.StartAsync(cfg.Port)

	// Initialize Discord client
	discordClient, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}

	// Initialize the moderation engine and fan out completed actions to the
	// dashboard feed, the MQTT bus and the guild's log channel.
	engine := moderation.Init(store, discord.NewPlatformAdapter(discordClient.Session), moderation.Resolver{OwnerID: cfg.OwnerID})
	engine.OnAction = func(a models.ModerationAction) {
		web.Feed().Broadcast(a)
		mqttClient.PublishModerationAction(a)
		sendModLog(discordClient.Session, engine, a)
	}

	// Responder peticiones de estadísticas por MQTT
	mqttClient.On("stats", func(payload map[string]interface{}) (interface{}, error) {
		guildID, _ := payload["guildId"].(string)
		if guildID == "" {
			return nil, fmt.Errorf("falta guildId")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return engine.Store().CountActions(ctx, guildID)
	})

	// Register commands using the commands package
	commands.RegisterAll(discordClient)

	// Register events using the events package
	events.RegisterAll(discordClient)

	// Start the bot
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}
	defer func(discordClient *discord.ExtendedClient) {
		err := discordClient.Stop()
		if err != nil {

		}
	}(discordClient)

	logger.Success("GuardianBot Go iniciado correctamente!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Apagando GuardianBot Go...", "Main")
}

// sendModLog posts a moderation embed to the guild's configured log channel
func sendModLog(s *discordgo.Session, engine *moderation.Engine, a models.ModerationAction) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	settings, err := engine.Store().Settings(ctx, a.GuildID)
	if err != nil || settings.LogChannelID == "" {
		return
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Usuario", Value: fmt.Sprintf("<@%s>", a.UserID), Inline: true},
		{Name: "Moderador", Value: fmt.Sprintf("<@%s>", a.Moderator), Inline: true},
		{Name: "Razón", Value: a.Reason, Inline: false},
	}
	if a.DurationMinutes > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Duración", Value: fmt.Sprintf("%d minutos", a.DurationMinutes), Inline: true,
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("🛡️ Acción: %s", strings.ToUpper(a.ActionType)),
		Color:     0xe67e22,
		Fields:    fields,
		Footer:    &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("ID: %s", a.ID)},
		Timestamp: time.Unix(a.Timestamp, 0).Format(time.RFC3339),
	}

	if _, err := s.ChannelMessageSendEmbed(settings.LogChannelID, embed); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo enviar al canal de logs %s: %v", settings.LogChannelID, err), "Main")
	}
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
