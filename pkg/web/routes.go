// Package web provides API routes for the web server.
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/PancyStudios/GuardianBotGo/pkg/database"
	"github.com/PancyStudios/GuardianBotGo/pkg/discord"
	"github.com/PancyStudios/GuardianBotGo/pkg/models"
	"github.com/PancyStudios/GuardianBotGo/pkg/moderation"
	"github.com/gin-gonic/gin"
)

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server) {
	api := s.Group("/api")
	{
		api.GET("/status", statusHandler)
		api.GET("/health", healthHandler)
		api.GET("/bot", botInfoHandler)

		auth := api.Group("/auth")
		{
			auth.GET("/login", loginHandler)
			auth.GET("/callback", callbackHandler)
			auth.GET("/me", requireAuth(), meHandler)
		}

		guilds := api.Group("/guilds/:guildId", requireAuth(), requireGuildAdmin())
		{
			guilds.GET("/stats", guildStatsHandler)
			guilds.GET("/moderation/actions", listActionsHandler)
			guilds.DELETE("/moderation/actions/:actionId", deleteActionHandler)
			guilds.GET("/settings", getSettingsHandler)
			guilds.POST("/settings", saveSettingsHandler)
			guilds.GET("/ai/settings", aiSettingsHandler)
			guilds.POST("/ai/toggle", aiToggleHandler)
		}

		api.GET("/live", requireAuth(), liveHandler)
	}
}

// statusHandler returns the bot and database status
func statusHandler(c *gin.Context) {
	db := database.Get()
	client := discord.Get()

	dbStatus, dbOnline := db.GetStatus()

	botOnline := false
	if client != nil {
		botOnline = client.IsReady()
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"database": gin.H{
			"status":   dbStatus,
			"isOnline": dbOnline,
		},
		"bot": gin.H{
			"isOnline": botOnline,
		},
	})
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "GuardianBot Go is running",
	})
}

// botInfoHandler returns information about the bot
func botInfoHandler(c *gin.Context) {
	client := discord.Get()

	if client == nil || !client.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "El bot no está disponible en este momento.",
		})
		return
	}

	user := client.Session.State.User

	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"discriminator": user.Discriminator,
		"avatar":        user.Avatar,
		"guilds":        client.GuildCount(),
		"isReady":       client.IsReady(),
	})
}

// guildStatsHandler returns the per-action counters for a guild
func guildStatsHandler(c *gin.Context) {
	engine := moderation.Get()
	stats, err := engine.Store().CountActions(c.Request.Context(), c.Param("guildId"))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No se pudieron obtener las estadísticas."})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// listActionsHandler returns the moderation history, newest first
func listActionsHandler(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	engine := moderation.Get()
	actions, err := engine.Store().Actions(c.Request.Context(), c.Param("guildId"), limit, offset)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No se pudo obtener el historial."})
		return
	}
	if actions == nil {
		actions = []models.ModerationAction{}
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions, "limit": limit, "offset": offset})
}

// deleteActionHandler removes one history entry
func deleteActionHandler(c *gin.Context) {
	engine := moderation.Get()
	removed, err := engine.Store().DeleteAction(c.Request.Context(), c.Param("guildId"), c.Param("actionId"))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No se pudo eliminar la entrada."})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "La entrada no existe."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// getSettingsHandler returns the guild settings, defaults included
func getSettingsHandler(c *gin.Context) {
	engine := moderation.Get()
	settings, err := engine.Store().Settings(c.Request.Context(), c.Param("guildId"))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No se pudo obtener la configuración."})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// saveSettingsHandler replaces the guild settings
func saveSettingsHandler(c *gin.Context) {
	var settings models.GuildSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido."})
		return
	}
	settings.GuildID = c.Param("guildId")

	engine := moderation.Get()
	if err := engine.Store().SaveSettings(c.Request.Context(), settings); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No se pudo guardar la configuración."})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// aiSettingsHandler lists the explicit per-channel AI toggles
func aiSettingsHandler(c *gin.Context) {
	engine := moderation.Get()
	toggles, err := engine.Store().AIToggles(c.Request.Context(), c.Param("guildId"))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No se pudo obtener la configuración de IA."})
		return
	}
	if toggles == nil {
		toggles = []models.AIChannelSetting{}
	}
	c.JSON(http.StatusOK, gin.H{"channels": toggles})
}

// aiToggleHandler sets the explicit AI toggle for one channel. Acepta el
// par canal/estado como query params (?channel_id&enabled) o como cuerpo JSON.
func aiToggleHandler(c *gin.Context) {
	channelID := c.Query("channel_id")
	enabled := c.Query("enabled") == "true" || c.Query("enabled") == "1"

	if channelID == "" {
		var body struct {
			ChannelID string `json:"channelId" binding:"required"`
			Enabled   bool   `json:"enabled"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Debes indicar channelId y enabled."})
			return
		}
		channelID = body.ChannelID
		enabled = body.Enabled
	}

	toggle := models.AIChannelSetting{
		GuildID:   c.Param("guildId"),
		ChannelID: channelID,
		Enabled:   enabled,
		UpdatedAt: time.Now().Unix(),
	}

	engine := moderation.Get()
	if err := engine.Store().SetAIToggle(c.Request.Context(), toggle); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No se pudo guardar el toggle."})
		return
	}
	c.JSON(http.StatusOK, toggle)
}
