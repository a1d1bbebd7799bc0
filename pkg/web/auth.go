package web

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PancyStudios/GuardianBotGo/pkg/config"
	"github.com/PancyStudios/GuardianBotGo/pkg/logger"
	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
)

const discordAPIBase = "https://discord.com/api/v10"

// sessionClaims es lo que viaja dentro del JWT del dashboard. Guarda el
// access token de Discord para poder comprobar los servidores del usuario
// en cada petición protegida.
type sessionClaims struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	AccessToken string `json:"accessToken"`
	jwt.RegisteredClaims
}

// loginHandler redirects to the Discord OAuth consent page
func loginHandler(c *gin.Context) {
	cfg := config.Get()

	params := url.Values{}
	params.Set("client_id", cfg.DiscordClientID)
	params.Set("redirect_uri", cfg.DiscordRedirectURI)
	params.Set("response_type", "code")
	params.Set("scope", "identify guilds")

	c.Redirect(http.StatusTemporaryRedirect, discordAPIBase+"/oauth2/authorize?"+params.Encode())
}

// callbackHandler exchanges the OAuth code and issues a session JWT
func callbackHandler(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Falta el código de autorización."})
		return
	}

	cfg := config.Get()

	form := url.Values{}
	form.Set("client_id", cfg.DiscordClientID)
	form.Set("client_secret", cfg.DiscordClientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", cfg.DiscordRedirectURI)

	resp, err := http.Post(
		discordAPIBase+"/oauth2/token",
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		logger.Error(fmt.Sprintf("Fallo al intercambiar el código OAuth: %v", err), "WebServer")
		c.JSON(http.StatusBadGateway, gin.H{"error": "No se pudo contactar con Discord."})
		return
	}
	defer resp.Body.Close()

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := decodeBody(resp.Body, &token); err != nil || token.AccessToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "El código de autorización no es válido."})
		return
	}

	user, err := discordUser(token.AccessToken)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "No se pudo obtener el usuario de Discord."})
		return
	}

	claims := sessionClaims{
		UserID:      user.ID,
		Username:    user.Username,
		AccessToken: token.AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
			Subject:   user.ID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear la sesión."})
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, cfg.FrontendURL+"/login?token="+url.QueryEscape(signed))
}

// meHandler returns the authenticated session's identity
func meHandler(c *gin.Context) {
	claims := sessionFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"userId":   claims.UserID,
		"username": claims.Username,
	})
}

// requireAuth validates the bearer JWT and stores the claims in the context
func requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == "" || tokenString == header {
			// El feed en vivo no puede mandar cabeceras desde el navegador
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sesión no iniciada."})
			return
		}

		claims := &sessionClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
			}
			return []byte(config.Get().JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "La sesión ha expirado o no es válida."})
			return
		}

		c.Set("session", claims)
		c.Next()
	}
}

// requireGuildAdmin verifica que el usuario administra el servidor de la ruta
func requireGuildAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := sessionFrom(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sesión no iniciada."})
			return
		}

		ok, err := userManagesGuild(claims.AccessToken, c.Param("guildId"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "No se pudieron verificar tus servidores."})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No administras este servidor."})
			return
		}
		c.Next()
	}
}

// sessionFrom extracts the validated claims placed by requireAuth
func sessionFrom(c *gin.Context) *sessionClaims {
	v, exists := c.Get("session")
	if !exists {
		return nil
	}
	claims, _ := v.(*sessionClaims)
	return claims
}

type discordUserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// discordUser fetches the OAuth user's identity
func discordUser(accessToken string) (*discordUserInfo, error) {
	var user discordUserInfo
	if err := discordGet(accessToken, "/users/@me", &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, fmt.Errorf("respuesta de usuario vacía")
	}
	return &user, nil
}

// userManagesGuild reports whether the user owns or administers the guild
func userManagesGuild(accessToken, guildID string) (bool, error) {
	var guilds []struct {
		ID          string `json:"id"`
		Owner       bool   `json:"owner"`
		Permissions string `json:"permissions"`
	}
	if err := discordGet(accessToken, "/users/@me/guilds", &guilds); err != nil {
		return false, err
	}

	for _, g := range guilds {
		if g.ID != guildID {
			continue
		}
		if g.Owner {
			return true, nil
		}
		perms, err := strconv.ParseInt(g.Permissions, 10, 64)
		if err != nil {
			return false, nil
		}
		const administrator = 1 << 3
		return perms&administrator != 0, nil
	}
	return false, nil
}

// discordGet performs an authenticated GET against the Discord API
func discordGet(accessToken, path string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, discordAPIBase+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("discord respondió con estado %d", resp.StatusCode)
	}
	return decodeBody(resp.Body, out)
}

// decodeBody decodes a JSON response body
func decodeBody(body io.Reader, out interface{}) error {
	raw, err := io.ReadAll(io.LimitReader(body, 1<<20))
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
