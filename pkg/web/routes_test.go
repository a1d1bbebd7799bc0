package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/GuardianBotGo/pkg/models"
	"github.com/PancyStudios/GuardianBotGo/pkg/moderation"
	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testEngine makes sure the global engine exists, backed by an in-memory
// store. Init is a singleton, so every test seeds through the engine's store.
func testEngine(t *testing.T) moderation.Store {
	t.Helper()
	return moderation.Init(moderation.NewMemoryStore(), nil, moderation.Resolver{}).Store()
}

func seedActions(t *testing.T, store moderation.Store, guildID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := store.AppendAction(context.Background(), models.ModerationAction{
			ID:         string(rune('a' + i)),
			GuildID:    guildID,
			UserID:     "user",
			ActionType: models.ActionWarn,
			Moderator:  "mod",
			Timestamp:  time.Now().Unix() + int64(i),
		})
		if err != nil {
			t.Fatalf("AppendAction: %v", err)
		}
	}
}

func performWithParams(handler gin.HandlerFunc, method, target, body string, params gin.Params) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	handler(c)
	return w
}

func TestListActionsHandler(t *testing.T) {
	testEngine(t)
	seedActions(t, moderation.Get().Store(), "g-list", 3)

	w := performWithParams(listActionsHandler, http.MethodGet, "/api/guilds/g-list/moderation/actions", "",
		gin.Params{{Key: "guildId", Value: "g-list"}})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Actions []models.ModerationAction `json:"actions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Actions) != 3 {
		t.Errorf("len(actions) = %d, want 3", len(resp.Actions))
	}
}

func TestListActionsHandlerEmptyGuild(t *testing.T) {
	testEngine(t)

	w := performWithParams(listActionsHandler, http.MethodGet, "/api/guilds/g-empty/moderation/actions", "",
		gin.Params{{Key: "guildId", Value: "g-empty"}})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"actions":[]`) {
		t.Errorf("empty guild should return an empty list, got %s", w.Body.String())
	}
}

func TestGuildStatsHandler(t *testing.T) {
	testEngine(t)
	store := moderation.Get().Store()
	seedActions(t, store, "g-stats", 2)
	_ = store.AppendAction(context.Background(), models.ModerationAction{
		ID: "ban-1", GuildID: "g-stats", UserID: "user", ActionType: models.ActionBan, Moderator: "mod",
	})

	w := performWithParams(guildStatsHandler, http.MethodGet, "/api/guilds/g-stats/stats", "",
		gin.Params{{Key: "guildId", Value: "g-stats"}})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var stats models.ActionStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stats.Warnings != 2 || stats.Bans != 1 {
		t.Errorf("stats = %+v, want 2 warnings and 1 ban", stats)
	}
}

func TestAIToggleHandler(t *testing.T) {
	testEngine(t)

	w := performWithParams(aiToggleHandler, http.MethodPost, "/api/guilds/g-ai/ai/toggle",
		`{"channelId":"chan-1","enabled":false}`,
		gin.Params{{Key: "guildId", Value: "g-ai"}})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	toggle, err := moderation.Get().Store().AIToggle(context.Background(), "g-ai", "chan-1")
	if err != nil {
		t.Fatalf("AIToggle: %v", err)
	}
	if toggle == nil || toggle.Enabled {
		t.Errorf("toggle = %+v, want a stored disabled toggle", toggle)
	}
}

func TestAIToggleHandlerQueryParams(t *testing.T) {
	testEngine(t)

	w := performWithParams(aiToggleHandler, http.MethodPost,
		"/api/guilds/g-ai/ai/toggle?channel_id=chan-q&enabled=true", "",
		gin.Params{{Key: "guildId", Value: "g-ai"}})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	toggle, err := moderation.Get().Store().AIToggle(context.Background(), "g-ai", "chan-q")
	if err != nil {
		t.Fatalf("AIToggle: %v", err)
	}
	if toggle == nil || !toggle.Enabled {
		t.Errorf("toggle = %+v, want a stored enabled toggle", toggle)
	}
}

func TestAIToggleHandlerRejectsMissingChannel(t *testing.T) {
	testEngine(t)

	w := performWithParams(aiToggleHandler, http.MethodPost, "/api/guilds/g-ai/ai/toggle",
		`{"enabled":true}`,
		gin.Params{{Key: "guildId", Value: "g-ai"}})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func newAuthRouter() *gin.Engine {
	r := gin.New()
	r.GET("/protected", requireAuth(), func(c *gin.Context) {
		claims := sessionFrom(c)
		c.JSON(http.StatusOK, gin.H{"userId": claims.UserID})
	})
	return r
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	r := newAuthRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuthRejectsGarbageToken(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	r := newAuthRouter()

	claims := sessionClaims{
		UserID:   "user-1",
		Username: "tester",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Subject:   "user-1",
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(""))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "user-1") {
		t.Errorf("body should carry the session user, got %s", w.Body.String())
	}
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	r := newAuthRouter()

	claims := sessionClaims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(""))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
