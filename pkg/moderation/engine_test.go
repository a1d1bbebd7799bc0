package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PancyStudios/GuardianBotGo/pkg/models"
)

// fakePlatform records calls and can be told to fail
type fakePlatform struct {
	kicks       int
	bans        int
	unbans      int
	timeouts    int
	bulkDeletes int
	lastUntil   *time.Time
	failWith    error
}

func (p *fakePlatform) Kick(_ context.Context, _, _, _ string) error {
	if p.failWith != nil {
		return p.failWith
	}
	p.kicks++
	return nil
}

func (p *fakePlatform) Ban(_ context.Context, _, _, _ string) error {
	if p.failWith != nil {
		return p.failWith
	}
	p.bans++
	return nil
}

func (p *fakePlatform) Unban(_ context.Context, _, _ string) error {
	if p.failWith != nil {
		return p.failWith
	}
	p.unbans++
	return nil
}

func (p *fakePlatform) Timeout(_ context.Context, _, _ string, until *time.Time, _ string) error {
	if p.failWith != nil {
		return p.failWith
	}
	p.timeouts++
	p.lastUntil = until
	return nil
}

func (p *fakePlatform) BulkDelete(_ context.Context, _ string, count int) (int, error) {
	if p.failWith != nil {
		return 0, p.failWith
	}
	p.bulkDeletes++
	return count, nil
}

// failingStore wraps a Store and fails the record writes the engine makes
// after the external action succeeded.
type failingStore struct {
	Store
}

var errStoreDown = errors.New("store down")

func (s *failingStore) UpsertBan(context.Context, models.BanDocument) error   { return errStoreDown }
func (s *failingStore) UpsertMute(context.Context, models.MuteDocument) error { return errStoreDown }
func (s *failingStore) DeleteMute(context.Context, string, string) error      { return errStoreDown }
func (s *failingStore) DeleteBan(context.Context, string, string) error       { return errStoreDown }
func (s *failingStore) AppendAction(context.Context, models.ModerationAction) error {
	return errStoreDown
}

var (
	mod    = Actor{ID: "mod", RolePosition: 10, Permissions: PermissionKickMembers | PermissionBanMembers | PermissionManageMessages | PermissionModerateMembers}
	victim = Target{ID: "victim", RolePosition: 1}
)

func newTestEngine() (*Engine, *MemoryStore, *fakePlatform) {
	store := NewMemoryStore()
	platform := &fakePlatform{}
	return NewEngine(store, platform, Resolver{OwnerID: "owner"}), store, platform
}

func TestWarnIncrementsCount(t *testing.T) {
	e, _, _ := newTestEngine()
	ctx := context.Background()

	count, warn, err := e.Warn(ctx, "g1", mod, "victim", "spam")
	if err != nil {
		t.Fatalf("Warn() error: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if warn.ID == "" || warn.Reason != "spam" || warn.Moderator != "mod" {
		t.Errorf("unexpected warn: %+v", warn)
	}

	list, err := e.Warnings(ctx, "g1", "victim")
	if err != nil {
		t.Fatalf("Warnings() error: %v", err)
	}
	if len(list) != count {
		t.Errorf("returned count %d does not match stored length %d", count, len(list))
	}
}

func TestWarnRequiresReason(t *testing.T) {
	e, _, _ := newTestEngine()

	_, _, err := e.Warn(context.Background(), "g1", mod, "victim", "")
	if !IsKind(err, KindValidation) {
		t.Errorf("expected KindValidation, got %v", err)
	}
}

func TestWarnPermissionDenied(t *testing.T) {
	e, store, _ := newTestEngine()
	nobody := Actor{ID: "nobody", RolePosition: 10, Permissions: 0}

	_, _, err := e.Warn(context.Background(), "g1", nobody, "victim", "spam")
	if !IsKind(err, KindPermissionDenied) {
		t.Errorf("expected KindPermissionDenied, got %v", err)
	}

	list, _ := store.Warnings(context.Background(), "g1", "victim")
	if len(list) != 0 {
		t.Error("denied warn must not touch the store")
	}
}

// Warn twice, delete the first by id, the second entry stays intact.
func TestWarnRemoveScenario(t *testing.T) {
	e, _, _ := newTestEngine()
	ctx := context.Background()

	_, first, err := e.Warn(ctx, "g1", mod, "victim", "spam")
	if err != nil {
		t.Fatal(err)
	}
	count, second, err := e.Warn(ctx, "g1", mod, "victim", "flood")
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("count after second warn = %d, want 2", count)
	}

	remaining, removed, err := e.RemoveWarning(ctx, "g1", mod, "victim", first.ID)
	if err != nil {
		t.Fatalf("RemoveWarning() error: %v", err)
	}
	if !removed || remaining != 1 {
		t.Fatalf("removed=%v remaining=%d, want true/1", removed, remaining)
	}

	list, _ := e.Warnings(ctx, "g1", "victim")
	if len(list) != 1 || list[0].ID != second.ID || list[0].Reason != "flood" {
		t.Errorf("second warning should survive, got %+v", list)
	}
}

func TestRemoveWarningUnknownIDIsNoop(t *testing.T) {
	e, _, _ := newTestEngine()
	ctx := context.Background()

	e.Warn(ctx, "g1", mod, "victim", "spam")

	remaining, removed, err := e.RemoveWarning(ctx, "g1", mod, "victim", "no-such-id")
	if err != nil {
		t.Fatalf("unknown id must not error, got %v", err)
	}
	if removed {
		t.Error("removed should be false for an unknown id")
	}
	if remaining != 1 {
		t.Errorf("remaining = %d, want 1 (list unchanged)", remaining)
	}
}

func TestSelfTargetAlwaysDenied(t *testing.T) {
	e, _, platform := newTestEngine()
	ctx := context.Background()

	// Even the owner override cannot act on itself
	owner := Actor{ID: "owner", RolePosition: 0, Permissions: 0}
	selfOwner := Target{ID: "owner", RolePosition: 0}
	self := Target{ID: "mod", RolePosition: 10}

	cases := []struct {
		name string
		call func() error
	}{
		{"kick self", func() error { return e.Kick(ctx, "g1", mod, self, "x") }},
		{"ban self", func() error { return e.Ban(ctx, "g1", mod, self, "x") }},
		{"mute self", func() error { return e.Mute(ctx, "g1", mod, self, 10, "x") }},
		{"owner kick self", func() error { return e.Kick(ctx, "g1", owner, selfOwner, "x") }},
		{"owner ban self", func() error { return e.Ban(ctx, "g1", owner, selfOwner, "x") }},
		{"owner mute self", func() error { return e.Mute(ctx, "g1", owner, selfOwner, 10, "x") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); !IsKind(err, KindSelfTarget) {
				t.Errorf("expected KindSelfTarget, got %v", err)
			}
		})
	}

	if platform.kicks+platform.bans+platform.timeouts != 0 {
		t.Error("denied actions must never reach the platform")
	}
}

func TestHierarchyDenied(t *testing.T) {
	e, store, platform := newTestEngine()
	ctx := context.Background()

	peer := Target{ID: "peer", RolePosition: 10} // same position as mod

	if err := e.Ban(ctx, "g1", mod, peer, "x"); !IsKind(err, KindHierarchy) {
		t.Errorf("expected KindHierarchy, got %v", err)
	}
	if platform.bans != 0 {
		t.Error("hierarchy denial must not call the platform")
	}
	if ban, _ := store.Ban(ctx, "g1", "peer"); ban != nil {
		t.Error("hierarchy denial must not write a ban record")
	}
}

func TestExternalFailureLeavesStoreUntouched(t *testing.T) {
	e, store, platform := newTestEngine()
	ctx := context.Background()
	platform.failWith = errors.New("api: missing access")

	if err := e.Ban(ctx, "g1", mod, victim, "raid"); !IsKind(err, KindExternal) {
		t.Fatalf("expected KindExternal, got %v", err)
	}
	if ban, _ := store.Ban(ctx, "g1", "victim"); ban != nil {
		t.Error("failed external ban must not create a local record")
	}

	if err := e.Mute(ctx, "g1", mod, victim, 10, "x"); !IsKind(err, KindExternal) {
		t.Fatalf("expected KindExternal, got %v", err)
	}
	if m, _ := store.Mute(ctx, "g1", "victim"); m != nil {
		t.Error("failed external mute must not create a local record")
	}

	stats, _ := store.CountActions(ctx, "g1")
	if stats != (models.ActionStats{}) {
		t.Errorf("failed actions must not be audited, got %+v", stats)
	}
}

func TestPartialFailureIsReported(t *testing.T) {
	base := NewMemoryStore()
	platform := &fakePlatform{}
	e := NewEngine(&failingStore{Store: base}, platform, Resolver{})
	ctx := context.Background()

	if err := e.Ban(ctx, "g1", mod, victim, "raid"); !IsKind(err, KindPartial) {
		t.Fatalf("expected KindPartial, got %v", err)
	}
	if platform.bans != 1 {
		t.Error("the external ban should have gone through")
	}
	// No ghost entry: the underlying store still reflects the pre-failure state
	if ban, _ := base.Ban(ctx, "g1", "victim"); ban != nil {
		t.Error("failed write must not leave a record behind")
	}

	if err := e.Kick(ctx, "g1", mod, victim, "x"); !IsKind(err, KindPartial) {
		t.Errorf("kick audit write failure should be partial, got %v", err)
	}
	if err := e.Mute(ctx, "g1", mod, victim, 5, "x"); !IsKind(err, KindPartial) {
		t.Errorf("expected KindPartial for mute, got %v", err)
	}
}

func TestMuteOverwrites(t *testing.T) {
	e, store, platform := newTestEngine()
	ctx := context.Background()

	if err := e.Mute(ctx, "g1", mod, victim, 10, "spam"); err != nil {
		t.Fatal(err)
	}
	if err := e.Mute(ctx, "g1", mod, victim, 30, "otra vez"); err != nil {
		t.Fatal(err)
	}

	m, err := store.Mute(ctx, "g1", "victim")
	if err != nil {
		t.Fatal(err)
	}
	if m == nil {
		t.Fatal("expected an active mute record")
	}
	if m.DurationMinutes != 30 {
		t.Errorf("duration = %d, want 30 (last write wins)", m.DurationMinutes)
	}
	if platform.timeouts != 2 {
		t.Errorf("timeouts = %d, want 2", platform.timeouts)
	}
	if platform.lastUntil == nil {
		t.Fatal("mute must pass an expiry to the platform")
	}
}

func TestExpiredMuteReadsAsAbsent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.UpsertMute(ctx, models.MuteDocument{
		GuildID:   "g1",
		UserID:    "u1",
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	})

	m, err := store.Mute(ctx, "g1", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if m != nil {
		t.Error("a mute past its expiry should read as absent")
	}
}

func TestUnmuteDeletesRecord(t *testing.T) {
	e, store, platform := newTestEngine()
	ctx := context.Background()

	e.Mute(ctx, "g1", mod, victim, 10, "spam")
	if err := e.Unmute(ctx, "g1", mod, victim); err != nil {
		t.Fatal(err)
	}
	if platform.lastUntil != nil {
		t.Error("unmute must clear the timeout (nil until)")
	}
	if m, _ := store.Mute(ctx, "g1", "victim"); m != nil {
		t.Error("unmute should delete the local record")
	}
}

func TestUnbanDeletesAnnotation(t *testing.T) {
	e, store, _ := newTestEngine()
	ctx := context.Background()

	e.Ban(ctx, "g1", mod, victim, "raid")
	if err := e.Unban(ctx, "g1", mod, "victim"); err != nil {
		t.Fatal(err)
	}
	if ban, _ := store.Ban(ctx, "g1", "victim"); ban != nil {
		t.Error("unban should delete the ban annotation")
	}
}

func TestPurgeBounds(t *testing.T) {
	e, _, platform := newTestEngine()
	ctx := context.Background()

	for _, count := range []int{0, -3, 101, 150} {
		if _, err := e.Purge(ctx, "c1", mod, count); !IsKind(err, KindValidation) {
			t.Errorf("count=%d: expected KindValidation, got %v", count, err)
		}
	}
	if platform.bulkDeletes != 0 {
		t.Error("out-of-range purge must be rejected before any external call")
	}

	deleted, err := e.Purge(ctx, "c1", mod, 50)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 50 {
		t.Errorf("deleted = %d, want 50", deleted)
	}
}

func TestAIEnabledResolution(t *testing.T) {
	e, store, _ := newTestEngine()
	ctx := context.Background()

	// Sin toggle ni settings: el valor por defecto del servidor (activado)
	enabled, err := e.AIEnabled(ctx, "g1", "c1")
	if err != nil {
		t.Fatal(err)
	}
	if !enabled {
		t.Error("absent toggle should fall back to the guild default (enabled)")
	}

	// Guild default apagado
	cfg := models.DefaultGuildSettings("g1")
	cfg.AIEnabled = false
	store.SaveSettings(ctx, cfg)
	if enabled, _ = e.AIEnabled(ctx, "g1", "c1"); enabled {
		t.Error("absent toggle should follow the guild default (disabled)")
	}

	// El toggle explícito manda sobre el default
	store.SetAIToggle(ctx, models.AIChannelSetting{GuildID: "g1", ChannelID: "c1", Enabled: true})
	if enabled, _ = e.AIEnabled(ctx, "g1", "c1"); !enabled {
		t.Error("explicit toggle must override the guild default")
	}

	cfg.AIEnabled = true
	store.SaveSettings(ctx, cfg)
	store.SetAIToggle(ctx, models.AIChannelSetting{GuildID: "g1", ChannelID: "c1", Enabled: false})
	if enabled, _ = e.AIEnabled(ctx, "g1", "c1"); enabled {
		t.Error("explicit disable must win regardless of the guild default")
	}

	// Lista de canales permitidos: un canal fuera de la lista queda apagado
	cfg.AIChannels = []string{"c2"}
	store.SaveSettings(ctx, cfg)
	if enabled, _ = e.AIEnabled(ctx, "g1", "c3"); enabled {
		t.Error("channel outside the allowlist should be disabled")
	}
	if enabled, _ = e.AIEnabled(ctx, "g1", "c2"); !enabled {
		t.Error("channel in the allowlist should follow the guild default")
	}
}

func TestOnActionHook(t *testing.T) {
	e, _, _ := newTestEngine()
	ctx := context.Background()

	var seen []models.ModerationAction
	e.OnAction = func(a models.ModerationAction) { seen = append(seen, a) }

	e.Warn(ctx, "g1", mod, "victim", "spam")
	e.Ban(ctx, "g1", mod, victim, "raid")

	if len(seen) != 2 {
		t.Fatalf("OnAction fired %d times, want 2", len(seen))
	}
	if seen[0].ActionType != models.ActionWarn || seen[1].ActionType != models.ActionBan {
		t.Errorf("unexpected action types: %s, %s", seen[0].ActionType, seen[1].ActionType)
	}
	if seen[1].ID == "" || seen[1].GuildID != "g1" || seen[1].UserID != "victim" {
		t.Errorf("unexpected audit entry: %+v", seen[1])
	}
}

func TestActionHistoryAndStats(t *testing.T) {
	e, store, _ := newTestEngine()
	ctx := context.Background()

	e.Warn(ctx, "g1", mod, "victim", "spam")
	e.Warn(ctx, "g1", mod, "victim", "flood")
	e.Kick(ctx, "g1", mod, victim, "x")
	e.Ban(ctx, "g1", mod, victim, "raid")
	e.Mute(ctx, "g1", mod, victim, 10, "x")
	e.Warn(ctx, "g2", mod, "victim", "other guild")

	stats, err := store.CountActions(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	want := models.ActionStats{Warnings: 2, Kicks: 1, Bans: 1, Mutes: 1}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}

	actions, err := store.Actions(ctx, "g1", 3, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(actions) != 3 {
		t.Fatalf("limit ignored: got %d actions", len(actions))
	}
	// Newest first
	if actions[0].ActionType != models.ActionMute {
		t.Errorf("first action = %s, want mute", actions[0].ActionType)
	}
	for _, a := range actions {
		if a.GuildID != "g1" {
			t.Errorf("cross-guild leak: %+v", a)
		}
	}

	deleted, err := store.DeleteAction(ctx, "g1", actions[0].ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteAction() = %v, %v", deleted, err)
	}
	if deleted, _ := store.DeleteAction(ctx, "g1", "no-such"); deleted {
		t.Error("unknown action id should report deleted=false")
	}
}
