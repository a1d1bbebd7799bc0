package database

import (
	"context"
	"testing"

	"github.com/PancyStudios/GuardianBotGo/pkg/models"
)

// newOfflineStore returns a MongoStore over a database that never connected,
// so every write fails while cached reads still resolve.
func newOfflineStore(t *testing.T) *MongoStore {
	t.Helper()
	store := NewMongoStore(NewDatabase())
	store.warns.ClearCache()
	return store
}

func warmWarnsCache(s *MongoStore, guildID, userID string, warns []models.Warn) {
	doc := &models.WarnsDocument{GuildID: guildID, UserID: userID, Warns: warns}
	s.warns.cachePut(s.warns.generateCacheKey(userQuery(guildID, userID)), doc)
}

func TestAppendWarningFailureLeavesCacheIntact(t *testing.T) {
	store := newOfflineStore(t)
	warmWarnsCache(store, "g1", "u1", []models.Warn{{ID: "w1", Reason: "spam"}})

	_, err := store.AppendWarning(context.Background(), "g1", "u1", models.Warn{ID: "w2", Reason: "flood"})
	if err == nil {
		t.Fatal("AppendWarning should fail without a database connection")
	}

	list, err := store.Warnings(context.Background(), "g1", "u1")
	if err != nil {
		t.Fatalf("Warnings: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len(warnings) = %d, want 1 (failed write must not leave a ghost entry)", len(list))
	}
	if list[0].ID != "w1" {
		t.Errorf("warning id = %s, want w1", list[0].ID)
	}
}

func TestRemoveWarningFailureLeavesCacheIntact(t *testing.T) {
	store := newOfflineStore(t)
	warmWarnsCache(store, "g2", "u2", []models.Warn{
		{ID: "w1", Reason: "spam"},
		{ID: "w2", Reason: "flood"},
	})

	_, _, err := store.RemoveWarning(context.Background(), "g2", "u2", "w1")
	if err == nil {
		t.Fatal("RemoveWarning should fail without a database connection")
	}

	list, err := store.Warnings(context.Background(), "g2", "u2")
	if err != nil {
		t.Fatalf("Warnings: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(warnings) = %d, want 2 (failed delete must not drop the cached entry)", len(list))
	}
}

func TestRemoveWarningUnknownIDOffline(t *testing.T) {
	store := newOfflineStore(t)
	warmWarnsCache(store, "g3", "u3", []models.Warn{{ID: "w1", Reason: "spam"}})

	// Sin coincidencia no hay escritura, así que tampoco hay error offline
	count, removed, err := store.RemoveWarning(context.Background(), "g3", "u3", "missing")
	if err != nil {
		t.Fatalf("RemoveWarning: %v", err)
	}
	if removed {
		t.Error("removed = true, want false for an unknown id")
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
