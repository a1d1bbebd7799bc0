package moderation

import (
	"math/rand"
	"testing"
)

func TestHasPermission(t *testing.T) {
	r := Resolver{OwnerID: "owner"}

	actor := Actor{ID: "mod", Permissions: PermissionKickMembers}
	if !r.HasPermission(actor, PermissionKickMembers) {
		t.Error("actor with the bit set should pass")
	}
	if r.HasPermission(actor, PermissionBanMembers) {
		t.Error("actor without the bit should fail")
	}

	admin := Actor{ID: "admin", Permissions: permissionAdministrator}
	if !r.HasPermission(admin, PermissionBanMembers) {
		t.Error("administrator should pass every permission check")
	}

	owner := Actor{ID: "owner", Permissions: 0}
	if !r.HasPermission(owner, PermissionBanMembers) {
		t.Error("owner override should pass without any permission bits")
	}
}

func TestCanModerateHierarchy(t *testing.T) {
	r := Resolver{OwnerID: "owner"}

	tests := []struct {
		name   string
		actor  Actor
		target Target
		want   bool
	}{
		{"higher actor", Actor{ID: "a", RolePosition: 5}, Target{ID: "b", RolePosition: 3}, true},
		{"equal position", Actor{ID: "a", RolePosition: 5}, Target{ID: "b", RolePosition: 5}, false},
		{"lower actor", Actor{ID: "a", RolePosition: 2}, Target{ID: "b", RolePosition: 5}, false},
		{"self target", Actor{ID: "a", RolePosition: 9}, Target{ID: "a", RolePosition: 1}, false},
		{"owner override beats hierarchy", Actor{ID: "owner", RolePosition: 0}, Target{ID: "b", RolePosition: 50}, true},
		{"owner cannot target self", Actor{ID: "owner", RolePosition: 0}, Target{ID: "owner", RolePosition: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.CanModerate(tt.actor, tt.target); got != tt.want {
				t.Errorf("CanModerate() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Property: for any pair of positions, a non-owner actor can moderate iff
// the target sits strictly below them.
func TestCanModerateProperty(t *testing.T) {
	r := Resolver{OwnerID: "owner"}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		actorPos := rng.Intn(100)
		targetPos := rng.Intn(100)

		actor := Actor{ID: "a", RolePosition: actorPos}
		target := Target{ID: "b", RolePosition: targetPos}

		want := targetPos < actorPos
		if got := r.CanModerate(actor, target); got != want {
			t.Fatalf("actor=%d target=%d: CanModerate() = %v, want %v", actorPos, targetPos, got, want)
		}

		// The owner override ignores positions entirely
		owner := Actor{ID: "owner", RolePosition: actorPos}
		if !r.CanModerate(owner, target) {
			t.Fatalf("owner with position %d should moderate target with position %d", actorPos, targetPos)
		}
	}
}
