// Package moderation implements the moderation action engine: authority
// resolution, the per-command transition protocol against Discord, and the
// typed record store behind it.
package moderation

// Actor es quien ejecuta un comando de moderación
type Actor struct {
	ID           string
	RolePosition int
	Permissions  int64
}

// Target es el usuario sobre el que se actúa
type Target struct {
	ID           string
	RolePosition int
}

// Resolver decides effective authority. It is a pure function over role
// positions and a permission bitset so it can be tested without a session.
type Resolver struct {
	// OwnerID is the bot owner override: that user passes every permission
	// and hierarchy check (but never the self-target check).
	OwnerID string
}

// IsOwner reports whether id is the configured bot owner
func (r Resolver) IsOwner(id string) bool {
	return r.OwnerID != "" && id == r.OwnerID
}

// HasPermission reports whether the actor holds the given permission bit,
// is an administrator, or is the bot owner.
func (r Resolver) HasPermission(a Actor, permission int64) bool {
	if r.IsOwner(a.ID) {
		return true
	}
	if a.Permissions&permissionAdministrator != 0 {
		return true
	}
	return a.Permissions&permission == permission
}

// CanModerate reports whether the actor outranks the target. An equal or
// higher target position always denies; only the owner override bypasses
// the hierarchy. Acting on yourself is never allowed.
func (r Resolver) CanModerate(a Actor, t Target) bool {
	if a.ID == t.ID {
		return false
	}
	if r.IsOwner(a.ID) {
		return true
	}
	return t.RolePosition < a.RolePosition
}

// Mirror of discordgo's permission constants so the resolver does not need
// the SDK. Values are part of the Discord API, they do not drift.
const (
	permissionAdministrator = int64(1) << 3

	PermissionKickMembers     = int64(1) << 1
	PermissionBanMembers      = int64(1) << 2
	PermissionManageMessages  = int64(1) << 13
	PermissionModerateMembers = int64(1) << 40
)
