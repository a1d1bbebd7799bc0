package moderation

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/PancyStudios/GuardianBotGo/pkg/logger"
	"github.com/PancyStudios/GuardianBotGo/pkg/models"
	"github.com/google/uuid"
)

// Platform son las llamadas que el motor necesita de Discord. La acción
// externa siempre se ejecuta ANTES de la escritura local: una acción externa
// fallida jamás debe producir un registro que implique que se aplicó.
type Platform interface {
	Kick(ctx context.Context, guildID, userID, reason string) error
	Ban(ctx context.Context, guildID, userID, reason string) error
	Unban(ctx context.Context, guildID, userID string) error
	// Timeout silencia hasta `until`; until == nil levanta el silencio.
	Timeout(ctx context.Context, guildID, userID string, until *time.Time, reason string) error
	BulkDelete(ctx context.Context, channelID string, count int) (int, error)
}

// Platform constraint: Discord rejects timeouts longer than 28 days.
const MaxMuteMinutes = 40320

// MaxBulkDelete is the per-call cap Discord imposes on bulk message deletion.
const MaxBulkDelete = 100

// Engine ejecuta el protocolo de transición por comando:
// validar → autorizar → acción externa → registro local.
type Engine struct {
	store    Store
	platform Platform
	resolver Resolver

	// callTimeout bounds every external platform call. The store is never
	// locked while waiting on Discord.
	callTimeout time.Duration

	// OnAction, si está definido, recibe cada acción completada (para el
	// feed del dashboard y la publicación MQTT). Se llama fuera de locks.
	OnAction func(models.ModerationAction)
}

var (
	engine     *Engine
	engineOnce sync.Once
)

// Init initializes the global engine instance
func Init(store Store, platform Platform, resolver Resolver) *Engine {
	engineOnce.Do(func() {
		engine = NewEngine(store, platform, resolver)
	})
	return engine
}

// Get returns the global engine instance
func Get() *Engine {
	return engine
}

// NewEngine creates an Engine with the default external-call timeout
func NewEngine(store Store, platform Platform, resolver Resolver) *Engine {
	return &Engine{
		store:       store,
		platform:    platform,
		resolver:    resolver,
		callTimeout: 10 * time.Second,
	}
}

// Store exposes the record store for read paths (dashboard, events)
func (e *Engine) Store() Store {
	return e.store
}

// Resolver returns the authority resolver the engine authorizes with
func (e *Engine) Resolver() Resolver {
	return e.resolver
}

// authorize runs the permission, self-target and hierarchy checks, in that
// order. destructive marks kick/ban/mute: self-targeting those is denied
// even for the owner override.
func (e *Engine) authorize(actor Actor, target *Target, permission int64, destructive bool) error {
	if !e.resolver.HasPermission(actor, permission) {
		return permissionErr()
	}
	if target != nil {
		if actor.ID == target.ID {
			if destructive {
				return selfTargetErr()
			}
			return nil
		}
		if !e.resolver.CanModerate(actor, *target) {
			return hierarchyErr()
		}
	}
	return nil
}

// external runs a platform call under the engine's timeout
func (e *Engine) external(ctx context.Context, op string, call func(context.Context) error) error {
	cctx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()
	if err := call(cctx); err != nil {
		return externalErr(op, err)
	}
	return nil
}

// newAction builds an audit entry for a completed action
func newAction(guildID, userID, actionType, reason, moderator string, durationMinutes int) models.ModerationAction {
	return models.ModerationAction{
		ID:              uuid.New().String(),
		GuildID:         guildID,
		UserID:          userID,
		ActionType:      actionType,
		Reason:          reason,
		Moderator:       moderator,
		Timestamp:       time.Now().Unix(),
		DurationMinutes: durationMinutes,
	}
}

// audit writes the trail entry best-effort and fires OnAction. A failed
// audit write is logged, not a PartialFailure: PartialFailure is reserved
// for the primary record diverging from Discord's enforcement state.
func (e *Engine) audit(ctx context.Context, a models.ModerationAction) {
	if err := e.store.AppendAction(ctx, a); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo guardar la entrada de historial %s/%s: %v", a.ActionType, a.UserID, err), "Engine")
	}
	if e.OnAction != nil {
		e.OnAction(a)
	}
}

// Warn añade una advertencia. No tiene efecto externo, así que la escritura
// local es la operación completa; devuelve el nuevo total de advertencias.
func (e *Engine) Warn(ctx context.Context, guildID string, actor Actor, targetID, reason string) (int, models.Warn, error) {
	if reason == "" {
		return 0, models.Warn{}, validationErr("Debes especificar una razón.")
	}
	if err := e.authorize(actor, nil, PermissionModerateMembers, false); err != nil {
		return 0, models.Warn{}, err
	}

	warn := models.Warn{
		ID:        strconv.FormatInt(time.Now().UnixNano(), 10),
		Reason:    reason,
		Moderator: actor.ID,
		Timestamp: time.Now().Unix(),
	}

	count, err := e.store.AppendWarning(ctx, guildID, targetID, warn)
	if err != nil {
		return 0, models.Warn{}, fmt.Errorf("guardando advertencia: %w", err)
	}

	e.audit(ctx, newAction(guildID, targetID, models.ActionWarn, reason, actor.ID, 0))
	return count, warn, nil
}

// Warnings returns the ordered warning list for a user
func (e *Engine) Warnings(ctx context.Context, guildID, userID string) ([]models.Warn, error) {
	return e.store.Warnings(ctx, guildID, userID)
}

// RemoveWarning elimina una advertencia por id. Es idempotente: un id
// inexistente devuelve la lista sin cambios y removed == false, sin error.
func (e *Engine) RemoveWarning(ctx context.Context, guildID string, actor Actor, targetID, warnID string) (remaining int, removed bool, err error) {
	if warnID == "" {
		return 0, false, validationErr("Debes especificar el ID de la advertencia.")
	}
	if err := e.authorize(actor, nil, PermissionModerateMembers, false); err != nil {
		return 0, false, err
	}

	remaining, removed, err = e.store.RemoveWarning(ctx, guildID, targetID, warnID)
	if err != nil {
		return 0, false, fmt.Errorf("eliminando advertencia: %w", err)
	}
	if removed {
		e.audit(ctx, newAction(guildID, targetID, models.ActionRemoveWarn, "", actor.ID, 0))
	}
	return remaining, removed, nil
}

// Kick expulsa al usuario. Su único registro local es la entrada del
// historial, así que esa escritura sí cuenta como commit primario.
func (e *Engine) Kick(ctx context.Context, guildID string, actor Actor, target Target, reason string) error {
	if err := e.authorize(actor, &target, PermissionKickMembers, true); err != nil {
		return err
	}

	if err := e.external(ctx, "kick", func(c context.Context) error {
		return e.platform.Kick(c, guildID, target.ID, reason)
	}); err != nil {
		return err
	}

	action := newAction(guildID, target.ID, models.ActionKick, reason, actor.ID, 0)
	if err := e.store.AppendAction(ctx, action); err != nil {
		return partialErr("kick", err)
	}
	if e.OnAction != nil {
		e.OnAction(action)
	}
	return nil
}

// Ban banea al usuario en Discord y guarda la anotación local después
func (e *Engine) Ban(ctx context.Context, guildID string, actor Actor, target Target, reason string) error {
	if err := e.authorize(actor, &target, PermissionBanMembers, true); err != nil {
		return err
	}

	if err := e.external(ctx, "ban", func(c context.Context) error {
		return e.platform.Ban(c, guildID, target.ID, reason)
	}); err != nil {
		return err
	}

	ban := models.BanDocument{
		GuildID:   guildID,
		UserID:    target.ID,
		Moderator: actor.ID,
		Reason:    reason,
		Timestamp: time.Now().Unix(),
	}
	if err := e.store.UpsertBan(ctx, ban); err != nil {
		return partialErr("ban", err)
	}

	e.audit(ctx, newAction(guildID, target.ID, models.ActionBan, reason, actor.ID, 0))
	return nil
}

// Unban levanta el baneo en Discord y borra la anotación local después.
// El objetivo ya no es miembro, así que no hay comprobación de jerarquía.
func (e *Engine) Unban(ctx context.Context, guildID string, actor Actor, targetID string) error {
	if targetID == "" {
		return validationErr("Debes especificar el ID del usuario.")
	}
	if err := e.authorize(actor, nil, PermissionBanMembers, false); err != nil {
		return err
	}

	if err := e.external(ctx, "unban", func(c context.Context) error {
		return e.platform.Unban(c, guildID, targetID)
	}); err != nil {
		return err
	}

	if err := e.store.DeleteBan(ctx, guildID, targetID); err != nil {
		return partialErr("unban", err)
	}

	e.audit(ctx, newAction(guildID, targetID, models.ActionUnban, "", actor.ID, 0))
	return nil
}

// Mute aplica un timeout de Discord y guarda el registro local después.
// Crear un silencio nuevo sobreescribe el anterior (last-write-wins).
func (e *Engine) Mute(ctx context.Context, guildID string, actor Actor, target Target, minutes int, reason string) error {
	if minutes < 1 || minutes > MaxMuteMinutes {
		return validationErr(fmt.Sprintf("La duración debe estar entre 1 y %d minutos.", MaxMuteMinutes))
	}
	if err := e.authorize(actor, &target, PermissionModerateMembers, true); err != nil {
		return err
	}

	now := time.Now()
	until := now.Add(time.Duration(minutes) * time.Minute)

	if err := e.external(ctx, "mute", func(c context.Context) error {
		return e.platform.Timeout(c, guildID, target.ID, &until, reason)
	}); err != nil {
		return err
	}

	mute := models.MuteDocument{
		GuildID:         guildID,
		UserID:          target.ID,
		Moderator:       actor.ID,
		Reason:          reason,
		DurationMinutes: minutes,
		Timestamp:       now.Unix(),
		ExpiresAt:       until.Unix(),
	}
	if err := e.store.UpsertMute(ctx, mute); err != nil {
		return partialErr("mute", err)
	}

	e.audit(ctx, newAction(guildID, target.ID, models.ActionMute, reason, actor.ID, minutes))
	return nil
}

// Unmute levanta el timeout y borra el registro local después
func (e *Engine) Unmute(ctx context.Context, guildID string, actor Actor, target Target) error {
	if err := e.authorize(actor, &target, PermissionModerateMembers, false); err != nil {
		return err
	}

	if err := e.external(ctx, "unmute", func(c context.Context) error {
		return e.platform.Timeout(c, guildID, target.ID, nil, "")
	}); err != nil {
		return err
	}

	if err := e.store.DeleteMute(ctx, guildID, target.ID); err != nil {
		return partialErr("unmute", err)
	}

	e.audit(ctx, newAction(guildID, target.ID, models.ActionUnmute, "", actor.ID, 0))
	return nil
}

// Purge borra mensajes en bloque. Es fire-and-forget respecto al estado
// local: no se guarda ningún registro. El rango se valida antes de tocar
// Discord.
func (e *Engine) Purge(ctx context.Context, channelID string, actor Actor, count int) (int, error) {
	if count < 1 || count > MaxBulkDelete {
		return 0, validationErr(fmt.Sprintf("La cantidad debe estar entre 1 y %d mensajes.", MaxBulkDelete))
	}
	if err := e.authorize(actor, nil, PermissionManageMessages, false); err != nil {
		return 0, err
	}

	var deleted int
	err := e.external(ctx, "purge", func(c context.Context) error {
		var callErr error
		deleted, callErr = e.platform.BulkDelete(c, channelID, count)
		return callErr
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// AIEnabled resuelve el estado efectivo de la IA para un canal: el toggle
// explícito manda; si no existe, decide la lista de canales permitidos del
// servidor; y si está vacía, el valor por defecto del servidor.
func (e *Engine) AIEnabled(ctx context.Context, guildID, channelID string) (bool, error) {
	toggle, err := e.store.AIToggle(ctx, guildID, channelID)
	if err != nil {
		return false, err
	}
	if toggle != nil {
		return toggle.Enabled, nil
	}

	settings, err := e.store.Settings(ctx, guildID)
	if err != nil {
		return false, err
	}
	if len(settings.AIChannels) > 0 {
		for _, id := range settings.AIChannels {
			if id == channelID {
				return settings.AIEnabled, nil
			}
		}
		return false, nil
	}
	return settings.AIEnabled, nil
}
