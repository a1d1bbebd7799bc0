package moderation

import (
	"errors"
	"fmt"
)

// Kind clasifica el resultado fallido de una operación del motor.
// Los tests comprueban el Kind; los comandos traducen a texto visible.
type Kind int

const (
	// KindValidation: argumento con forma o rango inválido. Sin cambios de estado.
	KindValidation Kind = iota
	// KindPermissionDenied: el actor no tiene el permiso requerido.
	KindPermissionDenied
	// KindSelfTarget: acción destructiva sobre uno mismo.
	KindSelfTarget
	// KindHierarchy: el objetivo tiene una posición de rol igual o superior.
	KindHierarchy
	// KindExternal: la llamada a Discord falló; no se mutó el estado local.
	KindExternal
	// KindPartial: Discord aplicó la acción pero la escritura local falló.
	// Requiere reconciliación manual y nunca debe enmascararse como éxito.
	KindPartial
	// KindNotFound: el registro no existe (las eliminaciones lo tratan como no-op).
	KindNotFound
)

// String returns the Kind name used in logs
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindPermissionDenied:
		return "PERMISSION_DENIED"
	case KindSelfTarget:
		return "SELF_TARGET"
	case KindHierarchy:
		return "HIERARCHY"
	case KindExternal:
		return "EXTERNAL_FAILED"
	case KindPartial:
		return "PARTIAL_FAILURE"
	case KindNotFound:
		return "NOT_FOUND"
	default:
		return "UNKNOWN"
	}
}

// Error is the engine's error type. Message is display text for the caller;
// Err carries the underlying platform or store error when there is one.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from an engine error. ok is false for plain errors.
func KindOf(err error) (Kind, bool) {
	var me *Error
	if errors.As(err, &me) {
		return me.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is an engine error of the given kind
func IsKind(err error, k Kind) bool {
	kind, ok := KindOf(err)
	return ok && kind == k
}

func validationErr(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func permissionErr() *Error {
	return &Error{Kind: KindPermissionDenied, Message: "No tienes permisos suficientes para usar este comando."}
}

func selfTargetErr() *Error {
	return &Error{Kind: KindSelfTarget, Message: "No puedes aplicarte esta acción a ti mismo."}
}

func hierarchyErr() *Error {
	return &Error{Kind: KindHierarchy, Message: "No puedes moderar a un usuario con un rol igual o superior al tuyo."}
}

func externalErr(op string, err error) *Error {
	return &Error{Kind: KindExternal, Message: fmt.Sprintf("Discord rechazó la acción '%s'.", op), Err: err}
}

func partialErr(op string, err error) *Error {
	return &Error{Kind: KindPartial, Message: fmt.Sprintf("La acción '%s' se aplicó en Discord pero no se pudo guardar el registro local.", op), Err: err}
}
