package mod

import (
	stderrors "errors"
	"fmt"

	"github.com/PancyStudios/GuardianBotGo/pkg/discord"
	"github.com/PancyStudios/GuardianBotGo/pkg/logger"
	"github.com/PancyStudios/GuardianBotGo/pkg/moderation"
)

const defaultReason = "Sin razón especificada"

// replyEngineError traduce un error del motor a la respuesta visible.
// Un fallo parcial se distingue del resto: la acción SÍ se aplicó en
// Discord y el staff tiene que saberlo.
func replyEngineError(ctx *discord.CommandContext, err error) error {
	var engineErr *moderation.Error
	if stderrors.As(err, &engineErr) {
		if engineErr.Kind == moderation.KindPartial {
			logger.Error(fmt.Sprintf("Fallo parcial: %v", err), "CMD-Mod")
			return ctx.ReplyEphemeral("⚠️ " + engineErr.Message)
		}
		return ctx.ReplyEphemeral("❌ " + engineErr.Message)
	}

	logger.Error(fmt.Sprintf("Error inesperado en comando de moderación: %v", err), "CMD-Mod")
	return ctx.ReplyEphemeral("❌ Ha ocurrido un error inesperado. Inténtalo de nuevo.")
}
