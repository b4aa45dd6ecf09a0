package adaptor

import (
	"net/http"

	"room-booking/pkg/apperrors"
	"room-booking/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps the service error taxonomy onto HTTP
// responses. Validation→400, Conflict→409 (with the conflicting
// bookings in the errors field), NotFound→404, Permission→403,
// everything else→opaque 500.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	appErr := apperrors.As(err)
	if appErr == nil {
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	switch appErr.Kind {
	case apperrors.KindValidation:
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, appErr.Message, appErr.Details)

	case apperrors.KindConflict:
		log.Warn(operation+" conflict", zap.Error(err))
		utils.ResponseConflict(w, appErr.Message, appErr.Details)

	case apperrors.KindNotFound:
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, appErr.Message)

	case apperrors.KindPermission:
		log.Warn(operation+" failed - permission denied", zap.Error(err))
		utils.ResponseForbidden(w, appErr.Message)

	case apperrors.KindAuthentication:
		log.Warn(operation+" failed - authentication", zap.Error(err))
		utils.ResponseUnauthorized(w, appErr.Message)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
