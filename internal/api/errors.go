package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/yumzoom/backend/internal/domain"
	"github.com/yumzoom/backend/pkg/response"
	"github.com/yumzoom/backend/pkg/validator"
)

// writeError maps domain sentinels to HTTP status codes. Anything unmapped
// is logged and surfaced as a generic 500 so internals never leak.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		response.BadRequest(w, verrs.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		response.Forbidden(w, "not allowed")
	case errors.Is(err, domain.ErrNotParticipant):
		response.Forbidden(w, err.Error())
	case errors.Is(err, domain.ErrSelfConnection),
		errors.Is(err, domain.ErrInvalidWeight):
		response.BadRequest(w, err.Error())
	case errors.Is(err, domain.ErrDuplicateConnection),
		errors.Is(err, domain.ErrDuplicateOption),
		errors.Is(err, domain.ErrConnectionBlocked),
		errors.Is(err, domain.ErrNotPending),
		errors.Is(err, domain.ErrRequestsDisabled),
		errors.Is(err, domain.ErrNotConnected),
		errors.Is(err, domain.ErrSessionNotActive),
		errors.Is(err, domain.ErrDeadlinePassed):
		response.Conflict(w, err.Error())
	default:
		logger.Error(fallback, zap.Error(err))
		response.InternalError(w, fallback)
	}
}
