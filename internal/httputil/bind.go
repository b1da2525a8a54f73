package httputil

import (
	"errors"
	"net/http"

	"github.com/redmonkez12/crm-api/internal/logging"
	"github.com/redmonkez12/crm-api/internal/validation"
)

// BindJSON decodes the request body into dst and validates it. On failure the
// error response has already been written and false is returned.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	logger := logging.GetLoggerFromContext(r.Context())

	if err := DecodeJSON(r, dst); err != nil {
		logger.WithError(err).Warn("invalid request body")
		RespondErrorWithCode(w, "invalid request body", CodeInvalidRequestBody, http.StatusBadRequest)
		return false
	}

	err := validation.Struct(dst)
	if err == nil {
		return true
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		logger.WithError(err).Warn("request validation failed")
		RespondValidationError(w, verrs)
		return false
	}

	logger.WithError(err).Error("request validation errored")
	RespondErrorWithCode(w, "internal server error", CodeInternalError, http.StatusInternalServerError)
	return false
}
