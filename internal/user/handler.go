package user

import (
	"errors"
	"net/http"

	"github.com/redmonkez12/crm-api/internal/httputil"
	"github.com/redmonkez12/crm-api/internal/logging"
	"github.com/redmonkez12/crm-api/internal/validation"
)

// Handler contains HTTP handlers for the current user's profile
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// UpdateProfileRequest represents the profile update request body
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitnil,notblank,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitnil,notblank,max=100"`
	BirthDate *string `json:"birthDate,omitempty" validate:"omitnil,isodate"`
}

// Patch converts the request into a ProfilePatch. It must only be called on a
// validated request.
func (r UpdateProfileRequest) Patch() ProfilePatch {
	p := ProfilePatch{FirstName: r.FirstName, LastName: r.LastName}
	if r.BirthDate != nil {
		if d, err := validation.ParseDate(*r.BirthDate); err == nil {
			p.BirthDate = &d
		}
	}
	return p
}

// Me returns the authenticated user
// @Summary      Current user
// @Description  Return the profile of the user the bearer token belongs to
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} PublicUser
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /users/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	httputil.RespondJSON(w, principal, http.StatusOK)
}

// UpdateMe updates the authenticated user's profile
// @Summary      Update current user
// @Description  Change first name, last name or birth date. Omitted fields are left unchanged.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateProfileRequest true "Profile fields"
// @Success      200 {object} PublicUser
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or validation error"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /users/me [patch]
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if !httputil.BindJSON(w, r, &req) {
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), principal.ID, req.Patch())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "user not found", httputil.CodeUserNotFound, http.StatusNotFound)
			return
		}
		logger.WithError(err).Error("profile update failed", "user_id", principal.ID)
		httputil.RespondErrorWithCode(w, "failed to update profile", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("profile updated", "user_id", updated.ID)
	httputil.RespondJSON(w, updated, http.StatusOK)
}
