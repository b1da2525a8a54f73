package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/redmonkez12/crm-api/internal/httputil"
	"github.com/redmonkez12/crm-api/internal/logging"
	"github.com/redmonkez12/crm-api/internal/nullable"
	"github.com/redmonkez12/crm-api/internal/user"
)

// Handler contains HTTP handlers for the catalog endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateCategoryRequest represents the category creation body
type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"notblank,max=100"`
	Description *string `json:"description,omitempty" validate:"omitnil,max=500"`
	Icon        *string `json:"icon,omitempty"`
	Color       *string `json:"color,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// UpdateCategoryRequest represents the partial update body; omitted fields
// are left unchanged and null clears description, icon or color
type UpdateCategoryRequest struct {
	Name        *string         `json:"name,omitempty" validate:"omitnil,notblank,max=100"`
	Description nullable.String `json:"description" swaggertype:"string" validate:"omitempty,max=500"`
	Icon        nullable.String `json:"icon" swaggertype:"string"`
	Color       nullable.String `json:"color" swaggertype:"string"`
	IsActive    *bool           `json:"isActive,omitempty"`
}

// List returns every category
// @Summary      List categories
// @Description  All categories, most recently created first
// @Tags         catalogs
// @Produce      json
// @Success      200 {array} Category
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /catalogs [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListAll(r.Context())
	if err != nil {
		h.internalError(w, r, "failed to list categories", err)
		return
	}

	httputil.RespondJSON(w, categories, http.StatusOK)
}

// ListActive returns the active categories
// @Summary      List active categories
// @Description  Categories with isActive set, sorted by name
// @Tags         catalogs
// @Produce      json
// @Success      200 {array} Category
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /catalogs/active [get]
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListActive(r.Context())
	if err != nil {
		h.internalError(w, r, "failed to list active categories", err)
		return
	}

	httputil.RespondJSON(w, categories, http.StatusOK)
}

// Get returns one category
// @Summary      Get category
// @Tags         catalogs
// @Produce      json
// @Param        id path string true "Category ID"
// @Success      200 {object} Category
// @Failure      404 {object} httputil.ErrorResponse "Category not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /catalogs/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := categoryID(w, r)
	if !ok {
		return
	}

	category, err := h.service.GetOne(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, "failed to get category", err)
		return
	}

	httputil.RespondJSON(w, category, http.StatusOK)
}

// Create adds a category
// @Summary      Create category
// @Tags         catalogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateCategoryRequest true "Category"
// @Success      201 {object} Category
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or validation error"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      409 {object} httputil.ErrorResponse "Name already exists"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /catalogs [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !httputil.BindJSON(w, r, &req) {
		return
	}

	category, err := h.service.Create(r.Context(), CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.respondServiceError(w, r, "failed to create category", err)
		return
	}

	h.audit(r, "category created", category)
	httputil.RespondJSON(w, category, http.StatusCreated)
}

// Update changes a category
// @Summary      Update category
// @Description  Partial update; omitted fields are left unchanged and null clears description, icon or color
// @Tags         catalogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Category ID"
// @Param        request body UpdateCategoryRequest true "Fields to change"
// @Success      200 {object} Category
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or validation error"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Category not found"
// @Failure      409 {object} httputil.ErrorResponse "Name already exists"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /catalogs/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := categoryID(w, r)
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if !httputil.BindJSON(w, r, &req) {
		return
	}

	category, err := h.service.Update(r.Context(), id, Patch{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.respondServiceError(w, r, "failed to update category", err)
		return
	}

	h.audit(r, "category updated", category)
	httputil.RespondJSON(w, category, http.StatusOK)
}

// Delete removes a category
// @Summary      Delete category
// @Tags         catalogs
// @Security     BearerAuth
// @Param        id path string true "Category ID"
// @Success      204 "No Content"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Category not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /catalogs/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := categoryID(w, r)
	if !ok {
		return
	}

	category, err := h.service.Remove(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, "failed to delete category", err)
		return
	}

	h.audit(r, "category deleted", category)
	httputil.RespondNoContent(w)
}

// categoryID parses the id path parameter. Anything that is not a UUID
// cannot name a category and is answered with 404.
func categoryID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "category not found", httputil.CodeCategoryNotFound, http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httputil.RespondErrorWithCode(w, "category not found", httputil.CodeCategoryNotFound, http.StatusNotFound)
	case errors.Is(err, ErrDuplicateName):
		logging.GetLoggerFromContext(r.Context()).Warn(msg + ": name already exists")
		httputil.RespondErrorWithCode(w, "category name already exists", httputil.CodeCategoryNameExists, http.StatusConflict)
	default:
		h.internalError(w, r, msg, err)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logging.GetLoggerFromContext(r.Context()).WithError(err).Error(msg)
	httputil.RespondErrorWithCode(w, msg, httputil.CodeInternalError, http.StatusInternalServerError)
}

func (h *Handler) audit(r *http.Request, msg string, c *Category) {
	principal, _ := user.PrincipalFromContext(r.Context())
	logging.GetLoggerFromContext(r.Context()).Info(msg,
		"category_id", c.ID,
		"name", c.Name,
		"user_id", principal.ID,
	)
}
