package controllers

import (
	"log/slog"
	"net/http"

	"github.com/yasaga2k/explore-with-me/internal/delivery/http/helpers"
	"github.com/yasaga2k/explore-with-me/internal/domain"
)

type CompilationController struct {
	Logger  *slog.Logger
	Service domain.CompilationService
}

func NewCompilationController(logger *slog.Logger, svc domain.CompilationService) *CompilationController {
	return &CompilationController{
		Logger:  logger,
		Service: svc,
	}
}

// NewCompilationRequest is the request body for POST /admin/compilations.
type NewCompilationRequest struct {
	Title    string  `json:"title"`
	Pinned   bool    `json:"pinned"`
	EventIDs []int64 `json:"events"`
}

// Validate implements Validator.
func (req NewCompilationRequest) Validate() []string {
	var errs []string
	if l := len(req.Title); l < 1 || l > 50 {
		errs = append(errs, "title must be between 1 and 50 characters")
	}
	return errs
}

// UpdateCompilationRequest is the partial update body for
// PATCH /admin/compilations/{compID}. Absent fields are left unchanged.
type UpdateCompilationRequest struct {
	Title    *string `json:"title"`
	Pinned   *bool   `json:"pinned"`
	EventIDs []int64 `json:"events"`
}

// Validate implements Validator.
func (req UpdateCompilationRequest) Validate() []string {
	var errs []string
	if req.Title != nil {
		if l := len(*req.Title); l < 1 || l > 50 {
			errs = append(errs, "title must be between 1 and 50 characters")
		}
	}
	return errs
}

// CompilationSuccessResponse is the success envelope for single-compilation endpoints.
type CompilationSuccessResponse struct {
	Data  *domain.CompilationWithEvents `json:"data"`
	Error *helpers.APIError             `json:"error"`
}

// CompilationListSuccessResponse is the success envelope for compilation list endpoints.
type CompilationListSuccessResponse struct {
	Data  []*domain.CompilationWithEvents `json:"data"`
	Error *helpers.APIError               `json:"error"`
}

// AddCompilation godoc
// @Summary Create a compilation
// @Tags admin
// @Accept json
// @Produce json
// @Param compilation body NewCompilationRequest true "Compilation data"
// @Success 201 {object} controllers.CompilationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/compilations [post]
func (c *CompilationController) AddCompilation(w http.ResponseWriter, r *http.Request) {
	var req NewCompilationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	comp, err := c.Service.AddCompilation(r.Context(), req.Title, req.Pinned, req.EventIDs)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, comp)
}

// UpdateCompilation godoc
// @Summary Update a compilation
// @Tags admin
// @Accept json
// @Produce json
// @Param compID path int true "Compilation ID"
// @Param compilation body UpdateCompilationRequest true "Fields to change"
// @Success 200 {object} controllers.CompilationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/compilations/{compID} [patch]
func (c *CompilationController) UpdateCompilation(w http.ResponseWriter, r *http.Request) {
	compID, ok := helpers.PathID(w, r, "compID")
	if !ok {
		return
	}
	var req UpdateCompilationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	upd := domain.CompilationUpdate{
		Title:    req.Title,
		Pinned:   req.Pinned,
		EventIDs: req.EventIDs,
	}
	comp, err := c.Service.UpdateCompilation(r.Context(), compID, upd)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, comp)
}

// DeleteCompilation godoc
// @Summary Delete a compilation
// @Tags admin
// @Produce json
// @Param compID path int true "Compilation ID"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/compilations/{compID} [delete]
func (c *CompilationController) DeleteCompilation(w http.ResponseWriter, r *http.Request) {
	compID, ok := helpers.PathID(w, r, "compID")
	if !ok {
		return
	}
	if err := c.Service.DeleteCompilation(r.Context(), compID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCompilations godoc
// @Summary List compilations
// @Tags compilations
// @Produce json
// @Param pinned query bool false "Filter by pinned flag"
// @Param from query int false "Offset"
// @Param size query int false "Page size"
// @Success 200 {object} controllers.CompilationListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /compilations [get]
func (c *CompilationController) ListCompilations(w http.ResponseWriter, r *http.Request) {
	var pinned *bool
	if s := r.URL.Query().Get("pinned"); s != "" {
		v := s == "true"
		pinned = &v
	}
	comps, err := c.Service.ListCompilations(r.Context(), pinned, helpers.ParsePagination(r))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, comps)
}

// GetCompilation godoc
// @Summary Get a compilation
// @Tags compilations
// @Produce json
// @Param compID path int true "Compilation ID"
// @Success 200 {object} controllers.CompilationSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /compilations/{compID} [get]
func (c *CompilationController) GetCompilation(w http.ResponseWriter, r *http.Request) {
	compID, ok := helpers.PathID(w, r, "compID")
	if !ok {
		return
	}
	comp, err := c.Service.GetCompilation(r.Context(), compID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, comp)
}
