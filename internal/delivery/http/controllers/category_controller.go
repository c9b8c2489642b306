package controllers

import (
	"log/slog"
	"net/http"

	"github.com/yasaga2k/explore-with-me/internal/delivery/http/helpers"
	"github.com/yasaga2k/explore-with-me/internal/domain"
)

type CategoryController struct {
	Logger  *slog.Logger
	Service domain.CategoryService
}

func NewCategoryController(logger *slog.Logger, svc domain.CategoryService) *CategoryController {
	return &CategoryController{
		Logger:  logger,
		Service: svc,
	}
}

// CategoryRequest is the request body for the admin category endpoints.
type CategoryRequest struct {
	Name string `json:"name"`
}

// Validate implements Validator.
func (req CategoryRequest) Validate() []string {
	var errs []string
	if l := len(req.Name); l < 1 || l > 50 {
		errs = append(errs, "name must be between 1 and 50 characters")
	}
	return errs
}

// CategorySuccessResponse is the success envelope for single-category endpoints.
type CategorySuccessResponse struct {
	Data  *domain.Category  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CategoryListSuccessResponse is the success envelope for category list endpoints.
type CategoryListSuccessResponse struct {
	Data  []*domain.Category `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// AddCategory godoc
// @Summary Create a category
// @Tags admin
// @Accept json
// @Produce json
// @Param category body CategoryRequest true "Category data"
// @Success 201 {object} controllers.CategorySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/categories [post]
func (c *CategoryController) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	cat, err := c.Service.AddCategory(r.Context(), req.Name)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, cat)
}

// UpdateCategory godoc
// @Summary Rename a category
// @Tags admin
// @Accept json
// @Produce json
// @Param catID path int true "Category ID"
// @Param category body CategoryRequest true "Category data"
// @Success 200 {object} controllers.CategorySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/categories/{catID} [patch]
func (c *CategoryController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	catID, ok := helpers.PathID(w, r, "catID")
	if !ok {
		return
	}
	var req CategoryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	cat, err := c.Service.UpdateCategory(r.Context(), catID, req.Name)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, cat)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Fails with 409 when events still reference the category.
// @Tags admin
// @Produce json
// @Param catID path int true "Category ID"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/categories/{catID} [delete]
func (c *CategoryController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	catID, ok := helpers.PathID(w, r, "catID")
	if !ok {
		return
	}
	if err := c.Service.DeleteCategory(r.Context(), catID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Param from query int false "Offset"
// @Param size query int false "Page size"
// @Success 200 {object} controllers.CategoryListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories [get]
func (c *CategoryController) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := c.Service.ListCategories(r.Context(), helpers.ParsePagination(r))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, cats)
}

// GetCategory godoc
// @Summary Get a category
// @Tags categories
// @Produce json
// @Param catID path int true "Category ID"
// @Success 200 {object} controllers.CategorySuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories/{catID} [get]
func (c *CategoryController) GetCategory(w http.ResponseWriter, r *http.Request) {
	catID, ok := helpers.PathID(w, r, "catID")
	if !ok {
		return
	}
	cat, err := c.Service.GetCategory(r.Context(), catID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, cat)
}
