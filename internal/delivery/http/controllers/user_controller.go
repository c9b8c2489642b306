package controllers

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/yasaga2k/explore-with-me/internal/delivery/http/helpers"
	"github.com/yasaga2k/explore-with-me/internal/domain"
)

// emailRegex matches a simple email format (local@domain with at least one dot in domain).
var emailRegex = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// NewUserRequest is the request body for POST /admin/users.
type NewUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Validate implements Validator.
func (req NewUserRequest) Validate() []string {
	var errs []string
	if req.Email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegex.MatchString(req.Email) {
		errs = append(errs, "email format is invalid")
	}
	if l := len(req.Name); l < 2 || l > 250 {
		errs = append(errs, "name must be between 2 and 250 characters")
	}
	return errs
}

// UserSuccessResponse is the success envelope for single-user endpoints.
type UserSuccessResponse struct {
	Data  *domain.User      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UserListSuccessResponse is the success envelope for user list endpoints.
type UserListSuccessResponse struct {
	Data  []*domain.User    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// AddUser godoc
// @Summary Register a user
// @Tags admin
// @Accept json
// @Produce json
// @Param user body NewUserRequest true "User data"
// @Success 201 {object} controllers.UserSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/users [post]
func (c *UserController) AddUser(w http.ResponseWriter, r *http.Request) {
	var req NewUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.AddUser(r.Context(), req.Email, req.Name)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, user)
}

// ListUsers godoc
// @Summary List users
// @Description Returns the users with the given ids, or a page of all users when ids is empty.
// @Tags admin
// @Produce json
// @Param ids query []int false "User IDs"
// @Param from query int false "Offset"
// @Param size query int false "Page size"
// @Success 200 {object} controllers.UserListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/users [get]
func (c *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	ids := helpers.ParseIDList(r, "ids")
	users, err := c.Service.ListUsers(r.Context(), ids, helpers.ParsePagination(r))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, users)
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags admin
// @Produce json
// @Param userID path int true "User ID"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/users/{userID} [delete]
func (c *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.PathID(w, r, "userID")
	if !ok {
		return
	}
	if err := c.Service.DeleteUser(r.Context(), userID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
