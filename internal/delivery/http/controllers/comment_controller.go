package controllers

import (
	"log/slog"
	"net/http"

	"github.com/yasaga2k/explore-with-me/internal/delivery/http/helpers"
	"github.com/yasaga2k/explore-with-me/internal/domain"
)

type CommentController struct {
	Logger  *slog.Logger
	Service domain.CommentService
}

func NewCommentController(logger *slog.Logger, svc domain.CommentService) *CommentController {
	return &CommentController{
		Logger:  logger,
		Service: svc,
	}
}

// NewCommentRequest is the request body for POST /users/{userID}/comments/{eventID}.
type NewCommentRequest struct {
	Text string `json:"text"`
}

// Validate implements Validator.
func (req NewCommentRequest) Validate() []string {
	var errs []string
	if l := len(req.Text); l < 1 || l > 2000 {
		errs = append(errs, "text must be between 1 and 2000 characters")
	}
	return errs
}

// CommentSuccessResponse is the success envelope for single-comment endpoints.
type CommentSuccessResponse struct {
	Data  *domain.Comment   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CommentListSuccessResponse is the success envelope for comment list endpoints.
type CommentListSuccessResponse struct {
	Data  []*domain.Comment `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// AddComment godoc
// @Summary Comment on a published event
// @Tags comments
// @Accept json
// @Produce json
// @Param userID path int true "User ID"
// @Param eventID path int true "Event ID"
// @Param comment body NewCommentRequest true "Comment text"
// @Success 201 {object} controllers.CommentSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/comments/{eventID} [post]
func (c *CommentController) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.PathID(w, r, "userID")
	if !ok {
		return
	}
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	var req NewCommentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	comment, err := c.Service.AddComment(r.Context(), userID, eventID, req.Text)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, comment)
}

// ListComments godoc
// @Summary List comments on a published event
// @Tags comments
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.CommentListSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/comments [get]
func (c *CommentController) ListComments(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	comments, err := c.Service.ListComments(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, comments)
}

// DeleteComment godoc
// @Summary Delete a comment
// @Tags admin
// @Produce json
// @Param commentID path int true "Comment ID"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/comments/{commentID} [delete]
func (c *CommentController) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, ok := helpers.PathID(w, r, "commentID")
	if !ok {
		return
	}
	if err := c.Service.DeleteComment(r.Context(), commentID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
