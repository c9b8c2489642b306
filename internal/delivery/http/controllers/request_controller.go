package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/yasaga2k/explore-with-me/internal/delivery/http/helpers"
	"github.com/yasaga2k/explore-with-me/internal/domain"
)

type RequestController struct {
	Logger  *slog.Logger
	Service domain.RequestService
}

func NewRequestController(logger *slog.Logger, svc domain.RequestService) *RequestController {
	return &RequestController{
		Logger:  logger,
		Service: svc,
	}
}

// UpdateRequestStatusRequest is the request body for
// PATCH /users/{userID}/events/{eventID}/requests.
type UpdateRequestStatusRequest struct {
	RequestIDs []int64 `json:"request_ids"`
	Status     string  `json:"status"`
}

// Validate implements Validator.
func (req UpdateRequestStatusRequest) Validate() []string {
	var errs []string
	if len(req.RequestIDs) == 0 {
		errs = append(errs, "request_ids is required")
	}
	if req.Status == "" {
		errs = append(errs, "status is required")
	}
	return errs
}

// RequestSuccessResponse is the success envelope for single-request endpoints.
type RequestSuccessResponse struct {
	Data  *domain.ParticipationRequest `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

// RequestListSuccessResponse is the success envelope for request list endpoints.
type RequestListSuccessResponse struct {
	Data  []*domain.ParticipationRequest `json:"data"`
	Error *helpers.APIError              `json:"error"`
}

// RequestStatusUpdateSuccessResponse is the success envelope for the batch
// status update endpoint.
type RequestStatusUpdateSuccessResponse struct {
	Data  *domain.RequestStatusUpdateResult `json:"data"`
	Error *helpers.APIError                 `json:"error"`
}

// ListUserRequests godoc
// @Summary List the user's participation requests
// @Description Returns the user's requests in other users' events.
// @Tags requests
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} controllers.RequestListSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/requests [get]
func (c *RequestController) ListUserRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.PathID(w, r, "userID")
	if !ok {
		return
	}
	reqs, err := c.Service.ListUserRequests(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reqs)
}

// AddRequest godoc
// @Summary Request participation in an event
// @Description Creates a participation request. The event must be published, not owned by the requester, not already requested, and not full. The request is confirmed immediately when the event has no moderation or no participant limit.
// @Tags requests
// @Produce json
// @Param userID path int true "User ID"
// @Param eventId query int true "Event ID"
// @Success 201 {object} controllers.RequestSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/requests [post]
func (c *RequestController) AddRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.PathID(w, r, "userID")
	if !ok {
		return
	}
	eventID, err := strconv.ParseInt(r.URL.Query().Get("eventId"), 10, 64)
	if err != nil || eventID <= 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventId")
		return
	}
	req, err := c.Service.AddParticipationRequest(r.Context(), userID, eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, req)
}

// CancelRequest godoc
// @Summary Cancel one of the user's own requests
// @Tags requests
// @Produce json
// @Param userID path int true "User ID"
// @Param requestID path int true "Request ID"
// @Success 200 {object} controllers.RequestSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/requests/{requestID}/cancel [patch]
func (c *RequestController) CancelRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.PathID(w, r, "userID")
	if !ok {
		return
	}
	requestID, ok := helpers.PathID(w, r, "requestID")
	if !ok {
		return
	}
	req, err := c.Service.CancelRequest(r.Context(), userID, requestID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, req)
}

// ListEventRequests godoc
// @Summary List participation requests for the user's event
// @Tags requests
// @Produce json
// @Param userID path int true "User ID"
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.RequestListSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events/{eventID}/requests [get]
func (c *RequestController) ListEventRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.PathID(w, r, "userID")
	if !ok {
		return
	}
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	reqs, err := c.Service.ListEventRequests(r.Context(), userID, eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reqs)
}

// UpdateRequestStatus godoc
// @Summary Confirm or reject pending requests for the user's event
// @Description Applies decisions in the order request ids are listed. Confirmations stop when the participant limit fills; remaining requests in the batch are rejected.
// @Tags requests
// @Accept json
// @Produce json
// @Param userID path int true "User ID"
// @Param eventID path int true "Event ID"
// @Param body body UpdateRequestStatusRequest true "Request ids and the target status"
// @Success 200 {object} controllers.RequestStatusUpdateSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events/{eventID}/requests [patch]
func (c *RequestController) UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.PathID(w, r, "userID")
	if !ok {
		return
	}
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateRequestStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	upd := domain.RequestStatusUpdate{
		RequestIDs: req.RequestIDs,
		Status:     domain.RequestStatus(req.Status),
	}
	result, err := c.Service.UpdateEventRequestStatus(r.Context(), userID, eventID, upd)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
