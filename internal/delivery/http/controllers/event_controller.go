package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/yasaga2k/explore-with-me/internal/delivery/http/helpers"
	"github.com/yasaga2k/explore-with-me/internal/domain"
)

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// NewEventRequest is the request body for POST /users/{userID}/events.
type NewEventRequest struct {
	Title             string          `json:"title"`
	Annotation        string          `json:"annotation"`
	Description       string          `json:"description"`
	Category          int64           `json:"category"`
	EventDate         string          `json:"event_date"`
	Location          domain.Location `json:"location"`
	Paid              *bool           `json:"paid"`
	ParticipantLimit  *int            `json:"participant_limit"`
	RequestModeration *bool           `json:"request_moderation"`
}

// Validate implements Validator. Returns error messages for required and format rules.
func (req NewEventRequest) Validate() []string {
	var errs []string
	if l := len(req.Title); l < 3 || l > 120 {
		errs = append(errs, "title must be between 3 and 120 characters")
	}
	if l := len(req.Annotation); l < 20 || l > 2000 {
		errs = append(errs, "annotation must be between 20 and 2000 characters")
	}
	if l := len(req.Description); l < 20 || l > 7000 {
		errs = append(errs, "description must be between 20 and 7000 characters")
	}
	if req.Category <= 0 {
		errs = append(errs, "category is required")
	}
	if req.EventDate == "" {
		errs = append(errs, "event_date is required")
	} else if _, err := helpers.ParseDateTime(req.EventDate); err != nil {
		errs = append(errs, "event_date must be formatted as yyyy-MM-dd HH:mm:ss")
	}
	if req.ParticipantLimit != nil && *req.ParticipantLimit < 0 {
		errs = append(errs, "participant_limit must not be negative")
	}
	return errs
}

// UpdateEventRequest is the partial update body for the user and admin PATCH
// endpoints. Absent fields are left unchanged.
type UpdateEventRequest struct {
	Title             *string          `json:"title"`
	Annotation        *string          `json:"annotation"`
	Description       *string          `json:"description"`
	Category          *int64           `json:"category"`
	EventDate         *string          `json:"event_date"`
	Location          *domain.Location `json:"location"`
	Paid              *bool            `json:"paid"`
	ParticipantLimit  *int             `json:"participant_limit"`
	RequestModeration *bool            `json:"request_moderation"`
	StateAction       *string          `json:"state_action"`
}

// Validate implements Validator.
func (req UpdateEventRequest) Validate() []string {
	var errs []string
	if req.Title != nil {
		if l := len(*req.Title); l < 3 || l > 120 {
			errs = append(errs, "title must be between 3 and 120 characters")
		}
	}
	if req.Annotation != nil {
		if l := len(*req.Annotation); l < 20 || l > 2000 {
			errs = append(errs, "annotation must be between 20 and 2000 characters")
		}
	}
	if req.Description != nil {
		if l := len(*req.Description); l < 20 || l > 7000 {
			errs = append(errs, "description must be between 20 and 7000 characters")
		}
	}
	if req.EventDate != nil {
		if _, err := helpers.ParseDateTime(*req.EventDate); err != nil {
			errs = append(errs, "event_date must be formatted as yyyy-MM-dd HH:mm:ss")
		}
	}
	if req.ParticipantLimit != nil && *req.ParticipantLimit < 0 {
		errs = append(errs, "participant_limit must not be negative")
	}
	return errs
}

func (req UpdateEventRequest) toDomain() domain.EventUpdate {
	upd := domain.EventUpdate{
		Title:             req.Title,
		Annotation:        req.Annotation,
		Description:       req.Description,
		CategoryID:        req.Category,
		Location:          req.Location,
		Paid:              req.Paid,
		ParticipantLimit:  req.ParticipantLimit,
		RequestModeration: req.RequestModeration,
		StateAction:       req.StateAction,
	}
	if req.EventDate != nil {
		// Validate() already accepted the format.
		t, _ := helpers.ParseDateTime(*req.EventDate)
		upd.EventDate = &t
	}
	return upd
}

// EventSuccessResponse is the success envelope for single-event endpoints.
type EventSuccessResponse struct {
	Data  *domain.EventWithViews `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// EventListSuccessResponse is the success envelope for event list endpoints.
type EventListSuccessResponse struct {
	Data  []*domain.EventWithViews `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// AddEvent godoc
// @Summary Create a new event
// @Description Creates a pending event owned by the user. The event date must be at least two hours in the future.
// @Tags events
// @Accept json
// @Produce json
// @Param userID path int true "User ID"
// @Param event body NewEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events [post]
func (c *EventController) AddEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.PathID(w, r, "userID")
	if !ok {
		return
	}
	var req NewEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	eventDate, _ := helpers.ParseDateTime(req.EventDate)
	paid := false
	if req.Paid != nil {
		paid = *req.Paid
	}
	limit := 0
	if req.ParticipantLimit != nil {
		limit = *req.ParticipantLimit
	}
	moderation := true
	if req.RequestModeration != nil {
		moderation = *req.RequestModeration
	}
	event := domain.NewEvent(userID, req.Category, req.Title, req.Annotation, req.Description,
		eventDate, req.Location, paid, limit, moderation, time.Now())
	created, err := c.Service.AddEvent(r.Context(), userID, event)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, created)
}

// ListPublicEvents godoc
// @Summary Search published events
// @Description Full public search over published events. Recorded as a hit in the stats service.
// @Tags events
// @Produce json
// @Param text query string false "Text to match in annotation or description"
// @Param categories query []int false "Category IDs"
// @Param paid query bool false "Filter by paid flag"
// @Param rangeStart query string false "Earliest event date (yyyy-MM-dd HH:mm:ss)"
// @Param rangeEnd query string false "Latest event date (yyyy-MM-dd HH:mm:ss)"
// @Param onlyAvailable query bool false "Only events with free participation slots"
// @Param sort query string false "EVENT_DATE or VIEWS"
// @Param from query int false "Offset"
// @Param size query int false "Page size"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListPublicEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.PublicEventFilter{
		Text:          q.Get("text"),
		CategoryIDs:   helpers.ParseIDList(r, "categories"),
		OnlyAvailable: q.Get("onlyAvailable") == "true",
		Pagination:    helpers.ParsePagination(r),
	}
	if s := q.Get("paid"); s != "" {
		paid := s == "true"
		filter.Paid = &paid
	}
	if s := q.Get("rangeStart"); s != "" {
		t, err := helpers.ParseDateTime(s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid rangeStart")
			return
		}
		filter.RangeStart = &t
	}
	if s := q.Get("rangeEnd"); s != "" {
		t, err := helpers.ParseDateTime(s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid rangeEnd")
			return
		}
		filter.RangeEnd = &t
	}
	if s := q.Get("sort"); s != "" {
		filter.Sort = domain.EventSort(s)
	}

	events, err := c.Service.ListPublicEvents(r.Context(), filter, r.URL.RequestURI(), helpers.ClientIP(r))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetPublicEvent godoc
// @Summary Get a published event
// @Description Returns a published event with its view count. Recorded as a hit in the stats service.
// @Tags events
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetPublicEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	event, err := c.Service.GetPublicEvent(r.Context(), eventID, r.URL.Path, helpers.ClientIP(r))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListUserEvents godoc
// @Summary List events created by the user
// @Tags events
// @Produce json
// @Param userID path int true "User ID"
// @Param from query int false "Offset"
// @Param size query int false "Page size"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events [get]
func (c *EventController) ListUserEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.PathID(w, r, "userID")
	if !ok {
		return
	}
	events, err := c.Service.ListUserEvents(r.Context(), userID, helpers.ParsePagination(r))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetUserEvent godoc
// @Summary Get one of the user's own events
// @Tags events
// @Produce json
// @Param userID path int true "User ID"
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events/{eventID} [get]
func (c *EventController) GetUserEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.PathID(w, r, "userID")
	if !ok {
		return
	}
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	event, err := c.Service.GetUserEvent(r.Context(), userID, eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateUserEvent godoc
// @Summary Update one of the user's own events
// @Description Applies a partial update. Published events cannot be changed; SEND_TO_REVIEW and CANCEL_REVIEW drive the moderation state.
// @Tags events
// @Accept json
// @Produce json
// @Param userID path int true "User ID"
// @Param eventID path int true "Event ID"
// @Param event body UpdateEventRequest true "Fields to change"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events/{eventID} [patch]
func (c *EventController) UpdateUserEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.PathID(w, r, "userID")
	if !ok {
		return
	}
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEventByUser(r.Context(), userID, eventID, req.toDomain())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListAdminEvents godoc
// @Summary List events for moderation
// @Tags admin
// @Produce json
// @Param users query []int false "Initiator IDs"
// @Param states query []string false "Event states"
// @Param categories query []int false "Category IDs"
// @Param rangeStart query string false "Earliest event date (yyyy-MM-dd HH:mm:ss)"
// @Param rangeEnd query string false "Latest event date (yyyy-MM-dd HH:mm:ss)"
// @Param from query int false "Offset"
// @Param size query int false "Page size"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [get]
func (c *EventController) ListAdminEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.AdminEventFilter{
		InitiatorIDs: helpers.ParseIDList(r, "users"),
		CategoryIDs:  helpers.ParseIDList(r, "categories"),
		Pagination:   helpers.ParsePagination(r),
	}
	for _, s := range q["states"] {
		filter.States = append(filter.States, domain.EventState(s))
	}
	if s := q.Get("rangeStart"); s != "" {
		t, err := helpers.ParseDateTime(s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid rangeStart")
			return
		}
		filter.RangeStart = &t
	}
	if s := q.Get("rangeEnd"); s != "" {
		t, err := helpers.ParseDateTime(s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid rangeEnd")
			return
		}
		filter.RangeEnd = &t
	}

	events, err := c.Service.ListAdminEvents(r.Context(), filter)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// UpdateAdminEvent godoc
// @Summary Moderate an event
// @Description Applies an admin update. PUBLISH_EVENT requires a pending event starting more than an hour from now; REJECT_EVENT requires an unpublished event.
// @Tags admin
// @Accept json
// @Produce json
// @Param eventID path int true "Event ID"
// @Param event body UpdateEventRequest true "Fields to change"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID} [patch]
func (c *EventController) UpdateAdminEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEventByAdmin(r.Context(), eventID, req.toDomain())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}
