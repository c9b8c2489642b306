package domain

import (
	"context"
	"time"
)

// EventState is the moderation lifecycle state of an event.
type EventState string

const (
	StatePending   EventState = "PENDING"
	StatePublished EventState = "PUBLISHED"
	StateCanceled  EventState = "CANCELED"
)

// State actions accepted in update payloads. Users send events to review or
// cancel them; admins publish or reject.
const (
	ActionSendToReview = "SEND_TO_REVIEW"
	ActionCancelReview = "CANCEL_REVIEW"
	ActionPublishEvent = "PUBLISH_EVENT"
	ActionRejectEvent  = "REJECT_EVENT"
)

// Location is a latitude/longitude pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Event represents an event published by an initiator.
// swagger:model Event
type Event struct {
	ID                int64      `json:"id"`
	Title             string     `json:"title"`
	Annotation        string     `json:"annotation"`
	Description       string     `json:"description"`
	CategoryID        int64      `json:"category"`
	InitiatorID       int64      `json:"initiator"`
	EventDate         time.Time  `json:"event_date"`
	Location          Location   `json:"location"`
	Paid              bool       `json:"paid"`
	ParticipantLimit  int        `json:"participant_limit"`
	RequestModeration bool       `json:"request_moderation"`
	State             EventState `json:"state"`
	CreatedOn         time.Time  `json:"created_on"`
	PublishedOn       *time.Time `json:"published_on,omitempty"`
}

// NewEvent returns a pending event owned by initiatorID. ID is set by the
// repository on create.
func NewEvent(initiatorID, categoryID int64, title, annotation, description string, eventDate time.Time, loc Location, paid bool, participantLimit int, requestModeration bool, createdOn time.Time) *Event {
	return &Event{
		Title:             title,
		Annotation:        annotation,
		Description:       description,
		CategoryID:        categoryID,
		InitiatorID:       initiatorID,
		EventDate:         eventDate,
		Location:          loc,
		Paid:              paid,
		ParticipantLimit:  participantLimit,
		RequestModeration: requestModeration,
		State:             StatePending,
		CreatedOn:         createdOn,
	}
}

// EventWithViews pairs an event with its view count from the stats service.
// swagger:model EventWithViews
type EventWithViews struct {
	Event *Event `json:"event"`
	Views int64  `json:"views"`
}

// EventUpdate is a partial update payload. Nil fields are left unchanged.
type EventUpdate struct {
	Title             *string
	Annotation        *string
	Description       *string
	CategoryID        *int64
	EventDate         *time.Time
	Location          *Location
	Paid              *bool
	ParticipantLimit  *int
	RequestModeration *bool
	StateAction       *string
}

// EventSort orders public event search results.
type EventSort string

const (
	SortEventDate EventSort = "EVENT_DATE"
	SortViews     EventSort = "VIEWS"
)

// PublicEventFilter selects published events for the public search endpoint.
type PublicEventFilter struct {
	Text          string
	CategoryIDs   []int64
	Paid          *bool
	RangeStart    *time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
	Sort          EventSort
	Pagination    PaginationParams
}

// AdminEventFilter selects events for the admin listing.
type AdminEventFilter struct {
	InitiatorIDs []int64
	States       []EventState
	CategoryIDs  []int64
	RangeStart   *time.Time
	RangeEnd     *time.Time
	Pagination   PaginationParams
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	// GetByIDForUpdate locks the event row for the duration of the active
	// transaction. Must be called inside TxManager.WithinTx.
	GetByIDForUpdate(ctx context.Context, id int64) (*Event, error)
	GetByIDAndInitiator(ctx context.Context, id, initiatorID int64) (*Event, error)
	GetPublishedByID(ctx context.Context, id int64) (*Event, error)
	ListByInitiator(ctx context.Context, initiatorID int64, page PaginationParams) ([]*Event, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*Event, error)
	ListPublic(ctx context.Context, filter PublicEventFilter) ([]*Event, error)
	ListAdmin(ctx context.Context, filter AdminEventFilter) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	CountByCategory(ctx context.Context, categoryID int64) (int64, error)
}

// EventService is the event lifecycle manager: creation, search, and the
// moderation state machine.
type EventService interface {
	AddEvent(ctx context.Context, initiatorID int64, event *Event) (*EventWithViews, error)
	GetPublicEvent(ctx context.Context, eventID int64, uri, ip string) (*EventWithViews, error)
	ListPublicEvents(ctx context.Context, filter PublicEventFilter, uri, ip string) ([]*EventWithViews, error)
	GetUserEvent(ctx context.Context, userID, eventID int64) (*EventWithViews, error)
	ListUserEvents(ctx context.Context, userID int64, page PaginationParams) ([]*EventWithViews, error)
	ListAdminEvents(ctx context.Context, filter AdminEventFilter) ([]*EventWithViews, error)
	UpdateEventByUser(ctx context.Context, userID, eventID int64, upd EventUpdate) (*EventWithViews, error)
	UpdateEventByAdmin(ctx context.Context, eventID int64, upd EventUpdate) (*EventWithViews, error)
}
