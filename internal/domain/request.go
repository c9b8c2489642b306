package domain

import (
	"context"
	"time"
)

// RequestStatus is the admission status of a participation request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestConfirmed RequestStatus = "CONFIRMED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestCanceled  RequestStatus = "CANCELED"
)

// ParticipationRequest is a user's request to participate in an event. Event
// and requester are plain foreign keys, never embedded copies.
// swagger:model ParticipationRequest
type ParticipationRequest struct {
	ID          int64         `json:"id"`
	EventID     int64         `json:"event"`
	RequesterID int64         `json:"requester"`
	Status      RequestStatus `json:"status"`
	Created     time.Time     `json:"created"`
}

// NewParticipationRequest returns a request for the given pair. Status is
// decided by the admission controller; ID is set by the repository on create.
func NewParticipationRequest(eventID, requesterID int64, status RequestStatus, created time.Time) *ParticipationRequest {
	return &ParticipationRequest{
		EventID:     eventID,
		RequesterID: requesterID,
		Status:      status,
		Created:     created,
	}
}

// RequestStatusUpdate is the batch decision payload for an event's pending
// requests. Status must be RequestConfirmed or RequestRejected.
type RequestStatusUpdate struct {
	RequestIDs []int64
	Status     RequestStatus
}

// RequestStatusUpdateResult reports the requests confirmed and rejected by a
// single batch decision. Only requests targeted by that call are included.
// swagger:model RequestStatusUpdateResult
type RequestStatusUpdateResult struct {
	ConfirmedRequests []*ParticipationRequest `json:"confirmed_requests"`
	RejectedRequests  []*ParticipationRequest `json:"rejected_requests"`
}

// RequestRepository defines the interface for participation request storage.
type RequestRepository interface {
	Create(ctx context.Context, req *ParticipationRequest) error
	GetByID(ctx context.Context, id int64) (*ParticipationRequest, error)
	// GetByEventAndRequester returns the requester's request for the event
	// regardless of status; any prior request blocks a re-request.
	GetByEventAndRequester(ctx context.Context, eventID, requesterID int64) (*ParticipationRequest, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]*ParticipationRequest, error)
	ListByEvent(ctx context.Context, eventID int64) ([]*ParticipationRequest, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*ParticipationRequest, error)
	CountByEventAndStatus(ctx context.Context, eventID int64, status RequestStatus) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status RequestStatus) error
}

// RequestService is the admission controller for participation requests.
type RequestService interface {
	ListUserRequests(ctx context.Context, userID int64) ([]*ParticipationRequest, error)
	AddParticipationRequest(ctx context.Context, userID, eventID int64) (*ParticipationRequest, error)
	CancelRequest(ctx context.Context, userID, requestID int64) (*ParticipationRequest, error)
	ListEventRequests(ctx context.Context, userID, eventID int64) ([]*ParticipationRequest, error)
	UpdateEventRequestStatus(ctx context.Context, userID, eventID int64, upd RequestStatusUpdate) (*RequestStatusUpdateResult, error)
}
