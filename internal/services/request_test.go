package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yasaga2k/explore-with-me/internal/domain"
)

func newTestRequestService(reqRepo *mockRequestRepository, eventRepo *mockEventRepository, userRepo *mockUserRepository, emails *mockEmailService) domain.RequestService {
	return NewRequestService(&fakeTxManager{}, reqRepo, eventRepo, userRepo, emails, discardLogger(), time.Second)
}

func publishedEvent(id, initiatorID int64, limit int, moderation bool) *domain.Event {
	return &domain.Event{
		ID:                id,
		Title:             "Published event",
		InitiatorID:       initiatorID,
		State:             domain.StatePublished,
		ParticipantLimit:  limit,
		RequestModeration: moderation,
		EventDate:         time.Now().Add(48 * time.Hour),
	}
}

func TestRequestService_AddParticipationRequest(t *testing.T) {
	tests := []struct {
		name       string
		event      *domain.Event
		existing   []*domain.ParticipationRequest
		userID     int64
		eventID    int64
		wantStatus domain.RequestStatus
		wantErr    error
	}{
		{
			name:       "pending when event has moderation and a limit",
			event:      publishedEvent(1, 10, 5, true),
			userID:     2,
			eventID:    1,
			wantStatus: domain.RequestPending,
		},
		{
			name:       "confirmed immediately when moderation is off",
			event:      publishedEvent(1, 10, 5, false),
			userID:     2,
			eventID:    1,
			wantStatus: domain.RequestConfirmed,
		},
		{
			name:       "confirmed immediately when there is no participant limit",
			event:      publishedEvent(1, 10, 0, true),
			userID:     2,
			eventID:    1,
			wantStatus: domain.RequestConfirmed,
		},
		{
			name:    "initiator cannot request own event",
			event:   publishedEvent(1, 10, 5, true),
			userID:  10,
			eventID: 1,
			wantErr: domain.ErrConflict,
		},
		{
			name: "unpublished event is rejected",
			event: &domain.Event{
				ID: 1, InitiatorID: 10, State: domain.StatePending,
				ParticipantLimit: 5, RequestModeration: true,
			},
			userID:  2,
			eventID: 1,
			wantErr: domain.ErrConflict,
		},
		{
			name:  "a prior request blocks a re-request even when canceled",
			event: publishedEvent(1, 10, 5, true),
			existing: []*domain.ParticipationRequest{
				{ID: 7, EventID: 1, RequesterID: 2, Status: domain.RequestCanceled},
			},
			userID:  2,
			eventID: 1,
			wantErr: domain.ErrConflict,
		},
		{
			name:  "full event is rejected",
			event: publishedEvent(1, 10, 1, true),
			existing: []*domain.ParticipationRequest{
				{ID: 7, EventID: 1, RequesterID: 3, Status: domain.RequestConfirmed},
			},
			userID:  2,
			eventID: 1,
			wantErr: domain.ErrConflict,
		},
		{
			name:    "unknown user",
			event:   publishedEvent(1, 10, 5, true),
			userID:  99,
			eventID: 1,
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "unknown event",
			event:   publishedEvent(1, 10, 5, true),
			userID:  2,
			eventID: 99,
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserRepository{users: map[int64]*domain.User{
				2:  {ID: 2, Email: "requester@example.com", Name: "Requester"},
				10: {ID: 10, Email: "initiator@example.com", Name: "Initiator"},
			}}
			events := &mockEventRepository{events: map[int64]*domain.Event{tt.event.ID: tt.event}}
			reqRepo := &mockRequestRepository{requests: map[int64]*domain.ParticipationRequest{}, nextID: 100}
			for _, r := range tt.existing {
				reqRepo.requests[r.ID] = r
			}
			svc := newTestRequestService(reqRepo, events, users, &mockEmailService{})

			req, err := svc.AddParticipationRequest(context.Background(), tt.userID, tt.eventID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", req.Status, tt.wantStatus)
			}
			if req.ID == 0 {
				t.Errorf("request id was not assigned")
			}
			if req.EventID != tt.eventID || req.RequesterID != tt.userID {
				t.Errorf("request references = (%d, %d), want (%d, %d)", req.EventID, req.RequesterID, tt.eventID, tt.userID)
			}
		})
	}
}

func TestRequestService_CancelRequest(t *testing.T) {
	users := &mockUserRepository{users: map[int64]*domain.User{2: {ID: 2}}}
	events := &mockEventRepository{events: map[int64]*domain.Event{}}

	t.Run("requester cancels own request", func(t *testing.T) {
		reqRepo := &mockRequestRepository{requests: map[int64]*domain.ParticipationRequest{
			5: {ID: 5, EventID: 1, RequesterID: 2, Status: domain.RequestPending},
		}}
		svc := newTestRequestService(reqRepo, events, users, &mockEmailService{})

		req, err := svc.CancelRequest(context.Background(), 2, 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.Status != domain.RequestCanceled {
			t.Errorf("status = %s, want CANCELED", req.Status)
		}
		if reqRepo.requests[5].Status != domain.RequestCanceled {
			t.Errorf("stored status = %s, want CANCELED", reqRepo.requests[5].Status)
		}
	})

	t.Run("foreign request is reported as missing", func(t *testing.T) {
		reqRepo := &mockRequestRepository{requests: map[int64]*domain.ParticipationRequest{
			5: {ID: 5, EventID: 1, RequesterID: 3, Status: domain.RequestPending},
		}}
		svc := newTestRequestService(reqRepo, events, users, &mockEmailService{})

		if _, err := svc.CancelRequest(context.Background(), 2, 5); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if reqRepo.requests[5].Status != domain.RequestPending {
			t.Errorf("foreign request was modified")
		}
	})

	t.Run("unknown request", func(t *testing.T) {
		reqRepo := &mockRequestRepository{requests: map[int64]*domain.ParticipationRequest{}}
		svc := newTestRequestService(reqRepo, events, users, &mockEmailService{})

		if _, err := svc.CancelRequest(context.Background(), 2, 99); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRequestService_ListEventRequests(t *testing.T) {
	users := &mockUserRepository{users: map[int64]*domain.User{10: {ID: 10}}}
	events := &mockEventRepository{events: map[int64]*domain.Event{
		1: publishedEvent(1, 10, 5, true),
	}}
	reqRepo := &mockRequestRepository{requests: map[int64]*domain.ParticipationRequest{
		5: {ID: 5, EventID: 1, RequesterID: 2, Status: domain.RequestPending},
		6: {ID: 6, EventID: 2, RequesterID: 2, Status: domain.RequestPending},
	}}
	svc := newTestRequestService(reqRepo, events, users, &mockEmailService{})

	reqs, err := svc.ListEventRequests(context.Background(), 10, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reqs) != 1 || reqs[0].ID != 5 {
		t.Errorf("got %d requests, want the single request for event 1", len(reqs))
	}

	if _, err := svc.ListEventRequests(context.Background(), 2, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("non-initiator access: expected ErrNotFound, got %v", err)
	}
}

func TestRequestService_UpdateEventRequestStatus(t *testing.T) {
	newFixture := func(limit int, requests ...*domain.ParticipationRequest) (*mockRequestRepository, *mockEventRepository, *mockUserRepository, *mockEmailService) {
		users := &mockUserRepository{users: map[int64]*domain.User{
			2:  {ID: 2, Email: "a@example.com"},
			3:  {ID: 3, Email: "b@example.com"},
			4:  {ID: 4, Email: "c@example.com"},
			5:  {ID: 5, Email: "d@example.com"},
			10: {ID: 10, Email: "owner@example.com"},
		}}
		events := &mockEventRepository{events: map[int64]*domain.Event{
			1: publishedEvent(1, 10, limit, true),
		}}
		reqRepo := &mockRequestRepository{requests: map[int64]*domain.ParticipationRequest{}}
		for _, r := range requests {
			reqRepo.requests[r.ID] = r
		}
		return reqRepo, events, users, &mockEmailService{}
	}

	t.Run("confirms in input order until the limit fills, then rejects the rest", func(t *testing.T) {
		reqRepo, events, users, emails := newFixture(3,
			&domain.ParticipationRequest{ID: 20, EventID: 1, RequesterID: 5, Status: domain.RequestConfirmed},
			&domain.ParticipationRequest{ID: 21, EventID: 1, RequesterID: 2, Status: domain.RequestPending},
			&domain.ParticipationRequest{ID: 22, EventID: 1, RequesterID: 3, Status: domain.RequestPending},
			&domain.ParticipationRequest{ID: 23, EventID: 1, RequesterID: 4, Status: domain.RequestPending},
		)
		svc := newTestRequestService(reqRepo, events, users, emails)

		result, err := svc.UpdateEventRequestStatus(context.Background(), 10, 1, domain.RequestStatusUpdate{
			RequestIDs: []int64{22, 21, 23},
			Status:     domain.RequestConfirmed,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.ConfirmedRequests) != 2 {
			t.Fatalf("confirmed %d requests, want 2", len(result.ConfirmedRequests))
		}
		if result.ConfirmedRequests[0].ID != 22 || result.ConfirmedRequests[1].ID != 21 {
			t.Errorf("confirmed ids = [%d %d], want input order [22 21]",
				result.ConfirmedRequests[0].ID, result.ConfirmedRequests[1].ID)
		}
		if len(result.RejectedRequests) != 1 || result.RejectedRequests[0].ID != 23 {
			t.Fatalf("rejected = %v, want request 23", result.RejectedRequests)
		}
		if reqRepo.requests[23].Status != domain.RequestRejected {
			t.Errorf("overflow request was not persisted as REJECTED")
		}
		if len(emails.sent) != 3 {
			t.Errorf("sent %d decision emails, want 3", len(emails.sent))
		}
	})

	t.Run("rejects the whole batch", func(t *testing.T) {
		reqRepo, events, users, emails := newFixture(3,
			&domain.ParticipationRequest{ID: 21, EventID: 1, RequesterID: 2, Status: domain.RequestPending},
			&domain.ParticipationRequest{ID: 22, EventID: 1, RequesterID: 3, Status: domain.RequestPending},
		)
		svc := newTestRequestService(reqRepo, events, users, emails)

		result, err := svc.UpdateEventRequestStatus(context.Background(), 10, 1, domain.RequestStatusUpdate{
			RequestIDs: []int64{21, 22},
			Status:     domain.RequestRejected,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.RejectedRequests) != 2 || len(result.ConfirmedRequests) != 0 {
			t.Errorf("got %d rejected / %d confirmed, want 2 / 0",
				len(result.RejectedRequests), len(result.ConfirmedRequests))
		}
	})

	t.Run("no limit confirms everything", func(t *testing.T) {
		reqRepo, events, users, emails := newFixture(0,
			&domain.ParticipationRequest{ID: 21, EventID: 1, RequesterID: 2, Status: domain.RequestPending},
			&domain.ParticipationRequest{ID: 22, EventID: 1, RequesterID: 3, Status: domain.RequestPending},
			&domain.ParticipationRequest{ID: 23, EventID: 1, RequesterID: 4, Status: domain.RequestPending},
		)
		svc := newTestRequestService(reqRepo, events, users, emails)

		result, err := svc.UpdateEventRequestStatus(context.Background(), 10, 1, domain.RequestStatusUpdate{
			RequestIDs: []int64{21, 22, 23},
			Status:     domain.RequestConfirmed,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.ConfirmedRequests) != 3 || len(result.RejectedRequests) != 0 {
			t.Errorf("got %d confirmed / %d rejected, want 3 / 0",
				len(result.ConfirmedRequests), len(result.RejectedRequests))
		}
	})

	t.Run("invalid target status", func(t *testing.T) {
		reqRepo, events, users, emails := newFixture(3)
		svc := newTestRequestService(reqRepo, events, users, emails)

		_, err := svc.UpdateEventRequestStatus(context.Background(), 10, 1, domain.RequestStatusUpdate{
			RequestIDs: []int64{21},
			Status:     domain.RequestCanceled,
		})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("non-pending request fails the whole batch", func(t *testing.T) {
		reqRepo, events, users, emails := newFixture(3,
			&domain.ParticipationRequest{ID: 21, EventID: 1, RequesterID: 2, Status: domain.RequestPending},
			&domain.ParticipationRequest{ID: 22, EventID: 1, RequesterID: 3, Status: domain.RequestCanceled},
		)
		svc := newTestRequestService(reqRepo, events, users, emails)

		_, err := svc.UpdateEventRequestStatus(context.Background(), 10, 1, domain.RequestStatusUpdate{
			RequestIDs: []int64{21, 22},
			Status:     domain.RequestConfirmed,
		})
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
		if reqRepo.requests[21].Status != domain.RequestPending {
			t.Errorf("valid request in failed batch was modified")
		}
	})

	t.Run("request from another event fails the batch", func(t *testing.T) {
		reqRepo, events, users, emails := newFixture(3,
			&domain.ParticipationRequest{ID: 21, EventID: 2, RequesterID: 2, Status: domain.RequestPending},
		)
		svc := newTestRequestService(reqRepo, events, users, emails)

		_, err := svc.UpdateEventRequestStatus(context.Background(), 10, 1, domain.RequestStatusUpdate{
			RequestIDs: []int64{21},
			Status:     domain.RequestConfirmed,
		})
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("full event rejects the confirmation batch", func(t *testing.T) {
		reqRepo, events, users, emails := newFixture(1,
			&domain.ParticipationRequest{ID: 20, EventID: 1, RequesterID: 5, Status: domain.RequestConfirmed},
			&domain.ParticipationRequest{ID: 21, EventID: 1, RequesterID: 2, Status: domain.RequestPending},
		)
		svc := newTestRequestService(reqRepo, events, users, emails)

		_, err := svc.UpdateEventRequestStatus(context.Background(), 10, 1, domain.RequestStatusUpdate{
			RequestIDs: []int64{21},
			Status:     domain.RequestConfirmed,
		})
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("ids without a matching request are skipped", func(t *testing.T) {
		reqRepo, events, users, emails := newFixture(3,
			&domain.ParticipationRequest{ID: 21, EventID: 1, RequesterID: 2, Status: domain.RequestPending},
		)
		svc := newTestRequestService(reqRepo, events, users, emails)

		result, err := svc.UpdateEventRequestStatus(context.Background(), 10, 1, domain.RequestStatusUpdate{
			RequestIDs: []int64{99, 21, 98},
			Status:     domain.RequestConfirmed,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.ConfirmedRequests) != 1 || result.ConfirmedRequests[0].ID != 21 {
			t.Errorf("confirmed = %v, want only request 21", result.ConfirmedRequests)
		}
	})

	t.Run("non-initiator is reported as missing", func(t *testing.T) {
		reqRepo, events, users, emails := newFixture(3)
		svc := newTestRequestService(reqRepo, events, users, emails)

		_, err := svc.UpdateEventRequestStatus(context.Background(), 2, 1, domain.RequestStatusUpdate{
			RequestIDs: []int64{21},
			Status:     domain.RequestConfirmed,
		})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("email failure does not fail the update", func(t *testing.T) {
		reqRepo, events, users, emails := newFixture(3,
			&domain.ParticipationRequest{ID: 21, EventID: 1, RequesterID: 2, Status: domain.RequestPending},
		)
		emails.err = errors.New("smtp down")
		svc := newTestRequestService(reqRepo, events, users, emails)

		result, err := svc.UpdateEventRequestStatus(context.Background(), 10, 1, domain.RequestStatusUpdate{
			RequestIDs: []int64{21},
			Status:     domain.RequestConfirmed,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.ConfirmedRequests) != 1 {
			t.Errorf("confirmed %d requests, want 1", len(result.ConfirmedRequests))
		}
	})
}
