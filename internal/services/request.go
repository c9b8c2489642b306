package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yasaga2k/explore-with-me/internal/domain"
)

type requestService struct {
	txManager      domain.TxManager
	requestRepo    domain.RequestRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewRequestService creates the participation request admission controller.
func NewRequestService(
	txManager domain.TxManager,
	requestRepo domain.RequestRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RequestService {
	return &requestService{
		txManager:      txManager,
		requestRepo:    requestRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *requestService) ListUserRequests(ctx context.Context, userID int64) ([]*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	reqs, err := s.requestRepo.ListByRequester(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return reqs, nil
}

func (s *requestService) AddParticipationRequest(ctx context.Context, userID, eventID int64) (*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var req *domain.ParticipationRequest
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get user: %w", err)
		}
		// Lock the event row so the confirmed count below cannot be raced by
		// a concurrent request or confirmation batch for the same event.
		event, err := s.eventRepo.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get event: %w", err)
		}
		if event.InitiatorID == userID {
			return fmt.Errorf("%w: initiator cannot request participation in their own event", domain.ErrConflict)
		}
		if event.State != domain.StatePublished {
			return fmt.Errorf("%w: cannot request participation in an unpublished event", domain.ErrConflict)
		}
		// Any prior request for the pair blocks a re-request, whatever its
		// status ended up as.
		if _, err := s.requestRepo.GetByEventAndRequester(ctx, eventID, userID); err == nil {
			return fmt.Errorf("%w: participation request already exists", domain.ErrConflict)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get request: %w", err)
		}
		if event.ParticipantLimit > 0 {
			confirmed, err := s.requestRepo.CountByEventAndStatus(ctx, eventID, domain.RequestConfirmed)
			if err != nil {
				return fmt.Errorf("count confirmed requests: %w", err)
			}
			if confirmed >= int64(event.ParticipantLimit) {
				return fmt.Errorf("%w: participant limit has been reached", domain.ErrConflict)
			}
		}

		status := domain.RequestPending
		if !event.RequestModeration || event.ParticipantLimit == 0 {
			status = domain.RequestConfirmed
		}
		req = domain.NewParticipationRequest(eventID, userID, status, s.now())
		if err := s.requestRepo.Create(ctx, req); err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "participation request created",
		"request_id", req.ID, "event_id", eventID, "requester_id", userID, "status", req.Status)
	return req, nil
}

func (s *requestService) CancelRequest(ctx context.Context, userID, requestID int64) (*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var req *domain.ParticipationRequest
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		req, err = s.requestRepo.GetByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get request: %w", err)
		}
		// A foreign request is reported as missing.
		if req.RequesterID != userID {
			return domain.ErrNotFound
		}
		req.Status = domain.RequestCanceled
		if err := s.requestRepo.UpdateStatus(ctx, requestID, domain.RequestCanceled); err != nil {
			return fmt.Errorf("update request status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "participation request canceled", "request_id", requestID, "requester_id", userID)
	return req, nil
}

func (s *requestService) ListEventRequests(ctx context.Context, userID, eventID int64) ([]*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.InitiatorID != userID {
		return nil, domain.ErrNotFound
	}
	reqs, err := s.requestRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event requests: %w", err)
	}
	return reqs, nil
}

func (s *requestService) UpdateEventRequestStatus(ctx context.Context, userID, eventID int64, upd domain.RequestStatusUpdate) (*domain.RequestStatusUpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if upd.Status != domain.RequestConfirmed && upd.Status != domain.RequestRejected {
		return nil, fmt.Errorf("%w: status must be CONFIRMED or REJECTED", domain.ErrInvalidInput)
	}

	result := &domain.RequestStatusUpdateResult{
		ConfirmedRequests: []*domain.ParticipationRequest{},
		RejectedRequests:  []*domain.ParticipationRequest{},
	}
	var event *domain.Event
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		// Lock the event row: two concurrent batches for the same event must
		// not both observe slack capacity and jointly overcommit.
		event, err = s.eventRepo.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get event: %w", err)
		}
		if event.InitiatorID != userID {
			return domain.ErrNotFound
		}

		fetched, err := s.requestRepo.ListByIDs(ctx, upd.RequestIDs)
		if err != nil {
			return fmt.Errorf("list requests: %w", err)
		}
		// The whole batch is validated before anything is written: a request
		// from another event or in a non-pending state fails every change.
		byID := make(map[int64]*domain.ParticipationRequest, len(fetched))
		for _, req := range fetched {
			if req.EventID != eventID {
				return fmt.Errorf("%w: request %d does not belong to event %d", domain.ErrConflict, req.ID, eventID)
			}
			if req.Status != domain.RequestPending {
				return fmt.Errorf("%w: request %d is not in PENDING status", domain.ErrConflict, req.ID)
			}
			byID[req.ID] = req
		}
		// Decisions are applied in the caller's input order; ids with no
		// matching request are skipped.
		ordered := make([]*domain.ParticipationRequest, 0, len(fetched))
		seen := make(map[int64]bool, len(fetched))
		for _, id := range upd.RequestIDs {
			if req, ok := byID[id]; ok && !seen[id] {
				ordered = append(ordered, req)
				seen[id] = true
			}
		}

		if upd.Status == domain.RequestRejected {
			for _, req := range ordered {
				if err := s.setStatus(ctx, req, domain.RequestRejected); err != nil {
					return err
				}
				result.RejectedRequests = append(result.RejectedRequests, req)
			}
			return nil
		}

		availableSlots := int64(0)
		if event.ParticipantLimit > 0 {
			confirmed, err := s.requestRepo.CountByEventAndStatus(ctx, eventID, domain.RequestConfirmed)
			if err != nil {
				return fmt.Errorf("count confirmed requests: %w", err)
			}
			availableSlots = int64(event.ParticipantLimit) - confirmed
			if availableSlots <= 0 {
				return fmt.Errorf("%w: participant limit has been reached", domain.ErrConflict)
			}
		}
		for _, req := range ordered {
			if event.ParticipantLimit == 0 || availableSlots > 0 {
				if err := s.setStatus(ctx, req, domain.RequestConfirmed); err != nil {
					return err
				}
				result.ConfirmedRequests = append(result.ConfirmedRequests, req)
				if event.ParticipantLimit > 0 {
					availableSlots--
				}
			} else {
				if err := s.setStatus(ctx, req, domain.RequestRejected); err != nil {
					return err
				}
				result.RejectedRequests = append(result.RejectedRequests, req)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "request statuses updated", "event_id", eventID,
		"confirmed", len(result.ConfirmedRequests), "rejected", len(result.RejectedRequests))
	s.notifyDecisions(ctx, event, result)
	return result, nil
}

func (s *requestService) setStatus(ctx context.Context, req *domain.ParticipationRequest, status domain.RequestStatus) error {
	if err := s.requestRepo.UpdateStatus(ctx, req.ID, status); err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	req.Status = status
	return nil
}

// notifyDecisions emails each affected requester after the batch commits.
// Everything here is best-effort: lookup or send failures are logged only.
func (s *requestService) notifyDecisions(ctx context.Context, event *domain.Event, result *domain.RequestStatusUpdateResult) {
	for _, req := range append(result.ConfirmedRequests, result.RejectedRequests...) {
		user, err := s.userRepo.GetByID(ctx, req.RequesterID)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to load requester for notification", "request_id", req.ID, "err", err)
			continue
		}
		data := &domain.RequestDecisionEmailData{
			Email:      user.Email,
			EventTitle: event.Title,
			Status:     req.Status,
		}
		if err := s.emailService.SendRequestDecision(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "failed to send decision email", "request_id", req.ID, "err", err)
		}
	}
}
