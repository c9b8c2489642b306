package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/yasaga2k/explore-with-me/internal/domain"
)

// Event date floors: users must schedule at least two hours out, admins may
// publish only events starting more than one hour from now.
const (
	userEventDateFloor  = 2 * time.Hour
	adminPublishFloor   = 1 * time.Hour
	viewsLookbackPeriod = 365 * 24 * time.Hour
)

type eventService struct {
	txManager      domain.TxManager
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	categoryRepo   domain.CategoryRepository
	stats          domain.StatsClient
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewEventService creates the event lifecycle manager.
func NewEventService(
	txManager domain.TxManager,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	categoryRepo domain.CategoryRepository,
	stats domain.StatsClient,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		txManager:      txManager,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		categoryRepo:   categoryRepo,
		stats:          stats,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *eventService) AddEvent(ctx context.Context, initiatorID int64, event *domain.Event) (*domain.EventWithViews, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, initiatorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if _, err := s.categoryRepo.GetByID(ctx, event.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	if event.EventDate.Before(s.now().Add(userEventDateFloor)) {
		return nil, fmt.Errorf("%w: event date must be at least 2 hours from now", domain.ErrConflict)
	}

	event.InitiatorID = initiatorID
	event.State = domain.StatePending
	event.CreatedOn = s.now()
	event.PublishedOn = nil

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.logger.InfoContext(ctx, "event created", "event_id", event.ID, "initiator_id", initiatorID)
	return &domain.EventWithViews{Event: event, Views: 0}, nil
}

func (s *eventService) GetPublicEvent(ctx context.Context, eventID int64, uri, ip string) (*domain.EventWithViews, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetPublishedByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get published event: %w", err)
	}

	s.addHit(ctx, uri, ip)
	return &domain.EventWithViews{Event: event, Views: s.eventViews(ctx, eventID)}, nil
}

func (s *eventService) ListPublicEvents(ctx context.Context, filter domain.PublicEventFilter, uri, ip string) ([]*domain.EventWithViews, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if filter.RangeStart != nil && filter.RangeEnd != nil && filter.RangeStart.After(*filter.RangeEnd) {
		return nil, fmt.Errorf("%w: start date must be before end date", domain.ErrInvalidInput)
	}
	switch filter.Sort {
	case "", domain.SortViews, domain.SortEventDate:
	default:
		return nil, fmt.Errorf("%w: sort must be EVENT_DATE or VIEWS", domain.ErrInvalidInput)
	}
	if filter.RangeStart == nil {
		start := s.now()
		filter.RangeStart = &start
	}

	s.addHit(ctx, uri, ip)

	events, err := s.eventRepo.ListPublic(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list public events: %w", err)
	}
	return s.withViews(ctx, events), nil
}

func (s *eventService) GetUserEvent(ctx context.Context, userID, eventID int64) (*domain.EventWithViews, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	event, err := s.eventRepo.GetByIDAndInitiator(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &domain.EventWithViews{Event: event, Views: s.eventViews(ctx, eventID)}, nil
}

func (s *eventService) ListUserEvents(ctx context.Context, userID int64, page domain.PaginationParams) ([]*domain.EventWithViews, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	events, err := s.eventRepo.ListByInitiator(ctx, userID, page)
	if err != nil {
		return nil, fmt.Errorf("list user events: %w", err)
	}
	return s.withViews(ctx, events), nil
}

func (s *eventService) ListAdminEvents(ctx context.Context, filter domain.AdminEventFilter) ([]*domain.EventWithViews, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListAdmin(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list admin events: %w", err)
	}
	return s.withViews(ctx, events), nil
}

func (s *eventService) UpdateEventByUser(ctx context.Context, userID, eventID int64, upd domain.EventUpdate) (*domain.EventWithViews, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var event *domain.Event
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get user: %w", err)
		}
		var err error
		event, err = s.eventRepo.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get event: %w", err)
		}
		// Ownership failure is masked as not found.
		if event.InitiatorID != userID {
			return domain.ErrNotFound
		}
		if event.State == domain.StatePublished {
			return fmt.Errorf("%w: only pending or canceled events can be changed", domain.ErrConflict)
		}
		if upd.EventDate != nil {
			if upd.EventDate.Before(s.now().Add(userEventDateFloor)) {
				return fmt.Errorf("%w: event date must be at least 2 hours from now", domain.ErrInvalidInput)
			}
		} else if event.EventDate.Before(s.now().Add(userEventDateFloor)) {
			return fmt.Errorf("%w: event date must be at least 2 hours from now", domain.ErrInvalidInput)
		}
		if err := s.applyUserUpdate(ctx, event, upd); err != nil {
			return err
		}
		if err := s.eventRepo.Update(ctx, event); err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "event updated by user", "event_id", eventID, "user_id", userID, "state", event.State)
	return &domain.EventWithViews{Event: event, Views: s.eventViews(ctx, eventID)}, nil
}

func (s *eventService) UpdateEventByAdmin(ctx context.Context, eventID int64, upd domain.EventUpdate) (*domain.EventWithViews, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var event *domain.Event
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		event, err = s.eventRepo.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get event: %w", err)
		}
		// The publish window is checked against the event's current date,
		// before any date edit in the same payload applies.
		if upd.StateAction != nil && *upd.StateAction == domain.ActionPublishEvent {
			if event.EventDate.Before(s.now().Add(adminPublishFloor)) {
				return fmt.Errorf("%w: cannot publish the event because it starts in less than 1 hour", domain.ErrConflict)
			}
		}
		if err := s.applyAdminUpdate(ctx, event, upd); err != nil {
			return err
		}
		if err := s.eventRepo.Update(ctx, event); err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "event updated by admin", "event_id", eventID, "state", event.State)
	return &domain.EventWithViews{Event: event, Views: s.eventViews(ctx, eventID)}, nil
}

func (s *eventService) applyUserUpdate(ctx context.Context, event *domain.Event, upd domain.EventUpdate) error {
	if upd.StateAction != nil {
		switch *upd.StateAction {
		case domain.ActionSendToReview:
			event.State = domain.StatePending
		case domain.ActionCancelReview:
			event.State = domain.StateCanceled
		default:
			return fmt.Errorf("%w: state action must be SEND_TO_REVIEW or CANCEL_REVIEW", domain.ErrInvalidInput)
		}
	}
	return s.applyCommonFields(ctx, event, upd)
}

func (s *eventService) applyAdminUpdate(ctx context.Context, event *domain.Event, upd domain.EventUpdate) error {
	if upd.StateAction != nil {
		switch *upd.StateAction {
		case domain.ActionPublishEvent:
			if event.State != domain.StatePending {
				return fmt.Errorf("%w: cannot publish the event because it's not in the right state: %s", domain.ErrConflict, event.State)
			}
			event.State = domain.StatePublished
			published := s.now()
			event.PublishedOn = &published
		case domain.ActionRejectEvent:
			if event.State == domain.StatePublished {
				return fmt.Errorf("%w: cannot reject an already published event", domain.ErrConflict)
			}
			event.State = domain.StateCanceled
		default:
			return fmt.Errorf("%w: state action must be PUBLISH_EVENT or REJECT_EVENT", domain.ErrInvalidInput)
		}
	}
	return s.applyCommonFields(ctx, event, upd)
}

// applyCommonFields copies the optional payload fields onto the event.
// Each field applies independently; nil leaves the current value.
func (s *eventService) applyCommonFields(ctx context.Context, event *domain.Event, upd domain.EventUpdate) error {
	if upd.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *upd.CategoryID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get category: %w", err)
		}
		event.CategoryID = *upd.CategoryID
	}
	if upd.EventDate != nil {
		if upd.EventDate.Before(s.now()) {
			return fmt.Errorf("%w: event date cannot be in the past", domain.ErrInvalidInput)
		}
		event.EventDate = *upd.EventDate
	}
	if upd.Title != nil {
		event.Title = *upd.Title
	}
	if upd.Annotation != nil {
		event.Annotation = *upd.Annotation
	}
	if upd.Description != nil {
		event.Description = *upd.Description
	}
	if upd.Location != nil {
		event.Location = *upd.Location
	}
	if upd.Paid != nil {
		event.Paid = *upd.Paid
	}
	if upd.ParticipantLimit != nil {
		event.ParticipantLimit = *upd.ParticipantLimit
	}
	if upd.RequestModeration != nil {
		event.RequestModeration = *upd.RequestModeration
	}
	return nil
}

// addHit records a view on the stats service. Best-effort: failures are
// logged and never surfaced to the caller.
func (s *eventService) addHit(ctx context.Context, uri, ip string) {
	if err := s.stats.Hit(ctx, uri, ip); err != nil {
		s.logger.WarnContext(ctx, "failed to record hit", "uri", uri, "err", err)
	}
}

func eventURI(eventID int64) string {
	return "/events/" + strconv.FormatInt(eventID, 10)
}

// eventViews returns the unique view count for one event, 0 on any failure.
func (s *eventService) eventViews(ctx context.Context, eventID int64) int64 {
	end := s.now()
	stats, err := s.stats.Stats(ctx, end.Add(-viewsLookbackPeriod), end, []string{eventURI(eventID)}, true)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to get views", "event_id", eventID, "err", err)
		return 0
	}
	if len(stats) == 0 {
		return 0
	}
	return stats[0].Hits
}

// eventsViews returns view counts per event id; missing or failed lookups
// simply leave an id out of the map.
func (s *eventService) eventsViews(ctx context.Context, ids []int64) map[int64]int64 {
	views := make(map[int64]int64)
	if len(ids) == 0 {
		return views
	}
	uris := make([]string, len(ids))
	for i, id := range ids {
		uris[i] = eventURI(id)
	}
	end := s.now()
	stats, err := s.stats.Stats(ctx, end.Add(-viewsLookbackPeriod), end, uris, false)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to get views", "err", err)
		return views
	}
	for _, stat := range stats {
		idStr := strings.TrimPrefix(stat.URI, "/events/")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			continue
		}
		views[id] = stat.Hits
	}
	return views
}

func (s *eventService) withViews(ctx context.Context, events []*domain.Event) []*domain.EventWithViews {
	ids := make([]int64, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	views := s.eventsViews(ctx, ids)
	result := make([]*domain.EventWithViews, len(events))
	for i, e := range events {
		result[i] = &domain.EventWithViews{Event: e, Views: views[e.ID]}
	}
	return result
}
