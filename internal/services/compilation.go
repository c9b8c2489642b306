package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yasaga2k/explore-with-me/internal/domain"
)

type compilationService struct {
	txManager       domain.TxManager
	compilationRepo domain.CompilationRepository
	eventRepo       domain.EventRepository
	contextTimeout  time.Duration
}

// NewCompilationService creates a new compilation service.
func NewCompilationService(txManager domain.TxManager, compilationRepo domain.CompilationRepository, eventRepo domain.EventRepository, timeout time.Duration) domain.CompilationService {
	return &compilationService{
		txManager:       txManager,
		compilationRepo: compilationRepo,
		eventRepo:       eventRepo,
		contextTimeout:  timeout,
	}
}

func (s *compilationService) AddCompilation(ctx context.Context, title string, pinned bool, eventIDs []int64) (*domain.CompilationWithEvents, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	comp := &domain.Compilation{Title: title, Pinned: pinned, EventIDs: eventIDs}
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkEventsExist(ctx, eventIDs); err != nil {
			return err
		}
		if err := s.compilationRepo.Create(ctx, comp); err != nil {
			return fmt.Errorf("create compilation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.withEvents(ctx, comp)
}

func (s *compilationService) UpdateCompilation(ctx context.Context, id int64, upd domain.CompilationUpdate) (*domain.CompilationWithEvents, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var comp *domain.Compilation
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		comp, err = s.compilationRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get compilation: %w", err)
		}
		if upd.Title != nil {
			comp.Title = *upd.Title
		}
		if upd.Pinned != nil {
			comp.Pinned = *upd.Pinned
		}
		if err := s.compilationRepo.Update(ctx, comp); err != nil {
			return fmt.Errorf("update compilation: %w", err)
		}
		if upd.EventIDs != nil {
			if err := s.checkEventsExist(ctx, upd.EventIDs); err != nil {
				return err
			}
			if err := s.compilationRepo.ReplaceEvents(ctx, id, upd.EventIDs); err != nil {
				return fmt.Errorf("replace compilation events: %w", err)
			}
			comp.EventIDs = upd.EventIDs
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.withEvents(ctx, comp)
}

func (s *compilationService) DeleteCompilation(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.compilationRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get compilation: %w", err)
	}
	if err := s.compilationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete compilation: %w", err)
	}
	return nil
}

func (s *compilationService) ListCompilations(ctx context.Context, pinned *bool, page domain.PaginationParams) ([]*domain.CompilationWithEvents, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	comps, err := s.compilationRepo.List(ctx, pinned, page)
	if err != nil {
		return nil, fmt.Errorf("list compilations: %w", err)
	}
	result := make([]*domain.CompilationWithEvents, 0, len(comps))
	for _, comp := range comps {
		cwe, err := s.withEvents(ctx, comp)
		if err != nil {
			return nil, err
		}
		result = append(result, cwe)
	}
	return result, nil
}

func (s *compilationService) GetCompilation(ctx context.Context, id int64) (*domain.CompilationWithEvents, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	comp, err := s.compilationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get compilation: %w", err)
	}
	return s.withEvents(ctx, comp)
}

func (s *compilationService) checkEventsExist(ctx context.Context, eventIDs []int64) error {
	if len(eventIDs) == 0 {
		return nil
	}
	events, err := s.eventRepo.ListByIDs(ctx, eventIDs)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	found := make(map[int64]bool, len(events))
	for _, ev := range events {
		found[ev.ID] = true
	}
	for _, id := range eventIDs {
		if !found[id] {
			return fmt.Errorf("%w: event %d not found", domain.ErrNotFound, id)
		}
	}
	return nil
}

func (s *compilationService) withEvents(ctx context.Context, comp *domain.Compilation) (*domain.CompilationWithEvents, error) {
	events := []*domain.Event{}
	if len(comp.EventIDs) > 0 {
		var err error
		events, err = s.eventRepo.ListByIDs(ctx, comp.EventIDs)
		if err != nil {
			return nil, fmt.Errorf("list compilation events: %w", err)
		}
	}
	return &domain.CompilationWithEvents{Compilation: comp, Events: events}, nil
}
