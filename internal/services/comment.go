package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yasaga2k/explore-with-me/internal/domain"
)

type commentService struct {
	commentRepo    domain.CommentRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	contextTimeout time.Duration
	now            func() time.Time
}

// NewCommentService creates a new comment service.
func NewCommentService(commentRepo domain.CommentRepository, eventRepo domain.EventRepository, userRepo domain.UserRepository, timeout time.Duration) domain.CommentService {
	return &commentService{
		commentRepo:    commentRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *commentService) AddComment(ctx context.Context, userID, eventID int64, text string) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	// Comments are allowed on published events only.
	if _, err := s.eventRepo.GetPublishedByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	comment := &domain.Comment{
		EventID:  eventID,
		AuthorID: userID,
		Text:     text,
		Created:  s.now(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) ListComments(ctx context.Context, eventID int64) ([]*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetPublishedByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	comments, err := s.commentRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (s *commentService) DeleteComment(ctx context.Context, commentID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	exists, err := s.commentRepo.Exists(ctx, commentID)
	if err != nil {
		return fmt.Errorf("check comment: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
