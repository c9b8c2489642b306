package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yasaga2k/explore-with-me/internal/domain"
)

type categoryService struct {
	categoryRepo   domain.CategoryRepository
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo domain.CategoryRepository, eventRepo domain.EventRepository, timeout time.Duration) domain.CategoryService {
	return &categoryService{
		categoryRepo:   categoryRepo,
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *categoryService) AddCategory(ctx context.Context, name string) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	exists, err := s.categoryRepo.ExistsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check category name: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: category name already exists", domain.ErrConflict)
	}
	cat := &domain.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, cat); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return cat, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id int64, name string) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	cat, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	if cat.Name != name {
		exists, err := s.categoryRepo.ExistsByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("check category name: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: category name already exists", domain.ErrConflict)
		}
	}
	cat.Name = name
	if err := s.categoryRepo.Update(ctx, cat); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return cat, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get category: %w", err)
	}
	count, err := s.eventRepo.CountByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("count events in category: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: the category is not empty", domain.ErrConflict)
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (s *categoryService) ListCategories(ctx context.Context, page domain.PaginationParams) ([]*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	cats, err := s.categoryRepo.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	cat, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return cat, nil
}
