package domain

import "context"

// Category classifies events.
// swagger:model Category
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryRepository defines the interface for category storage.
type CategoryRepository interface {
	Create(ctx context.Context, cat *Category) error
	GetByID(ctx context.Context, id int64) (*Category, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context, page PaginationParams) ([]*Category, error)
	Update(ctx context.Context, cat *Category) error
	Delete(ctx context.Context, id int64) error
}

// CategoryService manages event categories.
type CategoryService interface {
	AddCategory(ctx context.Context, name string) (*Category, error)
	UpdateCategory(ctx context.Context, id int64, name string) (*Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	ListCategories(ctx context.Context, page PaginationParams) ([]*Category, error)
	GetCategory(ctx context.Context, id int64) (*Category, error)
}
