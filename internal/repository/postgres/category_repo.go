package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/yasaga2k/explore-with-me/internal/domain"
)

type categoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepository(db *sql.DB) domain.CategoryRepository {
	return &categoryRepository{
		DB: db,
	}
}

func (r *categoryRepository) Create(ctx context.Context, cat *domain.Category) error {
	query := `INSERT INTO categories (name) VALUES ($1) RETURNING id`
	return q(ctx, r.DB).QueryRowContext(ctx, query, cat.Name).Scan(&cat.ID)
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	cat := &domain.Category{}
	err := q(ctx, r.DB).QueryRowContext(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).
		Scan(&cat.ID, &cat.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return cat, nil
}

func (r *categoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := q(ctx, r.DB).QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE name = $1)`, name,
	).Scan(&exists)
	return exists, err
}

func (r *categoryRepository) List(ctx context.Context, page domain.PaginationParams) ([]*domain.Category, error) {
	rows, err := q(ctx, r.DB).QueryContext(ctx,
		`SELECT id, name FROM categories ORDER BY id LIMIT $1 OFFSET $2`,
		page.Limit(), page.Offset(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := make([]*domain.Category, 0)
	for rows.Next() {
		cat := &domain.Category{}
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	return cats, rows.Err()
}

func (r *categoryRepository) Update(ctx context.Context, cat *domain.Category) error {
	result, err := q(ctx, r.DB).ExecContext(ctx,
		`UPDATE categories SET name = $1 WHERE id = $2`, cat.Name, cat.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := q(ctx, r.DB).ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
