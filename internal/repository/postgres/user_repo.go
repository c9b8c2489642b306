package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/yasaga2k/explore-with-me/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{
		DB: db,
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (email, name, created_at) VALUES ($1, $2, $3) RETURNING id`
	return q(ctx, r.DB).QueryRowContext(ctx, query, user.Email, user.Name, user.CreatedAt).
		Scan(&user.ID)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user := &domain.User{}
	err := q(ctx, r.DB).QueryRowContext(ctx,
		`SELECT id, email, name, created_at FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := q(ctx, r.DB).QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	return exists, err
}

func (r *userRepository) List(ctx context.Context, ids []int64, page domain.PaginationParams) ([]*domain.User, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if len(ids) > 0 {
		rows, err = q(ctx, r.DB).QueryContext(ctx,
			`SELECT id, email, name, created_at FROM users WHERE id = ANY($1) ORDER BY id`,
			pq.Array(ids),
		)
	} else {
		rows, err = q(ctx, r.DB).QueryContext(ctx,
			`SELECT id, email, name, created_at FROM users ORDER BY id LIMIT $1 OFFSET $2`,
			page.Limit(), page.Offset(),
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user := &domain.User{}
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	result, err := q(ctx, r.DB).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
