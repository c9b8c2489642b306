package postgres

import (
	"context"
	"database/sql"

	"github.com/yasaga2k/explore-with-me/internal/domain"
)

type commentRepository struct {
	DB *sql.DB
}

func NewCommentRepository(db *sql.DB) domain.CommentRepository {
	return &commentRepository{
		DB: db,
	}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (event_id, author_id, text, created)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return q(ctx, r.DB).QueryRowContext(ctx, query,
		comment.EventID, comment.AuthorID, comment.Text, comment.Created,
	).Scan(&comment.ID)
}

func (r *commentRepository) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Comment, error) {
	rows, err := q(ctx, r.DB).QueryContext(ctx,
		`SELECT id, event_id, author_id, text, created FROM comments WHERE event_id = $1 ORDER BY created`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		c := &domain.Comment{}
		if err := rows.Scan(&c.ID, &c.EventID, &c.AuthorID, &c.Text, &c.Created); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *commentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := q(ctx, r.DB).QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM comments WHERE id = $1)`, id,
	).Scan(&exists)
	return exists, err
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	result, err := q(ctx, r.DB).ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
