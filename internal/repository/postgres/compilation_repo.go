package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/yasaga2k/explore-with-me/internal/domain"
)

type compilationRepository struct {
	DB *sql.DB
}

func NewCompilationRepository(db *sql.DB) domain.CompilationRepository {
	return &compilationRepository{
		DB: db,
	}
}

func (r *compilationRepository) Create(ctx context.Context, comp *domain.Compilation) error {
	query := `INSERT INTO compilations (title, pinned) VALUES ($1, $2) RETURNING id`
	if err := q(ctx, r.DB).QueryRowContext(ctx, query, comp.Title, comp.Pinned).Scan(&comp.ID); err != nil {
		return err
	}
	return r.insertEvents(ctx, comp.ID, comp.EventIDs)
}

func (r *compilationRepository) insertEvents(ctx context.Context, compID int64, eventIDs []int64) error {
	for _, eventID := range eventIDs {
		_, err := q(ctx, r.DB).ExecContext(ctx,
			`INSERT INTO compilation_events (compilation_id, event_id) VALUES ($1, $2)`,
			compID, eventID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *compilationRepository) eventIDs(ctx context.Context, compID int64) ([]int64, error) {
	rows, err := q(ctx, r.DB).QueryContext(ctx,
		`SELECT event_id FROM compilation_events WHERE compilation_id = $1 ORDER BY event_id`,
		compID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *compilationRepository) GetByID(ctx context.Context, id int64) (*domain.Compilation, error) {
	comp := &domain.Compilation{}
	err := q(ctx, r.DB).QueryRowContext(ctx,
		`SELECT id, title, pinned FROM compilations WHERE id = $1`, id,
	).Scan(&comp.ID, &comp.Title, &comp.Pinned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	comp.EventIDs, err = r.eventIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return comp, nil
}

func (r *compilationRepository) List(ctx context.Context, pinned *bool, page domain.PaginationParams) ([]*domain.Compilation, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if pinned != nil {
		rows, err = q(ctx, r.DB).QueryContext(ctx,
			`SELECT id, title, pinned FROM compilations WHERE pinned = $1 ORDER BY id LIMIT $2 OFFSET $3`,
			*pinned, page.Limit(), page.Offset(),
		)
	} else {
		rows, err = q(ctx, r.DB).QueryContext(ctx,
			`SELECT id, title, pinned FROM compilations ORDER BY id LIMIT $1 OFFSET $2`,
			page.Limit(), page.Offset(),
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comps := make([]*domain.Compilation, 0)
	for rows.Next() {
		comp := &domain.Compilation{}
		if err := rows.Scan(&comp.ID, &comp.Title, &comp.Pinned); err != nil {
			return nil, err
		}
		comps = append(comps, comp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, comp := range comps {
		comp.EventIDs, err = r.eventIDs(ctx, comp.ID)
		if err != nil {
			return nil, err
		}
	}
	return comps, nil
}

func (r *compilationRepository) Update(ctx context.Context, comp *domain.Compilation) error {
	result, err := q(ctx, r.DB).ExecContext(ctx,
		`UPDATE compilations SET title = $1, pinned = $2 WHERE id = $3`,
		comp.Title, comp.Pinned, comp.ID,
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

func (r *compilationRepository) ReplaceEvents(ctx context.Context, compID int64, eventIDs []int64) error {
	_, err := q(ctx, r.DB).ExecContext(ctx,
		`DELETE FROM compilation_events WHERE compilation_id = $1`, compID,
	)
	if err != nil {
		return err
	}
	return r.insertEvents(ctx, compID, eventIDs)
}

func (r *compilationRepository) Delete(ctx context.Context, id int64) error {
	if _, err := q(ctx, r.DB).ExecContext(ctx,
		`DELETE FROM compilation_events WHERE compilation_id = $1`, id,
	); err != nil {
		return err
	}
	result, err := q(ctx, r.DB).ExecContext(ctx, `DELETE FROM compilations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
