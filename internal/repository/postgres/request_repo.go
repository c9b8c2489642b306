package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/yasaga2k/explore-with-me/internal/domain"
)

type requestRepository struct {
	DB *sql.DB
}

func NewRequestRepository(db *sql.DB) domain.RequestRepository {
	return &requestRepository{
		DB: db,
	}
}

func (r *requestRepository) Create(ctx context.Context, req *domain.ParticipationRequest) error {
	query := `
		INSERT INTO participation_requests (event_id, requester_id, status, created)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return q(ctx, r.DB).QueryRowContext(ctx, query, req.EventID, req.RequesterID, req.Status, req.Created).
		Scan(&req.ID)
}

func (r *requestRepository) GetByID(ctx context.Context, id int64) (*domain.ParticipationRequest, error) {
	query := `
		SELECT id, event_id, requester_id, status, created
		FROM participation_requests
		WHERE id = $1
	`
	req := &domain.ParticipationRequest{}
	err := q(ctx, r.DB).QueryRowContext(ctx, query, id).
		Scan(&req.ID, &req.EventID, &req.RequesterID, &req.Status, &req.Created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *requestRepository) GetByEventAndRequester(ctx context.Context, eventID, requesterID int64) (*domain.ParticipationRequest, error) {
	query := `
		SELECT id, event_id, requester_id, status, created
		FROM participation_requests
		WHERE event_id = $1 AND requester_id = $2
	`
	req := &domain.ParticipationRequest{}
	err := q(ctx, r.DB).QueryRowContext(ctx, query, eventID, requesterID).
		Scan(&req.ID, &req.EventID, &req.RequesterID, &req.Status, &req.Created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *requestRepository) list(ctx context.Context, query string, args ...any) ([]*domain.ParticipationRequest, error) {
	rows, err := q(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs := make([]*domain.ParticipationRequest, 0)
	for rows.Next() {
		req := &domain.ParticipationRequest{}
		if err := rows.Scan(&req.ID, &req.EventID, &req.RequesterID, &req.Status, &req.Created); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

func (r *requestRepository) ListByRequester(ctx context.Context, requesterID int64) ([]*domain.ParticipationRequest, error) {
	query := `
		SELECT id, event_id, requester_id, status, created
		FROM participation_requests
		WHERE requester_id = $1
		ORDER BY created DESC
	`
	return r.list(ctx, query, requesterID)
}

func (r *requestRepository) ListByEvent(ctx context.Context, eventID int64) ([]*domain.ParticipationRequest, error) {
	query := `
		SELECT id, event_id, requester_id, status, created
		FROM participation_requests
		WHERE event_id = $1
		ORDER BY id
	`
	return r.list(ctx, query, eventID)
}

func (r *requestRepository) ListByIDs(ctx context.Context, ids []int64) ([]*domain.ParticipationRequest, error) {
	if len(ids) == 0 {
		return []*domain.ParticipationRequest{}, nil
	}
	query := `
		SELECT id, event_id, requester_id, status, created
		FROM participation_requests
		WHERE id = ANY($1)
		ORDER BY id
	`
	return r.list(ctx, query, pq.Array(ids))
}

func (r *requestRepository) CountByEventAndStatus(ctx context.Context, eventID int64, status domain.RequestStatus) (int64, error) {
	var count int64
	err := q(ctx, r.DB).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participation_requests WHERE event_id = $1 AND status = $2`,
		eventID, status,
	).Scan(&count)
	return count, err
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) error {
	result, err := q(ctx, r.DB).ExecContext(ctx,
		`UPDATE participation_requests SET status = $1 WHERE id = $2`,
		status, id,
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
