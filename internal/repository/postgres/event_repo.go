package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/yasaga2k/explore-with-me/internal/domain"
)

const eventColumns = `id, title, annotation, description, category_id, initiator_id, event_date, lat, lon, paid, participant_limit, request_moderation, state, created_on, published_on`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var publishedNull sql.NullTime
	err := row.Scan(
		&e.ID, &e.Title, &e.Annotation, &e.Description, &e.CategoryID, &e.InitiatorID,
		&e.EventDate, &e.Location.Lat, &e.Location.Lon, &e.Paid, &e.ParticipantLimit,
		&e.RequestModeration, &e.State, &e.CreatedOn, &publishedNull,
	)
	if err != nil {
		return nil, err
	}
	if publishedNull.Valid {
		e.PublishedOn = &publishedNull.Time
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, annotation, description, category_id, initiator_id, event_date, lat, lon, paid, participant_limit, request_moderation, state, created_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	return q(ctx, r.DB).QueryRowContext(ctx, query,
		e.Title, e.Annotation, e.Description, e.CategoryID, e.InitiatorID,
		e.EventDate, e.Location.Lat, e.Location.Lon, e.Paid, e.ParticipantLimit,
		e.RequestModeration, e.State, e.CreatedOn,
	).Scan(&e.ID)
}

func (r *eventRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Event, error) {
	e, err := scanEvent(q(ctx, r.DB).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	return r.getOne(ctx, query, id)
}

func (r *eventRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1 FOR UPDATE`, eventColumns)
	return r.getOne(ctx, query, id)
}

func (r *eventRepository) GetByIDAndInitiator(ctx context.Context, id, initiatorID int64) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1 AND initiator_id = $2`, eventColumns)
	return r.getOne(ctx, query, id, initiatorID)
}

func (r *eventRepository) GetPublishedByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1 AND state = $2`, eventColumns)
	return r.getOne(ctx, query, id, domain.StatePublished)
}

func (r *eventRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := q(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) ListByInitiator(ctx context.Context, initiatorID int64, page domain.PaginationParams) ([]*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE initiator_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3
	`, eventColumns)
	return r.list(ctx, query, initiatorID, page.Limit(), page.Offset())
}

func (r *eventRepository) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Event, error) {
	if len(ids) == 0 {
		return []*domain.Event{}, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = ANY($1) ORDER BY id`, eventColumns)
	return r.list(ctx, query, pq.Array(ids))
}

func (r *eventRepository) ListPublic(ctx context.Context, filter domain.PublicEventFilter) ([]*domain.Event, error) {
	where := []string{"state = $1"}
	args := []any{domain.StatePublished}
	n := 2
	if filter.Text != "" {
		where = append(where, fmt.Sprintf("(LOWER(annotation) LIKE $%d OR LOWER(description) LIKE $%d)", n, n))
		args = append(args, "%"+strings.ToLower(filter.Text)+"%")
		n++
	}
	if len(filter.CategoryIDs) > 0 {
		where = append(where, fmt.Sprintf("category_id = ANY($%d)", n))
		args = append(args, pq.Array(filter.CategoryIDs))
		n++
	}
	if filter.Paid != nil {
		where = append(where, fmt.Sprintf("paid = $%d", n))
		args = append(args, *filter.Paid)
		n++
	}
	if filter.RangeStart != nil {
		where = append(where, fmt.Sprintf("event_date >= $%d", n))
		args = append(args, *filter.RangeStart)
		n++
	}
	if filter.RangeEnd != nil {
		where = append(where, fmt.Sprintf("event_date <= $%d", n))
		args = append(args, *filter.RangeEnd)
		n++
	}
	if filter.OnlyAvailable {
		where = append(where, `(participant_limit = 0 OR
			(SELECT COUNT(*) FROM participation_requests r WHERE r.event_id = events.id AND r.status = 'CONFIRMED') < participant_limit)`)
	}

	// VIEWS keeps the stable id order; only EVENT_DATE changes the ordering.
	orderBy := "id"
	if filter.Sort == domain.SortEventDate {
		orderBy = "event_date DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, eventColumns, strings.Join(where, " AND "), orderBy, n, n+1)
	args = append(args, filter.Pagination.Limit(), filter.Pagination.Offset())
	return r.list(ctx, query, args...)
}

func (r *eventRepository) ListAdmin(ctx context.Context, filter domain.AdminEventFilter) ([]*domain.Event, error) {
	where := []string{"TRUE"}
	args := []any{}
	n := 1
	if len(filter.InitiatorIDs) > 0 {
		where = append(where, fmt.Sprintf("initiator_id = ANY($%d)", n))
		args = append(args, pq.Array(filter.InitiatorIDs))
		n++
	}
	if len(filter.States) > 0 {
		states := make([]string, len(filter.States))
		for i, s := range filter.States {
			states[i] = string(s)
		}
		where = append(where, fmt.Sprintf("state = ANY($%d)", n))
		args = append(args, pq.Array(states))
		n++
	}
	if len(filter.CategoryIDs) > 0 {
		where = append(where, fmt.Sprintf("category_id = ANY($%d)", n))
		args = append(args, pq.Array(filter.CategoryIDs))
		n++
	}
	if filter.RangeStart != nil {
		where = append(where, fmt.Sprintf("event_date >= $%d", n))
		args = append(args, *filter.RangeStart)
		n++
	}
	if filter.RangeEnd != nil {
		where = append(where, fmt.Sprintf("event_date <= $%d", n))
		args = append(args, *filter.RangeEnd)
		n++
	}

	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE %s
		ORDER BY id
		LIMIT $%d OFFSET $%d
	`, eventColumns, strings.Join(where, " AND "), n, n+1)
	args = append(args, filter.Pagination.Limit(), filter.Pagination.Offset())
	return r.list(ctx, query, args...)
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, annotation = $2, description = $3, category_id = $4,
		    event_date = $5, lat = $6, lon = $7, paid = $8, participant_limit = $9,
		    request_moderation = $10, state = $11, published_on = $12
		WHERE id = $13
	`
	var published sql.NullTime
	if e.PublishedOn != nil {
		published = sql.NullTime{Time: *e.PublishedOn, Valid: true}
	}
	result, err := q(ctx, r.DB).ExecContext(ctx, query,
		e.Title, e.Annotation, e.Description, e.CategoryID,
		e.EventDate, e.Location.Lat, e.Location.Lon, e.Paid, e.ParticipantLimit,
		e.RequestModeration, e.State, published, e.ID,
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

func (r *eventRepository) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := q(ctx, r.DB).QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE category_id = $1`, categoryID).Scan(&count)
	return count, err
}
