package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/yasaga2k/explore-with-me/internal/domain"
)

func TestRequestRepository_Create(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO participation_requests`).
		WithArgs(int64(1), int64(2), domain.RequestPending, created).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	repo := NewRequestRepository(db)
	req := domain.NewParticipationRequest(1, 2, domain.RequestPending, created)
	require.NoError(t, repo.Create(ctx, req))
	require.Equal(t, int64(7), req.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		id      int64
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "found",
			id:   7,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, event_id, requester_id, status, created\s+FROM participation_requests\s+WHERE id = \$1`).
					WithArgs(int64(7)).
					WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "requester_id", "status", "created"}).
						AddRow(int64(7), int64(1), int64(2), "PENDING", created))
			},
		},
		{
			name: "missing row maps to ErrNotFound",
			id:   8,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, event_id, requester_id, status, created`).
					WithArgs(int64(8)).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)

			repo := NewRequestRepository(db)
			req, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.id, req.ID)
			require.Equal(t, domain.RequestPending, req.Status)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRequestRepository_ListByIDs(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("empty input short-circuits", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRequestRepository(db)
		reqs, err := repo.ListByIDs(ctx, nil)
		require.NoError(t, err)
		require.Empty(t, reqs)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns rows ordered by id", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, event_id, requester_id, status, created\s+FROM participation_requests\s+WHERE id = ANY\(\$1\)`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "requester_id", "status", "created"}).
				AddRow(int64(5), int64(1), int64(2), "PENDING", created).
				AddRow(int64(6), int64(1), int64(3), "PENDING", created))

		repo := NewRequestRepository(db)
		reqs, err := repo.ListByIDs(ctx, []int64{6, 5})
		require.NoError(t, err)
		require.Len(t, reqs, 2)
		require.Equal(t, int64(5), reqs[0].ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRequestRepository_CountByEventAndStatus(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM participation_requests WHERE event_id = \$1 AND status = \$2`).
		WithArgs(int64(1), domain.RequestConfirmed).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	repo := NewRequestRepository(db)
	count, err := repo.CountByEventAndStatus(ctx, 1, domain.RequestConfirmed)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "updated",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE participation_requests SET status = \$1 WHERE id = \$2`).
					WithArgs(domain.RequestConfirmed, int64(7)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "no rows affected maps to ErrNotFound",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE participation_requests SET status = \$1 WHERE id = \$2`).
					WithArgs(domain.RequestConfirmed, int64(7)).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)

			repo := NewRequestRepository(db)
			err = repo.UpdateStatus(ctx, 7, domain.RequestConfirmed)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTxManager_WithinTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success and routes queries through the tx", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE participation_requests SET status = \$1 WHERE id = \$2`).
			WithArgs(domain.RequestRejected, int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tm := NewTxManager(db)
		repo := NewRequestRepository(db)
		err = tm.WithinTx(ctx, func(ctx context.Context) error {
			return repo.UpdateStatus(ctx, 7, domain.RequestRejected)
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the function fails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		tm := NewTxManager(db)
		err = tm.WithinTx(ctx, func(ctx context.Context) error {
			return domain.ErrConflict
		})
		require.ErrorIs(t, err, domain.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
