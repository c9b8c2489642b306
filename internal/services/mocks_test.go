package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/yasaga2k/explore-with-me/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTxManager runs the function directly without a transaction.
type fakeTxManager struct {
	err error
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(ctx)
}

type mockUserRepository struct {
	users  map[int64]*domain.User
	emails map[string]bool
	err    error
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.err != nil {
		return m.err
	}
	user.ID = int64(len(m.users) + 1)
	if m.users == nil {
		m.users = map[int64]*domain.User{}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.emails[email], nil
}

func (m *mockUserRepository) List(ctx context.Context, ids []int64, page domain.PaginationParams) ([]*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	var users []*domain.User
	if len(ids) > 0 {
		for _, id := range ids {
			if u, ok := m.users[id]; ok {
				users = append(users, u)
			}
		}
		return users, nil
	}
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	delete(m.users, id)
	return nil
}

type mockEventRepository struct {
	events  map[int64]*domain.Event
	updated []*domain.Event
	err     error
}

func (m *mockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	event.ID = int64(len(m.events) + 1)
	if m.events == nil {
		m.events = map[int64]*domain.Event{}
	}
	m.events[event.ID] = event
	return nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	ev, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

func (m *mockEventRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Event, error) {
	return m.GetByID(ctx, id)
}

func (m *mockEventRepository) GetByIDAndInitiator(ctx context.Context, id, initiatorID int64) (*domain.Event, error) {
	ev, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ev.InitiatorID != initiatorID {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

func (m *mockEventRepository) GetPublishedByID(ctx context.Context, id int64) (*domain.Event, error) {
	ev, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ev.State != domain.StatePublished {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

func (m *mockEventRepository) ListByInitiator(ctx context.Context, initiatorID int64, page domain.PaginationParams) ([]*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	var events []*domain.Event
	for _, ev := range m.events {
		if ev.InitiatorID == initiatorID {
			events = append(events, ev)
		}
	}
	return events, nil
}

func (m *mockEventRepository) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	var events []*domain.Event
	for _, id := range ids {
		if ev, ok := m.events[id]; ok {
			events = append(events, ev)
		}
	}
	return events, nil
}

func (m *mockEventRepository) ListPublic(ctx context.Context, filter domain.PublicEventFilter) ([]*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	var events []*domain.Event
	for _, ev := range m.events {
		if ev.State == domain.StatePublished {
			events = append(events, ev)
		}
	}
	return events, nil
}

func (m *mockEventRepository) ListAdmin(ctx context.Context, filter domain.AdminEventFilter) ([]*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	var events []*domain.Event
	for _, ev := range m.events {
		events = append(events, ev)
	}
	return events, nil
}

func (m *mockEventRepository) Update(ctx context.Context, event *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.events[event.ID]; !ok {
		return domain.ErrNotFound
	}
	m.events[event.ID] = event
	m.updated = append(m.updated, event)
	return nil
}

func (m *mockEventRepository) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var count int64
	for _, ev := range m.events {
		if ev.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

type mockRequestRepository struct {
	requests map[int64]*domain.ParticipationRequest
	nextID   int64
	err      error
}

func (m *mockRequestRepository) Create(ctx context.Context, req *domain.ParticipationRequest) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	req.ID = m.nextID
	if m.requests == nil {
		m.requests = map[int64]*domain.ParticipationRequest{}
	}
	m.requests[req.ID] = req
	return nil
}

func (m *mockRequestRepository) GetByID(ctx context.Context, id int64) (*domain.ParticipationRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	req, ok := m.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return req, nil
}

func (m *mockRequestRepository) GetByEventAndRequester(ctx context.Context, eventID, requesterID int64) (*domain.ParticipationRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, req := range m.requests {
		if req.EventID == eventID && req.RequesterID == requesterID {
			return req, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRequestRepository) ListByRequester(ctx context.Context, requesterID int64) ([]*domain.ParticipationRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	var reqs []*domain.ParticipationRequest
	for _, req := range m.requests {
		if req.RequesterID == requesterID {
			reqs = append(reqs, req)
		}
	}
	return reqs, nil
}

func (m *mockRequestRepository) ListByEvent(ctx context.Context, eventID int64) ([]*domain.ParticipationRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	var reqs []*domain.ParticipationRequest
	for _, req := range m.requests {
		if req.EventID == eventID {
			reqs = append(reqs, req)
		}
	}
	return reqs, nil
}

func (m *mockRequestRepository) ListByIDs(ctx context.Context, ids []int64) ([]*domain.ParticipationRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	var reqs []*domain.ParticipationRequest
	for _, id := range ids {
		if req, ok := m.requests[id]; ok {
			reqs = append(reqs, req)
		}
	}
	return reqs, nil
}

func (m *mockRequestRepository) CountByEventAndStatus(ctx context.Context, eventID int64, status domain.RequestStatus) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var count int64
	for _, req := range m.requests {
		if req.EventID == eventID && req.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *mockRequestRepository) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) error {
	if m.err != nil {
		return m.err
	}
	req, ok := m.requests[id]
	if !ok {
		return domain.ErrNotFound
	}
	req.Status = status
	return nil
}

type mockCategoryRepository struct {
	categories map[int64]*domain.Category
	names      map[string]bool
	err        error
}

func (m *mockCategoryRepository) Create(ctx context.Context, cat *domain.Category) error {
	if m.err != nil {
		return m.err
	}
	cat.ID = int64(len(m.categories) + 1)
	if m.categories == nil {
		m.categories = map[int64]*domain.Category{}
	}
	m.categories[cat.ID] = cat
	return nil
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	cat, ok := m.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cat, nil
}

func (m *mockCategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.names[name], nil
}

func (m *mockCategoryRepository) List(ctx context.Context, page domain.PaginationParams) ([]*domain.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	var cats []*domain.Category
	for _, cat := range m.categories {
		cats = append(cats, cat)
	}
	return cats, nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, cat *domain.Category) error {
	if m.err != nil {
		return m.err
	}
	m.categories[cat.ID] = cat
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	delete(m.categories, id)
	return nil
}

type mockStatsClient struct {
	hits     []string
	views    map[string]int64
	hitErr   error
	statsErr error
}

func (m *mockStatsClient) Hit(ctx context.Context, uri, ip string) error {
	if m.hitErr != nil {
		return m.hitErr
	}
	m.hits = append(m.hits, uri)
	return nil
}

func (m *mockStatsClient) Stats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]domain.ViewStats, error) {
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	var stats []domain.ViewStats
	for _, uri := range uris {
		if hits, ok := m.views[uri]; ok {
			stats = append(stats, domain.ViewStats{App: "test", URI: uri, Hits: hits})
		}
	}
	return stats, nil
}

type mockEmailService struct {
	sent []*domain.RequestDecisionEmailData
	err  error
}

func (m *mockEmailService) SendRequestDecision(ctx context.Context, data *domain.RequestDecisionEmailData) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, data)
	return nil
}
