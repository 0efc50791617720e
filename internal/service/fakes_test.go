package service

import (
	"context"
	"errors"
	"sync"

	"github.com/monuchauhan/nios-elearning/internal/domain"
	"github.com/monuchauhan/nios-elearning/internal/payment"
)

type fakeUsers struct {
	mu        sync.Mutex
	byID      map[string]*domain.User
	createErr error
}

func newFakeUsers(users ...*domain.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*domain.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.byID {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
		if u.Mobile == user.Mobile {
			return domain.ErrMobileTaken
		}
	}
	stored := *user
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeUsers) find(match func(*domain.User) bool) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	return f.find(func(u *domain.User) bool { return u.ID == id })
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return f.find(func(u *domain.User) bool { return u.Email == email })
}

func (f *fakeUsers) GetByMobile(_ context.Context, mobile string) (*domain.User, error) {
	return f.find(func(u *domain.User) bool { return u.Mobile == mobile })
}

func (f *fakeUsers) flag(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	return ok && u.HasPurchased
}

// fakePurchases mimics the unique key and the single transaction of the
// Postgres recorder.
type fakePurchases struct {
	mu        sync.Mutex
	users     *fakeUsers
	rows      map[string]domain.Purchase
	recordErr error
}

func newFakePurchases(users *fakeUsers) *fakePurchases {
	return &fakePurchases{users: users, rows: map[string]domain.Purchase{}}
}

func purchaseKey(userID, courseID string) string {
	return userID + "/" + courseID
}

func (f *fakePurchases) FindByUserAndCourse(_ context.Context, userID, courseID string) (*domain.Purchase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[purchaseKey(userID, courseID)]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakePurchases) Record(_ context.Context, p *domain.Purchase) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordErr != nil {
		return f.recordErr
	}
	key := purchaseKey(p.UserID, p.CourseID)
	if _, dup := f.rows[key]; dup {
		return domain.ErrAlreadyPurchased
	}

	f.users.mu.Lock()
	defer f.users.mu.Unlock()
	u, ok := f.users.byID[p.UserID]
	if !ok {
		return domain.ErrUserNotFound
	}
	f.rows[key] = *p
	u.HasPurchased = true
	return nil
}

func (f *fakePurchases) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type memoryIntents struct {
	mu      sync.Mutex
	byRef   map[string]domain.OrderIntent
	saveErr error
	getErr  error
}

func newMemoryIntents() *memoryIntents {
	return &memoryIntents{byRef: map[string]domain.OrderIntent{}}
}

func (m *memoryIntents) Save(_ context.Context, intent *domain.OrderIntent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.byRef[intent.OrderRef] = *intent
	return nil
}

func (m *memoryIntents) Get(_ context.Context, ref string) (*domain.OrderIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	intent, ok := m.byRef[ref]
	if !ok {
		return nil, domain.ErrIntentNotFound
	}
	return &intent, nil
}

func (m *memoryIntents) Delete(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byRef, ref)
	return nil
}

type fakeGateway struct {
	mu       sync.Mutex
	requests []payment.OrderRequest
	err      error
	nextID   string
}

func (g *fakeGateway) CreateOrder(_ context.Context, req payment.OrderRequest) (*payment.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	id := g.nextID
	if id == "" {
		id = "order_N1a2b3c4d5e6f7"
	}
	return &payment.Order{ID: id, Amount: payment.ToMinorUnits(req.Amount), Currency: req.Currency, Receipt: req.Receipt, Status: "created"}, nil
}

type fakeProgress struct {
	mu      sync.Mutex
	rows    map[string]domain.ChapterProgress
	results []domain.QuizResult
	touched []string
	err     error
}

func newFakeProgress() *fakeProgress {
	return &fakeProgress{rows: map[string]domain.ChapterProgress{}}
}

func (f *fakeProgress) Touch(_ context.Context, userID, chapterID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.touched = append(f.touched, chapterID)
	key := userID + "/" + chapterID
	row := f.rows[key]
	row.UserID, row.ChapterID = userID, chapterID
	f.rows[key] = row
	return nil
}

func (f *fakeProgress) Complete(_ context.Context, userID, chapterID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.rows[userID+"/"+chapterID] = domain.ChapterProgress{UserID: userID, ChapterID: chapterID, Completed: true}
	return nil
}

func (f *fakeProgress) ListProgress(_ context.Context, userID string) ([]domain.ChapterProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.ChapterProgress
	for _, row := range f.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeProgress) SaveQuizResult(_ context.Context, result *domain.QuizResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	result.ID = int64(len(f.results) + 1)
	f.results = append([]domain.QuizResult{*result}, f.results...)
	return nil
}

func (f *fakeProgress) ListQuizResults(_ context.Context, userID string) ([]domain.QuizResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.QuizResult
	for _, r := range f.results {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

var errBoom = errors.New("boom")
