package mocks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roamstay/walletledger/internal/domain"
	"github.com/roamstay/walletledger/internal/usecase"
)

// MockAccountRepository is an in-memory AccountRepository. Its default
// UpdateBalance enforces the version precondition, so concurrency
// behavior can be exercised without a database.
type MockAccountRepository struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account

	CreateFunc           func(ctx context.Context, account *domain.Account) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	UpdateBalanceFunc    func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, expectedVersion int64, updatedAt time.Time) error
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Seed stores an account directly, bypassing any custom CreateFunc.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *account
	m.accounts[account.ID] = &cp
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *account
	m.accounts[account.ID] = &cp
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		cp := *acc
		return &cp, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, expectedVersion int64, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, expectedVersion, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if acc.Version != expectedVersion {
		return domain.ErrConcurrencyConflict
	}
	acc.Balance = balance
	acc.Version++
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.accounts))
	for id := range m.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var accounts []*domain.Account
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(accounts) >= limit {
			break
		}
		cp := *m.accounts[id]
		accounts = append(accounts, &cp)
	}
	return accounts, nil
}

// MockTransactionRepository is an in-memory TransactionRepository with
// a unique constraint on booking IDs, matching the database schema.
type MockTransactionRepository struct {
	mu           sync.Mutex
	transactions []*domain.Transaction
	byBooking    map[string]*domain.Transaction

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByBookingIDFunc func(ctx context.Context, bookingID string) (*domain.Transaction, error)
	ListByAccountFunc  func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
	SumByAccountFunc   func(ctx context.Context, accountID string) (decimal.Decimal, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		byBooking: make(map[string]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if txn.BookingID != "" {
		if _, ok := m.byBooking[txn.BookingID]; ok {
			return domain.ErrDuplicateBooking
		}
	}
	cp := *txn
	m.transactions = append(m.transactions, &cp)
	if txn.BookingID != "" {
		m.byBooking[txn.BookingID] = &cp
	}
	return nil
}

func (m *MockTransactionRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Transaction, error) {
	if m.GetByBookingIDFunc != nil {
		return m.GetByBookingIDFunc(ctx, bookingID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if txn, ok := m.byBooking[bookingID]; ok {
		cp := *txn
		return &cp, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Transaction
	// newest first
	for i := len(m.transactions) - 1; i >= 0; i-- {
		if m.transactions[i].AccountID != accountID {
			continue
		}
		if offset > 0 {
			offset--
			continue
		}
		if len(result) >= limit {
			break
		}
		cp := *m.transactions[i]
		result = append(result, &cp)
	}
	return result, nil
}

func (m *MockTransactionRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if m.SumByAccountFunc != nil {
		return m.SumByAccountFunc(ctx, accountID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := decimal.Zero
	for _, txn := range m.transactions {
		if txn.AccountID == accountID {
			sum = sum.Add(txn.SignedAmount())
		}
	}
	return sum, nil
}

// All returns a snapshot of every recorded transaction.
func (m *MockTransactionRepository) All() []*domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Transaction, 0, len(m.transactions))
	for _, txn := range m.transactions {
		cp := *txn
		out = append(out, &cp)
	}
	return out
}

// MockTransaction is a no-op usecase.Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	return nil
}

// MockTransactionManager hands out MockTransactions.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockRetrier re-executes the operation on concurrency conflicts,
// mirroring the postgres retrier without any backoff delay.
type MockRetrier struct {
	MaxAttempts int
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{MaxAttempts: 5}
}

func (r *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	var err error
	for attempt := 0; attempt < r.MaxAttempts; attempt++ {
		err = operation()
		if err == nil || !errors.Is(err, domain.ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}

// MockIDGenerator returns sequential IDs.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (g *MockIDGenerator) Generate() string {
	if g.GenerateFunc != nil {
		return g.GenerateFunc()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return "id-" + string(rune('0'+g.counter%10)) + "-" + time.Now().Format("150405.000000")
}

// MockIdempotencyStore is an in-memory IdempotencyStore.
type MockIdempotencyStore struct {
	mu     sync.Mutex
	values map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		values: make(map[string][]byte),
	}
}

func (s *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if s.CheckAndSetFunc != nil {
		return s.CheckAndSetFunc(ctx, key, response, ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.values[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		s.values[key] = response
	} else {
		s.values[key] = []byte("processing")
	}
	return false, nil, nil
}

func (s *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if s.UpdateFunc != nil {
		return s.UpdateFunc(ctx, key, response, ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = response
	return nil
}

// Get returns the stored value for key, if any.
func (s *MockIdempotencyStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// MockDeadLetterPublisher records published dead-letter events.
type MockDeadLetterPublisher struct {
	mu     sync.Mutex
	events []*domain.DeadLetterEvent

	PublishFunc func(ctx context.Context, event *domain.DeadLetterEvent) error
}

func NewMockDeadLetterPublisher() *MockDeadLetterPublisher {
	return &MockDeadLetterPublisher{}
}

func (p *MockDeadLetterPublisher) Publish(ctx context.Context, event *domain.DeadLetterEvent) error {
	if p.PublishFunc != nil {
		return p.PublishFunc(ctx, event)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns a snapshot of published events.
func (p *MockDeadLetterPublisher) Events() []*domain.DeadLetterEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*domain.DeadLetterEvent, len(p.events))
	copy(out, p.events)
	return out
}
