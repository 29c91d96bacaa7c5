package usecase

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"catalog-service/app/domain"
)

type mockProductRepo struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
	nextID   int64
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[int64]*domain.Product), nextID: 1}
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product.ID = m.nextID
	m.nextID++
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockProductRepo) GetAll(ctx context.Context) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var products []*domain.Product
	for _, product := range m.products {
		copied := *product
		products = append(products, &copied)
	}
	return products, nil
}

func (m *mockProductRepo) UpdateStock(ctx context.Context, id, stock int64, tx *sql.Tx) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	product.Stock = domain.ProductStockFromStorage(stock)
	product.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *mockProductRepo) WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	return fn(ctx, nil)
}

type mockReservationRepo struct {
	mu           sync.Mutex
	reservations map[string]*domain.Reservation
}

func newMockReservationRepo() *mockReservationRepo {
	return &mockReservationRepo{reservations: make(map[string]*domain.Reservation)}
}

func (m *mockReservationRepo) Create(ctx context.Context, reservation *domain.Reservation, tx *sql.Tx) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *reservation
	m.reservations[reservation.ID.String()] = &copied
	return nil
}

func (m *mockReservationRepo) GetByID(ctx context.Context, id domain.ReservationID) (*domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reservation, ok := m.reservations[id.String()]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *reservation
	return &copied, nil
}

func (m *mockReservationRepo) Update(ctx context.Context, reservation *domain.Reservation, tx *sql.Tx) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reservations[reservation.ID.String()]; !ok {
		return domain.ErrNotFound
	}
	copied := *reservation
	m.reservations[reservation.ID.String()] = &copied
	return nil
}

func (m *mockReservationRepo) GetExpired(ctx context.Context, now time.Time) ([]*domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expired []*domain.Reservation
	for _, reservation := range m.reservations {
		if reservation.Status.IsActive() && reservation.ExpiresAt.Before(now) {
			copied := *reservation
			expired = append(expired, &copied)
		}
	}
	return expired, nil
}

func (m *mockReservationRepo) GetActive(ctx context.Context) ([]*domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var active []*domain.Reservation
	for _, reservation := range m.reservations {
		if reservation.Status.IsActive() {
			copied := *reservation
			active = append(active, &copied)
		}
	}
	return active, nil
}

type mockAuditRepo struct {
	mu      sync.Mutex
	records []domain.AuditRecord
}

func newMockAuditRepo() *mockAuditRepo {
	return &mockAuditRepo{}
}

func (m *mockAuditRepo) Create(ctx context.Context, record domain.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record.ID = int64(len(m.records) + 1)
	m.records = append(m.records, record)
	return nil
}

func (m *mockAuditRepo) GetByReservationID(ctx context.Context, reservationID domain.ReservationID) ([]domain.AuditRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var records []domain.AuditRecord
	for _, record := range m.records {
		if record.ReservationID == reservationID.String() {
			records = append(records, record)
		}
	}
	return records, nil
}

func (m *mockAuditRepo) notes(reservationID domain.ReservationID) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var notes []string
	for _, record := range m.records {
		if record.ReservationID == reservationID.String() {
			notes = append(notes, record.Note)
		}
	}
	return notes
}

type mockBroker struct {
	mu       sync.Mutex
	messages []domain.StockMessage
}

func newMockBroker() *mockBroker {
	return &mockBroker{}
}

func (m *mockBroker) PublishStockAvailable(ctx context.Context, data domain.StockMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, data)
	return nil
}
