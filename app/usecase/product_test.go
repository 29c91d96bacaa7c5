package usecase

import (
	"context"
	"testing"
	"time"

	"catalog-service/app/domain"
	"catalog-service/app/repository/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductFixture(t *testing.T) (*fixture, domain.ProductUsecase) {
	t.Helper()
	f := &fixture{
		products:     newMockProductRepo(),
		reservations: newMockReservationRepo(),
		audits:       newMockAuditRepo(),
		broker:       newMockBroker(),
		ledger:       cache.NewStockLedger(),
	}
	f.usecase = NewReservationUsecase(f.products, f.reservations, f.audits, f.ledger,
		domain.NewReservationService(), f.broker, testConfig())
	return f, NewProductUsecase(f.products, f.reservations, f.ledger, f.broker, testConfig())
}

func TestCreateProduct_SeedsLedger(t *testing.T) {
	f, products := newProductFixture(t)

	resp, err := products.CreateProduct(context.Background(), domain.ProductCreateRequest{
		Name: "Widget", Price: 500, Stock: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.Stock)
	assert.Equal(t, int64(10), resp.AvailableStock)
	assert.Equal(t, int64(10), f.availableStock(t))
	assert.Len(t, f.broker.messages, 1)
}

func TestCreateProduct_RejectsInvalid(t *testing.T) {
	_, products := newProductFixture(t)

	_, err := products.CreateProduct(context.Background(), domain.ProductCreateRequest{
		Name: "", Price: 500, Stock: 10,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetProduct_ReportsLedgerAvailability(t *testing.T) {
	f, products := newProductFixture(t)
	ctx := context.Background()

	_, err := products.CreateProduct(ctx, domain.ProductCreateRequest{Name: "Widget", Price: 500, Stock: 10})
	require.NoError(t, err)

	_, err = f.usecase.Reserve(ctx, domain.ReservationCreateRequest{ProductID: 1, Quantity: 4, TTLMinutes: 15})
	require.NoError(t, err)

	resp, err := products.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(6), resp.Stock)
	assert.Equal(t, int64(6), resp.AvailableStock)

	_, err = products.GetProduct(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// SeedLedger must reproduce the pre-restart ledger: counters from durable
// stock plus still-active holds, and a live TTL entry per hold.
func TestSeedLedger_RebuildsStateAfterRestart(t *testing.T) {
	f, products := newProductFixture(t)
	ctx := context.Background()

	_, err := products.CreateProduct(ctx, domain.ProductCreateRequest{Name: "Widget", Price: 500, Stock: 10})
	require.NoError(t, err)

	created, err := f.usecase.Reserve(ctx, domain.ReservationCreateRequest{ProductID: 1, Quantity: 4, TTLMinutes: 15})
	require.NoError(t, err)

	// simulate a restart: empty ledger, durable store intact
	f.ledger = cache.NewStockLedger()
	f.usecase = NewReservationUsecase(f.products, f.reservations, f.audits, f.ledger,
		domain.NewReservationService(), f.broker, testConfig())
	products = NewProductUsecase(f.products, f.reservations, f.ledger, f.broker, testConfig())

	require.NoError(t, products.SeedLedger(ctx))

	assert.Equal(t, int64(6), f.availableStock(t))

	// the re-admitted hold is still honored by checkout
	resp, err := f.usecase.Checkout(ctx, created.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted.Value(), resp.Status)
	assert.Equal(t, int64(6), f.availableStock(t))
}

func TestSeedLedger_LapsedHoldsAwaitSweep(t *testing.T) {
	f, products := newProductFixture(t)
	ctx := context.Background()

	_, err := products.CreateProduct(ctx, domain.ProductCreateRequest{Name: "Widget", Price: 500, Stock: 6})
	require.NoError(t, err)

	// an active row already past expiry at boot
	id, err := domain.NewReservationID()
	require.NoError(t, err)
	now := time.Now().UTC()
	reservation := domain.HydrateReservation(id, 1, 4,
		domain.StatusReserved.Value(), now.Add(-30*time.Minute), now.Add(-15*time.Minute), nil)
	require.NoError(t, f.reservations.Create(ctx, reservation, nil))

	require.NoError(t, products.SeedLedger(ctx))
	assert.Equal(t, int64(6), f.availableStock(t))

	count, err := f.usecase.ExpireReservations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, int64(10), f.availableStock(t))
	assert.Equal(t, int64(10), f.durableStock(t))
}
