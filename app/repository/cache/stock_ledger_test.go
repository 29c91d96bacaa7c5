package cache

import (
	"sync"
	"testing"
	"time"

	"catalog-service/app/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newID(t *testing.T) domain.ReservationID {
	t.Helper()
	id, err := domain.NewReservationID()
	require.NoError(t, err)
	return id
}

func TestLedger_ReserveAndRelease(t *testing.T) {
	ledger := NewStockLedger()
	ledger.InitializeStock(1, 10)

	id := newID(t)
	result := ledger.Reserve(1, id, 4, time.Minute)
	assert.Equal(t, domain.LedgerReserved, result)

	available, ok := ledger.GetAvailableStock(1)
	require.True(t, ok)
	assert.Equal(t, int64(6), available)

	result = ledger.Release(id)
	assert.Equal(t, domain.LedgerReleased, result)

	available, _ = ledger.GetAvailableStock(1)
	assert.Equal(t, int64(10), available)
}

func TestLedger_InsufficientStock(t *testing.T) {
	ledger := NewStockLedger()
	ledger.InitializeStock(1, 10)

	assert.Equal(t, domain.LedgerReserved, ledger.Reserve(1, newID(t), 4, time.Minute))
	assert.Equal(t, domain.LedgerReserved, ledger.Reserve(1, newID(t), 3, time.Minute))

	// 4 + 3 + 7 exceeds the seeded 10
	assert.Equal(t, domain.LedgerInsufficientStock, ledger.Reserve(1, newID(t), 7, time.Minute))

	available, _ := ledger.GetAvailableStock(1)
	assert.Equal(t, int64(3), available)
}

func TestLedger_ReserveUnseededProduct(t *testing.T) {
	ledger := NewStockLedger()

	assert.Equal(t, domain.LedgerInsufficientStock, ledger.Reserve(99, newID(t), 1, time.Minute))

	_, ok := ledger.GetAvailableStock(99)
	assert.False(t, ok)
}

func TestLedger_CheckoutDoesNotRestoreStock(t *testing.T) {
	ledger := NewStockLedger()
	ledger.InitializeStock(1, 10)

	id := newID(t)
	require.Equal(t, domain.LedgerReserved, ledger.Reserve(1, id, 4, time.Minute))

	assert.Equal(t, domain.LedgerCheckedOut, ledger.Checkout(id))

	available, _ := ledger.GetAvailableStock(1)
	assert.Equal(t, int64(6), available)

	// the entry is gone
	assert.Equal(t, domain.LedgerNotFound, ledger.Checkout(id))
	assert.Equal(t, domain.LedgerNotFound, ledger.Release(id))
}

func TestLedger_CheckoutExpiredEntryRestoresStock(t *testing.T) {
	ledger := NewStockLedger()
	ledger.InitializeStock(1, 10)

	id := newID(t)
	require.Equal(t, domain.LedgerReserved, ledger.Reserve(1, id, 4, -time.Second))

	assert.Equal(t, domain.LedgerExpired, ledger.Checkout(id))

	available, _ := ledger.GetAvailableStock(1)
	assert.Equal(t, int64(10), available)
}

func TestLedger_ReleaseNotFound(t *testing.T) {
	ledger := NewStockLedger()
	ledger.InitializeStock(1, 10)

	assert.Equal(t, domain.LedgerNotFound, ledger.Release(newID(t)))
}

func TestLedger_InitializeStockOverwrites(t *testing.T) {
	ledger := NewStockLedger()
	ledger.InitializeStock(1, 10)
	require.Equal(t, domain.LedgerReserved, ledger.Reserve(1, newID(t), 4, time.Minute))

	// re-seed on restart resets the counters
	ledger.InitializeStock(1, 10)

	available, ok := ledger.GetAvailableStock(1)
	require.True(t, ok)
	assert.Equal(t, int64(10), available)
}

func TestLedger_ConcurrentReserveNeverOversells(t *testing.T) {
	const (
		initialStock  = 20
		totalRequests = 100
	)

	ledger := NewStockLedger()
	ledger.InitializeStock(1, initialStock)

	ids := make([]domain.ReservationID, totalRequests)
	for i := range ids {
		ids[i] = newID(t)
	}

	results := make([]domain.LedgerResult, totalRequests)
	var wg sync.WaitGroup
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ledger.Reserve(1, ids[i], 1, time.Minute)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, result := range results {
		if result == domain.LedgerReserved {
			succeeded++
		}
	}

	assert.Equal(t, initialStock, succeeded)

	available, _ := ledger.GetAvailableStock(1)
	assert.Equal(t, int64(0), available)

	// stock conservation: releasing every successful hold restores the seed
	for i, result := range results {
		if result == domain.LedgerReserved {
			require.Equal(t, domain.LedgerReleased, ledger.Release(ids[i]))
		}
	}
	available, _ = ledger.GetAvailableStock(1)
	assert.Equal(t, int64(initialStock), available)
}
