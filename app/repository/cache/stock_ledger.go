package cache

import (
	"sync"
	"time"

	"catalog-service/app/domain"
)

type stockCounters struct {
	available int64
	reserved  int64
}

type ledgerEntry struct {
	productID int64
	quantity  int64
	expiresAt time.Time
}

// stockLedger is the in-process stand-in for a remote atomic cache. One
// coarse lock guards every mutation so the check-then-adjust sequences stay
// atomic, the way a single scripted transaction would in a real cache.
type stockLedger struct {
	mu       sync.Mutex
	counters map[int64]*stockCounters
	entries  map[domain.ReservationID]ledgerEntry
}

func NewStockLedger() domain.StockLedger {
	return &stockLedger{
		counters: make(map[int64]*stockCounters),
		entries:  make(map[domain.ReservationID]ledgerEntry),
	}
}

func (l *stockLedger) Reserve(productID int64, reservationID domain.ReservationID, quantity int64, ttl time.Duration) domain.LedgerResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	counters, ok := l.counters[productID]
	if !ok || counters.available < quantity {
		return domain.LedgerInsufficientStock
	}

	counters.available -= quantity
	counters.reserved += quantity
	l.entries[reservationID] = ledgerEntry{
		productID: productID,
		quantity:  quantity,
		expiresAt: time.Now().UTC().Add(ttl),
	}
	return domain.LedgerReserved
}

func (l *stockLedger) Checkout(reservationID domain.ReservationID) domain.LedgerResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[reservationID]
	if !ok {
		return domain.LedgerNotFound
	}
	delete(l.entries, reservationID)

	counters := l.counters[entry.productID]
	if time.Now().UTC().After(entry.expiresAt) {
		// The hold lapsed before checkout; give the units back.
		if counters != nil {
			counters.available += entry.quantity
			counters.reserved -= entry.quantity
		}
		return domain.LedgerExpired
	}

	if counters != nil {
		counters.reserved -= entry.quantity
	}
	return domain.LedgerCheckedOut
}

func (l *stockLedger) Release(reservationID domain.ReservationID) domain.LedgerResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[reservationID]
	if !ok {
		return domain.LedgerNotFound
	}
	delete(l.entries, reservationID)

	if counters := l.counters[entry.productID]; counters != nil {
		counters.available += entry.quantity
		counters.reserved -= entry.quantity
	}
	return domain.LedgerReleased
}

func (l *stockLedger) GetAvailableStock(productID int64) (int64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	counters, ok := l.counters[productID]
	if !ok {
		return 0, false
	}
	return counters.available, true
}

func (l *stockLedger) InitializeStock(productID, availableQuantity int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.counters[productID] = &stockCounters{available: availableQuantity}
}
