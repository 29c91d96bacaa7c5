package domain

import "time"

// LedgerResult is the outcome of a stock ledger operation.
type LedgerResult string

const (
	LedgerReserved          LedgerResult = "reserved"
	LedgerInsufficientStock LedgerResult = "insufficient_stock"
	LedgerCheckedOut        LedgerResult = "checked_out"
	LedgerReleased          LedgerResult = "released"
	LedgerExpired           LedgerResult = "expired"
	LedgerNotFound          LedgerResult = "not_found"
)

// StockLedger is the fast-path stand-in for a remote atomic cache. It tracks
// per-product available/reserved counters and per-reservation TTL entries.
// It is disposable: the durable store is the system of record and the ledger
// must be re-seeded from it via InitializeStock before a product accepts
// reservations.
type StockLedger interface {
	// Reserve atomically moves quantity from available to reserved and
	// records a TTL entry, or reports LedgerInsufficientStock untouched.
	Reserve(productID int64, reservationID ReservationID, quantity int64, ttl time.Duration) LedgerResult

	// Checkout removes the TTL entry, finalizing the removal of the held
	// stock. If the entry has already passed its expiry the hold is
	// restored instead and LedgerExpired is reported; the caller must not
	// treat that as success.
	Checkout(reservationID ReservationID) LedgerResult

	// Release removes the TTL entry and restores the held quantity to
	// available stock.
	Release(reservationID ReservationID) LedgerResult

	// GetAvailableStock reports ok=false for products never seeded.
	GetAvailableStock(productID int64) (int64, bool)

	// InitializeStock seeds or overwrites the counters for a product.
	// Re-seeding on process restart is safe and expected.
	InitializeStock(productID, availableQuantity int64)
}
