package domain

import (
	"fmt"
	"time"
)

// ReservationService is the pure rule engine for the reservation state
// machine. It mutates the entities passed to it and performs no I/O.
//
// Checkout never restores stock (the sale consumed it); cancel and expiry
// always restore it (the hold was abandoned). That asymmetry is the central
// correctness property of the subsystem.
type ReservationService struct{}

func NewReservationService() *ReservationService {
	return &ReservationService{}
}

// CanReserve reports whether product has at least quantity units available.
func (s *ReservationService) CanReserve(product *Product, quantity int64) bool {
	if product == nil || quantity <= 0 {
		return false
	}
	return product.Stock.Quantity() >= quantity
}

// CreateReservation allocates a new hold and removes its quantity from the
// product's available stock in the same call.
func (s *ReservationService) CreateReservation(product *Product, quantity int64, ttlMinutes int) (*Reservation, error) {
	if !s.CanReserve(product, quantity) {
		return nil, fmt.Errorf("%w: insufficient stock", ErrValidation)
	}

	id, err := NewReservationID()
	if err != nil {
		return nil, err
	}

	if err := product.DecrStock(quantity); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Reservation{
		ID:        id,
		ProductID: product.ID,
		Quantity:  quantity,
		Status:    StatusReserved,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(ttlMinutes) * time.Minute),
	}, nil
}

// CompleteReservation finalizes a checkout. Stock is not touched: the held
// quantity was already removed at creation and the sale makes that removal
// permanent.
func (s *ReservationService) CompleteReservation(reservation *Reservation) error {
	if !reservation.Status.CanCheckout() {
		return fmt.Errorf("%w: reservation status %s cannot be checked out", ErrValidation, reservation.Status.Value())
	}
	if reservation.IsExpired() {
		return fmt.Errorf("%w: reservation expired", ErrValidation)
	}

	now := time.Now().UTC()
	reservation.Status = StatusCompleted
	reservation.CompletedAt = &now
	return nil
}

// CancelReservation releases an active hold and restores its quantity to the
// product's available stock.
func (s *ReservationService) CancelReservation(reservation *Reservation, product *Product) error {
	if reservation.ProductID != product.ID {
		return fmt.Errorf("%w: reservation does not belong to product %d", ErrValidation, product.ID)
	}
	if !reservation.Status.CanCancel() {
		return fmt.Errorf("%w: reservation status %s cannot be cancelled", ErrValidation, reservation.Status.Value())
	}

	if err := product.IncrStock(reservation.Quantity); err != nil {
		return err
	}

	now := time.Now().UTC()
	reservation.Status = StatusCancelled
	reservation.CompletedAt = &now
	return nil
}

// ExpireReservation releases an overdue hold. Calling it on a reservation
// already in a terminal state is a no-op, so a sweep can safely revisit rows
// without restoring stock twice.
func (s *ReservationService) ExpireReservation(reservation *Reservation, product *Product) error {
	if reservation.ProductID != product.ID {
		return fmt.Errorf("%w: reservation does not belong to product %d", ErrValidation, product.ID)
	}
	if reservation.Status.IsTerminal() {
		return nil
	}

	if err := product.IncrStock(reservation.Quantity); err != nil {
		return err
	}

	now := time.Now().UTC()
	reservation.Status = StatusExpired
	reservation.CompletedAt = &now
	return nil
}
