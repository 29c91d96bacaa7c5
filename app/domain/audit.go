package domain

import (
	"context"
	"time"
)

// AuditRecord is an immutable snapshot of one reservation state transition.
// Records are only ever appended, never updated or deleted.
type AuditRecord struct {
	ID            int64     `json:"id"`
	ReservationID string    `json:"reservation_id"`
	ProductID     int64     `json:"product_id"`
	Quantity      int64     `json:"quantity"`
	Status        string    `json:"status"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewAuditRecord(r *Reservation, note string) AuditRecord {
	return AuditRecord{
		ReservationID: r.ID.String(),
		ProductID:     r.ProductID,
		Quantity:      r.Quantity,
		Status:        r.Status.Value(),
		Note:          note,
		CreatedAt:     time.Now().UTC(),
	}
}

type AuditRepository interface {
	Create(ctx context.Context, record AuditRecord) error
	GetByReservationID(ctx context.Context, reservationID ReservationID) ([]AuditRecord, error)
}
