package domain

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
)

// ReservationID is the opaque handle for a stock hold. The zero value is
// never a valid id.
type ReservationID struct {
	value uuid.UUID
}

func NewReservationID() (ReservationID, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return ReservationID{}, err
	}
	return ReservationID{value: id}, nil
}

// ParseReservationID reports ok=false for malformed input and for the
// all-zero id instead of returning an error.
func ParseReservationID(s string) (ReservationID, bool) {
	id, err := uuid.FromString(s)
	if err != nil || id == uuid.Nil {
		return ReservationID{}, false
	}
	return ReservationID{value: id}, true
}

func (id ReservationID) String() string {
	return id.value.String()
}

func (id ReservationID) IsNil() bool {
	return id.value == uuid.Nil
}

// ReservationStatus keeps the original casing of its source string while
// comparing case-insensitively.
type ReservationStatus struct {
	value string
}

var (
	StatusReserved  = ReservationStatus{value: "reserved"}
	StatusCompleted = ReservationStatus{value: "completed"}
	StatusCancelled = ReservationStatus{value: "cancelled"}
	StatusExpired   = ReservationStatus{value: "expired"}
)

// StatusFromString reports ok=false for strings matching no known status.
// The returned status preserves the input casing either way.
func StatusFromString(s string) (ReservationStatus, bool) {
	status := ReservationStatus{value: s}
	for _, known := range []ReservationStatus{StatusReserved, StatusCompleted, StatusCancelled, StatusExpired} {
		if status.Equals(known) {
			return status, true
		}
	}
	return status, false
}

func (s ReservationStatus) Value() string {
	return s.value
}

func (s ReservationStatus) Equals(other ReservationStatus) bool {
	return strings.EqualFold(s.value, other.value)
}

func (s ReservationStatus) IsActive() bool {
	return s.Equals(StatusReserved)
}

func (s ReservationStatus) CanCheckout() bool {
	return s.Equals(StatusReserved)
}

func (s ReservationStatus) CanCancel() bool {
	return s.Equals(StatusReserved)
}

func (s ReservationStatus) IsTerminal() bool {
	return s.Equals(StatusCompleted) || s.Equals(StatusCancelled) || s.Equals(StatusExpired)
}

// Reservation is a single stock hold. It is created in status reserved and
// transitions exactly once to completed, cancelled or expired.
type Reservation struct {
	ID          ReservationID
	ProductID   int64
	Quantity    int64
	Status      ReservationStatus
	CreatedAt   time.Time
	ExpiresAt   time.Time
	CompletedAt *time.Time
}

// HydrateReservation reconstructs a reservation from persisted columns.
// Unknown status strings are preserved verbatim; they satisfy no transition
// predicate so the row stays inert.
func HydrateReservation(id ReservationID, productID, quantity int64, status string, createdAt, expiresAt time.Time, completedAt *time.Time) *Reservation {
	if quantity < 0 {
		quantity = 0
	}
	return &Reservation{
		ID:          id,
		ProductID:   productID,
		Quantity:    quantity,
		Status:      ReservationStatus{value: status},
		CreatedAt:   createdAt,
		ExpiresAt:   expiresAt,
		CompletedAt: completedAt,
	}
}

// IsExpired reports whether the hold is past its expiry time.
func (r *Reservation) IsExpired() bool {
	return time.Now().UTC().After(r.ExpiresAt)
}

// IsValid reports whether the hold can still be acted on: status reserved
// and not past expiry.
func (r *Reservation) IsValid() bool {
	return r.Status.IsActive() && !r.IsExpired()
}

type ReservationCreateRequest struct {
	ProductID  int64 `json:"product_id" validate:"required,gt=0"`
	Quantity   int64 `json:"quantity" validate:"required,gt=0"`
	TTLMinutes int   `json:"ttl_minutes" validate:"omitempty,min=1,max=60"`
}

type ReservationResponse struct {
	ReservationID string     `json:"reservation_id"`
	ProductID     int64      `json:"product_id"`
	Quantity      int64      `json:"quantity"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

func NewReservationResponse(r *Reservation) *ReservationResponse {
	return &ReservationResponse{
		ReservationID: r.ID.String(),
		ProductID:     r.ProductID,
		Quantity:      r.Quantity,
		Status:        r.Status.Value(),
		CreatedAt:     r.CreatedAt,
		ExpiresAt:     r.ExpiresAt,
		CompletedAt:   r.CompletedAt,
	}
}

type ReservationRepository interface {
	Create(ctx context.Context, reservation *Reservation, tx *sql.Tx) error
	GetByID(ctx context.Context, id ReservationID) (*Reservation, error)
	Update(ctx context.Context, reservation *Reservation, tx *sql.Tx) error
	GetExpired(ctx context.Context, now time.Time) ([]*Reservation, error)
	GetActive(ctx context.Context) ([]*Reservation, error)
}

type ReservationUsecase interface {
	Reserve(ctx context.Context, req ReservationCreateRequest) (*ReservationResponse, error)
	GetReservation(ctx context.Context, id string) (*ReservationResponse, error)
	Checkout(ctx context.Context, id string) (*ReservationResponse, error)
	Cancel(ctx context.Context, id string) (*ReservationResponse, error)
	ExpireReservations(ctx context.Context) (int, error)
	GetReservationHistory(ctx context.Context, id string) ([]AuditRecord, error)
}
