package db

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"catalog-service/app/domain"
)

type reservationRepository struct {
	conn *sql.DB
}

func NewReservationRepository(db *sql.DB) domain.ReservationRepository {
	return &reservationRepository{db}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *domain.Reservation, tx *sql.Tx) error {
	query := `INSERT INTO reservations (id, product_id, quantity, status, created_at, expires_at, completed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.ExecContext(ctx, query,
		reservation.ID.String(), reservation.ProductID, reservation.Quantity,
		reservation.Status.Value(), reservation.CreatedAt, reservation.ExpiresAt, reservation.CompletedAt)
	if err != nil {
		slog.ErrorContext(ctx, "[reservationRepository] Create", "execContext", err)
		return err
	}
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id domain.ReservationID) (*domain.Reservation, error) {
	query := `SELECT id, product_id, quantity, status, created_at, expires_at, completed_at
	FROM reservations WHERE id = $1`

	reservation, err := scanReservation(r.conn.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		slog.ErrorContext(ctx, "[reservationRepository] GetByID", "queryRowContext", err)
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return reservation, nil
}

func (r *reservationRepository) Update(ctx context.Context, reservation *domain.Reservation, tx *sql.Tx) error {
	query := `UPDATE reservations SET status = $1, completed_at = $2 WHERE id = $3`

	_, err := tx.ExecContext(ctx, query,
		reservation.Status.Value(), reservation.CompletedAt, reservation.ID.String())
	if err != nil {
		slog.ErrorContext(ctx, "[reservationRepository] Update", "execContext", err)
		return err
	}
	return nil
}

func (r *reservationRepository) GetExpired(ctx context.Context, now time.Time) ([]*domain.Reservation, error) {
	query := `SELECT id, product_id, quantity, status, created_at, expires_at, completed_at
	FROM reservations WHERE status = $1 AND expires_at < $2`

	return r.queryReservations(ctx, "GetExpired", query, domain.StatusReserved.Value(), now)
}

func (r *reservationRepository) GetActive(ctx context.Context) ([]*domain.Reservation, error) {
	query := `SELECT id, product_id, quantity, status, created_at, expires_at, completed_at
	FROM reservations WHERE status = $1`

	return r.queryReservations(ctx, "GetActive", query, domain.StatusReserved.Value())
}

func (r *reservationRepository) queryReservations(ctx context.Context, method, query string, args ...any) ([]*domain.Reservation, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		slog.ErrorContext(ctx, "[reservationRepository] "+method, "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	var reservations []*domain.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			slog.ErrorContext(ctx, "[reservationRepository] "+method, "scan", err)
			return nil, err
		}
		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[reservationRepository] "+method, "rowError", err)
		return nil, err
	}

	return reservations, nil
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		idStr, status        string
		productID, quantity  int64
		createdAt, expiresAt time.Time
		completedAt          sql.NullTime
	)
	if err := row.Scan(&idStr, &productID, &quantity, &status, &createdAt, &expiresAt, &completedAt); err != nil {
		return nil, err
	}

	id, _ := domain.ParseReservationID(idStr)

	var completed *time.Time
	if completedAt.Valid {
		t := completedAt.Time
		completed = &t
	}

	return domain.HydrateReservation(id, productID, quantity, status, createdAt, expiresAt, completed), nil
}
