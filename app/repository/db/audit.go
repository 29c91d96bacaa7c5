package db

import (
	"context"
	"database/sql"
	"log/slog"

	"catalog-service/app/domain"
)

// auditRepository is append-only: records are inserted and read back, never
// updated or deleted.
type auditRepository struct {
	conn *sql.DB
}

func NewAuditRepository(db *sql.DB) domain.AuditRepository {
	return &auditRepository{db}
}

func (r *auditRepository) Create(ctx context.Context, record domain.AuditRecord) error {
	query := `INSERT INTO reservation_audit (reservation_id, product_id, quantity, status, note, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.conn.ExecContext(ctx, query,
		record.ReservationID, record.ProductID, record.Quantity,
		record.Status, record.Note, record.CreatedAt)
	if err != nil {
		slog.ErrorContext(ctx, "[auditRepository] Create", "execContext", err)
		return err
	}
	return nil
}

func (r *auditRepository) GetByReservationID(ctx context.Context, reservationID domain.ReservationID) ([]domain.AuditRecord, error) {
	query := `SELECT id, reservation_id, product_id, quantity, status, note, created_at
	FROM reservation_audit WHERE reservation_id = $1 ORDER BY created_at ASC`

	rows, err := r.conn.QueryContext(ctx, query, reservationID.String())
	if err != nil {
		slog.ErrorContext(ctx, "[auditRepository] GetByReservationID", "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	var records []domain.AuditRecord
	for rows.Next() {
		var record domain.AuditRecord
		if err := rows.Scan(&record.ID, &record.ReservationID, &record.ProductID,
			&record.Quantity, &record.Status, &record.Note, &record.CreatedAt); err != nil {
			slog.ErrorContext(ctx, "[auditRepository] GetByReservationID", "scan", err)
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[auditRepository] GetByReservationID", "rowError", err)
		return nil, err
	}

	return records, nil
}
