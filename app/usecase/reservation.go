package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"catalog-service/app/domain"
	"catalog-service/config"
)

type reservationUsecase struct {
	productRepo     domain.ProductRepository
	reservationRepo domain.ReservationRepository
	auditRepo       domain.AuditRepository
	ledger          domain.StockLedger
	rules           *domain.ReservationService
	stockBroker     domain.BrokerPublisher
	cfg             *config.Config
}

func NewReservationUsecase(
	productRepo domain.ProductRepository,
	reservationRepo domain.ReservationRepository,
	auditRepo domain.AuditRepository,
	ledger domain.StockLedger,
	rules *domain.ReservationService,
	stockBroker domain.BrokerPublisher,
	cfg *config.Config) domain.ReservationUsecase {
	return &reservationUsecase{productRepo, reservationRepo, auditRepo, ledger, rules, stockBroker, cfg}
}

// Reserve places a soft hold on product stock. The ledger admits or rejects
// the hold first; only an admitted hold is persisted. A failed persist after
// a ledger admit leaves the two stores divergent until the next re-seed,
// which is the accepted cost of the ledger-first ordering.
func (u *reservationUsecase) Reserve(ctx context.Context, req domain.ReservationCreateRequest) (*domain.ReservationResponse, error) {
	ttlMinutes := req.TTLMinutes
	if ttlMinutes == 0 {
		ttlMinutes = u.cfg.Reservation.DefaultTTLMinutes
	}
	if ttlMinutes < 1 || ttlMinutes > 60 {
		return nil, fmt.Errorf("%w: ttl_minutes must be between 1 and 60", domain.ErrValidation)
	}

	product, err := u.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		slog.ErrorContext(ctx, "[reservationUsecase] Reserve", "getProduct", err)
		return nil, err
	}

	reservation, err := u.rules.CreateReservation(product, req.Quantity, ttlMinutes)
	if err != nil {
		slog.ErrorContext(ctx, "[reservationUsecase] Reserve", "createReservation", err)
		return nil, err
	}

	result := u.ledger.Reserve(product.ID, reservation.ID, req.Quantity, time.Duration(ttlMinutes)*time.Minute)
	if result != domain.LedgerReserved {
		slog.ErrorContext(ctx, "[reservationUsecase] Reserve", "ledgerReserve", string(result))
		return nil, fmt.Errorf("%w: insufficient stock", domain.ErrValidation)
	}

	if err = u.productRepo.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := u.reservationRepo.Create(ctx, reservation, tx); err != nil {
			slog.ErrorContext(ctx, "[reservationUsecase] Reserve", "createReservedRow", err)
			return err
		}
		if err := u.productRepo.UpdateStock(ctx, product.ID, product.Stock.Quantity(), tx); err != nil {
			slog.ErrorContext(ctx, "[reservationUsecase] Reserve", "updateStock", err)
			return err
		}
		return nil
	}); err != nil {
		slog.ErrorContext(ctx, "[reservationUsecase] Reserve", "withTransaction", err)
		return nil, err
	}

	u.appendAudit(ctx, reservation, "created")
	u.publishAvailable(ctx, product.ID)

	return domain.NewReservationResponse(reservation), nil
}

func (u *reservationUsecase) GetReservation(ctx context.Context, id string) (*domain.ReservationResponse, error) {
	reservationID, ok := domain.ParseReservationID(id)
	if !ok {
		return nil, fmt.Errorf("%w: invalid reservation ID format", domain.ErrValidation)
	}

	reservation, err := u.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		slog.ErrorContext(ctx, "[reservationUsecase] GetReservation", "getReservation", err)
		return nil, err
	}

	return domain.NewReservationResponse(reservation), nil
}

// Checkout finalizes a hold into a sale. The ledger entry's own expiry is
// the deciding check, so a checkout racing the sweep cannot honor a lapsed
// hold.
func (u *reservationUsecase) Checkout(ctx context.Context, id string) (*domain.ReservationResponse, error) {
	reservationID, ok := domain.ParseReservationID(id)
	if !ok {
		return nil, fmt.Errorf("%w: invalid reservation ID format", domain.ErrValidation)
	}

	reservation, err := u.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		slog.ErrorContext(ctx, "[reservationUsecase] Checkout", "getReservation", err)
		return nil, err
	}

	if !reservation.IsValid() {
		if reservation.Status.IsActive() {
			return nil, fmt.Errorf("%w: reservation expired", domain.ErrValidation)
		}
		return nil, fmt.Errorf("%w: reservation status %s cannot be checked out", domain.ErrValidation, reservation.Status.Value())
	}

	switch result := u.ledger.Checkout(reservationID); result {
	case domain.LedgerCheckedOut:
	case domain.LedgerExpired:
		slog.WarnContext(ctx, "[reservationUsecase] Checkout", "ledgerCheckout", "expired")
		return nil, fmt.Errorf("%w: reservation expired", domain.ErrValidation)
	default:
		slog.ErrorContext(ctx, "[reservationUsecase] Checkout", "ledgerCheckout", string(result))
		return nil, fmt.Errorf("%w: reservation is not admissible for checkout", domain.ErrValidation)
	}

	if err := u.rules.CompleteReservation(reservation); err != nil {
		slog.ErrorContext(ctx, "[reservationUsecase] Checkout", "completeReservation", err)
		return nil, err
	}

	if err = u.productRepo.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return u.reservationRepo.Update(ctx, reservation, tx)
	}); err != nil {
		slog.ErrorContext(ctx, "[reservationUsecase] Checkout", "withTransaction", err)
		return nil, err
	}

	u.appendAudit(ctx, reservation, "completed")

	return domain.NewReservationResponse(reservation), nil
}

// Cancel releases a hold explicitly. A failed ledger release is non-fatal
// here: the durable store is authoritative for releases and the cancellation
// proceeds regardless, unlike create where the ledger is authoritative for
// admission.
func (u *reservationUsecase) Cancel(ctx context.Context, id string) (*domain.ReservationResponse, error) {
	reservationID, ok := domain.ParseReservationID(id)
	if !ok {
		return nil, fmt.Errorf("%w: invalid reservation ID format", domain.ErrValidation)
	}

	reservation, err := u.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		slog.ErrorContext(ctx, "[reservationUsecase] Cancel", "getReservation", err)
		return nil, err
	}

	if !reservation.Status.CanCancel() {
		return nil, fmt.Errorf("%w: reservation status %s cannot be cancelled", domain.ErrValidation, reservation.Status.Value())
	}

	product, err := u.productRepo.GetByID(ctx, reservation.ProductID)
	if err != nil {
		slog.ErrorContext(ctx, "[reservationUsecase] Cancel", "getProduct", err)
		return nil, fmt.Errorf("%w: product %d missing for reservation", domain.ErrInternal, reservation.ProductID)
	}

	if result := u.ledger.Release(reservationID); result != domain.LedgerReleased && result != domain.LedgerNotFound {
		slog.WarnContext(ctx, "[reservationUsecase] Cancel", "ledgerRelease", string(result))
	}

	if err := u.rules.CancelReservation(reservation, product); err != nil {
		slog.ErrorContext(ctx, "[reservationUsecase] Cancel", "cancelReservation", err)
		return nil, err
	}

	if err = u.productRepo.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := u.reservationRepo.Update(ctx, reservation, tx); err != nil {
			slog.ErrorContext(ctx, "[reservationUsecase] Cancel", "updateReservation", err)
			return err
		}
		if err := u.productRepo.UpdateStock(ctx, product.ID, product.Stock.Quantity(), tx); err != nil {
			slog.ErrorContext(ctx, "[reservationUsecase] Cancel", "updateStock", err)
			return err
		}
		return nil
	}); err != nil {
		slog.ErrorContext(ctx, "[reservationUsecase] Cancel", "withTransaction", err)
		return nil, err
	}

	u.appendAudit(ctx, reservation, "cancelled")
	u.publishAvailable(ctx, product.ID)

	return domain.NewReservationResponse(reservation), nil
}

// ExpireReservations sweeps every reserved row past its expiry. A failing
// item is logged and skipped so one bad row cannot stall the sweep. Returns
// the number of reservations expired.
func (u *reservationUsecase) ExpireReservations(ctx context.Context) (int, error) {
	expired, err := u.reservationRepo.GetExpired(ctx, time.Now().UTC())
	if err != nil {
		slog.ErrorContext(ctx, "[reservationUsecase] ExpireReservations", "getExpired", err)
		return 0, err
	}

	count := 0
	for _, reservation := range expired {
		if err := u.expireOne(ctx, reservation); err != nil {
			slog.ErrorContext(ctx, "[reservationUsecase] ExpireReservations", "expireOne:"+reservation.ID.String(), err)
			continue
		}
		count++
	}

	return count, nil
}

func (u *reservationUsecase) expireOne(ctx context.Context, reservation *domain.Reservation) error {
	product, err := u.productRepo.GetByID(ctx, reservation.ProductID)
	if err != nil {
		return err
	}

	if result := u.ledger.Release(reservation.ID); result != domain.LedgerReleased && result != domain.LedgerNotFound {
		slog.WarnContext(ctx, "[reservationUsecase] expireOne", "ledgerRelease", string(result))
	}

	if err := u.rules.ExpireReservation(reservation, product); err != nil {
		return err
	}

	if err := u.productRepo.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := u.reservationRepo.Update(ctx, reservation, tx); err != nil {
			return err
		}
		return u.productRepo.UpdateStock(ctx, product.ID, product.Stock.Quantity(), tx)
	}); err != nil {
		return err
	}

	u.appendAudit(ctx, reservation, "expired")
	u.publishAvailable(ctx, product.ID)
	return nil
}

func (u *reservationUsecase) GetReservationHistory(ctx context.Context, id string) ([]domain.AuditRecord, error) {
	reservationID, ok := domain.ParseReservationID(id)
	if !ok {
		return nil, fmt.Errorf("%w: invalid reservation ID format", domain.ErrValidation)
	}

	records, err := u.auditRepo.GetByReservationID(ctx, reservationID)
	if err != nil {
		slog.ErrorContext(ctx, "[reservationUsecase] GetReservationHistory", "getByReservationID", err)
		return nil, err
	}

	return records, nil
}

// appendAudit records a transition best-effort; the state change is already
// durable and is not rolled back over a missing trail entry.
func (u *reservationUsecase) appendAudit(ctx context.Context, reservation *domain.Reservation, note string) {
	if err := u.auditRepo.Create(ctx, domain.NewAuditRecord(reservation, note)); err != nil {
		slog.ErrorContext(ctx, "[reservationUsecase] appendAudit", "note:"+note, err)
	}
}

func (u *reservationUsecase) publishAvailable(ctx context.Context, productID int64) {
	available, ok := u.ledger.GetAvailableStock(productID)
	if !ok {
		return
	}
	if err := u.stockBroker.PublishStockAvailable(ctx, domain.StockMessage{
		ProductID: productID,
		Available: available,
	}); err != nil {
		slog.WarnContext(ctx, "[reservationUsecase] publishAvailable", "publishStockAvailable", err)
	}
}
