package usecase

import (
	"context"
	"log/slog"
	"time"

	"catalog-service/app/domain"
	"catalog-service/config"
)

type productUsecase struct {
	productRepo     domain.ProductRepository
	reservationRepo domain.ReservationRepository
	ledger          domain.StockLedger
	stockBroker     domain.BrokerPublisher
	cfg             *config.Config
}

func NewProductUsecase(
	productRepo domain.ProductRepository,
	reservationRepo domain.ReservationRepository,
	ledger domain.StockLedger,
	stockBroker domain.BrokerPublisher,
	cfg *config.Config) domain.ProductUsecase {
	return &productUsecase{productRepo, reservationRepo, ledger, stockBroker, cfg}
}

func (u *productUsecase) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (*domain.ProductResponse, error) {
	product, err := domain.NewProduct(req.Name, req.Price, req.Stock)
	if err != nil {
		slog.ErrorContext(ctx, "[productUsecase] CreateProduct", "newProduct", err)
		return nil, err
	}

	if err := u.productRepo.Create(ctx, product); err != nil {
		slog.ErrorContext(ctx, "[productUsecase] CreateProduct", "createProduct", err)
		return nil, err
	}

	u.ledger.InitializeStock(product.ID, product.Stock.Quantity())

	if err := u.stockBroker.PublishStockAvailable(ctx, domain.StockMessage{
		ProductID: product.ID,
		Available: product.Stock.Quantity(),
	}); err != nil {
		slog.WarnContext(ctx, "[productUsecase] CreateProduct", "publishStockAvailable", err)
	}

	slog.InfoContext(ctx, "[productUsecase] CreateProduct", "productID", product.ID)
	return u.toResponse(product), nil
}

func (u *productUsecase) GetProduct(ctx context.Context, id int64) (*domain.ProductResponse, error) {
	product, err := u.productRepo.GetByID(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "[productUsecase] GetProduct", "getProduct", err)
		return nil, err
	}

	return u.toResponse(product), nil
}

// SeedLedger rebuilds the ledger from the durable store: every product's
// counters are initialized to stock plus its still-active holds, then each
// hold is re-admitted with its remaining TTL. Must run before the service
// accepts reservations; holds already past expiry land in the ledger as
// lapsed entries and the next sweep releases them.
func (u *productUsecase) SeedLedger(ctx context.Context) error {
	products, err := u.productRepo.GetAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "[productUsecase] SeedLedger", "getProducts", err)
		return err
	}

	active, err := u.reservationRepo.GetActive(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "[productUsecase] SeedLedger", "getActiveReservations", err)
		return err
	}

	heldByProduct := make(map[int64]int64)
	for _, reservation := range active {
		heldByProduct[reservation.ProductID] += reservation.Quantity
	}

	known := make(map[int64]bool, len(products))
	for _, product := range products {
		known[product.ID] = true
		u.ledger.InitializeStock(product.ID, product.Stock.Quantity()+heldByProduct[product.ID])
	}

	for _, reservation := range active {
		if !known[reservation.ProductID] {
			slog.WarnContext(ctx, "[productUsecase] SeedLedger", "orphanReservation", reservation.ID.String())
			continue
		}
		result := u.ledger.Reserve(reservation.ProductID, reservation.ID, reservation.Quantity, time.Until(reservation.ExpiresAt))
		if result != domain.LedgerReserved {
			slog.WarnContext(ctx, "[productUsecase] SeedLedger", "reseedReservation:"+reservation.ID.String(), string(result))
		}
	}

	slog.InfoContext(ctx, "[productUsecase] SeedLedger", "products", len(products), "activeReservations", len(active))
	return nil
}

func (u *productUsecase) toResponse(product *domain.Product) *domain.ProductResponse {
	available, ok := u.ledger.GetAvailableStock(product.ID)
	if !ok {
		available = product.Stock.Quantity()
	}

	return &domain.ProductResponse{
		ID:             product.ID,
		Name:           product.Name.Value(),
		Price:          product.Price.Amount(),
		Stock:          product.Stock.Quantity(),
		AvailableStock: available,
	}
}
