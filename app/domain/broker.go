package domain

import "context"

// StockMessage announces the available stock of a product after a
// reservation-side change.
type StockMessage struct {
	ProductID int64 `json:"product_id"`
	Available int64 `json:"available"`
}

type BrokerPublisher interface {
	PublishStockAvailable(ctx context.Context, data StockMessage) error
}
