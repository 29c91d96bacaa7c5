package broker

import (
	"context"
	"encoding/json"
	"log/slog"

	"catalog-service/app/domain"

	"github.com/nats-io/nats.go/jetstream"
)

type stockBroker struct {
	js jetstream.JetStream
}

func NewStockBrokerPublisher(stream jetstream.JetStream) domain.BrokerPublisher {
	return &stockBroker{
		js: stream,
	}
}

func (s *stockBroker) PublishStockAvailable(ctx context.Context, data domain.StockMessage) error {
	msg, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "[stockBroker] PublishStockAvailable", "json.Marshal", err)
		return err
	}

	if _, err = s.js.Publish(ctx, "catalog.stock_available", msg); err != nil {
		slog.ErrorContext(ctx, "[stockBroker] PublishStockAvailable", "Publish", err)
		return err
	}

	return nil
}
