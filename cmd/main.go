package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"catalog-service/app/domain"
	handler "catalog-service/app/handler/api"
	"catalog-service/app/middleware"
	"catalog-service/app/repository/broker"
	"catalog-service/app/repository/cache"
	"catalog-service/app/repository/db"
	"catalog-service/app/usecase"
	"catalog-service/config"
	"catalog-service/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	slogfiber "github.com/samber/slog-fiber"
)

func main() {
	// init logger
	logger.InitLogger()

	ctx := context.Background()
	// init config
	cfg, err := config.InitConfig(ctx)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		return
	}

	// init database
	dbConn, err := db.NewPostgres(cfg.Db)
	if err != nil {
		slog.Error("DB connection failed", "error", err)
		return
	}
	defer dbConn.Close()

	// Connect to NATS server
	nc, err := nats.Connect(cfg.Nats.Url)
	if err != nil {
		slog.Error("Error connecting to NATS", "error", err)
		return
	}
	defer nc.Drain()

	js, err := jetstream.New(nc)
	if err != nil {
		slog.Error("Error creating JetStream context", "error", err)
		return
	}
	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:     strings.ToUpper(cfg.Nats.StreamName),
		Subjects: []string{fmt.Sprintf("%s.*", strings.ToLower(cfg.Nats.StreamName))},
		Storage:  jetstream.FileStorage,
	})
	if err != nil && !errors.Is(err, jetstream.ErrStreamNameAlreadyInUse) {
		slog.Error("create CATALOG stream failed", "error", err)
		return
	}

	reqValidator := validator.New()
	productRepo := db.NewProductRepository(dbConn)
	reservationRepo := db.NewReservationRepository(dbConn)
	auditRepo := db.NewAuditRepository(dbConn)
	stockBroker := broker.NewStockBrokerPublisher(js)
	stockLedger := cache.NewStockLedger()
	reservationRules := domain.NewReservationService()

	productUsecase := usecase.NewProductUsecase(productRepo, reservationRepo, stockLedger, stockBroker, cfg)
	reservationUsecase := usecase.NewReservationUsecase(productRepo, reservationRepo, auditRepo, stockLedger, reservationRules, stockBroker, cfg)

	// The ledger starts empty on every boot; rebuild it from the durable
	// store before taking traffic.
	if err := productUsecase.SeedLedger(ctx); err != nil {
		slog.Error("ledger seed failed", "error", err)
		return
	}

	productHandler := handler.NewProductHandler(productUsecase, reqValidator)
	reservationHandler := handler.NewReservationHandler(reservationUsecase, reqValidator)

	// Initialize HTTP web framework
	app := fiber.New()
	app.Use(healthcheck.New(healthcheck.Config{
		LivenessProbe: func(c *fiber.Ctx) bool {
			return true
		},
		LivenessEndpoint: "/live",
		ReadinessProbe: func(c *fiber.Ctx) bool {
			return true
		},
		ReadinessEndpoint: "/ready",
	}))
	webLogger := slog.New(&logger.RequestIDHandler{Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})})
	app.Use(slogfiber.New(webLogger))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(middleware.RequestIDMiddleware())

	handler.SetupRouter(app, productHandler, reservationHandler, cfg)

	// Expiry is data-driven; this sweep realizes it.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go runExpirySweep(sweepCtx, reservationUsecase, time.Duration(cfg.Reservation.SweepIntervalSeconds)*time.Second)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("Failed to listen", "port", cfg.Port)
			return
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	slog.Info("Gracefully shutdown")
	stopSweep()
	err = app.Shutdown()
	if err != nil {
		slog.Warn("Unfortunately the shutdown wasn't smooth", "err", err)
	}
}

func runExpirySweep(ctx context.Context, reservations domain.ReservationUsecase, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := reservations.ExpireReservations(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "[expirySweep] run", "expireReservations", err)
				continue
			}
			if count > 0 {
				slog.InfoContext(ctx, "[expirySweep] run", "expired", count)
			}
		}
	}
}
