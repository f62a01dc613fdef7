package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shopfront/orderapi/internal/application/discount"
	appOrder "github.com/shopfront/orderapi/internal/application/order"
	appPayment "github.com/shopfront/orderapi/internal/application/payment"
	"github.com/shopfront/orderapi/internal/config"
	"github.com/shopfront/orderapi/internal/infrastructure/audit"
	"github.com/shopfront/orderapi/internal/infrastructure/memory"
	"github.com/shopfront/orderapi/internal/infrastructure/observability/prometrics"
	"github.com/shopfront/orderapi/internal/infrastructure/observability/telemetry"
	"github.com/shopfront/orderapi/internal/infrastructure/observability/zaplogger"
	"github.com/shopfront/orderapi/internal/infrastructure/outbox"
	"github.com/shopfront/orderapi/internal/pkg/logging"
	httppresentation "github.com/shopfront/orderapi/internal/presentation/http"
)

func main() {
	cfg := config.Load()

	baseLogger := logging.MustNewLogger(cfg.ServiceName, cfg.Env)
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	systemLogger := logging.WithTrace(baseLogger, logging.SystemTraceID, logging.SystemSpanID)

	shutdownTracing, err := telemetry.SetupTracing(context.Background(), cfg.ServiceName, cfg.OtelEndpoint)
	if err != nil {
		systemLogger.Fatal("tracing_setup_error", zap.Error(err))
	}

	tel := telemetry.New(cfg.ServiceName, zaplogger.New(), prometrics.New("", ""))

	productRepo := memory.NewProductRepository()
	orderRepo := memory.NewOrderRepository()
	paymentRepo := memory.NewPaymentRepository()

	if cfg.SeedCatalog {
		if err := productRepo.SeedDemoCatalog(context.Background()); err != nil {
			systemLogger.Fatal("catalog_seed_error", zap.Error(err))
		}
	}

	// In-memory event bus (acts as outbox/event publisher)
	bus := outbox.NewBus(tel.Logger())
	bus.Start(context.Background())
	defer bus.Stop(context.Background())

	auditWorker := audit.New(bus, tel)
	auditWorker.Start()

	orderService := appOrder.NewService(orderRepo, productRepo, discount.NewCalculator(), bus, tel)
	paymentService := appPayment.NewService(orderRepo, paymentRepo, bus, tel, appPayment.Config{
		FailureRate: cfg.PaymentFailureRate,
		Latency:     cfg.PaymentGatewayLatency,
	})

	handler := httppresentation.NewHandler(orderService, paymentService, tel)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		systemLogger.Info("http_server_start",
			zap.String("addr", server.Addr),
		)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			systemLogger.Error("http_server_error",
				zap.Error(err),
			)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		systemLogger.Error("http_server_shutdown_error",
			zap.Error(err),
		)
	} else {
		systemLogger.Info("http_server_stopped")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		systemLogger.Error("tracing_shutdown_error", zap.Error(err))
	}
}
