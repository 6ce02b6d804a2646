package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/expensesplit/internal/config"
	"github.com/mmynk/expensesplit/internal/controller"
	"github.com/mmynk/expensesplit/internal/metrics"
	"github.com/mmynk/expensesplit/internal/middleware"
	"github.com/mmynk/expensesplit/internal/seed"
	"github.com/mmynk/expensesplit/internal/service"
	"github.com/mmynk/expensesplit/internal/storage"
	"github.com/mmynk/expensesplit/internal/storage/memory"
	"github.com/mmynk/expensesplit/internal/storage/sqlite"
	"github.com/mmynk/expensesplit/pkg/api/apiconnect"
	"github.com/mmynk/expensesplit/pkg/logging"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "store", cfg.Store)

	if cfg.Seed {
		if err := seed.Load(ctx, store); err != nil {
			return err
		}
		slog.Info("Seed data loaded", "people", len(seed.People()), "expenses", len(seed.Expenses()))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ctrl, err := controller.New(ctx, store, controller.WithMetrics(metrics.New(reg)))
	if err != nil {
		return fmt.Errorf("failed to initialize controller: %w", err)
	}

	mux := http.NewServeMux()

	// Register Connect services
	interceptors := connect.WithInterceptors(
		middleware.RequestIDInterceptor(),
		middleware.LoggingInterceptor(),
	)
	ledgerPath, ledgerHandler := apiconnect.NewLedgerServiceHandler(service.NewLedgerService(ctrl), interceptors)
	mux.Handle(ledgerPath, ledgerHandler)

	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", healthz)

	// Add logging and CORS middleware
	handler := middleware.HTTPLogging(middleware.CORS(cfg.CORSOrigin, mux))

	// Wrap with h2c for HTTP/2 without TLS
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.WriteString(w, "ok"); err != nil {
		slog.Debug("Health check write failed", "error", err)
	}
}

func openStore(ctx context.Context, kind string) (storage.Store, error) {
	switch kind {
	case config.StoreSQLite:
		store, err := sqlite.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite store: %w", err)
		}
		return store, nil
	default:
		return memory.New(), nil
	}
}
