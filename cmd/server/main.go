package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/mtzamorim/apoia/internal/audit"
	"github.com/mtzamorim/apoia/internal/ong"
	ongmetrics "github.com/mtzamorim/apoia/internal/ong/metrics"
	"github.com/mtzamorim/apoia/internal/ong/service"
	"github.com/mtzamorim/apoia/internal/ong/store"
	"github.com/mtzamorim/apoia/internal/platform/config"
	"github.com/mtzamorim/apoia/internal/platform/httpserver"
	"github.com/mtzamorim/apoia/internal/platform/logger"
	"github.com/mtzamorim/apoia/internal/platform/middleware"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal feature packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, tx, db, err := buildStores(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	auditInbox := make(chan audit.Event, 256)
	auditStore := audit.NewInMemoryStore()
	auditWorker := audit.NewWorker(auditStore, auditInbox)

	svc := ong.NewService(stores, tx,
		service.WithLogger(log),
		service.WithMetrics(ongmetrics.New()),
		service.WithAuditPublisher(audit.NewChannelPublisher(auditInbox)),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestMeta)
	r.Use(middleware.RequestLogger(log))
	ong.NewHandler(svc, log).Register(r)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", healthz(db))

	srv := httpserver.New(cfg.Addr, r, cfg.ReadHeaderTimeout, cfg.WriteTimeout)
	log.Info("starting apoia server", "addr", cfg.Addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := auditWorker.Run(gctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// buildStores selects postgres when a DSN is configured, in-memory otherwise.
// The returned *sql.DB is nil for the in-memory case.
func buildStores(ctx context.Context, cfg config.Server) (store.Stores, store.Tx, *sql.DB, error) {
	if cfg.DatabaseURL == "" {
		mem := store.NewInMemory()
		return mem.Stores(), mem, nil, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return store.Stores{}, nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return store.Stores{}, nil, nil, err
	}
	if err := store.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return store.Stores{}, nil, nil, err
	}

	pg := store.NewPostgres(db)
	return pg.Stores(), pg, db, nil
}

func healthz(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				http.Error(w, "database unreachable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
