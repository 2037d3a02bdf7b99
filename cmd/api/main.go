package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"special-requests/internal/cache"
	"special-requests/internal/config"
	"special-requests/internal/database"
	"special-requests/internal/models"
	"special-requests/internal/repository"
	"special-requests/internal/repository/memory"
	"special-requests/internal/repository/postgres"
	"special-requests/internal/repository/sheets"
	"special-requests/internal/router"
	"special-requests/internal/service"
	"special-requests/internal/summary"
	"special-requests/pkg/logger"
)

type backend struct {
	rows     repository.RowStore
	accounts repository.Authenticator
	close    func()
}

func main() {
	// config + logger
	cfg, err := config.Load()
	l := logger.New(cfg.Env)
	if err != nil {
		l.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

	// row store
	be, err := openBackend(ctx, cfg, l)
	if err != nil {
		l.Fatal().Err(err).Str("store", cfg.Store).Msg("row store init failed")
	}
	defer be.close()

	// cache (nil when REDIS_ADDR is empty)
	rc, err := cache.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
	if err != nil {
		l.Fatal().Err(err).Msg("redis connect failed")
	}
	defer rc.Close()
	var jc cache.JSON
	if rc != nil {
		jc = rc
	}

	// ai summaries
	var gen summary.Generator
	if cfg.AI.APIKey != "" {
		gen = summary.NewOpenAIGenerator(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model)
	} else {
		l.Warn().Msg("AI_API_KEY not set; summaries will return the fallback text")
	}

	catalog := service.NewCatalog(be.rows, jc, l)
	svc := router.Services{
		Auth:      service.NewAuthService(be.accounts, cfg.SessionSecret, cfg.SessionTTL),
		Admin:     service.NewAdminDashboard(be.rows, summary.NewService(gen, jc, l), l),
		Submitter: service.NewSubmitterDashboard(be.rows, catalog, l),
	}

	// http
	r := router.New(l, cfg, svc)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second, // summaries wait on the model
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		l.Info().Str("addr", srv.Addr).Str("store", cfg.Store).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	l.Info().Msg("shutdown complete")
}

func openBackend(ctx context.Context, cfg config.Config, l zerolog.Logger) (backend, error) {
	switch cfg.Store {
	case config.StorePostgres:
		pool, err := database.Open(ctx, cfg)
		if err != nil {
			return backend{}, err
		}
		if cfg.DBMigrate {
			if err := database.Migrate(ctx, pool); err != nil {
				pool.Close()
				return backend{}, err
			}
		}
		return backend{rows: postgres.NewRowRepo(pool), accounts: postgres.NewStoreRepo(pool), close: pool.Close}, nil

	case config.StoreMemory:
		l.Warn().Msg("using the in-memory row store; data is lost on exit")
		s, err := memory.New(devItems, devAccounts...)
		if err != nil {
			return backend{}, err
		}
		return backend{rows: s, accounts: s, close: func() {}}, nil

	default:
		c := sheets.New(cfg.ScriptURL, cfg.StoreTimeout)
		return backend{rows: c, accounts: c, close: func() {}}, nil
	}
}

// seed data for ROW_STORE=memory
var (
	devItems = []models.MasterItem{
		{Code: "10001", Description: "Mineral Water 600ml"},
		{Code: "10002", Description: "Mineral Water 1.5L"},
		{Code: "20001", Description: "Instant Noodles Chicken"},
		{Code: "20002", Description: "Instant Noodles Beef"},
		{Code: "30001", Description: "Paper Towel 2 Ply"},
	}
	devAccounts = []memory.Account{
		{User: models.User{StoreCode: "ADMIN", StoreName: "Head Office", Email: "admin@example.com", Role: models.RoleAdmin}, Password: "admin"},
		{User: models.User{StoreCode: "S001", StoreName: "Store 001", Email: "s001@example.com", Role: models.RoleUser}, Password: "s001"},
	}
)
