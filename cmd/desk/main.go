package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Spok95/storage-desk/internal/api"
	"github.com/Spok95/storage-desk/internal/bot"
	"github.com/Spok95/storage-desk/internal/config"
	"github.com/Spok95/storage-desk/internal/dialog"
	"github.com/Spok95/storage-desk/internal/domain/reports"
	"github.com/Spok95/storage-desk/internal/export"
	"github.com/Spok95/storage-desk/internal/infra/db"
	"github.com/Spok95/storage-desk/internal/infra/exports"
	httpx "github.com/Spok95/storage-desk/internal/infra/http"
	"github.com/Spok95/storage-desk/internal/infra/logger"
)

func runMigrations(dsn string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	path := os.Getenv("STORAGE_DESK_CONFIG")
	if path == "" {
		path = "config/example.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)
	if cfg.App.Timezone != "" {
		if loc, err := time.LoadLocation(cfg.App.Timezone); err == nil {
			time.Local = loc
		} else {
			log.Warn("unknown timezone, using system one", "tz", cfg.App.Timezone, "err", err)
		}
	}

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	client := api.New(cfg.API.BaseURL, cfg.API.Timeout, api.StaticToken(cfg.API.Token), log)

	// HTTP-выгрузка отчётов ходит в backend с токеном из конфига
	gen := export.NewGenerator(reports.NewRepo(client))
	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, exports.NewHandler(log, gen))
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	if cfg.Telegram.Token == "" {
		log.Warn("telegram token is empty, bot disabled")
		<-ctx.Done()
	} else if err := runBot(ctx, cfg, log, dialog.NewRepo(pool), client); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("bot stopped", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}

func runBot(ctx context.Context, cfg config.Config, log *slog.Logger, states *dialog.Repo, client *api.Client) error {
	tg, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return err
	}
	log.Info("telegram authorized", "bot", tg.Self.UserName)

	b := bot.New(tg, log, states, client, cfg.API.Token, bot.UIConfig{
		PageSize:              cfg.UI.PageSize,
		SearchDebounce:        cfg.UI.SearchDebounce,
		DeleteDelay:           cfg.UI.DeleteDelay,
		RestoreOnFailedDelete: cfg.UI.RestoreOnFailedDelete,
		UnitsBulkLimit:        cfg.UI.UnitsBulkLimit,
	}, export.FileSharer{Dir: os.TempDir()})
	return b.Run(ctx, cfg.Telegram.TimeoutSec)
}
