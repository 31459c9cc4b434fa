package app

import (
	"context"

	"github.com/pmsignal/watchbot/internal/config"
	"github.com/pmsignal/watchbot/internal/delivery/telegram"
	"github.com/pmsignal/watchbot/internal/infra/db"
	"github.com/pmsignal/watchbot/internal/infra/log"
	"github.com/pmsignal/watchbot/internal/infra/polymarket"
	"github.com/pmsignal/watchbot/internal/usecase"
	"go.uber.org/zap"
)

type App struct {
	bot       *telegram.Bot
	poller    *usecase.Poller
	logger    *zap.Logger
	cleanupFn func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	watchRepo := db.NewWatchRepository(dbConn)
	activityClient := polymarket.NewActivityClient(cfg.DataAPIBaseURL, cfg.DataAPITimeout, logger)

	watchUC := usecase.NewWatchUsecase(watchRepo, activityClient, logger)

	api, err := telegram.NewAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, err
	}

	notifier := telegram.NewNotifier(api, logger)
	poller := usecase.NewPoller(watchRepo, activityClient, notifier, logger, cfg.PollInterval, cfg.FetchLimit)
	handlers := telegram.NewHandlers(watchUC, logger)
	bot := telegram.NewBot(api, handlers, cfg.TelegramPollTimeout)

	cleanup := func() error {
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return &App{bot: bot, poller: poller, logger: logger, cleanupFn: cleanup}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("watchbot service starting")

	pollerDone := make(chan struct{})
	go func() {
		defer close(pollerDone)
		if err := a.poller.Run(ctx); err != nil {
			a.logger.Error("poller exited", zap.Error(err))
		}
	}()

	a.logger.Info("watchbot service started")
	err := a.bot.Start(ctx)
	<-pollerDone
	return err
}

func (a *App) Shutdown() {
	a.logger.Info("watchbot service shutting down")
	if a.cleanupFn != nil {
		if err := a.cleanupFn(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
