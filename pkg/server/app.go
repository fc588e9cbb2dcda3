package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TradeCore/internal/service/feed"
	"TradeCore/internal/usecase"
	"TradeCore/pkg/cache"
	pkgch "TradeCore/pkg/clickhouse"
	"TradeCore/pkg/config"
	xhttp "TradeCore/pkg/http"
	applogger "TradeCore/pkg/logger"
)

// App encapsulates the entire application lifecycle: the candle feed, the
// periodic evaluation cycle, the read API, and infrastructure clients.
type App struct {
	cfg       *config.Config
	log       *applogger.Logger
	feed      *feed.Client
	cycle     *usecase.Cycle
	handler   xhttp.Handler
	chClient  *pkgch.Client
	publisher interface{ Close() error }
	cacheSvc  cache.Service

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	feedClient *feed.Client,
	cycle *usecase.Cycle,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	publisher interface{ Close() error },
	cacheSvc cache.Service,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		feed:      feedClient,
		cycle:     cycle,
		handler:   handler,
		chClient:  chClient,
		publisher: publisher,
		cacheSvc:  cacheSvc,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(a.cfg.Metrics.Path),
		xhttp.WithLogger(a.log),
	)

	go func() {
		if err := a.feed.Run(ctx); err != nil && ctx.Err() == nil {
			a.log.Error("candle feed stopped", applogger.Error(err))
		}
	}()
	a.log.Info("candle feed started",
		applogger.String("url", a.cfg.Feed.WebSocketURL),
		applogger.Strings("instruments", a.cfg.Symbols()),
	)

	go a.cycleLoop(ctx)
	a.log.Info("evaluation cycle started", applogger.Duration("interval", a.cfg.Engine.CycleInterval))

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("http server listening", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// cycleLoop runs one evaluation cycle per tick until ctx is cancelled. A
// cycle that overruns the interval delays the next tick rather than
// overlapping it.
func (a *App) cycleLoop(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.Engine.CycleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if _, err := a.cycle.Run(ctx, now.UTC()); err != nil {
				a.log.Error("evaluation cycle failed", applogger.Error(err))
			}
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.feed.Close(); err != nil {
		a.log.Warn("feed close error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	if a.cacheSvc != nil {
		if err := a.cacheSvc.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
