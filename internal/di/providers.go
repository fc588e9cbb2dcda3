package di

import (
	"context"
	"fmt"
	"time"

	"TradeCore/internal/domain/repository"
	"TradeCore/internal/handler/api"
	internalrepo "TradeCore/internal/repository"
	"TradeCore/internal/service/feed"
	"TradeCore/internal/services/engine"
	"TradeCore/internal/usecase"
	pkgcache "TradeCore/pkg/cache"
	pkgch "TradeCore/pkg/clickhouse"
	"TradeCore/pkg/config"
	xhttp "TradeCore/pkg/http"
	pkgkafka "TradeCore/pkg/kafka"
	applogger "TradeCore/pkg/logger"
	"TradeCore/pkg/metrics"
	"TradeCore/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		TimeFormat: cfg.Logging.TimeFormat,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCandleFeed creates the WebSocket candle feed for the primary and
// confirmation timeframes.
func ProvideCandleFeed(cfg *config.Config, log *applogger.Logger) *feed.Client {
	primary := repository.NormalizeTimeframe(cfg.Engine.Timeframe)
	tfs := []repository.Timeframe{primary}
	if confirm := repository.NormalizeTimeframe(cfg.Engine.ConfirmTimeframe); confirm != primary {
		tfs = append(tfs, confirm)
	}
	return feed.New(
		cfg.Feed.APIKey,
		cfg.Feed.WebSocketURL,
		cfg.Symbols(),
		tfs,
		cfg.Feed.ReconnectDelay,
		cfg.Feed.PingInterval,
		log,
	)
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when the audit
// store is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideDecisionStore creates the ClickHouse decision audit store and
// initializes its schema. Returns nil when ClickHouse is disabled.
func ProvideDecisionStore(chClient *pkgch.Client) (repository.DecisionStore, error) {
	if chClient == nil {
		return nil, nil
	}
	store := internalrepo.NewCHDecisionStore(chClient, "decisions")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		_ = chClient.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when publishing is
// disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideIntentPublisher creates the Kafka trade intent publisher, or nil
// when Kafka is disabled.
func ProvideIntentPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.IntentPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaIntentPublisher(producer, cfg.Kafka.Topic)
}

// ProvideCacheService creates the configured cache backend.
func ProvideCacheService(cfg *config.Config) (pkgcache.Service, error) {
	if cfg.Cache.Backend == "redis" {
		c, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisAddr(cfg.Cache.Redis.Addr),
			pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
			pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	}
	return pkgcache.NewMemoryCache(), nil
}

// ProvideDecisionCache creates the latest-decision cache backing the read API.
func ProvideDecisionCache(svc pkgcache.Service, cfg *config.Config) repository.DecisionCache {
	return internalrepo.NewCachedDecisions(svc, cfg.Cache.TTL)
}

// ProvideAccountProvider creates the account state source.
func ProvideAccountProvider(cfg *config.Config) repository.AccountProvider {
	return internalrepo.NewStaticAccount(cfg.Account.InitialBalance)
}

// ProvideEvaluator creates the per-instrument evaluation pipeline.
func ProvideEvaluator(feedClient *feed.Client, cfg *config.Config, log *applogger.Logger) *usecase.Evaluator {
	return usecase.NewEvaluator(feedClient, cfg, log)
}

// ProvideAdmission creates the admission controller.
func ProvideAdmission(cfg *config.Config) *engine.Controller {
	return engine.NewController(cfg.Engine.Admission)
}

// ProvideCycle creates the evaluation cycle use case.
func ProvideCycle(
	eval *usecase.Evaluator,
	admission *engine.Controller,
	accounts repository.AccountProvider,
	store repository.DecisionStore,
	publisher repository.IntentPublisher,
	decisions repository.DecisionCache,
	m repository.Metrics,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.Cycle {
	return usecase.NewCycle(eval, admission, accounts, store, publisher, decisions, m, log, cfg.Symbols())
}

// ProvideHTTPHandler creates the read-only decisions API handler.
func ProvideHTTPHandler(log *applogger.Logger, decisions repository.DecisionCache, cfg *config.Config) xhttp.Handler {
	return api.NewDecisionsHandler(log, decisions, cfg.Symbols())
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	feedClient *feed.Client,
	cycle *usecase.Cycle,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	publisher repository.IntentPublisher,
	cacheSvc pkgcache.Service,
) *server.App {
	var closer interface{ Close() error }
	if publisher != nil {
		closer = publisher
	}
	return server.New(cfg, log, feedClient, cycle, handler, chClient, closer, cacheSvc)
}
