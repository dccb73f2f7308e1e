package di

import (
	"context"
	"fmt"
	"time"

	"TradeCompass/internal/domain/repository"
	"TradeCompass/internal/engine"
	"TradeCompass/internal/handler/api"
	internalrepo "TradeCompass/internal/repository"
	"TradeCompass/internal/service/brapi"
	"TradeCompass/internal/service/stream"
	"TradeCompass/internal/usecase"
	"TradeCompass/pkg/cache"
	pkgch "TradeCompass/pkg/clickhouse"
	"TradeCompass/pkg/config"
	xhttp "TradeCompass/pkg/http"
	pkgkafka "TradeCompass/pkg/kafka"
	applogger "TradeCompass/pkg/logger"
	"TradeCompass/pkg/metrics"
	"TradeCompass/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideEstimator creates the backtest estimator with its bounded cache.
func ProvideEstimator(cfg *config.Config) *engine.Estimator {
	opts := []engine.EstimatorOption{}
	if cfg.Engine.ForwardWindow > 0 {
		opts = append(opts, engine.WithForwardWindow(cfg.Engine.ForwardWindow))
	}
	if cfg.Engine.RiskATRMult > 0 {
		opts = append(opts, engine.WithRiskMultiple(cfg.Engine.RiskATRMult))
	}
	if cfg.Engine.BacktestTTL > 0 {
		opts = append(opts, engine.WithCacheTTL(cfg.Engine.BacktestTTL))
	}
	if cfg.Engine.BacktestMaxKey > 0 {
		opts = append(opts, engine.WithCacheCapacity(cfg.Engine.BacktestMaxKey))
	}
	return engine.NewEstimator(opts...)
}

// ProvideAnalyzer creates the analysis pipeline.
func ProvideAnalyzer(est *engine.Estimator) *engine.Analyzer {
	return engine.NewAnalyzer(est)
}

// ProvideResponseCache builds the response/candle cache. With Redis enabled
// the memory cache becomes an L1 in front of it.
func ProvideResponseCache(cfg *config.Config) (cache.BytesCache, error) {
	memSize := cfg.Cache.MemorySize
	if memSize <= 0 {
		memSize = 1024
	}
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(memSize)), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	rc, err := cache.NewRedisCache(ctx,
		cache.WithRedisAddr(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
		cache.WithRedisAuth(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
		cache.WithRedisPrefix("tradecompass"),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc, cache.WithMemoryMaxSize(memSize)), nil
}

// ProvideClickHouseClient creates a ClickHouse client when configured as the
// candle provider; nil otherwise.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Market.Provider != "clickhouse" {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.SchemaStatements()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideCandleSource selects the configured candle provider.
func ProvideCandleSource(
	cfg *config.Config,
	chClient *pkgch.Client,
	respCache cache.BytesCache,
	l *applogger.Logger,
) (repository.CandleSource, error) {
	switch cfg.Market.Provider {
	case "clickhouse":
		store := internalrepo.NewCHCandleStore(chClient)
		store.SetLogger(l)
		return store, nil
	case "brapi":
		opts := []brapi.Option{brapi.WithToken(cfg.Market.APIToken)}
		if cfg.Market.Timeout > 0 {
			opts = append(opts, brapi.WithHTTPClient(xhttp.NewClient(xhttp.WithTimeout(cfg.Market.Timeout))))
		}
		if cfg.Market.CacheTTL > 0 {
			opts = append(opts, brapi.WithCache(respCache, cfg.Market.CacheTTL))
		}
		return brapi.New(cfg.Market.BaseURL, l, opts...), nil
	default:
		return nil, fmt.Errorf("unknown market provider: %s", cfg.Market.Provider)
	}
}

// ProvideKafkaProducer creates a Kafka producer when signals are enabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Signals.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Signals.Brokers),
		pkgkafka.WithCompression(cfg.Signals.Compression),
		pkgkafka.WithRequiredAcks(cfg.Signals.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Signals.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Signals.WriteTimeout),
		pkgkafka.WithAsync(cfg.Signals.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideSignalPublisher wraps the producer, or no-ops when disabled.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.SignalPublisher {
	if producer == nil {
		return internalrepo.NopSignalPublisher{}
	}
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Signals.Topic)
}

// ProvideQuoteStream creates the WebSocket quote stream, nil when disabled.
func ProvideQuoteStream(cfg *config.Config, l *applogger.Logger) repository.QuoteStream {
	st := cfg.Market.Stream
	if !st.Enabled {
		return nil
	}
	return stream.New(cfg.Market.APIToken, st.URL, st.Symbols, st.ReconnectDelay, st.PingInterval, l)
}

// ProvideQuoteCollector creates the collector, nil when the stream is off.
func ProvideQuoteCollector(
	qs repository.QuoteStream,
	m repository.Metrics,
	est *engine.Estimator,
) *usecase.QuoteCollector {
	if qs == nil {
		return nil
	}
	return usecase.NewQuoteCollector(qs, m, est)
}

// ProvideAnalysisUseCase creates the analysis use case.
func ProvideAnalysisUseCase(
	source repository.CandleSource,
	analyzer *engine.Analyzer,
	est *engine.Estimator,
	publisher repository.SignalPublisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.AnalysisUseCase {
	return usecase.NewAnalysisUseCase(source, analyzer, est, publisher, m, l)
}

// ProvideHTTPHandler creates the Echo route handler.
func ProvideHTTPHandler(
	cfg *config.Config,
	l *applogger.Logger,
	uc *usecase.AnalysisUseCase,
	collector *usecase.QuoteCollector,
	respCache cache.BytesCache,
) xhttp.Handler {
	return api.NewAnalysisEchoHandler(l, uc, collector, respCache, cfg.Cache.ResponseTTL)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	collector *usecase.QuoteCollector,
	publisher repository.SignalPublisher,
	chClient *pkgch.Client,
	respCache cache.BytesCache,
) *server.App {
	return server.New(cfg, l, handler, collector, publisher, chClient, respCache)
}
