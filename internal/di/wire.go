//go:build wireinject
// +build wireinject

package di

import (
	"TradeCompass/pkg/config"
	"TradeCompass/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Engine
		ProvideEstimator,
		ProvideAnalyzer,

		// Infrastructure clients
		ProvideResponseCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideCandleSource,
		ProvideSignalPublisher,
		ProvideQuoteStream,

		// Use cases
		ProvideAnalysisUseCase,
		ProvideQuoteCollector,

		// HTTP
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
