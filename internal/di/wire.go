//go:build wireinject
// +build wireinject

package di

import (
	"QuantDesk/pkg/config"
	"QuantDesk/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideRedisClient,
		ProvideScanLock,

		// Repositories
		ProvideMarketStore,
		ProvideBarStore,
		ProvideAlertStore,
		ProvideAlertFeed,
		ProvideAlertPublisher,
		ProvideResultCache,

		// Engines
		ProvideTechnicalAnalyzer,
		ProvideValuer,
		ProvideQualityAnalyzer,

		// Use cases
		ProvideEvaluator,
		ProvideScanner,
		ProvideScanQueue,
		ProvideBarIngestHandler,

		// Transport
		ProvideEngineHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
