package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"QuantDesk/internal/domain/models"
	"QuantDesk/internal/domain/repository"
	domsvc "QuantDesk/internal/domain/service"
	"QuantDesk/internal/handler/api"
	"QuantDesk/internal/handler/ws"
	internalrepo "QuantDesk/internal/repository"
	icache "QuantDesk/internal/service/cache"
	"QuantDesk/internal/service/ratelimit"
	"QuantDesk/internal/services/fundamental"
	"QuantDesk/internal/services/technical"
	"QuantDesk/internal/services/valuation"
	"QuantDesk/internal/usecase"
	pkgcache "QuantDesk/pkg/cache"
	pkgch "QuantDesk/pkg/clickhouse"
	"QuantDesk/pkg/config"
	pkgkafka "QuantDesk/pkg/kafka"
	applogger "QuantDesk/pkg/logger"
	"QuantDesk/pkg/metrics"
	"QuantDesk/pkg/queue"
	"QuantDesk/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	if cfg.Environment == "development" {
		level = "debug"
	}
	return applogger.New(&applogger.Config{Level: level, Format: "json", Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, schemaStatements()); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

func schemaStatements() []string {
	return []string{
		"CREATE DATABASE IF NOT EXISTS quantdesk",
		`CREATE TABLE IF NOT EXISTS quantdesk.daily_bars (
            ticker String, day Date,
            open Float64, high Float64, low Float64, close Float64, volume Float64
        ) ENGINE=ReplacingMergeTree ORDER BY (ticker, day)`,
		`CREATE TABLE IF NOT EXISTS quantdesk.statements (
            ticker String, period_end Date,
            revenue Nullable(Float64), net_income Nullable(Float64),
            operating_cash_flow Nullable(Float64), capital_expenditure Nullable(Float64),
            depreciation Nullable(Float64), rnd Nullable(Float64),
            ebit Nullable(Float64), ebitda Nullable(Float64),
            total_assets Nullable(Float64), current_assets Nullable(Float64),
            current_liabilities Nullable(Float64), inventory Nullable(Float64),
            receivables Nullable(Float64), payables Nullable(Float64),
            cost_of_revenue Nullable(Float64), total_debt Nullable(Float64),
            cash Nullable(Float64), equity Nullable(Float64),
            shares_outstanding Nullable(Float64), gross_margin Nullable(Float64),
            pretax_income Nullable(Float64), interest_expense Nullable(Float64)
        ) ENGINE=ReplacingMergeTree ORDER BY (ticker, period_end)`,
		`CREATE TABLE IF NOT EXISTS quantdesk.analyst_targets (
            ticker String, updated_at DateTime,
            low Float64, mean Float64, median Float64, high Float64, analyst_count Int32
        ) ENGINE=ReplacingMergeTree ORDER BY (ticker, updated_at)`,
		`CREATE TABLE IF NOT EXISTS quantdesk.universe (
            ticker String, domain_id String, beta Float64, active UInt8
        ) ENGINE=ReplacingMergeTree ORDER BY ticker`,
		`CREATE TABLE IF NOT EXISTS quantdesk.alerts (
            ticker String, domain_id String, reasons String,
            rsi Nullable(Float64), distance_from_high Nullable(Float64), ts DateTime
        ) ENGINE=MergeTree ORDER BY (ticker, ts)`,
	}
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
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

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideMarketStore creates the ClickHouse-backed market snapshot store.
func ProvideMarketStore(chClient *pkgch.Client, l *applogger.Logger) repository.MarketStore {
	store := internalrepo.NewCHMarketStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideBarStore exposes the ClickHouse store's write side for ingestion.
func ProvideBarStore(chClient *pkgch.Client, l *applogger.Logger) repository.BarStore {
	store := internalrepo.NewCHMarketStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideAlertStore creates the ClickHouse alert store.
func ProvideAlertStore(chClient *pkgch.Client, cfg *config.Config) repository.AlertStore {
	return internalrepo.NewCHAlertStore(chClient, cfg.ClickHouse.Database+".alerts")
}

// ProvideAlertFeed creates the websocket fan-out for live alerts.
func ProvideAlertFeed(l *applogger.Logger) *ws.AlertFeed {
	return ws.NewAlertFeed(l)
}

// ProvideAlertPublisher combines Kafka and the websocket feed.
func ProvideAlertPublisher(producer *pkgkafka.Producer, feed *ws.AlertFeed, cfg *config.Config) repository.AlertPublisher {
	kafkaPub := internalrepo.NewKafkaAlertPublisher(producer, cfg.Kafka.AlertTopic)
	return internalrepo.NewMultiPublisher(kafkaPub, feed)
}

// ProvideRedisClient creates the shared Redis client, or nil when disabled.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// ProvideScanLock builds the lock used to serialize universe scans. Redis
// gives a cross-process lock when enabled, memory covers single-node setups.
func ProvideScanLock(cfg *config.Config, l *applogger.Logger) pkgcache.Service {
	if !cfg.Redis.Enabled {
		return pkgcache.NewMemoryCache()
	}
	host, port := splitHostPort(cfg.Redis.Addr)
	c, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
		pkgcache.WithRedisPrefix("quantdesk"),
	)
	if err != nil {
		l.Warn("redis scan lock unavailable, using in-process lock", applogger.Error(err))
		return pkgcache.NewMemoryCache()
	}
	return c
}

func splitHostPort(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 6379
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 6379
	}
	return host, port
}

// ProvideResultCache builds the evaluation result cache: layered over Redis
// when available, in-process otherwise.
func ProvideResultCache(cfg *config.Config) icache.BytesCache {
	if cfg.Redis.Enabled {
		shared := icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return icache.NewLayeredCache(shared)
	}
	return icache.NewTTLCache()
}

// ProvideTechnicalAnalyzer creates the indicator engine.
func ProvideTechnicalAnalyzer() domsvc.TechnicalAnalyzer {
	return technical.NewAnalyzer()
}

// ProvideValuer creates the valuation engine from config.
func ProvideValuer(cfg *config.Config) domsvc.Valuer {
	p := valuation.DefaultParams()
	v := cfg.Engine.Valuation
	if v.ProjectionYears > 0 {
		p.ProjectionYears = v.ProjectionYears
	}
	if v.EquityRiskPremium > 0 {
		p.EquityRiskPremium = v.EquityRiskPremium
	}
	if v.TaxRate > 0 {
		p.TaxRate = v.TaxRate
	}
	if v.TerminalGrowth > 0 {
		p.TerminalGrowth = v.TerminalGrowth
	}
	if v.ExitMultiple > 0 {
		p.ExitMultiple = v.ExitMultiple
	}
	if v.MinWACC > 0 {
		p.MinWACC = v.MinWACC
	}
	return valuation.NewEngine(p)
}

// ProvideQualityAnalyzer creates the fundamental quality engine.
func ProvideQualityAnalyzer() domsvc.QualityAnalyzer {
	return fundamental.NewEngine()
}

func scoringParamsFromConfig(cfg *config.Config) usecase.ScoringParams {
	p := usecase.DefaultScoringParams()
	s := cfg.Engine.Scoring
	if s.Fundamental+s.Valuation+s.Technical+s.Risk+s.Sentiment > 0 {
		p.Weights[models.DimFundamental] = s.Fundamental
		p.Weights[models.DimValuation] = s.Valuation
		p.Weights[models.DimTechnical] = s.Technical
		p.Weights[models.DimRisk] = s.Risk
		p.Weights[models.DimSentiment] = s.Sentiment
	}
	if s.StrongBuy > 0 {
		p.StrongBuyMin = s.StrongBuy
	}
	if s.Buy > 0 {
		p.BuyMin = s.Buy
	}
	if s.Hold > 0 {
		p.HoldMin = s.Hold
	}
	return p
}

// ProvideEvaluator creates the single-instrument evaluation pipeline.
func ProvideEvaluator(
	store repository.MarketStore,
	tech domsvc.TechnicalAnalyzer,
	valuer domsvc.Valuer,
	quality domsvc.QualityAnalyzer,
	resultCache icache.BytesCache,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.Evaluator {
	ttl := cfg.Engine.CacheTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return usecase.NewEvaluator(
		store, tech, valuer, quality,
		scoringParamsFromConfig(cfg),
		resultCache, ttl,
		cfg.Engine.RiskFreeRate,
		m, l,
	)
}

// ProvideScanner creates the universe scanner.
func ProvideScanner(
	store repository.MarketStore,
	tech domsvc.TechnicalAnalyzer,
	alerts repository.AlertStore,
	publisher repository.AlertPublisher,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.Scanner {
	criteria := usecase.DefaultAlertCriteria()
	if cfg.Scan.RSIBelow > 0 {
		criteria.RSIBelow = cfg.Scan.RSIBelow
	}
	if cfg.Scan.DistanceBelow < 0 {
		criteria.DistanceBelow = cfg.Scan.DistanceBelow
	}
	if cfg.Scan.MinBullishSignals > 0 {
		criteria.MinBullishSignals = cfg.Scan.MinBullishSignals
	}
	if cfg.Scan.BollingerBelow > 0 {
		criteria.BollingerBelow = cfg.Scan.BollingerBelow
	}
	rateCap, ratePerSec := cfg.Scan.RateCapacity, cfg.Scan.RatePerSecond
	if rateCap <= 0 {
		rateCap = 20
	}
	if ratePerSec <= 0 {
		ratePerSec = 10
	}
	return usecase.NewScanner(
		store, tech, alerts, publisher,
		ratelimit.New(), criteria,
		cfg.Scan.Workers, rateCap, ratePerSec,
		m, l,
	)
}

// ProvideScanQueue creates the Redis-backed scan job queue, or nil when
// Redis is disabled (scans then run inline).
func ProvideScanQueue(
	rdb *redis.Client,
	scanner *usecase.Scanner,
	lock pkgcache.Service,
	l *applogger.Logger,
	cfg *config.Config,
) *queue.RedisQueue {
	if rdb == nil {
		return nil
	}
	timeout := cfg.Scan.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	job := usecase.NewScanJob(scanner, lock, timeout, l)
	q := queue.NewRedisQueue(l, &queue.QueueConfig{
		Workers:    1,
		QueueSize:  64,
		RetryLimit: 1,
		RetryDelay: 30 * time.Second,
	}, rdb, queue.ModeProducerConsumer, queue.WithKeyPrefix("quantdesk:queue"))
	q.RegisterJob(job)
	return q
}

// ProvideBarIngestHandler registers the handler for the daily-bar topic.
func ProvideBarIngestHandler(store repository.BarStore, m repository.Metrics, cfg *config.Config) *usecase.BarIngestHandler {
	return usecase.NewBarIngestHandler(cfg.Kafka.BarTopic, store, m)
}

// ProvideEngineHandler creates the Echo HTTP handler.
func ProvideEngineHandler(
	l *applogger.Logger,
	evaluator *usecase.Evaluator,
	scanner *usecase.Scanner,
	alerts repository.AlertStore,
	q *queue.RedisQueue,
	resultCache icache.BytesCache,
	cfg *config.Config,
) *api.EngineEchoHandler {
	var qs queue.QueueService
	if q != nil {
		qs = q
	}
	plain := api.NewEngineHandler(evaluator)
	plain.SetLogger(l)
	plain.SetCache(resultCache)
	return api.NewEngineEchoHandler(l, evaluator, scanner, alerts, qs, plain, cfg.Scan.Timeout)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.EngineEchoHandler,
	feed *ws.AlertFeed,
	consumer *pkgkafka.Consumer,
	ingest *usecase.BarIngestHandler,
	scanQueue *queue.RedisQueue,
	chClient *pkgch.Client,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	return server.New(cfg, l, handler, feed, consumer, ingest, scanQueue, chClient)
}
