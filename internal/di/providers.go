package di

import (
	"fmt"

	"QuantDesk/internal/domain/repository"
	domsvc "QuantDesk/internal/domain/service"
	"QuantDesk/internal/handler/api"
	internalrepo "QuantDesk/internal/repository"
	icache "QuantDesk/internal/service/cache"
	"QuantDesk/internal/service/stooq"
	"QuantDesk/internal/services/backtest"
	"QuantDesk/internal/services/forecast"
	"QuantDesk/internal/services/indicators"
	"QuantDesk/internal/services/paper"
	"QuantDesk/internal/services/sentiment"
	"QuantDesk/internal/usecase"
	"QuantDesk/pkg/cache"
	"QuantDesk/pkg/config"
	xhttp "QuantDesk/pkg/http"
	"QuantDesk/pkg/logger"
	"QuantDesk/pkg/metrics"
	"QuantDesk/pkg/server"
)

// ProvideLogger builds the shared structured logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return log, nil
}

// ProvideMetrics creates the Prometheus recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideCache builds the shared data cache. Redis turns it into a
// layered memory-over-Redis cache, otherwise it is memory only.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if cfg.Cache.Redis.Enabled {
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return cache.NewLayeredCache(rc, cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize)), nil
	}
	return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize)), nil
}

// ProvidePayloadCache builds the response payload cache used by the API
// layer. With Redis enabled the payloads are shared across nodes,
// otherwise they live in process memory.
func ProvidePayloadCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     fmt.Sprintf("%s:%d", cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideBarSource creates the Stooq-backed market data provider.
func ProvideBarSource(cfg *config.Config, c cache.Service, log *logger.Logger, rec *metrics.Recorder) repository.BarSource {
	return stooq.New(stooq.Config{
		BaseURL:  cfg.MarketData.BaseURL,
		Suffix:   cfg.MarketData.MarketSuffix,
		Timeout:  cfg.MarketData.FetchTimeout,
		CacheTTL: cfg.MarketData.BarsCacheTTL,
	}, c, log, rec)
}

// ProvideBalanceStore creates the in-memory account balance store.
func ProvideBalanceStore(cfg *config.Config) repository.BalanceStore {
	return internalrepo.NewMemoryBalanceStore(cfg.Paper.InitialBalance)
}

// ProvideIndicatorEngine creates the indicator computation engine.
func ProvideIndicatorEngine() domsvc.IndicatorEngine {
	return indicators.NewEngine()
}

// ProvideSentimentProvider creates the synthetic sentiment provider.
func ProvideSentimentProvider(cfg *config.Config) domsvc.SentimentProvider {
	return sentiment.New(cfg.Sentiment.TTL, cfg.Sentiment.DriftBucket)
}

// ProvideBacktestEngine creates the strategy simulation engine.
func ProvideBacktestEngine(log *logger.Logger) domsvc.BacktestEngine {
	return backtest.NewEngine(log)
}

// ProvideForecastModel creates the linear forecast model.
func ProvideForecastModel(log *logger.Logger) domsvc.ForecastModel {
	return forecast.NewEngine(log)
}

// ProvidePaperLedger creates the paper trading ledger.
func ProvidePaperLedger(bars repository.BarSource, balances repository.BalanceStore, log *logger.Logger, rec *metrics.Recorder) domsvc.PaperTradingLedger {
	return paper.NewLedger(bars, balances, log, rec)
}

// ProvideMarketUseCase wires market data retrieval.
func ProvideMarketUseCase(bars repository.BarSource, ind domsvc.IndicatorEngine) *usecase.MarketUseCase {
	return usecase.NewMarketUseCase(bars, ind)
}

// ProvideAnalysisUseCase wires the simulation engines.
func ProvideAnalysisUseCase(
	bars repository.BarSource,
	snt domsvc.SentimentProvider,
	bt domsvc.BacktestEngine,
	fc domsvc.ForecastModel,
) *usecase.AnalysisUseCase {
	return usecase.NewAnalysisUseCase(bars, snt, bt, fc)
}

// ProvideTradingUseCase wires paper trading.
func ProvideTradingUseCase(ledger domsvc.PaperTradingLedger) *usecase.TradingUseCase {
	return usecase.NewTradingUseCase(ledger)
}

// ProvideHandler builds the HTTP handler surface.
func ProvideHandler(
	log *logger.Logger,
	market *usecase.MarketUseCase,
	analyze *usecase.AnalysisUseCase,
	trading *usecase.TradingUseCase,
	payload icache.BytesCache,
) xhttp.Handler {
	return api.NewQuantHandler(log, market, analyze, trading, payload)
}

// ProvideApp assembles the application server.
func ProvideApp(cfg *config.Config, handler xhttp.Handler, c cache.Service) (*server.App, error) {
	return server.New(cfg, handler, c)
}
