package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"btcpulse/internal/aggregate"
	"btcpulse/internal/config"
	"btcpulse/internal/fallback"
	"btcpulse/internal/fetch"
	"btcpulse/internal/handler"
	"btcpulse/internal/job"
	"btcpulse/internal/metrics"
	"btcpulse/internal/mining"
	"btcpulse/internal/provider"
	"btcpulse/pkg/logging"
	"btcpulse/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "btcpulse/docs"
)

var (
	loadEnvFunc       = godotenv.Load
	loadConfigFunc    = config.Load
	initLoggingFunc   = logging.Init
	initTracerFunc    = tracing.Init
	loadTablesFunc    = fallback.Load
	newFetchTransport = func() http.RoundTripper { return nil }
	newSettingsStore  = func(path string) mining.SettingsStore {
		if path == "" {
			return mining.NewMemoryStore()
		}
		return mining.NewFileStore(path)
	}
	newRefreshPollerFunc   = job.NewRefreshPoller
	startPollerFunc        = func(p *job.RefreshPoller, ctx context.Context) { go p.Start(ctx) }
	newRouterFunc          = gin.New
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           btcpulse API
// @version         1.0
// @description     Bitcoin price history, cross-asset returns, inflation, mining economics, market and debt data with static fallbacks.

// @host      localhost:8080
// @BasePath  /
func main() {
	_ = loadEnvFunc()

	cfg := loadConfigFunc()
	if err := initLoggingFunc(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logging")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, tracing.Settings{Enabled: cfg.TracingEnabled, Endpoint: cfg.OTLPEndpoint})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer")
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("error shutting down tracer provider")
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.New(reg)

	tables, err := loadTablesFunc()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load fallback tables")
	}

	hub, miningSvc := buildHub(cfg, tracer, recorder, tables)

	poller := newRefreshPollerFunc(tracer, hub, cfg.RefreshInterval()).
		Every(aggregate.KindInflation, cfg.InflationWindow())
	startPollerFunc(poller, ctx)

	h := handler.New(tracer, hub, miningSvc)

	r := newRouterFunc()
	r.Use(gin.Recovery(), handler.RequestID(), otelgin.Middleware(tracing.ServiceName))

	h.RegisterRoutes(r, cfg.AdminAPIKey)
	r.GET("/metrics", handler.Metrics(reg))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info().Msg("shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exiting")
}

func buildHub(cfg *config.Config, tracer trace.Tracer, recorder *metrics.Recorder, tables *fallback.Tables) (*aggregate.Hub, *aggregate.MiningService) {
	client := fetch.NewClient(tracer, fetch.Options{
		RequestTimeout:  cfg.FetchRequestTimeout(),
		ResourceTimeout: cfg.FetchResourceTimeout(),
		Transport:       newFetchTransport(),
		Recorder:        recorder,
	})

	coingecko := provider.NewCoinGeckoProvider(client, tracer, cfg.CoinGeckoBaseURL)
	yahoo := provider.NewYahooProvider(client, tracer, cfg.YahooBaseURL)
	mempool := provider.NewMempoolProvider(client, tracer, cfg.MempoolBaseURL)
	binance := provider.NewBinanceProvider(client, tracer, cfg.BinanceBaseURL)
	fearGreed := provider.NewFearGreedProvider(client, tracer, cfg.FearGreedBaseURL)
	fiscal := provider.NewFiscalDataProvider(client, tracer, cfg.FiscalDataBaseURL)
	worldBank := provider.NewWorldBankProvider(client, tracer, cfg.WorldBankBaseURL)
	news := provider.NewCryptoCompareProvider(client, tracer, cfg.CryptoCompareBaseURL)

	feedURL := cfg.NewsFeedURL
	if feedURL == "" {
		feedURL = provider.DefaultNewsFeed
	}
	feed := aggregate.FeedHeadlines{RSS: provider.NewRSSProvider(client, tracer), URL: feedURL}
	reddit := provider.NewRedditProvider(client, tracer, cfg.RedditBaseURL, cfg.NewsSubreddit)

	opts := aggregate.Options{Tracer: tracer, Recorder: recorder, Tables: tables}
	miningSvc := aggregate.NewMiningService(mempool, coingecko, newSettingsStore(cfg.MiningSettingsPath), opts)

	hub := aggregate.NewHub(aggregate.Services{
		PriceHistory: aggregate.NewPriceHistoryService(coingecko, opts),
		Comparison:   aggregate.NewComparisonService(yahoo, nil, opts),
		Inflation: aggregate.NewInflationService(worldBank, aggregate.InflationOptions{
			Window:        cfg.InflationWindow(),
			DispatchDelay: cfg.InflationDispatchDelay(),
		}, opts),
		Mining: miningSvc,
		Market: aggregate.NewMarketService(aggregate.MarketSources{
			Charts:      yahoo,
			Positioning: binance,
			Sentiment:   fearGreed,
			News:        []aggregate.HeadlineSource{news, feed, reddit},
		}, nil, opts),
		Debt: aggregate.NewDebtService(fiscal, coingecko, opts),
	})
	return hub, miningSvc
}
