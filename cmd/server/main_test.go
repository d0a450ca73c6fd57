package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"btcpulse/internal/aggregate"
	"btcpulse/internal/config"
	"btcpulse/internal/domain"
	"btcpulse/internal/fallback"
	"btcpulse/internal/job"
	"btcpulse/pkg/tracing"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps()
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestBuildHubFallsBackWhenOffline(t *testing.T) {
	orig := newFetchTransport
	defer func() { newFetchTransport = orig }()
	newFetchTransport = func() http.RoundTripper {
		return roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("network unreachable")
		})
	}

	tables, err := fallback.Load()
	if err != nil {
		t.Fatalf("load tables: %v", err)
	}
	tracer := trace.NewNoopTracerProvider().Tracer("test")
	hub, miningSvc := buildHub(&config.Config{}, tracer, nil, tables)
	if miningSvc == nil {
		t.Fatal("expected mining service")
	}
	if got := len(hub.Kinds()); got != 6 {
		t.Fatalf("expected 6 kinds, got %d", got)
	}

	if err := hub.RefreshKind(context.Background(), aggregate.KindComparison, false); err != nil {
		t.Fatalf("refresh comparison: %v", err)
	}
	snap, ok := hub.Comparison.Snapshot()
	if !ok || snap.Source != domain.SourceFallback {
		t.Fatalf("expected fallback comparison, got %+v", snap.Meta)
	}
	if len(snap.Assets) != len(aggregate.DefaultAssets) {
		t.Fatalf("expected %d assets, got %d", len(aggregate.DefaultAssets), len(snap.Assets))
	}
}

func stubServerDeps() func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitLogging := initLoggingFunc
	origInitTracer := initTracerFunc
	origStartPoller := startPollerFunc
	origNewRouter := newRouterFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{HTTPAddr: ":0", LogLevel: "error", LogFormat: "json", RefreshPollSecs: 1}
	}
	initLoggingFunc = func(string, string) error { return nil }
	initTracerFunc = func(ctx context.Context, _ tracing.Settings) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	startPollerFunc = func(*job.RefreshPoller, context.Context) {}
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine { return gin.New() }
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
	startHTTPServerFunc = func(*http.Server) error { return http.ErrServerClosed }
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initLoggingFunc = origInitLogging
		initTracerFunc = origInitTracer
		startPollerFunc = origStartPoller
		newRouterFunc = origNewRouter
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
	}
}
