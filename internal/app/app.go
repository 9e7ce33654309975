// Package app wires adapters and core services into a running storefront.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/eventbus"
	"github.com/niksmo/storefront/internal/adapter/gemini"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/imagefetch"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/retry"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
	"gopkg.in/natefinch/lumberjack.v2"
)

const startupAttempts = 5

type App struct {
	ctx        context.Context
	cfg        config.Config
	logFile    io.Closer
	kv         port.KeyValueStore
	bus        *eventbus.Bus
	producer   *kafka.CatalogEventsProducer
	store      *service.Store
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStorage()
	app.initBroker()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	var w io.Writer = os.Stderr
	if path := app.cfg.Log.Path; path != "" {
		lj := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    app.cfg.Log.MaxSizeMB,
			MaxBackups: app.cfg.Log.MaxBackups,
			MaxAge:     app.cfg.Log.MaxAgeDays,
		}
		app.logFile = lj
		w = io.MultiWriter(os.Stderr, lj)
	}

	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(w, opts))
	slog.SetDefault(logger)
}

func startupPolicy(op string) retry.Policy {
	return retry.Policy{
		MaxAttempts: startupAttempts,
		Backoff:     retry.ExponentialBackoff(200 * time.Millisecond),
		OnRetry: func(attempt int, wait time.Duration, err error) {
			slog.Warn(
				"dependency unavailable, retrying",
				"op", op, "attempt", attempt, "wait", wait, "err", err,
			)
		},
	}
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	location := app.cfg.Storage.Path
	if app.cfg.Storage.Driver == storage.DriverPostgres {
		location = app.cfg.Storage.SQLDB
	}

	kv, err := retry.DoWithResult(app.ctx, startupPolicy(op),
		func() (port.KeyValueStore, error) {
			return storage.Open(app.ctx, app.cfg.Storage.Driver, location)
		},
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.kv = kv
}

func (app *App) initBroker() {
	const op = "App.initBroker"
	log := slog.With("op", op)

	bc := app.cfg.Broker
	if !bc.Enabled() {
		log.Info("no seed brokers, catalog events are not published")
		return
	}

	srClient, err := sr.NewClient(sr.URLs(bc.SchemaRegistryURLs...))
	if err != nil {
		app.fallDown(op, err)
	}

	serde, err := schema.NewSerdeCatalogEventV1(
		app.ctx,
		schema.SubjectOpt(schema.TopicSubject(bc.Topics.CatalogEvents)),
		schema.SchemaIdentifierOpt(schema.NewRegistryIdentifier(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	clientCfg := kafka.ClientConfig{
		SeedBrokers: bc.SeedBrokers,
		Topic:       bc.Topics.CatalogEvents,
	}
	if bc.TLS.Enabled {
		clientCfg.TLS, err = adapter.MakeTLSConfig(bc.TLS.CA, bc.TLS.Cert, bc.TLS.Key)
		if err != nil {
			app.fallDown(op, err)
		}
	}

	cl, err := retry.DoWithResult(app.ctx, startupPolicy(op),
		func() (kafka.ProducerClient, error) {
			cl, err := kafka.NewClient(app.ctx, clientCfg)
			if err != nil {
				return nil, err
			}
			return cl, nil
		},
	)
	if err != nil {
		app.fallDown(op, err)
	}

	producer, err := kafka.NewCatalogEventsProducer(
		kafka.ProducerClientOpt(cl),
		kafka.ProducerEncoderOpt(serde),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.producer = &producer
}

func (app *App) initCoreService() {
	app.bus = eventbus.New()

	var seed []domain.Product
	if app.cfg.Catalog.SeedDemo {
		seed = domain.DemoProducts()
	}

	deps := service.StoreDeps{
		KV:      app.kv,
		Bus:     app.bus,
		Fetcher: imagefetch.New(app.cfg.TryOn.FetchTimeout),
		Generator: gemini.New(gemini.Config{
			APIKey:  app.cfg.TryOn.APIKey,
			Model:   app.cfg.TryOn.Model,
			BaseURL: app.cfg.TryOn.BaseURL,
		}),
		NotificationTTL: app.cfg.Notification.TTL,
		SeedProducts:    seed,
	}
	if app.producer != nil {
		deps.EventsProducer = app.producer
	}

	app.store = service.NewStore(app.ctx, deps)
	app.store.Catalog.Subscribe(func(ev domain.Event) {
		slog.Debug(
			"catalog changed",
			"kind", ev.Kind, "product_id", ev.ProductID, "size", app.store.Catalog.Len(),
		)
	})
}

func (app *App) initInboundAdapters() {
	mux := http.NewServeMux()
	httphandler.Register(mux, app.store)

	handler := httphandler.AllowJSON(mux)
	app.httpServer = httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr, handler, app.cfg.HandlerTimeout,
	)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	slog.Info("application is running", "addr", app.cfg.HTTPServerAddr)
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.store.Notifier.Hide()
	app.bus.Wait()

	if app.producer != nil {
		if err := app.store.Catalog.Drain(ctx); err != nil {
			slog.Warn("catalog events left unproduced", "err", err)
		}
		app.producer.Close()
	}
	if err := app.kv.Close(); err != nil {
		slog.Error("failed to close storage", "err", err)
	}

	slog.Info("application is closed")

	if app.logFile != nil {
		_ = app.logFile.Close()
	}
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
