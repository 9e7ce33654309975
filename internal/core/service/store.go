package service

import (
	"context"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// A Store is the process-wide state built once at startup and passed to the
// presentation layer explicitly.
type Store struct {
	Notifier *Notifier
	Catalog  *Catalog
	Session  *Session
	Settings *Settings
	TryOn    *TryOn
}

type StoreDeps struct {
	KV              port.KeyValueStore
	Bus             port.EventBus
	Fetcher         port.ImageFetcher
	Generator       port.ImageGenerator
	EventsProducer  port.CatalogEventsProducer
	NotificationTTL time.Duration
	SeedProducts    []domain.Product
}

func NewStore(ctx context.Context, deps StoreDeps) *Store {
	notifier := NewNotifier(deps.NotificationTTL, deps.Bus)

	var catalogOpts []CatalogOpt
	if deps.EventsProducer != nil {
		catalogOpts = append(
			catalogOpts, CatalogEventsProducerOpt(deps.EventsProducer),
		)
	}
	catalog := NewCatalog(notifier, deps.Bus, catalogOpts...)
	catalog.Seed(deps.SeedProducts)

	return &Store{
		Notifier: notifier,
		Catalog:  catalog,
		Session:  NewSession(ctx, deps.KV, notifier, deps.Bus),
		Settings: NewSettings(ctx, deps.KV, notifier, deps.Bus),
		TryOn:    NewTryOn(catalog, deps.Fetcher, deps.Generator),
	}
}
