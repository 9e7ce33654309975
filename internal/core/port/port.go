package port

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
)

type closer interface {
	Close() error
}

// A KeyValueStore is the durable string store behind settings and credentials.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	closer
}

// An ImageGenerator reports missing configuration through Configured
// without touching the network.
type ImageGenerator interface {
	Configured() error
	GenerateTryOnImage(
		ctx context.Context, person, garment domain.Image,
	) (domain.Image, error)
}

type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) (domain.Image, error)
}

type EventBus interface {
	Publish(topic string, payload any)
	Subscribe(topic string, fn func(payload any)) (unsubscribe func())
}

type CatalogEventsProducer interface {
	ProduceEvent(context.Context, domain.Event) error
}

type NotificationShower interface {
	Show(message string, severity domain.Severity)
}

type ProductIDGenerator interface {
	NewProductID() string
}

type ProductFinder interface {
	Product(id string) (domain.Product, bool)
}
