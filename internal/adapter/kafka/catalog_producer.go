package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/imageref"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.CatalogEventsProducer = (*CatalogEventsProducer)(nil)

// A CatalogEventsProducer writes catalog mutations keyed by product ID, so
// events of one product stay ordered within a partition.
type CatalogEventsProducer struct {
	cl      ProducerClient
	encoder Encoder
}

func NewCatalogEventsProducer(
	opts ...ProducerOpt,
) (CatalogEventsProducer, error) {
	const op = "NewCatalogEventsProducer"

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return CatalogEventsProducer{}, fmt.Errorf("%s: %w", op, err)
		}
	}
	if options.cl == nil || options.encoder == nil {
		return CatalogEventsProducer{}, fmt.Errorf("%s: %w", op, ErrTooFewOpts)
	}
	return CatalogEventsProducer{options.cl, options.encoder}, nil
}

func (p CatalogEventsProducer) Close() {
	const op = "CatalogEventsProducer.Close"
	log := slog.With("op", op)
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p CatalogEventsProducer) ProduceEvent(
	ctx context.Context, ev domain.Event,
) error {
	const op = "CatalogEventsProducer.ProduceEvent"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	v, err := p.encoder.Encode(p.toSchema(ev))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	r := &kgo.Record{Key: []byte(ev.ProductID), Value: v}
	if err := p.cl.ProduceSync(ctx, r).FirstErr(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (CatalogEventsProducer) toSchema(ev domain.Event) schema.CatalogEventV1 {
	s := schema.CatalogEventV1{
		Kind:       string(ev.Kind),
		ProductID:  ev.ProductID,
		OccurredAt: ev.At.UTC(),
	}
	if ev.Product != nil {
		s.Product = &schema.ProductV1{
			ID:          ev.Product.ID,
			Name:        ev.Product.Name,
			Price:       ev.Product.Price,
			Description: ev.Product.Description,
			Images:      locators(ev.Product.Images),
		}
	}
	return s
}

// locators keeps only URL references. Inline payloads stay out of records.
func locators(images []string) []string {
	refs := make([]string, 0, len(images))
	for _, ref := range images {
		if imageref.IsLocator(ref) {
			refs = append(refs, ref)
		}
	}
	return refs
}
