package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/imageref"
)

// TryOn composes a person photo with a product garment through the image
// generator. It never touches catalog, session or settings state.
type TryOn struct {
	products  port.ProductFinder
	fetcher   port.ImageFetcher
	generator port.ImageGenerator
}

func NewTryOn(
	products port.ProductFinder,
	fetcher port.ImageFetcher,
	generator port.ImageGenerator,
) *TryOn {
	return &TryOn{products, fetcher, generator}
}

// Generate runs the whole pipeline in the caller goroutine.
func (s *TryOn) Generate(
	ctx context.Context, productID string, person domain.Image,
) (domain.Image, error) {
	const op = "TryOn.Generate"
	log := slog.With("op", op, "product_id", productID)

	if err := s.generator.Configured(); err != nil {
		return domain.Image{}, fmt.Errorf("%s: %w", op, err)
	}

	person, err := NormalizePerson(person)
	if err != nil {
		return domain.Image{}, fmt.Errorf("%s: %w", op, err)
	}

	p, ok := s.products.Product(productID)
	if !ok {
		return domain.Image{}, fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
	}

	ref, ok := p.FirstImage()
	if !ok {
		return domain.Image{}, fmt.Errorf("%s: %w", op, domain.ErrNoGarmentImage)
	}

	garment, err := s.ResolveGarment(ctx, ref)
	if err != nil {
		return domain.Image{}, fmt.Errorf("%s: %w", op, err)
	}

	start := time.Now()
	img, err := s.generator.GenerateTryOnImage(ctx, person, garment)
	if err != nil {
		log.Error("try-on failed", "err", err, "elapsed", time.Since(start))
		return domain.Image{}, fmt.Errorf("%s: %w", op, err)
	}
	if img.Data == "" {
		log.Error("try-on returned an empty image", "elapsed", time.Since(start))
		return domain.Image{}, fmt.Errorf("%s: %w", op, domain.ErrNoImageGenerated)
	}

	log.Info("try-on generated", "mime_type", img.MIMEType, "elapsed", time.Since(start))
	return img, nil
}

// ResolveGarment turns a stored image reference into an encoded payload:
// locators are downloaded, data URIs are split and raw payloads are tagged
// with the default media type.
func (s *TryOn) ResolveGarment(
	ctx context.Context, ref string,
) (domain.Image, error) {
	const op = "TryOn.ResolveGarment"

	switch {
	case imageref.IsLocator(ref):
		img, err := s.fetcher.FetchImage(ctx, ref)
		if err != nil {
			return domain.Image{}, fmt.Errorf(
				"%s: %w: %w", op, domain.ErrGarmentUnavailable, err,
			)
		}
		return img, nil

	case imageref.IsDataURI(ref):
		payload, mt, err := imageref.Split(ref)
		if err != nil {
			return domain.Image{}, fmt.Errorf(
				"%s: %w: %w", op, domain.ErrInvalidImage, err,
			)
		}
		return domain.Image{Data: payload, MIMEType: defaultMIME(mt)}, nil

	default:
		return domain.Image{Data: ref, MIMEType: domain.DefaultImageMIMEType}, nil
	}
}

// NormalizePerson accepts an uploaded photo as a raw payload or a data URI.
func NormalizePerson(img domain.Image) (domain.Image, error) {
	if img.Data == "" {
		return domain.Image{}, domain.ErrNoPersonImage
	}
	if imageref.IsDataURI(img.Data) {
		payload, mt, err := imageref.Split(img.Data)
		if err != nil {
			return domain.Image{}, fmt.Errorf("%w: %w", domain.ErrInvalidImage, err)
		}
		if img.MIMEType == "" {
			img.MIMEType = mt
		}
		img.Data = payload
	}
	img.MIMEType = defaultMIME(img.MIMEType)
	return img, nil
}

func defaultMIME(mt string) string {
	if mt == "" {
		return domain.DefaultImageMIMEType
	}
	return mt
}

// Start runs Generate as an independent task. The task is detached from
// ctx cancellation: once issued, a request runs to completion or failure.
func (s *TryOn) Start(
	ctx context.Context, productID string, person domain.Image,
) *TryOnTask {
	t := &TryOnTask{
		ID:        uuid.NewString(),
		ProductID: productID,
		StartedAt: time.Now(),
		done:      make(chan struct{}),
	}

	ctx = context.WithoutCancel(ctx)
	go func() {
		img, err := s.Generate(ctx, productID, person)
		t.finish(img, err)
	}()
	return t
}

// A TryOnTask is the pending result of one try-on request.
type TryOnTask struct {
	ID        string
	ProductID string
	StartedAt time.Time

	done   chan struct{}
	once   sync.Once
	result domain.Image
	err    error
}

func (t *TryOnTask) finish(img domain.Image, err error) {
	t.once.Do(func() {
		t.result, t.err = img, err
		close(t.done)
	})
}

func (t *TryOnTask) Done() <-chan struct{} {
	return t.done
}

func (t *TryOnTask) Pending() bool {
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// Wait blocks until the task finishes or ctx is done. Abandoning the wait
// does not cancel the task.
func (t *TryOnTask) Wait(ctx context.Context) (domain.Image, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return domain.Image{}, ctx.Err()
	}
}

// Result returns the terminal values, zero values while the task is pending.
func (t *TryOnTask) Result() (domain.Image, error) {
	if t.Pending() {
		return domain.Image{}, nil
	}
	return t.result, t.err
}

func (t *TryOnTask) Outcome() domain.TryOnOutcome {
	if t.Pending() {
		return domain.OutcomePending
	}
	switch {
	case domain.IsConfigError(t.err):
		return domain.OutcomeConfigError
	case t.err != nil, t.result.Data == "":
		return domain.OutcomeFailed
	default:
		return domain.OutcomeSucceeded
	}
}

// ErrTaskPending is returned by callers that refuse to start a second
// request while one is outstanding.
var ErrTaskPending = errors.New("a try-on request is already in progress")
