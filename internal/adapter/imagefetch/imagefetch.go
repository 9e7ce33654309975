// Package imagefetch downloads garment images referenced by URL.
package imagefetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/imageref"
)

const (
	DefaultTimeout = 15 * time.Second
	maxImageBytes  = 20 << 20
)

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrTooLarge         = errors.New("image exceeds size limit")
	ErrEmptyBody        = errors.New("empty response body")
)

var _ port.ImageFetcher = (*Fetcher)(nil)

type Fetcher struct {
	cl *http.Client
}

func New(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{&http.Client{Timeout: timeout}}
}

// NewWithClient is used to share a transport, e.g. in tests.
func NewWithClient(cl *http.Client) *Fetcher {
	return &Fetcher{cl}
}

// FetchImage returns the body of url base64 encoded. The media type comes
// from Content-Type and is sniffed when the header is absent or generic.
func (f *Fetcher) FetchImage(ctx context.Context, url string) (domain.Image, error) {
	const op = "Fetcher.FetchImage"
	log := slog.With("op", op, "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Image{}, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := f.cl.Do(req)
	if err != nil {
		return domain.Image{}, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("garment image not fetched", "status", resp.StatusCode)
		return domain.Image{}, fmt.Errorf(
			"%s: %w: %s", op, ErrUnexpectedStatus, resp.Status,
		)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return domain.Image{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(b) > maxImageBytes {
		return domain.Image{}, fmt.Errorf("%s: %w", op, ErrTooLarge)
	}
	if len(b) == 0 {
		return domain.Image{}, fmt.Errorf("%s: %w", op, ErrEmptyBody)
	}

	mt := contentType(resp.Header.Get("Content-Type"), b)
	log.Debug("garment image fetched", "bytes", len(b), "mime_type", mt)
	return domain.Image{Data: imageref.Encode(b), MIMEType: mt}, nil
}

func contentType(header string, body []byte) string {
	mt, _, err := mime.ParseMediaType(header)
	if err == nil && imageref.IsImageMIME(mt) {
		return mt
	}
	if sniffed := imageref.DetectMIME(body); imageref.IsImageMIME(sniffed) {
		return sniffed
	}
	return domain.DefaultImageMIMEType
}
