// Package gemini generates try-on images with the Gemini image model.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/imageref"
	"google.golang.org/genai"
)

const (
	DefaultModel = "gemini-2.5-flash-image"

	modalityImage = "IMAGE"
	roleUser      = "user"
)

// Instruction is sent after the person and garment images.
const Instruction = "Usando a primeira imagem da pessoa e a segunda imagem " +
	"da peça de roupa, gere uma imagem realista onde a pessoa está vestindo " +
	"a peça de roupa. O fundo deve ser simples e neutro. A imagem final deve " +
	"focar na pessoa e na roupa, mantendo as características da pessoa."

// Environment variables consulted when no key is configured.
var KeyEnvVars = []string{"API_KEY", "GEMINI_API_KEY"}

// Models is the subset of [genai.Models] the client calls.
type Models interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// ModelsFactory builds a [Models] bound to apiKey.
type ModelsFactory func(ctx context.Context, apiKey string) (Models, error)

var _ port.ImageGenerator = (*Client)(nil)

type Client struct {
	model     string
	key       func() string
	newModels ModelsFactory

	mu       sync.Mutex
	models   Models
	modelsOf string
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

type Opt func(*Client)

// ModelsFactoryOpt replaces the genai backed factory.
func ModelsFactoryOpt(f ModelsFactory) Opt {
	return func(c *Client) {
		c.newModels = f
	}
}

// KeySourceOpt replaces the configured key lookup.
func KeySourceOpt(f func() string) Opt {
	return func(c *Client) {
		c.key = f
	}
}

func New(cfg Config, opts ...Opt) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	c := &Client{
		model:     model,
		key:       keySource(cfg.APIKey),
		newModels: genaiModels(cfg.BaseURL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func keySource(configured string) func() string {
	return func() string {
		if configured != "" {
			return configured
		}
		for _, name := range KeyEnvVars {
			if v := strings.TrimSpace(os.Getenv(name)); v != "" {
				return v
			}
		}
		return ""
	}
}

func genaiModels(baseURL string) ModelsFactory {
	return func(ctx context.Context, apiKey string) (Models, error) {
		cc := &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		}
		if baseURL != "" {
			cc.HTTPOptions.BaseURL = baseURL
		}
		cl, err := genai.NewClient(ctx, cc)
		if err != nil {
			return nil, err
		}
		return cl.Models, nil
	}
}

// Configured reports [domain.ErrMissingCredential] when no API key is
// available.
func (c *Client) Configured() error {
	if c.key() == "" {
		return domain.ErrMissingCredential
	}
	return nil
}

// GenerateTryOnImage sends one request with the person image, the garment
// image and [Instruction] and returns the first inline image of the reply.
func (c *Client) GenerateTryOnImage(
	ctx context.Context, person, garment domain.Image,
) (domain.Image, error) {
	const op = "gemini.Client.GenerateTryOnImage"
	log := slog.With("op", op, "model", c.model)

	apiKey := c.key()
	if apiKey == "" {
		return domain.Image{}, fmt.Errorf("%s: %w", op, domain.ErrMissingCredential)
	}

	personPart, err := inlinePart(person)
	if err != nil {
		return domain.Image{}, fmt.Errorf("%s: person: %w", op, err)
	}
	garmentPart, err := inlinePart(garment)
	if err != nil {
		return domain.Image{}, fmt.Errorf("%s: garment: %w", op, err)
	}

	models, err := c.modelsFor(ctx, apiKey)
	if err != nil {
		return domain.Image{}, fmt.Errorf(
			"%s: %w: %w", op, domain.ErrGenerationFailed, err,
		)
	}

	contents := []*genai.Content{{
		Role:  roleUser,
		Parts: []*genai.Part{personPart, garmentPart, {Text: Instruction}},
	}}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{modalityImage},
	}

	resp, err := models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		log.Error("generate content request failed", "err", err)
		return domain.Image{}, fmt.Errorf(
			"%s: %w: %w", op, domain.ErrGenerationFailed, err,
		)
	}

	img, err := firstInlineImage(resp)
	if err != nil {
		log.Warn("response carries no image", "err", err)
		return domain.Image{}, fmt.Errorf("%s: %w", op, err)
	}
	return img, nil
}

func (c *Client) modelsFor(ctx context.Context, apiKey string) (Models, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.models != nil && c.modelsOf == apiKey {
		return c.models, nil
	}
	m, err := c.newModels(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	c.models, c.modelsOf = m, apiKey
	return m, nil
}

func inlinePart(img domain.Image) (*genai.Part, error) {
	b, err := imageref.Decode(img.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidImage, err)
	}
	mt := img.MIMEType
	if mt == "" {
		mt = domain.DefaultImageMIMEType
	}
	return &genai.Part{InlineData: &genai.Blob{Data: b, MIMEType: mt}}, nil
}

var errNoCandidates = errors.New("response has no candidates")

func firstInlineImage(resp *genai.GenerateContentResponse) (domain.Image, error) {
	if resp == nil || len(resp.Candidates) == 0 ||
		resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return domain.Image{}, fmt.Errorf(
			"%w: %w", domain.ErrNoImageGenerated, errNoCandidates,
		)
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		return domain.Image{
			Data:     imageref.Encode(part.InlineData.Data),
			MIMEType: resultMIME(part.InlineData),
		}, nil
	}
	return domain.Image{}, domain.ErrNoImageGenerated
}

func resultMIME(b *genai.Blob) string {
	if imageref.IsImageMIME(b.MIMEType) {
		return b.MIMEType
	}
	if mt := imageref.DetectMIME(b.Data); imageref.IsImageMIME(mt) {
		return mt
	}
	return domain.DefaultResultMIMEType
}
