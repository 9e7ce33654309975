package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var person = domain.Image{Data: "cGVyc29u", MIMEType: "image/png"}

func catalogWith(images ...string) (*service.Catalog, domain.Product) {
	c := service.NewCatalog(new(recordingNotifier), nil)
	p := c.Add(domain.ProductDraft{Name: "garment", Price: 1, Images: images})
	return c, p
}

func TestTryOnGenerate(t *testing.T) {
	t.Run("RawPayloadGarment", func(t *testing.T) {
		c, p := catalogWith("Z2FybWVudA==")
		gen := new(MockImageGenerator)
		want := domain.Image{Data: "cmVzdWx0", MIMEType: "image/png"}
		gen.On("GenerateTryOnImage", mock.Anything, person,
			domain.Image{Data: "Z2FybWVudA==", MIMEType: "image/jpeg"},
		).Return(want, nil)

		s := service.NewTryOn(c, new(MockImageFetcher), gen)
		got, err := s.Generate(t.Context(), p.ID, person)

		require.NoError(t, err)
		assert.Equal(t, want, got)
		gen.AssertExpectations(t)
	})

	t.Run("LocatorGarmentIsFetched", func(t *testing.T) {
		const url = "https://picsum.photos/id/1015/800/1200"
		c, p := catalogWith(url)
		fetched := domain.Image{Data: "ZmV0Y2hlZA==", MIMEType: "image/webp"}

		fetcher := new(MockImageFetcher)
		fetcher.On("FetchImage", mock.Anything, url).Return(fetched, nil)
		gen := new(MockImageGenerator)
		gen.On("GenerateTryOnImage", mock.Anything, person, fetched).
			Return(domain.Image{Data: "cmVzdWx0", MIMEType: "image/png"}, nil)

		s := service.NewTryOn(c, fetcher, gen)
		_, err := s.Generate(t.Context(), p.ID, person)

		require.NoError(t, err)
		fetcher.AssertExpectations(t)
		gen.AssertExpectations(t)
	})

	t.Run("DataURIGarmentAndPerson", func(t *testing.T) {
		c, p := catalogWith("data:image/webp;base64,Z2FybWVudA==")
		gen := new(MockImageGenerator)
		gen.On("GenerateTryOnImage", mock.Anything,
			domain.Image{Data: "cGVyc29u", MIMEType: "image/gif"},
			domain.Image{Data: "Z2FybWVudA==", MIMEType: "image/webp"},
		).Return(domain.Image{Data: "cmVzdWx0", MIMEType: "image/png"}, nil)

		s := service.NewTryOn(c, new(MockImageFetcher), gen)
		_, err := s.Generate(t.Context(), p.ID,
			domain.Image{Data: "data:image/gif;base64,cGVyc29u"},
		)

		require.NoError(t, err)
		gen.AssertExpectations(t)
	})

	t.Run("FetchFailure", func(t *testing.T) {
		c, p := catalogWith("https://example.com/missing.jpg")
		fetcher := new(MockImageFetcher)
		fetcher.On("FetchImage", mock.Anything, mock.Anything).
			Return(domain.Image{}, errors.New("404"))
		gen := new(MockImageGenerator)

		s := service.NewTryOn(c, fetcher, gen)
		_, err := s.Generate(t.Context(), p.ID, person)

		assert.ErrorIs(t, err, domain.ErrGarmentUnavailable)
		gen.AssertNotCalled(t, "GenerateTryOnImage")
	})

	t.Run("MissingCredentialBeforeFetch", func(t *testing.T) {
		c, p := catalogWith("https://example.com/garment.jpg")
		fetcher := new(MockImageFetcher)
		gen := &MockImageGenerator{configErr: domain.ErrMissingCredential}

		s := service.NewTryOn(c, fetcher, gen)
		_, err := s.Generate(t.Context(), p.ID, domain.Image{})

		assert.ErrorIs(t, err, domain.ErrMissingCredential)
		assert.True(t, domain.IsConfigError(err))
		fetcher.AssertNotCalled(t, "FetchImage", mock.Anything, mock.Anything)
		gen.AssertNotCalled(t, "GenerateTryOnImage",
			mock.Anything, mock.Anything, mock.Anything)

		task := s.Start(t.Context(), p.ID, person)
		_, err = task.Wait(t.Context())
		assert.ErrorIs(t, err, domain.ErrMissingCredential)
		assert.Equal(t, domain.OutcomeConfigError, task.Outcome())
	})

	t.Run("PreconditionFailures", func(t *testing.T) {
		c, p := catalogWith()
		gen := new(MockImageGenerator)
		s := service.NewTryOn(c, new(MockImageFetcher), gen)

		_, err := s.Generate(t.Context(), p.ID, person)
		assert.ErrorIs(t, err, domain.ErrNoGarmentImage)

		_, err = s.Generate(t.Context(), "missing", person)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)

		_, err = s.Generate(t.Context(), p.ID, domain.Image{})
		assert.ErrorIs(t, err, domain.ErrNoPersonImage)

		gen.AssertNotCalled(t, "GenerateTryOnImage")
	})

	t.Run("GeneratorErrorsAreDistinct", func(t *testing.T) {
		for _, want := range []error{
			domain.ErrMissingCredential,
			domain.ErrGenerationFailed,
			domain.ErrNoImageGenerated,
		} {
			c, p := catalogWith("Z2FybWVudA==")
			gen := new(MockImageGenerator)
			gen.On("GenerateTryOnImage", mock.Anything, mock.Anything, mock.Anything).
				Return(domain.Image{}, want)

			s := service.NewTryOn(c, new(MockImageFetcher), gen)
			_, err := s.Generate(t.Context(), p.ID, person)
			assert.ErrorIs(t, err, want)
		}
	})

	t.Run("EmptyResultIsNoImage", func(t *testing.T) {
		c, p := catalogWith("Z2FybWVudA==")
		gen := new(MockImageGenerator)
		gen.On("GenerateTryOnImage", mock.Anything, mock.Anything, mock.Anything).
			Return(domain.Image{}, nil)

		s := service.NewTryOn(c, new(MockImageFetcher), gen)
		_, err := s.Generate(t.Context(), p.ID, person)
		assert.ErrorIs(t, err, domain.ErrNoImageGenerated)
	})
}

func TestTryOnTask(t *testing.T) {
	t.Run("PendingThenSucceeded", func(t *testing.T) {
		c, p := catalogWith("Z2FybWVudA==")
		release := make(chan struct{})
		want := domain.Image{Data: "cmVzdWx0", MIMEType: "image/png"}
		gen := new(MockImageGenerator)
		gen.On("GenerateTryOnImage", mock.Anything, mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { <-release }).
			Return(want, nil)

		s := service.NewTryOn(c, new(MockImageFetcher), gen)
		task := s.Start(t.Context(), p.ID, person)

		assert.NotEmpty(t, task.ID)
		assert.True(t, task.Pending())
		assert.Equal(t, domain.OutcomePending, task.Outcome())

		close(release)
		got, err := task.Wait(t.Context())
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.False(t, task.Pending())
		assert.Equal(t, domain.OutcomeSucceeded, task.Outcome())
	})

	t.Run("ConfigError", func(t *testing.T) {
		c, p := catalogWith("Z2FybWVudA==")
		gen := new(MockImageGenerator)
		gen.On("GenerateTryOnImage", mock.Anything, mock.Anything, mock.Anything).
			Return(domain.Image{}, domain.ErrMissingCredential)

		task := service.NewTryOn(c, new(MockImageFetcher), gen).
			Start(t.Context(), p.ID, person)

		select {
		case <-task.Done():
		case <-time.After(time.Second):
			t.Fatal("task did not finish")
		}
		_, err := task.Result()
		assert.ErrorIs(t, err, domain.ErrMissingCredential)
		assert.Equal(t, domain.OutcomeConfigError, task.Outcome())
	})

	t.Run("RecoverableFailure", func(t *testing.T) {
		c, p := catalogWith("Z2FybWVudA==")
		gen := new(MockImageGenerator)
		gen.On("GenerateTryOnImage", mock.Anything, mock.Anything, mock.Anything).
			Return(domain.Image{}, domain.ErrNoImageGenerated)

		task := service.NewTryOn(c, new(MockImageFetcher), gen).
			Start(t.Context(), p.ID, person)

		_, err := task.Wait(t.Context())
		assert.ErrorIs(t, err, domain.ErrNoImageGenerated)
		assert.Equal(t, domain.OutcomeFailed, task.Outcome())
	})
}
