package domain

import "errors"

const (
	DefaultImageMIMEType  = "image/jpeg"
	DefaultResultMIMEType = "image/png"
)

// An Image is a base64 encoded payload tagged with its media type.
type Image struct {
	Data     string
	MIMEType string
}

var (
	ErrMissingCredential  = errors.New("image generation credential is not set")
	ErrGenerationFailed   = errors.New("image generation request failed")
	ErrNoImageGenerated   = errors.New("no image was generated")
	ErrInvalidImage       = errors.New("image payload is not valid base64")
	ErrGarmentUnavailable = errors.New("garment image could not be fetched")
	ErrNoGarmentImage     = errors.New("product has no garment image")
	ErrNoPersonImage      = errors.New("person image is empty")
)

// IsConfigError reports whether err is fatal for the try-on operation and
// must not be offered for a retry.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrMissingCredential)
}

type TryOnOutcome string

const (
	OutcomePending     TryOnOutcome = "pending"
	OutcomeSucceeded   TryOnOutcome = "succeeded"
	OutcomeFailed      TryOnOutcome = "failed"
	OutcomeConfigError TryOnOutcome = "config_error"
)
