// Package imageref converts image payloads between raw bytes, base64 text and
// displayable references.
//
// A reference is either a resource locator (http or https URL), a data URI or a
// raw base64 payload without any prefix.
package imageref

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const DefaultMIMEType = "image/jpeg"

const (
	dataURIPrefix      = "data:"
	imageDataURIPrefix = "data:image"
	base64Marker       = ";base64,"
)

var ErrNotDataURI = errors.New("reference is not a base64 data URI")

func Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func Decode(payload string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// IsLocator reports whether ref points to image bytes held elsewhere.
func IsLocator(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://")
}

func IsDataURI(ref string) bool {
	return strings.HasPrefix(ref, dataURIPrefix)
}

// URL returns a reference a browser can display: locators and image data URIs
// pass through, a raw payload is tagged with [DefaultMIMEType].
func URL(ref string) string {
	if strings.HasPrefix(ref, imageDataURIPrefix) || IsLocator(ref) {
		return ref
	}
	return DataURI(DefaultMIMEType, ref)
}

func DataURI(mimeType, payload string) string {
	if mimeType == "" {
		mimeType = DefaultMIMEType
	}
	return dataURIPrefix + mimeType + base64Marker + payload
}

// Split separates a base64 data URI into its payload and media type.
func Split(ref string) (payload, mimeType string, err error) {
	if !IsDataURI(ref) {
		return "", "", ErrNotDataURI
	}
	header, payload, ok := strings.Cut(ref[len(dataURIPrefix):], ",")
	if !ok {
		return "", "", ErrNotDataURI
	}
	mimeType, ok = strings.CutSuffix(header, ";base64")
	if !ok {
		return "", "", ErrNotDataURI
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return payload, mimeType, nil
}

// Strip drops a data URI header and returns the stored form of a reference.
// Locators and raw payloads are returned unchanged.
func Strip(ref string) string {
	if !IsDataURI(ref) {
		return ref
	}
	_, payload, ok := strings.Cut(ref, ",")
	if !ok || payload == "" {
		return ref
	}
	return payload
}

// DetectMIME sniffs the media type of b. Parameters are dropped.
func DetectMIME(b []byte) string {
	mt := mimetype.Detect(b).String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.TrimSpace(mt)
}

// IsImageMIME reports whether mt names an image media type.
func IsImageMIME(mt string) bool {
	return strings.HasPrefix(mt, "image/")
}
