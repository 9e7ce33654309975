package domain

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

type (
	Product struct {
		ID          string
		Name        string
		Price       float64
		Description string
		Images      []string
	}

	// A ProductDraft is a [Product] field set without identity.
	ProductDraft struct {
		Name        string
		Price       float64
		Description string
		Images      []string
	}
)

var (
	ErrEmptyName       = errors.New("product name is empty")
	ErrInvalidPrice    = errors.New("product price must be a non-negative number")
	ErrProductNotFound = errors.New("product not found")
)

// Validate reports the first field that a form must reject before the draft
// reaches the catalog.
func (d ProductDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if d.Price < 0 || math.IsNaN(d.Price) || math.IsInf(d.Price, 0) {
		return ErrInvalidPrice
	}
	return nil
}

func (d ProductDraft) WithID(id string) Product {
	return Product{
		ID:          id,
		Name:        d.Name,
		Price:       d.Price,
		Description: d.Description,
		Images:      slices.Clone(d.Images),
	}
}

func (p Product) Draft() ProductDraft {
	return ProductDraft{
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Images:      slices.Clone(p.Images),
	}
}

// Clone returns a copy that shares no memory with p.
func (p Product) Clone() Product {
	p.Images = slices.Clone(p.Images)
	return p
}

// FirstImage returns the reference used as the product's cover and try-on garment.
func (p Product) FirstImage() (string, bool) {
	if len(p.Images) == 0 || p.Images[0] == "" {
		return "", false
	}
	return p.Images[0], true
}

// FormatPrice renders an amount with two-decimal currency semantics.
func FormatPrice(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
