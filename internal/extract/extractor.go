// Package extract turns bill images into ordered line items.
package extract

import (
	"context"
	"errors"

	"github.com/coenradina/splitbill/internal/models"
)

// ErrExtraction marks failures to read line items out of an uploaded
// image. It is user-correctable: the orchestrator re-prompts for a
// clearer photo rather than failing the request outright.
var ErrExtraction = errors.New("bill extraction failed")

// Extractor reads line items out of a bill image.
//
// Extract must not fail on absent or empty image bytes: implementations
// fall back to SampleItems so the workflow stays usable without an
// upload. A real extractor is expected to wrap ErrExtraction when the
// image is present but unreadable.
type Extractor interface {
	Extract(ctx context.Context, image []byte, contentType string) ([]models.LineItem, error)

	// Close releases any resources held by the extractor.
	Close() error
}

// SampleItems returns the fixed deterministic item set used when no
// image is supplied (and by the stub extractor unconditionally).
func SampleItems() []models.LineItem {
	return []models.LineItem{
		{Name: "Burger", Quantity: 2, UnitPrice: 5.0},
		{Name: "Fries", Quantity: 1, UnitPrice: 3.0},
		{Name: "Soda", Quantity: 3, UnitPrice: 2.0},
	}
}
