package extract

import (
	"context"

	"github.com/coenradina/splitbill/internal/models"
)

// Stub is an Extractor that ignores the image entirely and always
// returns the sample item set. It never fails, which makes it the
// default for local development and tests.
type Stub struct{}

// NewStub creates a stub extractor.
func NewStub() *Stub {
	return &Stub{}
}

// Extract returns the fixed sample items regardless of input.
func (*Stub) Extract(_ context.Context, _ []byte, _ string) ([]models.LineItem, error) {
	return SampleItems(), nil
}

// Close is a no-op.
func (*Stub) Close() error {
	return nil
}
