package interfaces

import (
	"context"

	"github.com/BrianJenney/brian-clone/pkg/domain/model"
)

// DocumentStore reads business-context and learning-resource documents.
// It is read-only from the core's perspective.
type DocumentStore interface {
	// Read returns the document registered under the given logical name
	Read(ctx context.Context, name string) (*model.Document, error)

	// Names lists the registered logical document names
	Names() []string
}
