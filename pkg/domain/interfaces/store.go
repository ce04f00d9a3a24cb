package interfaces

import (
	"context"

	"github.com/BrianJenney/brian-clone/pkg/domain/model"
	"github.com/BrianJenney/brian-clone/pkg/domain/types"
)

// SemanticStore is the adapter over the vector database. Collections are the
// three fixed content partitions; vectors are model.EmbeddingDimension wide at
// write and query time.
type SemanticStore interface {
	// Search returns up to limit points most similar to vector, optionally
	// narrowed by a payload metadata filter, ordered by descending score
	Search(ctx context.Context, collection types.Collection, vector []float32, limit int, filter model.SearchFilter) ([]model.ScoredPoint, error)

	// Upsert inserts or replaces the given points
	Upsert(ctx context.Context, collection types.Collection, points []model.Point) error

	// Delete removes the points with the given IDs
	Delete(ctx context.Context, collection types.Collection, ids []model.PointID) error

	// Scroll pages through a collection in insertion order
	Scroll(ctx context.Context, collection types.Collection, limit, offset int) (*model.ScrollPage, error)

	// Close releases the underlying connections
	Close() error
}
