package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/BrianJenney/brian-clone/pkg/domain/interfaces"
	"github.com/BrianJenney/brian-clone/pkg/domain/model"
	"github.com/BrianJenney/brian-clone/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Sentinel errors for the in-memory store
var (
	ErrInvalidCollection = goerr.New("invalid collection")
	ErrDimensionMismatch = goerr.New("vector dimension mismatch")
)

// Store is an in-memory semantic store for development and tests.
// Points are kept in insertion order per collection so Scroll is stable.
type Store struct {
	mu          sync.RWMutex
	collections map[types.Collection][]*model.Point
}

var _ interfaces.SemanticStore = (*Store)(nil)

// New creates an empty in-memory store with all fixed collections
func New() *Store {
	collections := make(map[types.Collection][]*model.Point, len(types.AllCollections()))
	for _, c := range types.AllCollections() {
		collections[c] = nil
	}
	return &Store{collections: collections}
}

func copyPoint(p *model.Point) *model.Point {
	copied := &model.Point{
		ID:      p.ID,
		Payload: p.Payload,
	}
	if p.Vector != nil {
		copied.Vector = make([]float32, len(p.Vector))
		copy(copied.Vector, p.Vector)
	}
	if p.Payload.Metadata != nil {
		copied.Payload.Metadata = make(map[string]string, len(p.Payload.Metadata))
		for k, v := range p.Payload.Metadata {
			copied.Payload.Metadata[k] = v
		}
	}
	return copied
}

func (s *Store) Search(ctx context.Context, collection types.Collection, vector []float32, limit int, filter model.SearchFilter) ([]model.ScoredPoint, error) {
	if !collection.IsValid() {
		return nil, goerr.Wrap(ErrInvalidCollection, "search", goerr.V("collection", collection))
	}
	if len(vector) != model.EmbeddingDimension {
		return nil, goerr.Wrap(ErrDimensionMismatch, "search",
			goerr.V("got", len(vector)),
			goerr.V("want", model.EmbeddingDimension),
		)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		point *model.Point
		score float64
	}

	var candidates []scored
	for _, p := range s.collections[collection] {
		if !matchesFilter(p, filter) {
			continue
		}
		candidates = append(candidates, scored{point: copyPoint(p), score: cosineSimilarity(vector, p.Vector)})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if limit > len(candidates) {
		limit = len(candidates)
	}
	results := make([]model.ScoredPoint, limit)
	for i := 0; i < limit; i++ {
		results[i] = model.ScoredPoint{Point: *candidates[i].point, Score: candidates[i].score}
	}
	return results, nil
}

func (s *Store) Upsert(ctx context.Context, collection types.Collection, points []model.Point) error {
	if !collection.IsValid() {
		return goerr.Wrap(ErrInvalidCollection, "upsert", goerr.V("collection", collection))
	}
	for _, p := range points {
		if err := p.Validate(); err != nil {
			return goerr.Wrap(err, "invalid point", goerr.V("id", p.ID))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range points {
		p := copyPoint(&points[i])
		replaced := false
		for j, existing := range s.collections[collection] {
			if existing.ID == p.ID {
				s.collections[collection][j] = p
				replaced = true
				break
			}
		}
		if !replaced {
			s.collections[collection] = append(s.collections[collection], p)
		}
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection types.Collection, ids []model.PointID) error {
	if !collection.IsValid() {
		return goerr.Wrap(ErrInvalidCollection, "delete", goerr.V("collection", collection))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[model.PointID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	kept := s.collections[collection][:0]
	for _, p := range s.collections[collection] {
		if !drop[p.ID] {
			kept = append(kept, p)
		}
	}
	s.collections[collection] = kept
	return nil
}

func (s *Store) Scroll(ctx context.Context, collection types.Collection, limit, offset int) (*model.ScrollPage, error) {
	if !collection.IsValid() {
		return nil, goerr.Wrap(ErrInvalidCollection, "scroll", goerr.V("collection", collection))
	}
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.collections[collection]
	if offset >= len(all) {
		return &model.ScrollPage{Points: []model.Point{}, NextOffset: offset, HasMore: false}, nil
	}

	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	points := make([]model.Point, 0, end-offset)
	for _, p := range all[offset:end] {
		points = append(points, *copyPoint(p))
	}

	return &model.ScrollPage{
		Points:     points,
		NextOffset: end,
		HasMore:    end < len(all),
	}, nil
}

func (s *Store) Close() error {
	return nil
}

func matchesFilter(p *model.Point, filter model.SearchFilter) bool {
	for k, want := range filter {
		if k == "contentType" {
			if p.Payload.ContentType != want {
				return false
			}
			continue
		}
		if got, ok := p.Payload.Metadata[k]; !ok || got != want {
			return false
		}
	}
	return true
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}
