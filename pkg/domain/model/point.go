package model

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// EmbeddingDimension is the dimension of every vector in the semantic store.
// It must match at write and query time across the whole system.
const EmbeddingDimension = 512

// PointID is a UUID-based identifier for a semantic store record
type PointID string

// NewPointID generates a new UUID v7 PointID
func NewPointID() PointID {
	return PointID(uuid.Must(uuid.NewV7()).String())
}

// Payload is the content stored alongside a vector. A logical document larger
// than the chunking threshold is split across multiple points sharing a BaseID.
type Payload struct {
	Text        string            `json:"text"`
	ContentType string            `json:"contentType"`
	BaseID      string            `json:"baseId"`
	ChunkIndex  int               `json:"chunkIndex"`
	TotalChunks int               `json:"totalChunks"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Point is one vector record of a semantic store collection
type Point struct {
	ID      PointID
	Vector  []float32
	Payload Payload
}

// Validate checks the point carries a correctly sized vector and chunk metadata
func (p Point) Validate() error {
	if p.ID == "" {
		return goerr.New("point ID cannot be empty")
	}
	if len(p.Vector) != EmbeddingDimension {
		return goerr.New("vector dimension mismatch",
			goerr.V("got", len(p.Vector)),
			goerr.V("want", EmbeddingDimension),
		)
	}
	if p.Payload.TotalChunks < 1 {
		return goerr.New("totalChunks must be at least 1", goerr.V("totalChunks", p.Payload.TotalChunks))
	}
	if p.Payload.ChunkIndex < 0 || p.Payload.ChunkIndex >= p.Payload.TotalChunks {
		return goerr.New("chunkIndex out of range",
			goerr.V("chunkIndex", p.Payload.ChunkIndex),
			goerr.V("totalChunks", p.Payload.TotalChunks),
		)
	}
	return nil
}

// ScoredPoint is a search hit with its similarity score
type ScoredPoint struct {
	Point Point
	Score float64
}

// SearchFilter narrows a semantic search to points whose payload matches all
// of the given metadata key/values. A nil filter matches everything.
type SearchFilter map[string]string

// ScrollPage is one page of a collection scan
type ScrollPage struct {
	Points     []Point
	NextOffset int
	HasMore    bool
}
