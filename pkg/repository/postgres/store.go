package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/BrianJenney/brian-clone/pkg/domain/interfaces"
	"github.com/BrianJenney/brian-clone/pkg/domain/model"
	"github.com/BrianJenney/brian-clone/pkg/domain/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
)

// Store is the Postgres + pgvector semantic store. All three collections
// share one table partitioned by a collection column; similarity is cosine.
type Store struct {
	pool *pgxpool.Pool
}

var _ interfaces.SemanticStore = (*Store)(nil)

// New connects to Postgres and registers the pgvector codec on every
// connection. The schema must already exist (see the migrate command).
func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse postgres DSN")
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create postgres pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, goerr.Wrap(err, "failed to ping postgres")
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Search(ctx context.Context, collection types.Collection, vector []float32, limit int, filter model.SearchFilter) ([]model.ScoredPoint, error) {
	if !collection.IsValid() {
		return nil, goerr.New("invalid collection", goerr.V("collection", collection))
	}
	if len(vector) != model.EmbeddingDimension {
		return nil, goerr.New("vector dimension mismatch",
			goerr.V("got", len(vector)),
			goerr.V("want", model.EmbeddingDimension),
		)
	}
	if limit <= 0 {
		limit = 5
	}

	query := `
		SELECT id, embedding, payload, 1 - (embedding <=> $1) AS score
		FROM content_points
		WHERE collection = $2`
	args := []any{pgvector.NewVector(vector), collection.String()}

	if len(filter) > 0 {
		// Filter keys address payload fields; metadata keys nest one level down.
		filterJSON, err := json.Marshal(filterToPayloadMatch(filter))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to marshal search filter")
		}
		query += fmt.Sprintf(" AND payload @> $%d", len(args)+1)
		args = append(args, filterJSON)
	}

	query += fmt.Sprintf(" ORDER BY embedding <=> $1 LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to run vector search", goerr.V("collection", collection))
	}
	defer rows.Close()

	var results []model.ScoredPoint
	for rows.Next() {
		var (
			id          string
			embedding   pgvector.Vector
			payloadJSON []byte
			score       float64
		)
		if err := rows.Scan(&id, &embedding, &payloadJSON, &score); err != nil {
			return nil, goerr.Wrap(err, "failed to scan search row")
		}

		var payload model.Payload
		if err := json.Unmarshal(payloadJSON, &payload); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal point payload", goerr.V("id", id))
		}

		results = append(results, model.ScoredPoint{
			Point: model.Point{
				ID:      model.PointID(id),
				Vector:  embedding.Slice(),
				Payload: payload,
			},
			Score: score,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate search rows")
	}

	return results, nil
}

func (s *Store) Upsert(ctx context.Context, collection types.Collection, points []model.Point) error {
	if !collection.IsValid() {
		return goerr.New("invalid collection", goerr.V("collection", collection))
	}

	batch := &pgx.Batch{}
	for _, p := range points {
		if err := p.Validate(); err != nil {
			return goerr.Wrap(err, "invalid point", goerr.V("id", p.ID))
		}
		payloadJSON, err := json.Marshal(p.Payload)
		if err != nil {
			return goerr.Wrap(err, "failed to marshal point payload", goerr.V("id", p.ID))
		}
		batch.Queue(`
			INSERT INTO content_points (id, collection, embedding, payload)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE
			SET collection = EXCLUDED.collection,
			    embedding = EXCLUDED.embedding,
			    payload = EXCLUDED.payload`,
			string(p.ID), collection.String(), pgvector.NewVector(p.Vector), payloadJSON,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range points {
		if _, err := br.Exec(); err != nil {
			return goerr.Wrap(err, "failed to upsert points", goerr.V("collection", collection))
		}
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection types.Collection, ids []model.PointID) error {
	if !collection.IsValid() {
		return goerr.New("invalid collection", goerr.V("collection", collection))
	}
	if len(ids) == 0 {
		return nil
	}

	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = string(id)
	}

	_, err := s.pool.Exec(ctx,
		`DELETE FROM content_points WHERE collection = $1 AND id = ANY($2)`,
		collection.String(), idStrs,
	)
	if err != nil {
		return goerr.Wrap(err, "failed to delete points", goerr.V("collection", collection))
	}
	return nil
}

func (s *Store) Scroll(ctx context.Context, collection types.Collection, limit, offset int) (*model.ScrollPage, error) {
	if !collection.IsValid() {
		return nil, goerr.New("invalid collection", goerr.V("collection", collection))
	}
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	// Fetch one extra row to detect whether more pages remain
	rows, err := s.pool.Query(ctx, `
		SELECT id, embedding, payload
		FROM content_points
		WHERE collection = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3`,
		collection.String(), limit+1, offset,
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to scroll collection", goerr.V("collection", collection))
	}
	defer rows.Close()

	var points []model.Point
	for rows.Next() {
		var (
			id          string
			embedding   pgvector.Vector
			payloadJSON []byte
		)
		if err := rows.Scan(&id, &embedding, &payloadJSON); err != nil {
			return nil, goerr.Wrap(err, "failed to scan scroll row")
		}

		var payload model.Payload
		if err := json.Unmarshal(payloadJSON, &payload); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal point payload", goerr.V("id", id))
		}

		points = append(points, model.Point{
			ID:      model.PointID(id),
			Vector:  embedding.Slice(),
			Payload: payload,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate scroll rows")
	}

	hasMore := len(points) > limit
	if hasMore {
		points = points[:limit]
	}

	return &model.ScrollPage{
		Points:     points,
		NextOffset: offset + len(points),
		HasMore:    hasMore,
	}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// filterToPayloadMatch maps a SearchFilter to a JSONB containment document.
// contentType matches the top-level payload field; other keys match metadata.
func filterToPayloadMatch(filter model.SearchFilter) map[string]any {
	match := make(map[string]any, len(filter))
	metadata := make(map[string]any)
	for k, v := range filter {
		if k == "contentType" {
			match["contentType"] = v
			continue
		}
		metadata[k] = v
	}
	if len(metadata) > 0 {
		match["metadata"] = metadata
	}
	return match
}
