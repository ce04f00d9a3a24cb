package tool

import (
	"context"
	"fmt"

	"github.com/BrianJenney/brian-clone/pkg/domain/interfaces"
	"github.com/BrianJenney/brian-clone/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

const defaultSearchLimit = 5

// writingSamplesTool searches the user's past writing by vector similarity
type writingSamplesTool struct {
	gateway interfaces.Gateway
	store   interfaces.SemanticStore
}

// NewWritingSamples builds the writing-sample search tool
func NewWritingSamples(gateway interfaces.Gateway, store interfaces.SemanticStore) gollem.Tool {
	return &writingSamplesTool{gateway: gateway, store: store}
}

func (t *writingSamplesTool) Spec() gollem.ToolSpec {
	collections := make([]string, 0, len(types.AllCollections()))
	for _, c := range types.AllCollections() {
		collections = append(collections, c.String())
	}

	return gollem.ToolSpec{
		Name:        "search_writing_samples",
		Description: "Search the user's past articles, posts and transcripts by semantic similarity to find writing samples matching a topic or style",
		Parameters: map[string]*gollem.Parameter{
			"query": {
				Type:        gollem.TypeString,
				Description: "Topic or style description to search for",
				Required:    true,
			},
			"collection": {
				Type:        gollem.TypeString,
				Description: "Which collection to search (default: articles)",
				Enum:        collections,
				Required:    false,
			},
			"limit": {
				Type:        gollem.TypeInteger,
				Description: fmt.Sprintf("Maximum number of samples to return (default: %d)", defaultSearchLimit),
				Required:    false,
			},
		},
	}
}

func (t *writingSamplesTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return nil, goerr.New("query is required")
	}

	collection := types.CollectionArticles
	if v, _ := args["collection"].(string); v != "" {
		parsed, err := types.ParseCollection(v)
		if err != nil {
			return nil, err
		}
		collection = parsed
	}

	limit := defaultSearchLimit
	if v, err := extractInt(args, "limit"); err == nil && v > 0 {
		limit = v
	}

	Update(ctx, fmt.Sprintf("Searching %s for: %s", collection, query))

	vector, err := t.gateway.Embed(ctx, query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed search query", goerr.V("query", query))
	}

	results, err := t.store.Search(ctx, collection, vector, limit, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search writing samples",
			goerr.V("collection", collection),
			goerr.V("limit", limit),
		)
	}

	samples := make([]map[string]any, len(results))
	for i, r := range results {
		samples[i] = map[string]any{
			"text":       r.Point.Payload.Text,
			"collection": collection.String(),
			"score":      r.Score,
		}
	}
	return map[string]any{"samples": samples}, nil
}

// extractInt reads a numeric argument that may arrive as float64 or int
func extractInt(args map[string]any, key string) (int, error) {
	switch v := args[key].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	default:
		return 0, goerr.New("not an integer argument", goerr.V("key", key))
	}
}
