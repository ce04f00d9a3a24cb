package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/BrianJenney/brian-clone/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// resourcesDocument is the logical name of the learning-resource catalog in
// the document registry
const resourcesDocument = "resources"

// resourcesTool searches the learning-resource catalog by keyword
type resourcesTool struct {
	docs interfaces.DocumentStore
}

// NewResources builds the learning-resource search tool
func NewResources(docs interfaces.DocumentStore) gollem.Tool {
	return &resourcesTool{docs: docs}
}

func (t *resourcesTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "search_resources",
		Description: "Search the curated catalog of learning resources (courses, books, links) for entries matching a topic",
		Parameters: map[string]*gollem.Parameter{
			"query": {
				Type:        gollem.TypeString,
				Description: "Topic keywords to match",
				Required:    true,
			},
			"limit": {
				Type:        gollem.TypeInteger,
				Description: fmt.Sprintf("Maximum number of resources to return (default: %d)", defaultSearchLimit),
				Required:    false,
			},
		},
	}
}

func (t *resourcesTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return nil, goerr.New("query is required")
	}

	limit := defaultSearchLimit
	if v, err := extractInt(args, "limit"); err == nil && v > 0 {
		limit = v
	}

	Update(ctx, fmt.Sprintf("Searching resources for: %s", query))

	doc, err := t.docs.Read(ctx, resourcesDocument)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read resource catalog")
	}

	entries := catalogEntries(doc.Content)
	terms := strings.Fields(strings.ToLower(query))

	var matched []map[string]any
	for _, entry := range entries {
		if matchesTerms(entry, terms) {
			matched = append(matched, entry)
			if len(matched) >= limit {
				break
			}
		}
	}

	return map[string]any{"resources": matched, "total": len(matched)}, nil
}

// catalogEntries flattens every object found in the catalog's array fields
func catalogEntries(content map[string]any) []map[string]any {
	var entries []map[string]any
	for _, value := range content {
		list, ok := value.([]any)
		if !ok {
			continue
		}
		for _, item := range list {
			if entry, ok := item.(map[string]any); ok {
				entries = append(entries, entry)
			}
		}
	}
	return entries
}

// matchesTerms reports whether any string field of the entry contains any of
// the query terms.
func matchesTerms(entry map[string]any, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	for _, value := range entry {
		text, ok := value.(string)
		if !ok {
			continue
		}
		lowered := strings.ToLower(text)
		for _, term := range terms {
			if strings.Contains(lowered, term) {
				return true
			}
		}
	}
	return false
}
