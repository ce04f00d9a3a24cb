package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/BrianJenney/brian-clone/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// businessContextTool fetches one business-context document by logical name
type businessContextTool struct {
	docs interfaces.DocumentStore
}

// NewBusinessContext builds the business-context document tool. The name
// enum is fixed from the document registry at construction time.
func NewBusinessContext(docs interfaces.DocumentStore) gollem.Tool {
	return &businessContextTool{docs: docs}
}

func (t *businessContextTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "get_business_context",
		Description: "Fetch a business-context document (audience, offers, brand positioning) by name. Call with no name to list available documents.",
		Parameters: map[string]*gollem.Parameter{
			"name": {
				Type:        gollem.TypeString,
				Description: "Logical document name",
				Enum:        t.docs.Names(),
				Required:    false,
			},
		},
	}
}

func (t *businessContextTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	name, _ := args["name"].(string)
	if name == "" {
		// Fall back to query for direct invocation by the agent runner
		if q, _ := args["query"].(string); q != "" {
			return t.readAll(ctx)
		}
		return map[string]any{"documents": t.docs.Names()}, nil
	}

	Update(ctx, fmt.Sprintf("Fetching business context: %s", name))

	doc, err := t.docs.Read(ctx, name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read business context", goerr.V("name", name))
	}

	return map[string]any{"name": doc.Name, "content": doc.Content}, nil
}

// readAll returns every registered document, used when the runner invokes
// the tool directly and no specific name was chosen.
func (t *businessContextTool) readAll(ctx context.Context) (map[string]any, error) {
	Update(ctx, "Fetching business context documents")

	contents := map[string]any{}
	for _, name := range t.docs.Names() {
		doc, err := t.docs.Read(ctx, name)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read business context", goerr.V("name", name))
		}
		contents[name] = doc.Content
	}

	// Render to a JSON string so the result drops straight into a prompt
	rendered, err := json.Marshal(contents)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to render business context")
	}
	return map[string]any{"documents": string(rendered)}, nil
}
