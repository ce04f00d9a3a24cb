package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/BrianJenney/brian-clone/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

const diagramSystemPrompt = `You lay out technical diagrams as Excalidraw scenes.
Produce rectangles, ellipses, arrows and text elements that explain the
described concept visually. Keep coordinates on a 1280x720 canvas, leave
whitespace between elements, and label every shape.`

// diagramTool renders a diagram description into an Excalidraw scene spec
type diagramTool struct {
	gateway interfaces.Gateway
}

// NewRenderDiagramSpec builds the diagram rendering tool
func NewRenderDiagramSpec(gateway interfaces.Gateway) gollem.Tool {
	return &diagramTool{gateway: gateway}
}

func (t *diagramTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "render_diagram_spec",
		Description: "Render a described concept or flow as an Excalidraw scene specification (JSON)",
		Parameters: map[string]*gollem.Parameter{
			"query": {
				Type:        gollem.TypeString,
				Description: "What the diagram should show",
				Required:    true,
			},
		},
	}
}

// sceneSchema constrains generation to the subset of the Excalidraw scene
// format the frontend consumes.
func sceneSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Type: gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"type": {
				Type:        gollem.TypeString,
				Description: "Always 'excalidraw'",
				Required:    true,
			},
			"elements": {
				Type:     gollem.TypeArray,
				Required: true,
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"id":     {Type: gollem.TypeString, Required: true},
						"type":   {Type: gollem.TypeString, Required: true, Enum: []string{"rectangle", "ellipse", "diamond", "arrow", "text"}},
						"x":      {Type: gollem.TypeNumber, Required: true},
						"y":      {Type: gollem.TypeNumber, Required: true},
						"width":  {Type: gollem.TypeNumber},
						"height": {Type: gollem.TypeNumber},
						"text":   {Type: gollem.TypeString, Description: "Label, for text elements"},
					},
				},
			},
		},
	}
}

func (t *diagramTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return nil, goerr.New("query is required")
	}

	Update(ctx, fmt.Sprintf("Drawing diagram: %s", query))

	var scene map[string]any
	if err := t.gateway.GenerateStructured(ctx, sceneSchema(), diagramSystemPrompt, query, &scene); err != nil {
		return nil, goerr.Wrap(err, "failed to generate diagram spec", goerr.V("query", query))
	}

	// The scene travels as a string so it can be embedded verbatim in the
	// agent's text answer.
	rendered, err := json.Marshal(scene)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to render diagram spec")
	}
	return map[string]any{"spec": string(rendered)}, nil
}
