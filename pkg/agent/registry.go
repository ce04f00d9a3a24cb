package agent

import (
	"github.com/BrianJenney/brian-clone/pkg/agent/tool"
	"github.com/BrianJenney/brian-clone/pkg/domain/interfaces"
	"github.com/BrianJenney/brian-clone/pkg/domain/types"
	"github.com/m-mizutani/gollem"
)

// ToolPolicy controls how an agent's model may use its bound tools
type ToolPolicy string

const (
	// PolicyAuto lets the model decide whether and which tools to call
	PolicyAuto ToolPolicy = "auto"

	// PolicyRequired forces exactly one tool invocation. Used for agents
	// whose whole value is the lookup, so the model cannot answer from thin
	// air.
	PolicyRequired ToolPolicy = "required"
)

// Definition is the static configuration of one agent: display metadata,
// system instruction, bound tools and invocation policy. Loaded once at
// startup and never mutated.
type Definition struct {
	Name        types.AgentName
	DisplayName string
	Description string
	Policy      ToolPolicy

	// RawOutput returns the tool result verbatim instead of folding it
	// through a model turn
	RawOutput bool

	SystemPrompt string
	Tools        []gollem.Tool
}

// Deps are the collaborators agent tools are built over
type Deps struct {
	Gateway   interfaces.Gateway
	Store     interfaces.SemanticStore
	Docs      interfaces.DocumentStore
	Analytics interfaces.ChannelAnalytics
	Scraper   interfaces.SearchScraper
	ChannelID string
}

// Registry holds the definition of every agent, keyed by name
type Registry struct {
	definitions map[types.AgentName]*Definition
	order       []types.AgentName
}

// NewRegistry builds the full agent registry from the given collaborators
func NewRegistry(deps Deps) *Registry {
	registry := &Registry{
		definitions: make(map[types.AgentName]*Definition),
	}
	for _, name := range types.AllAgentNames() {
		registry.definitions[name] = definitionFor(name, deps)
		registry.order = append(registry.order, name)
	}
	return registry
}

// definitionFor maps an agent name to its static definition. The switch is
// exhaustive over the closed set: adding a name without a definition panics
// at startup rather than misrouting at request time.
func definitionFor(name types.AgentName, deps Deps) *Definition {
	switch name {
	case types.AgentVideoResearch:
		return &Definition{
			Name:        name,
			DisplayName: "Video Research",
			Description: "Analyzes the channel's recent performance and researches what videos are working for a topic",
			Policy:      PolicyAuto,
			SystemPrompt: "You are a video strategy researcher. Use the channel analytics " +
				"and topic research tools to ground every claim in real numbers. Report " +
				"concrete titles, view counts and engagement rates from the tool results.",
			Tools: []gollem.Tool{
				tool.NewAnalyzeChannel(deps.Analytics, deps.ChannelID),
				tool.NewResearchVideoTopic(deps.Scraper),
			},
		}

	case types.AgentBusinessContext:
		return &Definition{
			Name:        name,
			DisplayName: "Business Context",
			Description: "Retrieves audience, offer and brand positioning documents",
			Policy:      PolicyAuto,
			SystemPrompt: "You retrieve business context. Fetch the relevant document and " +
				"answer strictly from its contents. If nothing relevant exists, say so.",
			Tools: []gollem.Tool{
				tool.NewBusinessContext(deps.Docs),
			},
		}

	case types.AgentWritingSamples:
		return &Definition{
			Name:        name,
			DisplayName: "Writing Samples",
			Description: "Finds past articles, posts and transcripts matching a topic or style",
			Policy:      PolicyRequired,
			SystemPrompt: "You surface the user's own writing. Present the retrieved " +
				"samples with brief notes on voice and structure. Never invent samples.",
			Tools: []gollem.Tool{
				tool.NewWritingSamples(deps.Gateway, deps.Store),
			},
		}

	case types.AgentResources:
		return &Definition{
			Name:        name,
			DisplayName: "Resources",
			Description: "Searches the curated catalog of courses, books and links",
			Policy:      PolicyRequired,
			SystemPrompt: "You recommend learning resources. Only mention resources " +
				"present in the tool results, with their links. Never invent resources.",
			Tools: []gollem.Tool{
				tool.NewResources(deps.Docs),
			},
		}

	case types.AgentExcalidrawer:
		return &Definition{
			Name:        name,
			DisplayName: "Diagram",
			Description: "Renders a described concept as an Excalidraw diagram",
			Policy:      PolicyRequired,
			RawOutput:   true,
			SystemPrompt: "You produce Excalidraw scene specifications. Return the " +
				"rendered spec exactly as produced by the tool.",
			Tools: []gollem.Tool{
				tool.NewRenderDiagramSpec(deps.Gateway),
			},
		}

	default:
		panic("no definition for agent: " + name.String())
	}
}

// Get returns the definition for name
func (r *Registry) Get(name types.AgentName) (*Definition, bool) {
	def, ok := r.definitions[name]
	return def, ok
}

// All returns every definition in stable order
func (r *Registry) All() []*Definition {
	defs := make([]*Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.definitions[name])
	}
	return defs
}
