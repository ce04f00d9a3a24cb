package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/BrianJenney/brian-clone/pkg/domain/interfaces"
	"github.com/BrianJenney/brian-clone/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ErrUnknownAgent is returned when a name outside the registry is invoked
var ErrUnknownAgent = goerr.New("unknown agent")

// Runner executes one agent: a text query in, a text answer out. How the
// bound tools are exercised depends on the agent's policy.
type Runner struct {
	gateway  interfaces.Gateway
	registry *Registry
}

func NewRunner(gateway interfaces.Gateway, registry *Registry) *Runner {
	return &Runner{gateway: gateway, registry: registry}
}

// Run invokes the named agent with the given query and returns its final
// text after any tool calls resolve.
func (r *Runner) Run(ctx context.Context, name types.AgentName, query string) (string, error) {
	def, ok := r.registry.Get(name)
	if !ok {
		return "", goerr.Wrap(ErrUnknownAgent, "agent not registered", goerr.V("agent", name))
	}

	switch def.Policy {
	case PolicyRequired:
		return r.runRequired(ctx, def, query)
	case PolicyAuto:
		return r.gateway.RunToolAgent(ctx, def.SystemPrompt, query, def.Tools)
	default:
		return "", goerr.New("unknown tool policy",
			goerr.V("agent", name),
			goerr.V("policy", def.Policy),
		)
	}
}

// runRequired guarantees the tool call happens: the runner invokes the
// agent's first tool directly with the query, then folds the result through
// one model turn so the answer is grounded in the lookup.
func (r *Runner) runRequired(ctx context.Context, def *Definition, query string) (string, error) {
	if len(def.Tools) == 0 {
		return "", goerr.New("agent has no bound tools", goerr.V("agent", def.Name))
	}

	primary := def.Tools[0]
	result, err := primary.Run(ctx, map[string]any{"query": query})
	if err != nil {
		return "", goerr.Wrap(err, "tool invocation failed",
			goerr.V("agent", def.Name),
			goerr.V("tool", primary.Spec().Name),
		)
	}

	rendered, err := json.Marshal(result)
	if err != nil {
		return "", goerr.Wrap(err, "failed to render tool result", goerr.V("agent", def.Name))
	}

	if def.RawOutput {
		return string(rendered), nil
	}

	prompt := fmt.Sprintf("Question: %s\n\nTool results (%s):\n%s\n\nAnswer the question using only these results.",
		query, primary.Spec().Name, rendered)

	answer, err := r.gateway.Complete(ctx, def.SystemPrompt, prompt)
	if err != nil {
		return "", goerr.Wrap(err, "failed to compose answer from tool results", goerr.V("agent", def.Name))
	}
	return answer, nil
}
