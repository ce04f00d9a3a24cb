package usecase

import (
	"context"

	"github.com/BrianJenney/brian-clone/pkg/agent"
	"github.com/BrianJenney/brian-clone/pkg/domain/interfaces"
	"github.com/BrianJenney/brian-clone/pkg/domain/types"
)

// AgentRunner executes one named agent with a text query. Satisfied by
// agent.Runner; tests substitute fakes.
type AgentRunner interface {
	Run(ctx context.Context, name types.AgentName, query string) (string, error)
}

// UseCases wires the chat pipeline: router, executor, summarizer and the
// direct answer path.
type UseCases struct {
	gateway        interfaces.Gateway
	registry       *agent.Registry
	runner         AgentRunner
	partialResults bool
}

type Option func(*UseCases)

// WithPartialResults keeps the agent batch alive when individual agents
// fail: failures are recorded per slot instead of aborting the batch.
func WithPartialResults() Option {
	return func(uc *UseCases) {
		uc.partialResults = true
	}
}

// WithRunner replaces the default agent runner
func WithRunner(runner AgentRunner) Option {
	return func(uc *UseCases) {
		uc.runner = runner
	}
}

func New(gateway interfaces.Gateway, registry *agent.Registry, opts ...Option) *UseCases {
	uc := &UseCases{
		gateway:  gateway,
		registry: registry,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.runner == nil {
		uc.runner = agent.NewRunner(gateway, registry)
	}

	return uc
}
