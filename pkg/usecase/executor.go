package usecase

import (
	"context"

	"github.com/BrianJenney/brian-clone/pkg/domain/model"
	"github.com/BrianJenney/brian-clone/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// ExecuteAgents runs the selected agents concurrently with the same refined
// query. Results land in input order regardless of completion order.
//
// Default mode is all-or-nothing: the first failure cancels the remaining
// agents and fails the batch. With partial results enabled, failures are
// recorded in their slot and the batch always returns.
func (uc *UseCases) ExecuteAgents(ctx context.Context, names []types.AgentName, query string) ([]model.AgentResult, error) {
	results := make([]model.AgentResult, len(names))

	eg, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		eg.Go(func() error {
			response, err := uc.runner.Run(ctx, name, query)
			if err != nil {
				if uc.partialResults {
					results[i] = model.AgentResult{Agent: name, Err: err}
					return nil
				}
				return goerr.Wrap(err, "agent failed", goerr.V("agent", name))
			}
			results[i] = model.AgentResult{Agent: name, Response: response}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
