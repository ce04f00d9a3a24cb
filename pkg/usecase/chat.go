package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/BrianJenney/brian-clone/pkg/agent/tool"
	"github.com/BrianJenney/brian-clone/pkg/domain/interfaces"
	"github.com/BrianJenney/brian-clone/pkg/domain/model"
	"github.com/BrianJenney/brian-clone/pkg/domain/types"
	"github.com/BrianJenney/brian-clone/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const directSystemPrompt = `You are the user's content assistant. Answer directly and
conversationally. You have no retrieved context for this message, so stick
to general knowledge and do not claim familiarity with the user's past
writing, business documents or channel numbers.`

// EmitFunc delivers one stream event to the client. A non-nil error means
// the client is gone and the pipeline should stop.
type EmitFunc func(types.StreamEvent) error

// Chat runs the full pipeline for one request: route, then either answer
// directly (no agents selected) or fan out to the selected agents and
// stream the summarized answer.
//
// Event ordering: every progress event precedes the first text event.
// Errors are returned to the caller, which emits the single terminal error
// event; Chat itself never emits one.
func (uc *UseCases) Chat(ctx context.Context, turns []model.ConversationTurn, emit EmitFunc) error {
	if len(turns) == 0 {
		return ErrEmptyConversation
	}
	for i, turn := range turns {
		if err := turn.Validate(); err != nil {
			return goerr.Wrap(err, "invalid conversation turn", goerr.V("index", i))
		}
	}

	if err := emit(types.NewProgressEvent("Analyzing your request...")); err != nil {
		return err
	}

	decision, err := uc.Route(ctx, turns)
	if err != nil {
		return err
	}

	logging.From(ctx).Debug("routed chat request",
		"agents", decision.Agents,
		"refined_query", decision.RefinedQuery,
	)

	if len(decision.Agents) == 0 {
		stream, err := uc.gateway.StreamGenerate(ctx, directSystemPrompt, model.RecentTurns(turns))
		if err != nil {
			return goerr.Wrap(err, "direct answer stream failed to start")
		}
		return forwardText(stream, emit)
	}

	// Tool progress arrives from concurrent agent goroutines
	var mu sync.Mutex
	safeEmit := func(event types.StreamEvent) error {
		mu.Lock()
		defer mu.Unlock()
		return emit(event)
	}

	for _, name := range decision.Agents {
		if err := safeEmit(types.NewProgressEvent(fmt.Sprintf("Running %s agent...", name))); err != nil {
			return err
		}
	}

	execCtx := tool.WithUpdate(ctx, func(ctx context.Context, message string) {
		if err := safeEmit(types.NewProgressEvent(message)); err != nil {
			logging.From(ctx).Debug("dropped progress update", "error", err)
		}
	})

	results, err := uc.ExecuteAgents(execCtx, decision.Agents, decision.RefinedQuery)
	if err != nil {
		return err
	}

	if err := safeEmit(types.NewProgressEvent("Summarizing findings...")); err != nil {
		return err
	}

	stream, err := uc.Summarize(ctx, turns, decision.RefinedQuery, results)
	if err != nil {
		return err
	}
	return forwardText(stream, safeEmit)
}

// forwardText re-emits a generation stream as text events. A chunk error is
// terminal and propagated to the caller.
func forwardText(stream <-chan interfaces.StreamChunk, emit EmitFunc) error {
	for chunk := range stream {
		if chunk.Err != nil {
			return goerr.Wrap(chunk.Err, "generation stream failed")
		}
		if chunk.Text == "" {
			continue
		}
		if err := emit(types.NewTextEvent(chunk.Text)); err != nil {
			return err
		}
	}
	return nil
}
