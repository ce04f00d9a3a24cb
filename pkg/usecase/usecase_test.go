package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	"github.com/BrianJenney/brian-clone/pkg/agent"
	"github.com/BrianJenney/brian-clone/pkg/domain/interfaces"
	"github.com/BrianJenney/brian-clone/pkg/domain/model"
	"github.com/BrianJenney/brian-clone/pkg/domain/types"
	"github.com/BrianJenney/brian-clone/pkg/usecase"
)

// ----- fake gateway -----

type fakeGateway struct {
	mu sync.Mutex

	structuredFn func(ctx context.Context, schema *gollem.Parameter, system, prompt string, out any) error
	streamFn     func(ctx context.Context, system string, turns []model.ConversationTurn) (<-chan interfaces.StreamChunk, error)
	completeFn   func(ctx context.Context, system, prompt string) (string, error)

	streamCalls []streamCall
}

type streamCall struct {
	system string
	turns  []model.ConversationTurn
}

func (g *fakeGateway) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, model.EmbeddingDimension)
	vec[0] = 1
	return vec, nil
}

func (g *fakeGateway) Complete(ctx context.Context, system, prompt string) (string, error) {
	if g.completeFn != nil {
		return g.completeFn(ctx, system, prompt)
	}
	return "completed", nil
}

func (g *fakeGateway) GenerateStructured(ctx context.Context, schema *gollem.Parameter, system, prompt string, out any) error {
	if g.structuredFn != nil {
		return g.structuredFn(ctx, schema, system, prompt, out)
	}
	return errors.New("no structured response configured")
}

func (g *fakeGateway) StreamGenerate(ctx context.Context, system string, turns []model.ConversationTurn) (<-chan interfaces.StreamChunk, error) {
	g.mu.Lock()
	g.streamCalls = append(g.streamCalls, streamCall{system: system, turns: turns})
	g.mu.Unlock()

	if g.streamFn != nil {
		return g.streamFn(ctx, system, turns)
	}
	return textStream("fallback"), nil
}

func (g *fakeGateway) RunToolAgent(ctx context.Context, system, query string, tools []gollem.Tool) (string, error) {
	return "tool agent answer", nil
}

// textStream returns a closed channel pre-filled with the given chunks
func textStream(chunks ...string) <-chan interfaces.StreamChunk {
	ch := make(chan interfaces.StreamChunk, len(chunks))
	for _, c := range chunks {
		ch <- interfaces.StreamChunk{Text: c}
	}
	close(ch)
	return ch
}

// routeTo makes the fake router return the given decision
func routeTo(agents []types.AgentName, refined string) func(context.Context, *gollem.Parameter, string, string, any) error {
	return func(_ context.Context, _ *gollem.Parameter, _, _ string, out any) error {
		decision := out.(*model.RouterDecision)
		decision.Agents = agents
		decision.RefinedQuery = refined
		return nil
	}
}

// ----- fake agent runner -----

type fakeRunner struct {
	mu    sync.Mutex
	calls []types.AgentName
	runFn func(ctx context.Context, name types.AgentName, query string) (string, error)
}

func (r *fakeRunner) Run(ctx context.Context, name types.AgentName, query string) (string, error) {
	r.mu.Lock()
	r.calls = append(r.calls, name)
	r.mu.Unlock()

	if r.runFn != nil {
		return r.runFn(ctx, name, query)
	}
	return "answer from " + name.String(), nil
}

func newRegistry() *agent.Registry {
	return agent.NewRegistry(agent.Deps{})
}

func userTurns(contents ...string) []model.ConversationTurn {
	turns := make([]model.ConversationTurn, len(contents))
	for i, c := range contents {
		turns[i] = model.ConversationTurn{Role: model.RoleUser, Content: c}
	}
	return turns
}

// ----- router -----

func TestRouteValidDecision(t *testing.T) {
	gateway := &fakeGateway{
		structuredFn: routeTo([]types.AgentName{types.AgentVideoResearch, types.AgentWritingSamples}, "video ideas"),
	}
	uc := usecase.New(gateway, newRegistry(), usecase.WithRunner(&fakeRunner{}))

	decision, err := uc.Route(context.Background(), userTurns("what videos should I make?"))
	gt.NoError(t, err).Required()

	gt.Array(t, decision.Agents).Length(2)
	gt.Value(t, decision.RefinedQuery).Equal("video ideas")
}

func TestRouteRejectsUnknownAgent(t *testing.T) {
	gateway := &fakeGateway{
		structuredFn: routeTo([]types.AgentName{"madeUpAgent"}, "query"),
	}
	uc := usecase.New(gateway, newRegistry(), usecase.WithRunner(&fakeRunner{}))

	_, err := uc.Route(context.Background(), userTurns("hello"))
	gt.Error(t, err)
}

func TestRouteRejectsDuplicateAgents(t *testing.T) {
	gateway := &fakeGateway{
		structuredFn: routeTo([]types.AgentName{types.AgentResources, types.AgentResources}, "query"),
	}
	uc := usecase.New(gateway, newRegistry(), usecase.WithRunner(&fakeRunner{}))

	_, err := uc.Route(context.Background(), userTurns("hello"))
	gt.Error(t, err)
}

func TestRouteRejectsEmptyQueryWithAgents(t *testing.T) {
	gateway := &fakeGateway{
		structuredFn: routeTo([]types.AgentName{types.AgentResources}, ""),
	}
	uc := usecase.New(gateway, newRegistry(), usecase.WithRunner(&fakeRunner{}))

	_, err := uc.Route(context.Background(), userTurns("hello"))
	gt.Error(t, err)
}

func TestRouteAllowsEmptyAgents(t *testing.T) {
	gateway := &fakeGateway{
		structuredFn: routeTo(nil, ""),
	}
	uc := usecase.New(gateway, newRegistry(), usecase.WithRunner(&fakeRunner{}))

	decision, err := uc.Route(context.Background(), userTurns("just saying hi"))
	gt.NoError(t, err).Required()
	gt.Array(t, decision.Agents).Length(0)
}

// ----- executor -----

func TestExecuteAgentsPreservesInputOrder(t *testing.T) {
	// Later agents finish first; results must still land in input order
	runner := &fakeRunner{
		runFn: func(ctx context.Context, name types.AgentName, query string) (string, error) {
			switch name {
			case types.AgentVideoResearch:
				time.Sleep(30 * time.Millisecond)
			case types.AgentBusinessContext:
				time.Sleep(10 * time.Millisecond)
			}
			return "answer from " + name.String(), nil
		},
	}
	uc := usecase.New(&fakeGateway{}, newRegistry(), usecase.WithRunner(runner))

	names := []types.AgentName{types.AgentVideoResearch, types.AgentBusinessContext, types.AgentResources}
	results, err := uc.ExecuteAgents(context.Background(), names, "query")
	gt.NoError(t, err).Required()

	gt.Array(t, results).Length(3)
	for i, name := range names {
		gt.Value(t, results[i].Agent).Equal(name)
		gt.Value(t, results[i].Response).Equal("answer from " + name.String())
	}
}

func TestExecuteAgentsFailureAbortsBatch(t *testing.T) {
	runner := &fakeRunner{
		runFn: func(ctx context.Context, name types.AgentName, query string) (string, error) {
			if name == types.AgentBusinessContext {
				return "", errors.New("document store down")
			}
			return "fine", nil
		},
	}
	uc := usecase.New(&fakeGateway{}, newRegistry(), usecase.WithRunner(runner))

	_, err := uc.ExecuteAgents(context.Background(),
		[]types.AgentName{types.AgentVideoResearch, types.AgentBusinessContext}, "query")
	gt.Error(t, err)
	gt.Value(t, strings.Contains(err.Error(), "agent failed")).Equal(true)
}

func TestExecuteAgentsPartialMode(t *testing.T) {
	runner := &fakeRunner{
		runFn: func(ctx context.Context, name types.AgentName, query string) (string, error) {
			if name == types.AgentBusinessContext {
				return "", errors.New("document store down")
			}
			return "fine", nil
		},
	}
	uc := usecase.New(&fakeGateway{}, newRegistry(),
		usecase.WithRunner(runner), usecase.WithPartialResults())

	results, err := uc.ExecuteAgents(context.Background(),
		[]types.AgentName{types.AgentVideoResearch, types.AgentBusinessContext}, "query")
	gt.NoError(t, err).Required()

	gt.Array(t, results).Length(2)
	gt.NoError(t, results[0].Err)
	gt.Value(t, results[0].Response).Equal("fine")
	gt.Error(t, results[1].Err)
	gt.Value(t, results[1].Agent).Equal(types.AgentBusinessContext)
}

// ----- summarizer -----

func TestSummarizePromptEmbedsFindingsVerbatim(t *testing.T) {
	gateway := &fakeGateway{
		streamFn: func(ctx context.Context, system string, turns []model.ConversationTurn) (<-chan interfaces.StreamChunk, error) {
			return textStream("final answer"), nil
		},
	}
	uc := usecase.New(gateway, newRegistry(), usecase.WithRunner(&fakeRunner{}))

	results := []model.AgentResult{
		{Agent: types.AgentVideoResearch, Response: "Your top video got 120K views."},
		{Agent: types.AgentWritingSamples, Response: "You write in short punchy sentences."},
		{Agent: types.AgentResources, Err: errors.New("catalog unavailable")},
	}

	stream, err := uc.Summarize(context.Background(), userTurns("what should I make?"), "video topic ideas", results)
	gt.NoError(t, err).Required()
	for range stream {
	}

	gt.Array(t, gateway.streamCalls).Length(1)
	prompt := gateway.streamCalls[0].turns[len(gateway.streamCalls[0].turns)-1].Content

	gt.Value(t, strings.Contains(prompt, "video topic ideas")).Equal(true)
	gt.Value(t, strings.Contains(prompt, "[videoResearch]\nYour top video got 120K views.")).Equal(true)
	gt.Value(t, strings.Contains(prompt, "[writingSamples]\nYou write in short punchy sentences.")).Equal(true)
	gt.Value(t, strings.Contains(prompt, "[resources] (failed, no findings)")).Equal(true)
	gt.Value(t, strings.Contains(prompt, "catalog unavailable")).Equal(false)
}

func TestSummarizeKeepsConversationWindow(t *testing.T) {
	gateway := &fakeGateway{}
	uc := usecase.New(gateway, newRegistry(), usecase.WithRunner(&fakeRunner{}))

	turns := userTurns("one", "two", "three", "four", "five", "six", "seven")
	_, err := uc.Summarize(context.Background(), turns, "query", nil)
	gt.NoError(t, err).Required()

	// Last 5 turns plus the findings prompt
	gt.Array(t, gateway.streamCalls[0].turns).Length(model.ConversationWindow + 1)
	gt.Value(t, gateway.streamCalls[0].turns[0].Content).Equal("three")
}

// ----- chat pipeline -----

type eventLog struct {
	mu     sync.Mutex
	events []types.StreamEvent
}

func (l *eventLog) emit(event types.StreamEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return nil
}

func (l *eventLog) byType(eventType types.EventType) []types.StreamEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var filtered []types.StreamEvent
	for _, e := range l.events {
		if e.Type == eventType {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func TestChatAgentPath(t *testing.T) {
	gateway := &fakeGateway{
		structuredFn: routeTo([]types.AgentName{types.AgentVideoResearch}, "video topic suggestions"),
		streamFn: func(ctx context.Context, system string, turns []model.ConversationTurn) (<-chan interfaces.StreamChunk, error) {
			return textStream("Make a video ", "about Go."), nil
		},
	}
	runner := &fakeRunner{}
	uc := usecase.New(gateway, newRegistry(), usecase.WithRunner(runner))

	log := &eventLog{}
	err := uc.Chat(context.Background(), userTurns("What videos should I make?"), log.emit)
	gt.NoError(t, err).Required()

	gt.Array(t, runner.calls).Length(1)
	gt.Value(t, runner.calls[0]).Equal(types.AgentVideoResearch)

	// Exactly one progress event names the selected agent
	named := 0
	for _, e := range log.byType(types.EventProgress) {
		if strings.Contains(e.Message, "videoResearch") {
			named++
		}
	}
	gt.Value(t, named).Equal(1)

	texts := log.byType(types.EventText)
	gt.Array(t, texts).Length(2)
	gt.Value(t, texts[0].Content+texts[1].Content).Equal("Make a video about Go.")

	gt.Array(t, log.byType(types.EventError)).Length(0)

	// All progress events precede the first text event
	sawText := false
	for _, e := range log.events {
		if e.Type == types.EventText {
			sawText = true
		}
		if e.Type == types.EventProgress {
			gt.Value(t, sawText).Equal(false)
		}
	}
}

func TestChatDirectPath(t *testing.T) {
	gateway := &fakeGateway{
		structuredFn: routeTo(nil, ""),
		streamFn: func(ctx context.Context, system string, turns []model.ConversationTurn) (<-chan interfaces.StreamChunk, error) {
			return textStream("Hi there!"), nil
		},
	}
	runner := &fakeRunner{}
	uc := usecase.New(gateway, newRegistry(), usecase.WithRunner(runner))

	log := &eventLog{}
	err := uc.Chat(context.Background(), userTurns("hello!"), log.emit)
	gt.NoError(t, err).Required()

	// No agents ran; the raw conversation went straight to generation
	gt.Array(t, runner.calls).Length(0)
	gt.Array(t, gateway.streamCalls).Length(1)
	gt.Value(t, gateway.streamCalls[0].turns[0].Content).Equal("hello!")

	texts := log.byType(types.EventText)
	gt.Array(t, texts).Length(1)
	gt.Value(t, texts[0].Content).Equal("Hi there!")
}

func TestChatRouterFailure(t *testing.T) {
	gateway := &fakeGateway{
		structuredFn: func(ctx context.Context, schema *gollem.Parameter, system, prompt string, out any) error {
			return errors.New("model unavailable")
		},
	}
	uc := usecase.New(gateway, newRegistry(), usecase.WithRunner(&fakeRunner{}))

	log := &eventLog{}
	err := uc.Chat(context.Background(), userTurns("hello"), log.emit)
	gt.Error(t, err)
	gt.Array(t, log.byType(types.EventText)).Length(0)
}

func TestChatEmptyConversation(t *testing.T) {
	uc := usecase.New(&fakeGateway{}, newRegistry(), usecase.WithRunner(&fakeRunner{}))

	err := uc.Chat(context.Background(), nil, func(types.StreamEvent) error { return nil })
	gt.Value(t, errors.Is(err, usecase.ErrEmptyConversation)).Equal(true)
}

func TestChatInvalidTurn(t *testing.T) {
	uc := usecase.New(&fakeGateway{}, newRegistry(), usecase.WithRunner(&fakeRunner{}))

	turns := []model.ConversationTurn{{Role: "system", Content: "nope"}}
	err := uc.Chat(context.Background(), turns, func(types.StreamEvent) error { return nil })
	gt.Error(t, err)
}

func TestChatMidStreamFailure(t *testing.T) {
	gateway := &fakeGateway{
		structuredFn: routeTo(nil, ""),
		streamFn: func(ctx context.Context, system string, turns []model.ConversationTurn) (<-chan interfaces.StreamChunk, error) {
			ch := make(chan interfaces.StreamChunk, 2)
			ch <- interfaces.StreamChunk{Text: "partial "}
			ch <- interfaces.StreamChunk{Err: errors.New("connection reset")}
			close(ch)
			return ch, nil
		},
	}
	uc := usecase.New(gateway, newRegistry(), usecase.WithRunner(&fakeRunner{}))

	log := &eventLog{}
	err := uc.Chat(context.Background(), userTurns("hello"), log.emit)
	gt.Error(t, err)

	// Partial text is not retracted
	gt.Array(t, log.byType(types.EventText)).Length(1)
}
