package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BrianJenney/brian-clone/pkg/domain/interfaces"
	"github.com/BrianJenney/brian-clone/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// Gateway implements interfaces.Gateway over two gollem clients: a fast,
// low-cost model for schema-constrained routing calls and a capable model for
// agent turns and summarization.
type Gateway struct {
	fast    gollem.LLMClient
	capable gollem.LLMClient
}

var _ interfaces.Gateway = (*Gateway)(nil)

// New creates a Gateway. fast serves GenerateStructured and Embed, capable
// serves Complete, StreamGenerate and RunToolAgent.
func New(fast, capable gollem.LLMClient) *Gateway {
	return &Gateway{fast: fast, capable: capable}
}

// Embed returns a model.EmbeddingDimension wide vector for the given text
func (g *Gateway) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := g.fast.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{text})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embedding")
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return nil, goerr.New("embedding generation returned empty result")
	}

	vec := make([]float32, len(embeddings[0]))
	for i, v := range embeddings[0] {
		vec[i] = float32(v)
	}
	if len(vec) != model.EmbeddingDimension {
		return nil, goerr.New("unexpected embedding dimension",
			goerr.V("got", len(vec)),
			goerr.V("want", model.EmbeddingDimension),
		)
	}
	return vec, nil
}

// Complete issues one blocking free-text generation
func (g *Gateway) Complete(ctx context.Context, system, prompt string) (string, error) {
	opts := []gollem.SessionOption{}
	if system != "" {
		opts = append(opts, gollem.WithSessionSystemPrompt(system))
	}

	session, err := g.capable.NewSession(ctx, opts...)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create completion session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate completion")
	}
	if len(resp.Texts) == 0 {
		return "", goerr.New("completion returned no text")
	}

	return strings.Join(resp.Texts, "\n"), nil
}

// GenerateStructured issues one schema-constrained generation on the fast
// model and unmarshals the JSON result into out
func (g *Gateway) GenerateStructured(ctx context.Context, schema *gollem.Parameter, system, prompt string, out any) error {
	opts := []gollem.SessionOption{
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(schema),
	}
	if system != "" {
		opts = append(opts, gollem.WithSessionSystemPrompt(system))
	}

	session, err := g.fast.NewSession(ctx, opts...)
	if err != nil {
		return goerr.Wrap(err, "failed to create structured session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return goerr.Wrap(err, "failed to generate structured content")
	}
	if len(resp.Texts) == 0 {
		return goerr.New("structured generation returned no text")
	}

	if err := json.Unmarshal([]byte(resp.Texts[0]), out); err != nil {
		return goerr.Wrap(err, "failed to parse structured response",
			goerr.V("response", resp.Texts[0]),
		)
	}
	return nil
}

// StreamGenerate issues one streaming generation over the conversation window
func (g *Gateway) StreamGenerate(ctx context.Context, system string, turns []model.ConversationTurn) (<-chan interfaces.StreamChunk, error) {
	opts := []gollem.SessionOption{}
	if system != "" {
		opts = append(opts, gollem.WithSessionSystemPrompt(system))
	}

	session, err := g.capable.NewSession(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create streaming session")
	}

	stream, err := session.GenerateStream(ctx, gollem.Text(RenderTurns(turns)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to start generation stream")
	}

	out := make(chan interfaces.StreamChunk)
	go func() {
		defer close(out)
		for resp := range stream {
			if resp == nil {
				continue
			}
			for _, text := range resp.Texts {
				if text == "" {
					continue
				}
				select {
				case out <- interfaces.StreamChunk{Text: text}:
				case <-ctx.Done():
					select {
					case out <- interfaces.StreamChunk{Err: ctx.Err()}:
					default:
					}
					return
				}
			}
		}
	}()
	return out, nil
}

// RunToolAgent executes a tool-calling agent loop on the capable model and
// returns the model's final text after any tool calls resolve
func (g *Gateway) RunToolAgent(ctx context.Context, system, query string, tools []gollem.Tool) (string, error) {
	agent := gollem.New(g.capable,
		gollem.WithSystemPrompt(system),
		gollem.WithTools(tools...),
	)

	resp, err := agent.Execute(ctx, gollem.Text(query))
	if err != nil {
		return "", goerr.Wrap(err, "failed to execute tool agent")
	}
	if len(resp.Texts) == 0 {
		return "", goerr.New("tool agent returned no text")
	}

	return strings.Join(resp.Texts, "\n"), nil
}

// RenderTurns flattens a conversation window into one prompt block
func RenderTurns(turns []model.ConversationTurn) string {
	var sb strings.Builder
	for _, turn := range turns {
		fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Content)
	}
	return sb.String()
}
