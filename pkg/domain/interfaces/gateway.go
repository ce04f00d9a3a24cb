package interfaces

import (
	"context"

	"github.com/BrianJenney/brian-clone/pkg/domain/model"
	"github.com/m-mizutani/gollem"
)

// StreamChunk is one piece of a streaming generation. Err, when non-nil, is
// terminal: the channel is closed right after it is delivered.
type StreamChunk struct {
	Text string
	Err  error
}

// Gateway wraps the hosted LLM provider. Calls that feed control flow use
// GenerateStructured (validated JSON); calls that feed a human use Complete or
// StreamGenerate (free text). The two styles are deliberately kept distinct.
type Gateway interface {
	// Embed returns a vector of model.EmbeddingDimension for the given text
	Embed(ctx context.Context, text string) ([]float32, error)

	// Complete issues one blocking free-text generation
	Complete(ctx context.Context, system, prompt string) (string, error)

	// GenerateStructured issues one generation constrained to the given JSON
	// schema and unmarshals the result into out
	GenerateStructured(ctx context.Context, schema *gollem.Parameter, system, prompt string, out any) error

	// StreamGenerate issues one streaming generation over the conversation
	StreamGenerate(ctx context.Context, system string, turns []model.ConversationTurn) (<-chan StreamChunk, error)

	// RunToolAgent executes a tool-calling agent loop: the model may invoke
	// any of the bound tools before producing its final text
	RunToolAgent(ctx context.Context, system, query string, tools []gollem.Tool) (string, error)
}
