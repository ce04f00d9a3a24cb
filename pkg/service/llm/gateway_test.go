package llm_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	"github.com/BrianJenney/brian-clone/pkg/domain/model"
	"github.com/BrianJenney/brian-clone/pkg/service/llm"
)

type mockLLMClient struct {
	generateEmbeddingFn func(ctx context.Context, dimension int, input []string) ([][]float64, error)
}

func (m *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	return nil, nil
}

func (m *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	if m.generateEmbeddingFn != nil {
		return m.generateEmbeddingFn(ctx, dimension, input)
	}
	vec := make([]float64, dimension)
	for i := range vec {
		vec[i] = 0.1
	}
	return [][]float64{vec}, nil
}

func TestEmbedUsesFastClient(t *testing.T) {
	fastCalls := 0
	fast := &mockLLMClient{
		generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
			fastCalls++
			gt.Value(t, dimension).Equal(model.EmbeddingDimension)
			gt.Array(t, input).Length(1)
			gt.Value(t, input[0]).Equal("some text")
			vec := make([]float64, dimension)
			return [][]float64{vec}, nil
		},
	}
	capable := &mockLLMClient{
		generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
			t.Fatal("embedding must not ride the capable client")
			return nil, nil
		},
	}

	gateway := llm.New(fast, capable)

	vec, err := gateway.Embed(context.Background(), "some text")
	gt.NoError(t, err).Required()
	gt.Array(t, vec).Length(model.EmbeddingDimension)
	gt.Value(t, fastCalls).Equal(1)
}

func TestEmbedRejectsWrongDimension(t *testing.T) {
	fast := &mockLLMClient{
		generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
			return [][]float64{make([]float64, 8)}, nil
		},
	}

	gateway := llm.New(fast, &mockLLMClient{})

	_, err := gateway.Embed(context.Background(), "text")
	gt.Error(t, err)
}

func TestRenderTurns(t *testing.T) {
	turns := []model.ConversationTurn{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
	}
	gt.Value(t, llm.RenderTurns(turns)).Equal("user: hello\nassistant: hi there\n")
}
