package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/BrianJenney/brian-clone/pkg/domain/interfaces"
	"github.com/BrianJenney/brian-clone/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

const summarizerSystemPrompt = `You answer the user on behalf of a team of research agents.
Compose one coherent answer from the agent findings below. Use only the
supplied findings: do not introduce resources, numbers or claims that are
not listed. If the findings do not cover part of the question, say so
instead of filling the gap. Match the user's casual, direct tone.`

// Summarize issues the single streaming call that folds every agent finding
// into the final answer. Each response is embedded verbatim, labeled by
// agent name; failed agents (partial mode) are labeled as failed and carry
// no content.
func (uc *UseCases) Summarize(ctx context.Context, turns []model.ConversationTurn, query string, results []model.AgentResult) (<-chan interfaces.StreamChunk, error) {
	prompt := buildSummaryPrompt(query, results)

	recent := model.RecentTurns(turns)
	withFindings := make([]model.ConversationTurn, 0, len(recent)+1)
	withFindings = append(withFindings, recent...)
	withFindings = append(withFindings, model.ConversationTurn{
		Role:    model.RoleUser,
		Content: prompt,
	})

	stream, err := uc.gateway.StreamGenerate(ctx, summarizerSystemPrompt, withFindings)
	if err != nil {
		return nil, goerr.Wrap(err, "summarizer stream failed to start")
	}
	return stream, nil
}

func buildSummaryPrompt(query string, results []model.AgentResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Question: %s\n\nAgent findings:\n", query)
	for _, result := range results {
		if result.Err != nil {
			fmt.Fprintf(&sb, "\n[%s] (failed, no findings)\n", result.Agent)
			continue
		}
		fmt.Fprintf(&sb, "\n[%s]\n%s\n", result.Agent, result.Response)
	}
	sb.WriteString("\nAnswer the question using only the findings above.")
	return sb.String()
}
