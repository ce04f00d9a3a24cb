package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/BrianJenney/brian-clone/pkg/domain/model"
	"github.com/BrianJenney/brian-clone/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

const routerSystemPrompt = `You route chat messages to specialized research agents.
Select the agents whose data is needed to answer the user's latest message,
and rewrite the message as one self-contained query using the conversation
for context. Select no agents for small talk or questions answerable without
any retrieval. Never select an agent that would not contribute facts.`

// routerSchema constrains the routing call to the closed agent set
func routerSchema() *gollem.Parameter {
	names := make([]string, 0, len(types.AllAgentNames()))
	for _, name := range types.AllAgentNames() {
		names = append(names, name.String())
	}

	return &gollem.Parameter{
		Type: gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"agents": {
				Type:        gollem.TypeArray,
				Description: "Agents to run, possibly empty",
				Required:    true,
				Items: &gollem.Parameter{
					Type: gollem.TypeString,
					Enum: names,
				},
			},
			"refinedQuery": {
				Type:        gollem.TypeString,
				Description: "The user's request rewritten as one self-contained query",
				Required:    true,
			},
		},
	}
}

// Route issues the single routing call and validates its decision
func (uc *UseCases) Route(ctx context.Context, turns []model.ConversationTurn) (*model.RouterDecision, error) {
	recent := model.RecentTurns(turns)

	var sb strings.Builder
	sb.WriteString("Available agents:\n")
	for _, def := range uc.registry.All() {
		fmt.Fprintf(&sb, "- %s: %s\n", def.Name, def.Description)
	}
	sb.WriteString("\nConversation:\n")
	for _, turn := range recent {
		fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Content)
	}

	var decision model.RouterDecision
	if err := uc.gateway.GenerateStructured(ctx, routerSchema(), routerSystemPrompt, sb.String(), &decision); err != nil {
		return nil, goerr.Wrap(err, "routing call failed")
	}

	if err := decision.Validate(); err != nil {
		return nil, goerr.Wrap(err, "router returned an invalid decision",
			goerr.V("agents", decision.Agents),
			goerr.V("refined_query", decision.RefinedQuery),
		)
	}
	return &decision, nil
}
