package model

import (
	"github.com/BrianJenney/brian-clone/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// RouterDecision is the structured output of the routing call: which agents
// to run and a single refined query shared by all of them.
// An empty Agents slice is a valid outcome and selects the direct answer path.
type RouterDecision struct {
	Agents       []types.AgentName `json:"agents"`
	RefinedQuery string            `json:"refinedQuery"`
}

// Validate checks the decision against the closed agent set.
// Duplicates and unknown names are rejected; RefinedQuery must be non-empty
// unless no agents were selected.
func (d RouterDecision) Validate() error {
	seen := make(map[types.AgentName]bool, len(d.Agents))
	for _, name := range d.Agents {
		if !name.IsValid() {
			return goerr.New("unknown agent name in router decision", goerr.V("agent", name))
		}
		if seen[name] {
			return goerr.New("duplicate agent name in router decision", goerr.V("agent", name))
		}
		seen[name] = true
	}
	if len(d.Agents) > 0 && d.RefinedQuery == "" {
		return goerr.New("refined query cannot be empty when agents are selected")
	}
	return nil
}

// AgentResult pairs one selected agent with its text answer. Err is only
// populated in partial-failure mode; a nil Err means Response is usable.
type AgentResult struct {
	Agent    types.AgentName
	Response string
	Err      error
}
