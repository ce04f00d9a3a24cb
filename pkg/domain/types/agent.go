package types

import "fmt"

// AgentName identifies one of the specialized retrieval agents the router
// can select for a chat turn.
type AgentName string

const (
	AgentVideoResearch   AgentName = "videoResearch"
	AgentBusinessContext AgentName = "businessContext"
	AgentWritingSamples  AgentName = "writingSamples"
	AgentResources       AgentName = "resources"
	AgentExcalidrawer    AgentName = "excalidrawer"
)

// AllAgentNames returns the closed set of valid agent names
func AllAgentNames() []AgentName {
	return []AgentName{
		AgentVideoResearch,
		AgentBusinessContext,
		AgentWritingSamples,
		AgentResources,
		AgentExcalidrawer,
	}
}

// IsValid checks if the agent name is one of the closed set
func (n AgentName) IsValid() bool {
	switch n {
	case AgentVideoResearch,
		AgentBusinessContext,
		AgentWritingSamples,
		AgentResources,
		AgentExcalidrawer:
		return true
	default:
		return false
	}
}

// String returns the string representation of the agent name
func (n AgentName) String() string {
	return string(n)
}

// ParseAgentName parses a string into an AgentName
func ParseAgentName(s string) (AgentName, error) {
	name := AgentName(s)
	if !name.IsValid() {
		return "", fmt.Errorf("invalid agent name: %s", s)
	}
	return name, nil
}
