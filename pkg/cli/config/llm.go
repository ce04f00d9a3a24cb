package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/urfave/cli/v3"

	llmsvc "github.com/BrianJenney/brian-clone/pkg/service/llm"
)

// LLM holds configuration for the Gemini-backed gateway. Routing uses the
// fast model; agents and the summarizer use the capable one.
type LLM struct {
	projectID    string
	location     string
	fastModel    string
	capableModel string
}

// Flags returns CLI flags for LLM configuration
func (l *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API",
			Sources:     cli.EnvVars("BRIANCLONE_GEMINI_PROJECT"),
			Destination: &l.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Value:       "us-central1",
			Sources:     cli.EnvVars("BRIANCLONE_GEMINI_LOCATION"),
			Destination: &l.location,
		},
		&cli.StringFlag{
			Name:        "llm-fast-model",
			Usage:       "Model for routing calls",
			Value:       "gemini-2.0-flash",
			Sources:     cli.EnvVars("BRIANCLONE_LLM_FAST_MODEL"),
			Destination: &l.fastModel,
		},
		&cli.StringFlag{
			Name:        "llm-capable-model",
			Usage:       "Model for agent and summarizer calls",
			Value:       "gemini-2.5-pro",
			Sources:     cli.EnvVars("BRIANCLONE_LLM_CAPABLE_MODEL"),
			Destination: &l.capableModel,
		},
	}
}

// LogAttrs returns log attributes for the LLM configuration
func (l *LLM) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("project_id", l.projectID),
		slog.String("location", l.location),
		slog.String("fast_model", l.fastModel),
		slog.String("capable_model", l.capableModel),
	}
}

// Configure creates the LLM gateway from the configured flags
func (l *LLM) Configure(ctx context.Context) (*llmsvc.Gateway, error) {
	if l.projectID == "" {
		return nil, goerr.Wrap(ErrInvalidConfig, "gemini project ID is required")
	}

	fast, err := gemini.New(ctx, l.projectID, l.location, gemini.WithModel(l.fastModel))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create fast LLM client", goerr.V("model", l.fastModel))
	}

	capable, err := gemini.New(ctx, l.projectID, l.location, gemini.WithModel(l.capableModel))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create capable LLM client", goerr.V("model", l.capableModel))
	}

	return llmsvc.New(fast, capable), nil
}
