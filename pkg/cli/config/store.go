package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/BrianJenney/brian-clone/pkg/domain/interfaces"
	"github.com/BrianJenney/brian-clone/pkg/repository/memory"
	"github.com/BrianJenney/brian-clone/pkg/repository/postgres"
)

// Store holds configuration for the semantic store backend
type Store struct {
	backend string
	dsn     string
}

// Flags returns CLI flags for store configuration
func (s *Store) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "store-backend",
			Usage:       "Semantic store backend (postgres, memory)",
			Value:       "postgres",
			Sources:     cli.EnvVars("BRIANCLONE_STORE_BACKEND"),
			Destination: &s.backend,
		},
		&cli.StringFlag{
			Name:        "store-dsn",
			Usage:       "Postgres connection string (requires pgvector)",
			Sources:     cli.EnvVars("BRIANCLONE_STORE_DSN"),
			Destination: &s.dsn,
		},
	}
}

// LogAttrs returns log attributes for the store configuration. The DSN is
// omitted because it carries credentials.
func (s *Store) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("backend", s.backend),
	}
}

// DSN returns the raw connection string, used by the migrate command
func (s *Store) DSN() string {
	return s.dsn
}

// Configure creates the semantic store for the configured backend
func (s *Store) Configure(ctx context.Context) (interfaces.SemanticStore, error) {
	switch s.backend {
	case "postgres", "":
		if s.dsn == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "store DSN is required for the postgres backend")
		}
		store, err := postgres.New(ctx, s.dsn)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create postgres store")
		}
		return store, nil

	case "memory":
		return memory.New(), nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "unknown store backend", goerr.V("backend", s.backend))
	}
}
