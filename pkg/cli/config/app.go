package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// App holds the application configuration: the business-context document
// registry (TOML file) and the optional auth secret.
type App struct {
	configPath string
	authSecret string
}

// DocumentEntry maps a logical document name to a JSON file on disk
type DocumentEntry struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

type appFile struct {
	Documents []DocumentEntry `toml:"document"`
}

// Flags returns CLI flags for application configuration
func (a *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to the TOML application config (document registry)",
			Sources:     cli.EnvVars("BRIANCLONE_CONFIG"),
			Destination: &a.configPath,
		},
		&cli.StringFlag{
			Name:        "auth-secret",
			Usage:       "Shared secret for session cookie validation (auth disabled if empty)",
			Sources:     cli.EnvVars("BRIANCLONE_AUTH_SECRET"),
			Destination: &a.authSecret,
		},
	}
}

// LogAttrs returns log attributes for the app configuration
func (a *App) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("config_path", a.configPath),
		slog.Bool("auth", a.authSecret != ""),
	}
}

// AuthSecret returns the session cookie secret, empty when auth is disabled
func (a *App) AuthSecret() []byte {
	if a.authSecret == "" {
		return nil
	}
	return []byte(a.authSecret)
}

// Configure loads and validates the document registry. A missing --config
// yields an empty registry, not an error.
func (a *App) Configure() (map[string]string, error) {
	registry := map[string]string{}
	if a.configPath == "" {
		return registry, nil
	}

	data, err := os.ReadFile(a.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "application config does not exist",
				goerr.V("config_path", a.configPath))
		}
		return nil, goerr.Wrap(err, "failed to read application config",
			goerr.V("config_path", a.configPath))
	}

	var file appFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse application config",
			goerr.V("config_path", a.configPath))
	}

	for i, doc := range file.Documents {
		if doc.Name == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "document name is required", goerr.V("index", i))
		}
		if doc.Path == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "document path is required", goerr.V("name", doc.Name))
		}
		if _, exists := registry[doc.Name]; exists {
			return nil, goerr.Wrap(ErrInvalidConfig, "duplicate document name", goerr.V("name", doc.Name))
		}
		registry[doc.Name] = doc.Path
	}
	return registry, nil
}
