package docstore

import (
	"context"
	"encoding/json"
	"os"
	"sort"

	"github.com/BrianJenney/brian-clone/pkg/domain/interfaces"
	"github.com/BrianJenney/brian-clone/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is returned when a logical document name is not registered
var ErrNotFound = goerr.New("document not found")

// Store reads flat JSON documents from disk. The logical name to file path
// registry comes from the app configuration and never changes after start.
type Store struct {
	registry map[string]string
}

var _ interfaces.DocumentStore = (*Store)(nil)

// New creates a Store over the given name to path registry
func New(registry map[string]string) *Store {
	copied := make(map[string]string, len(registry))
	for name, path := range registry {
		copied[name] = path
	}
	return &Store{registry: copied}
}

func (s *Store) Read(ctx context.Context, name string) (*model.Document, error) {
	path, ok := s.registry[name]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "unknown document", goerr.V("name", name))
	}

	// #nosec G304 - paths come from the operator-provided config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read document file",
			goerr.V("name", name),
			goerr.V("path", path),
		)
	}

	var content map[string]any
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, goerr.Wrap(err, "failed to parse document JSON",
			goerr.V("name", name),
			goerr.V("path", path),
		)
	}

	return &model.Document{Name: name, Content: content}, nil
}

func (s *Store) Names() []string {
	names := make([]string, 0, len(s.registry))
	for name := range s.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
