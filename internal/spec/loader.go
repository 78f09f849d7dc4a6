package spec

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/quorumlabs/nodeops/internal/errdefs"
)

// Load reads a specification document. An absent file returns ErrNotFound;
// malformed YAML returns ErrInvalidInput.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errdefs.NotFoundf("spec file %s", path)
		}
		return nil, fmt.Errorf("failed to read spec file %s: %w", path, err)
	}

	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errdefs.InvalidInputf("spec file %s is not valid YAML: %v", path, err)
	}
	return &s, nil
}

// Sync writes the specification to disk, creating parent directories and
// overwriting the whole file. The document on disk is always a complete
// snapshot, never a partial update.
func (s *Spec) Sync(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to serialize spec: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create spec directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write spec file %s: %w", path, err)
	}
	return nil
}
