package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/seqclade/vut/internal/model"
)

// DefaultTreesDir is the trees root used when config.yaml is absent or
// does not set path_to_viruses.
const DefaultTreesDir = "trees"

// Workspace is the top-level config.yaml of a viral_usher_trees
// checkout. Both keys are optional.
type Workspace struct {
	// PathToViruses is the directory containing one subdirectory per tree.
	PathToViruses string `yaml:"path_to_viruses"`

	// Viruses optionally restricts which tree directories the bulk
	// commands (fetch-refs, summary, list) operate on. An empty list
	// means every directory under the trees root.
	Viruses []string `yaml:"viruses"`
}

// LoadWorkspace reads config.yaml from the given path. A missing file is
// not an error — it yields a Workspace with defaults, so the tool works
// in a bare checkout that only has a trees/ directory.
func LoadWorkspace(path string) (*Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Workspace{}, nil
		}
		return nil, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to read %s", path), err)
	}

	var ws Workspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to parse %s", path), err)
	}
	return &ws, nil
}

// TreesDir returns the configured trees root, or DefaultTreesDir when
// path_to_viruses is unset.
func (w *Workspace) TreesDir() string {
	if w.PathToViruses != "" {
		return w.PathToViruses
	}
	return DefaultTreesDir
}

// Selects reports whether the named tree is covered by the viruses
// allowlist. An empty allowlist selects everything.
func (w *Workspace) Selects(name string) bool {
	if len(w.Viruses) == 0 {
		return true
	}
	for _, v := range w.Viruses {
		if v == name {
			return true
		}
	}
	return false
}
