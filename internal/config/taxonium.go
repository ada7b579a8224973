package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/seqclade/vut/internal/model"
)

// TaxoniumConfigName is the per-tree file forwarded to usher_to_taxonium
// via --config_json when present.
const TaxoniumConfigName = "taxonium_config.json"

// TaxoniumConfig holds the fields of taxonium_config.json that vut
// itself inspects. The full file is forwarded verbatim to
// usher_to_taxonium; only the title is read here so the CLI can use it
// instead of the generated "Treetime-rerooted <tree>" default.
type TaxoniumConfig struct {
	// Title overrides the taxonium view title, when set.
	Title string `json:"title,omitempty"`
}

// FindTaxoniumConfig returns the path to a tree's taxonium_config.json
// and whether it exists.
func FindTaxoniumConfig(treeDir string) (string, bool) {
	path := filepath.Join(treeDir, TaxoniumConfigName)
	info, err := os.Stat(path)
	return path, err == nil && !info.IsDir()
}

// LoadTaxoniumConfig reads and parses a taxonium_config.json. The file
// is JSONC-tolerant: comments and trailing commas are stripped before
// parsing, matching how these hand-edited view configs appear in the
// wild. Parsing up front means a broken config fails the reroot command
// before any external tool has run.
func LoadTaxoniumConfig(path string) (*TaxoniumConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to read %s", path), err)
	}

	var cfg TaxoniumConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to parse %s", path), err)
	}
	return &cfg, nil
}
