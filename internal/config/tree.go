package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/seqclade/vut/internal/model"
)

// TreeConfig is the subset of a tree's config.toml that vut consumes.
// viral_usher writes many more keys (ncbi taxid, clade columns, usher
// options); they are ignored during decoding.
type TreeConfig struct {
	// RefSeqAcc is the reference accession used to name the <acc>.gbff
	// and <acc>.fa files and to fetch them from NCBI.
	RefSeqAcc string `toml:"refseq_acc"`
}

// LoadTreeConfig reads and parses a per-tree config.toml.
//
// Returns a CLIError with ExitConfigError if the file does not exist,
// is not valid TOML, or lacks a usable refseq_acc value.
func LoadTreeConfig(path string) (*TreeConfig, error) {
	var cfg TreeConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(model.ExitConfigError,
				fmt.Sprintf("config.toml not found: %s", path), err)
		}
		return nil, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to parse %s", path), err)
	}

	if cfg.RefSeqAcc == "" {
		return nil, model.NewCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to find refseq_acc in %s", path))
	}
	if err := model.ValidateAccession(cfg.RefSeqAcc); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("bad refseq_acc in %s", path), err)
	}

	return &cfg, nil
}
