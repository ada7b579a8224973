package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqclade/vut/internal/model"
)

// writeFile is a small fixture helper: it writes content into dir/name
// and returns the full path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoadTreeConfig verifies refseq_acc extraction from a realistic
// viral_usher config.toml, including keys we do not consume and both
// single- and double-quoted TOML strings.
func TestLoadTreeConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", `
# viral_usher config
refseq_acc = 'NC_045512.2'
refseq_assembly = "GCF_009858895.2"
taxonomy_id = "2697049"
extra_fasta = ""
`)

	cfg, err := LoadTreeConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "NC_045512.2", cfg.RefSeqAcc)

	path = writeFile(t, t.TempDir(), "config.toml", `refseq_acc = "NC_001781.1"`)
	cfg, err = LoadTreeConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "NC_001781.1", cfg.RefSeqAcc)
}

// TestLoadTreeConfig_MissingKey verifies that a config.toml without
// refseq_acc fails with ExitConfigError, naming the file.
func TestLoadTreeConfig_MissingKey(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", `taxonomy_id = "11250"`)

	_, err := LoadTreeConfig(path)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitConfigError, cliErr.Code)
	assert.Contains(t, err.Error(), path)
}

// TestLoadTreeConfig_MissingFile verifies the not-found case carries
// ExitConfigError rather than a raw os error.
func TestLoadTreeConfig_MissingFile(t *testing.T) {
	_, err := LoadTreeConfig(filepath.Join(t.TempDir(), "config.toml"))
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitConfigError, cliErr.Code)
}

// TestLoadTreeConfig_BadAccession verifies that an accession that could
// not be a RefSeq/GenBank identifier is rejected at load time, before it
// reaches a file name or an efetch URL.
func TestLoadTreeConfig_BadAccession(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", `refseq_acc = "not an accession"`)

	_, err := LoadTreeConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refseq_acc")
}
