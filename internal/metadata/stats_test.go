package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTSV writes plain content to dir/name and returns the path.
func writeTSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestRefLength verifies ref_length extraction, including the last-row-
// wins rule for appended stats.
func TestRefLength(t *testing.T) {
	path := writeTSV(t, t.TempDir(), "output_stats.tsv",
		"date\tsample_count\tref_length\n"+
			"2025-06-01\t11000\t15222\n"+
			"2025-07-01\t12034\t15223\n")

	n, err := RefLength(path)
	require.NoError(t, err)
	assert.Equal(t, 15223, n)
}

// TestRefLength_MissingColumn verifies the diagnostic when the builder
// wrote stats without a ref_length column.
func TestRefLength_MissingColumn(t *testing.T) {
	path := writeTSV(t, t.TempDir(), "output_stats.tsv",
		"date\tsample_count\n2025-06-01\t11000\n")

	_, err := RefLength(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ref_length")
}

// TestRefLength_NoRows verifies a header-only file is an error rather
// than a silent zero.
func TestRefLength_NoRows(t *testing.T) {
	path := writeTSV(t, t.TempDir(), "output_stats.tsv", "ref_length\n")

	_, err := RefLength(path)
	assert.Error(t, err)
}

// TestStats verifies generic row parsing for the summary command.
func TestStats(t *testing.T) {
	path := writeTSV(t, t.TempDir(), "output_stats.tsv",
		"date\tsample_count\tref_length\n2025-07-01\t12034\t15223\n")

	rows, err := Stats(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "12034", rows[0]["sample_count"])
	assert.Equal(t, "15223", rows[0]["ref_length"])
}

// TestColumnsString verifies header-to-comma-list conversion for both
// plain and gzipped TSVs (the format usher_to_taxonium's -c flag takes).
func TestColumnsString(t *testing.T) {
	dir := t.TempDir()

	plain := writeTSV(t, dir, "meta.tsv", "strain\tdate\tcountry\ns1\t2023\tUSA\n")
	cols, err := ColumnsString(plain)
	require.NoError(t, err)
	assert.Equal(t, "strain,date,country", cols)

	gz := writeTSVGz(t, dir, "meta.tsv.gz", "strain\tdate\tpango_lineage\n")
	cols, err = ColumnsString(gz)
	require.NoError(t, err)
	assert.Equal(t, "strain,date,pango_lineage", cols)
}
