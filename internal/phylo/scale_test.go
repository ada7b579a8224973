package phylo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evolbioinfo/gotree/io/newick"
	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScaleBranchLengths verifies that every branch length is divided by
// the reference length, converting substitutions to substitutions per site.
func TestScaleBranchLengths(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "viz.nwk")
	out := filepath.Join(dir, "viz.scaled.nwk")
	require.NoError(t, os.WriteFile(in, []byte("((A:10,B:20):5,C:40);\n"), 0o644))

	require.NoError(t, ScaleBranchLengths(in, out, 10))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	tr, err := newick.NewParser(strings.NewReader(string(data))).Parse()
	require.NoError(t, err)

	var got []float64
	for _, e := range tr.Edges() {
		got = append(got, e.Length())
	}
	assert.ElementsMatch(t, []float64{1.0, 2.0, 0.5, 4.0}, got)
}

// TestScaleBranchLengths_Gzip verifies transparent decompression of a
// viz.nwk.gz input.
func TestScaleBranchLengths_Gzip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "viz.nwk.gz")
	out := filepath.Join(dir, "viz.scaled.nwk")

	f, err := os.Create(in)
	require.NoError(t, err)
	zw := pgzip.NewWriter(f)
	_, err = zw.Write([]byte("(A:100,B:300);\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	require.NoError(t, ScaleBranchLengths(in, out, 100))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	tr, err := newick.NewParser(strings.NewReader(string(data))).Parse()
	require.NoError(t, err)

	var got []float64
	for _, e := range tr.Edges() {
		got = append(got, e.Length())
	}
	assert.ElementsMatch(t, []float64{1.0, 3.0}, got)
}

// TestScaleBranchLengths_BadRefLen verifies a non-positive reference
// length is rejected before any file is written.
func TestScaleBranchLengths_BadRefLen(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "viz.nwk")
	require.NoError(t, os.WriteFile(in, []byte("(A:1,B:2);\n"), 0o644))

	err := ScaleBranchLengths(in, filepath.Join(dir, "out.nwk"), 0)
	assert.Error(t, err)
}
