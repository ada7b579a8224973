package genbank

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSeq is 60 bases; the first 12 are a toy CDS (atg aaa gtg taa → MKV
// plus a trailing stop).
const testSeq = "atgaaagtgtaacctgtacggttcaacgtagtcaggtacctgacgtacgtacgtacgtag"

// testGBFF is a minimal but well-formed GBFF record in the shape RefSeq
// emits for viral genomes.
const testGBFF = `LOCUS       NC_000001               60 bp ss-RNA     linear   VRL 01-JAN-2024
DEFINITION  Toy virus, complete genome.
ACCESSION   NC_000001
VERSION     NC_000001.1
SOURCE      Toy virus
FEATURES             Location/Qualifiers
     source          1..60
                     /organism="Toy virus"
                     /mol_type="genomic RNA"
     gene            1..12
                     /gene="toy"
     CDS             1..12
                     /gene="toy"
                     /codon_start=1
                     /product="toy protein, truncated for testing purposes with a
                     long product line"
                     /translation="MKV"
ORIGIN
        1 atgaaagtgt aacctgtacg gttcaacgta gtcaggtacc tgacgtacgt acgtacgtag
//
`

func writeGBFF(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ref.gbff")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestParseFile verifies record parsing: accession from VERSION,
// definition, feature table structure, multi-line qualifier joining, and
// ORIGIN sequence assembly.
func TestParseFile(t *testing.T) {
	records, err := ParseFile(writeGBFF(t, testGBFF))
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "NC_000001.1", rec.Accession)
	assert.Equal(t, "Toy virus, complete genome.", rec.Definition)
	assert.Equal(t, testSeq, rec.Sequence)

	require.Len(t, rec.Features, 3)
	assert.Equal(t, "source", rec.Features[0].Key)
	assert.Equal(t, "1..60", rec.Features[0].Location)

	cds := rec.Features[2]
	assert.Equal(t, "CDS", cds.Key)
	assert.Equal(t, "1..12", cds.Location)

	translation, ok := cds.Qualifier("translation")
	require.True(t, ok)
	assert.Equal(t, "MKV", translation)

	// Multi-line prose qualifiers are joined with a space.
	product, ok := cds.Qualifier("product")
	require.True(t, ok)
	assert.Equal(t, "toy protein, truncated for testing purposes with a long product line", product)

	// Unquoted qualifiers stay unquoted.
	codonStart, ok := cds.Qualifier("codon_start")
	require.True(t, ok)
	assert.Equal(t, "1", codonStart)
}

// TestParseFile_WrappedDefinition verifies that a DEFINITION spanning
// several lines is joined in full. RefSeq wraps long definitions at 79
// columns, so isolate names routinely push them past one line.
func TestParseFile_WrappedDefinition(t *testing.T) {
	gbff := strings.Replace(testGBFF,
		"DEFINITION  Toy virus, complete genome.\n",
		"DEFINITION  Human respiratory syncytial virus A isolate\n"+
			"            hRSV/A/England/397/2017,\n"+
			"            complete genome.\n", 1)

	records, err := ParseFile(writeGBFF(t, gbff))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t,
		"Human respiratory syncytial virus A isolate hRSV/A/England/397/2017, complete genome.",
		records[0].Definition)
	// The continuation must stop at the next keyword.
	assert.Equal(t, "NC_000001.1", records[0].Accession)
}

// TestFind verifies accession lookup, including the unversioned fallback
// for config files that omit the version suffix.
func TestFind(t *testing.T) {
	records, err := ParseFile(writeGBFF(t, testGBFF))
	require.NoError(t, err)

	rec, err := Find(records, "NC_000001.1")
	require.NoError(t, err)
	assert.Equal(t, "NC_000001.1", rec.Accession)

	rec, err = Find(records, "NC_000001")
	require.NoError(t, err)
	assert.Equal(t, "NC_000001.1", rec.Accession)

	_, err = Find(records, "NC_999999.1")
	assert.Error(t, err)
}

// TestWriteFile_RoundTrip verifies that a parsed record written back out
// parses identically: same features, qualifiers, and sequence, with the
// ORIGIN block rewrapped at 60 bases in 10-base groups.
func TestWriteFile_RoundTrip(t *testing.T) {
	records, err := ParseFile(writeGBFF(t, testGBFF))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "roundtrip.gbff")
	require.NoError(t, WriteFile(out, records))

	again, err := ParseFile(out)
	require.NoError(t, err)
	require.Len(t, again, 1)

	assert.Equal(t, records[0].Accession, again[0].Accession)
	assert.Equal(t, records[0].Sequence, again[0].Sequence)
	require.Len(t, again[0].Features, len(records[0].Features))
	for i := range records[0].Features {
		assert.Equal(t, records[0].Features[i].Key, again[0].Features[i].Key)
		assert.Equal(t, records[0].Features[i].Location, again[0].Features[i].Location)
		assert.Equal(t, records[0].Features[i].Qualifiers, again[0].Features[i].Qualifiers)
	}

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "        1 atgaaagtgt aacctgtacg",
		"ORIGIN positions are right-aligned to 9 columns")
	assert.True(t, strings.HasSuffix(strings.TrimRight(string(data), "\n"), "//"))
}

// TestParseSpan verifies simple location parsing; compound locations are
// rejected so their translations are left alone.
func TestParseSpan(t *testing.T) {
	span, ok := ParseSpan("266..21555")
	require.True(t, ok)
	assert.Equal(t, Span{Start: 266, End: 21555}, span)

	span, ok = ParseSpan("complement(3..8)")
	require.True(t, ok)
	assert.Equal(t, Span{Start: 3, End: 8, Complement: true}, span)

	span, ok = ParseSpan("<1..>60")
	require.True(t, ok)
	assert.Equal(t, Span{Start: 1, End: 60}, span)

	_, ok = ParseSpan("join(266..13468,13468..21555)")
	assert.False(t, ok)
}
