package genbank

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRewrite verifies the altered-GBFF behavior: the sequence is
// replaced, annotations are preserved, and the CDS translation is
// recomputed from the new bases. The substitution aaa→aga at codon 2
// changes the translation MKV→MRV.
func TestRewrite(t *testing.T) {
	records, err := ParseFile(writeGBFF(t, testGBFF))
	require.NoError(t, err)
	rec := records[0]

	newSeq := "atgagagtgtaa" + testSeq[12:]
	require.Len(t, newSeq, len(testSeq))

	altered, err := Rewrite(rec, strings.ToUpper(newSeq))
	require.NoError(t, err)

	assert.Equal(t, newSeq, altered.Sequence, "sequence is stored lowercase")
	assert.Equal(t, rec.Accession, altered.Accession)

	translation, ok := altered.Features[2].Qualifier("translation")
	require.True(t, ok)
	assert.Equal(t, "MRV", translation)

	// Non-CDS features and other qualifiers are untouched.
	organism, ok := altered.Features[0].Qualifier("organism")
	require.True(t, ok)
	assert.Equal(t, "Toy virus", organism)

	// The input record is not mutated.
	original, _ := rec.Features[2].Qualifier("translation")
	assert.Equal(t, "MKV", original)
}

// TestRewrite_LengthMismatch verifies that a replacement sequence of a
// different length is rejected: matUtils rewrites bases in place, so a
// length change means the wrong file was passed.
func TestRewrite_LengthMismatch(t *testing.T) {
	records, err := ParseFile(writeGBFF(t, testGBFF))
	require.NoError(t, err)

	_, err = Rewrite(records[0], "atg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "length")
}

// TestRewrite_WriteAltered verifies the end-to-end altered file: written
// and reparsed, it carries the new sequence and translation.
func TestRewrite_WriteAltered(t *testing.T) {
	records, err := ParseFile(writeGBFF(t, testGBFF))
	require.NoError(t, err)

	newSeq := "atgagagtgtaa" + testSeq[12:]
	altered, err := Rewrite(records[0], newSeq)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "altered.gbff")
	require.NoError(t, WriteFile(out, []*Record{altered}))

	again, err := ParseFile(out)
	require.NoError(t, err)
	assert.Equal(t, newSeq, again[0].Sequence)
	translation, _ := again[0].Features[2].Qualifier("translation")
	assert.Equal(t, "MRV", translation)
}

// TestTranslate verifies standard-code translation: internal stops stay
// as '*', one trailing stop is trimmed, ambiguous codons become X, and a
// trailing partial codon is dropped.
func TestTranslate(t *testing.T) {
	assert.Equal(t, "MKV", Translate("atgaaagtgtaa"))
	assert.Equal(t, "M*K", Translate("atgtaaaaa"))
	assert.Equal(t, "MX", Translate("atgann"))
	assert.Equal(t, "M", Translate("atggt"))
	assert.Equal(t, "MKV", Translate("ATGAAAGTGTAA"), "case-insensitive")
}

// TestReverseComplement verifies reverse complementation including IUPAC
// ambiguity codes and case preservation.
func TestReverseComplement(t *testing.T) {
	assert.Equal(t, "ttacactttcat", ReverseComplement("atgaaagtgtaa"))
	assert.Equal(t, "nryk", ReverseComplement("mryn"))
	assert.Equal(t, "CAT", ReverseComplement("ATG"))
}

// TestRewrite_AddsMissingTranslation verifies that a simple-span CDS
// without a /translation qualifier gains one, computed from the new
// sequence and quoted like any other translation.
func TestRewrite_AddsMissingTranslation(t *testing.T) {
	gbff := strings.Replace(testGBFF, "                     /translation=\"MKV\"\n", "", 1)
	records, err := ParseFile(writeGBFF(t, gbff))
	require.NoError(t, err)

	cds := records[0].Features[2]
	_, ok := cds.Qualifier("translation")
	require.False(t, ok)

	newSeq := "atgagagtgtaa" + testSeq[12:]
	altered, err := Rewrite(records[0], newSeq)
	require.NoError(t, err)

	translation, ok := altered.Features[2].Qualifier("translation")
	require.True(t, ok)
	assert.Equal(t, "MRV", translation)

	last := altered.Features[2].Qualifiers[len(altered.Features[2].Qualifiers)-1]
	assert.True(t, last.Quoted, "added translation is written quoted")
}

// TestRewrite_ComplementCDS verifies retranslation of a minus-strand CDS.
func TestRewrite_ComplementCDS(t *testing.T) {
	// Sequence whose 1..12 reverse complement is atgaaagtgtaa (MKV).
	seq := ReverseComplement("atgaaagtgtaa") + testSeq[12:]
	gbff := strings.Replace(testGBFF, "     CDS             1..12", "     CDS             complement(1..12)", 1)
	gbff = strings.Replace(gbff, "        1 atgaaagtgt aacctgtacg", "        1 "+seq[:10]+" "+seq[10:20], 1)

	records, err := ParseFile(writeGBFF(t, gbff))
	require.NoError(t, err)

	// Same substitution on the minus strand: aaa→aga at codon 2.
	newSeq := ReverseComplement("atgagagtgtaa") + records[0].Sequence[12:]
	altered, err := Rewrite(records[0], newSeq)
	require.NoError(t, err)

	translation, ok := altered.Features[2].Qualifier("translation")
	require.True(t, ok)
	assert.Equal(t, "MRV", translation)
}
