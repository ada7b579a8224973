package phylo

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/evolbioinfo/gotree/io/newick"
	"github.com/klauspost/pgzip"

	"github.com/seqclade/vut/internal/model"
)

// ScaleBranchLengths reads a Newick tree (gzipped when the path ends in
// .gz), multiplies every branch length by 1/refLen, and writes the
// result to outPath. usher exports branch lengths in substitutions;
// treetime clock wants substitutions per site, hence the division by the
// reference length.
//
// Branches without a length (or with length zero) are left untouched.
func ScaleBranchLengths(inPath, outPath string, refLen int) error {
	if refLen <= 0 {
		return model.NewCLIError(model.ExitMetadataError,
			fmt.Sprintf("cannot scale %s: reference length %d is not positive", inPath, refLen))
	}

	f, err := os.Open(inPath)
	if err != nil {
		return model.WrapCLIError(model.ExitTreeNotFound,
			fmt.Sprintf("failed to open %s", inPath), err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(inPath, ".gz") {
		zr, err := pgzip.NewReader(f)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("%s is not valid gzip", inPath), err)
		}
		defer zr.Close()
		r = zr
	}

	t, err := newick.NewParser(r).Parse()
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to parse newick in %s", inPath), err)
	}

	factor := 1.0 / float64(refLen)
	for _, e := range t.Edges() {
		if l := e.Length(); l > 0 {
			e.SetLength(l * factor)
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to create %s", outPath), err)
	}
	defer out.Close()

	if _, err := io.WriteString(out, t.Newick()+"\n"); err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to write %s", outPath), err)
	}
	return out.Close()
}
