package extern

import (
	"context"
	"strconv"
	"strings"
)

// Tool binary names as installed by the usher and treetime packages.
const (
	TreetimeBin        = "treetime"
	MatUtilsBin        = "matUtils"
	UsherToTaxoniumBin = "usher_to_taxonium"
)

// TreetimeClock runs `treetime clock` over a scaled Newick and a dates
// CSV, writing results (rtt.csv, rerooted.newick) into outDir and teeing
// tool output to logPath.
func TreetimeClock(ctx context.Context, seqLen int, treePath, datesPath, outDir, logPath string) error {
	_, err := runTool(ctx, logPath, TreetimeBin, "clock",
		"--sequence-length", strconv.Itoa(seqLen),
		"--tree", treePath,
		"--dates", datesPath,
		"--outdir", outDir,
	)
	return err
}

// MatUtilsReroot runs `matUtils extract --reroot` to apply treetime's
// rooting to a mutation-annotated tree. matUtils also rewrites the
// reference FASTA to match the new root and saves it at rerootedRef.
func MatUtilsReroot(ctx context.Context, inputPB, node, refFasta, rerootedRef, outPB string) error {
	_, err := runTool(ctx, "", MatUtilsBin, "extract",
		"-i", inputPB,
		"--reroot", node,
		"--input-fasta", refFasta,
		"--write-reroot-reference", rerootedRef,
		"-o", outPB,
	)
	return err
}

// MatUtilsSummary runs `matUtils summary` on a mutation-annotated tree
// and parses its "Name: value" stdout lines into a map. The key set is
// owned by matUtils; callers pick out the fields they need and must
// tolerate absences across matUtils versions.
func MatUtilsSummary(ctx context.Context, inputPB string) (map[string]string, error) {
	out, err := runTool(ctx, "", MatUtilsBin, "summary", "-i", inputPB)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key != "" && value != "" {
			stats[key] = value
		}
	}
	return stats, nil
}

// TaxoniumArgs collects the inputs of a usher_to_taxonium run.
type TaxoniumArgs struct {
	InputPB    string // rerooted mutation-annotated tree
	Metadata   string // metadata.tsv.gz
	GenBank    string // rewritten reference GBFF for gene annotation
	Columns    string // comma-separated metadata columns to carry over
	Title      string // view title
	ConfigJSON string // optional taxonium view config, forwarded verbatim
	Output     string // output .jsonl.gz
}

// UsherToTaxonium exports a rerooted tree to taxonium's jsonl format.
func UsherToTaxonium(ctx context.Context, a TaxoniumArgs) error {
	args := []string{
		"-i", a.InputPB,
		"-m", a.Metadata,
		"--genbank", a.GenBank,
		"-c", a.Columns,
		"--title", a.Title,
	}
	if a.ConfigJSON != "" {
		args = append(args, "--config_json", a.ConfigJSON)
	}
	args = append(args, "-o", a.Output)

	_, err := runTool(ctx, "", UsherToTaxoniumBin, args...)
	return err
}
