package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seqclade/vut/internal/config"
	"github.com/seqclade/vut/internal/extern"
	"github.com/seqclade/vut/internal/genbank"
	"github.com/seqclade/vut/internal/metadata"
	"github.com/seqclade/vut/internal/model"
	"github.com/seqclade/vut/internal/phylo"
	"github.com/seqclade/vut/internal/trees"
)

// rerootFlags holds the flag values for the reroot command.
type rerootFlags struct {
	minRealDates float64 // --min-real-dates: date coverage required to run treetime
	skipTaxonium bool    // --skip-taxonium: stop after the rerooted tree is written
}

// NewRerootCommand creates the "reroot" cobra command.
func NewRerootCommand() *cobra.Command {
	flags := &rerootFlags{}

	cmd := &cobra.Command{
		Use:   "reroot <tree> [tree...]",
		Short: "Reroot trees on treetime's molecular clock estimate",
		Long: `Reroot built trees using treetime's root-to-tip regression.

For each tree the pipeline is:
  1. scan metadata.tsv.gz for sample dates (skip the tree if too few
     samples have one)
  2. rescale viz.nwk.gz branch lengths by 1/ref_length and write
     dates.csv for treetime
  3. run treetime clock, pick the oldest internal node from rtt.csv
  4. run matUtils extract --reroot to produce timetree_rerooted.pb.gz
     and the rerooted reference FASTA
  5. rewrite the reference GBFF against the rerooted sequence,
     retranslating CDS features
  6. run usher_to_taxonium to export timetree_rerooted.jsonl.gz

A tree whose date coverage is below --min-real-dates is skipped, not
failed: trees without dates simply cannot be clock-rooted.

Examples:
  vut reroot rsv-a
  vut reroot --skip-taxonium rsv-a rsv-b
  vut reroot --min-real-dates 0.5 enterovirus-d68`,

		Args: cobra.MinimumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runReroot(cmd.Context(), args, flags)
		},
	}

	cmd.Flags().Float64Var(&flags.minRealDates, "min-real-dates", 0.8,
		"Minimum fraction of samples with a usable date")
	cmd.Flags().BoolVar(&flags.skipTaxonium, "skip-taxonium", false,
		"Skip the usher_to_taxonium export step")

	return cmd
}

// rerootResult records the outcome for one tree.
type rerootResult struct {
	Tree           string  `json:"tree"`
	Skipped        bool    `json:"skipped"`
	SkipReason     string  `json:"skipReason,omitempty"`
	DateProportion float64 `json:"dateProportion"`
	RootNode       string  `json:"rootNode,omitempty"`
	RerootedPB     string  `json:"rerootedPB,omitempty"`
	TaxoniumJSONL  string  `json:"taxoniumJSONL,omitempty"`
}

// runReroot reroots the named trees in order. Unlike fetch-refs, trees
// are processed sequentially: treetime and matUtils are themselves
// multi-threaded and memory hungry, so running them side by side buys
// nothing.
func runReroot(ctx context.Context, args []string, flags *rerootFlags) error {
	_, layout, err := resolveWorkspace()
	if err != nil {
		return err
	}

	// Fail before any work if a needed tool is not installed.
	tools := []string{extern.TreetimeBin, extern.MatUtilsBin}
	if !flags.skipTaxonium {
		tools = append(tools, extern.UsherToTaxoniumBin)
	}
	for _, tool := range tools {
		if err := extern.LookPath(tool); err != nil {
			return err
		}
	}

	var results []rerootResult
	for _, name := range args {
		res, err := rerootOne(ctx, layout, name, flags)
		if err != nil {
			return err
		}
		results = append(results, res)
	}

	printRerootResults(results)
	return nil
}

// rerootOne runs the full reroot pipeline for one tree.
func rerootOne(ctx context.Context, layout *trees.Layout, name string, flags *rerootFlags) (rerootResult, error) {
	res := rerootResult{Tree: name}

	dir, err := layout.Dir(name)
	if err != nil {
		return res, err
	}
	if !trees.Exists(dir) {
		return res, model.NewCLIError(model.ExitTreeNotFound,
			fmt.Sprintf("Tree directory %s not found, check spelling", dir))
	}

	cfg, err := config.LoadTreeConfig(trees.NewArtifacts(dir, "").ConfigTOML())
	if err != nil {
		return res, err
	}
	art := trees.NewArtifacts(dir, cfg.RefSeqAcc)

	if err := art.RequireBuildInputs(); err != nil {
		return res, err
	}
	if !trees.Exists(art.Fasta()) {
		return res, model.NewCLIError(model.ExitFetchError,
			fmt.Sprintf("expected file %s not found, run vut fetch-refs first", art.Fasta()))
	}

	// Step 1: date coverage gate.
	scan, err := metadata.ScanDates(art.MetadataTSV())
	if err != nil {
		return res, err
	}
	res.DateProportion = scan.RealProportion()
	VerboseLog("%s: %d/%d samples have dates (%.2f)", name, scan.RealDates, scan.Rows, res.DateProportion)
	if res.DateProportion < flags.minRealDates {
		res.Skipped = true
		res.SkipReason = fmt.Sprintf("only %.0f%% of samples have dates (need %.0f%%)",
			res.DateProportion*100, flags.minRealDates*100)
		return res, nil
	}

	// Step 2: treetime inputs.
	refLen, err := metadata.RefLength(art.OutputStats())
	if err != nil {
		return res, err
	}
	VerboseLog("%s: ref_length %d", name, refLen)

	if err := phylo.ScaleBranchLengths(art.VizNewickGz(), art.ScaledNewick(), refLen); err != nil {
		return res, err
	}
	if err := metadata.WriteDatesCSV(art.DatesCSV(), scan); err != nil {
		return res, err
	}

	// Step 3: treetime clock and root choice.
	if err := extern.TreetimeClock(ctx, refLen, art.ScaledNewick(), art.DatesCSV(),
		art.TreetimeOutDir(), art.TreetimeLog()); err != nil {
		return res, err
	}
	node, err := phylo.OldestNode(art.RTTCSV())
	if err != nil {
		return res, err
	}
	res.RootNode = node
	VerboseLog("%s: rerooting on %s", name, node)

	// Step 4: apply the root to the mutation-annotated tree.
	if err := extern.MatUtilsReroot(ctx, art.VizPB(), node,
		art.Fasta(), art.RerootedFasta(), art.RerootedPB()); err != nil {
		return res, err
	}
	res.RerootedPB = art.RerootedPB()

	// Step 5: GBFF rewritten against the rerooted reference.
	records, err := genbank.ParseFile(art.GBFF())
	if err != nil {
		return res, err
	}
	rec, err := genbank.Find(records, cfg.RefSeqAcc)
	if err != nil {
		return res, err
	}
	_, newSeq, err := genbank.ReadSingleFasta(art.RerootedFasta())
	if err != nil {
		return res, err
	}
	rewritten, err := genbank.Rewrite(rec, newSeq)
	if err != nil {
		return res, err
	}
	if err := genbank.WriteFile(art.RerootedGBFF(), []*genbank.Record{rewritten}); err != nil {
		return res, err
	}

	// Step 6: taxonium export.
	if flags.skipTaxonium {
		return res, nil
	}
	columns, err := metadata.ColumnsString(art.MetadataTSV())
	if err != nil {
		return res, err
	}
	taxArgs := extern.TaxoniumArgs{
		InputPB:  art.RerootedPB(),
		Metadata: art.MetadataTSV(),
		GenBank:  art.RerootedGBFF(),
		Columns:  columns,
		Title:    fmt.Sprintf("Treetime-rerooted %s", name),
		Output:   art.TaxoniumJSONL(),
	}
	if path, ok := config.FindTaxoniumConfig(dir); ok {
		taxCfg, err := config.LoadTaxoniumConfig(path)
		if err != nil {
			return res, err
		}
		taxArgs.ConfigJSON = path
		if taxCfg.Title != "" {
			taxArgs.Title = taxCfg.Title
		}
	}
	if err := extern.UsherToTaxonium(ctx, taxArgs); err != nil {
		return res, err
	}
	res.TaxoniumJSONL = art.TaxoniumJSONL()

	return res, nil
}

// printRerootResults outputs the per-tree results in text or JSON format.
func printRerootResults(results []rerootResult) {
	if IsJSONOutput() {
		out := struct {
			Trees []rerootResult `json:"trees"`
		}{Trees: results}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return
	}

	for _, res := range results {
		if res.Skipped {
			fmt.Printf("%s: skipped: %s\n", res.Tree, res.SkipReason)
			continue
		}
		fmt.Printf("%s: rerooted on %s -> %s\n", res.Tree, res.RootNode, res.RerootedPB)
		if res.TaxoniumJSONL != "" {
			fmt.Printf("%s: exported %s\n", res.Tree, res.TaxoniumJSONL)
		}
	}
}
