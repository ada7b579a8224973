package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seqclade/vut/internal/config"
	"github.com/seqclade/vut/internal/extern"
	"github.com/seqclade/vut/internal/metadata"
	"github.com/seqclade/vut/internal/model"
	"github.com/seqclade/vut/internal/trees"
)

// summaryFlags holds the flag values for the summary command.
type summaryFlags struct {
	out string // --out: write the TSV to a file instead of stdout
}

// NewSummaryCommand creates the "summary" cobra command.
func NewSummaryCommand() *cobra.Command {
	flags := &summaryFlags{}

	cmd := &cobra.Command{
		Use:   "summary [tree...]",
		Short: "Summarize tree statistics as a TSV table",
		Long: `Summarize built trees: reference accession and length, sample and
node counts from matUtils summary, date coverage from the metadata, and
the pipeline status of each tree.

Trees missing build artifacts show blanks for the fields that cannot be
computed; summary never fails just because a tree has not been built.

Examples:
  vut summary
  vut summary rsv-a rsv-b
  vut summary --out trees_summary.tsv`,

		Args: cobra.ArbitraryArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd.Context(), args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Write the table to a file instead of stdout")

	return cmd
}

// treeSummary is one row of the summary table.
type treeSummary struct {
	Tree           string  `json:"tree"`
	Acc            string  `json:"refseqAcc,omitempty"`
	Built          string  `json:"built,omitempty"`
	RefLength      int     `json:"refLength,omitempty"`
	Samples        string  `json:"samples,omitempty"`
	Nodes          string  `json:"nodes,omitempty"`
	DateProportion float64 `json:"dateProportion"`
	Status         string  `json:"status"`
}

// matUtils summary stdout keys read into the table.
const (
	summarySamplesKey = "Total Samples in Tree"
	summaryNodesKey   = "Total Nodes in Tree"
)

// runSummary builds a summary row per tree and prints the table.
func runSummary(ctx context.Context, args []string, flags *summaryFlags) error {
	ws, layout, err := resolveWorkspace()
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names, err = selectTreeNames(ws, layout)
		if err != nil {
			return err
		}
	}
	if len(names) == 0 {
		fmt.Println("No tree directories found.")
		return nil
	}

	haveMatUtils := extern.LookPath(extern.MatUtilsBin) == nil
	if !haveMatUtils {
		VerboseLog("matUtils not found in PATH, sample/node counts will be blank")
	}

	rows := make([]treeSummary, 0, len(names))
	for _, name := range names {
		row, err := summarizeOne(ctx, layout, name, haveMatUtils)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	if IsJSONOutput() {
		out := struct {
			Trees []treeSummary `json:"trees"`
		}{Trees: rows}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	table := formatSummaryTSV(rows)
	if flags.out != "" {
		if err := os.WriteFile(flags.out, []byte(table), 0o644); err != nil {
			return model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("failed to write %s", flags.out), err)
		}
		fmt.Printf("Wrote %s\n", flags.out)
		return nil
	}
	fmt.Print(table)
	return nil
}

// summarizeOne computes one summary row. Missing artifacts leave their
// fields blank rather than failing the whole table.
func summarizeOne(ctx context.Context, layout *trees.Layout, name string, haveMatUtils bool) (treeSummary, error) {
	row := treeSummary{Tree: name}

	dir, err := layout.Dir(name)
	if err != nil {
		return row, err
	}
	if !trees.Exists(dir) {
		return row, model.NewCLIError(model.ExitTreeNotFound,
			fmt.Sprintf("Tree directory %s not found, check spelling", dir))
	}

	art := trees.NewArtifacts(dir, "")
	cfg, err := config.LoadTreeConfig(art.ConfigTOML())
	if err != nil {
		return row, err
	}
	row.Acc = cfg.RefSeqAcc
	art = trees.NewArtifacts(dir, cfg.RefSeqAcc)
	row.Status = art.Status().String()

	if trees.Exists(art.OutputStats()) {
		stats, err := metadata.Stats(art.OutputStats())
		if err != nil {
			return row, err
		}
		// The builder appends a row per run; the last one describes the
		// current tree.
		if len(stats) > 0 {
			last := stats[len(stats)-1]
			row.Built = last["date"]
			if n, err := strconv.Atoi(last["ref_length"]); err == nil {
				row.RefLength = n
			}
		}
	}

	if trees.Exists(art.MetadataTSV()) {
		scan, err := metadata.ScanDates(art.MetadataTSV())
		if err != nil {
			return row, err
		}
		row.DateProportion = scan.RealProportion()
	}

	if haveMatUtils && trees.Exists(art.OptimizedPB()) {
		stats, err := extern.MatUtilsSummary(ctx, art.OptimizedPB())
		if err != nil {
			return row, err
		}
		row.Samples = stats[summarySamplesKey]
		row.Nodes = stats[summaryNodesKey]
	}

	return row, nil
}

// formatSummaryTSV renders summary rows as a TSV table with a header.
// Blank numeric fields stay blank instead of printing zero.
func formatSummaryTSV(rows []treeSummary) string {
	var b strings.Builder
	b.WriteString("tree\trefseq_acc\tbuilt\tref_length\tsamples\tnodes\tdate_proportion\tstatus\n")
	for _, row := range rows {
		refLen := ""
		if row.RefLength > 0 {
			refLen = fmt.Sprintf("%d", row.RefLength)
		}
		fmt.Fprintf(&b, "%s\t%s\t%s\t%s\t%s\t%s\t%.3f\t%s\n",
			row.Tree, row.Acc, row.Built, refLen, row.Samples, row.Nodes,
			row.DateProportion, row.Status)
	}
	return b.String()
}
