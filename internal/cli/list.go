// Package cli — list.go implements the "vut list" command.
//
// The list command walks the trees root and shows each tree directory
// with its configured reference accession, derived pipeline status, and
// (with --artifacts) which expected files are present. Output is a text
// table or JSON, depending on the --json flag.
package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seqclade/vut/internal/config"
	"github.com/seqclade/vut/internal/model"
	"github.com/seqclade/vut/internal/trees"
)

// listFlags holds the flag values for the list command.
type listFlags struct {
	// artifacts adds a per-tree artifact presence listing.
	artifacts bool

	// status filters trees by pipeline status: unfetched, fetched,
	// rerooted, or "all" (default).
	status string
}

// NewListCommand creates the "list" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tree directories and their status",
		Long: `List the tree directories under the trees root.

Each tree is shown with its name, configured RefSeq accession, and
pipeline status (unfetched, fetched, rerooted). Trees not covered by the
viruses list in config.yaml are skipped.

Examples:
  vut list
  vut list --status fetched
  vut list --artifacts
  vut list --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(flags)
		},
	}

	cmd.Flags().BoolVar(&flags.artifacts, "artifacts", false,
		"Show which expected files are present per tree")
	cmd.Flags().StringVar(&flags.status, "status", "all",
		"Filter by status: unfetched, fetched, rerooted, all (default: all)")

	return cmd
}

// runList is the main logic function for the list command.
func runList(flags *listFlags) error {
	statusFilter := flags.status
	if statusFilter != "all" {
		if _, err := model.ParseTreeStatus(statusFilter); err != nil {
			return model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("invalid status filter %q: valid values are unfetched, fetched, rerooted, all", statusFilter), nil)
		}
	}

	ws, layout, err := resolveWorkspace()
	if err != nil {
		return err
	}
	names, err := selectTreeNames(ws, layout)
	if err != nil {
		return err
	}

	var list []*model.Tree
	for _, name := range names {
		dir, err := layout.Dir(name)
		if err != nil {
			return err
		}

		tree := &model.Tree{Name: name, Path: dir}

		// A tree with a broken config.toml is still listed; its accession
		// stays blank so the problem is visible without aborting the list.
		cfg, err := config.LoadTreeConfig(trees.NewArtifacts(dir, "").ConfigTOML())
		if err != nil {
			VerboseLog("Warning: %s: %v", name, err)
		} else {
			tree.RefSeqAcc = cfg.RefSeqAcc
		}

		art := trees.NewArtifacts(dir, tree.RefSeqAcc)
		tree.Status = art.Status()
		if flags.artifacts {
			tree.Artifacts = art.Check()
		}

		if statusFilter != "all" && tree.Status.String() != statusFilter {
			continue
		}
		list = append(list, tree)
	}

	printListResult(list, flags.artifacts)
	return nil
}

// printListResult outputs the tree list in text or JSON format,
// depending on the global --json flag.
func printListResult(list []*model.Tree, showArtifacts bool) {
	if IsJSONOutput() {
		printListResultJSON(list)
	} else {
		printListResultText(list, showArtifacts)
	}
}

// printListResultJSON outputs the tree list as structured JSON.
// The top-level key is "trees" containing an array of tree objects.
func printListResultJSON(list []*model.Tree) {
	type resultJSON struct {
		Trees []*model.Tree `json:"trees"`
	}

	result := resultJSON{
		// Use an empty slice instead of nil to ensure JSON output shows []
		// instead of null when no trees are found.
		Trees: make([]*model.Tree, 0, len(list)),
	}
	result.Trees = append(result.Trees, list...)

	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(data))
}

// printListResultText outputs the tree list as a human-readable text
// table with aligned columns.
//
// The table format is:
//
//	NAME             REFSEQ_ACC     STATUS
//	enterovirus-d68  NC_038308.1    fetched
//	rsv-a            NC_038235.1    rerooted
func printListResultText(list []*model.Tree, showArtifacts bool) {
	if len(list) == 0 {
		fmt.Println("No tree directories found.")
		return
	}

	fmt.Printf("%-24s %-16s %s\n", "NAME", "REFSEQ_ACC", "STATUS")
	for _, tree := range list {
		acc := tree.RefSeqAcc
		if acc == "" {
			acc = "-"
		}
		fmt.Printf("%-24s %-16s %s\n", tree.Name, acc, tree.Status.String())

		if showArtifacts {
			fmt.Printf("  %s\n", FormatArtifactsList(tree.Artifacts))
		}
	}
}

// FormatArtifactsList renders artifact presence as a one-line summary,
// marking each expected file with + (present) or - (missing). Returns
// "-" when nothing is known about the tree's artifacts.
//
// This function is exported for testing purposes (tested in list_test.go).
//
// Example:
//
//	[{viz.pb.gz true}, {timetree_rerooted.pb.gz false}] → "+viz.pb.gz -timetree_rerooted.pb.gz"
func FormatArtifactsList(artifacts []model.ArtifactInfo) string {
	if len(artifacts) == 0 {
		return "-"
	}

	parts := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		mark := "-"
		if a.Present {
			mark = "+"
		}
		parts = append(parts, mark+a.Name)
	}
	return strings.Join(parts, " ")
}
