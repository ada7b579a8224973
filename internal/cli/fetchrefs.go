// Package cli — fetchrefs.go implements the "vut fetch-refs" command.
//
// fetch-refs walks every tree directory, reads the refseq_acc from its
// config.toml, downloads the reference GenBank flat file from NCBI when
// it is missing, and converts it to FASTA when that is missing. Both
// steps are idempotent: existing files are left alone unless --force.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/seqclade/vut/internal/config"
	"github.com/seqclade/vut/internal/genbank"
	"github.com/seqclade/vut/internal/model"
	"github.com/seqclade/vut/internal/ncbi"
	"github.com/seqclade/vut/internal/trees"
)

// fetchRefsFlags holds the flag values for the fetch-refs command.
type fetchRefsFlags struct {
	jobs  int  // --jobs: number of trees fetched concurrently
	force bool // --force: refetch and reconvert even when files exist
}

// NewFetchRefsCommand creates the "fetch-refs" cobra command.
func NewFetchRefsCommand() *cobra.Command {
	flags := &fetchRefsFlags{}

	cmd := &cobra.Command{
		Use:   "fetch-refs [tree...]",
		Short: "Fetch reference GenBank and FASTA files for trees",
		Long: `Fetch the RefSeq reference files for tree directories.

For each tree, the refseq_acc value from config.toml names the reference
sequence. The GenBank flat file is downloaded from NCBI efetch as
<acc>.gbff and converted to <acc>.fa. Files that already exist are not
fetched again.

With no arguments, every tree under the trees root (filtered by the
viruses list in config.yaml) is processed.

Examples:
  vut fetch-refs
  vut fetch-refs rsv-a rsv-b
  vut fetch-refs --jobs 4
  vut fetch-refs --force sars-cov-2`,

		Args: cobra.ArbitraryArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetchRefs(cmd.Context(), args, flags)
		},
	}

	cmd.Flags().IntVar(&flags.jobs, "jobs", 1, "Number of trees to fetch concurrently")
	cmd.Flags().BoolVar(&flags.force, "force", false, "Refetch and reconvert even if files exist")

	return cmd
}

// fetchResult records what happened for one tree, for output and error
// aggregation.
type fetchResult struct {
	Tree      string `json:"tree"`
	Acc       string `json:"refseqAcc,omitempty"`
	Fetched   bool   `json:"fetchedGBFF"`
	Converted bool   `json:"convertedFasta"`
	Error     string `json:"error,omitempty"`

	err error
}

// runFetchRefs is the main orchestration function for fetch-refs.
// Trees are processed with a bounded worker pool; a failure on one tree
// does not stop the others, but any failure makes the command exit
// non-zero.
func runFetchRefs(ctx context.Context, args []string, flags *fetchRefsFlags) error {
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

	if flags.jobs < 1 {
		flags.jobs = 1
	}

	client := ncbi.NewClient()
	results := make([]fetchResult, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(flags.jobs)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			results[i] = fetchOne(gctx, layout, client, name, flags.force)
			// Per-tree errors are collected, not returned: one bad tree
			// must not cancel the downloads of its siblings.
			return nil
		})
	}
	_ = g.Wait()

	printFetchResults(results)

	for _, res := range results {
		if res.err != nil {
			return model.WrapCLIError(model.ExitFetchError,
				fmt.Sprintf("fetch failed for %s", res.Tree), res.err)
		}
	}
	return nil
}

// fetchOne fetches and converts the reference files for a single tree.
func fetchOne(ctx context.Context, layout *trees.Layout, client *ncbi.Client, name string, force bool) fetchResult {
	res := fetchResult{Tree: name}
	fail := func(err error) fetchResult {
		res.err = err
		res.Error = err.Error()
		return res
	}

	dir, err := layout.Dir(name)
	if err != nil {
		return fail(err)
	}

	art := trees.NewArtifacts(dir, "")
	cfg, err := config.LoadTreeConfig(art.ConfigTOML())
	if err != nil {
		return fail(err)
	}
	res.Acc = cfg.RefSeqAcc
	art = trees.NewArtifacts(dir, cfg.RefSeqAcc)

	if force && trees.Exists(art.GBFF()) {
		if err := os.Remove(art.GBFF()); err != nil {
			return fail(err)
		}
	}
	fetched, err := client.FetchGBFFIfMissing(ctx, cfg.RefSeqAcc, art.GBFF())
	if err != nil {
		return fail(err)
	}
	res.Fetched = fetched
	if fetched {
		VerboseLog("%s: downloaded %s", name, art.GBFF())
	}

	if force || !trees.Exists(art.Fasta()) {
		records, err := genbank.ParseFile(art.GBFF())
		if err != nil {
			return fail(err)
		}
		rec, err := genbank.Find(records, cfg.RefSeqAcc)
		if err != nil {
			return fail(err)
		}
		if err := genbank.RecordToFasta(rec, art.Fasta()); err != nil {
			return fail(err)
		}
		res.Converted = true
		VerboseLog("%s: wrote %s", name, art.Fasta())
	}

	return res
}

// printFetchResults outputs the per-tree results in text or JSON format.
func printFetchResults(results []fetchResult) {
	if IsJSONOutput() {
		out := struct {
			Trees []fetchResult `json:"trees"`
		}{Trees: results}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return
	}

	for _, res := range results {
		switch {
		case res.err != nil:
			fmt.Printf("%s: error: %v\n", res.Tree, res.err)
		case res.Fetched && res.Converted:
			fmt.Printf("%s: fetched %s.gbff, wrote %s.fa\n", res.Tree, res.Acc, res.Acc)
		case res.Converted:
			fmt.Printf("%s: wrote %s.fa\n", res.Tree, res.Acc)
		default:
			fmt.Printf("%s: up to date\n", res.Tree)
		}
	}
}
