// Package cli implements the cobra-based CLI commands for vut.
//
// Each subcommand (fetch-refs, reroot, summary, list) is defined in its
// own file within this package. This file defines the root command that
// serves as the parent for all subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seqclade/vut/internal/config"
	"github.com/seqclade/vut/internal/model"
	"github.com/seqclade/vut/internal/trees"
)

// Global flag variables shared across all subcommands. These are bound
// to cobra persistent flags on the root command, which makes them
// available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON
	// for machine consumption instead of human-readable text.
	jsonOutput bool

	// verbose enables detailed logging output to stderr.
	verbose bool

	// configPath is the workspace config.yaml location.
	configPath string

	// treesDir overrides the trees root from config.yaml when set.
	treesDir string
)

// Version, Commit, and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// The root command itself does not perform any action — it only provides
// help text and global flags. Actual functionality is provided by
// subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vut",
		Short: "Maintenance commands for a viral_usher_trees checkout",
		Long: `vut automates the recurring chores of a viral_usher_trees dataset:
fetching RefSeq reference files for every tree, rerooting trees on
treetime's clock estimate, and summarizing tree statistics.

The tree-rerooting mathematics is delegated to treetime and matUtils;
vut itself only reads configs, walks tree directories, and runs the
external tools in the right order.`,

		// Errors are formatted by Execute (text or JSON); keep cobra
		// from printing usage and errors on its own.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Workspace config file")
	rootCmd.PersistentFlags().StringVar(&treesDir, "trees-dir", "", "Trees root directory (default: path_to_viruses from config, or \"trees\")")

	rootCmd.AddCommand(NewFetchRefsCommand())
	rootCmd.AddCommand(NewRerootCommand())
	rootCmd.AddCommand(NewSummaryCommand())
	rootCmd.AddCommand(NewListCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes. It inspects
// errors returned by cobra commands and translates them into OS exit
// codes: CLIError types carry their own code, other errors exit 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag. Errors go to stderr
// in both modes; stdout is reserved for successful command output.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}

// resolveWorkspace loads config.yaml and builds the trees Layout,
// applying the --trees-dir override. Every subcommand starts here.
func resolveWorkspace() (*config.Workspace, *trees.Layout, error) {
	ws, err := config.LoadWorkspace(configPath)
	if err != nil {
		return nil, nil, err
	}

	root := ws.TreesDir()
	if treesDir != "" {
		root = treesDir
	}
	VerboseLog("Trees root: %s", root)

	return ws, trees.NewLayout(root), nil
}

// selectTreeNames lists the tree directories covered by the viruses
// allowlist in config.yaml.
func selectTreeNames(ws *config.Workspace, layout *trees.Layout) ([]string, error) {
	all, err := layout.List()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, name := range all {
		if ws.Selects(name) {
			names = append(names, name)
		} else {
			VerboseLog("Skipping %s (not in viruses list)", name)
		}
	}
	return names, nil
}
