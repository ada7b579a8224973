package model

import (
	"fmt"
	"regexp"
	"strings"
)

// TreeStatus represents how far a tree directory has progressed through
// the maintenance pipeline. The status is never stored; it is derived
// from which artifacts exist in the directory:
//
//	unfetched → fetched (reference gbff+fa present) → rerooted
type TreeStatus string

const (
	// StatusUnfetched indicates the tree has a config.toml but its
	// reference files (<acc>.gbff / <acc>.fa) have not been fetched yet.
	StatusUnfetched TreeStatus = "unfetched"

	// StatusFetched indicates the reference GenBank and FASTA files are
	// present but the tree has not been rerooted.
	StatusFetched TreeStatus = "fetched"

	// StatusRerooted indicates the treetime-rerooted protobuf
	// (timetree_rerooted.pb.gz) exists.
	StatusRerooted TreeStatus = "rerooted"
)

// String returns the string representation of TreeStatus.
func (s TreeStatus) String() string {
	return string(s)
}

// IsValid checks whether the TreeStatus value is one of the predefined
// valid states.
func (s TreeStatus) IsValid() bool {
	switch s {
	case StatusUnfetched, StatusFetched, StatusRerooted:
		return true
	default:
		return false
	}
}

// ParseTreeStatus converts a string to a TreeStatus.
// Returns an error if the string does not match any valid status.
func ParseTreeStatus(s string) (TreeStatus, error) {
	status := TreeStatus(strings.ToLower(s))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid tree status: %q (valid: unfetched, fetched, rerooted)", s)
	}
	return status, nil
}

// Tree represents one tree directory in the dataset: its name, its
// configured RefSeq accession, and the derived pipeline status. This is
// the primary aggregate entity; all fields come from reading the
// directory at runtime.
type Tree struct {
	// Name is the directory name under the trees root (e.g. "rsv-a").
	Name string `json:"name"`

	// Path is the absolute or workspace-relative path to the tree directory.
	Path string `json:"path"`

	// RefSeqAcc is the reference accession from config.toml (e.g. "NC_045512.2").
	RefSeqAcc string `json:"refseqAcc"`

	// Status is the derived pipeline status.
	Status TreeStatus `json:"status"`

	// Artifacts lists the known artifacts and whether each exists.
	Artifacts []ArtifactInfo `json:"artifacts,omitempty"`
}

// ArtifactInfo reports the presence of a single expected file in a tree
// directory.
type ArtifactInfo struct {
	// Name is the artifact's file name relative to the tree directory.
	Name string `json:"name"`

	// Present reports whether the file exists.
	Present bool `json:"present"`
}

// nameRegex validates tree directory names: alphanumeric plus hyphens,
// underscores and dots, starting with an alphanumeric character. Tree
// names become path components and command-line arguments to external
// tools, so anything outside this set is rejected up front.
var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ValidateName checks if the given name is a valid tree directory name.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("tree name must not be empty")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("invalid tree name %q: must contain only alphanumerics, hyphens, underscores and dots, and start with an alphanumeric", name)
	}
	return nil
}

// accessionRegex validates RefSeq/GenBank nucleotide accessions such as
// "NC_045512.2" or "MN908947.3": an alphabetic prefix, an optional
// underscore, digits, and an optional version suffix.
var accessionRegex = regexp.MustCompile(`^[A-Z]{1,4}_?[0-9]+(\.[0-9]+)?$`)

// ValidateAccession checks if the given string looks like a RefSeq or
// GenBank nucleotide accession. The accession is interpolated into file
// names and an NCBI efetch query, so it is validated before use.
func ValidateAccession(acc string) error {
	if acc == "" {
		return fmt.Errorf("accession must not be empty")
	}
	if !accessionRegex.MatchString(acc) {
		return fmt.Errorf("invalid accession %q: expected a RefSeq/GenBank nucleotide accession like NC_045512.2", acc)
	}
	return nil
}

// ExitCode defines the CLI exit codes. These codes allow workflow
// managers and shell scripts to distinguish failure classes.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigError indicates a config.toml or config.yaml file was
	// missing, unreadable, or lacked a required key.
	ExitConfigError ExitCode = 2

	// ExitFetchError indicates a reference download from NCBI failed.
	ExitFetchError ExitCode = 3

	// ExitToolError indicates an external tool (treetime, matUtils,
	// usher_to_taxonium) returned a non-zero exit status.
	ExitToolError ExitCode = 4

	// ExitTreeNotFound indicates the named tree directory does not exist
	// or is missing required build outputs.
	ExitTreeNotFound ExitCode = 5

	// ExitMetadataError indicates metadata.tsv.gz or output_stats.tsv
	// could not be parsed (missing column, malformed row).
	ExitMetadataError ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
