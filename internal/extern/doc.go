// Package extern invokes the external phylogenetics tools this
// repository orchestrates: treetime, matUtils, and usher_to_taxonium.
// All of the algorithmic substance (clock rerooting, mutation-annotated
// tree manipulation, taxonium export) lives in those tools; this package
// only builds their command lines, captures their output, and turns
// non-zero exits into CLIErrors with ExitToolError.
package extern
