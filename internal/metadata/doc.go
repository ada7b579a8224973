// Package metadata reads the tab-separated sidecar files that a tree
// build leaves next to the mutation-annotated tree: the gzipped sample
// metadata (metadata.tsv.gz) and the build statistics (output_stats.tsv).
// It also writes the dates.csv input that treetime clock consumes.
//
// metadata.tsv.gz can run to millions of rows for the larger viruses, so
// it is streamed through a parallel gzip reader rather than slurped.
package metadata
