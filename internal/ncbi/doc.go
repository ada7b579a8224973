// Package ncbi downloads reference GenBank flat files from the NCBI
// E-utilities efetch endpoint. Downloads are written atomically (temp
// file + rename) so an interrupted fetch never leaves a truncated .gbff
// behind, which would defeat the existence-check idempotence the rest of
// the pipeline relies on.
package ncbi
