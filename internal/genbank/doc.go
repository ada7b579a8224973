// Package genbank reads and writes GenBank flat files (GBFF) to the
// extent the reroot pipeline needs: finding the record for a reference
// accession, converting its sequence to FASTA, and producing an altered
// copy of the record whose ORIGIN sequence is the matUtils-rerooted
// reference, with simple CDS translations recomputed.
//
// It is not a general GenBank parser. Header lines and feature locations
// are carried through verbatim; only the sequence block and /translation
// qualifiers are rewritten.
package genbank
