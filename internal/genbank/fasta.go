package genbank

import (
	"fmt"
	"io"
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/seqclade/vut/internal/model"
)

// fastaLineWidth is the sequence wrap width for written FASTA files.
const fastaLineWidth = 60

// WriteFasta writes a single-sequence FASTA file.
func WriteFasta(path, id, desc, sequence string) error {
	f, err := os.Create(path)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to create %s", path), err)
	}
	defer f.Close()

	s := linear.NewSeq(id, alphabet.BytesToLetters([]byte(sequence)), alphabet.DNAredundant)
	s.Desc = desc

	w := fasta.NewWriter(f, fastaLineWidth)
	if _, err := w.Write(s); err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to write %s", path), err)
	}
	return f.Close()
}

// RecordToFasta converts a GBFF record to a FASTA file named by its
// accession, with the DEFINITION text as the description.
func RecordToFasta(rec *Record, path string) error {
	return WriteFasta(path, rec.Accession, rec.Definition, rec.Sequence)
}

// ReadSingleFasta reads a FASTA file that must contain exactly one
// sequence (the rerooted reference written by matUtils) and returns its
// id and sequence.
func ReadSingleFasta(path string) (id, sequence string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	r := fasta.NewReader(f, linear.NewSeq("", nil, alphabet.DNAredundant))

	first, err := r.Read()
	if err != nil {
		return "", "", model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to read FASTA from %s", path), err)
	}
	s, ok := first.(*linear.Seq)
	if !ok {
		return "", "", model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("unexpected sequence type in %s", path))
	}

	if _, err := r.Read(); err != io.EOF {
		return "", "", model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("FASTA file %s must contain exactly one sequence", path))
	}

	return s.ID, s.Seq.String(), nil
}
