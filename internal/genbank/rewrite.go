package genbank

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/seqclade/vut/internal/model"
)

// spanRegex matches a simple GenBank location span: 123..456, optionally
// wrapped in complement(...), with <> partial markers tolerated.
var spanRegex = regexp.MustCompile(`^<?(\d+)\.\.>?(\d+)$`)

// locusLengthRegex finds the "NNN bp" field of a LOCUS line.
var locusLengthRegex = regexp.MustCompile(`\d+ bp`)

// Span is a parsed simple feature location, 1-based inclusive as in the
// flat file.
type Span struct {
	Start      int
	End        int
	Complement bool
}

// ParseSpan parses a simple location string. Compound locations
// (join, order) return ok=false; features with those locations keep
// their original translation, the same concession the original pipeline
// made.
func ParseSpan(loc string) (Span, bool) {
	inner := loc
	complement := false
	if strings.HasPrefix(inner, "complement(") && strings.HasSuffix(inner, ")") {
		complement = true
		inner = strings.TrimSuffix(strings.TrimPrefix(inner, "complement("), ")")
	}
	m := spanRegex.FindStringSubmatch(inner)
	if m == nil {
		return Span{}, false
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	if start < 1 || end < start {
		return Span{}, false
	}
	return Span{Start: start, End: end, Complement: complement}, true
}

// Rewrite returns a copy of rec with its sequence replaced by newSeq and
// the /translation qualifier of every simple-location CDS recomputed
// from the new sequence. The caller guarantees that newSeq uses the same
// coordinates as the original (matUtils rewrites bases in place, never
// indels), so feature locations are carried over unchanged.
func Rewrite(rec *Record, newSeq string) (*Record, error) {
	newSeq = strings.ToLower(newSeq)
	if len(newSeq) != len(rec.Sequence) {
		return nil, model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("replacement sequence length %d does not match record %s length %d",
				len(newSeq), rec.Accession, len(rec.Sequence)))
	}

	out := &Record{
		Accession:    rec.Accession,
		Definition:   rec.Definition,
		headerLines:  fixLocusLength(rec.headerLines, len(newSeq)),
		featuresLine: rec.featuresLine,
		betweenLines: rec.betweenLines,
		originLine:   rec.originLine,
		Sequence:     newSeq,
	}

	for _, feat := range rec.Features {
		copied := &Feature{
			Key:        feat.Key,
			Location:   feat.Location,
			Qualifiers: append([]Qualifier(nil), feat.Qualifiers...),
		}
		if feat.Key == "CDS" {
			retranslate(copied, newSeq)
		}
		out.Features = append(out.Features, copied)
	}
	return out, nil
}

// retranslate recomputes a CDS feature's /translation from the new
// sequence when its location is a simple span. A CDS without a
// translation qualifier gets one appended, so every simple-span CDS in
// the rewritten file carries the protein of the new sequence.
func retranslate(feat *Feature, seq string) {
	span, ok := ParseSpan(feat.Location)
	if !ok || span.End > len(seq) {
		return
	}
	sub := seq[span.Start-1 : span.End]
	if span.Complement {
		sub = ReverseComplement(sub)
	}
	translation := Translate(sub)

	for i := range feat.Qualifiers {
		if feat.Qualifiers[i].Name == "translation" {
			feat.Qualifiers[i].Value = translation
			return
		}
	}
	feat.Qualifiers = append(feat.Qualifiers, Qualifier{
		Name:   "translation",
		Value:  translation,
		Quoted: true,
	})
}

// fixLocusLength keeps the LOCUS bp count consistent with the written
// sequence. The replacement is same-length today, so this is a
// passthrough unless an upstream tool ever changes the contract.
func fixLocusLength(headerLines []string, length int) []string {
	out := append([]string(nil), headerLines...)
	for i, line := range out {
		if strings.HasPrefix(line, "LOCUS") {
			out[i] = locusLengthRegex.ReplaceAllString(line, fmt.Sprintf("%d bp", length))
			break
		}
	}
	return out
}
