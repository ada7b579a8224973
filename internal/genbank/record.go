package genbank

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/seqclade/vut/internal/model"
)

// Feature table indentation, fixed by the GenBank format: feature keys
// start at column 6, locations and qualifiers at column 22.
const (
	keyIndent    = 5
	qualIndent   = 21
	maxLineWidth = 79
)

// Qualifier is a single /name=value entry on a feature. Multi-line
// values are joined at parse time and re-wrapped at write time.
type Qualifier struct {
	// Name is the qualifier name without the leading slash.
	Name string

	// Value is the qualifier value without surrounding quotes.
	// Empty for bare flags such as /ribosomal_slippage.
	Value string

	// Quoted records whether the value was double-quoted in the source,
	// so numbers (/codon_start=1) round-trip unquoted.
	Quoted bool
}

// Feature is one entry of the feature table: a key, its location string
// (verbatim from the source, continuations joined), and its qualifiers.
type Feature struct {
	Key        string
	Location   string
	Qualifiers []Qualifier
}

// Qualifier returns the value of the first qualifier with the given
// name, and whether it was found.
func (f *Feature) Qualifier(name string) (string, bool) {
	for _, q := range f.Qualifiers {
		if q.Name == name {
			return q.Value, true
		}
	}
	return "", false
}

// Record is one GBFF entry. Header lines (LOCUS through the line before
// FEATURES) are carried verbatim; the feature table is parsed so
// translations can be rewritten; the sequence is stored without
// positions or whitespace, lowercase as GBFF stores it.
type Record struct {
	// Accession is the versioned accession from the VERSION line,
	// falling back to the first ACCESSION value.
	Accession string

	// Definition is the DEFINITION text, continuations joined.
	Definition string

	headerLines  []string
	featuresLine string
	Features     []*Feature
	betweenLines []string // anything between the feature table and ORIGIN (BASE COUNT etc.)
	originLine   string
	Sequence     string
}

// ParseFile reads every record from a GenBank flat file.
func ParseFile(path string) ([]*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var records []*Record
	var rec *Record
	// section tracks where we are inside the current record:
	// header → features → between → origin
	section := "header"
	headerKeyword := ""
	var curFeature *Feature
	var curQual *Qualifier
	inQuote := false
	var seq strings.Builder

	flushQual := func() {
		if curFeature != nil && curQual != nil {
			curFeature.Qualifiers = append(curFeature.Qualifiers, *curQual)
		}
		curQual = nil
		inQuote = false
	}
	flushFeature := func() {
		flushQual()
		if rec != nil && curFeature != nil {
			rec.Features = append(rec.Features, curFeature)
		}
		curFeature = nil
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")

		if strings.HasPrefix(line, "LOCUS") && rec == nil {
			rec = &Record{}
			section = "header"
			headerKeyword = ""
			seq.Reset()
		}
		if rec == nil {
			continue // leading blank lines between records
		}

		if line == "//" {
			flushFeature()
			rec.Sequence = seq.String()
			records = append(records, rec)
			rec = nil
			continue
		}

		switch section {
		case "header":
			if strings.HasPrefix(line, "FEATURES") {
				rec.featuresLine = line
				section = "features"
				continue
			}
			rec.headerLines = append(rec.headerLines, line)
			headerKeyword = parseHeaderLine(rec, line, headerKeyword)

		case "features":
			if strings.HasPrefix(line, "ORIGIN") {
				flushFeature()
				rec.originLine = line
				section = "origin"
				continue
			}
			if len(line) > keyIndent && !isSpaceAt(line, keyIndent) && strings.HasPrefix(line, strings.Repeat(" ", keyIndent)) {
				// New feature: key at column 6.
				flushFeature()
				content := line[keyIndent:]
				key, loc, _ := strings.Cut(content, " ")
				curFeature = &Feature{Key: key, Location: strings.TrimSpace(loc)}
				continue
			}
			if curFeature == nil {
				// Not a feature line (BASE COUNT in old files); keep it.
				rec.betweenLines = append(rec.betweenLines, line)
				continue
			}
			content := strings.TrimSpace(line)
			if !inQuote && strings.HasPrefix(content, "/") {
				flushQual()
				curQual, inQuote = parseQualifierStart(content)
				if curQual != nil && !inQuote {
					flushQual()
				}
				continue
			}
			if curQual != nil {
				// Continuation of a qualifier value.
				closed := strings.HasSuffix(content, `"`)
				if closed {
					content = strings.TrimSuffix(content, `"`)
				}
				if curQual.Name == "translation" {
					curQual.Value += content
				} else if curQual.Value == "" {
					curQual.Value = content
				} else {
					curQual.Value += " " + content
				}
				if closed {
					inQuote = false
					flushQual()
				}
				continue
			}
			// Continuation of the location.
			curFeature.Location += content

		case "origin":
			for _, field := range strings.Fields(line) {
				if field[0] >= '0' && field[0] <= '9' {
					continue // position column
				}
				seq.WriteString(field)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to read %s", path), err)
	}

	if len(records) == 0 {
		return nil, model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("no GenBank records found in %s", path))
	}
	return records, nil
}

// Find returns the record whose versioned accession matches acc. A match
// against the unversioned accession is accepted when no versioned match
// exists, since config.toml sometimes omits the version suffix.
func Find(records []*Record, acc string) (*Record, error) {
	for _, rec := range records {
		if rec.Accession == acc {
			return rec, nil
		}
	}
	for _, rec := range records {
		if unversioned(rec.Accession) == unversioned(acc) {
			return rec, nil
		}
	}
	return nil, model.NewCLIError(model.ExitGeneralError,
		fmt.Sprintf("accession %s not found in GBFF file", acc))
}

func unversioned(acc string) string {
	base, _, _ := strings.Cut(acc, ".")
	return base
}

// parseHeaderLine picks the accession and definition out of the header
// as it streams past. keyword is the most recent header keyword (lines
// starting in column 1); indented lines continue it. The updated keyword
// is returned for the next line.
func parseHeaderLine(rec *Record, line, keyword string) string {
	if line != "" && line[0] != ' ' {
		keyword = strings.Fields(line)[0]
	}

	switch {
	case strings.HasPrefix(line, "VERSION"):
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			rec.Accession = fields[1]
		}
	case strings.HasPrefix(line, "ACCESSION"):
		if rec.Accession == "" {
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				rec.Accession = fields[1]
			}
		}
	case strings.HasPrefix(line, "DEFINITION"):
		rec.Definition = strings.TrimSpace(strings.TrimPrefix(line, "DEFINITION"))
	case keyword == "DEFINITION" && strings.HasPrefix(line, " "):
		rec.Definition += " " + strings.TrimSpace(line)
	}
	return keyword
}

// parseQualifierStart parses the first line of a /name=value qualifier.
// Returns the qualifier and whether a quoted value is still open.
func parseQualifierStart(content string) (*Qualifier, bool) {
	content = strings.TrimPrefix(content, "/")
	name, value, hasValue := strings.Cut(content, "=")
	q := &Qualifier{Name: name}
	if !hasValue {
		return q, false
	}
	if strings.HasPrefix(value, `"`) {
		q.Quoted = true
		value = strings.TrimPrefix(value, `"`)
		if strings.HasSuffix(value, `"`) {
			q.Value = strings.TrimSuffix(value, `"`)
			return q, false
		}
		q.Value = value
		return q, true
	}
	q.Value = value
	return q, false
}

func isSpaceAt(line string, i int) bool {
	return i < len(line) && line[i] == ' '
}
