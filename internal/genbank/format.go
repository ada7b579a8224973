package genbank

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/seqclade/vut/internal/model"
)

// WriteFile writes records back out in GenBank flat file format.
// Header lines are emitted verbatim; the feature table and ORIGIN block
// are re-formatted from the parsed representation.
func WriteFile(path string, records []*Record) error {
	f, err := os.Create(path)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to create %s", path), err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, rec := range records {
		writeRecord(w, rec)
	}
	if err := w.Flush(); err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to write %s", path), err)
	}
	return f.Close()
}

func writeRecord(w *bufio.Writer, rec *Record) {
	for _, line := range rec.headerLines {
		fmt.Fprintln(w, line)
	}

	featuresLine := rec.featuresLine
	if featuresLine == "" {
		featuresLine = "FEATURES             Location/Qualifiers"
	}
	fmt.Fprintln(w, featuresLine)

	for _, feat := range rec.Features {
		writeFeature(w, feat)
	}
	for _, line := range rec.betweenLines {
		fmt.Fprintln(w, line)
	}

	writeOrigin(w, rec)
	fmt.Fprintln(w, "//")
}

func writeFeature(w *bufio.Writer, feat *Feature) {
	// Key at column 6, location at column 22. Long locations (joins)
	// wrap after commas.
	indent := strings.Repeat(" ", qualIndent)
	keyField := fmt.Sprintf("%s%-*s", strings.Repeat(" ", keyIndent), qualIndent-keyIndent, feat.Key)
	for i, part := range wrapLocation(feat.Location, maxLineWidth-qualIndent) {
		if i == 0 {
			fmt.Fprintf(w, "%s%s\n", keyField, part)
		} else {
			fmt.Fprintf(w, "%s%s\n", indent, part)
		}
	}

	for _, q := range feat.Qualifiers {
		for _, line := range formatQualifier(q) {
			fmt.Fprintf(w, "%s%s\n", indent, line)
		}
	}
}

// formatQualifier renders one qualifier as wrapped lines (without the
// leading indent).
func formatQualifier(q Qualifier) []string {
	var text string
	switch {
	case q.Value == "" && !q.Quoted:
		text = "/" + q.Name
	case q.Quoted:
		text = fmt.Sprintf("/%s=%q", q.Name, q.Value)
	default:
		text = fmt.Sprintf("/%s=%s", q.Name, q.Value)
	}

	width := maxLineWidth - qualIndent
	if len(text) <= width {
		return []string{text}
	}
	// Translations (and other unbroken values) are hard-sliced; prose
	// values wrap on spaces.
	if q.Name == "translation" || !strings.Contains(q.Value, " ") {
		return sliceWrap(text, width)
	}
	return wordWrap(text, width)
}

// sliceWrap cuts text into fixed-width lines.
func sliceWrap(text string, width int) []string {
	var lines []string
	for len(text) > width {
		lines = append(lines, text[:width])
		text = text[width:]
	}
	if text != "" {
		lines = append(lines, text)
	}
	return lines
}

// wordWrap wraps text on spaces, falling back to hard slicing for words
// longer than the width.
func wordWrap(text string, width int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	var out []string
	for _, l := range lines {
		out = append(out, sliceWrap(l, width)...)
	}
	return out
}

// wrapLocation splits a feature location after commas so join(...)
// locations fit the line width. Simple spans come back as one part.
func wrapLocation(loc string, width int) []string {
	if len(loc) <= width || !strings.Contains(loc, ",") {
		return []string{loc}
	}
	var parts []string
	line := ""
	for _, segment := range strings.SplitAfter(loc, ",") {
		if line != "" && len(line)+len(segment) > width {
			parts = append(parts, line)
			line = ""
		}
		line += segment
	}
	if line != "" {
		parts = append(parts, line)
	}
	return parts
}

// writeOrigin emits the ORIGIN block: 60 bases per line in 10-base
// groups, with a right-aligned 1-based position column.
func writeOrigin(w *bufio.Writer, rec *Record) {
	originLine := rec.originLine
	if originLine == "" {
		originLine = "ORIGIN"
	}
	fmt.Fprintln(w, originLine)

	seq := strings.ToLower(rec.Sequence)
	for pos := 0; pos < len(seq); pos += 60 {
		end := pos + 60
		if end > len(seq) {
			end = len(seq)
		}
		var groups []string
		for g := pos; g < end; g += 10 {
			ge := g + 10
			if ge > end {
				ge = end
			}
			groups = append(groups, seq[g:ge])
		}
		fmt.Fprintf(w, "%9d %s\n", pos+1, strings.Join(groups, " "))
	}
}
