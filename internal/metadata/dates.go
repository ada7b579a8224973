package metadata

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/klauspost/pgzip"

	"github.com/seqclade/vut/internal/model"
)

// yearRegex matches dates that carry at least a real 4-digit year.
// Anything else ("", "?", "unknown") does not count as a usable date.
var yearRegex = regexp.MustCompile(`^[0-9]{4}`)

// Padding rules for treetime: a bare year or year-month gets -XX filler
// so every row is a full YYYY-MM-DD shape.
var (
	yearOnlyRegex  = regexp.MustCompile(`^[0-9]{4}$`)
	yearMonthRegex = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}$`)
)

// DateScan is the result of scanning a metadata.tsv.gz: the usable
// strain→date pairs and the counts needed to decide whether the tree has
// enough real dates for treetime to be worth running.
type DateScan struct {
	// Dates maps strain name to its raw date string, for strains whose
	// date starts with a 4-digit year.
	Dates map[string]string

	// Rows is the total number of data rows scanned.
	Rows int

	// RealDates is the number of rows with a usable date.
	RealDates int
}

// RealProportion returns the fraction of rows carrying a usable date.
// Zero rows yields 0.
func (s *DateScan) RealProportion() float64 {
	if s.Rows == 0 {
		return 0
	}
	return float64(s.RealDates) / float64(s.Rows)
}

// ScanDates streams a metadata.tsv.gz and collects strain→date pairs.
//
// The header must have "strain" as its first column (the tree's sample
// names are keyed on it downstream) and must contain a "date" column.
// Rows too short to have a date cell count toward Rows but not RealDates.
func ScanDates(path string) (*DateScan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitMetadataError,
			fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	zr, err := pgzip.NewReader(f)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitMetadataError,
			fmt.Sprintf("%s is not valid gzip", path), err)
	}
	defer zr.Close()

	scanner := bufio.NewScanner(zr)
	// Metadata rows can carry long pango lineage histories; allow lines
	// well past bufio's 64K default.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, model.WrapCLIError(model.ExitMetadataError,
				fmt.Sprintf("failed to read %s", path), err)
		}
		return nil, model.NewCLIError(model.ExitMetadataError,
			fmt.Sprintf("%s is empty", path))
	}

	header := strings.Split(scanner.Text(), "\t")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	nameIdx := indexOf(header, "strain")
	if nameIdx != 0 {
		return nil, model.NewCLIError(model.ExitMetadataError,
			fmt.Sprintf("%s: strain must be the first column, found it at index %d", path, nameIdx))
	}
	dateIdx := indexOf(header, "date")
	if dateIdx < 0 {
		return nil, model.NewCLIError(model.ExitMetadataError,
			fmt.Sprintf("%s does not have a date column", path))
	}

	scan := &DateScan{Dates: make(map[string]string)}
	for scanner.Scan() {
		fields := strings.Split(strings.TrimRight(scanner.Text(), "\r\n"), "\t")
		scan.Rows++
		if len(fields) <= dateIdx {
			continue
		}
		date := fields[dateIdx]
		if yearRegex.MatchString(date) {
			scan.Dates[fields[nameIdx]] = date
			scan.RealDates++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, model.WrapCLIError(model.ExitMetadataError,
			fmt.Sprintf("failed to read %s", path), err)
	}

	return scan, nil
}

// PadDate fills in missing month and/or day with -XX, the placeholder
// treetime expects for partially known dates. Full dates pass through
// unchanged.
func PadDate(date string) string {
	switch {
	case yearOnlyRegex.MatchString(date):
		return date + "-XX-XX"
	case yearMonthRegex.MatchString(date):
		return date + "-XX"
	default:
		return date
	}
}

// WriteDatesCSV writes the name,date CSV consumed by treetime clock.
// Strains are written in sorted order so repeated runs produce identical
// files.
func WriteDatesCSV(path string, scan *DateScan) error {
	f, err := os.Create(path)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to create %s", path), err)
	}
	defer f.Close()

	names := make([]string, 0, len(scan.Dates))
	for name := range scan.Dates {
		names = append(names, name)
	}
	sort.Strings(names)

	w := csv.NewWriter(f)
	if err := w.Write([]string{"name", "date"}); err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to write %s", path), err)
	}
	for _, name := range names {
		if err := w.Write([]string{name, PadDate(scan.Dates[name])}); err != nil {
			return model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("failed to write %s", path), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to write %s", path), err)
	}
	return f.Close()
}

// indexOf returns the index of want in fields, or -1.
func indexOf(fields []string, want string) int {
	for i, f := range fields {
		if f == want {
			return i
		}
	}
	return -1
}
