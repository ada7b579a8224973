package metadata

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/pgzip"

	"github.com/seqclade/vut/internal/model"
)

// RefLength extracts the ref_length value from a tree's output_stats.tsv.
// The file is a small TSV with a header row; if the builder appended
// stats for multiple runs, the last row wins.
func RefLength(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, model.WrapCLIError(model.ExitMetadataError,
			fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return 0, model.NewCLIError(model.ExitMetadataError,
			fmt.Sprintf("%s is empty", path))
	}
	header := strings.Split(strings.TrimRight(scanner.Text(), "\r\n"), "\t")
	idx := indexOf(header, "ref_length")
	if idx < 0 {
		return 0, model.NewCLIError(model.ExitMetadataError,
			fmt.Sprintf("%s does not have a ref_length column", path))
	}

	refLength := 0
	found := false
	for scanner.Scan() {
		fields := strings.Split(strings.TrimRight(scanner.Text(), "\r\n"), "\t")
		if len(fields) <= idx {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(fields[idx]))
		if err != nil {
			return 0, model.WrapCLIError(model.ExitMetadataError,
				fmt.Sprintf("%s: bad ref_length value %q", path, fields[idx]), err)
		}
		refLength = v
		found = true
	}
	if err := scanner.Err(); err != nil {
		return 0, model.WrapCLIError(model.ExitMetadataError,
			fmt.Sprintf("failed to read %s", path), err)
	}
	if !found {
		return 0, model.NewCLIError(model.ExitMetadataError,
			fmt.Sprintf("%s has no data rows", path))
	}
	return refLength, nil
}

// Stats reads an output_stats.tsv into column→value maps, one per data
// row, for the summary command. Columns are kept as strings; callers
// parse the fields they care about.
func Stats(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitMetadataError,
			fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil, model.NewCLIError(model.ExitMetadataError,
			fmt.Sprintf("%s is empty", path))
	}
	header := strings.Split(strings.TrimRight(scanner.Text(), "\r\n"), "\t")

	var rows []map[string]string
	for scanner.Scan() {
		fields := strings.Split(strings.TrimRight(scanner.Text(), "\r\n"), "\t")
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(fields) {
				row[col] = fields[i]
			}
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, model.WrapCLIError(model.ExitMetadataError,
			fmt.Sprintf("failed to read %s", path), err)
	}
	return rows, nil
}

// ColumnsString returns the header of a TSV file (gzipped or not) as a
// comma-separated list, the format usher_to_taxonium's -c flag expects.
func ColumnsString(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", model.WrapCLIError(model.ExitMetadataError,
			fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := pgzip.NewReader(f)
		if err != nil {
			return "", model.WrapCLIError(model.ExitMetadataError,
				fmt.Sprintf("%s is not valid gzip", path), err)
		}
		defer zr.Close()
		r = zr
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	if !scanner.Scan() {
		return "", model.NewCLIError(model.ExitMetadataError,
			fmt.Sprintf("failed to get columns from %s", path))
	}

	header := strings.Split(scanner.Text(), "\t")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return strings.Join(header, ","), nil
}
