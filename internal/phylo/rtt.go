package phylo

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/seqclade/vut/internal/model"
)

// internalNodePrefix marks treetime's internal node labels in rtt.csv.
// Leaf rows carry sample names and are ignored: the reroot target must
// be an internal node.
const internalNodePrefix = "node_"

// OldestNode scans treetime's root-to-tip regression output
// (treetime_out/rtt.csv) and returns the internal node with the smallest
// inferred date. Ties keep the first row, matching the sort|head shell
// pipeline this replaces.
func OldestNode(rttPath string) (string, error) {
	f, err := os.Open(rttPath)
	if err != nil {
		return "", model.WrapCLIError(model.ExitToolError,
			fmt.Sprintf("failed to open %s (did treetime run?)", rttPath), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return "", model.WrapCLIError(model.ExitToolError,
			fmt.Sprintf("failed to parse %s", rttPath), err)
	}

	oldest := ""
	minDate := 0.0
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if !strings.HasPrefix(name, internalNodePrefix) {
			continue
		}
		date, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			continue
		}
		if oldest == "" || date < minDate {
			oldest = name
			minDate = date
		}
	}

	if oldest == "" {
		return "", model.NewCLIError(model.ExitToolError,
			fmt.Sprintf("failed to get oldest node from %s", rttPath))
	}
	return oldest, nil
}
