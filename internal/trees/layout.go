package trees

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/seqclade/vut/internal/model"
)

// ConfigName is the per-tree configuration file written by viral_usher.
// A directory under the trees root counts as a tree only if it has one.
const ConfigName = "config.toml"

// Layout locates tree directories under a single trees root.
type Layout struct {
	// Root is the directory containing one subdirectory per tree.
	Root string
}

// NewLayout creates a Layout for the given trees root.
func NewLayout(root string) *Layout {
	return &Layout{Root: root}
}

// List returns the sorted names of all tree directories: subdirectories
// of the root that contain a config.toml. Other entries (loose files,
// scratch directories) are skipped silently, matching how the shell
// glue iterated trees/*/config.toml.
func (l *Layout) List() ([]string, error) {
	entries, err := os.ReadDir(l.Root)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitTreeNotFound,
			fmt.Sprintf("failed to read trees directory %s", l.Root), err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if !Exists(filepath.Join(l.Root, entry.Name(), ConfigName)) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Dir returns the directory path for the named tree. The name is
// validated first so a crafted name can never escape the root.
func (l *Layout) Dir(name string) (string, error) {
	if err := model.ValidateName(name); err != nil {
		return "", model.WrapCLIError(model.ExitTreeNotFound, "bad tree name", err)
	}
	return filepath.Join(l.Root, name), nil
}

// Exists reports whether the path exists as a regular file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Artifacts constructs the expected artifact paths for one tree
// directory and one reference accession. Methods return paths; none of
// them touch the filesystem except Status and Check.
type Artifacts struct {
	// Dir is the tree directory.
	Dir string

	// Acc is the RefSeq accession from config.toml. Accession-derived
	// paths (GBFF, Fasta, rerooted variants) are empty when Acc is empty.
	Acc string
}

// NewArtifacts creates an Artifacts view over a tree directory.
func NewArtifacts(dir, acc string) Artifacts {
	return Artifacts{Dir: dir, Acc: acc}
}

// ConfigTOML returns the per-tree config path.
func (a Artifacts) ConfigTOML() string { return filepath.Join(a.Dir, ConfigName) }

// GBFF returns the reference GenBank flat file path (<acc>.gbff).
func (a Artifacts) GBFF() string { return a.accPath("%s.gbff") }

// Fasta returns the reference FASTA path (<acc>.fa).
func (a Artifacts) Fasta() string { return a.accPath("%s.fa") }

// OptimizedPB returns the usher-optimized mutation-annotated tree path.
func (a Artifacts) OptimizedPB() string { return filepath.Join(a.Dir, "optimized.pb.gz") }

// VizPB returns the visualization mutation-annotated tree path.
func (a Artifacts) VizPB() string { return filepath.Join(a.Dir, "viz.pb.gz") }

// VizNewickGz returns the gzipped Newick export of the viz tree.
func (a Artifacts) VizNewickGz() string { return filepath.Join(a.Dir, "viz.nwk.gz") }

// ScaledNewick returns the branch-length-scaled Newick written for treetime.
func (a Artifacts) ScaledNewick() string { return filepath.Join(a.Dir, "viz.scaled.nwk") }

// DatesCSV returns the name,date CSV written for treetime.
func (a Artifacts) DatesCSV() string { return filepath.Join(a.Dir, "dates.csv") }

// MetadataTSV returns the gzipped sample metadata path.
func (a Artifacts) MetadataTSV() string { return filepath.Join(a.Dir, "metadata.tsv.gz") }

// OutputStats returns the tree build statistics TSV path.
func (a Artifacts) OutputStats() string { return filepath.Join(a.Dir, "output_stats.tsv") }

// TreetimeOutDir returns the treetime output directory.
func (a Artifacts) TreetimeOutDir() string { return filepath.Join(a.Dir, "treetime_out") }

// RTTCSV returns treetime's root-to-tip regression CSV path.
func (a Artifacts) RTTCSV() string { return filepath.Join(a.TreetimeOutDir(), "rtt.csv") }

// RerootedNewick returns treetime's rerooted Newick output path.
func (a Artifacts) RerootedNewick() string {
	return filepath.Join(a.TreetimeOutDir(), "rerooted.newick")
}

// TreetimeLog returns the captured treetime output log path.
func (a Artifacts) TreetimeLog() string { return filepath.Join(a.Dir, "treetime.log") }

// RerootedPB returns the treetime-rerooted mutation-annotated tree path.
func (a Artifacts) RerootedPB() string { return filepath.Join(a.Dir, "timetree_rerooted.pb.gz") }

// RerootedFasta returns the rerooted reference FASTA written by matUtils.
func (a Artifacts) RerootedFasta() string { return a.accPath("treetime_rerooted_%s.fa") }

// RerootedGBFF returns the GBFF rewritten against the rerooted reference.
func (a Artifacts) RerootedGBFF() string { return a.accPath("treetime_rerooted_%s.gbff") }

// TaxoniumJSONL returns the taxonium export path for the rerooted tree.
func (a Artifacts) TaxoniumJSONL() string {
	return filepath.Join(a.Dir, "timetree_rerooted.jsonl.gz")
}

// accPath formats an accession-derived path, or returns "" when the
// accession is unknown.
func (a Artifacts) accPath(format string) string {
	if a.Acc == "" {
		return ""
	}
	return filepath.Join(a.Dir, fmt.Sprintf(format, a.Acc))
}

// Status derives the pipeline status from which artifacts exist.
func (a Artifacts) Status() model.TreeStatus {
	if Exists(a.RerootedPB()) {
		return model.StatusRerooted
	}
	if a.Acc != "" && Exists(a.GBFF()) && Exists(a.Fasta()) {
		return model.StatusFetched
	}
	return model.StatusUnfetched
}

// Check lists the named artifacts and their presence, for the list
// command's output.
func (a Artifacts) Check() []model.ArtifactInfo {
	paths := []string{
		a.GBFF(), a.Fasta(),
		a.OptimizedPB(), a.VizPB(), a.MetadataTSV(), a.OutputStats(),
		a.RerootedPB(), a.TaxoniumJSONL(),
	}
	var infos []model.ArtifactInfo
	for _, p := range paths {
		if p == "" {
			continue
		}
		infos = append(infos, model.ArtifactInfo{
			Name:    filepath.Base(p),
			Present: Exists(p),
		})
	}
	return infos
}

// RequireBuildInputs verifies the files a reroot run needs are in place:
// the optimized tree, the viz exports, the metadata, and the build
// stats. Returns a CLIError naming the first missing file, so the
// command fails before any external tool is launched.
func (a Artifacts) RequireBuildInputs() error {
	required := []string{
		a.OptimizedPB(),
		a.VizPB(),
		a.VizNewickGz(),
		a.MetadataTSV(),
		a.OutputStats(),
	}
	for _, p := range required {
		if !Exists(p) {
			return model.NewCLIError(model.ExitTreeNotFound,
				fmt.Sprintf("expected file %s not found, has the tree been built?", p))
		}
	}
	return nil
}
