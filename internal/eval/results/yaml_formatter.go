package results

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/beateval/internal/config"
	"github.com/lehigh-university-libraries/beateval/internal/eval/score"
)

// ManifestName is the run manifest written next to the score files.
const ManifestName = "run.yaml"

// RunConfig represents the configuration section of the run manifest
type RunConfig struct {
	InputGlob   string                 `yaml:"input_glob"`
	TruthPath   string                 `yaml:"truth_path"`
	Destination string                 `yaml:"destination"`
	Metrics     config.ToleranceConfig `yaml:"metrics"`
}

// RunSummary counts outcomes by status
type RunSummary struct {
	Files      int `yaml:"files"`
	OK         int `yaml:"ok"`
	Degenerate int `yaml:"degenerate"`
	Unwritten  int `yaml:"unwritten"`
}

// FileEntry represents a single evaluated prediction file
type FileEntry struct {
	ID      string       `yaml:"id"`
	File    string       `yaml:"file"`
	Variant string       `yaml:"variant"`
	Status  score.Status `yaml:"status"`
	Error   string       `yaml:"error,omitempty"`
	Scores  []float64    `yaml:"scores,flow"`
}

// Manifest represents a complete evaluation run
type Manifest struct {
	Config  RunConfig   `yaml:"config"`
	Summary RunSummary  `yaml:"summary"`
	Files   []FileEntry `yaml:"files"`
}

// Sort orders the file entries by identifier, then file name.
func (m *Manifest) Sort() {
	sort.Slice(m.Files, func(i, j int) bool {
		if m.Files[i].ID != m.Files[j].ID {
			return m.Files[i].ID < m.Files[j].ID
		}
		return m.Files[i].File < m.Files[j].File
	})
}

// NewFileEntry records one result written, or not, to file.
func NewFileEntry(file, variant string, res score.Result) FileEntry {
	entry := FileEntry{
		ID:      res.ID,
		File:    file,
		Variant: variant,
		Status:  res.Status,
		Scores:  res.Vector[:],
	}
	if res.Err != nil {
		entry.Error = res.Err.Error()
	}
	return entry
}

// WriteManifest writes the manifest to dir, sorted so identical runs
// produce identical files.
func WriteManifest(dir string, m Manifest) error {
	m.Sort()

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := writeAtomic(filepath.Join(dir, ManifestName), data); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// LoadManifest reads a run manifest from dir.
func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}
