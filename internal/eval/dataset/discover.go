package dataset

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// ReferenceExt is the extension of ground-truth beat files.
	ReferenceExt = ".txt"
	// ScoreFileSuffix is appended to a prediction's base name to name its score file.
	ScoreFileSuffix = ".scores.txt"
)

// Discover expands pattern into evaluation tasks, sorted by prediction path.
// A malformed pattern is an error; a pattern matching nothing is not.
func Discover(pattern, truthDir, destination string) ([]Task, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid input pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)

	tasks := make([]Task, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}

		raw := RawName(path)
		id := TrackID(raw)
		tasks = append(tasks, Task{
			ID:             id,
			PredictionPath: path,
			ReferencePath:  filepath.Join(truthDir, id+ReferenceExt),
			OutputPath:     filepath.Join(destination, raw+ScoreFileSuffix),
			Variant:        ParseVariant(raw),
		})
	}

	slog.Debug("Discovered prediction files", "pattern", pattern, "files", len(tasks))

	return tasks, nil
}

// RawName is a file's base name without its last extension.
func RawName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// TrackID is the part of a raw name before its first dot.
func TrackID(raw string) string {
	id, _, _ := strings.Cut(raw, ".")
	return id
}
