package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/beateval/internal/eval/score"
	"github.com/parquet-go/parquet-go"
)

// Loader reads previously written scores, either a directory of score
// files or a parquet score table.
type Loader struct {
	path string
}

// NewLoader creates a new score loader
func NewLoader(path string) *Loader {
	return &Loader{
		path: path,
	}
}

// Load returns every score record under the loader's path.
func (l *Loader) Load() ([]ScoreRecord, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat results path: %w", err)
	}
	if info.IsDir() {
		return l.loadScoreDir()
	}

	switch ext := strings.ToLower(filepath.Ext(l.path)); ext {
	case ".parquet":
		return LoadScoreTable(l.path)
	default:
		return nil, fmt.Errorf("unsupported results format: %s (supported: directory, .parquet)", ext)
	}
}

// loadScoreDir reads every score file in a results directory. Files that
// cannot be parsed are skipped.
func (l *Loader) loadScoreDir() ([]ScoreRecord, error) {
	paths, err := filepath.Glob(filepath.Join(l.path, "*"+ScoreFileSuffix))
	if err != nil {
		return nil, fmt.Errorf("failed to list score files: %w", err)
	}

	slog.Debug("Reading score files", "dir", l.path, "files", len(paths))

	records := make([]ScoreRecord, 0, len(paths))
	for _, path := range paths {
		v, err := LoadScoreFile(path)
		if err != nil {
			slog.Warn("Skipping unreadable score file", "path", path, "error", err)
			continue
		}
		raw := strings.TrimSuffix(filepath.Base(path), ScoreFileSuffix)
		records = append(records, NewScoreRecord(raw, v))
	}

	return records, nil
}

// LoadScoreFile reads the single score row of a score file.
func LoadScoreFile(path string) (score.Vector, error) {
	var v score.Vector

	file, err := os.Open(path)
	if err != nil {
		return v, fmt.Errorf("failed to open score file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) != score.NumSlots {
			return v, fmt.Errorf("expected %d scores, found %d", score.NumSlots, len(fields))
		}
		for i, f := range fields {
			x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return v, fmt.Errorf("failed to parse %s: %w", score.Names()[i], err)
			}
			v[i] = x
		}
		return v, nil
	}

	if err := scanner.Err(); err != nil {
		return v, fmt.Errorf("error reading score file: %w", err)
	}
	return v, errors.New("score file has no score row")
}

// LoadScoreTable reads a parquet score table written by WriteScoreTable.
func LoadScoreTable(path string) ([]ScoreRecord, error) {
	slog.Debug("Opening Parquet file", "path", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened successfully", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[ScoreRecord](pf)
	defer reader.Close()

	var records []ScoreRecord
	rows := make([]ScoreRecord, 128)
	for {
		n, err := reader.Read(rows)
		records = append(records, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	return records, nil
}

// WriteScoreTable writes records as a parquet table.
func WriteScoreTable(path string, records []ScoreRecord) error {
	if err := parquet.WriteFile(path, records); err != nil {
		return fmt.Errorf("failed to write parquet table: %w", err)
	}
	return nil
}
