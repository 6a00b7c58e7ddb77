// Package results persists evaluation outcomes and summarises them.
package results

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/lehigh-university-libraries/beateval/internal/eval/score"
)

// FormatScoreFile renders v as a commented header line and one row of
// nine fixed-point values.
func FormatScoreFile(v score.Vector) []byte {
	fields := make([]string, len(v))
	for i, x := range v {
		fields[i] = strconv.FormatFloat(x, 'f', 4, 64)
	}

	var b strings.Builder
	b.WriteString("# " + score.Header + "\n")
	b.WriteString(strings.Join(fields, ",") + "\n")
	return []byte(b.String())
}

// WriteScoreFile replaces path with the score file for v. A reader sees
// either the previous file or the complete new one.
func WriteScoreFile(path string, v score.Vector) error {
	return writeAtomic(path, FormatScoreFile(v))
}

// writeAtomic syncs data to a temporary file beside path and renames it
// over path, so a crash leaves either the old file or the complete new one.
func writeAtomic(path string, data []byte) error {
	if err := renameio.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
