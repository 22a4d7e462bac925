package manifest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Writer emits audit manifests. Each call to Write produces a new file named
// with a UTC timestamp so consecutive runs never collide.
type Writer struct {
	dir string
	now func() time.Time
}

func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{dir: dir, now: time.Now}
}

// Write serializes rows to <dir>/ruleset_manifest_<timestamp>.csv and returns
// the final path. The file is written to a temp file in the same directory and
// renamed into place, so a crash mid-write never leaves a truncated manifest
// under the final name.
//
// apply_protection is always written as "NO"; promoting rows to YES is the
// operator's decision, made in an editor between audit and apply.
func (w *Writer) Write(rows []Row) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	stamp := w.now().UTC().Format("20060102_150405")
	path := filepath.Join(w.dir, fmt.Sprintf("ruleset_manifest_%s.csv", stamp))

	tmp, err := os.CreateTemp(w.dir, "ruleset_manifest_*.csv.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create manifest temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		// Best effort; gone already if the rename succeeded.
		_ = os.Remove(tmpPath)
	}()

	cw := csv.NewWriter(tmp)
	header := []string{ColFullName, ColDefaultBranch, ColHasRuleset, ColApplyProtection}
	if err := cw.Write(header); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write manifest header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.FullName,
			row.DefaultBranch,
			strconv.FormatBool(row.HasRuleset),
			"NO",
		}
		if err := cw.Write(record); err != nil {
			_ = tmp.Close()
			return "", fmt.Errorf("failed to write manifest row for %s: %w", row.FullName, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to flush manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close manifest temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("failed to finalize manifest: %w", err)
	}
	return path, nil
}
