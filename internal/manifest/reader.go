package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// SkippedRow describes a manifest line the reader could not use. Skipped rows
// are reported to the operator but never abort the whole file.
type SkippedRow struct {
	Line   int
	Reason string
}

// Read parses a manifest file. Columns are matched by header name, so order
// is irrelevant and extra columns are ignored. Rows missing a required value
// are returned as SkippedRow entries; only a missing required header or an
// unreadable file is an error.
func Read(path string) ([]Row, []SkippedRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	rows, skipped, err := parse(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return rows, skipped, nil
}

func parse(r io.Reader) ([]Row, []SkippedRow, error) {
	cr := csv.NewReader(r)
	// Operator-edited files may have ragged rows; handle field counts per row.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, errors.New("empty file")
	}
	if err != nil {
		return nil, nil, err
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{ColFullName, ColDefaultBranch, ColHasRuleset, ColApplyProtection} {
		if _, ok := idx[required]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var rows []Row
	var skipped []SkippedRow
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			skipped = append(skipped, SkippedRow{Line: line, Reason: err.Error()})
			continue
		}

		field := func(col string) (string, bool) {
			i := idx[col]
			if i >= len(record) {
				return "", false
			}
			return strings.TrimSpace(record[i]), true
		}

		fullName, ok := field(ColFullName)
		if !ok || fullName == "" {
			skipped = append(skipped, SkippedRow{Line: line, Reason: "missing full_name"})
			continue
		}
		defaultBranch, ok := field(ColDefaultBranch)
		if !ok || defaultBranch == "" {
			skipped = append(skipped, SkippedRow{Line: line, Reason: "missing default_branch"})
			continue
		}
		hasRuleset, _ := field(ColHasRuleset)
		applyProtection, _ := field(ColApplyProtection)

		rows = append(rows, Row{
			FullName:      fullName,
			DefaultBranch: defaultBranch,
			HasRuleset:    parseBoolLoose(hasRuleset),
			// Blank or malformed decisions mean NO; Selected() handles that.
			ApplyProtection: applyProtection,
		})
	}

	return rows, skipped, nil
}

// parseBoolLoose accepts the writer's own output ("true"/"false") plus the
// obvious hand-edited variants. Anything unrecognized is false; the apply
// path never trusts this field anyway and re-checks live status.
func parseBoolLoose(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true
	default:
		return false
	}
}
