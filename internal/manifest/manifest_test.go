package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteThenRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	in := []Row{
		{FullName: "acme/alpha", DefaultBranch: "main", HasRuleset: true},
		{FullName: "acme/beta", DefaultBranch: "master", HasRuleset: false},
		{FullName: "acme/gamma", DefaultBranch: "main", HasRuleset: false},
	}
	path, err := w.Write(in)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("manifest written outside output dir: %s", path)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "ruleset_manifest_") || !strings.HasSuffix(base, ".csv") {
		t.Fatalf("unexpected manifest name: %s", base)
	}

	rows, skipped, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("expected no skipped rows, got %v", skipped)
	}
	if len(rows) != len(in) {
		t.Fatalf("expected %d rows, got %d", len(in), len(rows))
	}
	for i, row := range rows {
		if row.FullName != in[i].FullName {
			t.Fatalf("row %d: expected full_name %q, got %q", i, in[i].FullName, row.FullName)
		}
		if row.DefaultBranch != in[i].DefaultBranch {
			t.Fatalf("row %d: expected default_branch %q, got %q", i, in[i].DefaultBranch, row.DefaultBranch)
		}
		if row.HasRuleset != in[i].HasRuleset {
			t.Fatalf("row %d: expected has_ruleset %v, got %v", i, in[i].HasRuleset, row.HasRuleset)
		}
		// The writer never pre-selects rows; that is the operator's call.
		if row.Selected() {
			t.Fatalf("row %d: fresh manifest row must not be selected", i)
		}
	}
}

func TestWrite_LeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	if _, err := w.Write([]Row{{FullName: "acme/alpha", DefaultBranch: "main"}}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected exactly the manifest in %s, got %v", dir, names)
	}
}

func TestWrite_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports", "nested")
	w := NewWriter(dir)
	path, err := w.Write(nil)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
}

func TestRead_SelectionIsCaseInsensitive(t *testing.T) {
	path := writeFile(t, strings.Join([]string{
		"full_name,default_branch,has_ruleset,apply_protection",
		"o/r,main,false,yes",
		"o/r2,main,false,YES",
		"o/r3,main,false,Yes ",
		"o/r4,main,false,NO",
		"o/r5,main,false,",
		"o/r6,main,false,maybe",
	}, "\n"))

	rows, skipped, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("expected no skipped rows, got %v", skipped)
	}

	var selected []string
	for _, row := range rows {
		if row.Selected() {
			selected = append(selected, row.FullName)
		}
	}
	want := []string{"o/r", "o/r2", "o/r3"}
	if len(selected) != len(want) {
		t.Fatalf("expected selected %v, got %v", want, selected)
	}
	for i := range want {
		if selected[i] != want[i] {
			t.Fatalf("expected selected %v, got %v", want, selected)
		}
	}
}

func TestRead_HeaderNameMatchedAndExtrasIgnored(t *testing.T) {
	// Shuffled column order plus extra columns.
	path := writeFile(t, strings.Join([]string{
		"note,apply_protection,has_ruleset,full_name,default_branch",
		"hello,YES,true,acme/alpha,develop",
	}, "\n"))

	rows, _, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.FullName != "acme/alpha" || row.DefaultBranch != "develop" || !row.HasRuleset || !row.Selected() {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestRead_MalformedRowsSkippedNotFatal(t *testing.T) {
	path := writeFile(t, strings.Join([]string{
		"full_name,default_branch,has_ruleset,apply_protection",
		"acme/alpha,main,false,NO",
		",main,false,YES",
		"acme/beta",
		"acme/gamma,main,true,YES",
	}, "\n"))

	rows, skipped, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 usable rows, got %d: %+v", len(rows), rows)
	}
	if len(skipped) != 2 {
		t.Fatalf("expected 2 skipped rows, got %v", skipped)
	}
}

func TestRead_MissingRequiredColumnIsFatal(t *testing.T) {
	path := writeFile(t, strings.Join([]string{
		"full_name,default_branch,apply_protection",
		"acme/alpha,main,NO",
	}, "\n"))

	if _, _, err := Read(path); err == nil {
		t.Fatal("expected error for missing has_ruleset column")
	} else if !strings.Contains(err.Error(), "has_ruleset") {
		t.Fatalf("expected error naming the missing column, got %v", err)
	}
}

func TestRead_MissingFileIsError(t *testing.T) {
	if _, _, err := Read(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRowOwner(t *testing.T) {
	tests := []struct {
		fullName  string
		wantOwner string
		wantName  string
		wantOK    bool
	}{
		{"acme/alpha", "acme", "alpha", true},
		{"alpha", "", "", false},
		{"/alpha", "", "", false},
		{"acme/", "", "", false},
	}
	for _, tt := range tests {
		owner, name, ok := Row{FullName: tt.fullName}.Owner()
		if owner != tt.wantOwner || name != tt.wantName || ok != tt.wantOK {
			t.Fatalf("Owner(%q) = %q, %q, %v", tt.fullName, owner, name, ok)
		}
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.csv")
	if err := os.WriteFile(path, []byte(content+"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}
