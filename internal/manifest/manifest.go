// Package manifest reads and writes the CSV file that carries audit results
// between the audit and apply phases. The CSV is the only state that outlives
// the process; operators edit the apply_protection column out-of-band.
package manifest

import "strings"

// Column names, in the order the writer emits them.
const (
	ColFullName        = "full_name"
	ColDefaultBranch   = "default_branch"
	ColHasRuleset      = "has_ruleset"
	ColApplyProtection = "apply_protection"
)

// Row is one manifest line.
type Row struct {
	FullName      string
	DefaultBranch string
	HasRuleset    bool

	// ApplyProtection is the raw operator decision. Only a case-insensitive
	// "YES" selects the row for apply; anything else means NO and is not an
	// error.
	ApplyProtection string
}

// Selected reports whether the operator marked this row for apply.
func (r Row) Selected() bool {
	return strings.EqualFold(strings.TrimSpace(r.ApplyProtection), "YES")
}

// Owner splits the owner from FullName. ok is false when FullName is not of
// the form owner/name.
func (r Row) Owner() (owner, name string, ok bool) {
	owner, name, found := strings.Cut(r.FullName, "/")
	if !found || owner == "" || name == "" {
		return "", "", false
	}
	return owner, name, true
}
