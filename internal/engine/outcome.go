package engine

import "github.com/google/go-github/v66/github"

// RepositoryRef identifies one repository handed down the pipeline by the
// lister. It is read-only after construction.
type RepositoryRef struct {
	Owner         string
	Name          string
	FullName      string
	DefaultBranch string
	Repo          *github.Repository // full object when discovery had it
}

// RulesetStatus is the inspector's classification of one repository.
//
// Err being non-nil means the check itself failed; that is deliberately
// distinct from HasRuleset == false so operators never mistake "could not
// check" for "unprotected".
type RulesetStatus struct {
	FullName      string
	DefaultBranch string
	HasRuleset    bool
	RulesetName   string
	Enforcement   string
	Err           error
}

// Outcome is the typed per-repository result of a run. Every processed
// repository ends in exactly one outcome, and the summary reports counts per
// outcome rather than inferring them from print statements.
type Outcome string

const (
	// OutcomeApplied: the default ruleset was created this run.
	OutcomeApplied Outcome = "applied"
	// OutcomeSkippedProtected: apply was requested but a ruleset exists
	// (found either by the same-run check or the pre-apply live re-check).
	OutcomeSkippedProtected Outcome = "skipped-protected"
	// OutcomeSkippedNotMarked: CSV row not marked YES.
	OutcomeSkippedNotMarked Outcome = "skipped-not-marked"
	// OutcomeSkippedDryRun: apply withheld by --dry-run.
	OutcomeSkippedDryRun Outcome = "skipped-dry-run"
	// OutcomeFailed: the create call was attempted and rejected.
	OutcomeFailed Outcome = "failed"
	// OutcomeErrorChecking: the ruleset check itself errored.
	OutcomeErrorChecking Outcome = "error-checking"
)

// RepoReport pairs a repository with its outcome and a human-readable detail
// (ruleset name, skip reason, or error text).
type RepoReport struct {
	FullName string
	Outcome  Outcome
	Detail   string
}
