package flags

// Package flags defines canonical CLI flag names shared across the CLI and
// engine. Keeping these as constants avoids drift between Cobra flag wiring
// and other code paths that reference flags (error messages, help text).
// IMPORTANT: These are flag *names* without leading dashes.
const (
	// Targeting
	FlagUser       = "user"
	FlagOrg        = "org"
	FlagRepo       = "repo"
	FlagVisibility = "visibility"

	// Apply
	FlagApply   = "apply"
	FlagDryRun  = "dry-run"
	FlagFromCSV = "from-csv"

	// Output
	FlagOutputDir = "output-dir"

	// Auth / runtime
	FlagToken   = "token"
	FlagVerbose = "verbose"
)
