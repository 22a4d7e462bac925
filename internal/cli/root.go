package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "rulewarden",
	Short: "Audit and enforce default-branch rulesets across GitHub repositories",
	Long: `RuleWarden audits GitHub repositories for active default-branch rulesets
(the modern Rulesets API, not legacy branch protection) and can apply a fixed
protective ruleset to the repositories that lack one.

The applied ruleset:
  - blocks deletion of the default branch
  - blocks force pushes
  - requires a pull request with 1 approving review (stale reviews dismissed)
  - lets the Maintain repository role (the owner included) bypass everything

Examples:
	# Audit public repos and write a CSV manifest
	rulewarden audit --user octocat

	# Audit everything and apply rulesets where missing (dry run first)
	rulewarden audit --org my-org --visibility all --apply --dry-run

	# Apply from an operator-edited manifest
	rulewarden apply --from-csv ruleset_manifest_20260825_101500.csv`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, "verbose", false, "Enable verbose logging (prints every GitHub API call and full error details)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
