package cli

import (
	"rulewarden/internal/flags"

	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply rulesets from an operator-edited manifest",
	Long: `Apply the default ruleset to repositories marked in a manifest produced by
"rulewarden audit".

Only rows whose apply_protection column equals YES (case-insensitive) are
candidates. Each candidate's live ruleset status is re-checked immediately
before the create call: a repository that gained a ruleset since the audit is
skipped, never overwritten.

Rows with any other apply_protection value are skipped and reported; malformed
rows are reported individually without aborting the file.

Examples:
  rulewarden apply --from-csv ruleset_manifest_20260825_101500.csv
  rulewarden apply --from-csv decisions.csv --dry-run`,
	Run: func(cmd *cobra.Command, args []string) {
		runPipeline(cmd)
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringVarP(&cfg.Apply.FromCSV, flags.FlagFromCSV, "f", "", "Manifest CSV with operator decisions (required)")
	applyCmd.Flags().BoolVarP(&cfg.Apply.DryRun, flags.FlagDryRun, "d", false, "Report what would be submitted without making any write call")
	applyCmd.Flags().StringVarP(&cfg.Runtime.Token, flags.FlagToken, "t", "", "GitHub token (or set GITHUB_TOKEN)")
	_ = applyCmd.MarkFlagRequired(flags.FlagFromCSV)
}
