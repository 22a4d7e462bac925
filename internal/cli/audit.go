package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"rulewarden/internal/config"
	"rulewarden/internal/engine"
	"rulewarden/internal/flags"
	gh "rulewarden/internal/github"

	"github.com/spf13/cobra"
)

var cfg = config.New()

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Scan an account's repositories for default-branch rulesets",
	Long: `Scan a user's or organization's repositories and record which ones carry an
active default-branch ruleset.

Archived repositories and forks are always excluded. By default the result is
written as a CSV manifest (one row per repository, apply_protection defaulting
to NO) that you edit and feed back to "rulewarden apply --from-csv".

With --apply, unprotected repositories get the default ruleset created right
away and no manifest is written. --dry-run reports every intended creation
without issuing a single write call.

RuleWarden never touches a repository that already has an active
default-branch ruleset.

Authentication:
  A GitHub access token is resolved from --token, then GITHUB_TOKEN, then the
  gh CLI (gh auth token). PAT scopes: repo for private repositories,
  public_repo otherwise.

Exit codes:
	0 = batch completed (individual repositories may still have failed)
	1 = setup error (no target, missing token, invalid flags)

Examples:
  rulewarden audit --user octocat
  rulewarden audit --org my-org --visibility all --output-dir reports
  rulewarden audit --user octocat --repo dotfiles --apply --dry-run`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && cmd.Flags().NFlag() == 0 {
			_ = cmd.Help()
			return
		}
		runPipeline(cmd)
	},
}

func runPipeline(cmd *cobra.Command) {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	token, _, err := gh.ResolveAuthToken(ctx, cfg.Runtime.Token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve GitHub auth token: %v\n", err)
		os.Exit(1)
	}
	if strings.TrimSpace(token) == "" {
		fmt.Fprintln(os.Stderr, "Error: GitHub auth token is required (use --token, set GITHUB_TOKEN, or run 'gh auth login')")
		os.Exit(1)
	}

	client, err := gh.NewClient(ctx, token, gh.WithVerbose(cfg.Runtime.Verbose, nil))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create GitHub client: %v\n", err)
		os.Exit(1)
	}

	eng := engine.New(client, cmd.OutOrStdout(), cmd.ErrOrStderr())
	os.Exit(eng.Run(ctx, cfg))
}

func init() {
	rootCmd.AddCommand(auditCmd)

	// Targeting
	auditCmd.Flags().StringVarP(&cfg.Targeting.User, flags.FlagUser, "u", "", "GitHub user account to audit (name or URL)")
	auditCmd.Flags().StringVarP(&cfg.Targeting.Org, flags.FlagOrg, "o", "", "GitHub organization account to audit (name or URL)")
	auditCmd.Flags().StringVarP(&cfg.Targeting.Repo, flags.FlagRepo, "r", "", "Audit only this repository name under the targeted account")
	auditCmd.Flags().StringVarP(&cfg.Targeting.Visibility, flags.FlagVisibility, "v", "public", "Repository visibility filter: public|private|all")

	// Apply
	auditCmd.Flags().BoolVarP(&cfg.Apply.Enabled, flags.FlagApply, "a", false, "Create rulesets for repositories that don't have one (skips the manifest)")
	auditCmd.Flags().BoolVarP(&cfg.Apply.DryRun, flags.FlagDryRun, "d", false, "Report what would be submitted without making any write call")

	// Output / auth
	auditCmd.Flags().StringVar(&cfg.Output.Dir, flags.FlagOutputDir, ".", "Directory to write manifest files to")
	auditCmd.Flags().StringVarP(&cfg.Runtime.Token, flags.FlagToken, "t", "", "GitHub token (or set GITHUB_TOKEN)")
}
