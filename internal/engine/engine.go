package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"rulewarden/internal/config"
	gh "rulewarden/internal/github"
	"rulewarden/internal/manifest"
)

// defaultRetryDelay is the fixed pause before the single retry on rate-limit
// or transient failures.
const defaultRetryDelay = 30 * time.Second

// Engine sequences the audit/apply pipeline. Processing is fully sequential:
// one HTTP request in flight, one repository start-to-finish before the next.
type Engine struct {
	Client *gh.Client

	// RetryDelay is the fixed delay before the single retry of rate-limited
	// or transient calls. Tests shrink it.
	RetryDelay time.Duration

	printer *Printer
}

func New(client *gh.Client, out, errw io.Writer) *Engine {
	if out == nil {
		out = os.Stdout
	}
	if errw == nil {
		errw = os.Stderr
	}
	return &Engine{
		Client:     client,
		RetryDelay: defaultRetryDelay,
		printer:    newPrinter(out, errw),
	}
}

// Run executes the configured mode and returns the process exit code.
//
// Exit code contract:
//
//	0 = batch completed, even if individual repositories failed
//	1 = setup failure (listing failed, CSV unreadable, manifest unwritable)
func (e *Engine) Run(ctx context.Context, cfg *config.Config) int {
	if cfg.Mode() == config.ModeApplyFromCSV {
		return e.runApplyFromCSV(ctx, cfg)
	}
	return e.runScan(ctx, cfg)
}

func (e *Engine) runScan(ctx context.Context, cfg *config.Config) int {
	label := cfg.Targeting.Visibility
	if label == "all" {
		label = "all (public + private)"
	}
	e.printer.Progressf("Fetching %s repositories for %s...\n", label, cfg.Owner())

	refs, err := e.listRepos(ctx, cfg)
	if err != nil {
		e.printer.Progressf("Error: %v\n", err)
		return 1
	}
	e.printer.Progressf("Total eligible repositories: %d\n", len(refs))

	e.printer.Progressf("Checking ruleset status for %d repositories...\n", len(refs))

	var summary Summary
	var rows []manifest.Row
	var unprotected []string
	dryRun := cfg.Apply.DryRun
	applying := cfg.Mode() == config.ModeApplyDirect

	for i, ref := range refs {
		e.printer.Repof("[%d/%d] %s (branch: %s)\n", i+1, len(refs), ref.FullName, ref.DefaultBranch)

		status := e.inspect(ctx, ref.Owner, ref.Name, ref.DefaultBranch)
		summary.Scanned++
		switch {
		case status.Err != nil:
			summary.ErrorChecking++
			e.printer.Warnf("⚠ Error checking rulesets: %v", status.Err)
			// Not written to the manifest: "could not check" must never look
			// like "unprotected" to the operator.
			continue
		case status.HasRuleset:
			summary.WithRuleset++
			e.printer.Okf("✓ Has ruleset: %s (%s)", status.RulesetName, status.Enforcement)
		default:
			summary.WithoutRuleset++
			e.printer.Badf("✗ No ruleset")
		}

		if applying && !status.HasRuleset {
			report := e.applyRuleset(ctx, ref.Owner, ref.Name, status, dryRun)
			summary.Count(report)
			e.printReport(report)
			if report.Outcome != OutcomeApplied {
				unprotected = append(unprotected, ref.FullName)
			}
			continue
		}

		if !status.HasRuleset {
			unprotected = append(unprotected, ref.FullName)
		}
		if !applying {
			rows = append(rows, manifest.Row{
				FullName:      status.FullName,
				DefaultBranch: status.DefaultBranch,
				HasRuleset:    status.HasRuleset,
			})
		}
	}

	if !applying {
		writer := manifest.NewWriter(cfg.Output.Dir)
		path, err := writer.Write(rows)
		if err != nil {
			e.printer.Progressf("Error: %v\n", err)
			return 1
		}
		e.printer.Repof("\nManifest saved: %s\n", path)
	}

	e.printer.PrintSummary(summary, true)
	if len(unprotected) > 0 {
		fmt.Fprintln(e.printer.out, "\nRepositories without rulesets:")
		for _, name := range unprotected {
			fmt.Fprintf(e.printer.out, "  - %s\n", name)
		}
	}
	return 0
}

func (e *Engine) runApplyFromCSV(ctx context.Context, cfg *config.Config) int {
	rows, skippedRows, err := manifest.Read(cfg.Apply.FromCSV)
	if err != nil {
		e.printer.Progressf("Error: %v\n", err)
		return 1
	}

	for _, sk := range skippedRows {
		e.printer.Progressf("Skipping malformed row at line %d: %s\n", sk.Line, sk.Reason)
	}

	marked := 0
	for _, row := range rows {
		if row.Selected() {
			marked++
		}
	}
	e.printer.Progressf("Reading decisions from: %s\n", cfg.Apply.FromCSV)
	e.printer.Progressf("Total repos in CSV: %d\n", len(rows))
	e.printer.Progressf("Marked for protection: %d\n", marked)

	var summary Summary
	for i, row := range rows {
		e.printer.Repof("[%d/%d] %s\n", i+1, len(rows), row.FullName)

		if !row.Selected() {
			report := RepoReport{FullName: row.FullName, Outcome: OutcomeSkippedNotMarked, Detail: "not marked YES"}
			summary.Count(report)
			e.printReport(report)
			continue
		}

		owner, name, ok := row.Owner()
		if !ok {
			report := RepoReport{
				FullName: row.FullName,
				Outcome:  OutcomeErrorChecking,
				Detail:   fmt.Sprintf("invalid full_name %q: expected owner/name", row.FullName),
			}
			summary.Count(report)
			e.printReport(report)
			continue
		}

		// The audit snapshot may be stale; re-check live immediately before
		// writing so an existing ruleset is never overwritten or duplicated.
		live := e.inspect(ctx, owner, name, row.DefaultBranch)
		report := e.applyRuleset(ctx, owner, name, live, cfg.Apply.DryRun)
		if report.Outcome == OutcomeSkippedProtected {
			if row.HasRuleset {
				report.Detail = "already protected at audit time"
			} else {
				report.Detail = "ruleset appeared since audit"
			}
		}
		summary.Count(report)
		e.printReport(report)
	}

	e.printer.PrintSummary(summary, false)
	return 0
}

func (e *Engine) printReport(r RepoReport) {
	switch r.Outcome {
	case OutcomeApplied:
		e.printer.Okf("✓ %s", r.Detail)
	case OutcomeSkippedDryRun:
		e.printer.Plainf("[DRY RUN] %s", r.Detail)
	case OutcomeSkippedProtected:
		e.printer.Okf("SKIP: %s", r.Detail)
	case OutcomeSkippedNotMarked:
		e.printer.Plainf("SKIP: %s", r.Detail)
	case OutcomeFailed:
		e.printer.Badf("✗ Failed: %s", r.Detail)
	case OutcomeErrorChecking:
		e.printer.Warnf("⚠ %s", r.Detail)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
