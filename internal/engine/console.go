package engine

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Printer owns all operator-facing output. Results and the summary go to out
// (stdout); progress chatter goes to errw (stderr) so redirected output stays
// clean.
type Printer struct {
	out  io.Writer
	errw io.Writer

	good *color.Color
	bad  *color.Color
	warn *color.Color
	bold *color.Color
}

func newPrinter(out, errw io.Writer) *Printer {
	return &Printer{
		out:  out,
		errw: errw,
		good: color.New(color.FgGreen),
		bad:  color.New(color.FgRed),
		warn: color.New(color.FgYellow),
		bold: color.New(color.Bold),
	}
}

func (p *Printer) Progressf(format string, args ...any) {
	fmt.Fprintf(p.errw, format, args...)
}

func (p *Printer) PageProgress(page, kept, archived, forked int) {
	fmt.Fprintf(p.errw, "  Page %d: %d repos (skipped %d archived, %d forked)\n", page, kept, archived, forked)
}

func (p *Printer) Repof(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// Okf, Badf, and Warnf print one indented status line under the current repo
// header, colored so skip/failure outcomes are visually distinct.
func (p *Printer) Okf(format string, args ...any) {
	p.good.Fprintf(p.out, "    "+format+"\n", args...)
}

func (p *Printer) Badf(format string, args ...any) {
	p.bad.Fprintf(p.out, "    "+format+"\n", args...)
}

func (p *Printer) Warnf(format string, args ...any) {
	p.warn.Fprintf(p.out, "    "+format+"\n", args...)
}

func (p *Printer) Plainf(format string, args ...any) {
	fmt.Fprintf(p.out, "    "+format+"\n", args...)
}

func (p *Printer) Header(title string) {
	fmt.Fprintln(p.out, "======================================================================")
	p.bold.Fprintln(p.out, title)
	fmt.Fprintln(p.out, "======================================================================")
}

// Summary is the per-outcome tally for one run. Scanned counts are only
// meaningful for the scan modes; CSV mode reports outcome counts alone.
type Summary struct {
	Scanned        int
	WithRuleset    int
	WithoutRuleset int
	ErrorChecking  int

	Applied          int
	DryRun           int
	SkippedProtected int
	SkippedNotMarked int
	Failed           int
}

func (s *Summary) Count(r RepoReport) {
	switch r.Outcome {
	case OutcomeApplied:
		s.Applied++
	case OutcomeSkippedDryRun:
		s.DryRun++
	case OutcomeSkippedProtected:
		s.SkippedProtected++
	case OutcomeSkippedNotMarked:
		s.SkippedNotMarked++
	case OutcomeFailed:
		s.Failed++
	case OutcomeErrorChecking:
		s.ErrorChecking++
	}
}

// PrintSummary writes the final tally. Every outcome category that occurred is
// printed; none is silently dropped.
func (p *Printer) PrintSummary(s Summary, scanned bool) {
	fmt.Fprintln(p.out)
	p.Header("SUMMARY")
	if scanned {
		fmt.Fprintf(p.out, "Total repositories scanned: %d\n", s.Scanned)
		fmt.Fprintf(p.out, "With ruleset: %d\n", s.WithRuleset)
		fmt.Fprintf(p.out, "Without ruleset: %d\n", s.WithoutRuleset)
	}
	if s.ErrorChecking > 0 {
		fmt.Fprintf(p.out, "Error checking: %d\n", s.ErrorChecking)
	}
	if s.Applied > 0 {
		fmt.Fprintf(p.out, "Newly applied: %d\n", s.Applied)
	}
	if s.DryRun > 0 {
		fmt.Fprintf(p.out, "Skipped (dry-run): %d\n", s.DryRun)
	}
	if s.SkippedProtected > 0 {
		fmt.Fprintf(p.out, "Skipped (already protected): %d\n", s.SkippedProtected)
	}
	if s.SkippedNotMarked > 0 {
		fmt.Fprintf(p.out, "Skipped (not marked YES): %d\n", s.SkippedNotMarked)
	}
	if s.Failed > 0 {
		fmt.Fprintf(p.out, "Failed: %d\n", s.Failed)
	}
}
