package engine

import (
	"context"
	"errors"
	"fmt"

	gh "rulewarden/internal/github"

	"github.com/google/go-github/v66/github"
)

// rulesetName is the name of the ruleset this tool creates. It doubles as a
// marker: a repo carrying an active ruleset by any name is left alone.
const rulesetName = "default-branch-protection"

// maintainRoleID is GitHub's repository-role actor ID for Maintain
// (1=Read, 2=Triage, 4=Write, 5=Maintain). Maintain-or-above always bypasses
// the created ruleset, which is how the repository owner keeps full freedom.
const maintainRoleID int64 = 5

// ruleSummary is what dry-run reports as the intended submission. Kept in one
// place so the dry-run report and the real payload cannot drift apart.
const ruleSummary = "block deletion, block force-push, require 1 approving PR review (stale reviews dismissed); bypass: Maintain role"

// defaultRulesetPayload builds the fixed creation payload. The ref-name
// condition uses the ~DEFAULT_BRANCH placeholder, so the payload never embeds
// a literal branch name; GitHub resolves it at evaluation time.
func defaultRulesetPayload() *github.Ruleset {
	return &github.Ruleset{
		Name:        rulesetName,
		Target:      github.String("branch"),
		Enforcement: "active",
		Conditions: &github.RulesetConditions{
			RefName: &github.RulesetRefConditionParameters{
				Include: []string{"~DEFAULT_BRANCH"},
				Exclude: []string{},
			},
		},
		Rules: []*github.RepositoryRule{
			github.NewDeletionRule(),
			github.NewNonFastForwardRule(),
			github.NewPullRequestRule(&github.PullRequestRuleParameters{
				RequiredApprovingReviewCount:   1,
				DismissStaleReviewsOnPush:      true,
				RequireCodeOwnerReview:         false,
				RequireLastPushApproval:        false,
				RequiredReviewThreadResolution: false,
			}),
		},
		BypassActors: []*github.BypassActor{
			{
				ActorID:    github.Int64(maintainRoleID),
				ActorType:  github.String("RepositoryRole"),
				BypassMode: github.String("always"),
			},
		},
	}
}

// applyRuleset submits the default ruleset to one repository.
//
// Callers must pass the repository's current RulesetStatus from this run; a
// status showing an existing active ruleset makes applyRuleset refuse without
// issuing a request. The tool must never overwrite or duplicate an existing
// active ruleset.
func (e *Engine) applyRuleset(ctx context.Context, owner, name string, status RulesetStatus, dryRun bool) RepoReport {
	fullName := owner + "/" + name

	if status.Err != nil {
		return RepoReport{
			FullName: fullName,
			Outcome:  OutcomeErrorChecking,
			Detail:   fmt.Sprintf("could not check ruleset status: %v", status.Err),
		}
	}
	if status.HasRuleset {
		detail := "active ruleset already present"
		if status.RulesetName != "" {
			detail = fmt.Sprintf("active ruleset %q already present", status.RulesetName)
		}
		return RepoReport{FullName: fullName, Outcome: OutcomeSkippedProtected, Detail: detail}
	}

	if dryRun {
		return RepoReport{
			FullName: fullName,
			Outcome:  OutcomeSkippedDryRun,
			Detail:   fmt.Sprintf("would create ruleset %q on %s (branch: %s): %s", rulesetName, fullName, status.DefaultBranch, ruleSummary),
		}
	}

	err := e.retryOnceIfTransient(ctx, func() error {
		_, _, err := e.Client.Client.Repositories.CreateRuleset(ctx, owner, name, defaultRulesetPayload())
		return err
	})
	if err != nil {
		return RepoReport{FullName: fullName, Outcome: OutcomeFailed, Detail: describeCreateError(err)}
	}

	return RepoReport{FullName: fullName, Outcome: OutcomeApplied, Detail: fmt.Sprintf("created ruleset %q", rulesetName)}
}

// retryOnceIfTransient retries call exactly once, after a fixed delay, when
// the first attempt failed for a reason worth retrying (rate limiting, 5xx,
// or a network-level error). Permission and validation rejections surface
// immediately.
func (e *Engine) retryOnceIfTransient(ctx context.Context, call func() error) error {
	err := call()
	if err == nil || !isTransient(err) {
		return err
	}
	e.printer.Progressf("Transient error (%v); retrying in %s...\n", err, e.RetryDelay)
	if serr := sleep(ctx, e.RetryDelay); serr != nil {
		return serr
	}
	return call()
}

func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if gh.IsRateLimit(err) {
		return true
	}
	var ger *github.ErrorResponse
	if errors.As(err, &ger) {
		return ger.Response != nil && ger.Response.StatusCode >= 500
	}
	// No structured API response at all: a network-level failure.
	return true
}

// describeCreateError maps a create-ruleset failure to an operator-facing
// reason. Validation rejections keep the raw API message; it is the only
// thing that explains what the API disliked.
func describeCreateError(err error) string {
	var ger *github.ErrorResponse
	if errors.As(err, &ger) && ger.Response != nil {
		switch ger.Response.StatusCode {
		case 403:
			return fmt.Sprintf("insufficient permission (403): %s", ger.Message)
		case 422:
			return fmt.Sprintf("payload rejected (422): %s", ger.Message)
		}
	}
	return err.Error()
}
