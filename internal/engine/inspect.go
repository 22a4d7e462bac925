package engine

import (
	"context"

	"github.com/google/go-github/v66/github"
)

// inspect classifies one repository's default-branch protection.
//
// A repository counts as protected only when some ruleset is in "active"
// enforcement, targets branches, and its ref-name include list covers the
// default branch (via the ~DEFAULT_BRANCH placeholder or the literal name).
// Rulesets in "disabled" or "evaluate" enforcement never count.
//
// An empty list or a 404 (rulesets unavailable on this plan/repo type) means
// unprotected. Any other API error is recorded in RulesetStatus.Err and is
// never folded into "unprotected".
func (e *Engine) inspect(ctx context.Context, owner, name, defaultBranch string) RulesetStatus {
	status := RulesetStatus{
		FullName:      owner + "/" + name,
		DefaultBranch: defaultBranch,
	}

	var rulesets []*github.Ruleset
	err := e.withRateLimitRetry(ctx, func() error {
		var resp *github.Response
		var err error
		// includesParents=true so org-level rulesets covering this repo count.
		rulesets, resp, err = e.Client.Client.Repositories.GetAllRulesets(ctx, owner, name, true)
		if err != nil && resp != nil && resp.StatusCode == 404 {
			rulesets = nil
			return nil
		}
		return err
	})
	if err != nil {
		status.Err = err
		return status
	}

	for _, rs := range rulesets {
		if rs == nil || rs.GetID() == 0 {
			continue
		}
		if rs.Enforcement != "active" {
			continue
		}
		if target := rs.GetTarget(); target != "" && target != "branch" {
			continue
		}

		// The list endpoint omits conditions, so fetch details per ruleset.
		var details *github.Ruleset
		derr := e.withRateLimitRetry(ctx, func() error {
			var err error
			details, _, err = e.Client.Client.Repositories.GetRuleset(ctx, owner, name, rs.GetID(), true)
			return err
		})
		if derr != nil {
			// A ruleset we can see in the list but cannot read is a check
			// failure, not evidence of absence.
			status.Err = derr
			continue
		}

		if rulesetCoversBranch(details, defaultBranch) {
			status.HasRuleset = true
			status.RulesetName = details.Name
			status.Enforcement = details.Enforcement
			status.Err = nil
			return status
		}
	}

	return status
}

func rulesetCoversBranch(rs *github.Ruleset, branch string) bool {
	if rs == nil || rs.Conditions == nil || rs.Conditions.RefName == nil {
		return false
	}
	for _, include := range rs.Conditions.RefName.Include {
		switch include {
		case "~DEFAULT_BRANCH", "refs/heads/" + branch, branch:
			return true
		}
	}
	return false
}
