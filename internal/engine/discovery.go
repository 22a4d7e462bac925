package engine

import (
	"context"
	"fmt"
	"strings"

	gh "rulewarden/internal/github"

	"rulewarden/internal/config"

	"github.com/google/go-github/v66/github"
)

const discoveryPageSize = 100

// listRepos produces the eligible repository set for the configured target.
// Archived and forked repositories are dropped before being handed downstream;
// drops are counted per page for operator visibility but not retained.
//
// A non-2xx response while paging is fatal for the whole run. Rate-limit
// rejections get one fixed-delay retry first (see withRateLimitRetry).
func (e *Engine) listRepos(ctx context.Context, cfg *config.Config) ([]RepositoryRef, error) {
	if cfg.Targeting.Repo != "" {
		return e.resolveSingleRepo(ctx, cfg)
	}
	if cfg.Targeting.Org != "" {
		return e.listOrgRepos(ctx, cfg.Targeting.Org, cfg.Targeting.Visibility)
	}
	return e.listUserRepos(ctx, cfg.Targeting.User, cfg.Targeting.Visibility)
}

// resolveSingleRepo short-circuits discovery to exactly one repository. The
// archived/fork exclusion still applies; an excluded repo is reported and
// nothing further happens to it.
func (e *Engine) resolveSingleRepo(ctx context.Context, cfg *config.Config) ([]RepositoryRef, error) {
	owner := cfg.Owner()
	name := cfg.Targeting.Repo

	var repo *github.Repository
	err := e.withRateLimitRetry(ctx, func() error {
		var err error
		repo, _, err = e.Client.Client.Repositories.Get(ctx, owner, name)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repo %s/%s: %w", owner, name, err)
	}

	if repo.GetArchived() {
		e.printer.Progressf("Skipping %s: repository is archived\n", repo.GetFullName())
		return nil, nil
	}
	if repo.GetFork() {
		e.printer.Progressf("Skipping %s: repository is a fork\n", repo.GetFullName())
		return nil, nil
	}

	return []RepositoryRef{newRepositoryRef(repo)}, nil
}

func (e *Engine) listOrgRepos(ctx context.Context, org, visibility string) ([]RepositoryRef, error) {
	var refs []RepositoryRef

	opts := &github.RepositoryListByOrgOptions{
		Type:        visibility,
		ListOptions: github.ListOptions{PerPage: discoveryPageSize},
	}
	page := 1
	for {
		var repos []*github.Repository
		var resp *github.Response
		err := e.withRateLimitRetry(ctx, func() error {
			var err error
			repos, resp, err = e.Client.Client.Repositories.ListByOrg(ctx, org, opts)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list org repos: %w", err)
		}

		kept := e.keepEligible(repos, visibility, &refs)
		e.printer.PageProgress(page, kept, countArchived(repos), countForks(repos))

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		page++
	}

	return refs, nil
}

func (e *Engine) listUserRepos(ctx context.Context, user, visibility string) ([]RepositoryRef, error) {
	// If the requested user matches the authenticated token owner, use the
	// authenticated endpoint so private repos can be listed at all.
	useAuthed := false
	if me, _, err := e.Client.Client.Users.Get(ctx, ""); err == nil {
		if strings.EqualFold(me.GetLogin(), user) {
			useAuthed = true
		}
	}
	if useAuthed {
		return e.listAuthenticatedUserRepos(ctx, visibility)
	}
	return e.listPublicUserRepos(ctx, user, visibility)
}

func (e *Engine) listAuthenticatedUserRepos(ctx context.Context, visibility string) ([]RepositoryRef, error) {
	var refs []RepositoryRef

	opts := &github.RepositoryListByAuthenticatedUserOptions{
		Visibility:  "all",
		Affiliation: "owner",
		ListOptions: github.ListOptions{PerPage: discoveryPageSize},
	}
	page := 1
	for {
		var repos []*github.Repository
		var resp *github.Response
		err := e.withRateLimitRetry(ctx, func() error {
			var err error
			repos, resp, err = e.Client.Client.Repositories.ListByAuthenticatedUser(ctx, opts)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list authenticated user repos: %w", err)
		}

		kept := e.keepEligible(repos, visibility, &refs)
		e.printer.PageProgress(page, kept, countArchived(repos), countForks(repos))

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		page++
	}

	return refs, nil
}

func (e *Engine) listPublicUserRepos(ctx context.Context, user, visibility string) ([]RepositoryRef, error) {
	var refs []RepositoryRef

	opts := &github.RepositoryListByUserOptions{
		Type:        "owner",
		ListOptions: github.ListOptions{PerPage: discoveryPageSize},
	}
	page := 1
	for {
		var repos []*github.Repository
		var resp *github.Response
		err := e.withRateLimitRetry(ctx, func() error {
			var err error
			repos, resp, err = e.Client.Client.Repositories.ListByUser(ctx, user, opts)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list user repos: %w", err)
		}

		kept := e.keepEligible(repos, visibility, &refs)
		e.printer.PageProgress(page, kept, countArchived(repos), countForks(repos))

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		page++
	}

	return refs, nil
}

// keepEligible appends the eligible repos from one page to refs and returns
// how many were kept.
func (e *Engine) keepEligible(repos []*github.Repository, visibility string, refs *[]RepositoryRef) int {
	kept := 0
	for _, repo := range repos {
		if repo.GetArchived() || repo.GetFork() {
			continue
		}
		if !matchesVisibility(repo, visibility) {
			continue
		}
		*refs = append(*refs, newRepositoryRef(repo))
		kept++
	}
	return kept
}

func matchesVisibility(repo *github.Repository, visibility string) bool {
	switch visibility {
	case "public":
		return !repo.GetPrivate()
	case "private":
		return repo.GetPrivate()
	default: // "all"
		return true
	}
}

func countArchived(repos []*github.Repository) int {
	n := 0
	for _, r := range repos {
		if r.GetArchived() {
			n++
		}
	}
	return n
}

func countForks(repos []*github.Repository) int {
	n := 0
	for _, r := range repos {
		if r.GetFork() {
			n++
		}
	}
	return n
}

func newRepositoryRef(repo *github.Repository) RepositoryRef {
	branch := repo.GetDefaultBranch()
	if branch == "" {
		branch = "main"
	}
	fullName := repo.GetFullName()
	if fullName == "" {
		fullName = repo.GetOwner().GetLogin() + "/" + repo.GetName()
	}
	return RepositoryRef{
		Owner:         repo.GetOwner().GetLogin(),
		Name:          repo.GetName(),
		FullName:      fullName,
		DefaultBranch: branch,
		Repo:          repo,
	}
}

// withRateLimitRetry invokes call, retrying exactly once after a fixed delay
// when the API rejected it for rate limiting. Everything else surfaces
// unchanged.
func (e *Engine) withRateLimitRetry(ctx context.Context, call func() error) error {
	err := call()
	if err == nil || !gh.IsRateLimit(err) {
		return err
	}
	e.printer.Progressf("Rate limited; retrying in %s...\n", e.RetryDelay)
	if serr := sleep(ctx, e.RetryDelay); serr != nil {
		return serr
	}
	return call()
}
