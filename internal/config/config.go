package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Mode identifies which pipeline the engine runs.
type Mode string

const (
	// ModeAudit lists repos, inspects ruleset status, and writes a manifest.
	ModeAudit Mode = "audit"
	// ModeApplyDirect lists and inspects repos, then applies the default
	// ruleset to unprotected ones. No manifest is written.
	ModeApplyDirect Mode = "apply-direct"
	// ModeApplyFromCSV reads an operator-edited manifest and applies the
	// default ruleset to rows marked YES.
	ModeApplyFromCSV Mode = "apply-from-csv"
)

type Config struct {
	Targeting Targeting
	Apply     Apply
	Output    Output
	Runtime   Runtime
}

type Targeting struct {
	// User is the GitHub user account to audit (name or URL; see --user).
	User string

	// Org is the GitHub organization account to audit (name or URL; see --org).
	Org string

	// Repo restricts the run to a single repository name under the targeted
	// account (see --repo). The archived/fork exclusion still applies.
	Repo string

	// Visibility filters repositories by visibility (see --visibility).
	// Allowed values: public, private, all.
	Visibility string
}

type Apply struct {
	// Enabled creates rulesets for unprotected repos instead of writing a
	// manifest (see --apply).
	Enabled bool

	// DryRun reports every intended creation without issuing write calls
	// (see --dry-run). Only meaningful when applying.
	DryRun bool

	// FromCSV applies rulesets from an operator-edited manifest file
	// (see --from-csv). Mutually exclusive with --user/--org.
	FromCSV string
}

type Output struct {
	// Dir is the directory manifest files are written to (see --output-dir).
	Dir string
}

type Runtime struct {
	// Token is an explicit GitHub access token (see --token). When empty the
	// token is resolved from GITHUB_TOKEN or the gh CLI.
	Token string

	// Verbose prints every GitHub API call and full error details (see --verbose).
	Verbose bool
}

func New() *Config {
	return &Config{
		Targeting: Targeting{
			Visibility: "public",
		},
		Output: Output{
			Dir: ".",
		},
	}
}

// Mode derives the pipeline mode from the validated configuration.
func (c *Config) Mode() Mode {
	if c.Apply.FromCSV != "" {
		return ModeApplyFromCSV
	}
	if c.Apply.Enabled {
		return ModeApplyDirect
	}
	return ModeAudit
}

// Owner returns the targeted account name (org wins over user by validation;
// they are mutually exclusive).
func (c *Config) Owner() string {
	if c.Targeting.Org != "" {
		return c.Targeting.Org
	}
	return c.Targeting.User
}

func (c *Config) Validate() error {
	// Normalize account selectors.
	if c.Targeting.User != "" {
		user, err := normalizeAccountSelector(c.Targeting.User)
		if err != nil {
			return fmt.Errorf("invalid --user value: %w", err)
		}
		c.Targeting.User = user
	}
	if c.Targeting.Org != "" {
		org, err := normalizeAccountSelector(c.Targeting.Org)
		if err != nil {
			return fmt.Errorf("invalid --org value: %w", err)
		}
		c.Targeting.Org = org
	}

	c.Apply.FromCSV = strings.TrimSpace(c.Apply.FromCSV)

	// Targeting validation: exactly one of --user, --org, --from-csv.
	targets := 0
	if c.Targeting.User != "" {
		targets++
	}
	if c.Targeting.Org != "" {
		targets++
	}
	if c.Apply.FromCSV != "" {
		targets++
	}
	if targets == 0 {
		return errors.New("one of --user, --org, or --from-csv must be provided")
	}
	if targets > 1 {
		return errors.New("--user, --org, and --from-csv are mutually exclusive")
	}

	if c.Targeting.Repo != "" {
		if c.Apply.FromCSV != "" {
			return errors.New("--repo cannot be combined with --from-csv")
		}
		if strings.Contains(c.Targeting.Repo, "/") {
			return fmt.Errorf("invalid --repo value %q: expected a repository name without owner", c.Targeting.Repo)
		}
	}

	if c.Apply.DryRun && !c.Apply.Enabled && c.Apply.FromCSV == "" {
		return errors.New("--dry-run requires --apply or --from-csv")
	}

	// Visibility enum validation.
	c.Targeting.Visibility = normalizeEnumValue(c.Targeting.Visibility)
	if c.Targeting.Visibility == "" {
		c.Targeting.Visibility = "public"
	}
	if c.Targeting.Visibility != "public" && c.Targeting.Visibility != "private" && c.Targeting.Visibility != "all" {
		return fmt.Errorf("unsupported --visibility: %s (must be one of: public, private, all)", c.Targeting.Visibility)
	}

	if strings.TrimSpace(c.Output.Dir) == "" {
		c.Output.Dir = "."
	}

	return nil
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func normalizeAccountSelector(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	// Accept a raw account name, or a GitHub URL like:
	//   https://github.com/<name>
	//   https://github.com/orgs/<name>
	//   https://github.com/users/<name>
	//   github.com/<name>
	if strings.HasPrefix(raw, "github.com/") || strings.HasPrefix(raw, "www.github.com/") {
		raw = "https://" + raw
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("%q", raw)
		}
		host := strings.ToLower(u.Hostname())
		if host == "www.github.com" {
			host = "github.com"
		}
		if host != "github.com" {
			return "", fmt.Errorf("%q", raw)
		}
		parts := strings.FieldsFunc(strings.Trim(u.Path, "/"), func(r rune) bool { return r == '/' })
		if len(parts) == 0 {
			return "", fmt.Errorf("%q", raw)
		}
		if parts[0] == "orgs" || parts[0] == "users" {
			if len(parts) < 2 {
				return "", fmt.Errorf("%q", raw)
			}
			return parts[1], nil
		}
		return parts[0], nil
	}

	// Basic sanity: reject obvious repo-like inputs.
	if strings.Contains(raw, "/") {
		return "", fmt.Errorf("%q", raw)
	}
	return raw, nil
}
