package config

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "no target",
			mutate:  func(c *Config) {},
			wantErr: "one of --user, --org, or --from-csv",
		},
		{
			name: "user only",
			mutate: func(c *Config) {
				c.Targeting.User = "octocat"
			},
		},
		{
			name: "org only",
			mutate: func(c *Config) {
				c.Targeting.Org = "acme"
			},
		},
		{
			name: "from-csv only",
			mutate: func(c *Config) {
				c.Apply.FromCSV = "manifest.csv"
			},
		},
		{
			name: "user and org are exclusive",
			mutate: func(c *Config) {
				c.Targeting.User = "octocat"
				c.Targeting.Org = "acme"
			},
			wantErr: "mutually exclusive",
		},
		{
			name: "user and from-csv are exclusive",
			mutate: func(c *Config) {
				c.Targeting.User = "octocat"
				c.Apply.FromCSV = "manifest.csv"
			},
			wantErr: "mutually exclusive",
		},
		{
			name: "repo with from-csv",
			mutate: func(c *Config) {
				c.Apply.FromCSV = "manifest.csv"
				c.Targeting.Repo = "dotfiles"
			},
			wantErr: "--repo cannot be combined",
		},
		{
			name: "repo with owner prefix",
			mutate: func(c *Config) {
				c.Targeting.User = "octocat"
				c.Targeting.Repo = "octocat/dotfiles"
			},
			wantErr: "expected a repository name without owner",
		},
		{
			name: "dry-run without apply",
			mutate: func(c *Config) {
				c.Targeting.User = "octocat"
				c.Apply.DryRun = true
			},
			wantErr: "--dry-run requires --apply or --from-csv",
		},
		{
			name: "dry-run with apply",
			mutate: func(c *Config) {
				c.Targeting.User = "octocat"
				c.Apply.Enabled = true
				c.Apply.DryRun = true
			},
		},
		{
			name: "bad visibility",
			mutate: func(c *Config) {
				c.Targeting.User = "octocat"
				c.Targeting.Visibility = "internal"
			},
			wantErr: "unsupported --visibility",
		},
		{
			name: "visibility normalized",
			mutate: func(c *Config) {
				c.Targeting.User = "octocat"
				c.Targeting.Visibility = " Private "
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate failed: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestValidate_NormalizesAccountSelectors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name", "octocat", "octocat"},
		{"profile URL", "https://github.com/octocat", "octocat"},
		{"users URL", "https://github.com/users/octocat", "octocat"},
		{"orgs URL", "https://github.com/orgs/acme", "acme"},
		{"bare host form", "github.com/octocat", "octocat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.Targeting.User = tt.in
			if err := c.Validate(); err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
			if c.Targeting.User != tt.want {
				t.Fatalf("expected user %q, got %q", tt.want, c.Targeting.User)
			}
		})
	}

	c := New()
	c.Targeting.User = "octocat/dotfiles"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for repo-like selector")
	}
}

func TestMode(t *testing.T) {
	c := New()
	c.Targeting.User = "octocat"
	if got := c.Mode(); got != ModeAudit {
		t.Fatalf("expected %s, got %s", ModeAudit, got)
	}

	c.Apply.Enabled = true
	if got := c.Mode(); got != ModeApplyDirect {
		t.Fatalf("expected %s, got %s", ModeApplyDirect, got)
	}

	c = New()
	c.Apply.FromCSV = "manifest.csv"
	if got := c.Mode(); got != ModeApplyFromCSV {
		t.Fatalf("expected %s, got %s", ModeApplyFromCSV, got)
	}
}

func TestOwner(t *testing.T) {
	c := New()
	c.Targeting.User = "octocat"
	if got := c.Owner(); got != "octocat" {
		t.Fatalf("expected octocat, got %q", got)
	}
	c = New()
	c.Targeting.Org = "acme"
	if got := c.Owner(); got != "acme" {
		t.Fatalf("expected acme, got %q", got)
	}
}
