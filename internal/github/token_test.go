package github

import (
	"context"
	"testing"
)

func TestResolveAuthToken_ExplicitWins(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")

	tok, source, err := ResolveAuthToken(context.Background(), "explicit-token")
	if err != nil {
		t.Fatalf("ResolveAuthToken failed: %v", err)
	}
	if tok != "explicit-token" || source != AuthTokenSourceExplicit {
		t.Fatalf("expected explicit token to win, got %q from %q", tok, source)
	}
}

func TestResolveAuthToken_EnvFallback(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")

	tok, source, err := ResolveAuthToken(context.Background(), "  ")
	if err != nil {
		t.Fatalf("ResolveAuthToken failed: %v", err)
	}
	if tok != "env-token" || source != AuthTokenSourceEnv {
		t.Fatalf("expected env token, got %q from %q", tok, source)
	}
}

func TestResolveAuthToken_TrimsExplicit(t *testing.T) {
	tok, source, err := ResolveAuthToken(context.Background(), "  padded \n")
	if err != nil {
		t.Fatalf("ResolveAuthToken failed: %v", err)
	}
	if tok != "padded" || source != AuthTokenSourceExplicit {
		t.Fatalf("expected trimmed explicit token, got %q from %q", tok, source)
	}
}
