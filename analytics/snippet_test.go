package analytics

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func renderSnippet(t *testing.T, cfg Config) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Snippet(cfg).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return buf.String()
}

func TestSnippetDisabledOutsideProduction(t *testing.T) {
	cfg := Config{PlausibleDomain: "blog.example.com", SentryDSN: "https://k@o1.ingest.sentry.io/2"}
	if cfg.Enabled() {
		t.Fatal("expected analytics to be disabled outside production")
	}
	if got := renderSnippet(t, cfg); got != "" {
		t.Errorf("expected empty snippet, got %q", got)
	}
}

func TestSnippetPlausible(t *testing.T) {
	got := renderSnippet(t, Config{Production: true, PlausibleDomain: "blog.example.com"})
	if !strings.Contains(got, `data-domain="blog.example.com"`) {
		t.Errorf("missing data-domain: %q", got)
	}
	if !strings.Contains(got, `src="https://plausible.io/js/script.js"`) {
		t.Errorf("missing default script: %q", got)
	}
	if strings.Contains(got, "Sentry") {
		t.Errorf("sentry emitted without DSN: %q", got)
	}
}

func TestSnippetSentry(t *testing.T) {
	got := renderSnippet(t, Config{Production: true, SentryDSN: "https://k@o1.ingest.sentry.io/2"})
	if !strings.Contains(got, `Sentry.init({dsn:"https://k@o1.ingest.sentry.io/2"`) {
		t.Errorf("missing Sentry.init: %q", got)
	}
	if !strings.Contains(got, "tracesSampleRate:1}") {
		t.Errorf("missing default sample rate: %q", got)
	}
}

func TestCSPSources(t *testing.T) {
	cfg := Config{Production: true, PlausibleDomain: "x", SentryDSN: "https://k@o1.ingest.sentry.io/2"}
	scripts := ScriptSources(cfg)
	if len(scripts) != 2 || scripts[0] != "https://plausible.io" || scripts[1] != "https://browser.sentry-cdn.com" {
		t.Errorf("ScriptSources = %v", scripts)
	}
	connect := ConnectSources(cfg)
	if len(connect) != 2 || connect[1] != "https://o1.ingest.sentry.io" {
		t.Errorf("ConnectSources = %v", connect)
	}
	if len(ScriptSources(Config{})) != 0 {
		t.Error("expected no sources when disabled")
	}
}
