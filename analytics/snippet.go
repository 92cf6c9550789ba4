// Package analytics wires third-party page analytics (Plausible) and browser
// error reporting (Sentry) into rendered pages. Both are emitted only for
// production builds with the corresponding setting present.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
	g "github.com/maragudk/gomponents"
	h "github.com/maragudk/gomponents/html"
)

const (
	defaultPlausibleScript = "https://plausible.io/js/script.js"
	defaultSentryBundle    = "https://browser.sentry-cdn.com/8.55.0/bundle.tracing.min.js"
)

// Config holds the analytics settings of a site.
type Config struct {
	Production       bool    `yaml:"production"`
	PlausibleDomain  string  `yaml:"plausible_domain"`
	PlausibleScript  string  `yaml:"plausible_script"`
	SentryDSN        string  `yaml:"sentry_dsn"`
	SentryBundle     string  `yaml:"sentry_bundle"`
	TracesSampleRate float64 `yaml:"traces_sample_rate"`
}

// SetDefaults fills script locations and the sample rate.
func (c *Config) SetDefaults() {
	if c.PlausibleScript == "" {
		c.PlausibleScript = defaultPlausibleScript
	}
	if c.SentryBundle == "" {
		c.SentryBundle = defaultSentryBundle
	}
	if c.TracesSampleRate == 0 {
		c.TracesSampleRate = 1.0
	}
}

func (c Config) plausible() bool { return c.Production && c.PlausibleDomain != "" }
func (c Config) sentry() bool    { return c.Production && c.SentryDSN != "" }

// Enabled reports whether any snippet will be emitted.
func (c Config) Enabled() bool {
	return c.plausible() || c.sentry()
}

// Nodes returns the <head> elements for cfg.
func Nodes(cfg Config) []g.Node {
	cfg.SetDefaults()
	var nodes []g.Node
	if cfg.plausible() {
		nodes = append(nodes, h.Script(g.Attr("defer"), g.Attr("data-domain", cfg.PlausibleDomain), h.Src(cfg.PlausibleScript)))
	}
	if cfg.sentry() {
		dsn, _ := json.Marshal(cfg.SentryDSN)
		nodes = append(nodes,
			h.Script(h.Src(cfg.SentryBundle), g.Attr("crossorigin", "anonymous")),
			h.Script(g.Raw(fmt.Sprintf(
				"Sentry.init({dsn:%s,integrations:[Sentry.browserTracingIntegration()],tracesSampleRate:%s});",
				dsn, strconv.FormatFloat(cfg.TracesSampleRate, 'f', -1, 64),
			))),
		)
	}
	return nodes
}

// Snippet renders Nodes as a templ component.
func Snippet(cfg Config) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, n := range Nodes(cfg) {
			if err := n.Render(w); err != nil {
				return err
			}
		}
		return nil
	})
}

// ScriptSources lists origins that must be allowed in the CSP script-src.
func ScriptSources(cfg Config) []string {
	cfg.SetDefaults()
	var out []string
	if cfg.plausible() {
		out = appendOrigin(out, cfg.PlausibleScript)
	}
	if cfg.sentry() {
		out = appendOrigin(out, cfg.SentryBundle)
	}
	return out
}

// ConnectSources lists origins that must be allowed in the CSP connect-src.
func ConnectSources(cfg Config) []string {
	cfg.SetDefaults()
	var out []string
	if cfg.plausible() {
		out = appendOrigin(out, cfg.PlausibleScript)
	}
	if cfg.sentry() {
		out = appendOrigin(out, cfg.SentryDSN)
	}
	return out
}

func appendOrigin(out []string, raw string) []string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return out
	}
	origin := u.Scheme + "://" + u.Host
	for _, o := range out {
		if o == origin {
			return out
		}
	}
	return append(out, origin)
}
