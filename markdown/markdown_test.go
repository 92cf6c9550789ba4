package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func render(t *testing.T, input string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := RenderMarkdown(&buf, input); err != nil {
		t.Fatalf("RenderMarkdown(%q) failed: %v", input, err)
	}
	return buf.String()
}

func TestRenderMarkdownInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"__bold__", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"_italic_", "<em>italic</em>"},
		{"**bold *italic* text**", "<strong>bold <em>italic</em> text</strong>"},
		{"~~gone~~", "<del>gone</del>"},
		{"use `go test`", "<code>go test</code>"},
	}
	for _, tt := range tests {
		got := render(t, tt.input)
		if !strings.Contains(got, tt.expected) {
			t.Errorf("RenderMarkdown(%q) = %q, want it to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderMarkdownHeadingsHaveIDs(t *testing.T) {
	got := render(t, "# Hello World\n\n## Second Part")
	if !strings.Contains(got, `<h1 id="hello-world">Hello World</h1>`) {
		t.Errorf("missing h1 anchor: %q", got)
	}
	if !strings.Contains(got, `<h2 id="second-part">`) {
		t.Errorf("missing h2 anchor: %q", got)
	}
}

func TestRenderMarkdownCodeBlockWithLanguage(t *testing.T) {
	got := render(t, "```go\nfmt.Println(\"<hi>\")\n```")
	if !strings.Contains(got, `<code class="language-go">`) {
		t.Errorf("missing language class: %q", got)
	}
	if !strings.Contains(got, "&lt;hi&gt;") {
		t.Errorf("code content not escaped: %q", got)
	}
}

func TestRenderMarkdownTable(t *testing.T) {
	got := render(t, "| a | b |\n|---|---|\n| 1 | 2 |")
	for _, want := range []string{"<table>", "<th>a</th>", "<td>2</td>"} {
		if !strings.Contains(got, want) {
			t.Errorf("table output %q missing %q", got, want)
		}
	}
}

func TestRenderMarkdownLists(t *testing.T) {
	got := render(t, "- one\n- two\n\n1. first\n2. second")
	if !strings.Contains(got, "<ul>") || !strings.Contains(got, "<li>one</li>") {
		t.Errorf("unordered list failed: %q", got)
	}
	if !strings.Contains(got, "<ol>") || !strings.Contains(got, "<li>second</li>") {
		t.Errorf("ordered list failed: %q", got)
	}
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	got := render(t, "hello <script>alert(1)</script>\n\n[x](javascript:alert(1))\n\n<img src=\"/a.png\" onerror=\"alert(1)\">")
	if strings.Contains(got, "<script") {
		t.Errorf("script not removed: %q", got)
	}
	if strings.Contains(got, "javascript:") {
		t.Errorf("javascript URL not removed: %q", got)
	}
	if strings.Contains(got, "onerror") {
		t.Errorf("event handler not removed: %q", got)
	}
	if !strings.Contains(got, `src="/a.png"`) {
		t.Errorf("image dropped: %q", got)
	}
}

func TestRenderMarkdownExternalLinks(t *testing.T) {
	got := render(t, "[site](https://example.com)")
	if !strings.Contains(got, `href="https://example.com"`) {
		t.Errorf("link missing: %q", got)
	}
	if !strings.Contains(got, `target="_blank"`) || !strings.Contains(got, "noreferrer") {
		t.Errorf("external link not hardened: %q", got)
	}
}

func TestStripESM(t *testing.T) {
	input := "import Chart from './Chart'\nexport const meta = {}\n\nText\n\n```js\nimport x from 'y'\n```\n"
	got := StripESM(input)
	if strings.Contains(got, "Chart") || strings.Contains(got, "export const") {
		t.Errorf("ESM not stripped: %q", got)
	}
	if !strings.Contains(got, "import x from 'y'") {
		t.Errorf("import inside code fence must be kept: %q", got)
	}
	if !strings.Contains(got, "Text") {
		t.Errorf("body lost: %q", got)
	}
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown("Some *text*").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "<em>text</em>") {
		t.Errorf("component output %q", buf.String())
	}
}

func TestSanitize(t *testing.T) {
	got := Sanitize(`<p onclick="x()">ok</p><iframe src="https://evil"></iframe>`)
	if got != "<p>ok</p>" {
		t.Errorf("Sanitize = %q", got)
	}
}
