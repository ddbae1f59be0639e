package engine

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/tbeaumont/wikigloss/internal/entries"
	"github.com/tbeaumont/wikigloss/internal/token"
)

func newTestEngine() *Engine {
	return New(token.New(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const runsPage = `<html><body>
<h2>English</h2>
<h3>Verb</h3>
<ol><li>running <a href="/wiki/run">run</a></li></ol>
</body></html>`

func TestExtractAndFormat_EndToEnd(t *testing.T) {
	eng := newTestEngine()
	got, err := eng.ExtractAndFormat("https://en.wiktionary.org/wiki/runs", runsPage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "# url = https://en.wiktionary.org/wiki/runs\n" +
		"# language = English\n" +
		"1\trunning\t_\t_\t_\t_\t_\t_\t_\tLinkTag=O\n" +
		"2\trun\t_\t_\t_\t_\t_\t_\t_\tHref=/wiki/run|LinkTag=U\n" +
		"\n"
	if got != want {
		t.Errorf("unexpected output:\n got: %q\nwant: %q", got, want)
	}
}

func TestExtractAndFormat_Idempotent(t *testing.T) {
	eng := newTestEngine()
	first, err := eng.ExtractAndFormat("u", runsPage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := eng.ExtractAndFormat("u", runsPage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("expected identical output for identical input:\n%q\n%q", first, second)
	}
}

func TestExtractAndFormat_LanguageOrder(t *testing.T) {
	page := `<body>
<h2>French</h2>
<h3>Noun</h3>
<ol><li>une course</li></ol>
<h2>English</h2>
<h3>Noun</h3>
<ol><li>a run</li></ol>
</body>`

	eng := newTestEngine()
	got, err := eng.ExtractAndFormat("u", page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	en := strings.Index(got, "# language = English")
	fr := strings.Index(got, "# language = French")
	if en < 0 || fr < 0 || en > fr {
		t.Errorf("expected English block before French:\n%s", got)
	}
}

func TestExtractAndFormat_OrphanDiscardsDocument(t *testing.T) {
	page := `<body>
<h2>English</h2>
<h4>Verb</h4>
<ol><li>orphaned</li></ol>
</body>`

	// The h4 POS header has no h3 in history: the document is discarded
	// and no record blocks are produced.
	eng := newTestEngine()
	out, err := eng.ExtractAndFormat("u", page)
	var orphan *entries.OrphanEntryError
	if !errors.As(err, &orphan) {
		t.Fatalf("expected OrphanEntryError, got %v", err)
	}
	if out != "" {
		t.Errorf("expected no output for a structurally broken document, got %q", out)
	}
}

func TestExtractAndFormat_NoEntries(t *testing.T) {
	eng := newTestEngine()
	got, err := eng.ExtractAndFormat("u", "<body><p>nothing here</p></body>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty output for a page without entries, got %q", got)
	}
}

func TestFinalizeCorpus(t *testing.T) {
	blocks := []string{"block1\n\n", "block2\n\n"}
	got := FinalizeCorpus(blocks)
	if got != "block1\n\nblock2\n\n" {
		t.Errorf("unexpected combined stream: %q", got)
	}
}
