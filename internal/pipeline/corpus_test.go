package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tbeaumont/wikigloss/internal/engine"
	"github.com/tbeaumont/wikigloss/internal/store"
	"github.com/tbeaumont/wikigloss/internal/token"
)

const goodPage = `<html><body>
<h2>English</h2>
<h3>Noun</h3>
<ol><li>A <a href="/wiki/domestic">domestic</a> animal.</li></ol>
</body></html>`

// Orphan part-of-speech header: the whole page fails extraction.
const badPage = `<html><body><h2>English</h2><h4>Verb</h4><ol><li>x</li></ol></body></html>`

func seedStore(t *testing.T, pages map[string]string) *store.Store {
	t.Helper()
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	for title, html := range pages {
		page := store.Page{
			Title:         title,
			URL:           "https://en.wiktionary.org/wiki/" + title,
			RevID:         1,
			HTML:          html,
			FileSafeTitle: store.FileSafe(title),
		}
		if err := st.Put(context.Background(), page); err != nil {
			t.Fatalf("put page %q: %v", title, err)
		}
	}
	return st
}

func TestRunFormat_WritesCombinedStream(t *testing.T) {
	st := seedStore(t, map[string]string{"dog": goodPage, "cat": goodPage})
	eng := engine.New(token.New(), testLogger())
	outDir := t.TempDir()

	stats, err := RunFormat(context.Background(), st, eng, outDir, false, 2, testLogger())
	if err != nil {
		t.Fatalf("RunFormat: %v", err)
	}
	if stats.Pages != 2 {
		t.Errorf("expected 2 pages processed, got %d", stats.Pages)
	}
	if stats.Failed != 0 {
		t.Errorf("expected 0 failures, got %d", stats.Failed)
	}

	data, err := os.ReadFile(filepath.Join(outDir, CombinedFile))
	if err != nil {
		t.Fatalf("read combined file: %v", err)
	}
	text := string(data)
	if got := strings.Count(text, "# language = English"); got != 2 {
		t.Errorf("expected 2 blocks in combined stream, got %d:\n%s", got, text)
	}
	if !strings.Contains(text, "# url = https://en.wiktionary.org/wiki/dog") {
		t.Error("expected dog block in combined stream")
	}
	if !strings.Contains(text, "# url = https://en.wiktionary.org/wiki/cat") {
		t.Error("expected cat block in combined stream")
	}
}

func TestRunFormat_IndividualFiles(t *testing.T) {
	st := seedStore(t, map[string]string{"dog": goodPage})
	eng := engine.New(token.New(), testLogger())
	outDir := t.TempDir()

	if _, err := RunFormat(context.Background(), st, eng, outDir, true, 1, testLogger()); err != nil {
		t.Fatalf("RunFormat: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "dog.conllu"))
	if err != nil {
		t.Fatalf("read page file: %v", err)
	}
	if !strings.Contains(string(data), "Href=/wiki/domestic|LinkTag=U") {
		t.Errorf("unexpected page file content:\n%s", data)
	}
}

func TestRunFormat_SkipsFailedPages(t *testing.T) {
	st := seedStore(t, map[string]string{"dog": goodPage, "broken": badPage})
	eng := engine.New(token.New(), testLogger())
	outDir := t.TempDir()

	stats, err := RunFormat(context.Background(), st, eng, outDir, false, 1, testLogger())
	if err != nil {
		t.Fatalf("RunFormat: %v", err)
	}
	if stats.Pages != 2 {
		t.Errorf("expected 2 pages seen, got %d", stats.Pages)
	}
	if stats.Failed != 1 {
		t.Errorf("expected 1 failure, got %d", stats.Failed)
	}

	data, err := os.ReadFile(filepath.Join(outDir, CombinedFile))
	if err != nil {
		t.Fatalf("read combined file: %v", err)
	}
	if got := strings.Count(string(data), "# url = "); got != 1 {
		t.Errorf("expected 1 block from surviving page, got %d", got)
	}
}

func TestRunFormat_EmptyStore(t *testing.T) {
	st := seedStore(t, nil)
	eng := engine.New(token.New(), testLogger())
	outDir := t.TempDir()

	stats, err := RunFormat(context.Background(), st, eng, outDir, false, 2, testLogger())
	if err != nil {
		t.Fatalf("RunFormat: %v", err)
	}
	if stats.Pages != 0 {
		t.Errorf("expected 0 pages, got %d", stats.Pages)
	}
	data, err := os.ReadFile(filepath.Join(outDir, CombinedFile))
	if err != nil {
		t.Fatalf("read combined file: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected empty combined file, got %d bytes", len(data))
	}
}
