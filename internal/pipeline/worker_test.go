package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/tbeaumont/wikigloss/internal/engine"
	"github.com/tbeaumont/wikigloss/internal/token"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const workerPage = `<html><body>
<h2>English</h2>
<h3>Noun</h3>
<ol><li>A <a href="/wiki/dog">dog</a> barks.</li></ol>
</body></html>`

func TestWorker_ProcessCompletes(t *testing.T) {
	eng := engine.New(token.New(), testLogger())
	sink := make(chan string, 1)
	w := NewWorker(eng, testLogger(), sink)

	job := &Job{ID: NewULID(), URL: "https://en.wiktionary.org/wiki/dog", Status: StatusQueued}
	job.SetHTML(workerPage)

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected status %q, got %q (errors: %v)", StatusCompleted, snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.Languages != 1 {
		t.Errorf("expected 1 language, got %d", snap.Progress.Languages)
	}
	if snap.Progress.Entries != 1 {
		t.Errorf("expected 1 entry, got %d", snap.Progress.Entries)
	}
	if job.Result() == "" {
		t.Error("expected non-empty result")
	}

	select {
	case text := <-sink:
		if text != job.Result() {
			t.Error("expected sink to receive the job result")
		}
	default:
		t.Error("expected result on sink channel")
	}
}

func TestWorker_ProcessStructuralFailure(t *testing.T) {
	eng := engine.New(token.New(), testLogger())
	w := NewWorker(eng, testLogger(), nil)

	// Part-of-speech header with no language header above it.
	job := &Job{ID: NewULID(), URL: "https://en.wiktionary.org/wiki/bad", Status: StatusQueued}
	job.SetHTML(`<html><body><h2>English</h2><h4>Verb</h4><p>x</p></body></html>`)

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("expected status %q, got %q", StatusFailed, snap.Status)
	}
	if len(snap.Progress.Errors) == 0 {
		t.Error("expected recorded error")
	}
	if job.Result() != "" {
		t.Error("expected empty result for failed job")
	}
}

func TestCountBlocks(t *testing.T) {
	text := "# url = u\n# language = English\n1\tdog\t_\t_\t_\t_\t_\t_\t_\tLinkTag=O\n\n" +
		"# url = u\n# language = English\n1\tcat\t_\t_\t_\t_\t_\t_\t_\tLinkTag=O\n\n" +
		"# url = u\n# language = French\n1\tchien\t_\t_\t_\t_\t_\t_\t_\tLinkTag=O\n\n"
	languages, entriesN := countBlocks(text)
	if languages != 2 {
		t.Errorf("expected 2 languages, got %d", languages)
	}
	if entriesN != 3 {
		t.Errorf("expected 3 entries, got %d", entriesN)
	}
}

func TestCountBlocks_Empty(t *testing.T) {
	languages, entriesN := countBlocks("")
	if languages != 0 || entriesN != 0 {
		t.Errorf("expected zero counts, got %d languages %d entries", languages, entriesN)
	}
}
