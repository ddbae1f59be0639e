package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tbeaumont/wikigloss/internal/engine"
)

// Worker processes a single page job end to end. Each worker owns the
// document it is processing; nothing is shared between jobs.
type Worker struct {
	engine *engine.Engine
	log    *slog.Logger
	sink   chan<- string // combined corpus stream, nil when not collecting
}

func NewWorker(eng *engine.Engine, log *slog.Logger, sink chan<- string) *Worker {
	return &Worker{
		engine: eng,
		log:    log,
		sink:   sink,
	}
}

// Process runs the extraction engine for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "url", job.URL)

	job.SetStatus(StatusProcessing, "extracting")
	text, err := w.engine.ExtractAndFormat(job.URL, job.HTML())
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	languages, entries := countBlocks(text)
	job.SetCounts(languages, entries)
	job.SetResult(text)
	job.SetStatus(StatusCompleted, "done")
	log.Info("page processed", "languages", languages, "entries", entries)

	if w.sink != nil && text != "" {
		select {
		case w.sink <- text:
		case <-ctx.Done():
		}
	}
}

// countBlocks derives language and entry counts from a serialized page.
func countBlocks(text string) (languages, entries int) {
	seen := map[string]bool{}
	for _, line := range strings.Split(text, "\n") {
		if lang, ok := strings.CutPrefix(line, "# language = "); ok {
			entries++
			seen[lang] = true
		}
	}
	return len(seen), entries
}
