package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/tbeaumont/wikigloss/internal/engine"
	"github.com/tbeaumont/wikigloss/internal/store"
)

// CombinedFile is the name of the accumulated corpus stream.
const CombinedFile = "_all.conllu"

// FormatStats summarizes one corpus formatting run.
type FormatStats struct {
	Pages  int
	Failed int
}

// RunFormat processes every stored page through the engine and writes the
// corpus to outDir. Workers own one document each; a single writer
// goroutine owns the combined output stream and receives finished text
// blocks from the workers. When individual is set, each page is also
// written to its own file. Structural failures are logged and counted;
// the run continues with the remaining pages.
func RunFormat(ctx context.Context, st *store.Store, eng *engine.Engine, outDir string, individual bool, workerCount int, log *slog.Logger) (FormatStats, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return FormatStats{}, fmt.Errorf("create output dir: %w", err)
	}
	combined, err := os.Create(filepath.Join(outDir, CombinedFile))
	if err != nil {
		return FormatStats{}, fmt.Errorf("create combined file: %w", err)
	}
	defer combined.Close()

	if workerCount <= 0 {
		workerCount = 1
	}

	pages := make(chan store.Page)
	blocks := make(chan string, workerCount)

	// Single writer owns the combined stream.
	var writerWg sync.WaitGroup
	var writeErr error
	writerWg.Add(1)
	go func() {
		defer writerWg.Done()
		for text := range blocks {
			if _, err := combined.WriteString(text); err != nil && writeErr == nil {
				writeErr = fmt.Errorf("write combined stream: %w", err)
			}
		}
	}()

	var (
		mu    sync.Mutex
		stats FormatStats
	)

	var workerWg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		workerWg.Add(1)
		go func() {
			defer workerWg.Done()
			for page := range pages {
				text, err := eng.ExtractAndFormat(page.URL, page.HTML)
				mu.Lock()
				stats.Pages++
				if err != nil {
					stats.Failed++
				}
				mu.Unlock()
				if err != nil {
					log.Error("page failed, skipping", "title", page.Title, "error", err)
					continue
				}
				if individual {
					path := filepath.Join(outDir, page.FileSafeTitle+".conllu")
					if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
						log.Error("write page file failed", "path", path, "error", err)
					}
				}
				if text != "" {
					select {
					case blocks <- text:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	feedErr := st.ForEach(ctx, func(p store.Page) error {
		select {
		case pages <- p:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	close(pages)
	workerWg.Wait()
	close(blocks)
	writerWg.Wait()

	if feedErr != nil {
		return stats, fmt.Errorf("iterate pages: %w", feedErr)
	}
	if writeErr != nil {
		return stats, writeErr
	}
	return stats, nil
}
