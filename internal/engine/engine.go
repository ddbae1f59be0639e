// Package engine runs the full extraction pipeline for one page:
// normalize, extract entries, tag link spans, serialize.
package engine

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/tbeaumont/wikigloss/internal/conllu"
	"github.com/tbeaumont/wikigloss/internal/corpus"
	"github.com/tbeaumont/wikigloss/internal/entries"
	"github.com/tbeaumont/wikigloss/internal/linkspan"
	"github.com/tbeaumont/wikigloss/internal/normalize"
)

// Engine converts raw page HTML into serialized record blocks. It holds no
// per-document state and is safe for concurrent use across documents.
type Engine struct {
	tok   entries.Tokenizer
	log   *slog.Logger
	stats *ProcessStats
}

func New(tok entries.Tokenizer, log *slog.Logger) *Engine {
	return &Engine{
		tok:   tok,
		log:   log,
		stats: NewProcessStats(time.Hour),
	}
}

// ExtractAndFormat runs the engine over one document and returns its
// serialized text block. Idempotent for identical input. A structural
// error (orphan part-of-speech header) discards the whole document;
// entries with unbalanced link sentinels are skipped individually.
func (e *Engine) ExtractAndFormat(url, htmlBody string) (string, error) {
	start := time.Now()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	normalize.Clean(doc)

	raw, err := entries.Extract(e.tok, doc)
	if err != nil {
		return "", fmt.Errorf("extract entries: %w", err)
	}

	tagged := make(map[string][][]corpus.Annotated, len(raw))
	for lang, list := range raw {
		for _, entry := range list {
			tokens, err := linkspan.Tag(entry)
			if err != nil {
				e.log.Warn("rejecting entry", "url", url, "language", lang, "error", err)
				continue
			}
			tagged[lang] = append(tagged[lang], tokens)
		}
	}

	out := conllu.FormatPage(url, tagged)
	e.stats.Record(time.Since(start).Milliseconds())
	return out, nil
}

// Stats returns a snapshot of recent per-document processing latencies.
func (e *Engine) Stats() StatsSnapshot {
	return e.stats.Snapshot()
}

// FinalizeCorpus concatenates completed text blocks into the combined
// corpus stream.
func FinalizeCorpus(blocks []string) string {
	return strings.Join(blocks, "")
}
