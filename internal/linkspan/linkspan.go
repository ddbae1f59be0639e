// Package linkspan assigns hyperlink boundary tags to raw entry tokens.
package linkspan

import (
	"fmt"
	"strings"

	"github.com/tbeaumont/wikigloss/internal/corpus"
)

// MismatchError reports a raw entry whose hyperlink sentinels are not
// balanced. The entry is rejected rather than tagged inconsistently.
type MismatchError struct {
	Reason string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("hyperlink sentinel mismatch: %s", e.Reason)
}

// Tag walks a raw entry left to right and returns its annotated tokens.
// Sentinels and whitespace-only tokens are consumed but never emitted;
// every other token gets the next 1-based sequence id and a link-span tag.
// The link target is attached exactly once per span, on its first token.
func Tag(entry corpus.Entry) ([]corpus.Annotated, error) {
	var out []corpus.Annotated
	inside := false
	pending := false
	var href string
	id := 0

	for i, tk := range entry {
		switch tk.Kind {
		case corpus.OpenLink:
			if inside {
				return nil, &MismatchError{Reason: "opening sentinel inside an open link"}
			}
			inside = true
			pending = true
			href = tk.Href

		case corpus.CloseLink:
			if !inside {
				return nil, &MismatchError{Reason: "closing sentinel without an open link"}
			}
			inside = false

		case corpus.Text:
			if strings.TrimSpace(tk.Form) == "" {
				continue
			}
			id++
			a := corpus.Annotated{ID: id, Form: tk.Form}
			switch {
			case pending:
				if nextIsClose(entry, i) {
					a.Tag = corpus.Unit
				} else {
					a.Tag = corpus.Begin
				}
				a.Href = href
				pending = false
				href = ""
			case inside:
				if nextIsClose(entry, i) {
					a.Tag = corpus.Last
				} else {
					a.Tag = corpus.Inside
				}
			default:
				a.Tag = corpus.Outside
			}
			out = append(out, a)
		}
	}

	if inside {
		return nil, &MismatchError{Reason: "unclosed link at end of entry"}
	}
	return out, nil
}

// nextIsClose reports whether the raw token immediately after index i is a
// closing sentinel. The lookahead is literal: an intervening whitespace
// token means the current token is not span-final.
func nextIsClose(entry corpus.Entry, i int) bool {
	return i+1 < len(entry) && entry[i+1].Kind == corpus.CloseLink
}
