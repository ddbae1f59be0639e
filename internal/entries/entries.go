// Package entries locates dictionary definition entries in a normalized
// wiki page and converts them to raw token streams.
//
// The heuristics assume entries are <li> elements under an <h3> or <h4>
// part-of-speech header, and that the closest preceding header one level
// up names the language.
package entries

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/tbeaumont/wikigloss/internal/corpus"
)

// linkMarkers are the literal hyperlink markers the tokenizer must keep
// atomic, so marker-shaped text in a definition cannot split mid-token.
var linkMarkers = []string{"<a>", "</a>"}

// Tokenizer splits plain text into tokens, keeping the atomic literals
// whole wherever they occur.
type Tokenizer interface {
	Tokenize(text string, atomic []string) []string
}

// OrphanEntryError reports a part-of-speech header with no enclosing
// language header. The page structure is malformed; extraction for the
// document is aborted.
type OrphanEntryError struct {
	Header string
}

func (e *OrphanEntryError) Error() string {
	return fmt.Sprintf("part-of-speech header %q has no enclosing language header", e.Header)
}

// errNestedLink marks a list item with a hyperlink inside another
// hyperlink; the item is skipped and extraction continues.
var errNestedLink = errors.New("nested hyperlink in list item")

type header struct {
	level int
	text  string
}

// reading holds the state of an open part-of-speech section. A nil
// *reading means the traversal is searching for the next one.
type reading struct {
	level     int
	language  string
	container *html.Node
}

// Extract walks the normalized document depth-first and returns the raw
// entries grouped by language name, in discovery order.
func Extract(tok Tokenizer, doc *goquery.Document) (map[string][]corpus.Entry, error) {
	found := make(map[string][]corpus.Entry)

	var headers []header
	var rd *reading

	for _, n := range elementsPreOrder(doc) {
		level := headingLevel(n.Data)
		var text string
		if level > 0 {
			text = nodeText(n)
		}

		// Header history is appended before any mode transition,
		// regardless of the current mode.
		if level >= 2 && level <= 4 {
			headers = append(headers, header{level: level, text: text})
		}

		switch {
		case IsPartOfSpeechHeader(level, text):
			lang, ok := lastHeaderAt(headers, level-1)
			if !ok {
				return nil, &OrphanEntryError{Header: text}
			}
			rd = &reading{level: level, language: lang}

		case rd != nil && n.Data == "li":
			if rd.container == nil {
				rd.container = n.Parent
			} else if rd.container != n.Parent {
				// A list item from an unrelated list closes the
				// group. The interrupting item itself is dropped,
				// not re-evaluated as a new group start.
				rd = nil
				continue
			}
			entry, err := rawEntry(tok, n)
			if err != nil {
				// Malformed item: skip it, keep the group open.
				continue
			}
			found[rd.language] = append(found[rd.language], entry)

		case rd != nil && level == rd.level:
			// A header at exactly the active level ends the section.
			rd = nil
		}
	}

	return found, nil
}

// lastHeaderAt returns the text of the most recently recorded header with
// the given level.
func lastHeaderAt(headers []header, level int) (string, bool) {
	for i := len(headers) - 1; i >= 0; i-- {
		if headers[i].level == level {
			return headers[i].text, true
		}
	}
	return "", false
}

// rawEntry converts one list item into a raw token stream. Hyperlink
// elements become open/close sentinels, with the open sentinel carrying
// the link target; every other descendant element contributes only its
// text. Text runs go through the tokenizer.
func rawEntry(tok Tokenizer, li *html.Node) (corpus.Entry, error) {
	var entry corpus.Entry
	var text strings.Builder

	flush := func() {
		if text.Len() == 0 {
			return
		}
		for _, form := range tok.Tokenize(text.String(), linkMarkers) {
			entry = append(entry, corpus.Token{Kind: corpus.Text, Form: form})
		}
		text.Reset()
	}

	var walk func(n *html.Node, inLink bool) error
	walk = func(n *html.Node, inLink bool) error {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == html.TextNode:
				text.WriteString(c.Data)
			case c.Type == html.ElementNode && c.Data == "a" && attr(c, "href") != "":
				if inLink {
					return errNestedLink
				}
				flush()
				entry = append(entry, corpus.Token{Kind: corpus.OpenLink, Href: attr(c, "href")})
				if err := walk(c, true); err != nil {
					return err
				}
				flush()
				entry = append(entry, corpus.Token{Kind: corpus.CloseLink})
			case c.Type == html.ElementNode:
				// Non-link element: keep only its text.
				if err := walk(c, inLink); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := walk(li, false); err != nil {
		return nil, err
	}
	flush()
	return entry, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func nodeText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

// elementsPreOrder collects all element nodes of the document in a single
// pre-order pass.
func elementsPreOrder(doc *goquery.Document) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, root := range doc.Nodes {
		walk(root)
	}
	return out
}
