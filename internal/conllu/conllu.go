// Package conllu serializes annotated entries as CoNLL-U-style records.
//
// Only the id, form and misc columns carry data; the remaining columns are
// the `_` placeholder. The misc column holds the link target (when any)
// and the link-span tag, e.g. `Href=/wiki/run|LinkTag=U`.
package conllu

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tbeaumont/wikigloss/internal/corpus"
)

// FormatBlock serializes one record block: two metadata comment lines, one
// line per annotated token, and a trailing blank line.
func FormatBlock(b corpus.Block) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# url = %s\n", b.URL)
	fmt.Fprintf(&sb, "# language = %s\n", b.Language)
	for _, t := range b.Tokens {
		fmt.Fprintf(&sb, "%d\t%s\t_\t_\t_\t_\t_\t_\t_\t%s\n", t.ID, t.Form, misc(t))
	}
	sb.WriteString("\n")
	return sb.String()
}

// FormatPage serializes all tagged entries of one document. Languages are
// ordered lexicographically; entries keep their discovery order.
func FormatPage(url string, tagged map[string][][]corpus.Annotated) string {
	langs := make([]string, 0, len(tagged))
	for lang := range tagged {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	var sb strings.Builder
	for _, lang := range langs {
		for _, tokens := range tagged[lang] {
			sb.WriteString(FormatBlock(corpus.Block{URL: url, Language: lang, Tokens: tokens}))
		}
	}
	return sb.String()
}

func misc(t corpus.Annotated) string {
	if t.Href != "" {
		return fmt.Sprintf("Href=%s|LinkTag=%s", t.Href, t.Tag)
	}
	return fmt.Sprintf("LinkTag=%s", t.Tag)
}
