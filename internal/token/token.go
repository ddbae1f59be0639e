// Package token implements the tokenizer consumed by the entry extractor.
package token

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenizer splits text into an ordered sequence of tokens.
type Tokenizer struct{}

func New() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize splits text into tokens. Literal strings listed in atomic are
// matched first at every position and kept as single tokens.
//
// A single space between tokens is treated as a separator and dropped; any
// longer run of whitespace, or whitespace other than a plain space, is
// emitted as a whitespace token so that unusual spacing survives into the
// token stream.
func (t *Tokenizer) Tokenize(text string, atomic []string) []string {
	var tokens []string
	i := 0
scan:
	for i < len(text) {
		for _, a := range atomic {
			if a != "" && strings.HasPrefix(text[i:], a) {
				tokens = append(tokens, a)
				i += len(a)
				continue scan
			}
		}

		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			j := i + size
			for j < len(text) {
				r2, s2 := utf8.DecodeRuneInString(text[j:])
				if !unicode.IsSpace(r2) {
					break
				}
				j += s2
			}
			if text[i:j] != " " {
				tokens = append(tokens, text[i:j])
			}
			i = j
			continue
		}

		if isDelimiter(r) {
			tokens = append(tokens, text[i:i+size])
			i += size
			continue
		}

		// Word token: maximal run of non-space, non-delimiter runes,
		// bounded by any atomic literal.
		j := i + size
	word:
		for j < len(text) {
			for _, a := range atomic {
				if a != "" && strings.HasPrefix(text[j:], a) {
					break word
				}
			}
			r2, s2 := utf8.DecodeRuneInString(text[j:])
			if unicode.IsSpace(r2) || isDelimiter(r2) {
				break
			}
			j += s2
		}
		tokens = append(tokens, text[i:j])
		i = j
	}
	return tokens
}

// isDelimiter reports whether a rune splits off as its own token.
// Apostrophes and hyphens stay inside words ("don't", "well-known").
func isDelimiter(r rune) bool {
	switch r {
	case '\'', '’', '-':
		return false
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
