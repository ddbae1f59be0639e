// Package corpus defines the token and annotation types shared by the
// extraction engine.
package corpus

// TokenKind distinguishes real text tokens from hyperlink sentinels.
type TokenKind int

const (
	// Text is an ordinary token produced by the tokenizer.
	Text TokenKind = iota
	// OpenLink marks the start of a hyperlinked span. It carries the link
	// target and is never emitted as an output token.
	OpenLink
	// CloseLink marks the end of a hyperlinked span.
	CloseLink
)

// Token is one element of a raw entry's token stream.
type Token struct {
	Kind TokenKind
	Form string // literal text; empty for sentinels
	Href string // link target, set only on OpenLink
}

// Entry is the raw token sequence extracted from one definition list item.
// Sentinels are never nested: an OpenLink is always closed before the next
// OpenLink appears.
type Entry []Token

// LinkTag marks a token's position within a hyperlinked span.
type LinkTag string

const (
	Outside LinkTag = "O" // not part of any link
	Begin   LinkTag = "B" // first token of a multi-token link
	Inside  LinkTag = "I" // interior token of a multi-token link
	Last    LinkTag = "L" // final token of a multi-token link
	Unit    LinkTag = "U" // single-token link
)

// Annotated is one output token with its entry-local 1-based id and
// link-span tag. Href is set only on Begin and Unit tokens.
type Annotated struct {
	ID   int
	Form string
	Tag  LinkTag
	Href string
}

// Block is one serialized entry together with its document metadata.
// Blocks are produced once and never mutated.
type Block struct {
	URL      string
	Language string
	Tokens   []Annotated
}
