package entries

// partOfSpeechLabels are the header titles recognized as grammatical
// category sections. Entries are the list items nested under one of these.
// See https://en.wiktionary.org/wiki/Wiktionary:Entry_layout
var partOfSpeechLabels = map[string]bool{
	"Adjective":      true,
	"Adverb":         true,
	"Ambiposition":   true,
	"Article":        true,
	"Circumfix":      true,
	"Circumposition": true,
	"Classifier":     true,
	"Conjunction":    true,
	"Contraction":    true,
	"Counter":        true,
	"Determiner":     true,
	"Ideophone":      true,
	"Infix":          true,
	"Interfix":       true,
	"Interjection":   true,
	"Noun":           true,
	"Numeral":        true,
	"Participle":     true,
	"Particle":       true,
	"Phrase":         true,
	"Postposition":   true,
	"Prefix":         true,
	"Preposition":    true,
	"Pronoun":        true,
	"Proper noun":    true,
	"Proverb":        true,
	"Root":           true,
	"Suffix":         true,
	"Symbol":         true,
	"Verb":           true,
}

// nonLanguageHeadings are section titles that appear at language-header
// levels but never name a language.
var nonLanguageHeadings = map[string]bool{
	"Alternative forms": true,
	"Anagrams":          true,
	"Antonyms":          true,
	"Conjugation":       true,
	"Declension":        true,
	"Derived terms":     true,
	"Descendants":       true,
	"Etymology":         true,
	"Further reading":   true,
	"Hyponyms":          true,
	"Hypernyms":         true,
	"Inflection":        true,
	"Navigation menu":   true,
	"Pronunciation":     true,
	"Quotations":        true,
	"References":        true,
	"Related terms":     true,
	"See also":          true,
	"Synonyms":          true,
	"Translations":      true,
	"Usage notes":       true,
}

// IsPartOfSpeechHeader reports whether a header at the given level opens a
// part-of-speech section.
func IsPartOfSpeechHeader(level int, text string) bool {
	return (level == 3 || level == 4) && partOfSpeechLabels[text]
}

// IsLanguageHeader reports whether a header at the given level names a
// language section.
func IsLanguageHeader(level int, text string) bool {
	if level != 2 && level != 3 {
		return false
	}
	return !nonLanguageHeadings[text] && !IsPartOfSpeechHeader(level, text)
}
