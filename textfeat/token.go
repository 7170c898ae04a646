package textfeat

import "unicode"

// Tokens splits text into words and punctuation marks.
// A word is a maximal run of letters, digits and inner apostrophes.
// Every other non-space rune is a token of its own.
func Tokens(text string) []string {
	var (
		toks []string
		word []rune
	)
	flush := func() {
		if len(word) > 0 {
			toks = append(toks, string(word))
			word = word[:0]
		}
	}
	runes := []rune(text)
	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			word = append(word, r)
		case r == '\'' && len(word) > 0 && i+1 < len(runes) && unicode.IsLetter(runes[i+1]):
			word = append(word, r)
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			toks = append(toks, string(r))
		}
	}
	flush()
	return toks
}
