package gazetteer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// German umlauts are spelled out the way Swiss addresses write them in ASCII.
var umlauts = strings.NewReplacer(
	"ä", "ae",
	"ö", "oe",
	"ü", "ue",
	"ß", "ss",
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize folds a single input token to the matcher alphabet [a-z0-9]:
//  1. Trim and lowercase
//  2. ä→ae, ö→oe, ü→ue, ß→ss
//  3. Strip remaining accents (é→e)
//  4. Drop everything that is not an ASCII letter or digit, whitespace included
func Normalize(token string) string {
	s := strings.ToLower(strings.TrimSpace(token))
	s = umlauts.Replace(s)

	if folded, _, err := transform.String(stripAccents, s); err == nil {
		s = folded
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Tokenize splits raw input on whitespace, commas and semicolons and
// normalizes each piece. Pieces that normalize to nothing are dropped.
func Tokenize(input string) []string {
	parts := strings.FieldsFunc(input, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';'
	})

	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if tok := Normalize(part); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
