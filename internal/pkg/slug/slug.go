// Package slug derives URL-safe identifiers from post titles.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// transliterations spells out letters that do not decompose into an ASCII
// base plus marks, and symbols that read as words. Keys are lowercase.
var transliterations = strings.NewReplacer(
	"ß", "ss", "æ", "ae", "œ", "oe", "ø", "o", "đ", "d", "ð", "d",
	"ł", "l", "þ", "th", "ı", "i", "ª", "a", "º", "o",
	"&", "and", "|", "or", "<", "less", ">", "greater",
	"$", "dollar", "%", "percent", "¢", "cent", "£", "pound", "¥", "yen",
	"€", "euro", "©", "c", "®", "r", "™", "tm",
	"∂", "d", "∆", "delta", "∑", "sum", "∞", "infinity", "♥", "love",
)

// Make converts a title into a lowercase ASCII slug.
//
//  1. Lowercase and transliterate ("ß" → "ss", "&" → "and").
//  2. NFD-normalize and drop combining marks ("é" → "e").
//  3. Keep only a-z and 0-9; hyphens count as spaces, every other rune
//     (underscore and punctuation included) is removed.
//  4. Join the remaining words with '-'.
//
// "Tom & Jerry" → "tom-and-jerry", "snake_case" → "snakecase". Titles with no
// Latin letters or digits yield "".
func Make(title string) string {
	s := transliterations.Replace(strings.ToLower(title))

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == '-', unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, s)

	return strings.Join(strings.Fields(s), "-")
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
