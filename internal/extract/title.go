package extract

import (
	"path/filepath"
	"strings"
)

// minorWords stay lowercase in titles unless they lead.
var minorWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "as": {}, "at": {}, "but": {}, "by": {},
	"for": {}, "if": {}, "in": {}, "of": {}, "on": {}, "or": {}, "the": {},
	"to": {}, "up": {}, "via": {}, "with": {},
}

// ResolveTitle derives a display title from a filename: extension stripped,
// underscore and hyphen separators spaced out, title case applied word by
// word. The first word is always capitalized; minor words elsewhere are
// forced lowercase.
func ResolveTitle(filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	stem = strings.ReplaceAll(stem, "_", " ")
	stem = strings.ReplaceAll(stem, "-", " ")

	words := strings.Fields(stem)
	for i, w := range words {
		lower := strings.ToLower(w)
		if i > 0 {
			if _, minor := minorWords[lower]; minor {
				words[i] = lower
				continue
			}
		}
		words[i] = capitalize(lower)
	}
	return strings.Join(words, " ")
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}
