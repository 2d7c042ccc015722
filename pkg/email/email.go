// Package email derives presentation values from an email address.
package email

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// LocalPart returns the text before the first '@', or the whole input.
func LocalPart(address string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(address), "@")
	return local
}

// DisplayName guesses a name from the local part: "jane.doe+x@uni.ac.uk"
// becomes "Jane Doe X". Separators are dots, underscores, hyphens and plus
// signs. An address without usable characters yields "".
func DisplayName(address string) string {
	words := strings.FieldsFunc(LocalPart(address), func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
