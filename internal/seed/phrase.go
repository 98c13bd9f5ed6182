package seed

import (
	"regexp"
	"strings"
)

// wordPattern matches maximal runs of word characters.
var wordPattern = regexp.MustCompile(`[\p{L}\p{M}\p{Nd}\p{Pc}]+`)

// ParsePhrase extracts the ordered words of free-form recovery input.
// Case is preserved; everything between words is discarded.
func ParsePhrase(text string) []string {
	words := wordPattern.FindAllString(text, -1)
	if words == nil {
		return []string{}
	}
	return words
}

// JoinPhrase renders words the way they are shown to the user.
func JoinPhrase(words []string) string {
	return strings.Join(words, " ")
}
