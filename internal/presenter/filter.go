package presenter

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/jask/stockpile/internal/catalog"
)

// minFuzzyRunes is the shortest query term that is matched with typos allowed.
const minFuzzyRunes = 3

// Matches reports whether every term of query occurs in p's name or
// description. Terms of three or more characters also match words a small edit
// distance away, so "lptop" finds "Laptop".
func Matches(p catalog.Product, query string) bool {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return true
	}
	text := strings.ToLower(p.Name + " " + p.Description)
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, term := range terms {
		if !termMatches(term, text, words) {
			return false
		}
	}
	return true
}

func termMatches(term, text string, words []string) bool {
	if strings.Contains(text, term) {
		return true
	}
	n := utf8.RuneCountInString(term)
	if n < minFuzzyRunes {
		return false
	}
	tolerance := 1
	if n >= 6 {
		tolerance = 2
	}
	for _, w := range words {
		if levenshtein.ComputeDistance(term, w) <= tolerance {
			return true
		}
	}
	return false
}
