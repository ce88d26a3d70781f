package query

import (
	"strings"
	"unicode"
)

// location prepositions, longest first so "located in" wins over "in"
var locationCues = [][]string{
	{"close", "to"},
	{"located", "in"},
	{"situated", "in"},
	{"in"},
	{"at"},
	{"near"},
	{"around"},
}

// words that end a location phrase besides another location cue
var locationStops = map[string]bool{
	"with": true, "without": true, "under": true, "below": true, "above": true,
	"over": true, "between": true, "for": true, "within": true, "having": true,
	"and": true, "or": true, "that": true, "which": true, "budget": true,
	"rent": true, "upto": true, "max": true, "but": true,
	"no": true, "except": true,
}

// words that never start a location
var locationNonStarts = map[string]bool{
	"least": true, "most": true, "budget": true, "range": true, "total": true,
	"month": true, "all": true, "my": true, "our": true, "any": true,
	"flat": true, "apartment": true, "house": true, "studio": true, "villa": true,
	"property": true, "room": true, "pg": true,
}

var articles = map[string]bool{"a": true, "an": true, "the": true}

// ParseLocationTerms returns the phrases that follow location prepositions
// ("in", "at", "near", "around", "close to", "located in", "situated in"),
// each running until another preposition or the end of the text.
func ParseLocationTerms(text string) []string {
	tokens := locationTokens(text)
	var terms []string

	for i := 0; i < len(tokens); {
		n := matchCue(tokens, i)
		if n == 0 {
			i++
			continue
		}
		j := i + n
		for j < len(tokens) && articles[tokens[j]] {
			j++
		}
		start := j
		for j < len(tokens) && !locationStops[tokens[j]] && matchCue(tokens, j) == 0 && !startsWithDigit(tokens[j]) {
			j++
		}
		if j > start && !locationNonStarts[tokens[start]] {
			terms = appendUnique(terms, strings.Join(tokens[start:j], " "))
		}
		i = j
	}
	return terms
}

func matchCue(tokens []string, i int) int {
	for _, cue := range locationCues {
		if i+len(cue) > len(tokens) {
			continue
		}
		ok := true
		for k, w := range cue {
			if tokens[i+k] != w {
				ok = false
				break
			}
		}
		if ok {
			return len(cue)
		}
	}
	return 0
}

// locationTokens lowercases text and splits it into words, dropping punctuation.
func locationTokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func startsWithDigit(s string) bool {
	return s != "" && unicode.IsDigit(rune(s[0]))
}

func appendUnique(list []string, s string) []string {
	for _, x := range list {
		if x == s {
			return list
		}
	}
	return append(list, s)
}
