package query

import (
	"regexp"
	"strings"

	"github.com/poiesic/propmatch/core"
	"github.com/poiesic/propmatch/vocab"
)

// negation cues, matched against the words directly before a feature
var negationCues = [][]string{
	{"not", "having"},
	{"don", "t", "want"},
	{"dont", "want"},
	{"no"},
	{"without"},
	{"except"},
	{"non"},
}

// fillers skipped when looking for a negation cue ("without any AC")
var negationFillers = map[string]bool{"any": true, "a": true, "an": true}

var intensifiers = map[string]bool{
	"must": true, "need": true, "needs": true, "required": true, "essential": true,
	"mandatory": true, "definitely": true, "absolutely": true, "important": true,
	"compulsory": true, "necessary": true, "needed": true,
}

var propertyNouns = map[string]bool{
	"flat": true, "flats": true, "apartment": true, "apartments": true, "house": true,
	"home": true, "villa": true, "studio": true, "room": true, "rooms": true,
	"unit": true, "property": true, "pg": true, "bhk": true, "rk": true,
}

var bhkToken = regexp.MustCompile(`^\d+(?:bhk|rk)$`)

// emphasis window, in words before a mention
const emphasisWindow = 3

type mention struct {
	feature    *vocab.Feature
	start, end int
	implied    bool
	negated    bool
	emphasized bool
}

type tally struct {
	feature    *vocab.Feature
	first      int
	count      int
	explicit   bool
	negated    bool
	emphasized bool
}

// ParseRequirements finds the vocabulary features a query mentions and
// weighs them: 3 when repeated or emphasized, 2 when stated once, 1 when
// only implied. A negation cue directly before a mention excludes the feature.
func ParseRequirements(text string, v *vocab.Vocabulary) []core.Requirement {
	if v == nil {
		v = vocab.Default()
	}
	tokens := strings.Fields(vocab.Normalize(text))

	tallies := make(map[string]*tally)
	var order []string
	for _, m := range findMentions(tokens, v) {
		t, ok := tallies[m.feature.Key]
		if !ok {
			t = &tally{feature: m.feature, first: m.start}
			tallies[m.feature.Key] = t
			order = append(order, m.feature.Key)
		}
		t.count++
		t.explicit = t.explicit || !m.implied
		t.negated = t.negated || m.negated
		t.emphasized = t.emphasized || m.emphasized
	}

	reqs := make([]core.Requirement, 0, len(order))
	for _, key := range order {
		t := tallies[key]
		req := core.Requirement{Name: t.feature.Name, Weight: core.WeightImplied, Polarity: core.Required}
		switch {
		case t.count >= 2 || t.emphasized:
			req.Weight = core.WeightEmphasized
		case t.explicit:
			req.Weight = core.WeightStated
		}
		if t.negated {
			req.Polarity = core.Excluded
		}
		reqs = append(reqs, req)
	}
	return reqs
}

// findMentions scans tokens left to right, preferring the longest phrase at
// each position and implied category phrases over direct names.
func findMentions(tokens []string, v *vocab.Vocabulary) []mention {
	var out []mention
	maxWords := v.MaxPhraseWords()

	for i := 0; i < len(tokens); {
		matched := false
		for n := min(maxWords, len(tokens)-i); n >= 1; n-- {
			phrase := strings.Join(tokens[i:i+n], " ")
			m := mention{start: i, end: i + n}
			if f, ok := v.Implied(phrase); ok {
				m.feature, m.implied = f, true
			} else if f, ok := v.Lookup(phrase); ok {
				m.feature = f
				m.implied = f.Adjective && i+n < len(tokens) && isPropertyNoun(tokens[i+n])
			} else {
				continue
			}
			m.negated = negatedAt(tokens, i)
			m.emphasized = emphasizedAt(tokens, i, i+n)
			out = append(out, m)
			i += n
			matched = true
			break
		}
		if !matched {
			i++
		}
	}
	return out
}

func negatedAt(tokens []string, start int) bool {
	j := start
	for j > 0 && negationFillers[tokens[j-1]] {
		j--
	}
	for _, cue := range negationCues {
		if j < len(cue) {
			continue
		}
		ok := true
		for k, w := range cue {
			if tokens[j-len(cue)+k] != w {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func emphasizedAt(tokens []string, start, end int) bool {
	for j := max(0, start-emphasisWindow); j < start; j++ {
		if intensifiers[tokens[j]] {
			return true
		}
	}
	return end < len(tokens) && intensifiers[tokens[end]]
}

func isPropertyNoun(token string) bool {
	return propertyNouns[token] || bhkToken.MatchString(token)
}
