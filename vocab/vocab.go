// Package vocab holds the amenity vocabulary shared by query interpretation,
// extraction normalization and scoring: canonical feature names, their
// synonyms, grouped equivalents, weaker variants and acceptable alternatives.
package vocab

import (
	"strings"
	"unicode"
)

// Match strengths of a profile term against a feature.
const (
	ScoreExact       = 1.0
	ScoreEquivalent  = 1.0
	ScorePartial     = 0.7
	ScoreAlternative = 0.5
	ScoreAbsent      = 0.0
)

// Feature describes one canonical amenity.
type Feature struct {
	// Name is the display name used in match explanations, e.g. "AC".
	Name string
	// Key is the lowercase canonical key, e.g. "ac". Appliance maps are keyed by it.
	Key string
	// Synonyms are phrases meaning exactly this feature. Key is always included.
	Synonyms []string
	// Equivalents are grouped items that satisfy the feature, e.g. inverter for power backup.
	Equivalents []string
	// Partial variants satisfy the feature in a weaker form, e.g. window AC.
	Partial []string
	// Alternatives are similar but distinct items, e.g. air cooler for AC.
	Alternatives []string
	// Implies lists category phrases in a query that imply this feature.
	Implies []string
	// Adjective features ("furnished") count as implied when they directly
	// modify a property noun ("furnished flat").
	Adjective bool
}

// Vocabulary indexes a set of features by every phrase that names them.
type Vocabulary struct {
	features []Feature
	byPhrase map[string]int
	implied  map[string]int
	maxWords int
}

// New builds a vocabulary from the given features. Phrases are normalized
// with Normalize; when two features claim the same phrase the first wins.
func New(features []Feature) *Vocabulary {
	v := &Vocabulary{
		features: make([]Feature, len(features)),
		byPhrase: make(map[string]int),
		implied:  make(map[string]int),
	}
	for i, f := range features {
		f.Key = Normalize(f.Key)
		f.Synonyms = normalizeAll(append([]string{f.Key}, f.Synonyms...))
		f.Equivalents = normalizeAll(f.Equivalents)
		f.Partial = normalizeAll(f.Partial)
		f.Alternatives = normalizeAll(f.Alternatives)
		f.Implies = normalizeAll(f.Implies)
		v.features[i] = f

		for _, group := range [][]string{f.Synonyms, f.Equivalents, f.Partial} {
			for _, p := range group {
				v.index(v.byPhrase, p, i)
			}
		}
		for _, p := range f.Implies {
			v.index(v.implied, p, i)
		}
	}
	return v
}

func (v *Vocabulary) index(m map[string]int, phrase string, i int) {
	if phrase == "" {
		return
	}
	if _, taken := m[phrase]; !taken {
		m[phrase] = i
	}
	if n := len(strings.Fields(phrase)); n > v.maxWords {
		v.maxWords = n
	}
}

// Features returns the features in declaration order.
func (v *Vocabulary) Features() []Feature {
	return v.features
}

// MaxPhraseWords is the word count of the longest indexed phrase.
func (v *Vocabulary) MaxPhraseWords() int {
	return v.maxWords
}

// Lookup finds the feature named by phrase (a synonym, equivalent or partial variant).
func (v *Vocabulary) Lookup(phrase string) (*Feature, bool) {
	i, ok := v.byPhrase[Normalize(phrase)]
	if !ok {
		return nil, false
	}
	return &v.features[i], true
}

// LookupByName finds a feature by display name, key or synonym.
func (v *Vocabulary) LookupByName(name string) (*Feature, bool) {
	n := Normalize(name)
	for i := range v.features {
		if Normalize(v.features[i].Name) == n {
			return &v.features[i], true
		}
	}
	return v.Lookup(name)
}

// Implied finds the feature a category phrase implies.
func (v *Vocabulary) Implied(phrase string) (*Feature, bool) {
	i, ok := v.implied[Normalize(phrase)]
	if !ok {
		return nil, false
	}
	return &v.features[i], true
}

// Canonical maps a term to its feature key when the term is an exact
// synonym, and otherwise returns the normalized term unchanged.
func (v *Vocabulary) Canonical(term string) string {
	n := Normalize(term)
	if i, ok := v.byPhrase[n]; ok && contains(v.features[i].Synonyms, n) {
		return v.features[i].Key
	}
	return n
}

// Availability scores how well one profile term satisfies f.
// A partial variant is checked before the synonyms it contains, so
// "window ac" scores 0.7 rather than matching "ac" exactly.
func (f *Feature) Availability(term string) float64 {
	t := Normalize(term)
	if t == "" {
		return ScoreAbsent
	}
	switch {
	case containsAnyPhrase(t, f.Partial):
		return ScorePartial
	case containsAnyPhrase(t, f.Synonyms):
		return ScoreExact
	case containsAnyPhrase(t, f.Equivalents):
		return ScoreEquivalent
	case containsAnyPhrase(t, f.Alternatives):
		return ScoreAlternative
	default:
		return ScoreAbsent
	}
}

// BestAvailability returns the highest Availability over terms.
func (f *Feature) BestAvailability(terms []string) float64 {
	best := ScoreAbsent
	for _, term := range terms {
		if s := f.Availability(term); s > best {
			best = s
			if best == ScoreExact {
				break
			}
		}
	}
	return best
}

// Normalize lowercases s, replaces every non-alphanumeric rune with a space
// and collapses runs of spaces, so "A/C" and "a c" compare equal.
func Normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

// ContainsPhrase reports whether phrase occurs in text on word boundaries.
// Both arguments must already be normalized.
func ContainsPhrase(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	return strings.Contains(" "+text+" ", " "+phrase+" ")
}

func containsAnyPhrase(text string, phrases []string) bool {
	for _, p := range phrases {
		if ContainsPhrase(text, p) {
			return true
		}
	}
	return false
}

func normalizeAll(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if n := Normalize(s); n != "" && !contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
