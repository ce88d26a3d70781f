package extraction

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/poiesic/propmatch/core"
	"github.com/poiesic/propmatch/vocab"
)

// field identifies a SourceProfile field an oracle key maps to.
type field int

const (
	fieldNone field = iota
	fieldName
	fieldSummary
	fieldPropertyType
	fieldLocation
	fieldPrice
	fieldRooms
	fieldAppliances
	fieldFeatures
	fieldAmenities
	fieldLayout
	fieldCondition
	fieldRules
	fieldContact
	fieldAdditional
)

// keyAliases maps normalized oracle keys to profile fields. The synthesis
// prompt's longer key names and the listing prompt's rent/address keys are
// accepted alongside the short ones.
var keyAliases = map[string]field{
	"name":                   fieldName,
	"property_name":          fieldName,
	"title":                  fieldName,
	"summary":                fieldSummary,
	"property_summary":       fieldSummary,
	"description":            fieldSummary,
	"property_type":          fieldPropertyType,
	"type":                   fieldPropertyType,
	"location":               fieldLocation,
	"property_location":      fieldLocation,
	"address":                fieldLocation,
	"price":                  fieldPrice,
	"rent":                   fieldPrice,
	"rooms":                  fieldRooms,
	"appliances":             fieldAppliances,
	"features":               fieldFeatures,
	"key_features":           fieldFeatures,
	"amenities":              fieldAmenities,
	"layout":                 fieldLayout,
	"layout_and_condition":   fieldLayout,
	"condition":              fieldCondition,
	"rules":                  fieldRules,
	"rules_and_restrictions": fieldRules,
	"contact":                fieldContact,
	"contact_info":           fieldContact,
	"additional_info":        fieldAdditional,
}

// extraNotes are known keys without a profile field of their own; their
// values are appended to AdditionalInfo under a label.
var extraNotes = map[string]string{
	"location_insights": "Location",
	"location_benefits": "Location",
	"brokerage":         "Brokerage",
	"space_quality":     "Space",
	"deposit":           "Deposit",
	"security_deposit":  "Deposit",
	"maintenance":       "Maintenance",
}

// placeholders are filler answers that mean "nothing known".
var placeholders = map[string]bool{
	"":                            true,
	"n/a":                         true,
	"na":                          true,
	"none":                        true,
	"null":                        true,
	"unknown":                     true,
	"not specified":               true,
	"none specified":              true,
	"not available":               true,
	"not mentioned":               true,
	"not provided":                true,
	"information not available":   true,
	"contact details not provided": true,
	"-":                           true,
}

// Normalizer coerces oracle answers into source results.
type Normalizer struct {
	vocabulary *vocab.Vocabulary
	logger     *slog.Logger
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithNormalizerVocabulary sets the vocabulary used to canonicalize appliance names.
func WithNormalizerVocabulary(v *vocab.Vocabulary) NormalizerOption {
	return func(n *Normalizer) {
		if v != nil {
			n.vocabulary = v
		}
	}
}

// WithNormalizerLogger sets a custom logger.
func WithNormalizerLogger(logger *slog.Logger) NormalizerOption {
	return func(n *Normalizer) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// NewNormalizer creates a normalizer using the built-in vocabulary unless overridden.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		vocabulary: vocab.Default(),
		logger:     slog.Default().With("component", "extraction-normalizer"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

var defaultNormalizer = &Normalizer{vocabulary: vocab.Default(), logger: slog.Default()}

// Normalize coerces raw into a parsed source result using the built-in vocabulary.
func Normalize(kind core.SourceKind, raw string) core.SourceResult {
	return defaultNormalizer.Normalize(kind, raw)
}

// Normalize coerces raw into a parsed source result. Anything that cannot be
// read as a JSON object with well-typed fields yields Unparsed carrying the
// fence-stripped text.
func (n *Normalizer) Normalize(kind core.SourceKind, raw string) core.SourceResult {
	stripped := stripFences(raw)

	var obj map[string]any
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &obj); err != nil || obj == nil {
		n.logger.Warn("oracle response is not a JSON object", "kind", kind, "err", err, "length", len(raw))
		return core.Unparsed(kind, stripped)
	}

	profile, err := n.profileFrom(obj)
	if err != nil {
		n.logger.Warn("oracle response has unexpected shape", "kind", kind, "err", err)
		return core.Unparsed(kind, stripped)
	}
	profile.Kind = kind
	if err := core.ValidateSourceProfile(profile); err != nil {
		n.logger.Warn("oracle response failed validation", "kind", kind, "err", err)
		return core.Unparsed(kind, stripped)
	}
	return core.Parsed(kind, profile)
}

func (n *Normalizer) profileFrom(obj map[string]any) (*core.SourceProfile, error) {
	p := &core.SourceProfile{}
	var notes []string

	// sorted keys keep aliased duplicates deterministic
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, rawKey := range keys {
		value := obj[rawKey]
		key := normalizeKey(rawKey)

		if label, ok := extraNotes[key]; ok {
			if s := scalarText(value); s != "" {
				notes = append(notes, label+": "+s)
			}
			continue
		}

		f, ok := keyAliases[key]
		if !ok {
			n.logger.Debug("ignoring unknown oracle key", "key", rawKey)
			continue
		}

		switch f {
		case fieldRooms:
			p.Rooms = mergeTerms(p.Rooms, listTerms(value))
		case fieldFeatures:
			p.Features = mergeTerms(p.Features, listTerms(value))
		case fieldAmenities:
			p.Amenities = mergeTerms(p.Amenities, listTerms(value))
		case fieldAppliances:
			counts, err := n.applianceCounts(value)
			if err != nil {
				return nil, fmt.Errorf("appliances: %w", err)
			}
			p.Appliances = counts
		default:
			setScalar(p, f, scalarText(value))
		}
	}

	if len(notes) > 0 {
		p.AdditionalInfo = strings.Join(append(nonEmpty(p.AdditionalInfo), notes...), "; ")
	}
	return p, nil
}

func setScalar(p *core.SourceProfile, f field, s string) {
	if s == "" {
		return
	}
	target := map[field]*string{
		fieldName:         &p.Name,
		fieldSummary:      &p.Summary,
		fieldPropertyType: &p.PropertyType,
		fieldLocation:     &p.Location,
		fieldPrice:        &p.Price,
		fieldLayout:       &p.Layout,
		fieldCondition:    &p.Condition,
		fieldRules:        &p.Rules,
		fieldContact:      &p.Contact,
		fieldAdditional:   &p.AdditionalInfo,
	}[f]
	if target == nil {
		return
	}
	if *target == "" {
		*target = s
	} else {
		*target += "; " + s
	}
}

// applianceCounts reads an appliance object. Keys are canonicalized through
// the vocabulary ("air_conditioner" -> "ac"); when two keys land on the same
// canonical name the larger count is kept, since both describe the same
// items. Non-positive counts are dropped. A list of names counts one each.
func (n *Normalizer) applianceCounts(value any) (map[string]int, error) {
	counts := make(map[string]int)
	add := func(name string, count int) {
		key := n.vocabulary.Canonical(strings.ReplaceAll(name, "_", " "))
		if key == "" || count <= 0 {
			return
		}
		if count > counts[key] {
			counts[key] = count
		}
	}

	switch v := value.(type) {
	case nil:
	case map[string]any:
		for name, raw := range v {
			count, ok := toCount(raw)
			if !ok {
				return nil, fmt.Errorf("count for %q is %T", name, raw)
			}
			add(name, count)
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				add(s, 1)
			}
		}
	default:
		return nil, fmt.Errorf("expected object, got %T", value)
	}

	if len(counts) == 0 {
		return nil, nil
	}
	return counts, nil
}

func toCount(v any) (int, bool) {
	switch c := v.(type) {
	case float64:
		return int(math.Round(c)), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(c))
		return i, err == nil
	case bool:
		if c {
			return 1, true
		}
		return 0, true
	case nil:
		return 0, true
	default:
		return 0, false
	}
}

// listTerms reads a list field. A comma separated string is accepted as a list.
func listTerms(value any) []string {
	var items []string
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if s := scalarText(item); s != "" {
				items = append(items, s)
			}
		}
	case string:
		items = strings.Split(v, ",")
	}

	terms := make([]string, 0, len(items))
	for _, item := range items {
		if t := normalizeTerm(item); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// scalarText renders a JSON value as display text, mapping placeholders to "".
func scalarText(value any) string {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if t := scalarText(item); t != "" {
				parts = append(parts, t)
			}
		}
		s = strings.Join(parts, ", ")
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if t := scalarText(v[k]); t != "" {
				parts = append(parts, k+": "+t)
			}
		}
		s = strings.Join(parts, ", ")
	}
	s = strings.TrimSpace(s)
	if placeholders[strings.ToLower(s)] {
		return ""
	}
	return s
}

// normalizeTerm lowercases a set member and turns snake_case into words.
func normalizeTerm(s string) string {
	s = strings.ToLower(strings.ReplaceAll(s, "_", " "))
	s = strings.Join(strings.Fields(s), " ")
	if placeholders[s] {
		return ""
	}
	return s
}

func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(k)
}

func mergeTerms(a, b []string) []string {
	out := append(slices.Clone(a), b...)
	slices.Sort(out)
	return slices.Compact(out)
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}
