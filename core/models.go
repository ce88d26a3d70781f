package core

import (
	"encoding/binary"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// PropertyID is the opaque, stable identifier of a registered property.
type PropertyID string

// NewPropertyID mints a fresh random property identifier.
func NewPropertyID() PropertyID {
	return PropertyID(uuid.NewString())
}

// HashContent generates a deterministic 64-bit digest of text using BLAKE2b hashing.
// Identical content always produces identical digests.
func HashContent(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// SourceKind identifies the medium an extraction was derived from.
type SourceKind int

const (
	// SourceKindImage is a still photograph of the property.
	SourceKindImage SourceKind = iota + 1
	// SourceKindVideo is a walkthrough video.
	SourceKindVideo
	// SourceKindText is a free-text listing or description.
	SourceKindText
)

// String returns the lowercase name of the kind.
func (k SourceKind) String() string {
	switch k {
	case SourceKindImage:
		return "image"
	case SourceKindVideo:
		return "video"
	case SourceKindText:
		return "text"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParseSourceKind converts a name produced by String back into a SourceKind.
func ParseSourceKind(s string) (SourceKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "image", "photo", "picture":
		return SourceKindImage, true
	case "video":
		return SourceKindVideo, true
	case "text", "description", "listing":
		return SourceKindText, true
	default:
		return 0, false
	}
}

// SourceProfile is what one source (one image, one video, one text blob)
// reported about a property after normalization.
type SourceProfile struct {
	Kind       SourceKind
	Rooms      []string
	Features   []string
	Amenities  []string
	Appliances map[string]int // appliance name -> observed count

	Name           string
	Summary        string
	PropertyType   string
	Layout         string
	Condition      string
	Rules          string
	Contact        string
	Location       string
	Price          string
	AdditionalInfo string
}

// SourceResult is the outcome of normalizing one extraction. It is either
// Parsed, carrying a SourceProfile, or Unparsed, carrying the raw text the
// oracle produced.
type SourceResult struct {
	Kind    SourceKind
	Profile *SourceProfile
	RawText string
}

// Parsed wraps a successfully normalized profile.
func Parsed(kind SourceKind, profile *SourceProfile) SourceResult {
	if profile != nil {
		profile.Kind = kind
	}
	return SourceResult{Kind: kind, Profile: profile}
}

// Unparsed wraps oracle output that could not be turned into a profile.
func Unparsed(kind SourceKind, raw string) SourceResult {
	return SourceResult{Kind: kind, RawText: raw}
}

// IsParsed reports whether the result carries a profile.
func (r SourceResult) IsParsed() bool {
	return r.Profile != nil
}

// Fallback returns the object recorded for an unparsed extraction.
// The raw text is kept under both keys so downstream display code can show it.
func (r SourceResult) Fallback() map[string]string {
	return map[string]string{
		"raw_output":  r.RawText,
		"description": r.RawText,
	}
}

// PropertyProfile is the canonical, merged view of one property.
type PropertyProfile struct {
	ID         PropertyID
	Rooms      []string
	Features   []string
	Amenities  []string
	Appliances map[string]int

	Name           string
	Summary        string
	PropertyType   string
	Layout         string
	Condition      string
	Rules          string
	Contact        string
	Location       string
	Price          string
	AdditionalInfo string

	SourceCount int    // parsed sources merged into this profile
	Fingerprint uint64 // digest of the merged content, see ComputeFingerprint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Terms returns every searchable feature term of the profile: rooms,
// features, amenities and appliances with a positive count.
func (p *PropertyProfile) Terms() []string {
	terms := make([]string, 0, len(p.Rooms)+len(p.Features)+len(p.Amenities)+len(p.Appliances))
	terms = append(terms, p.Rooms...)
	terms = append(terms, p.Features...)
	terms = append(terms, p.Amenities...)
	for _, name := range slices.Sorted(maps.Keys(p.Appliances)) {
		if p.Appliances[name] > 0 {
			terms = append(terms, name)
		}
	}
	return terms
}

// Document renders the profile as the text that is embedded for similarity retrieval.
func (p *PropertyProfile) Document() string {
	var sb strings.Builder
	line := func(label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(value)
		sb.WriteByte('\n')
	}
	list := func(label string, values []string) {
		line(label, strings.Join(values, ", "))
	}

	line("Name", p.Name)
	line("Type", p.PropertyType)
	line("Location", p.Location)
	line("Price", p.Price)
	line("Summary", p.Summary)
	list("Rooms", p.Rooms)
	list("Features", p.Features)
	list("Amenities", p.Amenities)
	if len(p.Appliances) > 0 {
		names := slices.Sorted(maps.Keys(p.Appliances))
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, name+" x"+strconv.Itoa(p.Appliances[name]))
		}
		list("Appliances", parts)
	}
	line("Layout", p.Layout)
	line("Condition", p.Condition)
	line("Rules", p.Rules)
	line("Additional", p.AdditionalInfo)
	return strings.TrimSpace(sb.String())
}

// ComputeFingerprint digests the merged content of the profile. Identity and
// timestamps are excluded, so re-registering unchanged sources yields the same value.
func (p *PropertyProfile) ComputeFingerprint() uint64 {
	return HashContent(p.Document() + "\x00" + p.Contact)
}
