package core

import (
	"errors"
	"maps"
	"slices"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// ErrMalformedRecord is returned when encoded bytes do not describe a valid record.
var ErrMalformedRecord = errors.New("malformed record")

// PropertyProfileMUS serializes PropertyProfile values in MUS format.
// Timestamps are stored as Unix microseconds.
var PropertyProfileMUS = propertyProfileMUS{}

// SearchLogEntryMUS serializes SearchLogEntry values in MUS format.
var SearchLogEntryMUS = searchLogEntryMUS{}

type propertyProfileMUS struct{}

func (propertyProfileMUS) Marshal(v PropertyProfile, bs []byte) (n int) {
	w := musWriter{bs: bs}
	w.string(string(v.ID))
	w.strings(v.Rooms)
	w.strings(v.Features)
	w.strings(v.Amenities)
	w.counts(v.Appliances)
	w.string(v.Name)
	w.string(v.Summary)
	w.string(v.PropertyType)
	w.string(v.Layout)
	w.string(v.Condition)
	w.string(v.Rules)
	w.string(v.Contact)
	w.string(v.Location)
	w.string(v.Price)
	w.string(v.AdditionalInfo)
	w.int(v.SourceCount)
	w.uint64(v.Fingerprint)
	w.time(v.CreatedAt)
	w.time(v.UpdatedAt)
	return w.n
}

func (propertyProfileMUS) Unmarshal(bs []byte) (v PropertyProfile, n int, err error) {
	r := musReader{bs: bs}
	v.ID = PropertyID(r.string())
	v.Rooms = r.strings()
	v.Features = r.strings()
	v.Amenities = r.strings()
	v.Appliances = r.counts()
	v.Name = r.string()
	v.Summary = r.string()
	v.PropertyType = r.string()
	v.Layout = r.string()
	v.Condition = r.string()
	v.Rules = r.string()
	v.Contact = r.string()
	v.Location = r.string()
	v.Price = r.string()
	v.AdditionalInfo = r.string()
	v.SourceCount = r.int()
	v.Fingerprint = r.uint64()
	v.CreatedAt = r.time()
	v.UpdatedAt = r.time()
	return v, r.n, r.err
}

func (propertyProfileMUS) Size(v PropertyProfile) (size int) {
	size += ord.String.Size(string(v.ID))
	size += stringsSize(v.Rooms)
	size += stringsSize(v.Features)
	size += stringsSize(v.Amenities)
	size += countsSize(v.Appliances)
	for _, s := range []string{v.Name, v.Summary, v.PropertyType, v.Layout, v.Condition,
		v.Rules, v.Contact, v.Location, v.Price, v.AdditionalInfo} {
		size += ord.String.Size(s)
	}
	size += varint.Int.Size(v.SourceCount)
	size += varint.Uint64.Size(v.Fingerprint)
	size += timeSize(v.CreatedAt)
	size += timeSize(v.UpdatedAt)
	return size
}

type searchLogEntryMUS struct{}

func (searchLogEntryMUS) Marshal(v SearchLogEntry, bs []byte) (n int) {
	w := musWriter{bs: bs}
	w.string(v.Query)
	w.int(v.Results)
	w.bool(v.NoMatch)
	w.time(v.Timestamp)
	return w.n
}

func (searchLogEntryMUS) Unmarshal(bs []byte) (v SearchLogEntry, n int, err error) {
	r := musReader{bs: bs}
	v.Query = r.string()
	v.Results = r.int()
	v.NoMatch = r.bool()
	v.Timestamp = r.time()
	return v, r.n, r.err
}

func (searchLogEntryMUS) Size(v SearchLogEntry) int {
	return ord.String.Size(v.Query) + varint.Int.Size(v.Results) + ord.Bool.Size(v.NoMatch) + timeSize(v.Timestamp)
}

// musWriter appends fields to a buffer sized by the matching Size call.
type musWriter struct {
	bs []byte
	n  int
}

func (w *musWriter) string(s string) { w.n += ord.String.Marshal(s, w.bs[w.n:]) }
func (w *musWriter) int(i int)       { w.n += varint.Int.Marshal(i, w.bs[w.n:]) }
func (w *musWriter) bool(b bool)     { w.n += ord.Bool.Marshal(b, w.bs[w.n:]) }
func (w *musWriter) uint64(u uint64) { w.n += varint.Uint64.Marshal(u, w.bs[w.n:]) }

func (w *musWriter) time(t time.Time) {
	var micros int64
	if !t.IsZero() {
		micros = t.UnixMicro()
	}
	w.n += varint.Int64.Marshal(micros, w.bs[w.n:])
}

func (w *musWriter) strings(list []string) {
	w.int(len(list))
	for _, s := range list {
		w.string(s)
	}
}

// counts writes map entries in key order so equal maps encode identically.
func (w *musWriter) counts(m map[string]int) {
	w.int(len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		w.string(k)
		w.int(m[k])
	}
}

// musReader consumes fields in order and remembers the first error.
type musReader struct {
	bs  []byte
	n   int
	err error
}

func (r *musReader) string() string {
	if r.err != nil {
		return ""
	}
	v, n, err := ord.String.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *musReader) int() int {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Int.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *musReader) bool() bool {
	if r.err != nil {
		return false
	}
	v, n, err := ord.Bool.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *musReader) uint64() uint64 {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Uint64.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *musReader) time() time.Time {
	if r.err != nil {
		return time.Time{}
	}
	micros, n, err := varint.Int64.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	if err != nil || micros == 0 {
		return time.Time{}
	}
	return time.UnixMicro(micros).UTC()
}

func (r *musReader) length() int {
	l := r.int()
	if r.err == nil && (l < 0 || l > len(r.bs)-r.n) {
		r.err = ErrMalformedRecord
		return 0
	}
	return l
}

func (r *musReader) strings() []string {
	l := r.length()
	if r.err != nil || l == 0 {
		return nil
	}
	list := make([]string, 0, l)
	for i := 0; i < l && r.err == nil; i++ {
		list = append(list, r.string())
	}
	return list
}

func (r *musReader) counts() map[string]int {
	l := r.length()
	if r.err != nil || l == 0 {
		return nil
	}
	m := make(map[string]int, l)
	for i := 0; i < l && r.err == nil; i++ {
		k := r.string()
		m[k] = r.int()
	}
	return m
}

func stringsSize(list []string) int {
	size := varint.Int.Size(len(list))
	for _, s := range list {
		size += ord.String.Size(s)
	}
	return size
}

func countsSize(m map[string]int) int {
	size := varint.Int.Size(len(m))
	for k, v := range m {
		size += ord.String.Size(k) + varint.Int.Size(v)
	}
	return size
}

func timeSize(t time.Time) int {
	var micros int64
	if !t.IsZero() {
		micros = t.UnixMicro()
	}
	return varint.Int64.Size(micros)
}
