package domain

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Query parameter vocabulary shared by the location and the catalog API.
const (
	ParamCustomPrice    = "custom_price"
	ParamCustomDuration = "custom_duration"
	ParamServiceID      = "service_id"
	ParamSort           = "sort"
	ParamPage           = "page"
	ParamPerPage        = "perPage"
)

// QueryParameterSet maps a query key to one or more string values.
// A key with a single empty value ("service_id=") is distinct from an absent key.
type QueryParameterSet map[string][]string

// NewQueryParameterSet returns an empty parameter set.
func NewQueryParameterSet() QueryParameterSet {
	return make(QueryParameterSet)
}

// ParseQueryString parses a raw query string such as "?page=2&sort=price".
// Malformed pairs are skipped; parsing never fails.
func ParseQueryString(raw string) QueryParameterSet {
	raw = strings.TrimSpace(raw)
	if i := strings.Index(raw, "?"); i >= 0 {
		raw = raw[i+1:]
	}
	if i := strings.Index(raw, "#"); i >= 0 {
		raw = raw[:i]
	}

	// ParseQuery keeps every well-formed pair even when it reports an error.
	values, _ := url.ParseQuery(raw) //nolint:errcheck // partial results are intended
	q := NewQueryParameterSet()
	for k, v := range values {
		q[k] = slices.Clone(v)
	}
	return q
}

// Get returns the first value for key, or "" when absent.
func (q QueryParameterSet) Get(key string) string {
	if vs := q[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Values returns all values for key.
func (q QueryParameterSet) Values(key string) []string {
	return q[key]
}

// Has reports whether key is present, even with an empty value.
func (q QueryParameterSet) Has(key string) bool {
	_, ok := q[key]
	return ok
}

// Set replaces key with a single value.
func (q QueryParameterSet) Set(key, value string) {
	q[key] = []string{value}
}

// SetList replaces key with a list of values.
func (q QueryParameterSet) SetList(key string, values []string) {
	q[key] = slices.Clone(values)
}

// SetInt replaces key with a single integer value.
func (q QueryParameterSet) SetInt(key string, value int) {
	q.Set(key, strconv.Itoa(value))
}

// Int parses the first value for key as an integer.
func (q QueryParameterSet) Int(key string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(q.Get(key)))
	if err != nil {
		return 0, false
	}
	return v, true
}

// Del removes key.
func (q QueryParameterSet) Del(key string) {
	delete(q, key)
}

// Clone returns a deep copy.
func (q QueryParameterSet) Clone() QueryParameterSet {
	out := make(QueryParameterSet, len(q))
	for k, v := range q {
		out[k] = slices.Clone(v)
	}
	return out
}

// Merge returns a copy of q overlaid with every key of other.
// Keys absent from other are retained.
func (q QueryParameterSet) Merge(other QueryParameterSet) QueryParameterSet {
	out := q.Clone()
	for k, v := range other {
		out[k] = slices.Clone(v)
	}
	return out
}

// Equal reports whether both sets hold the same keys and values in the same order.
func (q QueryParameterSet) Equal(other QueryParameterSet) bool {
	if len(q) != len(other) {
		return false
	}
	for k, v := range q {
		ov, ok := other[k]
		if !ok || !slices.Equal(v, ov) {
			return false
		}
	}
	return true
}

// Keys returns the keys in sorted order.
func (q QueryParameterSet) Keys() []string {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Encode serialises the set as a URL query string sorted by key.
func (q QueryParameterSet) Encode() string {
	return url.Values(q).Encode()
}

// String returns the encoded set with a leading "?", or "" when empty.
func (q QueryParameterSet) String() string {
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
