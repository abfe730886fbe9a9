package domain

import (
	"slices"
	"strconv"
	"strings"
)

// Bound prefixes used inside custom_price and custom_duration values.
const (
	boundGTE = "gte:"
	boundLTE = "lte:"
)

// Default filter bounds presented by a fresh filter form.
const (
	DefaultPriceMin    = 10
	DefaultPriceMax    = 2000
	DefaultDurationMin = 5
	DefaultDurationMax = 120
)

// Range is an optional numeric interval. A nil bound means "no filter".
// Min <= Max is not enforced.
type Range struct {
	Min *int
	Max *int
}

// FilterState holds the catalog criteria selected by the user.
type FilterState struct {
	// Price bounds the service price.
	Price Range

	// Duration bounds the appointment duration in minutes.
	Duration Range

	// TemplateIDs restricts results to these service templates.
	// Treated as a set: sorted and de-duplicated.
	TemplateIDs []int

	// Sort is the backend sort key, empty for default order.
	Sort string
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// DefaultFilterState returns the filter form's initial values.
func DefaultFilterState() FilterState {
	return FilterState{
		Price:    Range{Min: IntPtr(DefaultPriceMin), Max: IntPtr(DefaultPriceMax)},
		Duration: Range{Min: IntPtr(DefaultDurationMin), Max: IntPtr(DefaultDurationMax)},
	}
}

// Equal reports whether two ranges hold the same bounds.
func (r Range) Equal(o Range) bool {
	return equalBound(r.Min, o.Min) && equalBound(r.Max, o.Max)
}

// Clone returns a copy that shares no pointers with r.
func (r Range) Clone() Range {
	return Range{Min: cloneBound(r.Min), Max: cloneBound(r.Max)}
}

// Equal reports whether two filter states are equivalent.
func (f FilterState) Equal(o FilterState) bool {
	return f.Price.Equal(o.Price) &&
		f.Duration.Equal(o.Duration) &&
		slices.Equal(NormalizeTemplateIDs(f.TemplateIDs), NormalizeTemplateIDs(o.TemplateIDs)) &&
		f.Sort == o.Sort
}

// Clone returns a deep copy.
func (f FilterState) Clone() FilterState {
	return FilterState{
		Price:       f.Price.Clone(),
		Duration:    f.Duration.Clone(),
		TemplateIDs: slices.Clone(f.TemplateIDs),
		Sort:        f.Sort,
	}
}

// NormalizeTemplateIDs returns the ids sorted and de-duplicated.
func NormalizeTemplateIDs(ids []int) []int {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// ParseQueryParams extracts a FilterState from location parameters.
// It never fails: missing or malformed values degrade to nil bounds,
// an empty template set and an empty sort key.
func ParseQueryParams(params QueryParameterSet) FilterState {
	price := params.Values(ParamCustomPrice)
	duration := params.Values(ParamCustomDuration)

	return FilterState{
		Price: Range{
			Min: parseBound(price, boundGTE),
			Max: parseBound(price, boundLTE),
		},
		Duration: Range{
			Min: parseBound(duration, boundGTE),
			Max: parseBound(duration, boundLTE),
		},
		TemplateIDs: parseTemplateIDs(params.Get(ParamServiceID)),
		Sort:        params.Get(ParamSort),
	}
}

// BuildQueryParams serialises a FilterState into location parameters.
// A bound is emitted only when it is set and non-zero, so a zero bound
// is indistinguishable from no bound. service_id is always emitted,
// empty when no template is selected, so that merging clears it.
func BuildQueryParams(f FilterState) QueryParameterSet {
	params := NewQueryParameterSet()

	if tokens := boundTokens(f.Price); len(tokens) > 0 {
		params.SetList(ParamCustomPrice, tokens)
	}
	if tokens := boundTokens(f.Duration); len(tokens) > 0 {
		params.SetList(ParamCustomDuration, tokens)
	}

	ids := NormalizeTemplateIDs(f.TemplateIDs)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	params.Set(ParamServiceID, strings.Join(parts, ","))

	if f.Sort != "" {
		params.Set(ParamSort, f.Sort)
	}

	return params
}

func boundTokens(r Range) []string {
	var tokens []string
	if r.Min != nil && *r.Min != 0 {
		tokens = append(tokens, boundGTE+strconv.Itoa(*r.Min))
	}
	if r.Max != nil && *r.Max != 0 {
		tokens = append(tokens, boundLTE+strconv.Itoa(*r.Max))
	}
	return tokens
}

// parseBound returns the bound carried by the first token with prefix.
func parseBound(tokens []string, prefix string) *int {
	for _, t := range tokens {
		if !strings.HasPrefix(t, prefix) {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(t, prefix)))
		if err != nil || v < 0 {
			return nil
		}
		return &v
	}
	return nil
}

func parseTemplateIDs(raw string) []int {
	if strings.TrimSpace(raw) == "" {
		return []int{}
	}
	ids := make([]int, 0, strings.Count(raw, ",")+1)
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return NormalizeTemplateIDs(ids)
}

func equalBound(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func cloneBound(b *int) *int {
	if b == nil {
		return nil
	}
	return IntPtr(*b)
}
