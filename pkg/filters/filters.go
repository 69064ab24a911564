package filters

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Cast controls how a query value is compared against a field.
type Cast string

const (
	CastString  Cast = "string"
	CastBoolean Cast = "boolean"
	CastInt     Cast = "int"
)

// Rules declares the filterable fields of a resource, keyed by query name.
type Rules map[string]Cast

// Filter is a single parsed query constraint.
type Filter struct {
	Field string
	Cast  Cast
	Raw   string

	boolValue bool
	intValue  int64
}

// Set is the ordered collection of filters parsed from one request.
type Set []Filter

// FromQuery reads every declared field present in the query string. Unknown
// query keys are ignored. Values that cannot be cast are reported per field.
func FromQuery(query url.Values, rules Rules) (Set, map[string]string) {
	fields := make([]string, 0, len(rules))
	for field := range rules {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	set := Set{}
	invalid := map[string]string{}
	for _, field := range fields {
		raw := strings.TrimSpace(query.Get(field))
		if raw == "" {
			continue
		}
		f := Filter{Field: field, Cast: rules[field], Raw: raw}
		switch f.Cast {
		case CastBoolean:
			v, err := strconv.ParseBool(raw)
			if err != nil {
				invalid[field] = "must be a boolean"
				continue
			}
			f.boolValue = v
		case CastInt:
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				invalid[field] = "must be an integer"
				continue
			}
			f.intValue = v
		}
		set = append(set, f)
	}

	if len(invalid) == 0 {
		invalid = nil
	}
	return set, invalid
}

// Matches reports whether value satisfies the filter. Strings match on a
// case-insensitive substring; booleans and integers require equality.
func (f Filter) Matches(value any) bool {
	switch f.Cast {
	case CastBoolean:
		b, ok := value.(bool)
		return ok && b == f.boolValue
	case CastInt:
		switch v := value.(type) {
		case int:
			return int64(v) == f.intValue
		case int64:
			return v == f.intValue
		case string:
			parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			return err == nil && parsed == f.intValue
		}
		return false
	default:
		return strings.Contains(strings.ToLower(fmt.Sprint(value)), strings.ToLower(f.Raw))
	}
}

// Apply keeps the items matching every filter in the set, preserving order.
// fieldValue resolves a declared field of one item; unknown fields never match.
func Apply[T any](items []T, set Set, fieldValue func(item T, field string) (any, bool)) []T {
	if len(set) == 0 {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		keep := true
		for _, f := range set {
			value, ok := fieldValue(item, f.Field)
			if !ok || !f.Matches(value) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, item)
		}
	}
	return out
}
