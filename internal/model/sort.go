package model

import (
	"encoding/json"
	"sort"
	"strings"
)

// SortItems returns a stably ordered copy of items. A leading "-" on key
// sorts descending. Numbers compare numerically, strings case-insensitively,
// and items missing the field go last in either direction.
func SortItems(items []Item, key string) []Item {
	sorted := make([]Item, len(items))
	copy(sorted, items)

	desc := false
	if strings.HasPrefix(key, "-") {
		desc = true
		key = key[1:]
	} else if strings.HasPrefix(key, "+") {
		key = key[1:]
	}
	if key == "" {
		return sorted
	}

	sort.SliceStable(sorted, func(a, b int) bool {
		va, okA := sortValue(sorted[a], key)
		vb, okB := sortValue(sorted[b], key)
		switch {
		case !okA && !okB:
			return false
		case !okA:
			return false
		case !okB:
			return true
		}
		c := compareValues(va, vb)
		if desc {
			return c > 0
		}
		return c < 0
	})
	return sorted
}

func sortValue(it Item, key string) (any, bool) {
	v, ok := it.Field(key)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// compareValues orders values of mixed types: numbers before booleans before
// strings before anything else.
func compareValues(a, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case 0:
		fa, fb := toFloat(a), toFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case 1:
		ba, bb := a.(bool), b.(bool)
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		}
		return 1
	default:
		return strings.Compare(strings.ToLower(formatValue(a)), strings.ToLower(formatValue(b)))
	}
}

func typeRank(v any) int {
	switch v.(type) {
	case float64, int, int64, json.Number:
		return 0
	case bool:
		return 1
	case string:
		return 2
	default:
		return 3
	}
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, _ := t.Float64()
		return f
	}
	return 0
}
