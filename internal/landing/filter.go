package landing

import (
	"sort"
	"strings"

	"github.com/yourusername/console-landing/internal/model"
)

// filterItems returns the items for which at least one of keys
// case-insensitively contains text. Empty text returns items unchanged.
func filterItems(items []model.Item, text string, keys []string) []model.Item {
	needle := strings.ToLower(text)
	if needle == "" {
		return items
	}

	filtered := make([]model.Item, 0, len(items))
	for _, item := range items {
		if itemMatches(item, needle, keys) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func itemMatches(item model.Item, needle string, keys []string) bool {
	for _, key := range keys {
		v, ok := item.Field(key)
		if !ok {
			continue
		}
		if fieldMatches(v, needle) {
			return true
		}
	}
	return false
}

// fieldMatches tests a single field. Strings match directly; collections of
// objects match on their space-joined "name" values. Other values never match.
func fieldMatches(v any, needle string) bool {
	switch t := v.(type) {
	case string:
		return t != "" && strings.Contains(strings.ToLower(t), needle)
	case []any:
		var b strings.Builder
		for _, e := range t {
			appendName(&b, e)
		}
		return strings.Contains(strings.ToLower(b.String()), needle)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, k := range keys {
			appendName(&b, t[k])
		}
		return strings.Contains(strings.ToLower(b.String()), needle)
	default:
		return false
	}
}

func appendName(b *strings.Builder, v any) {
	obj, ok := v.(map[string]any)
	if !ok {
		return
	}
	name, ok := obj["name"]
	if !ok {
		return
	}
	b.WriteString(model.Item{"name": name}.Text("name"))
	b.WriteByte(' ')
}
