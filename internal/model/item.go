package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Item is a single resource record as returned by the console backend
// (an instance, a bucket, a volume, ...). Its attributes are defined by the
// backend; the client only relies on a few conventional fields.
type Item map[string]any

// Conventional item fields
const (
	FieldTransitional = "transitional"
	FieldID           = "id"
	FieldName         = "name"
)

// idFields are tried in order when looking for an item's identifier
var idFields = []string{"id", "bucket_name", "name", "user_name", "group_name"}

// Field returns the raw value of a field and whether it is present
func (i Item) Field(name string) (any, bool) {
	if i == nil {
		return nil, false
	}
	v, ok := i[name]
	return v, ok
}

// Truthy reports whether a field holds a truthy value. Missing fields, null,
// false, zero and the empty string are falsy; everything else is truthy.
func (i Item) Truthy(name string) bool {
	v, ok := i.Field(name)
	if !ok {
		return false
	}
	return truthy(v)
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

// Transitional reports whether the item's state is still changing
func (i Item) Transitional() bool {
	return i.Truthy(FieldTransitional)
}

// ID returns the item's identifier, falling back through the usual
// identifying fields of the console's resources.
func (i Item) ID() string {
	for _, f := range idFields {
		if s, ok := i[f].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Text renders a field for display. Collections of named objects are shown
// as a comma separated list of names.
func (i Item) Text(name string) string {
	v, ok := i.Field(name)
	if !ok || v == nil {
		return ""
	}
	return formatValue(v)
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if n, ok := objectName(e); ok {
				parts = append(parts, n)
				continue
			}
			parts = append(parts, formatValue(e))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		if n, ok := t["name"].(string); ok {
			return n
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+formatValue(t[k]))
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(t)
	}
}

// objectName returns the "name" property of an object value
func objectName(v any) (string, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	n, ok := obj["name"]
	if !ok {
		return "", false
	}
	return fmt.Sprint(n), true
}

// Envelope is the wrapper all console JSON responses use: results on
// success, message on error.
type Envelope struct {
	Results json.RawMessage `json:"results,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Items decodes the results as an item list. A missing or malformed results
// value yields an empty list.
func (e *Envelope) Items() []Item {
	if e == nil || len(e.Results) == 0 {
		return []Item{}
	}
	var items []Item
	if err := json.Unmarshal(e.Results, &items); err != nil {
		return []Item{}
	}
	out := items[:0]
	for _, it := range items {
		if it != nil {
			out = append(out, it)
		}
	}
	return out
}

// Object decodes the results as a single object (detail endpoints)
func (e *Envelope) Object() Item {
	if e == nil || len(e.Results) == 0 {
		return Item{}
	}
	var obj Item
	if err := json.Unmarshal(e.Results, &obj); err != nil || obj == nil {
		return Item{}
	}
	return obj
}
