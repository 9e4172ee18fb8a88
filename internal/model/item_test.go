package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemTruthy(t *testing.T) {
	it := Item{
		"t_true":  true,
		"t_false": false,
		"t_one":   float64(1),
		"t_zero":  float64(0),
		"t_str":   "creating",
		"t_empty": "",
		"t_nil":   nil,
		"t_list":  []any{},
	}

	assert.True(t, it.Truthy("t_true"))
	assert.False(t, it.Truthy("t_false"))
	assert.True(t, it.Truthy("t_one"))
	assert.False(t, it.Truthy("t_zero"))
	assert.True(t, it.Truthy("t_str"))
	assert.False(t, it.Truthy("t_empty"))
	assert.False(t, it.Truthy("t_nil"))
	assert.True(t, it.Truthy("t_list"))
	assert.False(t, it.Truthy("missing"))
}

func TestItemID(t *testing.T) {
	assert.Equal(t, "i-123", Item{"id": "i-123", "name": "web"}.ID())
	assert.Equal(t, "logs", Item{"bucket_name": "logs"}.ID())
	assert.Equal(t, "web", Item{"id": "", "name": "web"}.ID())
	assert.Equal(t, "", Item{}.ID())
}

func TestItemText(t *testing.T) {
	it := Item{
		"name":   "web-1",
		"size":   float64(10),
		"groups": []any{map[string]any{"name": "default"}, map[string]any{"name": "ssh"}},
		"tags":   map[string]any{"env": "prod"},
	}
	assert.Equal(t, "web-1", it.Text("name"))
	assert.Equal(t, "10", it.Text("size"))
	assert.Equal(t, "default, ssh", it.Text("groups"))
	assert.Equal(t, "env=prod", it.Text("tags"))
	assert.Equal(t, "", it.Text("missing"))
}

func TestEnvelopeItems(t *testing.T) {
	env := &Envelope{Results: []byte(`[{"name":"a"},null,{"name":"b"}]`)}
	items := env.Items()
	assert.Len(t, items, 2)
	assert.Equal(t, "b", items[1].ID())

	assert.Empty(t, (&Envelope{}).Items())
	assert.Empty(t, (&Envelope{Results: []byte(`{"name":"a"}`)}).Items())
	assert.NotNil(t, (*Envelope)(nil).Items())

	obj := (&Envelope{Results: []byte(`{"object_count":3}`)}).Object()
	assert.Equal(t, float64(3), obj["object_count"])
}

func TestSortItems(t *testing.T) {
	items := []Item{
		{"name": "beta", "size": float64(20)},
		{"name": "Alpha", "size": float64(5)},
		{"size": float64(1)},
		{"name": "gamma", "size": float64(100)},
	}

	byName := SortItems(items, "name")
	assert.Equal(t, []string{"Alpha", "beta", "gamma", ""}, names(byName))

	byNameDesc := SortItems(items, "-name")
	assert.Equal(t, []string{"gamma", "beta", "Alpha", ""}, names(byNameDesc))

	bySize := SortItems(items, "size")
	assert.Equal(t, float64(1), bySize[0]["size"])
	assert.Equal(t, float64(100), bySize[3]["size"])

	// input untouched
	assert.Equal(t, "beta", items[0]["name"])
}

func TestDisplayWindowGrow(t *testing.T) {
	w := NewDisplayWindow(100)
	assert.Equal(t, 100, w.Grow(50).Limit)
	assert.Equal(t, 150, w.Grow(150).Limit)
	assert.Equal(t, 200, w.Grow(1000).Limit)
	assert.Equal(t, 300, w.Grow(1000).Grow(1000).Limit)
}

func TestParseDisplayMode(t *testing.T) {
	assert.Equal(t, DisplayGrid, ParseDisplayMode("gridview"))
	assert.Equal(t, DisplayTable, ParseDisplayMode("tableview"))
	assert.Equal(t, DisplayTable, ParseDisplayMode(""))
	assert.Equal(t, "gridview", DisplayGrid.String())
	assert.Equal(t, DisplayGrid, DisplayTable.Toggle())
}

func names(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Text("name"))
	}
	return out
}
