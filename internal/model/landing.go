package model

// DisplayMode is the landing page layout
type DisplayMode int

const (
	DisplayTable DisplayMode = iota
	DisplayGrid
)

// Persisted values of the display mode
const (
	TableViewValue = "tableview"
	GridViewValue  = "gridview"
)

func (d DisplayMode) String() string {
	if d == DisplayGrid {
		return GridViewValue
	}
	return TableViewValue
}

// ParseDisplayMode parses a persisted display mode, defaulting to table
func ParseDisplayMode(s string) DisplayMode {
	if s == GridViewValue {
		return DisplayGrid
	}
	return DisplayTable
}

// Toggle returns the other display mode
func (d DisplayMode) Toggle() DisplayMode {
	if d == DisplayGrid {
		return DisplayTable
	}
	return DisplayGrid
}

// FilterState holds the free-text filter. FilterKeys names the item fields
// searched, in order, and is kept until replaced by a non-empty list.
type FilterState struct {
	SearchText string
	FilterKeys []string
}

// ViewPreference is persisted per resource key
type ViewPreference struct {
	SortBy      string
	DisplayMode DisplayMode
}

// DisplayWindow controls how many visible items are rendered before a
// "show more" affordance appears.
type DisplayWindow struct {
	Limit     int
	Increment int
}

// NewDisplayWindow returns a window showing pageSize items at a time
func NewDisplayWindow(pageSize int) DisplayWindow {
	if pageSize <= 0 {
		pageSize = 100
	}
	return DisplayWindow{Limit: pageSize, Increment: pageSize}
}

// Grow widens the window by one increment, never past total
func (w DisplayWindow) Grow(total int) DisplayWindow {
	if w.Limit >= total {
		return w
	}
	w.Limit += w.Increment
	if w.Limit > total {
		w.Limit = total
	}
	return w
}
