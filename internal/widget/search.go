package widget

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/yourusername/console-landing/internal/events"
	"go.uber.org/zap"
)

// SearchBar turns operator input into the search events a landing page
// listens for.
type SearchBar struct {
	bus    *events.Bus
	keys   []string
	logger *zap.Logger
}

// NewSearchBar creates a search bar searching keys
func NewSearchBar(bus *events.Bus, keys []string, logger *zap.Logger) *SearchBar {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchBar{
		bus:    bus,
		keys:   append([]string(nil), keys...),
		logger: logger,
	}
}

// Text publishes a free-text search
func (s *SearchBar) Text(text string) {
	s.bus.Publish(events.TextSearch{Text: text, Keys: append([]string(nil), s.keys...)})
}

// Facets parses a structured filter and publishes it as a query string.
// An empty input clears the filter.
func (s *SearchBar) Facets(input string) (string, error) {
	values, err := ParseFacets(input)
	if err != nil {
		return "", err
	}
	query := values.Encode()
	s.logger.Debug("Publishing structured filter", zap.String("query", query))
	s.bus.Publish(events.SearchUpdated{Query: query})
	return query, nil
}

// ParseFacets reads "key=value" or "key:value" tokens separated by spaces
// or '&'. Repeated keys accumulate values.
func ParseFacets(input string) (url.Values, error) {
	values := url.Values{}
	tokens := strings.FieldsFunc(input, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '&'
	})
	for _, tok := range tokens {
		i := strings.IndexAny(tok, "=:")
		if i <= 0 || i == len(tok)-1 {
			return nil, fmt.Errorf("invalid facet %q: expected key=value", tok)
		}
		values.Add(tok[:i], tok[i+1:])
	}
	return values, nil
}
