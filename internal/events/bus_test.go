package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/console-landing/internal/model"
)

func TestBusDeliversByTopic(t *testing.T) {
	bus := NewBus()

	var refreshes int
	var searches []TextSearch
	On(bus, func(Refresh) { refreshes++ })
	On(bus, func(e TextSearch) { searches = append(searches, e) })

	bus.Publish(Refresh{})
	bus.Publish(TextSearch{Text: "web", Keys: []string{"name"}})
	bus.Publish(SearchUpdated{Query: "status=running"})

	assert.Equal(t, 1, refreshes)
	assert.Equal(t, []TextSearch{{Text: "web", Keys: []string{"name"}}}, searches)
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()

	var first, second int
	unsubscribe := On(bus, func(ItemsLoaded) { first++ })
	On(bus, func(ItemsLoaded) { second++ })

	bus.Publish(ItemsLoaded{Items: []model.Item{{"name": "a"}}})
	unsubscribe()
	unsubscribe()
	bus.Publish(ItemsLoaded{})

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestBusHandlerMayUnsubscribeDuringPublish(t *testing.T) {
	bus := NewBus()

	var calls int
	var unsubscribe func()
	unsubscribe = On(bus, func(Refresh) {
		calls++
		unsubscribe()
	})

	bus.Publish(Refresh{})
	bus.Publish(Refresh{})
	assert.Equal(t, 1, calls)
}
