package events

import (
	"sync"

	"github.com/yourusername/console-landing/internal/model"
)

// Topic names an event kind exchanged between a landing page and the
// widgets sharing its item list.
type Topic string

const (
	TopicRefresh       Topic = "refresh"
	TopicSearchUpdated Topic = "searchUpdated"
	TopicTextSearch    Topic = "textSearch"
	TopicItemsLoaded   Topic = "itemsLoaded"
)

// Event is a typed message published on a Bus
type Event interface {
	Topic() Topic
}

// Refresh asks the landing page to re-fetch its items now
type Refresh struct{}

// SearchUpdated carries a structured filter as a URL query string
type SearchUpdated struct {
	Query string
}

// TextSearch carries free-text search input and the fields it applies to
type TextSearch struct {
	Text string
	Keys []string
}

// ItemsLoaded is published by the landing page after each successful fetch
type ItemsLoaded struct {
	Resource string
	Items    []model.Item
}

func (Refresh) Topic() Topic       { return TopicRefresh }
func (SearchUpdated) Topic() Topic { return TopicSearchUpdated }
func (TextSearch) Topic() Topic    { return TopicTextSearch }
func (ItemsLoaded) Topic() Topic   { return TopicItemsLoaded }

// Handler receives published events
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is a synchronous pub/sub hub. Handlers run on the publisher's
// goroutine, in subscription order.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Topic][]subscription
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]subscription)}
}

// Subscribe registers h for topic and returns a function removing it
func (b *Bus) Subscribe(topic Topic, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(topic, id) })
	}
}

func (b *Bus) remove(topic Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[topic]
	for i, s := range subs {
		if s.id == id {
			b.subs[topic] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish delivers e to every handler subscribed to its topic
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs[e.Topic()]))
	copy(subs, b.subs[e.Topic()])
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(e)
	}
}

// On subscribes a handler typed to a single event kind
func On[T Event](b *Bus, h func(T)) (unsubscribe func()) {
	var zero T
	return b.Subscribe(zero.Topic(), func(e Event) {
		if t, ok := e.(T); ok {
			h(t)
		}
	})
}
