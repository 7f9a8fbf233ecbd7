package live

import (
	"context"
	"slices"
	"sync"
)

type Topic string

const (
	TopicGoals         Topic = "goals"
	TopicContributions Topic = "contributions"
	TopicSettings      Topic = "settings"
)

// AllTopics lists every topic a writer may publish.
var AllTopics = []Topic{TopicGoals, TopicContributions, TopicSettings}

// Publisher announces that the collections behind topics changed.
type Publisher interface {
	Publish(ctx context.Context, topics ...Topic)
}

type listener struct {
	topics []Topic
	signal chan struct{}
}

// Hub fans change signals out to in-process listeners. Publish never blocks:
// each listener owns a one-slot channel and pending signals coalesce.
type Hub struct {
	mu        sync.Mutex
	next      int
	listeners map[int]*listener
}

func NewHub() *Hub {
	return &Hub{listeners: make(map[int]*listener)}
}

// Listen registers for changes on topics. The returned func unregisters and
// is safe to call more than once.
func (h *Hub) Listen(topics ...Topic) (<-chan struct{}, func()) {
	l := &listener{topics: slices.Clone(topics), signal: make(chan struct{}, 1)}

	h.mu.Lock()
	id := h.next
	h.next++
	h.listeners[id] = l
	h.mu.Unlock()

	var once sync.Once
	return l.signal, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners, id)
			h.mu.Unlock()
		})
	}
}

func (h *Hub) Publish(_ context.Context, topics ...Topic) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, l := range h.listeners {
		if !slices.ContainsFunc(topics, func(t Topic) bool { return slices.Contains(l.topics, t) }) {
			continue
		}
		select {
		case l.signal <- struct{}{}:
		default:
		}
	}
}

// Listeners reports the number of registered listeners.
func (h *Hub) Listeners() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}
