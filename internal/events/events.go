package events

import (
	"sync"

	"rafflehub/internal/logger"
	"rafflehub/internal/raffle"

	"go.uber.org/zap"
)

var log = logger.Scope("events")

// LogNotifier writes every event to the log.
type LogNotifier struct{}

func (LogNotifier) Notify(event raffle.Event) {
	log.Info(event.Name(), zap.Any("payload", event))
}

type multi []raffle.Notifier

// Multi delivers each event to every notifier in order.
func Multi(notifiers ...raffle.Notifier) raffle.Notifier {
	return multi(notifiers)
}

func (m multi) Notify(event raffle.Event) {
	for _, notifier := range m {
		notifier.Notify(event)
	}
}

// Hub fans events out to subscribers. A subscriber whose buffer is full
// misses the event instead of stalling the publisher.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uint64]chan raffle.Event
	next        uint64
	buffer      int
}

func NewHub(buffer int) *Hub {
	return &Hub{
		subscribers: make(map[uint64]chan raffle.Event),
		buffer:      buffer,
	}
}

func (h *Hub) Notify(event raffle.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			log.Warn("hub: subscriber buffer full, dropping event", zap.Uint64("subscriber", id), zap.String("event", event.Name()))
		}
	}
}

// Subscribe returns the event channel and a function that closes it.
func (h *Hub) Subscribe() (<-chan raffle.Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan raffle.Event, h.buffer)
	h.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers, id)
			close(ch)
		})
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
