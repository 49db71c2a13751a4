// Package changefeed fans table-change signals out to dashboard subscribers.
// Events are pure invalidation: they name the table that changed and nothing
// else, so consumers must re-run their own read query.
package changefeed

import "sync"

// Event says "something changed" in a table.
type Event struct {
	Table string `json:"table"`
}

const subscriberBuffer = 8

type subscriber struct {
	ch     chan Event
	tables map[string]bool // empty means all tables
}

// Hub is the in-process broker between the database listener and any number
// of subscribers.
type Hub struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: map[*subscriber]struct{}{}}
}

// Subscribe returns a channel of invalidation events for the given tables
// (all tables when none are named) and a cancel function that must be called
// when the consumer goes away.
func (h *Hub) Subscribe(tables ...string) (<-chan Event, func()) {
	sub := &subscriber{
		ch:     make(chan Event, subscriberBuffer),
		tables: map[string]bool{},
	}
	for _, t := range tables {
		sub.tables[t] = true
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[sub]; ok {
			delete(h.subs, sub)
			close(sub.ch)
		}
		h.mu.Unlock()
	}
	return sub.ch, cancel
}

// Publish delivers the event to every matching subscriber. A subscriber that
// has fallen behind loses the event rather than blocking the feed; since
// events carry no payload, a later event triggers the same re-fetch.
func (h *Hub) Publish(table string) {
	ev := Event{Table: table}
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		if len(sub.tables) > 0 && !sub.tables[table] {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}
