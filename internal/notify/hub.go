// Package notify fans out record changes to interested listeners. Listeners are
// expected to re-fetch whatever they display; a Change carries ids only.
package notify

import (
	"sync"
	"time"
)

type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// AllTables subscribes to every table.
const AllTables = "*"

type Change struct {
	Table    string    `json:"table"`
	Op       Op        `json:"op"`
	UserID   string    `json:"user_id"`
	RecordID string    `json:"record_id"`
	At       time.Time `json:"at"`
}

// Publisher is what the service layer needs from a Hub.
type Publisher interface {
	Publish(ch Change)
}

type subscriber struct {
	table string
	fn    func(Change)
}

type Hub struct {
	mu   sync.RWMutex
	next int
	subs map[int]subscriber
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]subscriber)}
}

// Subscribe registers fn for changes to table (or AllTables). The returned func
// removes the subscription and is safe to call more than once.
func (h *Hub) Subscribe(table string, fn func(Change)) (cancel func()) {
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = subscriber{table: table, fn: fn}
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// Publish delivers ch to every matching subscriber on the caller's goroutine.
// Subscribers must not block.
func (h *Hub) Publish(ch Change) {
	if ch.At.IsZero() {
		ch.At = time.Now()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.subs {
		if s.table == AllTables || s.table == ch.Table {
			s.fn(ch)
		}
	}
}

// Len reports the number of live subscriptions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

var _ Publisher = (*Hub)(nil)
