// Package notify is an in-process change bus. Stores publish an Event after
// every successful local write so views can refresh.
package notify

import (
	"sync"

	"github.com/julianstephens/lifelog/internal/constants"
)

// Event says a collection changed; subscribers re-read it themselves.
type Event struct {
	Kind constants.EntityKind
}

type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscription
}

func New() *Bus {
	return &Bus{}
}

// Publish calls every handler synchronously, in registration order.
// Handlers may subscribe or unsubscribe during delivery; changes take
// effect from the next Publish.
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	b.mu.Lock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		s.handler(ev)
	}
}

// Subscribe registers handler and returns a func that removes it. Calling
// the returned func more than once is a no-op.
func (b *Bus) Subscribe(handler Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

// SubscribeKinds registers handler for events of the given kinds only.
func (b *Bus) SubscribeKinds(handler Handler, kinds ...constants.EntityKind) func() {
	want := make(map[constants.EntityKind]struct{}, len(kinds))
	for _, k := range kinds {
		want[k] = struct{}{}
	}
	return b.Subscribe(func(ev Event) {
		if _, ok := want[ev.Kind]; ok {
			handler(ev)
		}
	})
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
