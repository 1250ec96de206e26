// Package event provides a typed observer list with explicit subscription handles.
package event

// Observers is an ordered list of listeners of type L.
// Not safe for concurrent use; owners notify from their own simulation goroutine.
type Observers[L any] struct {
	nextID  uint64
	entries []entry[L]
}

type entry[L any] struct {
	id       uint64
	listener L
}

// Subscription identifies one registered listener.
type Subscription struct {
	cancel func()
}

// Unsubscribe removes the listener. Safe to call more than once and on a zero Subscription.
func (s Subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Subscribe appends l and returns its handle.
func (o *Observers[L]) Subscribe(l L) Subscription {
	o.nextID++
	id := o.nextID
	o.entries = append(o.entries, entry[L]{id: id, listener: l})
	return Subscription{cancel: func() { o.remove(id) }}
}

func (o *Observers[L]) remove(id uint64) {
	for i, e := range o.entries {
		if e.id == id {
			o.entries = append(o.entries[:i:i], o.entries[i+1:]...)
			return
		}
	}
}

// Len returns the number of subscribed listeners.
func (o *Observers[L]) Len() int {
	return len(o.entries)
}

// Notify calls fn for every listener in subscription order.
// Listeners may unsubscribe from inside fn; the current pass still sees the old set.
func (o *Observers[L]) Notify(fn func(L)) {
	if len(o.entries) == 0 {
		return
	}
	snapshot := make([]entry[L], len(o.entries))
	copy(snapshot, o.entries)
	for _, e := range snapshot {
		fn(e.listener)
	}
}
