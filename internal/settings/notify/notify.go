// Package notify provides change notification for settings edits.
//
// The settings controller publishes one Change per field edit; the plugin
// publishes a reload Change when the data file is re-read. Observers run
// synchronously on the publishing goroutine, which is the host's UI
// goroutine.
package notify

import (
	"sync"
)

// ChangeType represents the type of settings change.
type ChangeType int

const (
	// ChangeSet indicates a field was edited.
	ChangeSet ChangeType = iota

	// ChangeReload indicates the whole record was reloaded.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change represents a settings change event.
type Change struct {
	// Field is the persisted field name. Empty for reload events.
	Field string

	// Type is the type of change.
	Type ChangeType

	// OldValue is the previous value (nil for reloads).
	OldValue any

	// NewValue is the new value (nil for reloads).
	NewValue any

	// Source identifies where the change came from ("panel", "lua", "cli",
	// "file").
	Source string
}

// Observer is called when a change occurs.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// Notifier manages change subscriptions.
type Notifier struct {
	mu sync.RWMutex

	// Observers of every change
	globalObservers map[uint64]Observer

	// Observers of a single field
	fieldObservers map[string]map[uint64]Observer

	// Subscription order, so observers run in the order they subscribed
	order []uint64

	nextID uint64
	closed bool
}

// New creates a new Notifier.
func New() *Notifier {
	return &Notifier{
		globalObservers: make(map[uint64]Observer),
		fieldObservers:  make(map[string]map[uint64]Observer),
	}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.allocID()
	n.globalObservers[id] = observer
	return &Subscription{id: id, notifier: n}
}

// SubscribeField registers an observer for edits of one field. Field
// observers also receive reload events.
func (n *Notifier) SubscribeField(field string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.allocID()
	if n.fieldObservers[field] == nil {
		n.fieldObservers[field] = make(map[uint64]Observer)
	}
	n.fieldObservers[field][id] = observer
	return &Subscription{id: id, notifier: n}
}

// Notify delivers a change to all matching observers. Changes published
// after Close are dropped.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}

	var observers []Observer
	for _, id := range n.order {
		if obs, ok := n.globalObservers[id]; ok {
			observers = append(observers, obs)
			continue
		}
		for field, byID := range n.fieldObservers {
			if obs, ok := byID[id]; ok && (change.Type == ChangeReload || field == change.Field) {
				observers = append(observers, obs)
			}
		}
	}
	n.mu.RUnlock()

	// Call observers outside the lock
	for _, obs := range observers {
		obs(change)
	}
}

// NotifySet is a convenience method for field edits.
func (n *Notifier) NotifySet(field string, oldValue, newValue any, source string) {
	n.Notify(Change{
		Field:    field,
		Type:     ChangeSet,
		OldValue: oldValue,
		NewValue: newValue,
		Source:   source,
	})
}

// NotifyReload is a convenience method for reload events.
func (n *Notifier) NotifyReload(source string) {
	n.Notify(Change{
		Type:   ChangeReload,
		Source: source,
	})
}

// Close stops delivery and drops all observers. It is safe to call Close
// multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.closed = true
	n.globalObservers = make(map[uint64]Observer)
	n.fieldObservers = make(map[string]map[uint64]Observer)
	n.order = nil
}

func (n *Notifier) allocID() uint64 {
	id := n.nextID
	n.nextID++
	n.order = append(n.order, id)
	return id
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.globalObservers, id)
	for field, observers := range n.fieldObservers {
		delete(observers, id)
		if len(observers) == 0 {
			delete(n.fieldObservers, field)
		}
	}
	for i, v := range n.order {
		if v == id {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
}
