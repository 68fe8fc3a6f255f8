package notify

import (
	"sync"

	"github.com/google/uuid"
)

// AllMembers subscribes a handler to every member of an emitter.
const AllMembers = ""

// Emitter is an embeddable change-notification source. The zero value is
// ready to use.
type Emitter struct {
	mu       sync.Mutex
	handlers map[string]map[string]Handler // member -> subscription id -> handler
}

var _ Notifier = (*Emitter)(nil)

// Subscribe registers h for changes to member. Pass AllMembers to receive
// every change.
func (e *Emitter) Subscribe(member string, h Handler) Subscription {
	if h == nil {
		return inertSubscription{}
	}
	id := uuid.NewString()

	e.mu.Lock()
	if e.handlers == nil {
		e.handlers = make(map[string]map[string]Handler)
	}
	byID := e.handlers[member]
	if byID == nil {
		byID = make(map[string]Handler)
		e.handlers[member] = byID
	}
	byID[id] = h
	e.mu.Unlock()

	return &emitterSubscription{id: id, member: member, emitter: e}
}

// Raise notifies subscribers of member that its value changed on sender.
// Dispatch is synchronous against a snapshot of the handler table, so
// handlers may subscribe or cancel while a raise is in flight.
func (e *Emitter) Raise(sender any, member string, value any) {
	e.mu.Lock()
	snapshot := make([]Handler, 0, len(e.handlers[member])+len(e.handlers[AllMembers]))
	for _, h := range e.handlers[member] {
		snapshot = append(snapshot, h)
	}
	if member != AllMembers {
		for _, h := range e.handlers[AllMembers] {
			snapshot = append(snapshot, h)
		}
	}
	e.mu.Unlock()

	change := Change{Sender: sender, Member: member, Value: value}
	for _, h := range snapshot {
		h(change)
	}
}

// Subscribers reports how many handlers are registered for member.
func (e *Emitter) Subscribers(member string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handlers[member])
}

func (e *Emitter) remove(member, id string) {
	e.mu.Lock()
	if byID := e.handlers[member]; byID != nil {
		delete(byID, id)
		if len(byID) == 0 {
			delete(e.handlers, member)
		}
	}
	e.mu.Unlock()
}

type emitterSubscription struct {
	id      string
	member  string
	emitter *Emitter
	once    sync.Once
}

func (s *emitterSubscription) ID() string { return s.id }

func (s *emitterSubscription) Cancel() {
	s.once.Do(func() {
		s.emitter.remove(s.member, s.id)
	})
}
