// Package notify carries member-change notifications between observed
// objects and their observers. Objects opt in by embedding Emitter (or by
// implementing Notifier themselves); observers register a handler for a
// member name and receive synchronous callbacks when that member is raised.
package notify

// Change describes one member mutation on an observed object.
type Change struct {
	Sender any
	Member string
	Value  any
}

// Handler receives change notifications.
type Handler func(Change)

// Subscription is a cancellable registration. Cancel is idempotent.
type Subscription interface {
	ID() string
	Cancel()
}

// Notifier exposes per-member change subscriptions. Delivery is assumed
// single-threaded per object: Raise dispatches synchronously on the
// caller's goroutine.
type Notifier interface {
	Subscribe(member string, h Handler) Subscription
}

// Func adapts a plain function to the Notifier interface.
type Func func(member string, h Handler) Subscription

// Subscribe satisfies the Notifier interface.
func (f Func) Subscribe(member string, h Handler) Subscription {
	if f == nil {
		return inertSubscription{}
	}
	return f(member, h)
}

// Nop notifier accepts subscriptions and never fires them.
type Nop struct{}

var _ Notifier = (*Nop)(nil)

func (n *Nop) Subscribe(member string, h Handler) Subscription { return inertSubscription{} }

type inertSubscription struct{}

func (inertSubscription) ID() string { return "" }
func (inertSubscription) Cancel()    {}
