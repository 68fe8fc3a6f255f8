package notify

import "testing"

func TestEmitterSubscribeAndRaise(t *testing.T) {
	var e Emitter
	var got []Change
	e.Subscribe("Name", func(c Change) {
		got = append(got, c)
	})

	sender := struct{}{}
	e.Raise(sender, "Name", "ada")
	e.Raise(sender, "Other", 1)

	if len(got) != 1 {
		t.Fatalf("expected 1 change, got %d", len(got))
	}
	if got[0].Member != "Name" || got[0].Value != "ada" {
		t.Fatalf("unexpected change %+v", got[0])
	}
}

func TestEmitterAllMembers(t *testing.T) {
	var e Emitter
	var count int
	e.Subscribe(AllMembers, func(Change) { count++ })

	e.Raise(nil, "A", 1)
	e.Raise(nil, "B", 2)
	if count != 2 {
		t.Fatalf("expected all-member handler to see both raises, got %d", count)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	var e Emitter
	var count int
	sub := e.Subscribe("X", func(Change) { count++ })

	e.Raise(nil, "X", 1)
	sub.Cancel()
	sub.Cancel()
	e.Raise(nil, "X", 2)

	if count != 1 {
		t.Fatalf("expected no delivery after cancel, got %d", count)
	}
	if e.Subscribers("X") != 0 {
		t.Fatalf("expected handler table to be emptied")
	}
}

func TestSubscriptionIDsAreUnique(t *testing.T) {
	var e Emitter
	a := e.Subscribe("X", func(Change) {})
	b := e.Subscribe("X", func(Change) {})
	if a.ID() == "" || a.ID() == b.ID() {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a.ID(), b.ID())
	}
}

func TestRaiseSnapshotAllowsMutationDuringDispatch(t *testing.T) {
	var e Emitter
	var sub Subscription
	var count int
	sub = e.Subscribe("X", func(Change) {
		count++
		sub.Cancel()
		e.Subscribe("X", func(Change) { count += 10 })
	})

	e.Raise(nil, "X", 1)
	if count != 1 {
		t.Fatalf("first raise should reach only the original handler, got %d", count)
	}
	e.Raise(nil, "X", 2)
	if count != 11 {
		t.Fatalf("second raise should reach the replacement handler, got %d", count)
	}
}

func TestNopAndFunc(t *testing.T) {
	var n Nop
	sub := n.Subscribe("X", func(Change) {})
	sub.Cancel()

	var called bool
	f := Func(func(member string, h Handler) Subscription {
		called = true
		return inertSubscription{}
	})
	f.Subscribe("X", func(Change) {})
	if !called {
		t.Fatalf("Func adapter did not delegate")
	}

	var nilFunc Func
	nilFunc.Subscribe("X", func(Change) {}).Cancel()
}
