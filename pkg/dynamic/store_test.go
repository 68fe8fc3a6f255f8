package dynamic

import (
	"testing"

	opts "github.com/goliatone/go-options"

	"github.com/goliatone/go-binding/pkg/binding"
	"github.com/goliatone/go-binding/pkg/expr"
	"github.com/goliatone/go-binding/pkg/notify"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	system := opts.NewScope("system", opts.ScopePrioritySystem, opts.WithScopeLabel("System"))
	user := opts.NewScope("user", opts.ScopePriorityUser, opts.WithScopeLabel("User"))

	store, err := NewStore(
		Snapshot{
			Scope: system,
			Data: map[string]any{
				"theme":   "light",
				"volume":  5,
				"contact": map[string]any{"email": "sys@example.com"},
			},
		},
		Snapshot{
			Scope: user,
			Data:  map[string]any{"theme": "dark"},
		},
	)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestStoreLayerPrecedence(t *testing.T) {
	store := testStore(t)

	theme, ok := store.GetMember("theme")
	if !ok || theme != "dark" {
		t.Fatalf("expected user layer to win, got (%v, %v)", theme, ok)
	}
	volume, ok := store.GetMember("volume")
	if !ok || volume != 5 {
		t.Fatalf("expected system fallback, got (%v, %v)", volume, ok)
	}
	if _, ok := store.GetMember("ghost"); ok {
		t.Fatalf("missing member must report false")
	}
}

func TestStoreValueTrace(t *testing.T) {
	store := testStore(t)
	v, trace, err := store.Value("contact.email")
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != "sys@example.com" {
		t.Fatalf("unexpected value %v", v)
	}
	if trace.Path != "contact.email" {
		t.Fatalf("unexpected trace %+v", trace)
	}
}

func TestSetMemberWinsAndNotifies(t *testing.T) {
	store := testStore(t)

	var changes []notify.Change
	store.Subscribe("theme", func(c notify.Change) {
		changes = append(changes, c)
	})

	if err := store.SetMember("theme", "solarized"); err != nil {
		t.Fatalf("SetMember: %v", err)
	}

	theme, _ := store.GetMember("theme")
	if theme != "solarized" {
		t.Fatalf("runtime write must outrank every layer, got %v", theme)
	}
	if len(changes) != 1 || changes[0].Value != "solarized" {
		t.Fatalf("expected change notification, got %+v", changes)
	}

	if err := store.SetMember("", nil); err == nil {
		t.Fatalf("expected error for empty member name")
	}
}

func TestNewStoreValidation(t *testing.T) {
	if _, err := NewStore(); err != ErrNoSnapshots {
		t.Fatalf("expected ErrNoSnapshots, got %v", err)
	}
	if _, err := NewStore(Snapshot{Scope: opts.Scope{}}); err == nil {
		t.Fatalf("expected error for unnamed scope")
	}
}

func TestStoreAtChainRoot(t *testing.T) {
	store := testStore(t)
	observer, err := binding.New(binding.Dependencies{})
	if err != nil {
		t.Fatalf("binding.New: %v", err)
	}

	var leaves []binding.LeafChange
	obs, err := observer.Observe(store, expr.MustExtract("vm.theme"),
		binding.WithOnLeaf(func(l binding.LeafChange) { leaves = append(leaves, l) }))
	if err != nil {
		t.Fatalf("Observe: %v", err)
	}
	defer obs.Cancel()

	if len(leaves) != 1 || leaves[0].Value != "dark" {
		t.Fatalf("unexpected initial leaf %+v", leaves)
	}

	leaves = nil
	if err := store.SetMember("theme", "mono"); err != nil {
		t.Fatalf("SetMember: %v", err)
	}
	if len(leaves) != 1 || leaves[0].Value != "mono" {
		t.Fatalf("expected leaf change from store write, got %+v", leaves)
	}
}
