package binding

import (
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-binding/pkg/expr"
	"github.com/goliatone/go-binding/pkg/interfaces/logger"
	"github.com/goliatone/go-binding/pkg/notify"
)

// ViewModelMember is the member name a View raises when its bound
// view-model reference is replaced.
const ViewModelMember = "ViewModel"

// View is anything that exposes a bound view-model and notifies when that
// reference changes, typically by embedding notify.Emitter and raising
// ViewModelMember on assignment.
type View interface {
	notify.Notifier
	ViewModel() any
}

// Binder observes a property chain through a view's current view-model:
// whenever the view-model reference itself changes, the previous chain
// observation is cancelled and a fresh one starts on the new view-model.
type Binder struct {
	observer *Observer
	logger   logger.Logger
}

// ErrObserverRequired rejects binder construction without an observer.
var ErrObserverRequired = errors.New("binding: observer is required")

// NewBinder builds a binder on top of observer.
func NewBinder(observer *Observer, log logger.Logger) (*Binder, error) {
	if observer == nil {
		return nil, ErrObserverRequired
	}
	if log == nil {
		log = &logger.Nop{}
	}
	return &Binder{observer: observer, logger: log}, nil
}

// Binding is one live view binding. Close cancels the current observation
// and the view-model subscription.
type Binding struct {
	binder *Binder
	view   View
	chain  expr.Chain
	opts   []ObserveOption

	mu      sync.Mutex
	vmSub   notify.Subscription
	current *Observation
	closed  bool
}

// Bind parses src as a property chain into the view's view-model and keeps
// it observed across view-model swaps. A nil view-model leaves the chain
// unbound until the next swap; leaf notifications fire through onLeaf.
func (b *Binder) Bind(view View, src string, onLeaf func(LeafChange), opts ...ObserveOption) (*Binding, error) {
	if view == nil {
		return nil, errors.New("binding: view is required")
	}
	parsed, err := expr.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("binding: parse %q: %w", src, err)
	}
	chain, err := expr.ExtractChain(parsed)
	if err != nil {
		return nil, fmt.Errorf("binding: extract %q: %w", src, err)
	}
	if !chain.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidChain, src)
	}

	if onLeaf != nil {
		opts = append(opts, WithOnLeaf(onLeaf))
	}
	bound := &Binding{binder: b, view: view, chain: chain, opts: opts}

	bound.vmSub = view.Subscribe(ViewModelMember, func(c notify.Change) {
		bound.rebind(c.Value)
	})
	bound.rebind(view.ViewModel())
	return bound, nil
}

// rebind swaps the chain observation onto vm, cancelling the previous one
// first so stale subscriptions never outlive their view-model.
func (bd *Binding) rebind(vm any) {
	bd.mu.Lock()
	if bd.closed {
		bd.mu.Unlock()
		return
	}
	previous := bd.current
	bd.current = nil
	bd.mu.Unlock()

	if previous != nil {
		previous.Cancel()
	}
	if isNil(vm) {
		return
	}

	obs, err := bd.binder.observer.Observe(vm, bd.chain, bd.opts...)
	if err != nil {
		bd.binder.logger.Error("bind view-model chain",
			logger.Field{Key: "chain", Value: bd.chain.String()},
			logger.Field{Key: "error", Value: err},
		)
		return
	}

	bd.mu.Lock()
	if bd.closed {
		bd.mu.Unlock()
		obs.Cancel()
		return
	}
	bd.current = obs
	bd.mu.Unlock()
}

// Close releases the view-model subscription and any live observation.
// Idempotent.
func (bd *Binding) Close() {
	bd.mu.Lock()
	if bd.closed {
		bd.mu.Unlock()
		return
	}
	bd.closed = true
	current := bd.current
	bd.current = nil
	sub := bd.vmSub
	bd.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}
	if current != nil {
		current.Cancel()
	}
}
