package binding

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-binding/pkg/accessor"
	"github.com/goliatone/go-binding/pkg/config"
	"github.com/goliatone/go-binding/pkg/expr"
	"github.com/goliatone/go-binding/pkg/interfaces/logger"
	"github.com/goliatone/go-binding/pkg/notify"
	"github.com/goliatone/go-binding/pkg/typereg"
)

// Observer constructs chain observations. It validates chains once, at
// subscription time, resolving any declaring-type annotations through the
// type resolver; per-notification work never raises structural errors.
type Observer struct {
	logger   logger.Logger
	resolver *typereg.Resolver
	cfg      config.ObserverConfig
}

// Dependencies wires the observer's collaborators. Config feeds both the
// observer itself and, when no Resolver is injected, the capacity of the
// default resolver's cache.
type Dependencies struct {
	Logger   logger.Logger
	Resolver *typereg.Resolver
	Config   config.Config
}

// ErrInvalidChain rejects observation of an empty or unnamed chain.
var ErrInvalidChain = errors.New("binding: chain is not observable")

// New builds an observer. A nil logger falls back to the Nop logger and a
// nil resolver to one over the default registry.
func New(deps Dependencies) (*Observer, error) {
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	if deps.Resolver == nil {
		deps.Resolver = typereg.NewResolver(nil,
			typereg.WithCapacity(deps.Config.Resolver.CacheCapacity))
	}
	return &Observer{logger: deps.Logger, resolver: deps.Resolver, cfg: deps.Config.Observer}, nil
}

// ObserveOption customizes a single observation.
type ObserveOption func(*Observation)

// WithOnChange registers a handler for every link-level change, including
// the initial seed walk.
func WithOnChange(h func(ObservedChange)) ObserveOption {
	return func(o *Observation) {
		if h != nil {
			o.onChange = append(o.onChange, h)
		}
	}
}

// WithOnLeaf registers a handler for the consumer-facing leaf value
// stream.
func WithOnLeaf(h func(LeafChange)) ObserveOption {
	return func(o *Observation) {
		if h != nil {
			o.onLeaf = append(o.onLeaf, h)
		}
	}
}

// Observation is a live chain subscription. Position i holds the
// subscription registered on the value at position i-1 (the root for i=0)
// for the member named by link i; a position with no subscription is
// unbound, either because its upstream value is nil or because that value
// does not expose change notifications.
type Observation struct {
	id     string
	chain  expr.Chain
	root   any
	logger logger.Logger

	mu        sync.Mutex
	subs      []notify.Subscription
	onChange  []func(ObservedChange)
	onLeaf    []func(LeafChange)
	cancelled bool
}

// Observe seeds an observation of chain rooted at root: it resolves the
// full chain once, emitting one ObservedChange per reachable link and one
// initial LeafChange, then keeps per-link subscriptions alive until
// Cancel. Malformed chains fail here, once; a nil intermediate never does.
func (o *Observer) Observe(root any, chain expr.Chain, opts ...ObserveOption) (*Observation, error) {
	if !chain.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidChain, chain.String())
	}
	if err := o.validate(chain); err != nil {
		return nil, err
	}

	obs := &Observation{
		id:     uuid.NewString(),
		chain:  chain,
		root:   root,
		logger: o.logger,
		subs:   make([]notify.Subscription, len(chain)),
	}
	for _, opt := range opts {
		opt(obs)
	}

	obs.mu.Lock()
	emits, leaf, err := obs.walk(0, root, true)
	if err != nil {
		obs.teardownLocked()
		obs.mu.Unlock()
		return nil, err
	}
	obs.mu.Unlock()

	o.logger.Debug("observation started",
		logger.Field{Key: "observation", Value: obs.id},
		logger.Field{Key: "chain", Value: chain.String()},
	)
	if o.cfg.LogSeeds {
		for _, change := range emits {
			o.logger.Debug("seed",
				logger.Field{Key: "observation", Value: obs.id},
				logger.Field{Key: "link", Value: change.Link.String()},
				logger.Field{Key: "value", Value: change.Value},
			)
		}
	}

	obs.dispatch(emits, &leaf)
	return obs, nil
}

// validate resolves declaring-type annotations ahead of any live value:
// an annotated link must name a registered type that actually carries the
// member.
func (o *Observer) validate(chain expr.Chain) error {
	for _, link := range chain {
		if link.Declaring == "" {
			continue
		}
		typ, err := o.resolver.MustResolve(link.Declaring)
		if err != nil {
			return err
		}
		if _, err := accessor.MustFor(typ, link.Name); err != nil {
			return err
		}
	}
	return nil
}

// ID identifies the observation.
func (o *Observation) ID() string { return o.id }

// Value re-walks the chain and returns the current leaf state.
func (o *Observation) Value() LeafChange {
	v, ok := TryGetValue(o.root, o.chain)
	return LeafChange{Value: v, Missing: !ok}
}

// Cancel releases every live subscription. Idempotent; safe to call from a
// change handler.
func (o *Observation) Cancel() {
	o.mu.Lock()
	if o.cancelled {
		o.mu.Unlock()
		return
	}
	o.cancelled = true
	o.teardownLocked()
	o.mu.Unlock()
}

// walk resolves links [from, len(chain)), rooted at upstream, subscribing
// at each position whose upstream value is live. Caller holds o.mu. With
// must set, a missing member aborts the walk with an error; otherwise it
// degrades to an absent leaf.
func (o *Observation) walk(from int, upstream any, must bool) ([]ObservedChange, LeafChange, error) {
	var emits []ObservedChange

	for i := from; i < len(o.chain); i++ {
		if isNil(upstream) {
			return emits, LeafChange{Missing: true}, nil
		}
		link := o.chain[i]

		value, err := getLink(upstream, link)
		if err != nil {
			if isMissingMember(err) && must {
				return emits, LeafChange{}, err
			}
			if isMissingMember(err) {
				o.logger.Warn("member vanished during rebuild",
					logger.Field{Key: "observation", Value: o.id},
					logger.Field{Key: "link", Value: link.String()},
				)
			}
			return emits, LeafChange{Missing: true}, nil
		}

		emits = append(emits, ObservedChange{Sender: upstream, Link: link, Value: value})
		o.bind(i, upstream)

		if i == len(o.chain)-1 {
			return emits, LeafChange{Value: value}, nil
		}
		upstream = value
	}
	return emits, LeafChange{Missing: true}, nil
}

// bind subscribes position i against upstream when it exposes change
// notifications; values that do not are still resolvable, just silent.
func (o *Observation) bind(i int, upstream any) {
	notifier, ok := upstream.(notify.Notifier)
	if !ok {
		return
	}
	index := i
	o.subs[i] = notifier.Subscribe(o.chain[i].Name, func(c notify.Change) {
		o.onUpstream(index, c)
	})
}

// onUpstream handles a change at position i: the member of link i was
// raised on its sender. The notification payload is not taken as the
// link's new value; a raise for an indexed member carries no index
// arguments, so the link is re-resolved against its sender instead.
// Downstream subscriptions are stale and torn down before the re-walk
// rebuilds them against the resolved value.
func (o *Observation) onUpstream(i int, c notify.Change) {
	o.mu.Lock()
	if o.cancelled {
		o.mu.Unlock()
		return
	}

	value, err := getLink(c.Sender, o.chain[i])
	resolved := err == nil
	if !resolved && isMissingMember(err) {
		o.logger.Warn("member vanished during rebuild",
			logger.Field{Key: "observation", Value: o.id},
			logger.Field{Key: "link", Value: o.chain[i].String()},
		)
	}

	var emits []ObservedChange
	if resolved {
		emits = append(emits, ObservedChange{Sender: c.Sender, Link: o.chain[i], Value: value})
	}

	for j := i + 1; j < len(o.subs); j++ {
		if o.subs[j] != nil {
			o.subs[j].Cancel()
			o.subs[j] = nil
		}
	}

	var leaf LeafChange
	switch {
	case !resolved:
		leaf = LeafChange{Missing: true}
	case i == len(o.chain)-1:
		leaf = LeafChange{Value: value}
	case isNil(value):
		leaf = LeafChange{Missing: true}
	default:
		downstream, l, _ := o.walk(i+1, value, false)
		emits = append(emits, downstream...)
		leaf = l
	}
	o.mu.Unlock()

	o.dispatch(emits, &leaf)
}

func (o *Observation) dispatch(emits []ObservedChange, leaf *LeafChange) {
	for _, change := range emits {
		for _, h := range o.onChange {
			h(change)
		}
	}
	if leaf == nil {
		return
	}
	for _, h := range o.onLeaf {
		h(*leaf)
	}
}

func (o *Observation) teardownLocked() {
	for j := range o.subs {
		if o.subs[j] != nil {
			o.subs[j].Cancel()
			o.subs[j] = nil
		}
	}
}
