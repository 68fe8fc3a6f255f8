// Package dynamic provides a layered, observable member store: a bindable
// object whose members are not struct fields but entries merged from
// prioritized scope layers. Stores sit at the root (or middle) of a
// property chain through the binding.MemberGetter surface and raise change
// notifications when members are written.
package dynamic

import (
	"errors"
	"fmt"
	"sync"

	opts "github.com/goliatone/go-options"
	layering "github.com/goliatone/go-options/layering"

	"github.com/goliatone/go-binding/pkg/notify"
)

// Snapshot captures the immutable payload associated with a scope layer.
type Snapshot struct {
	Scope opts.Scope
	Data  map[string]any
}

// ErrNoSnapshots signals that at least one scope snapshot must be provided.
var ErrNoSnapshots = errors.New("dynamic: at least one snapshot is required")

// runtimeScope outranks every configured layer so writes always win.
const runtimePriority = opts.ScopePriorityUser + 1000

// Store merges scope snapshots into a single member namespace. Writes land
// in a runtime layer stacked above every snapshot; each write re-merges and
// raises a change notification for the member.
type Store struct {
	notify.Emitter

	mu      sync.RWMutex
	base    []opts.Layer[map[string]any]
	runtime map[string]any
	merged  *opts.Options[map[string]any]
}

// NewStore merges the provided snapshots ordered by scope priority.
func NewStore(snapshots ...Snapshot) (*Store, error) {
	if len(snapshots) == 0 {
		return nil, ErrNoSnapshots
	}

	layers := make([]opts.Layer[map[string]any], 0, len(snapshots))
	for _, snap := range snapshots {
		if snap.Scope.Name == "" {
			return nil, fmt.Errorf("dynamic: snapshot scope name is required")
		}
		layers = append(layers, opts.NewLayer(snap.Scope, cloneMap(snap.Data)))
	}

	s := &Store{
		base:    layers,
		runtime: make(map[string]any),
	}
	if err := s.remerge(); err != nil {
		return nil, err
	}
	return s, nil
}

// GetMember resolves a member against the merged namespace. Satisfies
// binding.MemberGetter; missing members report false rather than erroring.
func (s *Store) GetMember(name string) (any, bool) {
	s.mu.RLock()
	merged := s.merged
	s.mu.RUnlock()
	if merged == nil {
		return nil, false
	}
	value, _, err := merged.ResolveWithTrace(name)
	if err != nil {
		return nil, false
	}
	return value, true
}

// SetMember writes value into the runtime layer and notifies subscribers
// of name. Satisfies binding.MemberSetter.
func (s *Store) SetMember(name string, value any) error {
	if name == "" {
		return fmt.Errorf("dynamic: member name is required")
	}
	s.mu.Lock()
	s.runtime[name] = value
	if err := s.remerge(); err != nil {
		delete(s.runtime, name)
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.Raise(s, name, value)
	return nil
}

// Value resolves a dotted path inside the merged namespace, exposing the
// go-options trace for callers that want layer provenance.
func (s *Store) Value(path string) (any, opts.Trace, error) {
	s.mu.RLock()
	merged := s.merged
	s.mu.RUnlock()
	if merged == nil {
		return nil, opts.Trace{Path: path}, fmt.Errorf("dynamic: store not initialised")
	}
	return merged.ResolveWithTrace(path)
}

// remerge rebuilds the merged view. Caller holds s.mu for writes; NewStore
// calls it before the store is shared.
func (s *Store) remerge() error {
	layers := make([]opts.Layer[map[string]any], 0, len(s.base)+1)
	layers = append(layers, s.base...)
	if len(s.runtime) > 0 {
		scope := opts.NewScope("runtime", runtimePriority, opts.WithScopeLabel("Runtime"))
		layers = append(layers, opts.NewLayer(scope, cloneMap(s.runtime)))
	}
	stack, err := opts.NewStack(layers...)
	if err != nil {
		return err
	}
	merged, err := stack.Merge()
	if err != nil {
		return err
	}
	s.merged = merged
	return nil
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return map[string]any{}
	}
	return layering.Clone(src)
}
