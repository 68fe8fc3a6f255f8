// Package binding resolves and observes property chains over live object
// graphs. A chain like Items[3].Name is walked link by link against a root
// value; observation keeps per-link change subscriptions alive and rebuilds
// the downstream ones whenever an upstream value is replaced.
package binding

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/goliatone/go-binding/pkg/accessor"
	"github.com/goliatone/go-binding/pkg/expr"
)

// ObservedChange records one link-level mutation: the object the link was
// resolved against, the link itself, and the newly resolved value.
type ObservedChange struct {
	Sender any
	Link   expr.Link
	Value  any
}

// LeafChange is the consumer-facing notification for the chain's final
// value. Missing reports that some intermediate link resolved to nil and
// the leaf is unreachable; a reachable leaf whose value is nil has
// Missing=false.
type LeafChange struct {
	Value   any
	Missing bool
}

// MemberGetter lets dynamic objects (not backed by struct fields or
// methods) participate in chains. GetMember reports false when the member
// does not exist on the receiver.
type MemberGetter interface {
	GetMember(name string) (any, bool)
}

// MemberSetter is the writable counterpart of MemberGetter.
type MemberSetter interface {
	SetMember(name string, value any) error
}

// errAbsent marks a nil intermediate or an unreachable value: expected,
// non-exceptional, never surfaced to callers as an error.
var errAbsent = errors.New("binding: absent value")

// isNil treats typed nils (a nil *T inside a non-nil interface) the same
// as plain nil, so a raised nil pointer truncates a chain instead of
// crashing the walk.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

// getLink resolves one link against target. A missing member surfaces as
// MissingMemberError; unreachable values (nil pointers, out-of-range
// indexes) surface as errAbsent.
func getLink(target any, link expr.Link) (any, error) {
	if isNil(target) {
		return nil, errAbsent
	}
	if g, ok := target.(MemberGetter); ok {
		v, found := g.GetMember(link.Name)
		if !found {
			return nil, &accessor.MissingMemberError{
				Type:   fmt.Sprintf("%T", target),
				Member: link.Name,
			}
		}
		return v, nil
	}
	acc, err := accessor.MustFor(reflect.TypeOf(target), link.Name)
	if err != nil {
		return nil, err
	}
	v, err := acc.Get(target, link.Args...)
	if err != nil {
		return nil, errAbsent
	}
	return v, nil
}

// setLink writes value into link on target.
func setLink(target any, link expr.Link, value any) error {
	if isNil(target) {
		return errAbsent
	}
	if s, ok := target.(MemberSetter); ok && link.Kind == expr.KindSimple {
		return s.SetMember(link.Name, value)
	}
	acc, err := accessor.MustFor(reflect.TypeOf(target), link.Name)
	if err != nil {
		return err
	}
	return acc.Set(target, value, link.Args...)
}
