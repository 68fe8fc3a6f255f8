// Package accessor provides uniform get/set access to a named member of a
// Go value, independent of how the member is stored. A member can be an
// exported struct field, a simple property (a getter method with an
// optional SetX setter), or an indexed property (a getter taking index
// arguments). Accessors are resolved once per declaring type and cached.
package accessor

import (
	"fmt"
	"reflect"
	"sync"
)

// Kind classifies the storage backing a member.
type Kind int

const (
	// KindField is an exported struct field.
	KindField Kind = iota
	// KindProperty is a no-argument getter method, optionally paired with
	// a SetX setter.
	KindProperty
	// KindIndexed is a getter method taking one or more index arguments,
	// optionally paired with a SetX setter taking the same arguments plus
	// the value.
	KindIndexed
)

func (k Kind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindProperty:
		return "property"
	case KindIndexed:
		return "indexed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MissingMemberError reports that a named member is neither a field nor a
// property on the declaring type.
type MissingMemberError struct {
	Type   string
	Member string
}

func (e *MissingMemberError) Error() string {
	return fmt.Sprintf("accessor: type %s has no accessible member %q", e.Type, e.Member)
}

// Accessor reads and writes one member of one declaring type.
type Accessor struct {
	kind   Kind
	member string
	typ    reflect.Type

	fieldIndex []int
	getterType reflect.Type
	setterType reflect.Type
	hasSetter  bool
}

// Kind reports the storage classification of the member.
func (a *Accessor) Kind() Kind { return a.kind }

// Member reports the member name the accessor is bound to.
func (a *Accessor) Member() string { return a.member }

type cacheKey struct {
	typ    reflect.Type
	member string
}

var (
	cacheMu sync.RWMutex
	cache   = map[cacheKey]*Accessor{}
)

// For resolves an accessor for member on type t, returning false when the
// member fits no supported kind (a method that is neither getter-shaped nor
// indexed, or no such member at all). Results, including misses, are cached
// per declaring type.
func For(t reflect.Type, member string) (*Accessor, bool) {
	if t == nil || member == "" {
		return nil, false
	}
	key := cacheKey{typ: t, member: member}

	cacheMu.RLock()
	a, hit := cache[key]
	cacheMu.RUnlock()
	if hit {
		return a, a != nil
	}

	a = classify(t, member)
	cacheMu.Lock()
	cache[key] = a
	cacheMu.Unlock()
	return a, a != nil
}

// MustFor resolves an accessor for member on type t, returning a
// MissingMemberError when no accessor applies.
func MustFor(t reflect.Type, member string) (*Accessor, error) {
	a, ok := For(t, member)
	if !ok {
		name := "<nil>"
		if t != nil {
			name = t.String()
		}
		return nil, &MissingMemberError{Type: name, Member: member}
	}
	return a, nil
}

func classify(t reflect.Type, member string) *Accessor {
	strukt := t
	for strukt.Kind() == reflect.Pointer {
		strukt = strukt.Elem()
	}

	if strukt.Kind() == reflect.Struct {
		if f, ok := strukt.FieldByName(member); ok && f.IsExported() {
			return &Accessor{
				kind:       KindField,
				member:     member,
				typ:        t,
				fieldIndex: f.Index,
			}
		}
	}

	// Method sets: look on the pointer type so value-receiver and
	// pointer-receiver methods are both visible.
	methodHost := t
	if methodHost.Kind() != reflect.Pointer && methodHost.Kind() == reflect.Struct {
		methodHost = reflect.PointerTo(methodHost)
	}

	getter, ok := methodHost.MethodByName(member)
	if !ok {
		return nil
	}
	// One return value; anything else is method-shaped, not a property.
	if getter.Type.NumOut() != 1 {
		return nil
	}

	a := &Accessor{member: member, typ: t, getterType: getter.Type}
	// NumIn includes the receiver.
	switch {
	case getter.Type.NumIn() == 1:
		a.kind = KindProperty
	case getter.Type.NumIn() > 1:
		a.kind = KindIndexed
	}

	if setter, ok := methodHost.MethodByName("Set" + member); ok {
		wantIn := getter.Type.NumIn() + 1 // receiver + index args + value
		if setter.Type.NumIn() == wantIn && setter.Type.NumOut() <= 1 {
			a.setterType = setter.Type
			a.hasSetter = true
		}
	}
	return a
}

// Get reads the member from target, applying index arguments for indexed
// members or collection-typed fields.
func (a *Accessor) Get(target any, args ...any) (any, error) {
	if target == nil {
		return nil, fmt.Errorf("accessor: get %s on nil target", a.member)
	}
	v := reflect.ValueOf(target)

	switch a.kind {
	case KindField:
		sv := v
		for sv.Kind() == reflect.Pointer {
			if sv.IsNil() {
				return nil, fmt.Errorf("accessor: get %s through nil pointer", a.member)
			}
			sv = sv.Elem()
		}
		fv := sv.FieldByIndex(a.fieldIndex)
		if len(args) == 0 {
			return valueInterface(fv), nil
		}
		return indexInto(fv, args, a.member)
	case KindProperty, KindIndexed:
		m := v.MethodByName(a.member)
		if !m.IsValid() {
			return nil, fmt.Errorf("accessor: get %s: method not reachable on %T", a.member, target)
		}
		callArgs := make([]reflect.Value, 0, len(args))
		for i, arg := range args {
			av, err := coerce(arg, a.getterType.In(i+1))
			if err != nil {
				return nil, fmt.Errorf("accessor: get %s: %w", a.member, err)
			}
			callArgs = append(callArgs, av)
		}
		out := m.Call(callArgs)
		return valueInterface(out[0]), nil
	default:
		return nil, fmt.Errorf("accessor: get %s: unsupported kind %s", a.member, a.kind)
	}
}

// Set writes value into the member of target, applying index arguments
// first for indexed members. Field writes require an addressable target
// (a pointer). Property writes require a SetX method.
func (a *Accessor) Set(target, value any, args ...any) error {
	if target == nil {
		return fmt.Errorf("accessor: set %s on nil target", a.member)
	}
	v := reflect.ValueOf(target)

	switch a.kind {
	case KindField:
		if v.Kind() != reflect.Pointer {
			return fmt.Errorf("accessor: set %s requires a pointer target, got %T", a.member, target)
		}
		sv := v
		for sv.Kind() == reflect.Pointer {
			if sv.IsNil() {
				return fmt.Errorf("accessor: set %s through nil pointer", a.member)
			}
			sv = sv.Elem()
		}
		fv := sv.FieldByIndex(a.fieldIndex)
		if len(args) > 0 {
			return setIndexed(fv, value, args, a.member)
		}
		return assign(fv, value, a.member)
	case KindProperty, KindIndexed:
		if !a.hasSetter {
			return &MissingMemberError{Type: a.typ.String(), Member: "Set" + a.member}
		}
		m := v.MethodByName("Set" + a.member)
		if !m.IsValid() {
			return fmt.Errorf("accessor: set %s: method not reachable on %T", a.member, target)
		}
		callArgs := make([]reflect.Value, 0, len(args)+1)
		for i, arg := range args {
			av, err := coerce(arg, a.setterType.In(i+1))
			if err != nil {
				return fmt.Errorf("accessor: set %s: %w", a.member, err)
			}
			callArgs = append(callArgs, av)
		}
		av, err := coerce(value, a.setterType.In(len(args)+1))
		if err != nil {
			return fmt.Errorf("accessor: set %s: %w", a.member, err)
		}
		callArgs = append(callArgs, av)
		out := m.Call(callArgs)
		if len(out) == 1 {
			if err, ok := out[0].Interface().(error); ok && err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("accessor: set %s: unsupported kind %s", a.member, a.kind)
	}
}

func indexInto(v reflect.Value, args []any, member string) (any, error) {
	cur := v
	for _, arg := range args {
		for cur.Kind() == reflect.Interface || cur.Kind() == reflect.Pointer {
			if cur.IsNil() {
				return nil, fmt.Errorf("accessor: index %s through nil", member)
			}
			cur = cur.Elem()
		}
		switch cur.Kind() {
		case reflect.Slice, reflect.Array:
			i, ok := arg.(int)
			if !ok {
				return nil, fmt.Errorf("accessor: %s expects an integer index, got %T", member, arg)
			}
			if i < 0 || i >= cur.Len() {
				return nil, fmt.Errorf("accessor: %s index %d out of range", member, i)
			}
			cur = cur.Index(i)
		case reflect.Map:
			kv, err := coerce(arg, cur.Type().Key())
			if err != nil {
				return nil, fmt.Errorf("accessor: %s: %w", member, err)
			}
			cur = cur.MapIndex(kv)
			if !cur.IsValid() {
				return nil, nil
			}
		default:
			return nil, fmt.Errorf("accessor: %s (%s) is not indexable", member, cur.Kind())
		}
	}
	return valueInterface(cur), nil
}

func setIndexed(v reflect.Value, value any, args []any, member string) error {
	cur := v
	for cur.Kind() == reflect.Interface || cur.Kind() == reflect.Pointer {
		if cur.IsNil() {
			return fmt.Errorf("accessor: set %s through nil", member)
		}
		cur = cur.Elem()
	}
	// All but the final argument navigate; the final one addresses the slot.
	for _, arg := range args[:len(args)-1] {
		got, err := indexInto(cur, []any{arg}, member)
		if err != nil {
			return err
		}
		if got == nil {
			return fmt.Errorf("accessor: set %s through nil", member)
		}
		cur = reflect.ValueOf(got)
	}
	last := args[len(args)-1]
	switch cur.Kind() {
	case reflect.Slice, reflect.Array:
		i, ok := last.(int)
		if !ok {
			return fmt.Errorf("accessor: %s expects an integer index, got %T", member, last)
		}
		if i < 0 || i >= cur.Len() {
			return fmt.Errorf("accessor: %s index %d out of range", member, i)
		}
		return assign(cur.Index(i), value, member)
	case reflect.Map:
		kv, err := coerce(last, cur.Type().Key())
		if err != nil {
			return fmt.Errorf("accessor: %s: %w", member, err)
		}
		ev, err := coerce(value, cur.Type().Elem())
		if err != nil {
			return fmt.Errorf("accessor: %s: %w", member, err)
		}
		cur.SetMapIndex(kv, ev)
		return nil
	default:
		return fmt.Errorf("accessor: %s (%s) is not indexable", member, cur.Kind())
	}
}

func assign(dst reflect.Value, value any, member string) error {
	if !dst.CanSet() {
		return fmt.Errorf("accessor: %s is not settable", member)
	}
	av, err := coerce(value, dst.Type())
	if err != nil {
		return fmt.Errorf("accessor: set %s: %w", member, err)
	}
	dst.Set(av)
	return nil
}

func coerce(value any, want reflect.Type) (reflect.Value, error) {
	if value == nil {
		switch want.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(want), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot assign nil to %s", want)
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(want) {
		return v, nil
	}
	if v.Type().ConvertibleTo(want) {
		return v.Convert(want), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot assign %s to %s", v.Type(), want)
}

func valueInterface(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	i := v.Interface()
	// Typed nils flow through chains as plain absence.
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		if v.IsNil() {
			return nil
		}
	}
	return i
}
