package accessor

import (
	"errors"
	"reflect"
	"testing"
)

type profile struct {
	Name  string
	Score int
	Tags  []string
	Attrs map[string]int

	title string
}

func (p *profile) Title() string         { return p.title }
func (p *profile) SetTitle(title string) { p.title = title }

func (p *profile) Tag(i int) string { return p.Tags[i] }
func (p *profile) SetTag(i int, tag string) {
	p.Tags[i] = tag
}

// Upper has a getter but no setter.
func (p *profile) Upper() string { return "UP-" + p.Name }

// Describe is method-shaped, not a property: two return values.
func (p *profile) Describe() (string, error) { return p.Name, nil }

func TestClassifyField(t *testing.T) {
	a, ok := For(reflect.TypeOf(&profile{}), "Name")
	if !ok {
		t.Fatalf("expected field accessor")
	}
	if a.Kind() != KindField {
		t.Fatalf("expected KindField, got %s", a.Kind())
	}

	p := &profile{Name: "ada"}
	got, err := a.Get(p)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "ada" {
		t.Fatalf("expected ada, got %v", got)
	}

	if err := a.Set(p, "grace"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if p.Name != "grace" {
		t.Fatalf("set did not mutate target: %+v", p)
	}
}

func TestClassifyProperty(t *testing.T) {
	a, ok := For(reflect.TypeOf(&profile{}), "Title")
	if !ok {
		t.Fatalf("expected property accessor")
	}
	if a.Kind() != KindProperty {
		t.Fatalf("expected KindProperty, got %s", a.Kind())
	}

	p := &profile{title: "dr"}
	got, err := a.Get(p)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "dr" {
		t.Fatalf("expected dr, got %v", got)
	}
	if err := a.Set(p, "prof"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if p.title != "prof" {
		t.Fatalf("setter not applied: %+v", p)
	}
}

func TestClassifyIndexedProperty(t *testing.T) {
	a, ok := For(reflect.TypeOf(&profile{}), "Tag")
	if !ok {
		t.Fatalf("expected indexed accessor")
	}
	if a.Kind() != KindIndexed {
		t.Fatalf("expected KindIndexed, got %s", a.Kind())
	}

	p := &profile{Tags: []string{"a", "b"}}
	got, err := a.Get(p, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "b" {
		t.Fatalf("expected b, got %v", got)
	}
	if err := a.Set(p, "z", 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if p.Tags[0] != "z" {
		t.Fatalf("indexed setter not applied: %+v", p.Tags)
	}
}

func TestFieldWithIndexArgs(t *testing.T) {
	p := &profile{
		Tags:  []string{"x", "y"},
		Attrs: map[string]int{"hits": 3},
	}

	a, ok := For(reflect.TypeOf(p), "Tags")
	if !ok {
		t.Fatalf("expected accessor for Tags")
	}
	got, err := a.Get(p, 1)
	if err != nil {
		t.Fatalf("get slice index: %v", err)
	}
	if got != "y" {
		t.Fatalf("expected y, got %v", got)
	}

	b, ok := For(reflect.TypeOf(p), "Attrs")
	if !ok {
		t.Fatalf("expected accessor for Attrs")
	}
	got, err = b.Get(p, "hits")
	if err != nil {
		t.Fatalf("get map key: %v", err)
	}
	if got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
	// Missing map key is absence, not an error.
	got, err = b.Get(p, "absent")
	if err != nil {
		t.Fatalf("missing map key should not error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing key, got %v", got)
	}

	if err := b.Set(p, 9, "hits"); err != nil {
		t.Fatalf("set map entry: %v", err)
	}
	if p.Attrs["hits"] != 9 {
		t.Fatalf("map set not applied: %v", p.Attrs)
	}
}

func TestMethodShapedMembersAreNotAccessors(t *testing.T) {
	if _, ok := For(reflect.TypeOf(&profile{}), "Describe"); ok {
		t.Fatalf("two-return method must not classify as a property")
	}
	if _, ok := For(reflect.TypeOf(&profile{}), "Nope"); ok {
		t.Fatalf("missing member must not classify")
	}
}

func TestMustForMissingMember(t *testing.T) {
	_, err := MustFor(reflect.TypeOf(&profile{}), "Nope")
	if err == nil {
		t.Fatalf("expected MissingMemberError")
	}
	var mm *MissingMemberError
	if !errors.As(err, &mm) {
		t.Fatalf("expected MissingMemberError, got %T", err)
	}
	if mm.Member != "Nope" {
		t.Fatalf("unexpected member in error: %+v", mm)
	}
}

func TestSetterlessPropertyRejectsWrites(t *testing.T) {
	a, ok := For(reflect.TypeOf(&profile{}), "Upper")
	if !ok {
		t.Fatalf("expected property accessor for Upper")
	}
	err := a.Set(&profile{}, "x")
	var mm *MissingMemberError
	if !errors.As(err, &mm) {
		t.Fatalf("expected MissingMemberError for missing setter, got %v", err)
	}
}

func TestFieldSetRequiresPointer(t *testing.T) {
	a, ok := For(reflect.TypeOf(profile{}), "Name")
	if !ok {
		t.Fatalf("expected field accessor on value type")
	}
	if err := a.Set(profile{}, "x"); err == nil {
		t.Fatalf("expected error setting field through a value target")
	}
}

func TestAccessorCacheReuse(t *testing.T) {
	t1, _ := For(reflect.TypeOf(&profile{}), "Name")
	t2, _ := For(reflect.TypeOf(&profile{}), "Name")
	if t1 != t2 {
		t.Fatalf("expected cached accessor instance to be reused")
	}
}

func TestNilIsAbsentNotPresent(t *testing.T) {
	type holder struct {
		Child *profile
	}
	a, ok := For(reflect.TypeOf(&holder{}), "Child")
	if !ok {
		t.Fatalf("expected accessor")
	}
	got, err := a.Get(&holder{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("nil pointer field should surface as untyped nil, got %#v", got)
	}
}
