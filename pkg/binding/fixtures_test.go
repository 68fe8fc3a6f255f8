package binding

import (
	"github.com/goliatone/go-binding/pkg/notify"
)

// leafModel is an observable object with one int property.
type leafModel struct {
	notify.Emitter
	y int
}

func (m *leafModel) Y() int { return m.y }
func (m *leafModel) SetY(v int) {
	m.y = v
	m.Raise(m, "Y", v)
}

// rootModel holds an observable reference to a leafModel.
type rootModel struct {
	notify.Emitter
	x *leafModel
}

func (m *rootModel) X() *leafModel { return m.x }
func (m *rootModel) SetX(v *leafModel) {
	m.x = v
	m.Raise(m, "X", v)
}

// silentBox is readable through chains but exposes no change
// notifications.
type silentBox struct {
	Inner *leafModel
}

// listModel exposes an indexed property over its items.
type listModel struct {
	notify.Emitter
	items []*leafModel
}

func (m *listModel) Item(i int) *leafModel {
	if i < 0 || i >= len(m.items) {
		return nil
	}
	return m.items[i]
}

func (m *listModel) SetItem(i int, v *leafModel) {
	m.items[i] = v
	m.Raise(m, "Item", v)
}

// testView implements View over a swappable view-model.
type testView struct {
	notify.Emitter
	vm any
}

func (v *testView) ViewModel() any { return v.vm }
func (v *testView) SetViewModel(vm any) {
	v.vm = vm
	v.Raise(v, ViewModelMember, vm)
}
