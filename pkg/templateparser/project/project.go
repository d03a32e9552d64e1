// Package project flattens an arbitrary Go value into a leaf.Map.
//
// Every exported field is visited depth first. Leaf-like fields (see
// leaf.KindOf) are recorded under "<TypeName>.<Field>", where TypeName is the
// name of the struct that declares the field. The first value recorded for a
// key wins. Composite fields are walked recursively unless they are nil,
// iterable (slices, arrays, maps, channels, funcs) or a pointer that was
// already visited in the same call.
//
// Keys carry only the immediate declaring type, not the full path, so two
// different fields of the same nested type collapse onto one key:
//
//	type Address struct{ City string }
//	type Order struct{ Billing, Shipping *Address }
//
//	m, _ := project.Project(order)
//	// m["Address.City"] holds the Billing city only.
//
// Types that want to control their own projection implement Describer.
package project

import (
	"errors"
	"reflect"

	"github.com/randalmurphal/templateparser/pkg/templateparser/leaf"
	"github.com/randalmurphal/templateparser/pkg/templateparser/registry"
)

// ErrNilSource indicates Project was called with a nil value.
var ErrNilSource = errors.New("unable to project a nil source")

// Describer lets a type report its properties directly instead of being
// reflected over.
type Describer interface {
	Describe() Description
}

// Description is the property listing returned by a Describer.
type Description struct {
	// TypeName prefixes the keys of leaf properties.
	TypeName string
	// Properties are visited in order.
	Properties []Property
}

// Property is one entry of a Description.
type Property struct {
	Name string
	// Value is the leaf value, or the composite to walk when Leaf is false.
	Value any
	// Leaf marks Value as a leaf tagged with Kind.
	Leaf bool
	Kind leaf.Kind
}

// Project walks source and returns the flat map of its leaves.
func Project(source any) (leaf.Map, error) {
	rv := reflect.ValueOf(source)
	if isNil(rv) {
		return nil, ErrNilSource
	}

	w := &walker{
		visited: make(map[identity]struct{}),
		out:     make(leaf.Map),
	}
	w.markVisited(rv)
	w.walk(rv, typeName(rv))
	return w.out, nil
}

// identity is a pointer's address qualified by its type, since a struct and
// its first field share an address.
type identity struct {
	typ  reflect.Type
	addr uintptr
}

type walker struct {
	visited map[identity]struct{}
	out     leaf.Map
}

// walk records the leaves of v under name and descends into composites.
func (w *walker) walk(v reflect.Value, name string) {
	v = indirect(v)
	if !v.IsValid() {
		return
	}

	if d, ok := describer(v); ok {
		w.walkDescription(d.Describe())
		return
	}

	if v.Kind() != reflect.Struct {
		return
	}

	for _, f := range fieldPlans(v.Type()) {
		fv := v.Field(f.index)
		if f.leaf {
			w.record(joinKey(name, f.name), f.kind, leaf.Raw(fv))
			continue
		}
		w.descend(fv, f.compositeName(fv))
	}
}

func (w *walker) walkDescription(d Description) {
	for _, p := range d.Properties {
		if p.Leaf {
			w.record(joinKey(d.TypeName, p.Name), p.Kind, leaf.Of(p.Value).Raw)
			continue
		}
		rv := reflect.ValueOf(p.Value)
		if isNil(rv) {
			continue
		}
		w.descend(rv, typeName(rv))
	}
}

// descend applies the composite skip rules before walking v.
func (w *walker) descend(v reflect.Value, name string) {
	if isNil(v) || iterable(v) {
		return
	}
	if !w.markVisited(v) {
		return
	}
	w.walk(v, name)
}

// joinKey builds "<type>.<field>". Anonymous top-level types have no name,
// so their fields are keyed by field name alone.
func joinKey(typeName, field string) string {
	if typeName == "" {
		return field
	}
	return typeName + "." + field
}

func (w *walker) record(key string, kind leaf.Kind, raw any) {
	if _, ok := w.out[key]; ok {
		return
	}
	w.out[key] = leaf.Value{Kind: kind, Raw: raw}
}

// markVisited reports whether v had not been seen yet. Only pointers carry an
// identity; values reached by copy cannot form cycles and always pass.
func (w *walker) markVisited(v reflect.Value) bool {
	for v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	if v.Kind() != reflect.Pointer {
		return true
	}
	id := identity{typ: v.Type(), addr: v.Pointer()}
	if _, seen := w.visited[id]; seen {
		return false
	}
	w.visited[id] = struct{}{}
	return true
}

func describer(v reflect.Value) (Describer, bool) {
	if v.CanInterface() {
		if d, ok := v.Interface().(Describer); ok {
			return d, true
		}
	}
	if v.CanAddr() && v.Addr().CanInterface() {
		if d, ok := v.Addr().Interface().(Describer); ok {
			return d, true
		}
	}
	return nil, false
}

// indirect strips pointers and interfaces, returning the zero Value on nil.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return v.IsNil()
	}
	return false
}

// iterable reports whether v is a collection or otherwise exposes iteration.
// Describers are never treated as iterable.
func iterable(v reflect.Value) bool {
	if _, ok := describer(indirect(v)); ok {
		return false
	}
	switch indirect(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan, reflect.Func:
		return true
	}
	return false
}

// typeName returns the name of the type v ultimately holds.
func typeName(v reflect.Value) string {
	if d := indirect(v); d.IsValid() {
		return d.Type().Name()
	}
	if !v.IsValid() {
		return ""
	}
	t := v.Type()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// fieldPlan is the cached classification of one exported struct field.
type fieldPlan struct {
	index int
	name  string
	leaf  bool
	kind  leaf.Kind
	// typeName is the declared type's name after dereferencing pointers.
	// Empty for interfaces and anonymous structs.
	typeName string
	dynamic  bool
}

// compositeName picks the name used for keys under a composite field.
func (f fieldPlan) compositeName(fv reflect.Value) string {
	name := f.typeName
	if f.dynamic {
		name = typeName(fv)
	}
	if name == "" {
		return f.name
	}
	return name
}

var plans = registry.New[reflect.Type, []fieldPlan]()

func fieldPlans(t reflect.Type) []fieldPlan {
	return plans.GetOrCreate(t, func() []fieldPlan {
		return planFields(t)
	})
}

func planFields(t reflect.Type) []fieldPlan {
	fields := make([]fieldPlan, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		plan := fieldPlan{index: i, name: sf.Name}
		if kind, ok := leaf.KindOf(sf.Type); ok {
			plan.leaf = true
			plan.kind = kind
			fields = append(fields, plan)
			continue
		}

		declared := sf.Type
		for declared.Kind() == reflect.Pointer {
			declared = declared.Elem()
		}
		plan.dynamic = declared.Kind() == reflect.Interface
		if !plan.dynamic {
			plan.typeName = declared.Name()
		}
		fields = append(fields, plan)
	}
	return fields
}
