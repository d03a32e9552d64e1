// Package leaf holds the typed leaf values substituted into templates, the
// flat map that carries them, and the sanitizer that supplies defaults for
// absent values.
package leaf

import (
	"encoding"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind tags the declared type of a leaf. It only drives the default used
// when the raw value is absent.
type Kind int

const (
	// KindOther is an opaque leaf rendered through its natural text form.
	// It has no default, so an absent KindOther leaf cannot be sanitized.
	KindOther Kind = iota

	// KindText is a string leaf. Defaults to "".
	KindText

	// KindInt32 covers 8, 16 and 32 bit integers. Defaults to 0.
	KindInt32

	// KindInt64 covers int, 64 bit and unsigned integers. Defaults to 0.
	KindInt64

	// KindDecimal is a decimal.Decimal leaf. Defaults to decimal.Zero.
	KindDecimal

	// KindFloat covers float32 and float64. Defaults to 0.
	KindFloat

	// KindTime is a time.Time leaf. Defaults to the current time.
	KindTime
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindOther:
		return "other"
	case KindText:
		return "text"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindDecimal:
		return "decimal"
	case KindFloat:
		return "float"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a leaf paired with its declared kind. A nil Raw means the value
// is absent.
type Value struct {
	Kind Kind
	Raw  any
}

// Absent reports whether the raw value is missing.
func (v Value) Absent() bool {
	return v.Raw == nil
}

// Map is the flat, dotted-key mapping the renderer reads from.
type Map map[string]Value

// Text returns a text leaf.
func Text(s string) Value { return Value{Kind: KindText, Raw: s} }

// Int returns an int64 leaf.
func Int(n int64) Value { return Value{Kind: KindInt64, Raw: n} }

// Float returns a float leaf.
func Float(f float64) Value { return Value{Kind: KindFloat, Raw: f} }

// Decimal returns a decimal leaf.
func Decimal(d decimal.Decimal) Value { return Value{Kind: KindDecimal, Raw: d} }

// Time returns a time leaf.
func Time(t time.Time) Value { return Value{Kind: KindTime, Raw: t} }

// Null returns an absent leaf of the given kind.
func Null(kind Kind) Value { return Value{Kind: kind} }

// Of builds a Value from an arbitrary Go value. Pointers are dereferenced,
// and a nil pointer yields an absent leaf of the pointee's kind. Values
// whose type is not leaf-like are tagged KindOther.
func Of(v any) Value {
	if v == nil {
		return Value{Kind: KindOther}
	}
	// Dereferencing a reflect.Type would copy the runtime's type descriptor.
	if t, ok := v.(reflect.Type); ok {
		return Value{Kind: KindOther, Raw: t}
	}
	rv := reflect.ValueOf(v)
	kind, _ := KindOf(rv.Type())
	return Value{Kind: kind, Raw: Raw(rv)}
}

// FromAny converts a plain map into a Map using Of for every entry.
func FromAny(m map[string]any) Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = Of(v)
	}
	return out
}

// Raw dereferences pointers around v and returns the underlying value, or
// nil if any pointer in the chain is nil. An interface is returned as its
// dynamic value without further dereferencing.
func Raw(v reflect.Value) any {
	for v.IsValid() && v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	if v.Kind() == reflect.Interface && v.IsNil() {
		return nil
	}
	return v.Interface()
}

var (
	timeType          = reflect.TypeOf(time.Time{})
	decimalType       = reflect.TypeOf(decimal.Decimal{})
	uuidType          = reflect.TypeOf(uuid.UUID{})
	reflectType       = reflect.TypeOf((*reflect.Type)(nil)).Elem()
	stringerType      = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// KindOf classifies a declared type. The boolean reports whether the type is
// leaf-like; when it is false the type is a composite and the returned kind
// is meaningless. Pointer types are classified by their element.
func KindOf(t reflect.Type) (Kind, bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t {
	case timeType:
		return KindTime, true
	case decimalType:
		return KindDecimal, true
	case uuidType, reflectType:
		return KindOther, true
	}

	switch t.Kind() {
	case reflect.String:
		return KindText, true
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint8, reflect.Uint16:
		return KindInt32, true
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return KindInt64, true
	case reflect.Float32, reflect.Float64:
		return KindFloat, true
	case reflect.Bool, reflect.Complex64, reflect.Complex128:
		return KindOther, true
	case reflect.Struct, reflect.Array:
		if hasTextForm(t) {
			return KindOther, true
		}
	}
	return KindOther, false
}

// hasTextForm reports whether t or *t knows how to print itself.
func hasTextForm(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	return t.Implements(stringerType) || t.Implements(textMarshalerType) ||
		pt.Implements(stringerType) || pt.Implements(textMarshalerType)
}
