package leaf

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnsupportedKind indicates an absent leaf whose kind has no default.
var ErrUnsupportedKind = errors.New("unsupported leaf kind")

// Sanitizer replaces absent leaf values with a default for their kind.
// The zero value uses time.Now as its clock.
type Sanitizer struct {
	// Now supplies the default for absent KindTime leaves.
	Now func() time.Time
}

// Sanitize returns the raw value when present, otherwise the default for
// the leaf's kind. Absent KindOther leaves fail with ErrUnsupportedKind.
func (s Sanitizer) Sanitize(v Value) (any, error) {
	if v.Raw != nil {
		return v.Raw, nil
	}
	switch v.Kind {
	case KindText:
		return "", nil
	case KindInt32:
		return int32(0), nil
	case KindInt64:
		return int64(0), nil
	case KindDecimal:
		return decimal.Zero, nil
	case KindFloat:
		return float64(0), nil
	case KindTime:
		return s.now(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, v.Kind)
	}
}

// Format sanitizes v and returns its display string.
func (s Sanitizer) Format(v Value) (string, error) {
	sanitized, err := s.Sanitize(v)
	if err != nil {
		return "", err
	}
	return Display(sanitized), nil
}

func (s Sanitizer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

var defaultSanitizer = Sanitizer{}

// Sanitize uses a Sanitizer backed by time.Now.
func Sanitize(v Value) (any, error) {
	return defaultSanitizer.Sanitize(v)
}

// Format uses a Sanitizer backed by time.Now.
func Format(v Value) (string, error) {
	return defaultSanitizer.Format(v)
}

// Display returns the text form of a sanitized value. nil renders as "".
// Times use RFC 3339 so the monotonic clock reading never leaks into output.
func Display(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	case encoding.TextMarshaler:
		if b, err := val.MarshalText(); err == nil {
			return string(b)
		}
	}

	// Pointer-receiver String methods are only reachable through an
	// addressable copy.
	rv := reflect.ValueOf(v)
	ptr := reflect.New(rv.Type())
	ptr.Elem().Set(rv)
	switch p := ptr.Interface().(type) {
	case fmt.Stringer:
		return p.String()
	case encoding.TextMarshaler:
		if b, err := p.MarshalText(); err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(v)
}
