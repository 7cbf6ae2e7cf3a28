// Package anyvalue implements the type-erased value holder shared by the
// container packages. A Value pairs a stored Go value with the reflect.Type
// that was captured when it was wrapped; recovery always validates the
// requested type against that recorded identity before any type assertion.
//
// The package performs no locking. Concurrency is the responsibility of the
// containers that embed a Value in their entries.
package anyvalue

import "reflect"

// Value is an erased holder for exactly one concrete value.
type Value struct {
	typ  reflect.Type
	kind reflect.Kind
	val  any
}

// New wraps a value, recording its concrete type. Wrapping nil yields a
// Value with a nil identity; every typed recovery on it fails.
func New(v any) Value {
	if v == nil {
		return Value{kind: reflect.Invalid}
	}
	t := reflect.TypeOf(v)
	return Value{typ: t, kind: t.Kind(), val: v}
}

// TypeOf returns the process-stable identity of T without needing a value.
// Unlike reflect.TypeOf on an interface argument, this preserves interface
// types instead of collapsing to the dynamic type.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Type returns the recorded identity, nil for a wrapped nil.
func (v Value) Type() reflect.Type { return v.typ }

// Kind returns the cached kind of the recorded identity.
func (v Value) Kind() reflect.Kind { return v.kind }

// IsNil reports whether the holder wraps nil.
func (v Value) IsNil() bool { return v.typ == nil }

// Raw returns the stored value without any type check. Container packages
// use it to feed capability conversions; it never crosses a public API.
func (v Value) Raw() any { return v.val }

// Is reports whether the stored value's identity is exactly t.
func (v Value) Is(t reflect.Type) bool { return v.typ == t }

// As recovers the stored value as T. Concrete T requires an exact identity
// match; interface T succeeds when the stored type implements it. The type
// assertion only runs after the identity check passes, so a false return is
// the only failure mode.
func As[T any](v Value) (T, bool) {
	var zero T
	if v.typ == nil {
		return zero, false
	}

	want := TypeOf[T]()
	if want.Kind() == reflect.Interface {
		if !v.typ.Implements(want) {
			return zero, false
		}
		out, ok := v.val.(T)
		return out, ok
	}

	if v.typ != want {
		return zero, false
	}
	out, ok := v.val.(T)
	return out, ok
}
