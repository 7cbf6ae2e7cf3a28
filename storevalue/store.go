// Package storevalue implements the unlocked, cloneable analog of
// typestore: a type-keyed container with value semantics. It holds no
// internal synchronization at all and must be used under single-owner
// discipline; sharing it across concurrent owners requires an external lock
// or an explicit duplicate via Clone.
//
// Because no lock can fail and the contract is deliberately simple, access
// reports absence with a bare boolean instead of an error: a missing type
// and a mismatched type collapse into the same signal.
package storevalue

import (
	"reflect"

	"github.com/davidroman0O/typemap/internal/anyvalue"
	"github.com/davidroman0O/typemap/internal/deepcopy"
)

// Store maps a type identity to one value of that type, without locking.
type Store struct {
	data map[reflect.Type]anyvalue.Value
}

// New constructs an empty Store.
func New() *Store {
	return &Store{data: make(map[reflect.Type]anyvalue.Value)}
}

// Set stores value under its concrete type, silently overwriting any prior
// value of type T.
func Set[T any](s *Store, value T) {
	s.data[anyvalue.TypeOf[T]()] = anyvalue.New(value)
}

// Get retrieves the value stored under type T, reporting false when no
// value of that type is present.
func Get[T any](s *Store) (T, bool) {
	e, ok := s.data[anyvalue.TypeOf[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return anyvalue.As[T](e)
}

// With invokes op with the value stored under type T, reporting false when
// no value of that type is present.
func With[T any, R any](s *Store, op func(value T) R) (R, bool) {
	v, ok := Get[T](s)
	if !ok {
		var zero R
		return zero, false
	}
	return op(v), true
}

// WithMut invokes op with a pointer to the value stored under type T and
// writes the mutated value back, reporting false when no value of that type
// is present.
func WithMut[T any, R any](s *Store, op func(value *T) R) (R, bool) {
	key := anyvalue.TypeOf[T]()
	e, ok := s.data[key]
	if !ok {
		var zero R
		return zero, false
	}
	v, ok := anyvalue.As[T](e)
	if !ok {
		var zero R
		return zero, false
	}
	out := op(&v)
	s.data[key] = anyvalue.New(v)
	return out, true
}

// Remove detaches the value stored under type T, reporting whether one was
// present.
func Remove[T any](s *Store) bool {
	key := anyvalue.TypeOf[T]()
	_, ok := s.data[key]
	delete(s.data, key)
	return ok
}

// Contains reports whether a value of type T is stored.
func Contains[T any](s *Store) bool {
	_, ok := s.data[anyvalue.TypeOf[T]()]
	return ok
}

// Len returns the number of stored values.
func (s *Store) Len() int { return len(s.data) }

// IsEmpty reports whether the Store holds no values.
func (s *Store) IsEmpty() bool { return len(s.data) == 0 }

// Clear removes all values.
func (s *Store) Clear() {
	s.data = make(map[reflect.Type]anyvalue.Value)
}

// Types returns the names of all stored types in unspecified order.
func (s *Store) Types() []string {
	out := make([]string, 0, len(s.data))
	for t := range s.data {
		out = append(out, t.String())
	}
	return out
}

// Clone duplicates the whole Store. The duplicate is fully independent:
// every entry is deep-copied, so mutating one store never affects the
// other. Duplication is a structural deep copy by reflection; a stored type
// that needs its own duplication contract provides a "DeepCopy() any"
// method, which takes precedence. Channels and funcs are carried by
// reference and sit outside the contract.
func (s *Store) Clone() *Store {
	out := New()
	for t, e := range s.data {
		out.data[t] = anyvalue.New(deepcopy.Copy(e.Raw()))
	}
	return out
}
