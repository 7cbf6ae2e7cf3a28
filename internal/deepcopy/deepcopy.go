// Package deepcopy duplicates arbitrary Go values by reflection. It backs
// the cloneable container's whole-store duplication: two copies of a value
// must never share mutable state.
package deepcopy

import "reflect"

// Copier lets a type supply its own duplication logic. Types holding
// unexported state, or state that a structural copy would alias, implement
// Copier and are duplicated through it instead of the reflect walk.
type Copier interface {
	DeepCopy() any
}

// Copy returns a duplicate of v with no shared mutable state. Pointers,
// structs, maps, slices and arrays are duplicated recursively; primitive
// values are copied by assignment. Channels and funcs are reference types
// with no meaningful duplicate and are carried over as-is; storing them in
// a cloneable container puts them outside the duplication contract.
func Copy(v any) any {
	if v == nil {
		return nil
	}

	if c, ok := v.(Copier); ok {
		return c.DeepCopy()
	}

	t := reflect.TypeOf(v)
	switch t.Kind() {
	case reflect.Ptr:
		rv := reflect.ValueOf(v)
		if rv.IsNil() {
			return v
		}
		out := reflect.New(t.Elem())
		elem := Copy(rv.Elem().Interface())
		out.Elem().Set(reflect.ValueOf(elem))
		return out.Interface()

	case reflect.Struct:
		rv := reflect.ValueOf(v)
		out := reflect.New(t).Elem()
		// Whole-struct assignment carries unexported fields across; exported
		// fields are then replaced with recursive copies. Unexported pointer
		// state stays shared; types that care implement Copier.
		out.Set(rv)
		for i := 0; i < t.NumField(); i++ {
			field := rv.Field(i)
			if !field.CanInterface() {
				continue
			}
			fc := Copy(field.Interface())
			if fc != nil {
				out.Field(i).Set(reflect.ValueOf(fc))
			}
		}
		return out.Interface()

	case reflect.Map:
		rv := reflect.ValueOf(v)
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(t, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			vc := Copy(iter.Value().Interface())
			if vc == nil {
				out.SetMapIndex(iter.Key(), reflect.Zero(t.Elem()))
				continue
			}
			out.SetMapIndex(iter.Key(), reflect.ValueOf(vc))
		}
		return out.Interface()

	case reflect.Slice:
		rv := reflect.ValueOf(v)
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(t, rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ec := Copy(rv.Index(i).Interface())
			if ec != nil {
				out.Index(i).Set(reflect.ValueOf(ec))
			}
		}
		return out.Interface()

	case reflect.Array:
		rv := reflect.ValueOf(v)
		out := reflect.New(t).Elem()
		for i := 0; i < rv.Len(); i++ {
			ec := Copy(rv.Index(i).Interface())
			if ec != nil {
				out.Index(i).Set(reflect.ValueOf(ec))
			}
		}
		return out.Interface()

	default:
		return v
	}
}
