package statekit

import "reflect"

// deepClone returns a deep copy of v. Maps, slices, arrays, pointers, and
// structs are copied recursively; everything else (numbers, strings, bools,
// channels, funcs) is copied by value.
//
// The registry clones state on lease entry (the draft), on Read (the
// defensive copy), and when materializing notification snapshots, so no
// caller ever holds a reference into the registry's live state.
func deepClone(v any) any {
	if v == nil {
		return nil
	}
	return cloneValue(reflect.ValueOf(v)).Interface()
}

func cloneValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(cloneValue(iter.Key()), cloneValue(iter.Value()))
		}
		return out

	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(cloneValue(v.Index(i)))
		}
		return out

	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(cloneValue(v.Index(i)))
		}
		return out

	case reflect.Ptr:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(cloneValue(v.Elem()))
		return out

	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			f := out.Field(i)
			if !f.CanSet() {
				// Unexported field: shallow-copy the whole struct value,
				// then overwrite the exported fields with deep copies.
				out = reflect.New(v.Type()).Elem()
				out.Set(v)
				for j := 0; j < v.NumField(); j++ {
					if out.Field(j).CanSet() {
						out.Field(j).Set(cloneValue(v.Field(j)))
					}
				}
				return out
			}
			f.Set(cloneValue(v.Field(i)))
		}
		return out

	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		inner := cloneValue(v.Elem())
		out := reflect.New(v.Type()).Elem()
		out.Set(inner)
		return out

	default:
		return v
	}
}
