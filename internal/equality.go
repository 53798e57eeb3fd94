package internal

import "reflect"

// Equals implements the equality policy selected by EqualsMode (spec §3
// "equalsMode"). The default mode, EqualsStrict, compares comparable values
// with == and falls back to reflect.DeepEqual for non-comparable values
// (slices, maps, funcs, structs holding them), so those are compared deeply
// rather than shallowly unless EqualsShallow is selected.
func Equals(mode EqualsMode, custom func(a, b any) bool, a, b any) bool {
	switch mode {
	case EqualsCustom:
		if custom == nil {
			return false
		}
		return custom(a, b)
	case EqualsDeep:
		return reflect.DeepEqual(a, b)
	case EqualsShallow:
		return shallowEquals(a, b)
	default: // EqualsStrict
		return strictEquals(a, b)
	}
}

// strictEquals fast-paths comparable primitive kinds with == before falling
// back to reflect for everything else, grounded on the defaultEquals type
// switch used by other example reactive libraries in the retrieval pack
// (vango's pkg/vango/signal.go) rather than calling reflect.DeepEqual
// unconditionally.
func strictEquals(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int32:
		bv, ok := b.(int32)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case uint:
		bv, ok := b.(uint)
		return ok && av == bv
	case uint64:
		bv, ok := b.(uint64)
		return ok && av == bv
	case float32:
		bv, ok := b.(float32)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	default:
		av2 := reflect.ValueOf(a)
		if av2.IsValid() && av2.Comparable() {
			bv2 := reflect.ValueOf(b)
			if bv2.IsValid() && av2.Type() == bv2.Type() {
				return av2.Interface() == bv2.Interface()
			}
			return false
		}
		return reflect.DeepEqual(a, b)
	}
}

// shallowEquals compares one level of a map/slice/struct/pointer's fields
// rather than recursing fully, per spec §9.
func shallowEquals(a, b any) bool {
	av := reflect.ValueOf(a)
	bv := reflect.ValueOf(b)

	if !av.IsValid() || !bv.IsValid() {
		return av.IsValid() == bv.IsValid()
	}
	if av.Type() != bv.Type() {
		return false
	}

	switch av.Kind() {
	case reflect.Ptr:
		if av.Pointer() == bv.Pointer() {
			return true
		}
		if av.IsNil() || bv.IsNil() {
			return av.IsNil() && bv.IsNil()
		}
		return strictEquals(av.Elem().Interface(), bv.Elem().Interface())
	case reflect.Slice:
		if av.IsNil() != bv.IsNil() {
			return false
		}
		if av.Len() != bv.Len() {
			return false
		}
		for i := 0; i < av.Len(); i++ {
			if !strictEquals(av.Index(i).Interface(), bv.Index(i).Interface()) {
				return false
			}
		}
		return true
	case reflect.Map:
		if av.IsNil() != bv.IsNil() {
			return false
		}
		if av.Len() != bv.Len() {
			return false
		}
		iter := av.MapRange()
		for iter.Next() {
			bval := bv.MapIndex(iter.Key())
			if !bval.IsValid() || !strictEquals(iter.Value().Interface(), bval.Interface()) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < av.NumField(); i++ {
			af, bf := av.Field(i), bv.Field(i)
			if !af.CanInterface() {
				continue // unexported field: fall back to DeepEqual's unsafe path not worth it here
			}
			if !strictEquals(af.Interface(), bf.Interface()) {
				return false
			}
		}
		return true
	default:
		return strictEquals(a, b)
	}
}
