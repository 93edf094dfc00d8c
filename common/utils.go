package common

import (
	"cmp"
	"reflect"
)

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
// Works with interface types too, where the zero value is nil. An interface holding a nil pointer
// counts as zero.
//
// Parameters:
//   - values: a variadic list of values in priority order
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero && !isNilValue(v) {
			return v
		}
	}
	return zero
}

func isNilValue(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Clamp limits v to the closed range [lo, hi].
//
// Parameters:
//   - v: the value to clamp
//   - lo: the lower bound
//   - hi: the upper bound
//
// Returns:
//   - T: v limited to the range
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return max(lo, min(v, hi))
}
