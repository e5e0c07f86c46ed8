package tablexpr

import (
	"fmt"
	"strings"
	"time"
)

// CompareValues compares two wire-form values and returns:
//
//	-1 if left < right
//	 0 if left == right
//	 1 if left > right
//
// It understands every kind the compiler ever produces or coerces into:
// int64, float64, string, bool, time.Time, time.Duration. Category
// metadata lookups (sort.Search over an ordered []any) and the demo
// engine's range comparisons both rely on this for a total order, so it must stay
// consistent with the coercions in expr.ConvertValue.
func CompareValues(left, right any) int {
	if left == nil && right == nil {
		return 0
	}
	if left == nil {
		return -1
	}
	if right == nil {
		return 1
	}

	switch l := left.(type) {
	case int:
		return compareNumeric(int64(l), right)
	case int64:
		return compareNumeric(l, right)
	case float64:
		return compareFloat(l, right)
	case string:
		if r, ok := right.(string); ok {
			return strings.Compare(l, r)
		}
		return -1
	case bool:
		if r, ok := right.(bool); ok {
			if !l && r {
				return -1
			} else if l && !r {
				return 1
			}
			return 0
		}
		return -1
	case time.Time:
		if r, ok := right.(time.Time); ok {
			switch {
			case l.Before(r):
				return -1
			case l.After(r):
				return 1
			default:
				return 0
			}
		}
		return -1
	case time.Duration:
		if r, ok := right.(time.Duration); ok {
			return compareInt64s(int64(l), int64(r))
		}
		return -1
	}

	// Fall back to string comparison for unknown but comparable kinds.
	return strings.Compare(stringValue(left), stringValue(right))
}

// compareNumeric compares an int64 with another numeric value.
func compareNumeric(left int64, right any) int {
	switch r := right.(type) {
	case int:
		return compareInt64s(left, int64(r))
	case int64:
		return compareInt64s(left, r)
	case float64:
		return compareFloat(float64(left), right)
	}
	return -1
}

// compareFloat compares a float64 with another numeric value.
func compareFloat(left float64, right any) int {
	switch r := right.(type) {
	case int:
		return compareFloats(left, float64(r))
	case int64:
		return compareFloats(left, float64(r))
	case float64:
		return compareFloats(left, r)
	}
	return -1
}

func compareInt64s(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ValuesEqual reports whether two wire-form values are equal under
// CompareValues's notion of equality.
func ValuesEqual(a, b any) bool {
	if a == b {
		return true
	}
	switch av := a.(type) {
	case int, int64, float64, string, bool:
		return CompareValues(a, b) == 0
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Equal(bv)
		}
	case time.Duration:
		if bv, ok := b.(time.Duration); ok {
			return av == bv
		}
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

// stringValue converts any value to a string for comparison fallback.
func stringValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
