package domain

// IsEmptyField reports whether a field value counts as "missing" for merge
// strategies and completeness scoring. Typed nil pointers, empty strings,
// empty slices and zero numbers are all empty; false booleans are not a
// meaningful signal either way and count as empty.
func IsEmptyField(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []string:
		return len(val) == 0
	case *float64:
		return val == nil
	case *int:
		return val == nil
	case float64:
		return val == 0
	case int:
		return val == 0
	case bool:
		return !val
	default:
		return false
	}
}
