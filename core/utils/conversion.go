package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToInt converts various types to int using explicit type switching.
// It handles standard integer types, floats, strings, and byte slices.
// The second return reports whether the value was numeric at all; a
// non-numeric string yields (0, false).
func ToInt(val any) (int, bool) {
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case int32:
		return int(v), true
	case int16:
		return int(v), true
	case int8:
		return int(v), true
	case uint:
		return int(v), true
	case uint64:
		return int(v), true
	case uint32:
		return int(v), true
	case uint16:
		return int(v), true
	case uint8:
		return int(v), true
	case float64:
		// JSON numbers arrive as float64; reject fractional values.
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case float32:
		return ToInt(float64(v))
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		return i, err == nil
	case []byte:
		return ToInt(string(v))
	default:
		s := fmt.Sprintf("%v", v)
		i, err := strconv.Atoi(s)
		return i, err == nil
	}
}
