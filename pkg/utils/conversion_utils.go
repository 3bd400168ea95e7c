package utils

import "strconv"

// Int64ToStr converts an int64 to its decimal string representation.
func Int64ToStr(num int64) string {
	return strconv.FormatInt(num, 10)
}

// StrToInt64 converts a string to an int64.
func StrToInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// NewNullString returns a pointer to s, or nil when s is empty. Useful for
// optional fields that should be omitted from JSON payloads when blank.
func NewNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// NullInt64 returns a pointer to n, or nil when n is zero.
func NullInt64(n int64) *int64 {
	if n == 0 {
		return nil
	}
	return &n
}
