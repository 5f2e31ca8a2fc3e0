package utils

import (
	"encoding/json"
	"fmt"
)

// Truncate returns the runes of message in the window [start, end).
// Offsets beyond the message are clamped, so it never panics.
func Truncate(message string, start, end int) string {
	runes := []rune(message)
	if start < 0 {
		start = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	if start >= end {
		return ""
	}
	return string(runes[start:end])
}

// ToContent converts a decoded payload to the text handed to the diff.
// Strings are kept verbatim, raw JSON is passed through and anything else is
// re-encoded as JSON.
func ToContent(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case json.RawMessage:
		return string(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}
