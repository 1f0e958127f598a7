package models

import (
	"fmt"
	"strings"
)

// rawJSONColumn normalizes a scanned database value into a JSON string.
// Empty and NULL columns are reported as "" so callers can substitute a zero value.
func rawJSONColumn(value interface{}) (string, error) {
	if value == nil {
		return "", nil
	}
	var raw string
	switch v := value.(type) {
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return "", fmt.Errorf("unsupported Scan type %T", value)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return "", nil
	}
	return raw, nil
}
