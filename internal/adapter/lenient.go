package adapter

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// flexString decodes strings and numbers alike. Bundlers emit IDs as either;
// numbers are rendered the way JavaScript's String() would for integers.
// Any other JSON type decodes to the empty string.
type flexString string

// UnmarshalJSON implements json.Unmarshaler and never fails.
func (s *flexString) UnmarshalJSON(data []byte) error {
	*s = ""
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err == nil {
			*s = flexString(str)
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return nil
		}
		*s = flexString(formatNumber(n))
	}
	return nil
}

// formatNumber renders integral values without exponent or fraction.
func formatNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// flexSize decodes a byte count. Missing, null, negative and non-numeric
// values all decode to zero.
type flexSize int64

// UnmarshalJSON implements json.Unmarshaler and never fails.
func (s *flexSize) UnmarshalJSON(data []byte) error {
	*s = 0
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return nil
	}
	if f <= 0 || math.IsNaN(f) {
		return nil
	}
	if f >= math.MaxInt64 {
		*s = flexSize(math.MaxInt64)
		return nil
	}
	*s = flexSize(int64(f))
	return nil
}

// flexBool is true only for the JSON literal true.
type flexBool bool

// UnmarshalJSON implements json.Unmarshaler and never fails.
func (b *flexBool) UnmarshalJSON(data []byte) error {
	*b = flexBool(string(bytes.TrimSpace(data)) == "true")
	return nil
}

// isNull reports whether raw is absent or the JSON literal null.
func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || string(trimmed) == "null"
}

// decodeArray decodes raw as an array of T. A value that is not an array
// yields nil, and elements that fail to decode are skipped.
func decodeArray[T any](raw json.RawMessage) []T {
	if isNull(raw) {
		return nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}

	result := make([]T, 0, len(elems))
	for _, elem := range elems {
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			continue
		}
		result = append(result, v)
	}
	return result
}

// decodeIDs decodes an ID list, dropping empty entries and duplicates
// while keeping first-seen order.
func decodeIDs(raw json.RawMessage) []string {
	ids := make([]string, 0)
	for _, id := range decodeArray[flexString](raw) {
		ids = appendUnique(ids, string(id))
	}
	return ids
}

// firstRun decodes the first element of a bundle-stats runs array.
func firstRun[T any](raw json.RawMessage) (T, bool) {
	var zero T
	if isNull(raw) {
		return zero, false
	}

	var runs []json.RawMessage
	if err := json.Unmarshal(raw, &runs); err != nil || len(runs) == 0 {
		return zero, false
	}

	var run T
	if err := json.Unmarshal(runs[0], &run); err != nil {
		return zero, false
	}
	return run, true
}

// appendUnique appends s unless it is empty or already present.
func appendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
