package query

import (
	"strconv"
	"strings"
	"time"
)

// convertValue maps one cell from the external service's wire representation
// (values arrive as strings) to a typed result value:
//
//	INTEGER/INT64   -> int64, nil when empty
//	FLOAT/FLOAT64   -> float64, nil when empty
//	BOOLEAN/BOOL    -> true only for literal "true"/true
//	TIMESTAMP       -> RFC3339 string from epoch seconds, nil when absent
//	anything else   -> passed through unchanged
func convertValue(colType string, v interface{}) interface{} {
	switch strings.ToUpper(colType) {
	case "INTEGER", "INT64":
		s, ok := cellString(v)
		if !ok || s == "" {
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return v
		}
		return n

	case "FLOAT", "FLOAT64":
		s, ok := cellString(v)
		if !ok || s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return v
		}
		return f

	case "BOOLEAN", "BOOL":
		if b, ok := v.(bool); ok {
			return b
		}
		s, _ := cellString(v)
		return s == "true"

	case "TIMESTAMP":
		s, ok := cellString(v)
		if !ok || s == "" {
			return nil
		}
		// Timestamps arrive as fractional epoch seconds, e.g. "1.7005632E9".
		secs, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return v
		}
		sec := int64(secs)
		nsec := int64((secs - float64(sec)) * float64(time.Second))
		return time.Unix(sec, nsec).UTC().Format(time.RFC3339)

	default:
		return v
	}
}

func cellString(v interface{}) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
