package pipeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Raw extract rows arrive as loosely typed maps (JSON bodies, CSV cells,
// spreadsheet cells). These helpers coerce the common encodings.

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/06 15:04:05",
	"1/2/06",
	"01-02-06",
	"02-Jan-06",
	"2/1/2006",
}

func fieldTime(row map[string]any, key string) (time.Time, error) {
	v, ok := row[key]
	if !ok || v == nil {
		return time.Time{}, fmt.Errorf("missing required field %q", key)
	}
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		parsed, err := parseDate(t)
		if err != nil {
			return time.Time{}, fmt.Errorf("field %q: %w", key, err)
		}
		return parsed, nil
	default:
		return time.Time{}, fmt.Errorf("field %q: %T is not a date", key, v)
	}
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func fieldFloat(row map[string]any, key string) (float64, error) {
	v, ok := row[key]
	if !ok || v == nil {
		return 0, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(n, ",", ""))
		if s == "" {
			return 0, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("field %q: invalid number %q", key, n)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("field %q: %T is not a number", key, v)
	}
}

func fieldInt(row map[string]any, key string) (int, error) {
	f, err := fieldFloat(row, key)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func fieldStringOr(row map[string]any, key, fallback string) string {
	v, ok := row[key]
	if !ok || v == nil {
		return fallback
	}
	switch s := v.(type) {
	case string:
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}
