package metadata

import (
	"strconv"
	"strings"
)

// ParseDateStr parses a loose date string into day, month and year.
// Accepted shapes are YYYY, YYYY-MM and YYYY-MM-DD; any component that is
// missing or unparseable stays nil. Sources fill the value attribute with
// all three shapes, so partial results are normal.
func ParseDateStr(s string) (day, month, year *int) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil, nil
	}
	parts := strings.SplitN(s, "-", 3)
	if len(parts) >= 1 {
		if y, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil {
			year = &y
		}
	}
	if len(parts) >= 2 {
		if m, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil && m >= 1 && m <= 12 {
			month = &m
		}
	}
	if len(parts) >= 3 {
		// Trim a time suffix if a full timestamp slipped in.
		d := parts[2]
		if i := strings.IndexAny(d, "T "); i >= 0 {
			d = d[:i]
		}
		if v, err := strconv.Atoi(strings.TrimSpace(d)); err == nil && v >= 1 && v <= 31 {
			day = &v
		}
	}
	return day, month, year
}

// SplitTrim splits s on sep, trims whitespace from each piece and drops
// empties.
func SplitTrim(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
