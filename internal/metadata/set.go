package metadata

import (
	"encoding/json"
	"sort"
	"strings"
)

// StringSet is an unordered, duplicate-free collection of strings that
// marshals as a sorted list so CLI output and round-trip files stay stable.
type StringSet map[string]struct{}

// NewStringSet returns an empty set, optionally seeded with values.
func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts a value. Empty strings are ignored.
func (s StringSet) Add(v string) {
	if v == "" {
		return
	}
	s[v] = struct{}{}
}

// Has reports membership.
func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of members.
func (s StringSet) Len() int { return len(s) }

// Items returns the members sorted case-insensitively.
func (s StringSet) Items() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// Join returns the sorted members joined by sep.
func (s StringSet) Join(sep string) string {
	return strings.Join(s.Items(), sep)
}

func (s StringSet) MarshalYAML() (any, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return s.Items(), nil
}

func (s *StringSet) UnmarshalYAML(unmarshal func(any) error) error {
	var items []string
	if err := unmarshal(&items); err != nil {
		return err
	}
	*s = NewStringSet(items...)
	return nil
}

func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Items())
}

func (s *StringSet) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = NewStringSet(items...)
	return nil
}
