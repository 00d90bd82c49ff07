package intercept

import (
	"fmt"
	"sort"
	"strings"
)

// Set is a set of stage codes, stored as a comma-separated string.
type Set map[Code]struct{}

// NewSet creates a Set from codes. Blank codes are ignored.
func NewSet(codes ...Code) Set {
	s := make(Set)
	for _, c := range codes {
		s.Add(c)
	}
	return s
}

// Parse normalizes a raw Intercept field into a set of codes.
//
// The field is filled in by hand, so three shapes are accepted: a
// comma-separated list ("1, 3"), a bare digit string from older rows ("13"),
// or a single token which is kept verbatim even when it is not a known code.
// Parse never fails; unusable input yields an empty or partial set.
func Parse(raw string) Set {
	set := make(Set)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return set
	}

	if strings.Contains(raw, ",") {
		for _, tok := range strings.Split(raw, ",") {
			set.Add(Code(tok))
		}
		return set
	}

	if isDigits(raw) {
		for _, r := range raw {
			set.Add(Code(string(r)))
		}
		return set
	}

	set.Add(Code(raw))
	return set
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// ParseCodes parses operator input strictly. Each argument may itself be a
// comma-separated list. Every token must name a known stage.
func ParseCodes(args ...string) (Set, error) {
	set := make(Set)
	for _, arg := range args {
		for _, tok := range strings.Split(arg, ",") {
			if strings.TrimSpace(tok) == "" {
				continue
			}
			code, err := ParseCode(tok)
			if err != nil {
				return nil, err
			}
			set.Add(code)
		}
	}
	return set, nil
}

// Add adds a code to the set.
func (s Set) Add(code Code) {
	if code = Code(strings.TrimSpace(string(code))); code != "" {
		s[code] = struct{}{}
	}
}

// Contains checks if a code is in the set.
func (s Set) Contains(code Code) bool {
	_, ok := s[code]
	return ok
}

// Len returns the number of codes.
func (s Set) Len() int {
	return len(s)
}

// Equal reports whether both sets hold the same codes.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for c := range s {
		if !other.Contains(c) {
			return false
		}
	}
	return true
}

// Slice returns the codes in stage order; unknown tokens follow, sorted.
func (s Set) Slice() []Code {
	codes := make([]Code, 0, len(s))
	for c := range s {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool {
		wi, wj := codes[i].Weight(), codes[j].Weight()
		if wi != wj {
			return wi < wj
		}
		return codes[i] < codes[j]
	})
	return codes
}

// Strings returns the codes as plain strings, in Slice order.
func (s Set) Strings() []string {
	codes := s.Slice()
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}

// String returns the stored form, e.g. "2,4".
func (s Set) String() string {
	return strings.Join(s.Strings(), ",")
}

// Known returns the subset of codes present in the stage table.
func (s Set) Known() Set {
	known := make(Set)
	for c := range s {
		if c.IsKnown() {
			known[c] = struct{}{}
		}
	}
	return known
}

// Unknown returns the tokens that do not map to any stage.
func (s Set) Unknown() []Code {
	var unknown []Code
	for _, c := range s.Slice() {
		if !c.IsKnown() {
			unknown = append(unknown, c)
		}
	}
	return unknown
}

// Labels returns the labels of the known codes, in stage order.
func (s Set) Labels() []string {
	var labels []string
	for _, c := range s.Slice() {
		if label, ok := Label(c); ok {
			labels = append(labels, label)
		}
	}
	return labels
}

// GoString helps test failure output.
func (s Set) GoString() string {
	return fmt.Sprintf("intercept.Set{%s}", s.String())
}
