// Package intercept defines the sequential intercept stages and parsing of
// the raw per-provider Intercept field.
package intercept

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies a stage in the stored encoding ("1".."6").
type Code string

// Stage is one of the fixed intercept categories.
type Stage struct {
	Code  Code   `json:"code" yaml:"code"`
	Label string `json:"label" yaml:"label"`
}

const (
	CommunityServices Code = "1"
	LawEnforcement    Code = "2"
	DetentionHearings Code = "3"
	JailsCourts       Code = "4"
	Reentry           Code = "5"
	CommCorrections   Code = "6"
)

// stages is the canonical table, in display order.
var stages = []Stage{
	{CommunityServices, "Community Services"},
	{LawEnforcement, "Law Enforcement"},
	{DetentionHearings, "Detention & Hearings"},
	{JailsCourts, "Jails/Courts"},
	{Reentry, "Reentry"},
	{CommCorrections, "Comm Corrections"},
}

// Stages returns the canonical stages in enumeration order.
func Stages() []Stage {
	return append([]Stage(nil), stages...)
}

// Labels returns the stage labels in enumeration order.
func Labels() []string {
	labels := make([]string, len(stages))
	for i, s := range stages {
		labels[i] = s.Label
	}
	return labels
}

// Label returns the display label for a code.
func Label(code Code) (string, bool) {
	for _, s := range stages {
		if s.Code == code {
			return s.Label, true
		}
	}
	return "", false
}

// Lookup returns the stage for a code.
func Lookup(code Code) (Stage, bool) {
	for _, s := range stages {
		if s.Code == code {
			return s, true
		}
	}
	return Stage{}, false
}

// IsKnown reports whether code is in the canonical table.
func (c Code) IsKnown() bool {
	_, ok := Label(c)
	return ok
}

// Weight returns the position of the code in enumeration order.
// Unknown codes sort after every known stage.
func (c Code) Weight() int {
	for i, s := range stages {
		if s.Code == c {
			return i
		}
	}
	return len(stages)
}

// String returns the code as stored.
func (c Code) String() string {
	return string(c)
}

// ErrUnknownCode is returned by ParseCode for tokens outside the stage table.
var ErrUnknownCode = errors.New("unknown intercept code")

// ParseCode parses operator input into a known code. It accepts either the
// code itself or a stage label, case-insensitive.
func ParseCode(s string) (Code, error) {
	s = strings.TrimSpace(s)
	for _, st := range stages {
		if string(st.Code) == s || strings.EqualFold(st.Label, s) {
			return st.Code, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCode, s)
}
