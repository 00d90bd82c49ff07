package intercept

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Set
	}{
		{"empty", "", NewSet()},
		{"whitespace only", "   ", NewSet()},
		{"comma list", "1,2,3", NewSet("1", "2", "3")},
		{"digit string", "123", NewSet("1", "2", "3")},
		{"whitespace tolerant", "1, 2 ,3", NewSet("1", "2", "3")},
		{"empty tokens dropped", "1,,3,", NewSet("1", "3")},
		{"single code", "4", NewSet("4")},
		{"unknown token kept", "x", NewSet("x")},
		{"padded digit string", " 56 ", NewSet("5", "6")},
		{"repeated digits", "112", NewSet("1", "2")},
		{"multi-char tokens in list", "12,3", NewSet("12", "3")},
		{"non-digit single token", "1 2", NewSet("1 2")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseUnknownTokenHasNoLabel(t *testing.T) {
	set := Parse("x")
	assert.Equal(t, []Code{"x"}, set.Unknown())
	assert.Empty(t, set.Labels())
	assert.Equal(t, 0, set.Known().Len())
}

func TestSetString(t *testing.T) {
	tests := []struct {
		set  Set
		want string
	}{
		{NewSet(), ""},
		{NewSet("4", "2"), "2,4"},
		{NewSet("6", "1", "3"), "1,3,6"},
		{NewSet("x", "2"), "2,x"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.set.String())
		})
	}
}

// Every non-empty subset of the stage table must survive a
// serialize/parse cycle unchanged.
func TestSetStringParseRoundTrip(t *testing.T) {
	all := Stages()
	for mask := 1; mask < 1<<len(all); mask++ {
		set := NewSet()
		for i, st := range all {
			if mask&(1<<i) != 0 {
				set.Add(st.Code)
			}
		}
		got := Parse(set.String())
		if !got.Equal(set) {
			t.Fatalf("Parse(%q) = %#v, want %#v", set.String(), got, set)
		}
	}
}

func TestStagesTable(t *testing.T) {
	want := []Stage{
		{"1", "Community Services"},
		{"2", "Law Enforcement"},
		{"3", "Detention & Hearings"},
		{"4", "Jails/Courts"},
		{"5", "Reentry"},
		{"6", "Comm Corrections"},
	}
	assert.Equal(t, want, Stages())

	// Callers must not be able to reorder the canonical table.
	s := Stages()
	s[0], s[1] = s[1], s[0]
	assert.Equal(t, want, Stages())
}

func TestLabel(t *testing.T) {
	label, ok := Label("3")
	require.True(t, ok)
	assert.Equal(t, "Detention & Hearings", label)

	_, ok = Label("0")
	assert.False(t, ok)
	_, ok = Label("7")
	assert.False(t, ok)
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		input   string
		want    Code
		wantErr bool
	}{
		{"1", CommunityServices, false},
		{" 6 ", CommCorrections, false},
		{"reentry", Reentry, false},
		{"Jails/Courts", JailsCourts, false},
		{"7", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnknownCode) {
				t.Errorf("ParseCode(%q) error = %v, want ErrUnknownCode", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseCode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCodes(t *testing.T) {
	set, err := ParseCodes("2,4", "6")
	require.NoError(t, err)
	assert.Equal(t, "2,4,6", set.String())

	set, err = ParseCodes("1", "Law Enforcement")
	require.NoError(t, err)
	assert.Equal(t, "1,2", set.String())

	_, err = ParseCodes("1", "9")
	assert.ErrorIs(t, err, ErrUnknownCode)

	set, err = ParseCodes()
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestCodeWeight(t *testing.T) {
	assert.Equal(t, 0, CommunityServices.Weight())
	assert.Equal(t, 5, CommCorrections.Weight())
	assert.Equal(t, 6, Code("x").Weight())
}
