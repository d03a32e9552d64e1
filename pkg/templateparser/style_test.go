package templateparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchPattern(t *testing.T) {
	tests := []struct {
		style   Style
		pattern string
	}{
		{Brace, `\{([a-z0-9_.\-]+)\}`},
		{Bracket, `\[([a-z0-9_.\-]+)\]`},
	}

	for _, tt := range tests {
		t.Run(tt.style.String(), func(t *testing.T) {
			assert.Equal(t, tt.pattern, SearchPattern(tt.style))
			assert.Equal(t, SearchPattern(tt.style), SearchPattern(tt.style))
			assert.Equal(t, tt.pattern, tt.style.Pattern())
		})
	}

	assert.Equal(t, "", SearchPattern(Style(5)))
}

func TestStyle_Valid(t *testing.T) {
	assert.True(t, Brace.Valid())
	assert.True(t, Bracket.Valid())
	assert.False(t, Style(2).Valid())
	assert.False(t, Style(-1).Valid())
}

func TestStyle_String(t *testing.T) {
	assert.Equal(t, "brace", Brace.String())
	assert.Equal(t, "bracket", Bracket.String())
	assert.Equal(t, "style(3)", Style(3).String())
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    Style
		wantErr bool
	}{
		{"brace", Brace, false},
		{"Bracket", Bracket, false},
		{"  BRACE ", Brace, false},
		{"", Brace, false},
		{"angle", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStyle(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStyle)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchers_CaseInsensitive(t *testing.T) {
	assert.True(t, matchers[Brace].MatchString("{CUSTOMER.Name}"))
	assert.True(t, matchers[Bracket].MatchString("[Order-ID]"))
	assert.Equal(t, []string{"{Name}"}, matchers[Bracket].FindAllString("a {Name} b", -1))
	assert.False(t, matchers[Bracket].MatchString("{ Name }"))
}

func TestMatchers_OtherStyleHasNoKey(t *testing.T) {
	m := matchers[Brace].FindStringSubmatch("[Name]")
	require.Len(t, m, 3)
	assert.Equal(t, "[Name]", m[0])
	assert.Equal(t, "", m[2])
}
