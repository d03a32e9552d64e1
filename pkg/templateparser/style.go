package templateparser

import (
	"fmt"
	"regexp"
	"strings"
)

// Style selects the delimiter pair that marks a placeholder.
type Style int

const (
	// Brace matches {key}. It is the default style.
	Brace Style = iota

	// Bracket matches [key].
	Bracket
)

// searchPatterns maps each style to the pattern its placeholders match.
var searchPatterns = map[Style]string{
	Brace:   `\{([a-z0-9_.\-]+)\}`,
	Bracket: `\[([a-z0-9_.\-]+)\]`,
}

// escapePattern matches a backslash and the single character after it.
const escapePattern = `\\(.)`

// matchers holds the compiled scan pattern per style, matched
// case-insensitively: the escape pattern, then the style's placeholder
// pattern, then the other style's token so that it renders empty. Only the
// second group carries a key.
var matchers = func() map[Style]*regexp.Regexp {
	m := make(map[Style]*regexp.Regexp, len(searchPatterns))
	for style, pattern := range searchPatterns {
		foreign := strings.ReplaceAll(searchPatterns[style.other()], "(", "(?:")
		m[style] = regexp.MustCompile(`(?is)` + escapePattern + `|` + pattern + `|` + foreign)
	}
	return m
}()

// SearchPattern returns the placeholder pattern for style, or "" when the
// style is not one of Brace or Bracket.
func SearchPattern(style Style) string {
	return searchPatterns[style]
}

// Pattern returns the placeholder pattern for s.
func (s Style) Pattern() string {
	return SearchPattern(s)
}

// Valid reports whether s is a known style.
func (s Style) Valid() bool {
	_, ok := searchPatterns[s]
	return ok
}

// String returns the style name.
func (s Style) String() string {
	switch s {
	case Brace:
		return "brace"
	case Bracket:
		return "bracket"
	default:
		return fmt.Sprintf("style(%d)", int(s))
	}
}

// open returns the opening delimiter byte.
func (s Style) open() byte {
	if s == Bracket {
		return '['
	}
	return '{'
}

// other returns the style whose tokens s blanks out.
func (s Style) other() Style {
	if s == Bracket {
		return Brace
	}
	return Bracket
}

// ParseStyle maps a style name ("brace" or "bracket", any case) to a Style.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "brace", "":
		return Brace, nil
	case "bracket":
		return Bracket, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidStyle, name)
	}
}
