package templateparser

// escapes maps the character after a backslash to its replacement.
var escapes = map[rune]string{
	'r':  "\r",
	'n':  "\n",
	'\\': "\\",
	'{':  "{",
}

// Unescape returns the replacement for the escape sequence `\c`. The lookup
// is case-sensitive; unknown characters report false.
func Unescape(c rune) (string, bool) {
	s, ok := escapes[c]
	return s, ok
}
