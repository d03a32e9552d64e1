package templateparser

import (
	"errors"
	"fmt"
)

// Sentinel errors for rendering.
var (
	// ErrNilTemplate indicates Render was called on a nil *Parser.
	ErrNilTemplate = errors.New("template cannot be nil")

	// ErrNilVariables indicates Render was called with a nil value map.
	ErrNilVariables = errors.New("variables cannot be nil")

	// ErrInvalidStyle indicates a Style other than Brace or Bracket.
	ErrInvalidStyle = errors.New("invalid placeholder style")
)

// Sentinel errors for the template library.
var (
	// ErrUnknownTemplate indicates a library lookup for a name never added.
	ErrUnknownTemplate = errors.New("unknown template")
)

// RenderError reports a placeholder whose value could not be turned into text.
type RenderError struct {
	// Key is the placeholder key.
	Key string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("render placeholder %q: %v", e.Key, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// LibraryError wraps a failure of a named library operation.
type LibraryError struct {
	// Op is the operation that failed ("add", "load", "remove", "list").
	Op string
	// Name is the template name, empty for "list".
	Name string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *LibraryError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("library %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("library %s %q: %v", e.Op, e.Name, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *LibraryError) Unwrap() error {
	return e.Err
}
