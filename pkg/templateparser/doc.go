/*
Package templateparser substitutes placeholder tokens in strings.

# Overview

A template contains placeholders such as {Name} or [Name]. Rendering scans
the template once, left to right, and replaces each placeholder with the
text form of the matching value from a leaf.Map. Keys are one or more of
letters, digits, underscore, period or hyphen. Placeholders with no value
render as nothing, never as the token text.

# Basic Usage

Bind a template to a Parser and render it with a style:

	p := templateparser.New("Hello my name is {Name} {LastName}")
	out, err := p.Render(leaf.Map{
	    "Name":     leaf.Text("Jon"),
	    "LastName": leaf.Text("Doe"),
	}, templateparser.Brace)
	// out: "Hello my name is Jon Doe"

Or render a template string directly:

	out, err := templateparser.Render("[Greeting], [Name]!", vars, templateparser.Bracket)

# Styles

Two styles select the delimiters a placeholder uses:

  - Brace matches {key}
  - Bracket matches [key]

Tokens of the other style render as nothing and are never looked up, so
"{Name}" rendered with Bracket is "". SearchPattern exposes the
regular expression for each style.

# Escapes

A backslash and the character after it form an escape. \r, \n and \\
render as carriage return, newline and backslash, and \{ renders a literal
brace so that \{Name} stays "{Name}". Any other escape renders as nothing.

# Missing and Absent Values

A key with no entry in the map renders as "". A key whose leaf is absent
renders as the default for its kind: "" for text, 0 for numbers and
decimals, the current time for time leaves. An absent leaf of KindOther has
no default and fails the render with a *RenderError wrapping
leaf.ErrUnsupportedKind.

# Rendering Structs

RenderObject flattens a value with project.Project and renders the result.
Keys are "<TypeName>.<Field>" of the struct that declares each field:

	type Customer struct{ Name string }

	out, err := templateparser.RenderObject("Dear {Customer.Name}", &Customer{Name: "Jon"}, templateparser.Brace)

# Library

A Library keeps named templates in a store.Store and caches their parsers:

	lib, err := templateparser.OpenLibrary(config.Default())
	lib.Add("welcome", "Welcome, {Name}!")
	out, err := lib.Render("welcome", vars)

# Observability

Options attach a slog logger, an OpenTelemetry metrics recorder and a span
manager. All three are disabled by default.

	p := templateparser.New(tmpl,
	    templateparser.WithLogger(logger),
	    templateparser.WithMetrics(observability.NewMetricsRecorder()),
	    templateparser.WithSpanManager(observability.NewSpanManager()),
	)

# Thread Safety

Parser is immutable and safe for concurrent use. Library and the stores
are safe for concurrent use. Package-level functions share default settings.
*/
package templateparser
