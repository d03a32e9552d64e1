package templateparser

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/templateparser/pkg/templateparser/leaf"
	"github.com/randalmurphal/templateparser/pkg/templateparser/observability"
	"github.com/randalmurphal/templateparser/pkg/templateparser/project"
)

// Parser renders one template string.
//
// Create with New and configure with Option functions.
// Parser is immutable and safe for concurrent use.
type Parser struct {
	template string
	settings
}

// New creates a Parser bound to template.
//
// Example:
//
//	p := New("Hello my name is {Name} {LastName}")
//	out, err := p.Render(leaf.Map{
//	    "Name":     leaf.Text("Jon"),
//	    "LastName": leaf.Text("Doe"),
//	}, Brace)
//	// out: "Hello my name is Jon Doe"
func New(template string, opts ...Option) *Parser {
	return &Parser{
		template: template,
		settings: newSettings(opts...),
	}
}

// Template returns the template string the parser was created with.
func (p *Parser) Template() string {
	if p == nil {
		return ""
	}
	return p.template
}

// Render replaces the placeholders of the parser's template with values
// from vars, using style to recognize placeholders.
//
// Placeholders with no entry in vars render as "", and so do tokens of the
// other style. Escape sequences
// \r, \n, \\ and \{ render as their literal character; any other escape
// renders as "".
func (p *Parser) Render(vars leaf.Map, style Style) (string, error) {
	return p.RenderContext(context.Background(), vars, style)
}

// RenderContext is Render with a context for tracing.
func (p *Parser) RenderContext(ctx context.Context, vars leaf.Map, style Style) (string, error) {
	if p == nil {
		return "", ErrNilTemplate
	}
	return p.render(ctx, p.template, vars, style)
}

// Execute renders with the parser's configured style (Brace unless
// WithStyle was given).
func (p *Parser) Execute(vars leaf.Map) (string, error) {
	if p == nil {
		return "", ErrNilTemplate
	}
	return p.Render(vars, p.style)
}

// MustRender renders and panics on error.
//
// Errors only arise from a nil map, an invalid style, or an absent leaf
// with no default, so this is safe for maps built by project.Project over
// plain structs.
func (p *Parser) MustRender(vars leaf.Map, style Style) string {
	result, err := p.Render(vars, style)
	if err != nil {
		panic(fmt.Sprintf("templateparser: %v", err))
	}
	return result
}

// RenderObject projects source with project.Project and renders the result.
func (p *Parser) RenderObject(source any, style Style) (string, error) {
	return p.RenderObjectContext(context.Background(), source, style)
}

// RenderObjectContext is RenderObject with a context for tracing.
func (p *Parser) RenderObjectContext(ctx context.Context, source any, style Style) (string, error) {
	if p == nil {
		return "", ErrNilTemplate
	}
	vars, err := p.project(ctx, source)
	if err != nil {
		return "", err
	}
	return p.render(ctx, p.template, vars, style)
}

// Keys returns the distinct placeholder keys of the template in order of
// first appearance. Escaped delimiters do not start a placeholder.
func (p *Parser) Keys(style Style) []string {
	if p == nil {
		return nil
	}
	return Keys(p.template, style)
}

// renderStats counts what happened to each match in one render.
type renderStats struct {
	resolved int
	missing  int
	dropped  int
}

func (s *settings) render(ctx context.Context, template string, vars leaf.Map, style Style) (string, error) {
	start := time.Now()
	ctx, span := s.spans.StartRenderSpan(ctx, style.String(), len(template))

	out, stats, err := s.replace(ctx, template, vars, style)

	elapsed := time.Since(start)
	s.metrics.RecordRender(ctx, style.String(), elapsed, stats.missing, err)
	s.spans.EndSpanWithError(span, err)
	if err != nil {
		observability.LogRenderError(s.logger, style.String(), err)
		return "", err
	}
	observability.LogRender(s.logger, style.String(), stats.resolved, stats.missing, milliseconds(elapsed))
	return out, nil
}

// replace performs the single scan over template.
func (s *settings) replace(ctx context.Context, template string, vars leaf.Map, style Style) (string, renderStats, error) {
	var stats renderStats
	if vars == nil {
		return "", stats, ErrNilVariables
	}
	re, ok := matchers[style]
	if !ok {
		return "", stats, fmt.Errorf("%w: %s", ErrInvalidStyle, style)
	}

	var firstErr error
	open := style.open()
	out := re.ReplaceAllStringFunc(template, func(match string) string {
		switch match[0] {
		case '\\':
			c, _ := utf8.DecodeRuneInString(match[1:])
			if replacement, ok := Unescape(c); ok {
				return replacement
			}
			stats.dropped++
			observability.LogDroppedEscape(s.logger, match)
			s.spans.AddSpanEvent(ctx, "escape.dropped", attribute.String("sequence", match))
			return ""
		case open:
			key := match[1 : len(match)-1]
			v, ok := vars[key]
			if !ok {
				stats.missing++
				return ""
			}
			text, err := s.sanitizer.Format(v)
			if err != nil {
				if firstErr == nil {
					firstErr = &RenderError{Key: key, Err: err}
				}
				return ""
			}
			stats.resolved++
			return text
		}
		// The other style's token.
		return ""
	})

	if firstErr != nil {
		return "", stats, firstErr
	}
	return out, stats, nil
}

func (s *settings) project(ctx context.Context, source any) (leaf.Map, error) {
	typeName := fmt.Sprintf("%T", source)
	start := time.Now()
	ctx, span := s.spans.StartProjectSpan(ctx, typeName)

	vars, err := project.Project(source)
	s.spans.EndSpanWithError(span, err)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	s.metrics.RecordProjection(ctx, typeName, len(vars), elapsed)
	observability.LogProjection(s.logger, typeName, len(vars), milliseconds(elapsed))
	return vars, nil
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// defaults backs the package-level functions.
var defaults = newSettings()

// Render renders template with vars using style.
//
// Example:
//
//	out, _ := templateparser.Render("[Greeting], [Name]!", leaf.Map{
//	    "Greeting": leaf.Text("Hello"),
//	    "Name":     leaf.Text("World"),
//	}, templateparser.Bracket)
//	// out: "Hello, World!"
func Render(template string, vars leaf.Map, style Style) (string, error) {
	return defaults.render(context.Background(), template, vars, style)
}

// MustRender renders template and panics on error.
func MustRender(template string, vars leaf.Map, style Style) string {
	result, err := Render(template, vars, style)
	if err != nil {
		panic(fmt.Sprintf("templateparser: %v", err))
	}
	return result
}

// RenderAll renders every template with the same vars.
// On error it returns nil and the first error.
func RenderAll(templates []string, vars leaf.Map, style Style) ([]string, error) {
	if templates == nil {
		return nil, nil
	}
	results := make([]string, len(templates))
	for i, t := range templates {
		out, err := Render(t, vars, style)
		if err != nil {
			return nil, err
		}
		results[i] = out
	}
	return results, nil
}

// RenderObject projects source and renders template with the result.
func RenderObject(template string, source any, style Style) (string, error) {
	ctx := context.Background()
	vars, err := defaults.project(ctx, source)
	if err != nil {
		return "", err
	}
	return defaults.render(ctx, template, vars, style)
}

// Keys returns the distinct placeholder keys of template in order of first
// appearance. It returns nil for an invalid style.
func Keys(template string, style Style) []string {
	re, ok := matchers[style]
	if !ok {
		return nil
	}
	var keys []string
	seen := make(map[string]struct{})
	for _, m := range re.FindAllStringSubmatch(template, -1) {
		key := m[2]
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}
