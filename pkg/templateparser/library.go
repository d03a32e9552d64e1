package templateparser

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/randalmurphal/templateparser/pkg/templateparser/leaf"
	"github.com/randalmurphal/templateparser/pkg/templateparser/observability"
	"github.com/randalmurphal/templateparser/pkg/templateparser/registry"
	"github.com/randalmurphal/templateparser/pkg/templateparser/store"
)

// Library renders named templates kept in a store.Store.
//
// Parsed templates are cached by name; Add and Remove keep the cache in
// step with the store. Library is safe for concurrent use.
type Library struct {
	// mu orders cache fills against Add and Remove so a load racing a
	// removal cannot cache a deleted template.
	mu     sync.RWMutex
	store  store.Store
	parsed *registry.Registry[string, *Parser]
	opts   []Option
	settings
}

// NewLibrary creates a Library over s. The options apply to the library and
// to every Parser it hands out.
//
// Example:
//
//	lib := NewLibrary(store.NewMemoryStore(), WithStyle(Bracket))
//	lib.Add("greeting", "Hello [Name]")
//	out, _ := lib.Render("greeting", leaf.Map{"Name": leaf.Text("Jon")})
//	// out: "Hello Jon"
func NewLibrary(s store.Store, opts ...Option) *Library {
	return &Library{
		store:    s,
		parsed:   registry.New[string, *Parser](),
		opts:     opts,
		settings: newSettings(opts...),
	}
}

// Add saves template under name, replacing any previous body.
func (l *Library) Add(name, template string) (store.Info, error) {
	ctx := context.Background()
	l.mu.Lock()
	defer l.mu.Unlock()

	info, err := l.store.Save(name, template)
	l.metrics.RecordStoreOp(ctx, "add", err)
	if err != nil {
		return store.Info{}, l.fail("add", name, err)
	}

	p := l.parser(name, template)
	l.parsed.Register(name, p)
	observability.LogTemplateAdded(l.logger, name, info.Revision, p.Keys(l.style), l.parsed.Len())
	return info, nil
}

// Get returns the parser for name, loading it from the store on first use.
// Returns ErrUnknownTemplate if the store has no such name.
func (l *Library) Get(name string) (*Parser, error) {
	if p, ok := l.parsed.Get(name); ok {
		return p, nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	body, err := l.store.Load(name)
	l.metrics.RecordStoreOp(context.Background(), "load", err)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			err = ErrUnknownTemplate
		}
		return nil, l.fail("load", name, err)
	}

	return l.parsed.GetOrCreate(name, func() *Parser {
		return l.parser(name, body)
	}), nil
}

// Render renders the named template with the library's style.
func (l *Library) Render(name string, vars leaf.Map) (string, error) {
	return l.RenderContext(context.Background(), name, vars)
}

// RenderContext is Render with a context for tracing.
func (l *Library) RenderContext(ctx context.Context, name string, vars leaf.Map) (string, error) {
	p, err := l.Get(name)
	if err != nil {
		return "", err
	}
	return p.RenderContext(ctx, vars, l.style)
}

// RenderObject projects source and renders the named template with the
// library's style.
func (l *Library) RenderObject(name string, source any) (string, error) {
	p, err := l.Get(name)
	if err != nil {
		return "", err
	}
	return p.RenderObject(source, l.style)
}

// Remove deletes name from the store and the cache. Removing an unknown
// name is not an error.
func (l *Library) Remove(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.store.Delete(name)
	l.metrics.RecordStoreOp(context.Background(), "remove", err)
	if err != nil {
		return l.fail("remove", name, err)
	}
	l.parsed.Delete(name)
	return nil
}

// Names returns the stored template names in sorted order.
func (l *Library) Names() ([]string, error) {
	infos, err := l.store.List()
	l.metrics.RecordStoreOp(context.Background(), "list", err)
	if err != nil {
		return nil, l.fail("list", "", err)
	}

	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	sort.Strings(names)
	return names, nil
}

// Close drops the cache and closes the underlying store.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.parsed.Reset()
	return l.store.Close()
}

// parser builds a Parser for name that logs with the template name attached.
func (l *Library) parser(name, template string) *Parser {
	opts := append([]Option{}, l.opts...)
	opts = append(opts, WithLogger(observability.EnrichLogger(l.logger, name)))
	return New(template, opts...)
}

func (l *Library) fail(op, name string, err error) error {
	observability.LogStoreError(l.logger, op, name, err)
	return &LibraryError{Op: op, Name: name, Err: err}
}
