package layout

import "strings"

// Factory maps component names to renderers of type T.
type Factory[T any] struct {
	components map[string]T
	fallback   func(name string) T
}

// NewFactory creates a Factory. fallback renders unknown components.
func NewFactory[T any](fallback func(name string) T) *Factory[T] {
	return &Factory[T]{components: make(map[string]T), fallback: fallback}
}

// Register binds a component name (case-insensitive) to a renderer.
func (f *Factory[T]) Register(name string, c T) *Factory[T] {
	f.components[strings.ToLower(name)] = c
	return f
}

// Build returns the renderer for name, or the fallback.
func (f *Factory[T]) Build(name string) T {
	if c, ok := f.components[strings.ToLower(name)]; ok {
		return c
	}
	return f.fallback(name)
}

// Has reports whether name is registered.
func (f *Factory[T]) Has(name string) bool {
	_, ok := f.components[strings.ToLower(name)]
	return ok
}

// NotFoundText is the fallback message for unknown components.
func NotFoundText(name string) string {
	return "No component found: " + name
}
