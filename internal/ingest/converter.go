// Package ingest converts loose files into markdown for the project
// tree. Converters are routed by file extension through a registry;
// markdown is the native storage format every converter targets.
package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"inkwell/internal/domain"
)

// Converter transforms one file format to markdown.
//
// Implementations should be stateless and thread-safe.
type Converter interface {
	// Convert transforms input content to markdown.
	Convert(ctx context.Context, input []byte) (markdown string, err error)

	// SupportedExtensions returns file extensions this converter handles,
	// leading dot included (e.g. [".html", ".htm"]).
	SupportedExtensions() []string

	// Name returns a short converter name for logging.
	Name() string
}

// Registry routes files to converters by extension.
//
// Thread-safe for concurrent access.
type Registry struct {
	mu         sync.RWMutex
	converters map[string]Converter
}

// NewRegistry creates a registry with the standard converters
// pre-registered.
func NewRegistry() *Registry {
	r := &Registry{converters: make(map[string]Converter)}

	r.Register(NewMarkdownConverter())
	r.Register(NewTextConverter())
	r.Register(NewHTMLConverter())
	r.Register(NewRTFConverter())

	return r
}

// Register adds a converter under each of its supported extensions.
// Extensions are normalized to lowercase with a leading dot.
func (r *Registry) Register(c Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range c.SupportedExtensions() {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		r.converters[ext] = c
	}
}

// Get retrieves the converter for a file extension, nil when none is
// registered. Lookup is case-insensitive.
func (r *Registry) Get(ext string) Converter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.converters[strings.ToLower(ext)]
}

// Convert selects the converter for the filename's extension and runs
// it over content.
func (r *Registry) Convert(ctx context.Context, filename string, content []byte) (string, error) {
	ext := filepath.Ext(filename)
	c := r.Get(ext)
	if c == nil {
		return "", &domain.ValidationError{Message: fmt.Sprintf("unsupported file type %q", ext)}
	}
	return c.Convert(ctx, content)
}

// SupportedExtensions returns every registered extension, sorted.
func (r *Registry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.converters))
	for ext := range r.converters {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
