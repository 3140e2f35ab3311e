package export

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models/manuscript"
)

// Format identifies an output format handled by the registry.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatHTML     Format = "html"
	FormatDOCX     Format = "docx"
	FormatEPUB     Format = "epub"
	FormatPDF      Format = "pdf"
)

// ParseFormat resolves a user-supplied format name, accepting the common
// extension spellings as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt", "plain":
		return FormatText, nil
	case "html", "htm":
		return FormatHTML, nil
	case "docx":
		return FormatDOCX, nil
	case "epub":
		return FormatEPUB, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", &domain.ValidationError{Message: fmt.Sprintf("unknown export format %q", name)}
}

// DocumentExporter renders a whole project into one output artifact.
type DocumentExporter interface {
	// Export produces the complete file contents for the project.
	Export(ctx context.Context, project *manuscript.Project, settings CompileSettings) ([]byte, error)

	// Format returns the format this exporter produces.
	Format() Format

	// FileExtension returns the canonical extension, with leading dot.
	FileExtension() string

	// Name returns a human-readable exporter name for logs and summaries.
	Name() string
}

// Registry routes export requests to the exporter for a format.
//
// Thread-safe for concurrent access.
type Registry struct {
	mu        sync.RWMutex
	exporters map[Format]DocumentExporter
}

// NewRegistry creates a registry with the standard exporters pre-registered.
func NewRegistry() *Registry {
	registry := &Registry{
		exporters: make(map[Format]DocumentExporter),
	}

	registry.Register(NewMarkdownExporter())
	registry.Register(NewTextExporter())
	registry.Register(NewHTMLExporter())
	registry.Register(NewDocxExporter())
	registry.Register(NewEpubExporter())
	registry.Register(NewPDFExporter())

	return registry
}

// Register adds an exporter, replacing any previous one for its format.
func (r *Registry) Register(exporter DocumentExporter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exporters[exporter.Format()] = exporter
}

// Get retrieves the exporter for a format, or nil when none is registered.
func (r *Registry) Get(format Format) DocumentExporter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.exporters[format]
}

// Export validates the settings, selects the exporter for the format and
// renders the project.
func (r *Registry) Export(ctx context.Context, format Format, project *manuscript.Project, settings CompileSettings) ([]byte, error) {
	if err := settings.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("compile settings: %v", err)}
	}

	exporter := r.Get(format)
	if exporter == nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("no exporter registered for format %q", format)}
	}

	return exporter.Export(ctx, project, settings)
}

// Formats returns the registered formats in sorted order.
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]Format, 0, len(r.exporters))
	for f := range r.exporters {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
