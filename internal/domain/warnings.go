package domain

import "fmt"

// Severity ranks a recoverable problem encountered while converting a
// single item. Operations that produce only info-level warnings count as
// clean; error-level warnings are surfaced prominently but never abort the
// run.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Warning records a recoverable per-item failure. The operation carries on;
// the caller renders the collected list as a post-run summary.
type Warning struct {
	ItemTitle string   `json:"item_title"`
	Message   string   `json:"message"`
	Severity  Severity `json:"severity"`
}

// Result is the outcome of an import or export operation. Success is not
// boolean: a completed run reports its counts together with every warning
// accumulated along the way.
type Result struct {
	DocumentsImported int       `json:"documents_imported"`
	FoldersImported   int       `json:"folders_imported"`
	ItemsSkipped      int       `json:"items_skipped"`
	Warnings          []Warning `json:"warnings"`
}

// HasErrors reports whether any warning is error-level.
func (r *Result) HasErrors() bool {
	for _, w := range r.Warnings {
		if w.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Clean reports whether the run produced nothing above info level.
func (r *Result) Clean() bool {
	for _, w := range r.Warnings {
		if w.Severity > SeverityInfo {
			return false
		}
	}
	return true
}

// AddWarning appends a recoverable per-item failure to the result.
func (r *Result) AddWarning(itemTitle, message string, severity Severity) {
	r.Warnings = append(r.Warnings, Warning{
		ItemTitle: itemTitle,
		Message:   message,
		Severity:  severity,
	})
}
