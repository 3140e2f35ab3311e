package manuscript

import (
	"fmt"
	"sort"
)

// Project is the in-memory root of a writing project: one mandatory draft
// folder plus optional research and trash siblings, with the per-project
// label and status tables. The tree is owned by the caller; interchange
// pipelines read or produce it but never retain it past one operation.
type Project struct {
	Title    string   `json:"title"`
	Author   string   `json:"author,omitempty"`
	Draft    *Folder  `json:"draft"`
	Research *Folder  `json:"research,omitempty"`
	Trash    *Folder  `json:"trash,omitempty"`
	Labels   []Label  `json:"labels,omitempty"`
	Statuses []Status `json:"statuses,omitempty"`

	// Word-count targets, carried through project-target metadata.
	DraftTarget   int `json:"draft_target,omitempty"`
	SessionTarget int `json:"session_target,omitempty"`
}

// Validate checks the structural invariants: a draft root must exist with
// the draft kind, and research/trash must carry their kinds when present.
func (p *Project) Validate() error {
	if p.Draft == nil {
		return fmt.Errorf("project %q has no draft folder", p.Title)
	}
	if p.Draft.Kind != FolderKindDraft {
		return fmt.Errorf("draft folder has kind %s", p.Draft.Kind)
	}
	if p.Research != nil && p.Research.Kind != FolderKindResearch {
		return fmt.Errorf("research folder has kind %s", p.Research.Kind)
	}
	if p.Trash != nil && p.Trash.Kind != FolderKindTrash {
		return fmt.Errorf("trash folder has kind %s", p.Trash.Kind)
	}
	return nil
}

// Roots returns the top-level folders in binder order: draft, then research
// and trash when present.
func (p *Project) Roots() []*Folder {
	roots := []*Folder{p.Draft}
	if p.Research != nil {
		roots = append(roots, p.Research)
	}
	if p.Trash != nil {
		roots = append(roots, p.Trash)
	}
	return roots
}

// LabelByID looks up a label; ok is false for the nil "no label" sentinel.
func (p *Project) LabelByID(id string) (Label, bool) {
	for _, l := range p.Labels {
		if l.ID == id {
			return l, true
		}
	}
	return Label{}, false
}

// StatusByID looks up a status by its process-local id.
func (p *Project) StatusByID(id string) (Status, bool) {
	for _, s := range p.Statuses {
		if s.ID == id {
			return s, true
		}
	}
	return Status{}, false
}

// AllKeywords collects the deduplicated keyword set from every document in
// draft and research (trash excluded), sorted. The sorted order is the id
// assignment order at export time, so it must be deterministic.
func (p *Project) AllKeywords() []string {
	seen := make(map[string]bool)
	var out []string
	collect := func(doc *Document) bool {
		for _, kw := range doc.Keywords {
			if kw != "" && !seen[kw] {
				seen[kw] = true
				out = append(out, kw)
			}
		}
		return true
	}
	p.Draft.Walk(collect)
	if p.Research != nil {
		p.Research.Walk(collect)
	}
	sort.Strings(out)
	return out
}

// TotalWordCount sums the word counts of every draft document.
func (p *Project) TotalWordCount() int {
	total := 0
	p.Draft.Walk(func(doc *Document) bool {
		total += doc.WordCount()
		return true
	})
	return total
}
