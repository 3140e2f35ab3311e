package scrivener

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/domain/models/manuscript"
)

// exportTables holds the id assignments for one export run. The tables
// are built once, read-only afterwards, and discarded with the run; they
// are never persisted. Every lookup panics on a missing entry, because a
// reference the build pass did not register is a programming error, not
// bad input.
type exportTables struct {
	uuids      map[string]string
	labelIDs   map[string]int
	statusIDs  map[string]int
	keywordIDs map[string]int

	// keywords holds the deduplicated set in sorted order, which is the
	// id assignment order and the manifest emission order.
	keywords []string
}

// buildExportTables derives the foreign ids deterministically: UUIDs by
// one pre-order traversal over every folder and document, label and
// status ids by table enumeration order, keyword ids by sorted order of
// the deduplicated set. Re-running on an unchanged tree reproduces the
// same label and keyword ordering exactly.
func buildExportTables(p *manuscript.Project) *exportTables {
	t := &exportTables{
		uuids:      make(map[string]string),
		labelIDs:   make(map[string]int),
		statusIDs:  make(map[string]int),
		keywordIDs: make(map[string]int),
	}

	for _, root := range p.Roots() {
		t.assignUUIDs(root)
	}
	for i, l := range p.Labels {
		t.labelIDs[l.ID] = i
	}
	for i, s := range p.Statuses {
		t.statusIDs[s.ID] = i
	}
	t.keywords = p.AllKeywords()
	for i, kw := range t.keywords {
		t.keywordIDs[kw] = i + 1
	}
	return t
}

func (t *exportTables) assignUUIDs(f *manuscript.Folder) {
	t.uuids[f.ID] = newItemUUID()
	for _, doc := range f.SortedDocuments() {
		t.uuids[doc.ID] = newItemUUID()
	}
	for _, sub := range f.Folders {
		t.assignUUIDs(sub)
	}
}

func (t *exportTables) uuidFor(id string) string {
	u, ok := t.uuids[id]
	if !ok {
		panic(fmt.Sprintf("no UUID registered for item %q", id))
	}
	return u
}

func (t *exportTables) labelIDFor(id string) int {
	n, ok := t.labelIDs[id]
	if !ok {
		panic(fmt.Sprintf("no foreign id registered for label %q", id))
	}
	return n
}

func (t *exportTables) statusIDFor(id string) int {
	n, ok := t.statusIDs[id]
	if !ok {
		panic(fmt.Sprintf("no foreign id registered for status %q", id))
	}
	return n
}

func (t *exportTables) keywordIDFor(text string) int {
	n, ok := t.keywordIDs[text]
	if !ok {
		panic(fmt.Sprintf("no foreign id registered for keyword %q", text))
	}
	return n
}

// newItemUUID returns the uppercase form Scrivener uses for data
// directory names.
func newItemUUID() string {
	return strings.ToUpper(uuid.NewString())
}
