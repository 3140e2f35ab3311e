// Package scrivx models the Scrivener project manifest: the binder tree,
// the label/status/keyword tables, and project targets, as they appear in
// a .scrivx file. These are foreign-format structures; conversion to and
// from the native manuscript model happens in the scrivener package.
package scrivx

import "time"

// ItemKind is the Type attribute of a BinderItem element.
type ItemKind int

const (
	ItemKindOther ItemKind = iota
	ItemKindDraftFolder
	ItemKindResearchFolder
	ItemKindTrashFolder
	ItemKindFolder
	ItemKindText
	ItemKindPDF
	ItemKindImage
	ItemKindWebPage
	ItemKindRoot
)

var itemKindNames = map[ItemKind]string{
	ItemKindOther:          "Other",
	ItemKindDraftFolder:    "DraftFolder",
	ItemKindResearchFolder: "ResearchFolder",
	ItemKindTrashFolder:    "TrashFolder",
	ItemKindFolder:         "Folder",
	ItemKindText:           "Text",
	ItemKindPDF:            "PDF",
	ItemKindImage:          "Image",
	ItemKindWebPage:        "WebPage",
	ItemKindRoot:           "Root",
}

func (k ItemKind) String() string {
	if name, ok := itemKindNames[k]; ok {
		return name
	}
	return "Other"
}

// ParseItemKind maps a Type attribute value to its kind; unrecognized
// values become ItemKindOther so foreign extensions never abort a parse.
func ParseItemKind(s string) ItemKind {
	for kind, name := range itemKindNames {
		if name == s {
			return kind
		}
	}
	return ItemKindOther
}

// IsMedia reports whether the kind is one the importer skips rather than
// converts (binary content with no text representation).
func (k ItemKind) IsMedia() bool {
	return k == ItemKindPDF || k == ItemKindImage || k == ItemKindWebPage
}

// IsFolderKind reports whether the kind is one of the folder types. Note
// that any kind may still carry both content and children; this only
// reflects the declared Type attribute.
func (k ItemKind) IsFolderKind() bool {
	switch k {
	case ItemKindDraftFolder, ItemKindResearchFolder, ItemKindTrashFolder, ItemKindFolder, ItemKindRoot:
		return true
	}
	return false
}

// BinderItem is one node of the binder tree. ID is the manifest's string
// id; UUID is set only for the v3 layout, where it names the item's data
// directory. Any item may have both content on disk and Children; readers
// must not assume folder-or-leaf.
type BinderItem struct {
	ID       string
	UUID     string
	Kind     ItemKind
	Title    string
	Created  time.Time
	Modified time.Time

	LabelID    *int
	StatusID   *int
	KeywordIDs []int

	IncludeInCompile bool
	TargetWordCount  int
	IconName         string

	// Synopsis is loaded from the bundle's per-item synopsis file, not
	// from the manifest; the parser leaves it empty.
	Synopsis string

	Children []*BinderItem
}

// Walk visits the item and every descendant pre-order. fn returning false
// stops the walk.
func (it *BinderItem) Walk(fn func(*BinderItem) bool) bool {
	if !fn(it) {
		return false
	}
	for _, child := range it.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// Count returns the number of items in the subtree, itself included.
func (it *BinderItem) Count() int {
	n := 0
	it.Walk(func(*BinderItem) bool {
		n++
		return true
	})
	return n
}
