package manuscript

import (
	"time"
)

// FolderKind distinguishes the three singleton roots from ordinary
// subfolders. Exactly one draft root exists per project; research and trash
// are optional siblings of it and are never nested inside the draft.
type FolderKind int

const (
	FolderKindSub FolderKind = iota
	FolderKindDraft
	FolderKindResearch
	FolderKindTrash
)

// String returns the lowercase kind name.
func (k FolderKind) String() string {
	switch k {
	case FolderKindDraft:
		return "draft"
	case FolderKindResearch:
		return "research"
	case FolderKindTrash:
		return "trash"
	default:
		return "folder"
	}
}

// Folder is a node of the project tree. Documents and Folders are kept as
// separate ordered lists; document order within a folder follows each
// document's Order key, subfolders follow slice order.
type Folder struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	CreatedAt time.Time   `json:"created_at"`
	Kind      FolderKind  `json:"kind"`
	Documents []*Document `json:"documents"`
	Folders   []*Folder   `json:"folders"`
}

// SortedDocuments returns the folder's documents ordered by their sibling
// sort key. The input slice is not modified.
func (f *Folder) SortedDocuments() []*Document {
	out := make([]*Document, len(f.Documents))
	copy(out, f.Documents)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Order < out[j-1].Order; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Walk visits every document under f depth-first, documents before
// subfolders, in sibling order. Returning false from fn stops the walk.
func (f *Folder) Walk(fn func(*Document) bool) bool {
	for _, doc := range f.SortedDocuments() {
		if !fn(doc) {
			return false
		}
	}
	for _, sub := range f.Folders {
		if !sub.Walk(fn) {
			return false
		}
	}
	return true
}

// CountDocuments returns the number of documents in f and all subfolders.
func (f *Folder) CountDocuments() int {
	n := 0
	f.Walk(func(*Document) bool {
		n++
		return true
	})
	return n
}

// CountFolders returns the number of folders rooted at f, including f.
func (f *Folder) CountFolders() int {
	n := 1
	for _, sub := range f.Folders {
		n += sub.CountFolders()
	}
	return n
}
