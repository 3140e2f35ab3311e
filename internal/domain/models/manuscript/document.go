package manuscript

import (
	"time"
)

// Document is a single prose item. Content is Markdown, the native storage
// format. LabelID and StatusID are foreign keys into the project's metadata
// tables; nil means "no label"/"no status" (the sentinel lives outside the
// tables). Order is a sibling sort key and is not globally unique.
type Document struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Content          string    `json:"content"`
	Notes            string    `json:"notes,omitempty"`
	Synopsis         string    `json:"synopsis,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	Order            int       `json:"order"`
	LabelID          *string   `json:"label_id,omitempty"`
	StatusID         *string   `json:"status_id,omitempty"`
	Keywords         []string  `json:"keywords,omitempty"`
	IncludeInCompile bool      `json:"include_in_compile"`
	TargetWordCount  int       `json:"target_word_count,omitempty"`
	IconName         string    `json:"icon_name,omitempty"`
}

// WordCount counts the words of the document's Markdown content.
func (d *Document) WordCount() int {
	return CountWords(d.Content)
}
