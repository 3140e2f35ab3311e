package scrivx

// FormatVersion distinguishes the two on-disk bundle layouts.
type FormatVersion int

const (
	// FormatV2 keys documents by integer id: Files/Docs/<id>.rtf with
	// sibling <id>_notes.rtf and <id>_synopsis.txt, manifest fixed at
	// project.scrivx.
	FormatV2 FormatVersion = 2
	// FormatV3 keys documents by UUID directory: Files/Data/<uuid>/
	// holding content.rtf, notes.rtf and synopsis.txt, manifest any
	// *.scrivx file.
	FormatV3 FormatVersion = 3
)

func (v FormatVersion) String() string {
	switch v {
	case FormatV2:
		return "v2"
	case FormatV3:
		return "v3"
	default:
		return "unknown"
	}
}

// RGB is a color with float components in [0,1], the "R G B" form used
// throughout the manifest.
type RGB struct {
	R, G, B float64
}

// Label is one entry of the manifest's label table. IDs are the foreign
// integer scheme; -1 marks "no label" in item references.
type Label struct {
	ID    int
	Name  string
	Color RGB
}

// Status is one entry of the status table.
type Status struct {
	ID   int
	Name string
}

// Keyword is one entry of the keywords table.
type Keyword struct {
	ID    int
	Title string
	Color RGB
}

// Targets carries the project word-count goals.
type Targets struct {
	DraftTarget   int
	SessionTarget int
}

// Project is a parsed manifest plus the version detected from the bundle
// layout. Items holds the top-level binder items in manifest order.
type Project struct {
	Title    string
	Version  FormatVersion
	Items    []*BinderItem
	Labels   []Label
	Statuses []Status
	Keywords []Keyword
	Targets  Targets
}

// LabelByID resolves a foreign label id; ok is false for ids outside the
// table, including the -1 sentinel.
func (p *Project) LabelByID(id int) (Label, bool) {
	for _, l := range p.Labels {
		if l.ID == id {
			return l, true
		}
	}
	return Label{}, false
}

// StatusByID resolves a foreign status id.
func (p *Project) StatusByID(id int) (Status, bool) {
	for _, s := range p.Statuses {
		if s.ID == id {
			return s, true
		}
	}
	return Status{}, false
}

// KeywordByID resolves a foreign keyword id.
func (p *Project) KeywordByID(id int) (Keyword, bool) {
	for _, k := range p.Keywords {
		if k.ID == id {
			return k, true
		}
	}
	return Keyword{}, false
}

// ItemCount returns the total number of binder items across all roots.
func (p *Project) ItemCount() int {
	n := 0
	for _, it := range p.Items {
		n += it.Count()
	}
	return n
}
