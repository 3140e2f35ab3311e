package scrivener

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models/scrivx"
)

// ParseManifest reconstructs a project from one pass over the manifest
// XML. Malformed XML surfaces as a domain.XMLParseError; a broken
// manifest invalidates the whole import, so there is no per-item
// recovery at this layer.
func ParseManifest(r io.Reader) (*scrivx.Project, error) {
	p := &manifestParser{project: &scrivx.Project{}}
	if err := p.run(r); err != nil {
		return nil, &domain.XMLParseError{Detail: err.Error()}
	}
	return p.project, nil
}

func parseManifestFile(path string) (*scrivx.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()
	return ParseManifest(f)
}

// manifestParser is a state machine over the decoder's event stream.
//
// Binder items are rebuilt with two parallel stacks: itemStack holds the
// in-progress builders, childrenStack the completed children at each
// depth, with a bottom frame collecting the top-level items. Closing an
// item pops both stacks and appends the finished item to the frame that
// is then on top, which belongs to its parent.
//
// Elements like Title, Keywords and Color appear in several unrelated
// contexts, so destination is decided by the semantic flags below, never
// by nesting depth. That is also what makes both label table variants
// parse: whether Label elements sit directly under LabelSettings or
// inside a Labels wrapper, the flag is the same.
type manifestParser struct {
	project *scrivx.Project

	itemStack     []*scrivx.BinderItem
	childrenStack [][]*scrivx.BinderItem

	inBinder          bool
	inLabelSettings   bool
	inStatusSettings  bool
	inKeywordSettings bool
	inProjectTargets  bool
	inItemKeywords    bool

	curLabel   *scrivx.Label
	curStatus  *scrivx.Status
	curKeyword *scrivx.Keyword

	text strings.Builder
}

func (p *manifestParser) run(r io.Reader) error {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			p.startElement(t)
		case xml.EndElement:
			p.endElement(t)
		case xml.CharData:
			p.text.Write(t)
		}
	}
}

func (p *manifestParser) startElement(e xml.StartElement) {
	p.text.Reset()
	switch e.Name.Local {
	case "ScrivenerProject":
		p.project.Title = attr(e, "Title")
	case "Binder":
		p.inBinder = true
		p.childrenStack = append(p.childrenStack, nil)
	case "BinderItem":
		if !p.inBinder {
			return
		}
		// Items count as compiled unless the manifest says otherwise;
		// most real manifests omit the element for folders entirely.
		item := &scrivx.BinderItem{
			ID:               attr(e, "ID"),
			UUID:             attr(e, "UUID"),
			Kind:             scrivx.ParseItemKind(attr(e, "Type")),
			IncludeInCompile: true,
		}
		if t, ok := parseDate(attr(e, "Created")); ok {
			item.Created = t
		}
		if t, ok := parseDate(attr(e, "Modified")); ok {
			item.Modified = t
		}
		p.itemStack = append(p.itemStack, item)
		p.childrenStack = append(p.childrenStack, nil)
	case "Keywords":
		// Inside a binder item this wraps KeywordID references; at the
		// project level it wraps the keyword table.
		if len(p.itemStack) > 0 {
			p.inItemKeywords = true
		} else {
			p.inKeywordSettings = true
		}
	case "Keyword":
		if p.inKeywordSettings {
			p.curKeyword = &scrivx.Keyword{ID: intAttr(e, "ID", -1), Color: midGray}
		}
	case "LabelSettings":
		p.inLabelSettings = true
	case "Label":
		if p.inLabelSettings {
			l := scrivx.Label{ID: intAttr(e, "ID", -1), Color: midGray}
			if c := attr(e, "Color"); c != "" {
				l.Color = parseColor(c)
			}
			p.curLabel = &l
		}
	case "StatusSettings":
		p.inStatusSettings = true
	case "Status":
		if p.inStatusSettings {
			p.curStatus = &scrivx.Status{ID: intAttr(e, "ID", -1)}
		}
	case "ProjectTargets":
		p.inProjectTargets = true
	}
}

func (p *manifestParser) endElement(e xml.EndElement) {
	text := strings.TrimSpace(p.text.String())
	p.text.Reset()

	switch e.Name.Local {
	case "Binder":
		p.inBinder = false
		if n := len(p.childrenStack); n > 0 {
			p.project.Items = p.childrenStack[n-1]
			p.childrenStack = p.childrenStack[:n-1]
		}
	case "BinderItem":
		if len(p.itemStack) == 0 {
			return
		}
		item := p.itemStack[len(p.itemStack)-1]
		p.itemStack = p.itemStack[:len(p.itemStack)-1]
		item.Children = p.childrenStack[len(p.childrenStack)-1]
		p.childrenStack = p.childrenStack[:len(p.childrenStack)-1]
		parent := len(p.childrenStack) - 1
		p.childrenStack[parent] = append(p.childrenStack[parent], item)
	case "Title":
		switch {
		case p.curKeyword != nil:
			p.curKeyword.Title = text
		case p.inLabelSettings || p.inStatusSettings || p.inKeywordSettings:
			// Section captions ("Label", "Status"), not item data.
		case len(p.itemStack) > 0:
			p.topItem().Title = text
		}
	case "Label":
		if p.curLabel != nil {
			if text != "" {
				p.curLabel.Name = text
			}
			p.project.Labels = append(p.project.Labels, *p.curLabel)
			p.curLabel = nil
		}
	case "LabelSettings":
		p.inLabelSettings = false
	case "Status":
		if p.curStatus != nil {
			p.curStatus.Name = text
			p.project.Statuses = append(p.project.Statuses, *p.curStatus)
			p.curStatus = nil
		}
	case "StatusSettings":
		p.inStatusSettings = false
	case "Keyword":
		if p.curKeyword != nil {
			p.project.Keywords = append(p.project.Keywords, *p.curKeyword)
			p.curKeyword = nil
		}
	case "Keywords":
		if p.inItemKeywords {
			p.inItemKeywords = false
		} else {
			p.inKeywordSettings = false
		}
	case "KeywordID":
		if p.inItemKeywords && len(p.itemStack) > 0 {
			if n, err := strconv.Atoi(text); err == nil {
				top := p.topItem()
				top.KeywordIDs = append(top.KeywordIDs, n)
			}
		}
	case "Color":
		switch {
		case p.curKeyword != nil:
			p.curKeyword.Color = parseColor(text)
		case p.curLabel != nil:
			p.curLabel.Color = parseColor(text)
		}
	case "LabelID":
		if len(p.itemStack) > 0 && !p.inLabelSettings {
			if n, err := strconv.Atoi(text); err == nil && n >= 0 {
				p.topItem().LabelID = &n
			}
		}
	case "StatusID":
		if len(p.itemStack) > 0 && !p.inStatusSettings {
			if n, err := strconv.Atoi(text); err == nil && n >= 0 {
				p.topItem().StatusID = &n
			}
		}
	case "IncludeInCompile":
		if len(p.itemStack) > 0 {
			p.topItem().IncludeInCompile = text == "Yes" || text == "true"
		}
	case "TargetWordCount":
		if len(p.itemStack) > 0 {
			if n, err := strconv.Atoi(text); err == nil && n > 0 {
				p.topItem().TargetWordCount = n
			}
		}
	case "IconFileName":
		if len(p.itemStack) > 0 {
			p.topItem().IconName = text
		}
	case "DraftTarget":
		if p.inProjectTargets {
			if n, err := strconv.Atoi(text); err == nil {
				p.project.Targets.DraftTarget = n
			}
		}
	case "SessionTarget":
		if p.inProjectTargets {
			if n, err := strconv.Atoi(text); err == nil {
				p.project.Targets.SessionTarget = n
			}
		}
	case "ProjectTargets":
		p.inProjectTargets = false
	}
}

func (p *manifestParser) topItem() *scrivx.BinderItem {
	return p.itemStack[len(p.itemStack)-1]
}

func attr(e xml.StartElement, name string) string {
	for _, a := range e.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func intAttr(e xml.StartElement, name string, fallback int) int {
	s := attr(e, name)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
