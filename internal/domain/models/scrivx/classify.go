package scrivx

// ItemShape classifies a binder item by what it actually carries, not by
// its declared Type. The foreign format allows any item to have content
// and children at once, so conversion branches on shape, never on kind.
type ItemShape int

const (
	// ShapeEmpty has neither content nor children: a structural
	// placeholder, kept as an empty folder.
	ShapeEmpty ItemShape = iota
	// ShapeDocumentOnly has content and no children.
	ShapeDocumentOnly
	// ShapeFolderOnly has children and no content.
	ShapeFolderOnly
	// ShapeBoth has content and children; it converts to a folder whose
	// own content becomes the folder's first child document.
	ShapeBoth
)

func (s ItemShape) String() string {
	switch s {
	case ShapeDocumentOnly:
		return "document"
	case ShapeFolderOnly:
		return "folder"
	case ShapeBoth:
		return "folder+document"
	default:
		return "empty"
	}
}

// ClassifyItem derives the shape from the two facts that matter: whether
// text content exists for the item and whether it has children.
func ClassifyItem(hasContent, hasChildren bool) ItemShape {
	switch {
	case hasContent && hasChildren:
		return ShapeBoth
	case hasContent:
		return ShapeDocumentOnly
	case hasChildren:
		return ShapeFolderOnly
	default:
		return ShapeEmpty
	}
}
