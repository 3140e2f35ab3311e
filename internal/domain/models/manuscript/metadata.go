package manuscript

import "strings"

// Label is a per-project annotation with a display color. The color is one
// of the fixed swatch names below, not a hex value.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Status is a per-project workflow state.
type Status struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SwatchNames is the fixed palette of label color names, in display order.
var SwatchNames = []string{
	"Red", "Orange", "Yellow", "Green", "Blue", "Purple", "Pink", "Gray",
}

// MatchSwatchName finds a swatch whose name occurs as a word in s,
// case-insensitively ("Urgent Red" matches "Red"). It returns "" when no
// swatch name occurs.
func MatchSwatchName(s string) string {
	lower := strings.ToLower(s)
	for _, name := range SwatchNames {
		for _, word := range strings.Fields(lower) {
			if word == strings.ToLower(name) {
				return name
			}
		}
	}
	return ""
}

// IsSwatchName reports whether s is exactly one of the fixed swatch names.
func IsSwatchName(s string) bool {
	for _, name := range SwatchNames {
		if name == s {
			return true
		}
	}
	return false
}
