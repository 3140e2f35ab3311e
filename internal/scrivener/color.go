package scrivener

import (
	"fmt"
	"strconv"
	"strings"

	"inkwell/internal/domain/models/manuscript"
	"inkwell/internal/domain/models/scrivx"
)

// midGray is the fallback for malformed color strings. It equals the
// Gray swatch, so an unreadable color resolves to a sensible name.
var midGray = scrivx.RGB{R: 0.5, G: 0.5, B: 0.5}

// swatchValues maps the native swatch names to the RGB written into
// manifests, in the same order as manuscript.SwatchNames.
var swatchValues = map[string]scrivx.RGB{
	"Red":    {R: 1.0, G: 0.0, B: 0.0},
	"Orange": {R: 1.0, G: 0.5, B: 0.0},
	"Yellow": {R: 1.0, G: 1.0, B: 0.0},
	"Green":  {R: 0.0, G: 0.8, B: 0.0},
	"Blue":   {R: 0.0, G: 0.0, B: 1.0},
	"Purple": {R: 0.5, G: 0.0, B: 0.5},
	"Pink":   {R: 1.0, G: 0.4, B: 0.7},
	"Gray":   {R: 0.5, G: 0.5, B: 0.5},
}

// keywordPalette cycles by sorted keyword index on export.
var keywordPalette = func() []scrivx.RGB {
	palette := make([]scrivx.RGB, len(manuscript.SwatchNames))
	for i, name := range manuscript.SwatchNames {
		palette[i] = swatchValues[name]
	}
	return palette
}()

// parseColor reads the manifest's "R G B" form: three space-separated
// floats in [0,1]. Anything malformed defaults to mid-gray rather than
// failing.
func parseColor(s string) scrivx.RGB {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return midGray
	}
	var vals [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return midGray
		}
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		vals[i] = v
	}
	return scrivx.RGB{R: vals[0], G: vals[1], B: vals[2]}
}

func formatColor(c scrivx.RGB) string {
	return fmt.Sprintf("%.6f %.6f %.6f", c.R, c.G, c.B)
}

// swatchColor resolves a native color name to its manifest RGB; unknown
// names render gray.
func swatchColor(name string) scrivx.RGB {
	if c, ok := swatchValues[name]; ok {
		return c
	}
	return midGray
}

// colorNameForLabel picks the native swatch name for an imported label.
// The label's own name wins when it contains a swatch word ("Urgent Red"
// resolves to Red); only then does the RGB value get a vote.
func colorNameForLabel(labelName string, c scrivx.RGB) string {
	if name := manuscript.MatchSwatchName(labelName); name != "" {
		return name
	}
	if name := nearestSwatch(c); name != "" {
		return name
	}
	return "Gray"
}

// nearestSwatch matches an RGB value against the swatch table within a
// small tolerance; no close match yields "".
func nearestSwatch(c scrivx.RGB) string {
	const eps = 0.05
	for _, name := range manuscript.SwatchNames {
		v := swatchValues[name]
		if abs(c.R-v.R) < eps && abs(c.G-v.G) < eps && abs(c.B-v.B) < eps {
			return name
		}
	}
	return ""
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
