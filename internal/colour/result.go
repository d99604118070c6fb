package colour

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB represents a color in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Colorful returns the colour as a go-colorful value.
func (rgb RGB) Colorful() colorful.Color {
	c, _ := colorful.MakeColor(rgb.RGBA())
	return c
}

// Hex returns the RGB color as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return rgb.Colorful().Hex()
}

// RGBA returns the colour as an opaque color.RGBA.
func (rgb RGB) RGBA() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// ToRGB converts a color.Color to RGB.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// Result holds the three extracted colours in the display colour space.
type Result struct {
	Foreground   RGB
	Middleground RGB
	Background   RGB
}

// NewResult converts role colours from the working space to RGB.
func NewResult(roles Roles) Result {
	return Result{
		Foreground:   roles.Foreground.RGB(),
		Middleground: roles.Middleground.RGB(),
		Background:   roles.Background.RGB(),
	}
}

// Get returns the colour bound to role.
func (r Result) Get(role Role) RGB {
	switch role {
	case RoleForeground:
		return r.Foreground
	case RoleMiddleground:
		return r.Middleground
	default:
		return r.Background
	}
}

// ColourJSON represents one role colour in JSON output.
type ColourJSON struct {
	R   uint8  `json:"r"`
	G   uint8  `json:"g"`
	B   uint8  `json:"b"`
	Hex string `json:"hex"`
}

// ResultJSON represents the result in JSON format.
type ResultJSON struct {
	Foreground   ColourJSON `json:"foreground"`
	Middleground ColourJSON `json:"middleground"`
	Background   ColourJSON `json:"background"`
}

func newColourJSON(rgb RGB) ColourJSON {
	return ColourJSON{
		R:   rgb.R,
		G:   rgb.G,
		B:   rgb.B,
		Hex: strings.TrimPrefix(rgb.Hex(), "#"),
	}
}

// ToJSON converts the result to compact JSON.
func (r Result) ToJSON() ([]byte, error) {
	return json.Marshal(ResultJSON{
		Foreground:   newColourJSON(r.Foreground),
		Middleground: newColourJSON(r.Middleground),
		Background:   newColourJSON(r.Background),
	})
}

type colourXML struct {
	Red   uint8 `xml:"red"`
	Green uint8 `xml:"green"`
	Blue  uint8 `xml:"blue"`
}

type resultXML struct {
	XMLName      xml.Name  `xml:"colours"`
	Foreground   colourXML `xml:"foreground"`
	Middleground colourXML `xml:"middleground"`
	Background   colourXML `xml:"background"`
}

func newColourXML(rgb RGB) colourXML {
	return colourXML{Red: rgb.R, Green: rgb.G, Blue: rgb.B}
}

// ToXML converts the result to an indented XML document.
func (r Result) ToXML() ([]byte, error) {
	body, err := xml.MarshalIndent(resultXML{
		Foreground:   newColourXML(r.Foreground),
		Middleground: newColourXML(r.Middleground),
		Background:   newColourXML(r.Background),
	}, "", "\t")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

// ToText returns "r,g,b;r,g,b;r,g,b" in foreground, middleground, background order.
func (r Result) ToText() string {
	parts := make([]string, 0, 3)
	for _, role := range AllRoles() {
		c := r.Get(role)
		parts = append(parts, fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B))
	}
	return strings.Join(parts, ";")
}

// String returns a human-readable representation of the result.
func (r Result) String() string {
	return r.StringWithPreview(false)
}

// StringWithPreview returns one line per role, optionally prefixed by an ANSI swatch.
func (r Result) StringWithPreview(showPreview bool) string {
	var sb strings.Builder
	for _, role := range AllRoles() {
		c := r.Get(role)
		if showPreview {
			sb.WriteString(FormatColourWithLabel(c, string(role), defaultWidth))
		} else {
			fmt.Fprintf(&sb, "%-14s %s  %s", role, c.Hex(), c.String())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
