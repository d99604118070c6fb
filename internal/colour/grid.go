package colour

import (
	"fmt"
	"image"
)

// Position is a pixel coordinate within a grid.
type Position struct {
	X int
	Y int
}

// Pixel pairs a grid position with its colour.
type Pixel struct {
	Position Position
	Colour   YCC
}

// Grid is a width x height matrix of colours in the working space.
type Grid struct {
	width  int
	height int
	pix    []YCC // column-major: pix[x*height+y]
}

// NewGrid creates a grid of the given dimensions with every cell set to the zero colour.
func NewGrid(width, height int) *Grid {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Grid{
		width:  width,
		height: height,
		pix:    make([]YCC, width*height),
	}
}

// NewUniformGrid creates a grid filled with a single colour.
func NewUniformGrid(width, height int, c YCC) *Grid {
	g := NewGrid(width, height)
	for i := range g.pix {
		g.pix[i] = c
	}
	return g
}

// GridFromImage converts every pixel of img into the working space.
func GridFromImage(img image.Image) *Grid {
	b := img.Bounds()
	g := NewGrid(b.Dx(), b.Dy())
	for x := range g.width {
		for y := range g.height {
			g.Set(x, y, YCCFromColor(img.At(b.Min.X+x, b.Min.Y+y)))
		}
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Len returns the number of pixels.
func (g *Grid) Len() int { return len(g.pix) }

// At returns the colour at (x, y).
func (g *Grid) At(x, y int) YCC {
	return g.pix[g.offset(x, y)]
}

// Set stores the colour at (x, y).
func (g *Grid) Set(x, y int, c YCC) {
	g.pix[g.offset(x, y)] = c
}

// Fill paints the rectangle r (clipped to the grid) with c.
func (g *Grid) Fill(r image.Rectangle, c YCC) {
	r = r.Intersect(image.Rect(0, 0, g.width, g.height))
	for x := r.Min.X; x < r.Max.X; x++ {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			g.Set(x, y, c)
		}
	}
}

// ScanOrder returns every pixel of the grid, x outer and y inner.
// The bucketizer seeds in this order, so it decides bucket composition
// for pixels that sit between two clusters.
func (g *Grid) ScanOrder() []Pixel {
	pixels := make([]Pixel, 0, len(g.pix))
	for x := range g.width {
		for y := range g.height {
			pixels = append(pixels, Pixel{
				Position: Position{X: x, Y: y},
				Colour:   g.pix[x*g.height+y],
			})
		}
	}
	return pixels
}

func (g *Grid) offset(x, y int) int {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		panic(fmt.Sprintf("colour: grid position (%d, %d) out of bounds %dx%d", x, y, g.width, g.height))
	}
	return x*g.height + y
}
