// Package preview renders a poster-style composition showing the extracted
// colours against the source image.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/jmylchreest/threecolours/internal/colour"
)

// Layout of the composition. The scaled source sits at (PadLeft, PadTop)
// with its reflection directly beneath it.
const (
	ImageSize = 400

	PadTop    = 50
	PadBottom = 50
	PadLeft   = 550
	PadRight  = 50

	// Width and Height of the rendered canvas.
	Width  = PadLeft + ImageSize + PadRight
	Height = PadTop + 2*ImageSize + PadBottom

	edgeFade   = 66
	textScale  = 3
	reflection = 0.75
)

// Labels drawn in the foreground and middleground colours.
var (
	PrimaryLabel   = Label{Text: "Primary", At: image.Point{X: 75, Y: 75}}
	SecondaryLabel = Label{Text: "Secondary", At: image.Point{X: 75, Y: 175}}
)

// Label is a line of text anchored at its baseline origin.
type Label struct {
	Text string
	At   image.Point
}

// Render composes the preview image for src using the colours in res.
func Render(src image.Image, res colour.Result) *image.RGBA {
	bg := res.Background.Colorful()

	canvas := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(res.Background.RGBA()), image.Point{}, draw.Src)

	// Source and its mirror image.
	top := image.Rect(PadLeft, PadTop, PadLeft+ImageSize, PadTop+ImageSize)
	draw.NearestNeighbor.Scale(canvas, top, src, src.Bounds(), draw.Src, nil)
	for i := range ImageSize {
		srcY := top.Max.Y - 1 - i
		dstY := top.Max.Y + i
		for x := top.Min.X; x < top.Max.X; x++ {
			canvas.SetRGBA(x, dstY, canvas.RGBAAt(x, srcY))
		}
	}

	mirror := image.Rect(PadLeft, PadTop+ImageSize, PadLeft+ImageSize, PadTop+2*ImageSize)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			p := pixel(canvas, x, y)
			pt := image.Pt(x, y)

			if pt.In(mirror) {
				p = p.BlendRgb(bg, reflection)
			}
			if x >= PadLeft && x < PadLeft+edgeFade {
				p = bg.BlendRgb(p, float64(x-PadLeft)/edgeFade)
			}
			if x >= top.Max.X-edgeFade && x < top.Max.X {
				p = p.BlendRgb(bg, float64(x-(top.Max.X-edgeFade))/edgeFade)
			}
			if y >= PadTop && y < PadTop+edgeFade {
				p = bg.BlendRgb(p, float64(y-PadTop)/edgeFade)
			}
			if y >= mirror.Min.Y && y < mirror.Max.Y {
				p = p.BlendRgb(bg, float64(y-mirror.Min.Y)/ImageSize)
			}

			r, g, b := p.RGB255()
			canvas.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}

	DrawLabel(canvas, PrimaryLabel, res.Foreground)
	DrawLabel(canvas, SecondaryLabel, res.Middleground)

	return canvas
}

// DrawLabel draws l onto dst in colour c, scaled up from the basic bitmap font.
func DrawLabel(dst draw.Image, l Label, c colour.RGB) {
	face := basicfont.Face7x13
	d := &font.Drawer{Face: face}
	width := d.MeasureString(l.Text).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	height := face.Metrics().Height.Ceil()
	if width == 0 {
		return
	}

	text := image.NewRGBA(image.Rect(0, 0, width, height))
	d.Dst = text
	d.Src = image.NewUniform(c.RGBA())
	d.Dot = fixed.P(0, ascent)
	d.DrawString(l.Text)

	origin := l.At.Sub(image.Pt(0, ascent*textScale))
	target := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(width*textScale, height*textScale))}
	draw.NearestNeighbor.Scale(dst, target, text, text.Bounds(), draw.Over, nil)
}

// SavePNG writes img to path as a PNG file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path) // #nosec G304 - User-specified output path
	if err != nil {
		return fmt.Errorf("failed to create preview file: %w", err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	return f.Close()
}

func pixel(img *image.RGBA, x, y int) colorful.Color {
	c := img.RGBAAt(x, y)
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
