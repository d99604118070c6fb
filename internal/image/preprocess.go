package image

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/jmylchreest/threecolours/internal/colour"
)

// SmoothingOptions configures the edge-preserving bilateral filter.
type SmoothingOptions struct {
	// Diameter of the pixel neighbourhood. Zero or less disables smoothing.
	Diameter int
	// SigmaColour controls how far apart colours may be and still mix.
	SigmaColour float64
	// SigmaSpace controls how far apart pixels may be and still mix.
	SigmaSpace float64
}

// PreprocessOptions configures Preprocess.
type PreprocessOptions struct {
	// Size is the edge length of the square output grid.
	Size int
	// Smoothing is applied after resizing.
	Smoothing SmoothingOptions
}

// DefaultSmoothingOptions returns the smoothing used before extraction.
func DefaultSmoothingOptions() SmoothingOptions {
	return SmoothingOptions{
		Diameter:    20,
		SigmaColour: 40,
		SigmaSpace:  10,
	}
}

// DefaultPreprocessOptions returns the default preprocessing options.
func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{
		Size:      100,
		Smoothing: DefaultSmoothingOptions(),
	}
}

// Validate validates the preprocessing options.
func (o PreprocessOptions) Validate() error {
	if o.Size < 1 {
		return fmt.Errorf("size must be at least 1, got %d", o.Size)
	}
	if o.Smoothing.Diameter > 0 && (o.Smoothing.SigmaColour <= 0 || o.Smoothing.SigmaSpace <= 0) {
		return fmt.Errorf("smoothing sigmas must be positive (colour %g, space %g)",
			o.Smoothing.SigmaColour, o.Smoothing.SigmaSpace)
	}
	return nil
}

// Preprocess turns a decoded image into the grid consumed by the extractor:
// it resizes to Size x Size, smooths, and converts to the luma/chroma space.
func Preprocess(img image.Image, opts PreprocessOptions) (*colour.Grid, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("image has no pixels")
	}

	resized := Resize(img, opts.Size)
	smoothed := BilateralFilter(resized, opts.Smoothing)
	return colour.GridFromImage(smoothed), nil
}

// Resize scales img to a size x size RGBA image using nearest-neighbour sampling.
func Resize(img image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// BilateralFilter smooths src while preserving edges.
//
// Each output pixel is the average of its neighbours within a circle of
// radius Diameter/2, weighted by a Gaussian of spatial distance and a
// Gaussian of the summed absolute channel difference. Borders are reflected
// without repeating the edge pixel.
func BilateralFilter(src *image.RGBA, opts SmoothingOptions) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	if opts.Diameter <= 0 {
		draw.Copy(dst, image.Point{}, src, bounds, draw.Src, nil)
		return dst
	}

	radius := max(opts.Diameter/2, 1)
	colourCoeff := -0.5 / (opts.SigmaColour * opts.SigmaColour)
	spaceCoeff := -0.5 / (opts.SigmaSpace * opts.SigmaSpace)

	// Colour weights indexed by L1 distance over three channels.
	colourWeights := make([]float64, 3*256)
	for i := range colourWeights {
		colourWeights[i] = math.Exp(float64(i*i) * colourCoeff)
	}

	type offset struct {
		dx, dy int
		weight float64
	}
	var kernel []offset
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			r := math.Sqrt(float64(dx*dx + dy*dy))
			if r > float64(radius) {
				continue
			}
			kernel = append(kernel, offset{dx: dx, dy: dy, weight: math.Exp(r * r * spaceCoeff)})
		}
	}

	w, h := bounds.Dx(), bounds.Dy()
	at := func(x, y int) (int, int, int) {
		c := src.RGBAAt(bounds.Min.X+reflect101(x, w), bounds.Min.Y+reflect101(y, h))
		return int(c.R), int(c.G), int(c.B)
	}

	for y := range h {
		for x := range w {
			r0, g0, b0 := at(x, y)
			var sumR, sumG, sumB, wsum float64
			for _, k := range kernel {
				r, g, b := at(x+k.dx, y+k.dy)
				diff := abs(r-r0) + abs(g-g0) + abs(b-b0)
				weight := k.weight * colourWeights[diff]
				sumR += weight * float64(r)
				sumG += weight * float64(g)
				sumB += weight * float64(b)
				wsum += weight
			}
			dst.SetRGBA(x, y, color.RGBA{
				R: roundByte(sumR / wsum),
				G: roundByte(sumG / wsum),
				B: roundByte(sumB / wsum),
				A: 255,
			})
		}
	}

	return dst
}

// reflect101 maps an out-of-range index back into [0, n) by mirroring
// around the edge pixel (dcb|abcdefgh|gfe).
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*n - 2 - i
		}
	}
	return i
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func roundByte(v float64) uint8 {
	return uint8(max(0, min(255, math.Round(v))))
}
