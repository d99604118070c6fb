// Package colour provides the bucket clustering and role selection used to
// pick the background, foreground and middleground colours of an image.
package colour

import (
	"fmt"
	"image/color"
	"math"
)

// YCC is a colour in the luma/chroma working space.
// Channel 0 is luma, channels 1 and 2 are the blue and red chroma differences.
type YCC struct {
	Y  uint8 `json:"y"`
	Cb uint8 `json:"cb"`
	Cr uint8 `json:"cr"`
}

// Channel returns the component at index i (0 = Y, 1 = Cb, 2 = Cr).
func (c YCC) Channel(i int) uint8 {
	switch i {
	case 0:
		return c.Y
	case 1:
		return c.Cb
	case 2:
		return c.Cr
	default:
		panic(fmt.Sprintf("colour: channel index out of range: %d", i))
	}
}

// String returns the colour as "ycc(y, cb, cr)".
func (c YCC) String() string {
	return fmt.Sprintf("ycc(%d, %d, %d)", c.Y, c.Cb, c.Cr)
}

// RGB converts the colour back to the display colour space.
func (c YCC) RGB() RGB {
	r, g, b := color.YCbCrToRGB(c.Y, c.Cb, c.Cr)
	return RGB{R: r, G: g, B: b}
}

// YCCFromColor converts any color.Color into the working space.
func YCCFromColor(c color.Color) YCC {
	rgb := ToRGB(c)
	y, cb, cr := color.RGBToYCbCr(rgb.R, rgb.G, rgb.B)
	return YCC{Y: y, Cb: cb, Cr: cr}
}

// Weights scales the squared per-channel differences in Distance.
type Weights [3]float64

// DefaultWeights favours luma over the two chroma channels.
var DefaultWeights = Weights{2 / math.Sqrt(6), 1.0 / 6, 1.0 / 6}

// Distance returns the weighted Euclidean distance between two colours.
// It is the only similarity metric used by the bucketizer and the selector.
func Distance(a, b YCC, k Weights) float64 {
	var sum float64
	for i := range 3 {
		d := float64(int(a.Channel(i)) - int(b.Channel(i)))
		sum += k[i] * d * d
	}
	return math.Sqrt(sum)
}
