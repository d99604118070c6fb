package preview

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmylchreest/threecolours/internal/colour"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func testResult() colour.Result {
	return colour.Result{
		Foreground:   colour.RGB{R: 255, G: 255, B: 0},
		Middleground: colour.RGB{R: 0, G: 255, B: 0},
		Background:   colour.RGB{R: 0, G: 0, B: 255},
	}
}

func near(a, b uint8, tol int) bool {
	d := int(a) - int(b)
	return d >= -tol && d <= tol
}

func TestRenderLayout(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	res := testResult()
	img := Render(solid(64, 32, red), res)

	if got := img.Bounds(); got != image.Rect(0, 0, 1000, 900) {
		t.Fatalf("Render() bounds = %v, want 1000x900", got)
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{name: "padding", x: 10, y: 890, want: res.Background.RGBA()},
		{name: "right padding", x: 990, y: 300, want: res.Background.RGBA()},
		{name: "image centre", x: 750, y: 250, want: red},
		{name: "left fade edge", x: 550, y: 250, want: res.Background.RGBA()},
		{name: "top fade edge", x: 750, y: 50, want: res.Background.RGBA()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRenderReflection(t *testing.T) {
	res := testResult()
	img := Render(solid(10, 10, color.RGBA{R: 255, A: 255}), res)

	// Just below the source the reflection is a quarter source, three
	// quarters background.
	got := img.RGBAAt(750, 450)
	if !near(got.R, 64, 2) || !near(got.B, 191, 2) {
		t.Errorf("reflection start = %v, want about (64, 0, 191)", got)
	}

	// The reflection fades out completely towards the bottom.
	got = img.RGBAAt(750, 849)
	if !near(got.R, 0, 1) || !near(got.B, 255, 1) {
		t.Errorf("reflection end = %v, want about background", got)
	}
}

func TestRenderMirrorsSource(t *testing.T) {
	// Top half white, bottom half black: the row just below the image
	// mirrors the last (black) row, not the first.
	src := solid(4, 4, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	for y := 2; y < 4; y++ {
		for x := range 4 {
			src.SetRGBA(x, y, color.RGBA{A: 255})
		}
	}
	res := colour.Result{Background: colour.RGB{}}

	img := Render(src, res)
	if got := img.RGBAAt(750, 451); got.R != 0 {
		t.Errorf("first reflected row = %v, want black", got)
	}
	if got := img.RGBAAt(750, 849); got.R != 0 {
		t.Errorf("last reflected row = %v, want black after fade", got)
	}
}

func TestDrawLabel(t *testing.T) {
	dst := solid(300, 100, color.RGBA{A: 255})
	fg := colour.RGB{R: 255, G: 255, B: 0}
	DrawLabel(dst, Label{Text: "Primary", At: image.Pt(10, 60)}, fg)

	found := false
	for y := range 100 {
		for x := range 300 {
			if dst.RGBAAt(x, y) == fg.RGBA() {
				found = true
				if y >= 70 {
					t.Fatalf("glyph pixel at (%d, %d) is below the descent", x, y)
				}
			}
		}
	}
	if !found {
		t.Error("DrawLabel() drew no pixels in the label colour")
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.png")
	if err := SavePNG(path, solid(5, 3, color.RGBA{G: 9, A: 255})); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(5, 3) {
		t.Errorf("decoded size = %v, want 5x3", got)
	}

	if err := SavePNG(filepath.Join(t.TempDir(), "missing", "x.png"), solid(1, 1, color.RGBA{})); err == nil {
		t.Error("SavePNG() into missing directory expected error")
	}
}
