package colour

import (
	"image"
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b YCC
		want float64
	}{
		{
			name: "identical",
			a:    YCC{Y: 10, Cb: 20, Cr: 30},
			b:    YCC{Y: 10, Cb: 20, Cr: 30},
			want: 0,
		},
		{
			name: "luma only",
			a:    YCC{Y: 100, Cb: 128, Cr: 128},
			b:    YCC{Y: 110, Cb: 128, Cr: 128},
			want: math.Sqrt(100 * 2 / math.Sqrt(6)),
		},
		{
			name: "chroma only",
			a:    YCC{Y: 0, Cb: 0, Cr: 0},
			b:    YCC{Y: 0, Cb: 6, Cr: 6},
			want: math.Sqrt(36.0/6 + 36.0/6),
		},
		{
			name: "all channels",
			a:    YCC{Y: 0, Cb: 0, Cr: 0},
			b:    YCC{Y: 6, Cb: 6, Cr: 6},
			want: math.Sqrt(36 * (2/math.Sqrt(6) + 1.0/3)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b, DefaultWeights)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Distance() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestDistanceSymmetric(t *testing.T) {
	for y := 0; y < 256; y += 17 {
		for cb := 0; cb < 256; cb += 51 {
			a := YCC{Y: uint8(y), Cb: uint8(cb), Cr: uint8(255 - cb)}
			b := YCC{Y: uint8(255 - y), Cb: uint8(y), Cr: uint8(cb)}
			if ab, ba := Distance(a, b, DefaultWeights), Distance(b, a, DefaultWeights); ab != ba {
				t.Fatalf("Distance(%v, %v) = %f, reverse = %f", a, b, ab, ba)
			}
			if d := Distance(a, a, DefaultWeights); d != 0 {
				t.Fatalf("Distance(%v, %v) = %f, want 0", a, a, d)
			}
		}
	}
}

func TestGridScanOrder(t *testing.T) {
	g := NewGrid(2, 3)
	pixels := g.ScanOrder()

	want := []Position{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}}
	if len(pixels) != len(want) {
		t.Fatalf("ScanOrder() returned %d pixels, want %d", len(pixels), len(want))
	}
	for i, p := range pixels {
		if p.Position != want[i] {
			t.Errorf("ScanOrder()[%d] = %+v, want %+v", i, p.Position, want[i])
		}
	}
}

func TestGridSetAt(t *testing.T) {
	g := NewGrid(4, 3)
	c := YCC{Y: 1, Cb: 2, Cr: 3}
	g.Set(3, 2, c)

	if got := g.At(3, 2); got != c {
		t.Errorf("At(3, 2) = %v, want %v", got, c)
	}
	if got := g.At(2, 2); got != (YCC{}) {
		t.Errorf("At(2, 2) = %v, want zero colour", got)
	}
}

func TestBucketConfigInFrame(t *testing.T) {
	cfg := BucketConfig{Size: 20, Frame: 3}

	tests := []struct {
		pos  Position
		want bool
	}{
		{Position{0, 10}, true},
		{Position{2, 10}, true},
		{Position{3, 10}, false},
		{Position{17, 10}, false}, // size-frame is interior
		{Position{18, 10}, true},
		{Position{10, 2}, true},
		{Position{10, 17}, false},
		{Position{10, 18}, true},
		{Position{10, 10}, false},
	}

	for _, tt := range tests {
		if got := cfg.InFrame(tt.pos); got != tt.want {
			t.Errorf("InFrame(%+v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestBucketComputeMean(t *testing.T) {
	tests := []struct {
		name    string
		colours []YCC
		want    YCC
	}{
		{
			name:    "empty",
			colours: nil,
			want:    YCC{},
		},
		{
			name:    "exact",
			colours: []YCC{{10, 20, 30}, {11, 21, 31}, {12, 22, 32}},
			want:    YCC{11, 21, 31},
		},
		{
			name:    "truncates",
			colours: []YCC{{10, 0, 255}, {11, 1, 254}},
			want:    YCC{10, 0, 254},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Bucket{}
			for i, c := range tt.colours {
				b.Members = append(b.Members, Pixel{Position: Position{X: i}, Colour: c})
			}
			if got := b.ComputeMean(); got != tt.want {
				t.Errorf("ComputeMean() = %v, want %v", got, tt.want)
			}
			if b.Mean != tt.want {
				t.Errorf("Mean = %v, want %v", b.Mean, tt.want)
			}
		})
	}
}

func TestBucketizeUniformGrid(t *testing.T) {
	c := YCC{Y: 90, Cb: 100, Cr: 150}
	grid := NewUniformGrid(20, 20, c)

	frameBuckets, buckets := Bucketize(grid, BucketConfig{
		Size:      20,
		Frame:     3,
		Threshold: 15,
		Weights:   DefaultWeights,
	})

	if len(frameBuckets) != 1 {
		t.Fatalf("got %d frame buckets, want 1", len(frameBuckets))
	}
	if len(buckets) != 1 {
		t.Fatalf("got %d buckets, want 1", len(buckets))
	}

	// The seed (0,0) is a border pixel, so it joins only the frame bucket.
	// Every other pixel joins the interior bucket.
	if got := buckets[0].Len(); got != 399 {
		t.Errorf("interior bucket has %d members, want 399", got)
	}
	// 400 pixels minus the 15x15 interior block.
	if got := frameBuckets[0].Len(); got != 175 {
		t.Errorf("frame bucket has %d members, want 175", got)
	}
}

func TestBucketizeOwnership(t *testing.T) {
	grid := stripedGrid(30, 30)
	cfg := BucketConfig{Size: 30, Frame: 4, Threshold: 15, Weights: DefaultWeights}

	frameBuckets, buckets := Bucketize(grid, cfg)

	seen := make(map[Position]bool)
	for _, b := range buckets {
		for _, p := range b.Members {
			if seen[p.Position] {
				t.Fatalf("pixel %+v appears in more than one interior bucket", p.Position)
			}
			seen[p.Position] = true
			if got := grid.At(p.Position.X, p.Position.Y); got != p.Colour {
				t.Fatalf("pixel %+v colour %v does not match grid colour %v", p.Position, p.Colour, got)
			}
		}
	}

	seenFrame := make(map[Position]bool)
	for _, b := range frameBuckets {
		for _, p := range b.Members {
			if seenFrame[p.Position] {
				t.Fatalf("pixel %+v appears in more than one frame bucket", p.Position)
			}
			if !cfg.InFrame(p.Position) {
				t.Fatalf("non-border pixel %+v in frame bucket", p.Position)
			}
			seenFrame[p.Position] = true
		}
	}
}

func TestBucketizeMinimumSizes(t *testing.T) {
	tests := []struct {
		name       string
		interior   int
		wantBucket bool
	}{
		{name: "five members dropped", interior: 5, wantBucket: false},
		{name: "six members kept", interior: 6, wantBucket: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// A 1-wide column with frame 0 and a large size puts nothing in the
			// border band, so the seed and every companion land in one bucket.
			grid := NewUniformGrid(1, tt.interior, YCC{Y: 50, Cb: 128, Cr: 128})
			_, buckets := Bucketize(grid, BucketConfig{Size: 1000, Frame: 0, Threshold: 15, Weights: DefaultWeights})

			if got := len(buckets) == 1; got != tt.wantBucket {
				t.Errorf("bucket kept = %v, want %v", got, tt.wantBucket)
			}
		})
	}
}

func TestBucketizeFrameMinimumSize(t *testing.T) {
	tests := []struct {
		name      string
		members   int
		wantFrame bool
	}{
		{name: "twenty members dropped", members: 20, wantFrame: false},
		{name: "twenty one members kept", members: 21, wantFrame: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Column x=0 is entirely inside a frame of width 1.
			grid := NewUniformGrid(1, tt.members, YCC{Y: 50, Cb: 128, Cr: 128})
			frameBuckets, _ := Bucketize(grid, BucketConfig{Size: 1000, Frame: 1, Threshold: 15, Weights: DefaultWeights})

			if got := len(frameBuckets) == 1; got != tt.wantFrame {
				t.Errorf("frame bucket kept = %v, want %v", got, tt.wantFrame)
			}
		})
	}
}

func TestBucketizeSeedOrder(t *testing.T) {
	// Luma 0, 14, 28 along one column. 14 is within threshold of both
	// neighbours but the earliest seed claims it.
	grid := NewGrid(1, 21)
	for y := range 7 {
		grid.Set(0, y, YCC{Y: 0, Cb: 128, Cr: 128})
		grid.Set(0, y+7, YCC{Y: 14, Cb: 128, Cr: 128})
		grid.Set(0, y+14, YCC{Y: 28, Cb: 128, Cr: 128})
	}

	_, buckets := Bucketize(grid, BucketConfig{Size: 1000, Frame: 0, Threshold: 15, Weights: DefaultWeights})

	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want 2", len(buckets))
	}
	if got := buckets[0].Len(); got != 14 {
		t.Errorf("first bucket has %d members, want 14", got)
	}
	if got := buckets[1].Len(); got != 7 {
		t.Errorf("second bucket has %d members, want 7", got)
	}
}

func TestBucketMeanWithinMembers(t *testing.T) {
	grid := stripedGrid(24, 24)
	_, buckets := Bucketize(grid, BucketConfig{Size: 24, Frame: 2, Threshold: 15, Weights: DefaultWeights})

	for i, b := range buckets {
		mean := b.ComputeMean()
		for ch := range 3 {
			lo, hi := uint8(255), uint8(0)
			for _, p := range b.Members {
				v := p.Colour.Channel(ch)
				lo = min(lo, v)
				hi = max(hi, v)
			}
			if v := mean.Channel(ch); v < lo || v > hi {
				t.Errorf("bucket %d channel %d mean %d outside [%d, %d]", i, ch, v, lo, hi)
			}
		}
	}
}

func TestBucketizeEmptyGrid(t *testing.T) {
	frameBuckets, buckets := Bucketize(NewGrid(0, 0), BucketConfig{Size: 10, Frame: 2, Threshold: 15, Weights: DefaultWeights})
	if len(frameBuckets) != 0 || len(buckets) != 0 {
		t.Errorf("Bucketize(empty) = %d, %d buckets, want none", len(frameBuckets), len(buckets))
	}
}

// stripedGrid builds a grid of vertical bands whose luma ramps in steps of 6,
// so neighbouring bands fall within the default bucket threshold.
func stripedGrid(width, height int) *Grid {
	g := NewGrid(width, height)
	for x := range width {
		band := x / 3
		c := YCC{Y: uint8(20 + band*6), Cb: uint8(100 + band), Cr: 128}
		g.Fill(image.Rect(x, 0, x+1, height), c)
	}
	return g
}
