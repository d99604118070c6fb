package colour

import (
	"gonum.org/v1/gonum/stat"
)

const (
	// MinBucketSize is the member count an interior bucket must exceed to be kept.
	MinBucketSize = 5

	// MinFrameBucketSize is the member count a frame bucket must exceed to be kept.
	MinFrameBucketSize = 20
)

// Bucket is a group of mutually similar pixels.
// Mean is zero until ComputeMean is called.
type Bucket struct {
	Members []Pixel
	Mean    YCC
}

// Len returns the number of member pixels.
func (b *Bucket) Len() int {
	return len(b.Members)
}

// ComputeMean sets Mean to the per-channel average of the member colours.
// Each channel is truncated toward zero.
func (b *Bucket) ComputeMean() YCC {
	if len(b.Members) == 0 {
		b.Mean = YCC{}
		return b.Mean
	}

	var channels [3][]float64
	for i := range channels {
		channels[i] = make([]float64, len(b.Members))
	}
	for j, p := range b.Members {
		for i := range channels {
			channels[i][j] = float64(p.Colour.Channel(i))
		}
	}

	b.Mean = YCC{
		Y:  uint8(stat.Mean(channels[0], nil)),
		Cb: uint8(stat.Mean(channels[1], nil)),
		Cr: uint8(stat.Mean(channels[2], nil)),
	}
	return b.Mean
}

// BucketConfig holds the parameters of the clustering pass.
type BucketConfig struct {
	// Size is the nominal edge length of the square grid used for the frame test.
	Size int
	// Frame is the width of the border band.
	Frame int
	// Threshold is the strict upper bound on seed-to-candidate distance.
	Threshold float64
	// Weights is the distance weight vector.
	Weights Weights
}

// InFrame reports whether p lies in the border band of a Size x Size grid.
// The right and bottom edges use a strict comparison, so x == Size-Frame is interior.
func (c BucketConfig) InFrame(p Position) bool {
	return p.X < c.Frame || p.X > c.Size-c.Frame ||
		p.Y < c.Frame || p.Y > c.Size-c.Frame
}

// Bucketize partitions the grid into frame buckets and interior buckets
// using greedy single-seed clustering in grid scan order.
//
// Each pass takes the first remaining pixel as the seed. Every remaining pixel
// closer than Threshold to the seed joins the interior bucket, and also joins
// the frame bucket when it lies in the border band. The seed itself joins only
// one of the two, depending on its own position. Buckets at or below the
// minimum sizes are dropped.
func Bucketize(grid *Grid, cfg BucketConfig) (frameBuckets, buckets []*Bucket) {
	if grid == nil {
		return nil, nil
	}

	remaining := grid.ScanOrder()
	for len(remaining) > 0 {
		seed := remaining[0]

		bucket := &Bucket{}
		frameBucket := &Bucket{}
		if cfg.InFrame(seed.Position) {
			frameBucket.Members = append(frameBucket.Members, seed)
		} else {
			bucket.Members = append(bucket.Members, seed)
		}

		next := make([]Pixel, 0, len(remaining)-1)
		for _, candidate := range remaining[1:] {
			if Distance(seed.Colour, candidate.Colour, cfg.Weights) < cfg.Threshold {
				bucket.Members = append(bucket.Members, candidate)
				if cfg.InFrame(candidate.Position) {
					frameBucket.Members = append(frameBucket.Members, candidate)
				}
				continue
			}
			next = append(next, candidate)
		}
		remaining = next

		if bucket.Len() > MinBucketSize {
			buckets = append(buckets, bucket)
		}
		if frameBucket.Len() > MinFrameBucketSize {
			frameBuckets = append(frameBuckets, frameBucket)
		}
	}

	return frameBuckets, buckets
}
