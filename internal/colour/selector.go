package colour

import (
	"math"
	"slices"

	"github.com/hashicorp/go-hclog"
)

// Role names one of the three extracted colours.
type Role string

const (
	RoleBackground   Role = "background"
	RoleForeground   Role = "foreground"
	RoleMiddleground Role = "middleground"
)

// AllRoles returns the roles in output order.
func AllRoles() []Role {
	return []Role{RoleForeground, RoleMiddleground, RoleBackground}
}

// Roles holds the colour bound to each role, in the working space.
type Roles struct {
	Foreground   YCC
	Middleground YCC
	Background   YCC
}

// Get returns the colour bound to role.
func (r Roles) Get(role Role) (YCC, bool) {
	switch role {
	case RoleForeground:
		return r.Foreground, true
	case RoleMiddleground:
		return r.Middleground, true
	case RoleBackground:
		return r.Background, true
	default:
		return YCC{}, false
	}
}

// SelectorConfig holds the parameters of role selection.
type SelectorConfig struct {
	ForegroundThreshold   float64
	MiddlegroundThreshold float64
	Weights               Weights
	Logger                hclog.Logger
}

// SelectRoles ranks the buckets produced by Bucketize and binds the
// background, foreground and middleground roles.
//
// The background comes from the largest frame bucket. The foreground is the
// biggest interior bucket far enough from the background, and the
// middleground is the most distant of the remaining interior buckets. When
// the middleground ends up too close to the background its luma is nudged
// away, falling back to the foreground once the nudge stops making progress.
func SelectRoles(frameBuckets, buckets []*Bucket, cfg SelectorConfig) (Roles, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	background, err := selectBackground(frameBuckets)
	if err != nil {
		return Roles{}, err
	}
	logger.Debug("selected background", "colour", background, "frame_buckets", len(frameBuckets))

	// Work on a copy so the caller's slice order is left alone.
	candidates := slices.Clone(buckets)
	if len(candidates) == 0 {
		return Roles{}, ErrNoForegroundCandidate
	}
	for _, b := range candidates {
		b.ComputeMean()
	}

	sortByThreshold(candidates, background, cfg.ForegroundThreshold, cfg.Weights, func(a, b *Bucket) int {
		return b.Len() - a.Len()
	})
	foreground := candidates[0].Mean
	candidates = candidates[1:]
	logger.Debug("selected foreground", "colour", foreground, "remaining", len(candidates))

	if len(candidates) == 0 {
		logger.Debug("no middleground candidate, using foreground")
		return Roles{Foreground: foreground, Middleground: foreground, Background: background}, nil
	}

	sortByThreshold(candidates, background, cfg.MiddlegroundThreshold, cfg.Weights, func(a, b *Bucket) int {
		da := Distance(background, a.Mean, cfg.Weights)
		db := Distance(background, b.Mean, cfg.Weights)
		return compareDesc(da, db)
	})
	middleground := candidates[0].Mean

	if Distance(background, middleground, cfg.Weights) > Distance(background, foreground, cfg.Weights) {
		foreground, middleground = middleground, foreground
		logger.Debug("swapped foreground and middleground")
	}

	middleground, iterations := converge(background, foreground, middleground, cfg, logger)
	logger.Debug("selected middleground", "colour", middleground, "iterations", iterations)

	return Roles{Foreground: foreground, Middleground: middleground, Background: background}, nil
}

// selectBackground returns the mean of the largest frame bucket, preferring
// the brightest among equally sized buckets.
func selectBackground(frameBuckets []*Bucket) (YCC, error) {
	if len(frameBuckets) == 0 {
		return YCC{}, ErrNoBackgroundCandidate
	}

	ranked := slices.Clone(frameBuckets)
	for _, b := range ranked {
		b.ComputeMean()
	}
	slices.SortStableFunc(ranked, func(a, b *Bucket) int {
		if a.Len() != b.Len() {
			return b.Len() - a.Len()
		}
		return int(b.Mean.Y) - int(a.Mean.Y)
	})

	return ranked[0].Mean, nil
}

// sortByThreshold orders buckets so those farther than threshold from the
// background come first. Buckets on the same side of the threshold are
// ordered by tieBreak.
func sortByThreshold(buckets []*Bucket, background YCC, threshold float64, k Weights, tieBreak func(a, b *Bucket) int) {
	slices.SortStableFunc(buckets, func(a, b *Bucket) int {
		farA := Distance(background, a.Mean, k) > threshold
		farB := Distance(background, b.Mean, k) > threshold
		switch {
		case farA == farB:
			return tieBreak(a, b)
		case farA:
			return -1
		default:
			return 1
		}
	})
}

// converge pushes the middleground luma away from the background until the
// two are at least MiddlegroundThreshold apart.
//
// The step is 1/gap truncated back to a byte: a positive gap wider than one
// moves nothing, a negative gap moves the luma down by one. A repeated gap
// means no progress, and the middleground falls back to the foreground.
// The number of passes is returned alongside the colour.
func converge(background, foreground, middleground YCC, cfg SelectorConfig, logger hclog.Logger) (YCC, int) {
	previousVal := 0.0
	iteration := 0
	for ; Distance(background, middleground, cfg.Weights) < cfg.MiddlegroundThreshold; iteration++ {
		val := float64(int(middleground.Y) - int(background.Y))
		if val == 0 || val == previousVal {
			logger.Trace("middleground stalled, using foreground", "iteration", iteration, "val", val)
			return foreground, iteration
		}

		logger.Trace("nudging middleground",
			"iteration", iteration,
			"val", val,
			"middleground", middleground,
			"background", background,
			"distance", Distance(background, middleground, cfg.Weights),
			"threshold", cfg.MiddlegroundThreshold)

		middleground.Y = nudge(middleground.Y, val)
		previousVal = val
	}
	return middleground, iteration
}

// nudge adds 1/val to a luma byte, truncating toward zero and saturating at the byte range.
func nudge(luma uint8, val float64) uint8 {
	next := math.Trunc(float64(luma) + 1/val)
	return uint8(max(0, min(255, next)))
}

func compareDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}
