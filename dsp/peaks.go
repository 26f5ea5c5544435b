package dsp

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Smooth writes the 3 point average of src into dst and returns it.
// dst[i] is the mean of src[i] and src[i+2], so it has two fewer values.
func Smooth(dst, src []float64) []float64 {
	n := len(src) - 2
	if n <= 0 {
		return dst[:0]
	}

	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]

	for i := range dst {
		dst[i] = (src[i] + src[i+2]) / 2.0
	}

	return dst
}

// FindPeaks appends to dst every index i in [eps, len-eps) where series[i]
// is the max of both series[i-eps:i+1] and series[i:i+eps+1].
//
// Flat runs report every index of the run.
func FindPeaks(dst []int, series []float64, eps int) []int {
	if eps < 1 {
		eps = 1
	}

	for i := eps; i < len(series)-eps; i++ {
		v := series[i]
		if v == slices.Max(series[i-eps:i+1]) && v == slices.Max(series[i:i+eps+1]) {
			dst = append(dst, i)
		}
	}

	return dst
}

// RankPeaks sorts peak indices by series amplitude, highest first. Equal
// amplitudes keep their order.
func RankPeaks(peaks []int, series []float64) {
	slices.SortStableFunc(peaks, func(a, b int) int {
		switch {
		case series[a] > series[b]:
			return -1
		case series[a] < series[b]:
			return 1
		}
		return 0
	})
}

// Distances appends the gaps between consecutive positions to dst.
func Distances(dst []float64, positions []int) []float64 {
	for i := 1; i < len(positions); i++ {
		dst = append(dst, float64(positions[i]-positions[i-1]))
	}
	return dst
}

// Dispersion returns the mean and population variance of distances.
// An empty set has infinite dispersion.
func Dispersion(distances []float64) (mean, variance float64) {
	if len(distances) == 0 {
		return 0, math.Inf(1)
	}
	return stat.PopMeanVariance(distances, nil)
}

// peakSelector holds the scratch space for picking and filtering peaks.
type peakSelector struct {
	subset    []int
	distances []float64
	kept      []int
}

// selectSubset picks the k in [kMin, kMax] whose k highest ranked peaks,
// put back in position order, have the least spread of distances. The
// winning positions are returned in position order. ranked must already be
// sorted by amplitude. Ties keep the smaller k.
func (ps *peakSelector) selectSubset(ranked []int, kMin, kMax int) []int {
	bestK := -1
	best := math.Inf(1)

	for k := kMin; k <= kMax; k++ {
		ps.subset = append(ps.subset[:0], ranked[:min(k, len(ranked))]...)
		slices.Sort(ps.subset)

		ps.distances = Distances(ps.distances[:0], ps.subset)
		if _, d := Dispersion(ps.distances); d < best {
			best = d
			bestK = k
		}
	}

	if bestK < 0 {
		return nil
	}

	ps.subset = append(ps.subset[:0], ranked[:min(bestK, len(ranked))]...)
	slices.Sort(ps.subset)

	return ps.subset
}

// dropClose keeps the positions at least minDist away from both neighbors.
func (ps *peakSelector) dropClose(positions []int, minDist int) []int {
	ps.kept = ps.kept[:0]

	for i, p := range positions {
		if i > 0 && p-positions[i-1] < minDist {
			continue
		}
		if i < len(positions)-1 && positions[i+1]-p < minDist {
			continue
		}
		ps.kept = append(ps.kept, p)
	}

	return ps.kept
}

// dropUneven keeps the positions whose distance to both neighbors is within
// maxErr relative error of the mean distance. positions is filtered in
// place.
func dropUneven(positions []int, maxErr float64) []int {
	if len(positions) < 2 {
		return positions[:0]
	}

	mean := float64(positions[len(positions)-1]-positions[0]) / float64(len(positions)-1)

	out := positions[:0]
	prev := -1
	for i, p := range positions {
		left := i > 0 && relErr(float64(p-prev), mean) > maxErr
		right := i < len(positions)-1 && relErr(float64(positions[i+1]-p), mean) > maxErr

		prev = p
		if !left && !right {
			out = append(out, p)
		}
	}

	return out
}

// FilterDistances drops the distances more than maxErr relative error from
// their mean in one pass and returns the rest, filtered in place.
func FilterDistances(distances []float64, maxErr float64) []float64 {
	if len(distances) == 0 {
		return distances
	}

	mean := stat.Mean(distances, nil)

	out := distances[:0]
	for _, d := range distances {
		if relErr(d, mean) <= maxErr {
			out = append(out, d)
		}
	}

	return out
}

func relErr(v, mean float64) float64 {
	if mean == 0 {
		return math.Inf(1)
	}
	return math.Abs(v-mean) / mean
}
