package track

// point is a visible keyframe together with its live distance on the curve.
type point[T any] struct {
	kf   *Keyframe[T]
	dist float64
}

// bracket locates a distance between two keyframes. With upper == nil the
// value of lower holds unchanged.
type bracket[T any] struct {
	lower, upper *Keyframe[T]
	frac         float64
}

// locate finds the keyframes around distance d, which has to be normalized
// to the curve. pts must be non-empty and ordered by distance.
//
// The earlier keyframe's mode governs a gap. Before the first and after the
// last keyframe, closed curves interpolate across the start point if the
// last keyframe is Linear; otherwise the nearest end value holds.
func locate[T any](pts []point[T], d, length float64, closed bool) bracket[T] {
	first, last := pts[0], pts[len(pts)-1]
	wrap := closed && last.kf.Mode == Linear
	if d <= first.dist {
		if !wrap {
			return bracket[T]{lower: first.kf}
		}
		lastToEnd := length - last.dist
		span := lastToEnd + first.dist
		if span <= 0 {
			return bracket[T]{lower: first.kf}
		}
		return bracket[T]{lower: last.kf, upper: first.kf, frac: (lastToEnd + d) / span}
	}
	for i := 1; i < len(pts); i++ {
		if d > pts[i].dist {
			continue
		}
		prev, curr := pts[i-1], pts[i]
		span := curr.dist - prev.dist
		if prev.kf.Mode == Flat || span <= 0 {
			return bracket[T]{lower: prev.kf}
		}
		return bracket[T]{lower: prev.kf, upper: curr.kf, frac: (d - prev.dist) / span}
	}
	if !wrap {
		return bracket[T]{lower: last.kf}
	}
	span := length - last.dist + first.dist
	if span <= 0 {
		return bracket[T]{lower: last.kf}
	}
	return bracket[T]{lower: last.kf, upper: first.kf, frac: (d - last.dist) / span}
}

// below finds the keyframe whose mode governs distance d: the last keyframe
// at or before d. Before the first keyframe, this is the last one for closed
// curves (the gap wraps around) and the first one for open curves.
func below[T any](pts []point[T], d float64, closed bool) *Keyframe[T] {
	if d < pts[0].dist {
		if closed {
			return pts[len(pts)-1].kf
		}
		return pts[0].kf
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].dist > d {
			return pts[i-1].kf
		}
	}
	return pts[len(pts)-1].kf
}

// nearest finds the keyframe closest to d, measured by dist.
func nearest[T any](pts []point[T], d float64, dist func(a, b float64) float64) *Keyframe[T] {
	best, bestDist := pts[0].kf, dist(pts[0].dist, d)
	for _, p := range pts[1:] {
		if x := dist(p.dist, d); x < bestDist {
			best, bestDist = p.kf, x
		}
	}
	return best
}
