package shadows

import (
	"math"

	"chosenoffset.com/tabletop/internal/core/geom"
)

const mergeEpsilon = 0.001

// MergeColinear combines walls that continue each other along the same line.
// The shadowed area is unchanged; only the polygon count drops.
func MergeColinear(segments []geom.Segment) []geom.Segment {
	if len(segments) == 0 {
		return segments
	}

	merged := make([]bool, len(segments))
	var result []geom.Segment

	for i := 0; i < len(segments); i++ {
		if merged[i] {
			continue
		}

		current := segments[i]
		merged[i] = true

		// Try to extend this segment by merging with adjacent colinear segments
		extended := true
		for extended {
			extended = false

			for j := 0; j < len(segments); j++ {
				if merged[j] || i == j {
					continue
				}

				if joined, ok := mergeSegments(current, segments[j]); ok {
					current = joined
					merged[j] = true
					extended = true
					break
				}
			}
		}

		result = append(result, current)
	}

	return result
}

// mergeSegments joins two colinear segments that share an endpoint
func mergeSegments(s1, s2 geom.Segment) (geom.Segment, bool) {
	if s1.Length() < mergeEpsilon || s2.Length() < mergeEpsilon {
		return geom.Segment{}, false
	}
	if !colinear(s1, s2.A) || !colinear(s1, s2.B) {
		return geom.Segment{}, false
	}

	var joined geom.Segment
	switch {
	case near(s1.B, s2.A):
		joined = geom.Segment{A: s1.A, B: s2.B}
	case near(s1.B, s2.B):
		joined = geom.Segment{A: s1.A, B: s2.A}
	case near(s1.A, s2.B):
		joined = geom.Segment{A: s2.A, B: s1.B}
	case near(s1.A, s2.A):
		joined = geom.Segment{A: s2.B, B: s1.B}
	default:
		return geom.Segment{}, false
	}

	// Reject pieces that fold back over each other
	if math.Abs(joined.Length()-(s1.Length()+s2.Length())) > mergeEpsilon {
		return geom.Segment{}, false
	}
	return joined, true
}

// colinear checks p against the line through s, scaled by the segment length
func colinear(s geom.Segment, p geom.Point) bool {
	dx1 := s.B.X - s.A.X
	dy1 := s.B.Y - s.A.Y
	dx2 := p.X - s.A.X
	dy2 := p.Y - s.A.Y

	cross := dx1*dy2 - dy1*dx2
	return math.Abs(cross)/s.Length() < mergeEpsilon
}

func near(a, b geom.Point) bool {
	return math.Abs(a.X-b.X) < mergeEpsilon && math.Abs(a.Y-b.Y) < mergeEpsilon
}
