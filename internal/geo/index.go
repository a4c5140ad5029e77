// internal/geo/index.go
package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	commonerrors "jobmap/internal/common/errors"
)

// boundaryEpsilon is the slack, in degrees, used to treat a point lying
// on a ring edge as contained. Roughly a metre at French latitudes.
const boundaryEpsilon = 1e-9

// Index answers which department codes intersect a search area. It is
// read-only after construction and safe for concurrent use.
type Index struct {
	boundaries []DepartmentBoundary
}

// NewIndex builds an index over the loaded boundary set. Dataset order
// is preserved; ResolveDepartments reports codes in that order, which
// keeps the pipeline's fan-out and merge order deterministic.
func NewIndex(boundaries []DepartmentBoundary) *Index {
	return &Index{boundaries: boundaries}
}

// Size returns the number of loaded department boundaries.
func (ix *Index) Size() int {
	return len(ix.boundaries)
}

// ResolveDepartments returns the codes of every department whose
// boundary shares at least one point with the area. Codes are unique by
// dataset construction. A malformed area fails with INVALID_GEOMETRY.
func (ix *Index) ResolveDepartments(area orb.MultiPolygon) ([]string, error) {
	if err := ValidateArea(area); err != nil {
		return nil, err
	}

	var codes []string
	for _, b := range ix.boundaries {
		if geometriesIntersect(area, b.Geometry) {
			codes = append(codes, b.Code)
		}
	}
	return codes, nil
}

// ValidateArea rejects areas whose outer rings degenerate to fewer than
// three distinct vertices.
func ValidateArea(area orb.MultiPolygon) error {
	if len(area) == 0 {
		return commonerrors.NewInvalidGeometryError("polygon has no rings")
	}
	for _, poly := range area {
		if len(poly) == 0 {
			return commonerrors.NewInvalidGeometryError("polygon has no outer ring")
		}
		if n := distinctVertices(poly[0]); n < 3 {
			return commonerrors.NewInvalidGeometryError(
				fmt.Sprintf("outer ring has %d distinct vertices, need at least 3", n))
		}
	}
	return nil
}

// ContainsPoint reports boundary-inclusive containment of a point in
// the search area.
func ContainsPoint(area orb.MultiPolygon, p orb.Point) bool {
	if planar.MultiPolygonContains(area, p) {
		return true
	}
	// Ray casting excludes some edge cases on the boundary itself, and
	// the containment test is specified boundary-inclusive.
	for _, poly := range area {
		for _, ring := range poly {
			if pointOnRing(ring, p) {
				return true
			}
		}
	}
	return false
}

func distinctVertices(ring orb.Ring) int {
	seen := make(map[orb.Point]bool, len(ring))
	for _, p := range ring {
		seen[p] = true
	}
	return len(seen)
}

// geometriesIntersect tests whether the search area shares any point
// with a department geometry. orb has no boolean overlay predicate, so
// this combines mutual vertex containment with pairwise edge crossing,
// behind a bounding-box reject.
func geometriesIntersect(area orb.MultiPolygon, g orb.Geometry) bool {
	if !area.Bound().Intersects(g.Bound()) {
		return false
	}

	switch dept := g.(type) {
	case orb.Polygon:
		return multiPolygonIntersectsPolygon(area, dept)
	case orb.MultiPolygon:
		for _, poly := range dept {
			if multiPolygonIntersectsPolygon(area, poly) {
				return true
			}
		}
	}
	return false
}

func multiPolygonIntersectsPolygon(area orb.MultiPolygon, dept orb.Polygon) bool {
	for _, poly := range area {
		if polygonsIntersect(poly, dept) {
			return true
		}
	}
	return false
}

func polygonsIntersect(a, b orb.Polygon) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	if !a.Bound().Intersects(b.Bound()) {
		return false
	}

	// One contains a vertex of the other: overlapping or nested shapes.
	for _, p := range a[0] {
		if planar.PolygonContains(b, p) {
			return true
		}
	}
	for _, p := range b[0] {
		if planar.PolygonContains(a, p) {
			return true
		}
	}

	// Edge crossing catches shapes that overlap without holding each
	// other's vertices (e.g. a cross shape).
	return ringsCross(a[0], b[0])
}

func ringsCross(a, b orb.Ring) bool {
	for i := 0; i < len(a); i++ {
		a1, a2 := a[i], a[(i+1)%len(a)]
		for j := 0; j < len(b); j++ {
			b1, b2 := b[j], b[(j+1)%len(b)]
			if segmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

// segmentsIntersect is the classic orientation test, collinear overlap
// included.
func segmentsIntersect(p1, p2, q1, q2 orb.Point) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	switch {
	case d1 == 0 && onSegment(q1, q2, p1):
		return true
	case d2 == 0 && onSegment(q1, q2, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, q1):
		return true
	case d4 == 0 && onSegment(p1, p2, q2):
		return true
	}
	return false
}

func cross(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func onSegment(a, b, p orb.Point) bool {
	return min(a[0], b[0])-boundaryEpsilon <= p[0] && p[0] <= max(a[0], b[0])+boundaryEpsilon &&
		min(a[1], b[1])-boundaryEpsilon <= p[1] && p[1] <= max(a[1], b[1])+boundaryEpsilon
}

func pointOnRing(ring orb.Ring, p orb.Point) bool {
	for i := 0; i < len(ring); i++ {
		a, b := ring[i], ring[(i+1)%len(ring)]
		if distToSegment(a, b, p) <= boundaryEpsilon {
			return true
		}
	}
	return false
}

func distToSegment(a, b, p orb.Point) float64 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return dist(a, p)
	}
	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return dist(orb.Point{a[0] + t*dx, a[1] + t*dy}, p)
}

func dist(a, b orb.Point) float64 {
	return math.Hypot(a[0]-b[0], a[1]-b[1])
}
