// internal/geo/area.go
package geo

import (
	"github.com/paulmach/orb"

	commonerrors "jobmap/internal/common/errors"
)

// AreaFromGeometry converts a decoded GeoJSON geometry into the search
// area representation. Only areal geometries are accepted.
func AreaFromGeometry(g orb.Geometry) (orb.MultiPolygon, error) {
	switch geom := g.(type) {
	case orb.Polygon:
		return orb.MultiPolygon{geom}, nil
	case orb.MultiPolygon:
		return geom, nil
	default:
		return nil, commonerrors.NewInvalidGeometryError("geometry must be a Polygon or MultiPolygon")
	}
}

// AreaFromRing converts a raw isochrone coordinate array ([lng, lat]
// pairs) into a single-ring search area. The ring is closed implicitly
// if the caller did not repeat the first vertex.
func AreaFromRing(coords [][]float64) (orb.MultiPolygon, error) {
	if len(coords) < 3 {
		return nil, commonerrors.NewInvalidGeometryError("isochrone ring needs at least 3 vertices")
	}

	ring := make(orb.Ring, 0, len(coords)+1)
	for _, c := range coords {
		if len(c) != 2 {
			return nil, commonerrors.NewInvalidGeometryError("isochrone vertices must be [lng, lat] pairs")
		}
		ring = append(ring, orb.Point{c[0], c[1]})
	}
	if ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}

	area := orb.MultiPolygon{orb.Polygon{ring}}
	if err := ValidateArea(area); err != nil {
		return nil, err
	}
	return area, nil
}
