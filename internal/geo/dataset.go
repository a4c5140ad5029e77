// internal/geo/dataset.go
package geo

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	commonerrors "jobmap/internal/common/errors"
)

// DepartmentBoundary is one immutable record of the boundary dataset.
// The set is loaded once at process start and never mutated.
type DepartmentBoundary struct {
	Code     string
	Name     string
	Geometry orb.Geometry // orb.Polygon or orb.MultiPolygon
}

// LoadDataset reads a GeoJSON FeatureCollection of department boundaries
// from disk. Features without a code or with a non-areal geometry are
// rejected: a partially loaded dataset would silently shrink every
// search, so loading is all or nothing.
func LoadDataset(path string) ([]DepartmentBoundary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, commonerrors.NewDatasetLoadFailedError(path, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, commonerrors.NewDatasetLoadFailedError(path, err)
	}

	boundaries := make([]DepartmentBoundary, 0, len(fc.Features))
	seen := make(map[string]bool, len(fc.Features))

	for i, feature := range fc.Features {
		code := feature.Properties.MustString("code", "")
		if code == "" {
			return nil, commonerrors.NewDatasetLoadFailedError(path,
				fmt.Errorf("feature %d has no code property", i))
		}
		if seen[code] {
			return nil, commonerrors.NewDatasetLoadFailedError(path,
				fmt.Errorf("duplicate department code %s", code))
		}
		seen[code] = true

		switch feature.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			return nil, commonerrors.NewDatasetLoadFailedError(path,
				fmt.Errorf("department %s has non-areal geometry %T", code, feature.Geometry))
		}

		boundaries = append(boundaries, DepartmentBoundary{
			Code:     code,
			Name:     feature.Properties.MustString("nom", ""),
			Geometry: feature.Geometry,
		})
	}

	if len(boundaries) == 0 {
		return nil, commonerrors.NewDatasetLoadFailedError(path,
			fmt.Errorf("dataset contains no features"))
	}

	return boundaries, nil
}
