// internal/server/dto.go
package server

import (
	"encoding/json"

	"github.com/paulmach/orb/geojson"

	commonerrors "jobmap/internal/common/errors"
	"jobmap/internal/geo"
	"jobmap/internal/models"
)

// searchRequest is the inbound payload for POST /api/jobs. The search area
// arrives either as a GeoJSON geometry or as a bare isochrone ring of
// [lng, lat] pairs; the geometry wins when both are present.
type searchRequest struct {
	Keyword   string          `json:"keyword"`
	Filters   searchFilters   `json:"filters"`
	Polygon   json.RawMessage `json:"polygon"`
	Isochrone [][]float64     `json:"isochrone"`
}

type searchFilters struct {
	Contrat string `json:"contrat"`
}

func (r searchRequest) toCriteria() (models.SearchCriteria, error) {
	criteria := models.SearchCriteria{
		Keyword:      r.Keyword,
		ContractType: r.Filters.Contrat,
	}

	switch {
	case len(r.Polygon) > 0 && string(r.Polygon) != "null":
		g, err := geojson.UnmarshalGeometry(r.Polygon)
		if err != nil {
			return models.SearchCriteria{}, commonerrors.NewInvalidGeometryError("polygon is not valid GeoJSON: " + err.Error())
		}
		area, err := geo.AreaFromGeometry(g.Geometry())
		if err != nil {
			return models.SearchCriteria{}, err
		}
		criteria.Area = area
	case len(r.Isochrone) > 0:
		area, err := geo.AreaFromRing(r.Isochrone)
		if err != nil {
			return models.SearchCriteria{}, err
		}
		criteria.Area = area
	}

	return criteria, nil
}

// searchResponse is the success body: always an object with a jobs array,
// never a bare list and never null.
type searchResponse struct {
	Jobs []models.NormalizedJob `json:"jobs"`
}
