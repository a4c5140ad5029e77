// internal/models/job.go
package models

import "github.com/paulmach/orb"

// NormalizedJob is the stable record shape consumed by the map front
// end. Field names mirror the response contract exactly.
type NormalizedJob struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Position    string  `json:"position"`
	Salary      string  `json:"salary"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Address     string  `json:"address"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Suburb      string  `json:"suburb"`
	URL         string  `json:"url"`
}

// SearchCriteria drives the fetch fan-out. Area is nil for a nationwide
// search; a plain polygon is represented as a one-element multipolygon
// so holes and multi-part isochrones are handled uniformly.
type SearchCriteria struct {
	Keyword      string
	ContractType string
	Area         orb.MultiPolygon
}

// HasArea reports whether the search is geographically restricted.
func (c SearchCriteria) HasArea() bool {
	return len(c.Area) > 0
}
