package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSearchRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "full valid request",
			body: `{"keyword": "vendeur", "filters": {"contrat": "CDI"},
			        "polygon": {"type": "Polygon", "coordinates": [[[2,48],[3,48],[3,49],[2,48]]]}}`,
		},
		{
			name: "empty object",
			body: `{}`,
		},
		{
			name: "isochrone instead of polygon",
			body: `{"isochrone": [[2.0, 48.0], [3.0, 48.0], [3.0, 49.0]]}`,
		},
		{
			name: "null optional fields",
			body: `{"keyword": null, "filters": null, "polygon": null}`,
		},
		{
			name:    "invalid json",
			body:    `{`,
			wantErr: true,
		},
		{
			name:    "keyword wrong type",
			body:    `{"keyword": 42}`,
			wantErr: true,
		},
		{
			name:    "unknown top-level field",
			body:    `{"unknown": true}`,
			wantErr: true,
		},
		{
			name:    "unknown filter field",
			body:    `{"filters": {"salaire": "35k"}}`,
			wantErr: true,
		},
		{
			name:    "polygon missing coordinates",
			body:    `{"polygon": {"type": "Polygon"}}`,
			wantErr: true,
		},
		{
			name:    "geometry type not areal",
			body:    `{"polygon": {"type": "Point", "coordinates": [2, 48]}}`,
			wantErr: true,
		},
		{
			name:    "isochrone pair too long",
			body:    `{"isochrone": [[2.0, 48.0, 12.0]]}`,
			wantErr: true,
		},
		{
			name:    "keyword too long",
			body:    `{"keyword": "` + strings.Repeat("a", 201) + `"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSearchRequest([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
