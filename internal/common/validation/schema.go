// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// searchRequestSchema constrains the shape of the POST /api/jobs body
// before any geometry parsing happens. Polygon coordinates are validated
// structurally here; ring sanity (vertex count, degeneracy) is the geo
// package's job.
const searchRequestSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"keyword": {"type": ["string", "null"], "maxLength": 200},
		"filters": {
			"type": ["object", "null"],
			"additionalProperties": false,
			"properties": {
				"contrat": {"type": ["string", "null"], "maxLength": 20}
			}
		},
		"polygon": {
			"type": ["object", "null"],
			"required": ["type", "coordinates"],
			"properties": {
				"type": {"type": "string", "enum": ["Polygon", "MultiPolygon"]},
				"coordinates": {"type": "array"}
			}
		},
		"isochrone": {
			"type": ["array", "null"],
			"items": {
				"type": "array",
				"minItems": 2,
				"maxItems": 2,
				"items": {"type": "number"}
			}
		}
	}
}`

var searchRequestLoader = gojsonschema.NewStringLoader(searchRequestSchema)

// ValidateSearchRequest checks a raw request body against the search
// request schema and returns a caller-safe description of what is wrong.
func ValidateSearchRequest(body []byte) error {
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(searchRequestLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("malformed JSON body: %w", err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return fmt.Errorf("invalid request body: %s", strings.Join(msgs, "; "))
}
