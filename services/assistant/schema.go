package assistant

import "github.com/xeipuuv/gojsonschema"

var (
	querySchema = mustSchema(`{
		"type": "object",
		"required": ["translatedQuery"],
		"properties": {
			"translatedQuery": {"type": "string"},
			"originalQuery": {"type": "string"},
			"detected": {"type": "boolean"}
		}
	}`)

	vendorsSchema = mustSchema(`{
		"type": "object",
		"required": ["translatedVendors"],
		"properties": {
			"translatedVendors": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["id"],
					"properties": {
						"id": {"type": "string"},
						"business_name": {"type": ["string", "null"]},
						"service_type": {"type": ["string", "null"]},
						"business_address": {"type": ["string", "null"]}
					}
				}
			}
		}
	}`)

	recommendationsSchema = mustSchema(`{
		"type": "object",
		"required": ["recommendations"],
		"properties": {
			"recommendations": {
				"type": "object",
				"required": ["featured"],
				"properties": {
					"featured": {"type": "array", "items": {"type": "string"}},
					"categories": {
						"type": "object",
						"additionalProperties": {"type": "array", "items": {"type": "string"}}
					},
					"insights": {"type": "string"},
					"nearbyTip": {"type": "string"}
				}
			},
			"vendorDistances": {
				"type": ["object", "null"],
				"additionalProperties": {"type": ["number", "null"]}
			}
		}
	}`)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(err)
	}
	return s
}
