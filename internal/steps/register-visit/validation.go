package registervisit

import (
	"encoding/json"
	"strings"
	"sync"

	"visitor-registration/internal/common/errors"
	"visitor-registration/internal/common/validation"
	"visitor-registration/internal/models"
	"visitor-registration/internal/taxonomy"
)

var (
	payloadSchemaOnce sync.Once
	payloadSchemaJSON string
)

// GetPayloadSchema returns the JSON Schema of the registration request body.
func GetPayloadSchema() string {
	payloadSchemaOnce.Do(func() {
		categories := make([]string, 0, len(taxonomy.Categories()))
		for _, c := range taxonomy.Categories() {
			categories = append(categories, c.Lower())
		}

		doc := map[string]interface{}{
			"$schema":              "http://json-schema.org/draft-07/schema#",
			"type":                 "object",
			"required":             []string{"category", "emp_id", "visit_date", "visitors"},
			"additionalProperties": false,
			"properties": map[string]interface{}{
				"category": map[string]interface{}{
					"type": "string",
					"enum": categories,
				},
				"emp_id": map[string]interface{}{
					"type": "integer",
				},
				"visit_date": map[string]interface{}{
					"type":    "string",
					"pattern": `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`,
				},
				"visitors": map[string]interface{}{
					"type":     "array",
					"minItems": 1,
					"items": map[string]interface{}{
						"type":                 "object",
						"required":             []string{"visitor_name", "visitor_gender"},
						"additionalProperties": false,
						"properties": map[string]interface{}{
							"visitor_name":         map[string]interface{}{"type": "string", "minLength": 1},
							"visitor_gender":       map[string]interface{}{"type": "string", "enum": []string{"", "Male", "Female", "Other"}},
							"visitor_relationship": map[string]interface{}{"type": "string"},
							"metadata_json": map[string]interface{}{
								"type":                 "object",
								"required":             []string{"purpose"},
								"additionalProperties": false,
								"properties": map[string]interface{}{
									"purpose": map[string]interface{}{"type": "string", "minLength": 1},
								},
							},
						},
					},
				},
			},
		}

		raw, err := json.Marshal(doc)
		if err != nil {
			panic(err)
		}
		payloadSchemaJSON = string(raw)
	})
	return payloadSchemaJSON
}

// CheckContract validates a built payload against the registration schema.
func CheckContract(payload *models.SubmissionPayload) error {
	result, err := validation.ValidateDocument(GetPayloadSchema(), payload)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if !result.Valid {
		return errors.NewPayloadContractViolationError(strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}
