package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identitySchema() JSONSchema {
	return JSONSchema{
		Type: "object",
		Properties: map[string]Property{
			"employeeId": {Type: "string", MaxLength: IntPtr(64)},
			"gender":     {Type: "string", Enum: []string{"Male", "Female", "Other"}},
			"index":      {Type: "integer"},
		},
		Required: []string{"employeeId"},
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name        string
		input       map[string]interface{}
		expectValid bool
		errorField  string
	}{
		{
			name:        "valid body",
			input:       map[string]interface{}{"employeeId": "EMP-1", "index": float64(2)},
			expectValid: true,
		},
		{
			name:       "missing required",
			input:      map[string]interface{}{},
			errorField: "employeeId",
		},
		{
			name:       "wrong type",
			input:      map[string]interface{}{"employeeId": float64(12)},
			errorField: "employeeId",
		},
		{
			name:       "fractional integer",
			input:      map[string]interface{}{"employeeId": "x", "index": 1.5},
			errorField: "index",
		},
		{
			name:       "bad enum",
			input:      map[string]interface{}{"employeeId": "x", "gender": "Unknown"},
			errorField: "gender",
		},
		{
			name:       "extra field",
			input:      map[string]interface{}{"employeeId": "x", "role": "admin"},
			errorField: "role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateInput(tt.input, identitySchema())
			assert.Equal(t, tt.expectValid, result.Valid, result.GetErrorMessages())
			if tt.errorField != "" {
				assert.True(t, result.HasErrors(tt.errorField), result.GetErrorMessages())
			}
		})
	}
}

func TestValidateDocument(t *testing.T) {
	schema := `{"type":"object","required":["emp_id"],"properties":{"emp_id":{"type":"integer"}}}`

	result, err := ValidateDocument(schema, map[string]interface{}{"emp_id": 42})
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = ValidateDocument(schema, map[string]interface{}{"emp_id": "42"})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.GetErrorMessages())

	_, err = ValidateDocument(`{"type":`, map[string]interface{}{})
	assert.Error(t, err)
}

func TestValidateContactFormats(t *testing.T) {
	assert.True(t, ValidateEmail("host@example.com"))
	assert.False(t, ValidateEmail("host@"))
	assert.True(t, ValidatePhone("+91 98765 43210"))
	assert.False(t, ValidatePhone("12345"))
}
