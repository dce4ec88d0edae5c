package httptransport

import (
	"visitor-registration/internal/common/validation"
	"visitor-registration/internal/schema"
)

func categorySchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"category"},
		Properties: map[string]validation.Property{
			"category": {Type: "string", MinLength: validation.IntPtr(1)},
		},
	}
}

func visitorTypeSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"visitorType"},
		Properties: map[string]validation.Property{
			"visitorType": {Type: "string", MinLength: validation.IntPtr(1)},
		},
	}
}

// formFieldsSchema accepts any known form-level key. Whether the selected
// form collects it is checked by the wizard.
func formFieldsSchema() validation.JSONSchema {
	keys := []string{
		schema.FieldCompanyName, schema.FieldCompanyAddress, schema.FieldCountry,
		schema.FieldPurposeOfVisit, schema.FieldStartDate, schema.FieldStartTime,
		schema.FieldEndDate, schema.FieldEndTime, schema.FieldTeamCaptain,
		schema.FieldSportsType, schema.FieldGroupContact, schema.FieldDeliverables,
		schema.FieldDeliveryDate,
	}
	props := make(map[string]validation.Property, len(keys))
	for _, k := range keys {
		props[k] = validation.Property{Type: "string", MaxLength: validation.IntPtr(1024)}
	}
	return validation.JSONSchema{Type: "object", Properties: props}
}

func visitorSchema() validation.JSONSchema {
	text := validation.Property{Type: "string", MaxLength: validation.IntPtr(256)}
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			schema.VisitorName:         text,
			schema.VisitorAge:          text,
			schema.VisitorGender:       {Type: "string", Enum: []string{"", "Male", "Female", "Other"}},
			schema.VisitorContact:      text,
			schema.VisitorRelationship: text,
		},
	}
}

func documentSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"documentRef"},
		Properties: map[string]validation.Property{
			"documentRef": {Type: "string", MaxLength: validation.IntPtr(512)},
		},
	}
}
