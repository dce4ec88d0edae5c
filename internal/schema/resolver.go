package schema

import (
	"path/filepath"
	"strings"

	"visitor-registration/internal/taxonomy"
)

// EntryMode is how visitor entries are collected on the form.
type EntryMode string

const (
	// EntryStructuredRows edits full visitor rows in place.
	EntryStructuredRows EntryMode = "structured_rows"
	// EntryIncrementalNames adds entries by name into a removable list.
	EntryIncrementalNames EntryMode = "incremental_names"
	// EntrySingleRecord holds exactly one fixed record.
	EntrySingleRecord EntryMode = "single_record"
)

// DateWindow is the shape of the visit date fields.
type DateWindow string

const (
	WindowRange          DateWindow = "range"
	WindowSingleDateTime DateWindow = "single_datetime"
	WindowSingleDate     DateWindow = "single_date"
)

// Form-level field keys. They match the JSON names of the wizard draft.
const (
	FieldCompanyName    = "companyName"
	FieldCompanyAddress = "companyAddress"
	FieldCountry        = "country"
	FieldPurposeOfVisit = "purposeOfVisit"
	FieldStartDate      = "startDate"
	FieldStartTime      = "startTime"
	FieldEndDate        = "endDate"
	FieldEndTime        = "endTime"
	FieldTeamCaptain    = "teamCaptain"
	FieldSportsType     = "sportsType"
	FieldGroupContact   = "groupContact"
	FieldDeliverables   = "deliverables"
	FieldDeliveryDate   = "deliveryDate"
)

// Visitor entry field keys.
const (
	VisitorName         = "name"
	VisitorAge          = "age"
	VisitorGender       = "gender"
	VisitorContact      = "contact"
	VisitorRelationship = "relationship"
)

var (
	baseExtensions     = []string{".pdf", ".jpg", ".jpeg", ".png"}
	businessExtensions = []string{".pdf", ".jpg", ".jpeg", ".png", ".eml", ".msg"}
)

// Field is one input on the form.
type Field struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// Upload is the single optional document constraint of a form.
type Upload struct {
	Label      string   `json:"label"`
	Extensions []string `json:"extensions"`
}

// Accepts reports whether filename carries one of the accepted extensions.
func (u Upload) Accepts(filename string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	if ext == "" {
		return false
	}
	for _, allowed := range u.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// FieldSpec declares everything the form step shows for one pair.
type FieldSpec struct {
	Category         taxonomy.Category    `json:"category"`
	VisitorType      taxonomy.VisitorType `json:"visitorType"`
	Fields           []Field              `json:"fields"`
	EntryMode        EntryMode            `json:"entryMode"`
	EntryLabel       string               `json:"entryLabel"`
	VisitorFields    []Field              `json:"visitorFields"`
	DateWindow       DateWindow           `json:"dateWindow"`
	Upload           Upload               `json:"upload"`
	CollectsPurpose  bool                 `json:"collectsPurpose"`
	RequiresVisitors bool                 `json:"requiresVisitors"`
	RequiresContact  bool                 `json:"requiresContact"`
}

// HasField reports whether the form collects the form-level key.
func (s *FieldSpec) HasField(key string) bool {
	for _, f := range s.Fields {
		if f.Key == key {
			return true
		}
	}
	return false
}

// HasVisitorField reports whether visitor entries collect key.
func (s *FieldSpec) HasVisitorField(key string) bool {
	for _, f := range s.VisitorFields {
		if f.Key == key {
			return true
		}
	}
	return false
}

// Resolve returns the FieldSpec of a pair. It holds no state: equal inputs
// give equal specs.
func Resolve(category taxonomy.Category, visitorType taxonomy.VisitorType) (*FieldSpec, error) {
	form, err := FormFor(category, visitorType)
	if err != nil {
		return nil, err
	}
	return SpecFor(form), nil
}

// SpecFor builds the FieldSpec of an already selected form variant.
func SpecFor(form Form) *FieldSpec {
	spec := &FieldSpec{
		Category:    form.Category(),
		VisitorType: form.VisitorType(),
		Upload:      Upload{Label: "Upload Document", Extensions: copyOf(baseExtensions)},
	}

	switch f := form.(type) {
	case EmployeeForm:
		spec.EntryMode = EntryStructuredRows
		spec.EntryLabel = "visitor"
		spec.RequiresVisitors = true
		spec.Upload.Label = "Upload Adhaar Reference Document"
		if f.Family {
			spec.VisitorFields = visitorRow(VisitorRelationship, "Relationship")
			spec.DateWindow = WindowSingleDateTime
			spec.Fields = []Field{
				{Key: FieldStartDate, Label: "Visit Date", Required: true},
				{Key: FieldStartTime, Label: "Visit Time", Required: true},
			}
		} else {
			spec.VisitorFields = visitorRow(VisitorContact, "Contact Details")
			spec.DateWindow = WindowRange
			spec.CollectsPurpose = true
			spec.Fields = append([]Field{purposeField()}, windowFields()...)
		}

	case BusinessForm:
		incremental(spec, "visitor")
		spec.Upload = Upload{Label: "Upload Email/Client Request", Extensions: copyOf(businessExtensions)}
		spec.Fields = []Field{
			{Key: FieldCompanyName, Label: "Client Company Name"},
			{Key: FieldCompanyAddress, Label: "Company Address"},
		}
		if f.Global {
			spec.Fields = append(spec.Fields, Field{Key: FieldCountry, Label: "Country"})
		}
		spec.Fields = append(spec.Fields, purposeField())
		spec.Fields = append(spec.Fields, windowFields()...)

	case ExternalForm:
		incremental(spec, "visitor")
		label := "Company Name"
		if f.Vendor {
			label = "Vendor Company Name"
		}
		spec.Fields = []Field{
			{Key: FieldCompanyName, Label: label},
			{Key: FieldCompanyAddress, Label: "Company Address"},
			purposeField(),
		}
		spec.Fields = append(spec.Fields, windowFields()...)

	case ComplianceForm:
		incremental(spec, "person")
		spec.Fields = append([]Field{purposeField()}, windowFields()...)

	case LogisticsForm:
		spec.EntryMode = EntrySingleRecord
		spec.EntryLabel = "delivery partner"
		spec.DateWindow = WindowSingleDate
		spec.VisitorFields = []Field{
			{Key: VisitorName, Label: "Name of Delivery Partner", Required: true},
			{Key: VisitorContact, Label: "Contact Number"},
		}
		spec.Fields = []Field{
			{Key: FieldDeliverables, Label: "List of Deliverables"},
			{Key: FieldDeliveryDate, Label: "Delivery Date", Required: true},
		}

	case GroupForm:
		incremental(spec, "player")
		spec.RequiresContact = true
		spec.Fields = []Field{
			{Key: FieldCompanyName, Label: "Name of Organization"},
			{Key: FieldTeamCaptain, Label: "Team Captain"},
			{Key: FieldGroupContact, Label: "Contact Details", Required: true},
			{Key: FieldSportsType, Label: "Sports Type"},
			purposeField(),
		}
		spec.Fields = append(spec.Fields, windowFields()...)
	}

	return spec
}

func incremental(spec *FieldSpec, label string) {
	spec.EntryMode = EntryIncrementalNames
	spec.EntryLabel = label
	spec.RequiresVisitors = true
	spec.CollectsPurpose = true
	spec.DateWindow = WindowRange
	spec.VisitorFields = []Field{{Key: VisitorName, Label: "Name", Required: true}}
}

func visitorRow(lastKey, lastLabel string) []Field {
	return []Field{
		{Key: VisitorName, Label: "Name", Required: true},
		{Key: VisitorAge, Label: "Age"},
		{Key: VisitorGender, Label: "Gender"},
		{Key: lastKey, Label: lastLabel},
	}
}

func purposeField() Field {
	return Field{Key: FieldPurposeOfVisit, Label: "Purpose of Visit"}
}

func windowFields() []Field {
	return []Field{
		{Key: FieldStartDate, Label: "Start Date", Required: true},
		{Key: FieldStartTime, Label: "Start Time", Required: true},
		{Key: FieldEndDate, Label: "End Date"},
		{Key: FieldEndTime, Label: "End Time"},
	}
}

func copyOf(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
