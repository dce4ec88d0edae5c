// internal/taxonomy/taxonomy.go
package taxonomy

import (
	"fmt"
	"strings"
)

// Category is the top-level visitor classification.
type Category string

const (
	CategoryEmployee   Category = "Employee"
	CategoryBusiness   Category = "Business"
	CategoryExternal   Category = "External"
	CategoryCompliance Category = "Compliance"
	CategoryLogistics  Category = "Logistics"
	CategoryGroup      Category = "Group"
)

// VisitorType is a sub-classification that is only meaningful together with
// the Category that lists it.
type VisitorType string

const (
	VisitorTypeFamily          VisitorType = "Family"
	VisitorTypeClientIndia     VisitorType = "Client(India)"
	VisitorTypeClientGlobal    VisitorType = "Client(Global)"
	VisitorTypeVendorSupplier  VisitorType = "Vendor / Supplier"
	VisitorTypeThirdPartyStaff VisitorType = "Third-Party Staff"
	VisitorTypePolice          VisitorType = "Police"
	VisitorTypeAuditor         VisitorType = "Auditor"
	VisitorTypeLawyer          VisitorType = "Lawyer"
	VisitorTypeDeliveryCourier VisitorType = "Delivery / Courier"
	VisitorTypeSports          VisitorType = "Sports"
)

var categories = []Category{
	CategoryEmployee,
	CategoryBusiness,
	CategoryExternal,
	CategoryCompliance,
	CategoryLogistics,
	CategoryGroup,
}

var visitorTypesByCategory = map[Category][]VisitorType{
	CategoryEmployee:   {VisitorTypeFamily},
	CategoryBusiness:   {VisitorTypeClientIndia, VisitorTypeClientGlobal},
	CategoryExternal:   {VisitorTypeVendorSupplier, VisitorTypeThirdPartyStaff},
	CategoryCompliance: {VisitorTypePolice, VisitorTypeAuditor, VisitorTypeLawyer},
	CategoryLogistics:  {VisitorTypeDeliveryCourier},
	CategoryGroup:      {VisitorTypeSports},
}

// Categories returns the categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// VisitorTypes returns the visitor types listed for c, in display order.
// Unknown categories yield nil.
func VisitorTypes(c Category) []VisitorType {
	types, ok := visitorTypesByCategory[c]
	if !ok {
		return nil
	}
	out := make([]VisitorType, len(types))
	copy(out, types)
	return out
}

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	_, ok := visitorTypesByCategory[c]
	return ok
}

// Lower is the form the registration endpoint expects.
func (c Category) Lower() string {
	return strings.ToLower(string(c))
}

func (c Category) String() string {
	return string(c)
}

func (v VisitorType) String() string {
	return string(v)
}

// Allows reports whether v is listed for c.
func Allows(c Category, v VisitorType) bool {
	for _, t := range visitorTypesByCategory[c] {
		if t == v {
			return true
		}
	}
	return false
}

// ParseCategory matches s against the known categories ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// ParseVisitorType matches s against the visitor types listed for c. The
// comparison ignores case and surrounding whitespace.
func ParseVisitorType(c Category, s string) (VisitorType, error) {
	s = strings.TrimSpace(s)
	for _, t := range visitorTypesByCategory[c] {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("visitor type %q is not listed for category %q", s, c)
}
