// Package schema resolves which fields a (category, visitor type) pair collects.
package schema

import (
	"visitor-registration/internal/common/errors"
	"visitor-registration/internal/taxonomy"
)

// Form is the per-category variant selected by a (category, visitor type)
// pair. The set of implementations is closed; Resolve and the submission
// builder switch over it exhaustively.
type Form interface {
	Category() taxonomy.Category
	VisitorType() taxonomy.VisitorType
	isForm()
}

// EmployeeForm collects fixed structured rows. Family swaps contact for
// relationship and drops purpose and the end of the visit window.
type EmployeeForm struct {
	Type   taxonomy.VisitorType
	Family bool
}

// BusinessForm collects a client company and names; Global adds the country.
type BusinessForm struct {
	Type   taxonomy.VisitorType
	Global bool
}

// ExternalForm collects a company and names; Vendor changes the company label.
type ExternalForm struct {
	Type   taxonomy.VisitorType
	Vendor bool
}

// ComplianceForm collects person names only.
type ComplianceForm struct {
	Type taxonomy.VisitorType
}

// LogisticsForm collects one delivery partner, the deliverables and a date.
type LogisticsForm struct {
	Type taxonomy.VisitorType
}

// GroupForm collects an organization, captain, shared contact and players.
type GroupForm struct {
	Type taxonomy.VisitorType
}

func (f EmployeeForm) Category() taxonomy.Category   { return taxonomy.CategoryEmployee }
func (f BusinessForm) Category() taxonomy.Category   { return taxonomy.CategoryBusiness }
func (f ExternalForm) Category() taxonomy.Category   { return taxonomy.CategoryExternal }
func (f ComplianceForm) Category() taxonomy.Category { return taxonomy.CategoryCompliance }
func (f LogisticsForm) Category() taxonomy.Category  { return taxonomy.CategoryLogistics }
func (f GroupForm) Category() taxonomy.Category      { return taxonomy.CategoryGroup }

func (f EmployeeForm) VisitorType() taxonomy.VisitorType   { return f.Type }
func (f BusinessForm) VisitorType() taxonomy.VisitorType   { return f.Type }
func (f ExternalForm) VisitorType() taxonomy.VisitorType   { return f.Type }
func (f ComplianceForm) VisitorType() taxonomy.VisitorType { return f.Type }
func (f LogisticsForm) VisitorType() taxonomy.VisitorType  { return f.Type }
func (f GroupForm) VisitorType() taxonomy.VisitorType      { return f.Type }

func (EmployeeForm) isForm()   {}
func (BusinessForm) isForm()   {}
func (ExternalForm) isForm()   {}
func (ComplianceForm) isForm() {}
func (LogisticsForm) isForm()  {}
func (GroupForm) isForm()      {}

// FormFor selects the form variant for a pair. It fails with
// UNKNOWN_CATEGORY or UNKNOWN_COMBINATION outside the taxonomy.
func FormFor(category taxonomy.Category, visitorType taxonomy.VisitorType) (Form, error) {
	if !category.IsValid() {
		return nil, errors.NewUnknownCategoryError(string(category))
	}
	if !taxonomy.Allows(category, visitorType) {
		return nil, errors.NewUnknownCombinationError(string(category), string(visitorType))
	}

	switch category {
	case taxonomy.CategoryEmployee:
		// Family is the only Employee type listed today; other types get the general contact rows.
		return EmployeeForm{Type: visitorType, Family: visitorType == taxonomy.VisitorTypeFamily}, nil
	case taxonomy.CategoryBusiness:
		return BusinessForm{Type: visitorType, Global: visitorType == taxonomy.VisitorTypeClientGlobal}, nil
	case taxonomy.CategoryExternal:
		return ExternalForm{Type: visitorType, Vendor: visitorType == taxonomy.VisitorTypeVendorSupplier}, nil
	case taxonomy.CategoryCompliance:
		return ComplianceForm{Type: visitorType}, nil
	case taxonomy.CategoryLogistics:
		return LogisticsForm{Type: visitorType}, nil
	case taxonomy.CategoryGroup:
		return GroupForm{Type: visitorType}, nil
	}
	return nil, errors.NewUnknownCategoryError(string(category))
}
