package registervisit

import (
	"strings"
	"time"

	"visitor-registration/internal/common/errors"
	"visitor-registration/internal/models"
	"visitor-registration/internal/roster"
	"visitor-registration/internal/schema"
)

const (
	dateLayout      = "2006-01-02"
	visitDateLayout = "2006-01-02 15:04:05"
)

var timeLayouts = []string{"15:04", "15:04:05"}

// Build shapes a draft into the registration payload. Validation is fail
// fast in this order: identity, visit date, visitor list, group contact.
// No network call is involved.
func Build(state *models.WizardState, identity *models.EmployeeIdentity) (*models.SubmissionPayload, error) {
	sub, err := Prepare(state, identity)
	if err != nil {
		return nil, err
	}
	return sub.Payload, nil
}

// Prepare is Build that also returns the selected form and the visitor list.
func Prepare(state *models.WizardState, identity *models.EmployeeIdentity) (*Submission, error) {
	empID, ok := identity.ResolveNumericID()
	if !ok {
		details := "no verified identity"
		if identity != nil {
			details = "employeeId: " + identity.EmployeeID
		}
		return nil, errors.NewInvalidIdentityError(details)
	}

	form, err := schema.FormFor(state.Category, state.VisitorType)
	if err != nil {
		return nil, err
	}

	visitDate, err := resolveVisitDate(form, state)
	if err != nil {
		return nil, err
	}

	visitors, err := collectVisitors(form, state)
	if err != nil {
		return nil, err
	}

	if _, isGroup := form.(schema.GroupForm); isGroup {
		contact := strings.TrimSpace(state.GroupContact)
		if contact == "" {
			return nil, errors.NewMissingContactError()
		}
		visitors[0].Contact = contact
	}

	payload := &models.SubmissionPayload{
		Category:  form.Category().Lower(),
		EmpID:     empID,
		VisitDate: visitDate.Format(visitDateLayout),
		Visitors:  shapeVisitors(form, visitors, state.PurposeOfVisit),
	}

	return &Submission{Form: form, Payload: payload, Visitors: visitors}, nil
}

func resolveVisitDate(form schema.Form, state *models.WizardState) (time.Time, error) {
	if _, ok := form.(schema.LogisticsForm); ok {
		if strings.TrimSpace(state.DeliveryDate) == "" {
			return time.Time{}, errors.NewMissingVisitDateError()
		}
		return parseDate(schema.FieldDeliveryDate, state.DeliveryDate)
	}

	if strings.TrimSpace(state.StartDate) == "" || strings.TrimSpace(state.StartTime) == "" {
		return time.Time{}, errors.NewMissingVisitDateError()
	}
	start, err := combine(schema.FieldStartDate, state.StartDate, schema.FieldStartTime, state.StartTime)
	if err != nil {
		return time.Time{}, err
	}

	if schema.SpecFor(form).DateWindow == schema.WindowRange {
		if err := checkWindowEnd(start, state); err != nil {
			return time.Time{}, err
		}
	}
	return start, nil
}

// checkWindowEnd validates the optional end of the visit window.
func checkWindowEnd(start time.Time, state *models.WizardState) error {
	endDate := strings.TrimSpace(state.EndDate)
	endTime := strings.TrimSpace(state.EndTime)

	if endDate != "" {
		if _, err := parseDate(schema.FieldEndDate, endDate); err != nil {
			return err
		}
	}
	if endTime != "" {
		if _, err := parseTime(schema.FieldEndTime, endTime); err != nil {
			return err
		}
	}
	if endDate == "" || endTime == "" {
		return nil
	}

	end, err := combine(schema.FieldEndDate, endDate, schema.FieldEndTime, endTime)
	if err != nil {
		return err
	}
	if end.Before(start) {
		return errors.NewInvalidVisitWindowError(
			"start: " + start.Format(visitDateLayout) + ", end: " + end.Format(visitDateLayout))
	}
	return nil
}

func collectVisitors(form schema.Form, state *models.WizardState) ([]models.VisitorRecord, error) {
	switch form.(type) {
	case schema.EmployeeForm:
		if len(state.Visitors) == 0 {
			return nil, errors.NewNoVisitorsAddedError("visitor")
		}
		rows := make([]models.VisitorRecord, len(state.Visitors))
		for i, row := range state.Visitors {
			if !row.HasName() {
				return nil, errors.NewMissingVisitorNameError(i)
			}
			rows[i] = row
		}
		return rows, nil

	case schema.LogisticsForm:
		if !state.DeliveryPartner.HasName() {
			return nil, errors.NewMissingDeliveryPartnerError()
		}
		return []models.VisitorRecord{state.DeliveryPartner}, nil

	case schema.BusinessForm, schema.ExternalForm, schema.ComplianceForm, schema.GroupForm:
		return roster.New(schema.SpecFor(form).EntryLabel, state.Visitors).RequireNamed()
	}
	return nil, errors.NewUnknownCategoryError(string(form.Category()))
}

func shapeVisitors(form schema.Form, visitors []models.VisitorRecord, purpose string) []models.SubmissionVisitor {
	family := false
	if employee, ok := form.(schema.EmployeeForm); ok {
		family = employee.Family
	}
	purpose = strings.TrimSpace(purpose)
	if !schema.SpecFor(form).CollectsPurpose {
		purpose = ""
	}

	out := make([]models.SubmissionVisitor, len(visitors))
	for i, v := range visitors {
		entry := models.SubmissionVisitor{
			VisitorName:   strings.TrimSpace(v.Name),
			VisitorGender: string(v.Gender),
		}
		switch {
		case family:
			entry.VisitorRelationship = strings.TrimSpace(v.Relationship)
		case purpose != "":
			entry.MetadataJSON = &models.VisitorMetadata{Purpose: purpose}
		}
		out[i] = entry
	}
	return out
}

func combine(dateField, date, timeField, clock string) (time.Time, error) {
	d, err := parseDate(dateField, date)
	if err != nil {
		return time.Time{}, err
	}
	t, err := parseTime(timeField, clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}

func parseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, errors.NewInvalidVisitDateError(field, value)
	}
	return d, nil
}

func parseTime(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.NewInvalidVisitDateError(field, value)
}
