package wizard

import (
	"testing"

	"visitor-registration/internal/models"
	"visitor-registration/internal/taxonomy"

	"github.com/stretchr/testify/assert"
)

func TestGuard(t *testing.T) {
	none := Progress{}
	identified := Progress{Identified: true}
	withCategory := Progress{Identified: true, Category: taxonomy.CategoryBusiness}
	complete := Progress{Identified: true, Category: taxonomy.CategoryBusiness, VisitorType: taxonomy.VisitorTypeClientIndia}
	mismatched := Progress{Identified: true, Category: taxonomy.CategoryBusiness, VisitorType: taxonomy.VisitorTypeSports}
	issued := Progress{Identified: true, Category: taxonomy.CategoryGroup, VisitorType: taxonomy.VisitorTypeSports, PassIssued: true}

	tests := []struct {
		name      string
		requested models.Step
		progress  Progress
		expected  models.Step
	}{
		{"identity always reachable", models.StepIdentity, none, models.StepIdentity},
		{"category needs identity", models.StepCategorySelect, none, models.StepIdentity},
		{"category with identity", models.StepCategorySelect, identified, models.StepCategorySelect},
		{"visitor type without category", models.StepVisitorTypeSelect, identified, models.StepCategorySelect},
		{"visitor type without identity", models.StepVisitorTypeSelect, Progress{Category: taxonomy.CategoryBusiness}, models.StepIdentity},
		{"visitor type with category", models.StepVisitorTypeSelect, withCategory, models.StepVisitorTypeSelect},
		{"form without anything", models.StepFormFill, none, models.StepIdentity},
		{"form without visitor type", models.StepFormFill, withCategory, models.StepVisitorTypeSelect},
		{"form with type outside category", models.StepFormFill, mismatched, models.StepVisitorTypeSelect},
		{"form with both", models.StepFormFill, complete, models.StepFormFill},
		{"pass without registration", models.StepPassIssued, complete, models.StepFormFill},
		{"pass without registration or type", models.StepPassIssued, withCategory, models.StepVisitorTypeSelect},
		{"pass after registration", models.StepPassIssued, issued, models.StepPassIssued},
		{"unknown step falls back to the nearest valid", models.Step("bogus"), identified, models.StepCategorySelect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Guard(tt.requested, tt.progress))
		})
	}
}

func TestGuard_NeverMovesForward(t *testing.T) {
	all := Progress{Identified: true, Category: taxonomy.CategoryLogistics, VisitorType: taxonomy.VisitorTypeDeliveryCourier, PassIssued: true}
	for i, step := range order {
		got := Guard(step, all)
		assert.Equal(t, step, got)
		assert.LessOrEqual(t, indexOf(got), i)
	}
}

func TestRedirect_Error(t *testing.T) {
	r := &Redirect{Requested: models.StepFormFill, Step: models.StepCategorySelect}
	assert.Contains(t, r.Error(), "form_fill")
	assert.Contains(t, r.Error(), "category_select")
}
