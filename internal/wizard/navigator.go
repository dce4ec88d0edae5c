// Package wizard sequences the registration steps of a session and owns its
// draft between the two outbound calls.
package wizard

import (
	"fmt"

	"visitor-registration/internal/models"
	"visitor-registration/internal/taxonomy"
)

// order is the forward sequence of steps.
var order = []models.Step{
	models.StepIdentity,
	models.StepCategorySelect,
	models.StepVisitorTypeSelect,
	models.StepFormFill,
	models.StepPassIssued,
}

// Progress is what a session has accumulated so far.
type Progress struct {
	Identified  bool
	Category    taxonomy.Category
	VisitorType taxonomy.VisitorType
	PassIssued  bool
}

// Allows reports whether step can be entered with p.
func (p Progress) Allows(step models.Step) bool {
	switch step {
	case models.StepIdentity:
		return true
	case models.StepCategorySelect:
		return p.Identified
	case models.StepVisitorTypeSelect:
		return p.Identified && p.Category.IsValid()
	case models.StepFormFill:
		return p.Identified && taxonomy.Allows(p.Category, p.VisitorType)
	case models.StepPassIssued:
		return p.PassIssued
	}
	return false
}

// Guard returns the step to show for a request of step: step itself when its
// prerequisites hold, otherwise the nearest earlier step that can be entered.
func Guard(step models.Step, p Progress) models.Step {
	idx := indexOf(step)
	if idx < 0 {
		idx = len(order) - 1
	}
	for i := idx; i > 0; i-- {
		if p.Allows(order[i]) {
			return order[i]
		}
	}
	return models.StepIdentity
}

func indexOf(step models.Step) int {
	for i, s := range order {
		if s == step {
			return i
		}
	}
	return -1
}

// Redirect is returned instead of a result when a guard sends the session to
// an earlier step. It is a navigation outcome, not a user-facing failure.
type Redirect struct {
	Requested models.Step
	Step      models.Step
}

func (r *Redirect) Error() string {
	return fmt.Sprintf("step %s is not reachable, redirected to %s", r.Requested, r.Step)
}
