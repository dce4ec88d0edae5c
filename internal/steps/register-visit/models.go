package registervisit

import (
	"visitor-registration/internal/common/logger"
	"visitor-registration/internal/models"
	"visitor-registration/internal/schema"
)

// Submission is a built payload plus what the pass step needs from the draft.
type Submission struct {
	Form     schema.Form
	Payload  *models.SubmissionPayload
	Visitors []models.VisitorRecord
}

type Output struct {
	Payload *models.SubmissionPayload `json:"payload"`
	Pass    models.PassContext        `json:"passContext"`
}

type ServiceDependencies struct {
	Logger logger.Logger
}
