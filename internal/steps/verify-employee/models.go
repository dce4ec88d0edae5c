package verifyemployee

import (
	"visitor-registration/internal/common/logger"
	"visitor-registration/internal/models"
)

type Input struct {
	EmployeeID string `json:"employeeId"`
}

type Output struct {
	Identity *models.EmployeeIdentity `json:"identity"`
}

// verificationResponse is the lookup endpoint body. Error wins over Employee.
type verificationResponse struct {
	Employee *models.EmployeeProfile `json:"employee"`
	Error    *string                 `json:"error"`
}

type ServiceDependencies struct {
	Logger logger.Logger
}
