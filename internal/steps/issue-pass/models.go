package issuepass

import (
	"context"

	"visitor-registration/internal/common/logger"
	"visitor-registration/internal/models"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

type Input struct {
	Context  models.PassContext       `json:"context"`
	Identity *models.EmployeeIdentity `json:"identity,omitempty"`
}

type Output struct {
	Pass          *models.Pass          `json:"pass"`
	Notifications []models.Notification `json:"notifications,omitempty"`
}

// Delivery channels
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Delivery statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

// SESService is the subset of the SES client used for pass emails.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SNSService is the subset of the SNS client used for pass SMS.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type ServiceDependencies struct {
	Logger    logger.Logger
	SESClient SESService
	SNSClient SNSService
}
