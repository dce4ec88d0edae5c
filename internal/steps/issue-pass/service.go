package issuepass

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	commonaws "visitor-registration/internal/common/aws"
	"visitor-registration/internal/common/logger"
	"visitor-registration/internal/common/metrics"
	"visitor-registration/internal/common/validation"
	"visitor-registration/internal/models"
	"visitor-registration/internal/session"

	"github.com/google/uuid"
)

var errInvalidRecipient = errors.New("invalid recipient")

type Service struct {
	config    *Config
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
	now       func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:    config,
		logger:    deps.Logger,
		sesClient: deps.SESClient,
		snsClient: deps.SNSClient,
		now:       time.Now,
	}
}

// Issue stores a new pass in the session and attempts the optional
// deliveries. A failed delivery is recorded on the output only.
func (s *Service) Issue(ctx context.Context, scope *session.Scope, input *Input) (*Output, error) {
	pass := &models.Pass{
		Key:      NewPassKey(),
		Context:  input.Context,
		IssuedAt: s.now().UTC(),
	}

	notifications := s.deliver(ctx, pass, input.Identity)
	for _, n := range notifications {
		if n.Status == StatusSent {
			pass.Delivered = append(pass.Delivered, n.Channel)
		}
	}

	if err := scope.SavePass(ctx, pass); err != nil {
		return nil, err
	}

	metrics.PassesIssued.WithLabelValues(pass.Context.Category.Lower()).Inc()
	s.logger.Info("Pass issued", map[string]interface{}{
		"sessionId":    scope.ID,
		"passKey":      pass.Key,
		"category":     string(pass.Context.Category),
		"visitorCount": pass.VisitorCount(),
	})

	return &Output{Pass: pass, Notifications: notifications}, nil
}

func (s *Service) deliver(ctx context.Context, pass *models.Pass, identity *models.EmployeeIdentity) []models.Notification {
	if !s.config.deliveryEnabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	var out []models.Notification
	subject, body := renderPass(pass)

	if s.config.EmailEnabled && s.sesClient != nil && identity != nil {
		if email := identity.Profile.Email(); email != "" {
			err := errInvalidRecipient
			if validation.ValidateEmail(email) {
				_, err = s.sesClient.SendEmail(ctx, commonaws.TextEmail(s.config.FromEmail, email, subject, body))
			}
			out = append(out, s.record(pass, ChannelEmail, email, err))
		}
	}

	if s.config.SMSEnabled && s.snsClient != nil {
		if phone := firstContact(pass.Context.Visitors); phone != "" {
			err := errInvalidRecipient
			if validation.ValidatePhone(phone) {
				_, err = s.snsClient.Publish(ctx, commonaws.TextSMS(phone, body, s.config.SenderID))
			}
			out = append(out, s.record(pass, ChannelSMS, phone, err))
		}
	}

	return out
}

func (s *Service) record(pass *models.Pass, channel, recipient string, err error) models.Notification {
	status := StatusSent
	if err != nil {
		status = StatusFailed
		s.logger.Warn("Pass delivery failed", map[string]interface{}{
			"passKey": pass.Key,
			"channel": channel,
			"error":   err.Error(),
		})
	}
	metrics.PassDeliveries.WithLabelValues(channel, status).Inc()

	return models.Notification{
		ID:        uuid.New().String(),
		PassKey:   pass.Key,
		Channel:   channel,
		Recipient: recipient,
		Status:    status,
		SentAt:    s.now().UTC().Format(time.RFC3339),
	}
}

func firstContact(visitors []models.VisitorRecord) string {
	if len(visitors) == 0 {
		return ""
	}
	return strings.TrimSpace(visitors[0].Contact)
}

// renderPass produces the plain-text pass summary used by every channel.
func renderPass(pass *models.Pass) (string, string) {
	subject := fmt.Sprintf("Visitor pass %s", pass.Key)

	var b strings.Builder
	fmt.Fprintf(&b, "Pass key: %s\n", pass.Key)
	fmt.Fprintf(&b, "Category: %s\n", pass.Context.Category)
	fmt.Fprintf(&b, "Visitor type: %s\n", pass.Context.VisitorType)
	if pass.Context.CompanyName != "" {
		fmt.Fprintf(&b, "Company: %s\n", pass.Context.CompanyName)
	}
	fmt.Fprintf(&b, "Visitors: %d\n", pass.VisitorCount())
	if pass.Context.PurposeOfVisit != "" {
		fmt.Fprintf(&b, "Purpose: %s\n", pass.Context.PurposeOfVisit)
	}
	return subject, b.String()
}
