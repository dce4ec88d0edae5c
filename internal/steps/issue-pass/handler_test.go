package issuepass

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"visitor-registration/internal/common/config"
	"visitor-registration/internal/common/logger"
	"visitor-registration/internal/models"
	"visitor-registration/internal/session"
	"visitor-registration/internal/taxonomy"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
	calls         int
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.calls++
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	calls       int
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.calls++
	return m.PublishFunc(ctx, params, optFns...)
}

// ==========================
// Test Helpers
// ==========================

var passKeyPattern = regexp.MustCompile(`^[0-9A-Z]{10}$`)

func createTestInput() *Input {
	return &Input{
		Context: models.PassContext{
			Category:       taxonomy.CategoryBusiness,
			VisitorType:    taxonomy.VisitorTypeClientIndia,
			Visitors:       []models.VisitorRecord{{Name: "Asha", Contact: "+919845000000"}, {Name: "Bruno"}},
			CompanyName:    "Acme Corp",
			PurposeOfVisit: "Demo",
		},
		Identity: &models.EmployeeIdentity{
			EmployeeID: "EMP-1042",
			NumericID:  1042,
			Profile: &models.EmployeeProfile{
				ID:       json.RawMessage(`1042`),
				Metadata: map[string]interface{}{"email": "host@example.com"},
			},
		},
	}
}

func deliveryConfig() *Config {
	return &Config{
		EmailEnabled: true,
		SMSEnabled:   true,
		FromEmail:    "passes@example.com",
		SenderID:     "VISITOR",
		AWSRegion:    "ap-south-1",
		Timeout:      5 * time.Second,
	}
}

func newScope() (*session.Scope, session.Store) {
	store := session.NewMemoryStore(30 * time.Minute)
	return session.NewScope(store, "sess-1"), store
}

// ==========================
// Pass Key Tests
// ==========================

func TestNewPassKey_Format(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		key := NewPassKey()
		assert.Regexp(t, passKeyPattern, key)
		seen[key] = true
	}
	assert.Greater(t, len(seen), 190)
}

func TestPassKeyFrom_PadsSmallValues(t *testing.T) {
	assert.Equal(t, "0000000000", passKeyFrom(uuid.UUID{}))

	var small uuid.UUID
	small[15] = 35
	assert.Equal(t, "000000000Z", passKeyFrom(small))
}

// ==========================
// Execute Tests
// ==========================

func TestExecute_DeliveryDisabled(t *testing.T) {
	h, err := NewHandler(HandlerOptions{Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)
	scope, store := newScope()

	output, err := h.Execute(context.Background(), scope, createTestInput())
	require.NoError(t, err)

	assert.Regexp(t, passKeyPattern, output.Pass.Key)
	assert.Empty(t, output.Notifications)
	assert.Empty(t, output.Pass.Delivered)
	assert.Equal(t, 2, output.Pass.VisitorCount())

	stored, err := store.LoadPass(context.Background(), "sess-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, output.Pass.Key, stored.Key)
	assert.Equal(t, "Acme Corp", stored.Context.CompanyName)
}

func TestExecute_Delivery(t *testing.T) {
	tests := []struct {
		name          string
		emailErr      error
		smsErr        error
		wantStatuses  map[string]string
		wantDelivered []string
	}{
		{
			name:          "email and SMS sent",
			wantStatuses:  map[string]string{ChannelEmail: StatusSent, ChannelSMS: StatusSent},
			wantDelivered: []string{ChannelEmail, ChannelSMS},
		},
		{
			name:          "email failure does not block the pass",
			emailErr:      errors.New("ses throttled"),
			wantStatuses:  map[string]string{ChannelEmail: StatusFailed, ChannelSMS: StatusSent},
			wantDelivered: []string{ChannelSMS},
		},
		{
			name:         "both channels fail",
			emailErr:     errors.New("ses down"),
			smsErr:       errors.New("sns down"),
			wantStatuses: map[string]string{ChannelEmail: StatusFailed, ChannelSMS: StatusFailed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sesMock := &MockSESService{
				SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
					assert.Equal(t, []string{"host@example.com"}, params.Destination.ToAddresses)
					assert.Equal(t, "passes@example.com", aws.ToString(params.Source))
					assert.Contains(t, aws.ToString(params.Message.Body.Text.Data), "Company: Acme Corp")
					return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, tt.emailErr
				},
			}
			snsMock := &MockSNSService{
				PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
					assert.Equal(t, "+919845000000", aws.ToString(params.PhoneNumber))
					assert.Equal(t, "VISITOR", aws.ToString(params.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue))
					return &sns.PublishOutput{MessageId: aws.String("sms-1")}, tt.smsErr
				},
			}

			h, err := NewHandler(HandlerOptions{
				CustomConfig: deliveryConfig(),
				Logger:       logger.NewTestLogger(t),
				SESClient:    sesMock,
				SNSClient:    snsMock,
			})
			require.NoError(t, err)
			scope, _ := newScope()

			output, err := h.Execute(context.Background(), scope, createTestInput())
			require.NoError(t, err)
			require.NotNil(t, output.Pass)

			statuses := map[string]string{}
			for _, n := range output.Notifications {
				statuses[n.Channel] = n.Status
				assert.Equal(t, output.Pass.Key, n.PassKey)
				assert.NotEmpty(t, n.ID)
			}
			assert.Equal(t, tt.wantStatuses, statuses)
			assert.Equal(t, tt.wantDelivered, output.Pass.Delivered)
			assert.Equal(t, 1, sesMock.calls)
			assert.Equal(t, 1, snsMock.calls)
		})
	}
}

func TestExecute_SkipsMissingRecipients(t *testing.T) {
	sesMock := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return &ses.SendEmailOutput{}, nil
		},
	}
	snsMock := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return &sns.PublishOutput{}, nil
		},
	}
	h, err := NewHandler(HandlerOptions{
		CustomConfig: deliveryConfig(),
		Logger:       logger.NewNoOpLogger(),
		SESClient:    sesMock,
		SNSClient:    snsMock,
	})
	require.NoError(t, err)
	scope, _ := newScope()

	input := createTestInput()
	input.Identity.Profile.Metadata = nil
	input.Context.Visitors[0].Contact = "  "

	output, err := h.Execute(context.Background(), scope, input)
	require.NoError(t, err)
	assert.Empty(t, output.Notifications)
	assert.Equal(t, 0, sesMock.calls)
	assert.Equal(t, 0, snsMock.calls)

	input.Identity = nil
	_, err = h.Execute(context.Background(), scope, input)
	require.NoError(t, err)
	assert.Equal(t, 0, sesMock.calls)
}

func TestExecute_InvalidRecipientsAreNotSent(t *testing.T) {
	sesMock := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return &ses.SendEmailOutput{}, nil
		},
	}
	snsMock := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return &sns.PublishOutput{}, nil
		},
	}
	h, err := NewHandler(HandlerOptions{
		CustomConfig: deliveryConfig(),
		Logger:       logger.NewNoOpLogger(),
		SESClient:    sesMock,
		SNSClient:    snsMock,
	})
	require.NoError(t, err)
	scope, _ := newScope()

	input := createTestInput()
	input.Identity.Profile.Metadata = map[string]interface{}{"email": "host@"}
	input.Context.Visitors[0].Contact = "ext 42"

	output, err := h.Execute(context.Background(), scope, input)
	require.NoError(t, err)
	require.Len(t, output.Notifications, 2)
	for _, n := range output.Notifications {
		assert.Equal(t, StatusFailed, n.Status, n.Channel)
	}
	assert.Empty(t, output.Pass.Delivered)
	assert.Equal(t, 0, sesMock.calls)
	assert.Equal(t, 0, snsMock.calls)
}

// ==========================
// Config Tests
// ==========================

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, deliveryConfig().Validate())

	cfg := deliveryConfig()
	cfg.FromEmail = ""
	assert.Error(t, cfg.Validate())

	cfg = deliveryConfig()
	cfg.AWSRegion = ""
	assert.Error(t, cfg.Validate())

	cfg = deliveryConfig()
	cfg.Timeout = 0
	assert.Error(t, cfg.Validate())
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	appCfg := &config.Config{}
	appCfg.Notifications.Email.Enabled = true
	appCfg.Notifications.Email.FromEmail = "passes@example.com"
	appCfg.Notifications.SMS.SenderID = "VISITOR"
	appCfg.Notifications.AWS.Region = "ap-south-1"

	cfg := createConfigFromAppConfig(appCfg, nil)
	assert.True(t, cfg.EmailEnabled)
	assert.False(t, cfg.SMSEnabled)
	assert.Equal(t, "passes@example.com", cfg.FromEmail)
	assert.Equal(t, "VISITOR", cfg.SenderID)
	assert.Equal(t, "ap-south-1", cfg.AWSRegion)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}
