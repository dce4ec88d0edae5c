package issuepass

import (
	"context"
	"fmt"

	"visitor-registration/internal/common/aws"
	"visitor-registration/internal/common/config"
	"visitor-registration/internal/common/logger"
	"visitor-registration/internal/session"
)

type Handler struct {
	config  *Config
	logger  logger.Logger
	service *Service
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Logger       logger.Logger
	// SESClient and SNSClient override the AWS clients built from config.
	SESClient SESService
	SNSClient SNSService
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	stepConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := stepConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for issue-pass: %w", err)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.WithFields(map[string]interface{}{"step": "issue-pass"})

	sesClient, snsClient := opts.SESClient, opts.SNSClient
	if stepConfig.deliveryEnabled() && (sesClient == nil || snsClient == nil) {
		awsCfg, err := aws.LoadConfig(context.Background(), stepConfig.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		if sesClient == nil {
			sesClient = aws.NewSESClient(awsCfg)
		}
		if snsClient == nil {
			snsClient = aws.NewSNSClient(awsCfg)
		}
	}

	return &Handler{
		config: stepConfig,
		logger: loggerInstance,
		service: NewService(ServiceDependencies{
			Logger:    loggerInstance,
			SESClient: sesClient,
			SNSClient: snsClient,
		}, stepConfig),
	}, nil
}

// Execute issues the pass for a registered visit.
func (h *Handler) Execute(ctx context.Context, scope *session.Scope, input *Input) (*Output, error) {
	return h.service.Issue(ctx, scope, input)
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()

	if appConfig != nil {
		n := appConfig.Notifications
		cfg.EmailEnabled = n.Email.Enabled
		cfg.FromEmail = n.Email.FromEmail
		cfg.SMSEnabled = n.SMS.Enabled
		cfg.SenderID = n.SMS.SenderID
		cfg.AWSRegion = n.AWS.Region
	}

	return cfg
}
