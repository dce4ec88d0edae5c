package verifyemployee

import (
	"context"
	"fmt"
	"time"

	"visitor-registration/internal/common/config"
	"visitor-registration/internal/common/errors"
	"visitor-registration/internal/common/logger"
	"visitor-registration/internal/common/metrics"
	"visitor-registration/internal/session"
)

// Gate is the metrics and busy-flag name of this step.
const Gate = session.GateVerify

type Handler struct {
	config  *Config
	logger  logger.Logger
	service *Service
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	stepConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := stepConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for verify-employee: %w", err)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.WithFields(map[string]interface{}{"gate": Gate})

	return &Handler{
		config: stepConfig,
		logger: loggerInstance,
		service: NewService(ServiceDependencies{
			Logger: loggerInstance,
		}, stepConfig),
	}, nil
}

// Execute runs one verification attempt and records its outcome.
func (h *Handler) Execute(ctx context.Context, scope *session.Scope, input *Input) (*Output, error) {
	startTime := time.Now()
	metrics.GateCallsActive.WithLabelValues(Gate).Inc()
	defer metrics.GateCallsActive.WithLabelValues(Gate).Dec()

	output, err := h.service.Verify(ctx, scope, input)
	if err != nil {
		metrics.GateCallsFailed.WithLabelValues(Gate, extractErrorCode(err)).Inc()
		return nil, err
	}

	metrics.GateCallsCompleted.WithLabelValues(Gate).Inc()
	metrics.GateCallDuration.WithLabelValues(Gate).Observe(time.Since(startTime).Seconds())
	return output, nil
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

func extractErrorCode(err error) string {
	if stdErr, ok := errors.AsStandardError(err); ok {
		return string(stdErr.Code)
	}
	return "UNKNOWN_ERROR"
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()

	if appConfig != nil {
		cfg.URL = appConfig.APIs.Verification.URL
		if appConfig.APIs.Verification.Timeout > 0 {
			cfg.Timeout = config.GetDuration(appConfig.APIs.Verification.Timeout)
		}
	}

	return cfg
}
