package verifyemployee

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"visitor-registration/internal/common/errors"
	commonhttp "visitor-registration/internal/common/http"
	"visitor-registration/internal/common/logger"
	"visitor-registration/internal/models"
	"visitor-registration/internal/session"
)

const maxResponseBytes = 1 << 20

type Service struct {
	config     *Config
	logger     logger.Logger
	httpClient *commonhttp.Client
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:     config,
		logger:     deps.Logger,
		httpClient: commonhttp.NewClient(config.Timeout),
	}
}

// Verify looks the employee up once and, on success, writes the identity into
// the session scope. Rejections and failures leave the session untouched.
func (s *Service) Verify(ctx context.Context, scope *session.Scope, input *Input) (*Output, error) {
	employeeID := strings.TrimSpace(input.EmployeeID)
	if employeeID == "" {
		return nil, errors.NewEmptyIdentifierError()
	}

	resp, err := s.lookup(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	if resp.Error != nil {
		reason := strings.TrimSpace(*resp.Error)
		if reason == "" {
			reason = "Employee verification failed"
		}
		s.logger.Info("Employee verification rejected", map[string]interface{}{
			"employeeId": employeeID,
			"reason":     reason,
		})
		return nil, errors.NewVerificationRejectedError(reason)
	}

	if resp.Employee == nil {
		return nil, errors.NewVerificationMalformedResponseError("response carries neither employee nor error")
	}

	identity := &models.EmployeeIdentity{
		EmployeeID: employeeID,
		Profile:    resp.Employee,
	}
	if n, ok := identity.ResolveNumericID(); ok {
		identity.NumericID = n
	}

	if err := scope.SaveIdentity(ctx, identity); err != nil {
		return nil, err
	}

	s.logger.Info("Employee verified", map[string]interface{}{
		"employeeId": employeeID,
		"numericId":  identity.NumericID,
		"sessionId":  scope.ID,
	})

	return &Output{Identity: identity}, nil
}

func (s *Service) lookup(ctx context.Context, employeeID string) (*verificationResponse, error) {
	endpoint, err := url.Parse(s.config.URL)
	if err != nil {
		return nil, errors.NewVerificationUnreachableError(err)
	}
	query := endpoint.Query()
	query.Set("emp_id", employeeID)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, errors.NewVerificationUnreachableError(err)
	}
	req.Header.Set("Accept", "application/json")

	httpResp, err := s.httpClient.DoWithContext(ctx, req)
	if err != nil {
		return nil, errors.NewVerificationUnreachableError(err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.NewVerificationUnreachableError(err)
	}

	var resp verificationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.NewVerificationUnreachableError(
			fmt.Errorf("decode response (status %d): %w", httpResp.StatusCode, err))
	}

	if resp.Error == nil && (httpResp.StatusCode < 200 || httpResp.StatusCode >= 300) {
		return nil, errors.NewVerificationUnreachableError(
			fmt.Errorf("unexpected status %d", httpResp.StatusCode))
	}

	return &resp, nil
}
