package registervisit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
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

// Submit builds the payload from the session draft and identity, then
// registers it. Every local failure returns before the outbound call.
func (s *Service) Submit(ctx context.Context, scope *session.Scope) (*Output, error) {
	identity, err := scope.Identity(ctx)
	if err != nil {
		return nil, err
	}
	draft, err := scope.Draft(ctx)
	if err != nil {
		return nil, err
	}

	sub, err := Prepare(draft, identity)
	if err != nil {
		return nil, err
	}
	if s.config.CheckContract {
		if err := CheckContract(sub.Payload); err != nil {
			s.logger.Error("Built payload violates the registration contract", map[string]interface{}{
				"sessionId": scope.ID,
				"category":  sub.Payload.Category,
				"error":     err.Error(),
			})
			return nil, err
		}
	}

	confirmation, err := s.Register(ctx, sub.Payload)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Visit registered", map[string]interface{}{
		"sessionId":    scope.ID,
		"employeeId":   identity.EmployeeID,
		"category":     sub.Payload.Category,
		"visitorCount": len(sub.Payload.Visitors),
	})

	return &Output{
		Payload: sub.Payload,
		Pass: models.PassContext{
			Category:       draft.Category,
			VisitorType:    draft.VisitorType,
			Visitors:       sub.Visitors,
			CompanyName:    strings.TrimSpace(draft.CompanyName),
			PurposeOfVisit: strings.TrimSpace(draft.PurposeOfVisit),
			Confirmation:   confirmation,
		},
	}, nil
}

// Register issues the single outbound registration call. An "error" field in
// the response wins over the status code; an empty success body is accepted.
func (s *Service) Register(ctx context.Context, payload *models.SubmissionPayload) (map[string]interface{}, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.URL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewRegistrationUnreachableError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	httpResp, err := s.httpClient.DoWithContext(ctx, req)
	if err != nil {
		return nil, errors.NewRegistrationUnreachableError(err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.NewRegistrationUnreachableError(err)
	}

	confirmation := map[string]interface{}{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &confirmation); err != nil {
			return nil, errors.NewRegistrationUnreachableError(
				fmt.Errorf("decode response (status %d): %w", httpResp.StatusCode, err))
		}
	}

	if reason, rejected := confirmation["error"]; rejected && reason != nil {
		text := strings.TrimSpace(fmt.Sprint(reason))
		if text == "" {
			text = "Visit registration failed"
		}
		s.logger.Info("Visit registration rejected", map[string]interface{}{
			"category": payload.Category,
			"empId":    payload.EmpID,
			"reason":   text,
		})
		return nil, errors.NewRegistrationRejectedError(text)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, errors.NewRegistrationUnreachableError(
			fmt.Errorf("unexpected status %d", httpResp.StatusCode))
	}

	return confirmation, nil
}
