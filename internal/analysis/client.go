// Package analysis forwards one patient's de-identified fields to the
// external text-generation service and classifies the reply. The call is a
// single synchronous attempt with a bounded timeout; retries exist only as
// an explicit configuration choice and default to zero.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"medinext-server/internal/config"
	"medinext-server/internal/models"
)

// Status tags a Result as a completed analysis or a failed attempt.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// FailureKind names why an analysis attempt failed.
type FailureKind string

const (
	FailureConfig     FailureKind = "config_error"
	FailureTimeout    FailureKind = "timeout"
	FailureTransport  FailureKind = "transport_error"
	FailureServer     FailureKind = "server_error"
	FailureUnexpected FailureKind = "unexpected_error"
)

// Result is the tagged outcome of one analysis request. A response that
// trips the service's content guardrails is still a success; PolicyFlag
// tells the caller to render it with alert styling.
type Result struct {
	Status     Status      `json:"status"`
	Body       string      `json:"body,omitempty"`
	PolicyFlag bool        `json:"policyFlag"`
	Kind       FailureKind `json:"kind,omitempty"`
	Message    string      `json:"message,omitempty"`
}

// Phrases that mark a generated response as blocked by the upstream policy
// engine. Matching is case-insensitive and substring-based.
var policyPhrases = []string{
	"guardrail violation",
	"message has been blocked",
	"blocked due to a guardrail",
	"rephrase your message",
}

type askRequest struct {
	Input       string `json:"input"`
	ChatHistory []any  `json:"chat_history"`
}

// Client calls the analysis service.
type Client struct {
	cfg    config.AnalysisConfig
	http   *resty.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewClient creates a Client with the configured timeout and retry policy.
func NewClient(cfg config.AnalysisConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(cfg.MaxRetries).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "MediNext-AI/1.0")

	return &Client{
		cfg:    cfg,
		http:   httpClient,
		logger: logger,
		now:    time.Now,
	}
}

// RequestAnalysis sends one record to the analysis service and returns the
// tagged outcome. It validates configuration before any network I/O and
// never propagates a fault to the caller.
func (c *Client) RequestAnalysis(ctx context.Context, p models.Patient) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("analysis call panicked", zap.Any("panic", r))
			result = Result{
				Status:  StatusFailure,
				Kind:    FailureUnexpected,
				Message: fmt.Sprintf("an unexpected error occurred: %v", r),
			}
		}
	}()

	if !c.cfg.Validate() {
		return Result{
			Status:  StatusFailure,
			Kind:    FailureConfig,
			Message: "analysis service is not configured; set SUPERWISE_API_URL and SUPERWISE_APP_ID",
		}
	}

	requestID := uuid.New().String()
	url := fmt.Sprintf("%s%s/app-worker/%s/%s/ask",
		c.cfg.BaseURL, c.cfg.APIVersion, c.cfg.AppID, c.cfg.APIVersion)

	c.logger.Info("calling analysis service",
		zap.String("request_id", requestID),
		zap.String("patient_id", p.PatientID),
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(askRequest{
			Input:       BuildPrompt(p, c.now()),
			ChatHistory: []any{},
		}).
		Post(url)
	if err != nil {
		return c.classifyTransportError(requestID, err)
	}

	if resp.IsError() {
		c.logger.Error("analysis service returned error status",
			zap.String("request_id", requestID),
			zap.Int("status_code", resp.StatusCode()),
		)
		return Result{
			Status:  StatusFailure,
			Kind:    FailureServer,
			Message: fmt.Sprintf("analysis service returned status %d", resp.StatusCode()),
		}
	}

	body := extractOutput(resp.Body())
	flagged := hasPolicyViolation(body)
	if flagged {
		c.logger.Warn("analysis response flagged by policy engine",
			zap.String("request_id", requestID),
			zap.String("patient_id", p.PatientID),
		)
	}

	c.logger.Info("analysis completed",
		zap.String("request_id", requestID),
		zap.String("patient_id", p.PatientID),
	)

	return Result{
		Status:     StatusSuccess,
		Body:       body,
		PolicyFlag: flagged,
	}
}

func (c *Client) classifyTransportError(requestID string, err error) Result {
	kind := FailureTransport
	message := fmt.Sprintf("failed to reach analysis service: %v", err)

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = FailureTimeout
		message = "analysis request timed out; please try again"
	}

	c.logger.Error("analysis call failed",
		zap.String("request_id", requestID),
		zap.String("kind", string(kind)),
		zap.Error(err),
	)

	return Result{Status: StatusFailure, Kind: kind, Message: message}
}

// extractOutput pulls the designated output field from a success body,
// falling back to the raw body text when the field is absent or the body
// is not a JSON object.
func extractOutput(body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err == nil {
		if raw, ok := payload["output"]; ok {
			var output string
			if err := json.Unmarshal(raw, &output); err == nil {
				return output
			}
		}
	}
	return string(body)
}

func hasPolicyViolation(body string) bool {
	lower := strings.ToLower(body)
	for _, phrase := range policyPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
