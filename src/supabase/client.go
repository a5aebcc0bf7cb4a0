package supabase

// PostgREST client for the hosted Supabase project that owns
// webhook_configs and webhook_signals.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"
)

const (
	restPrefix = "/rest/v1"

	configsTable = "webhook_configs"
	signalsTable = "webhook_signals"

	// Accept header that makes PostgREST return a single object, or 406 when
	// the filter matched no rows.
	singleObjectMediaType = "application/vnd.pgrst.object+json"

	// PostgREST code for "JSON object requested, multiple (or no) rows returned".
	codeSingularity = "PGRST116"
)

// APIError is the error body PostgREST returns.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Code       string `json:"code"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("supabase: HTTP %d", e.StatusCode)
}

// Client talks to a Supabase project's REST endpoint with a service or anon key.
type Client struct {
	baseURL string
	http    *resty.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("supabase: base URL is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("supabase: API key is required")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(baseURL+restPrefix).
		SetTimeout(timeout).
		SetHeader("apikey", apiKey).
		SetAuthToken(apiKey).
		SetRetryCount(0)

	return &Client{baseURL: baseURL, http: httpClient}, nil
}

type securityTokenRow struct {
	SecurityToken string `json:"security_token"`
}

// GetSecurityToken reads the token of one configuration. found is false when the
// id does not exist.
func (c *Client) GetSecurityToken(ctx context.Context, configID string) (token string, found bool, err error) {
	var row securityTokenRow

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", singleObjectMediaType).
		SetQueryParam("select", "security_token").
		SetQueryParam("id", "eq."+configID).
		SetResult(&row).
		Get("/" + configsTable)
	if err != nil {
		return "", false, fmt.Errorf("supabase: fetch %s: %w", configsTable, err)
	}

	if resp.IsSuccess() {
		return row.SecurityToken, true, nil
	}

	apiErr := decodeAPIError(resp)
	if apiErr.StatusCode == http.StatusNotAcceptable || apiErr.Code == codeSingularity {
		return "", false, nil
	}
	return "", false, apiErr
}

type signalRow struct {
	ConfigID   string          `json:"config_id"`
	Payload    json.RawMessage `json:"payload"`
	ReceivedAt time.Time       `json:"received_at"`
}

// InsertSignal appends one row to webhook_signals.
func (c *Client) InsertSignal(ctx context.Context, configID string, payload []byte, receivedAt time.Time) error {
	rows := []signalRow{{
		ConfigID:   configID,
		Payload:    json.RawMessage(payload),
		ReceivedAt: receivedAt.UTC(),
	}}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=minimal").
		SetBody(rows).
		Post("/" + signalsTable)
	if err != nil {
		return fmt.Errorf("supabase: insert %s: %w", signalsTable, err)
	}

	if !resp.IsSuccess() {
		apiErr := decodeAPIError(resp)
		logger.WithFields(map[string]interface{}{
			"component": "supabase",
			"op":        "InsertSignal",
			"status":    apiErr.StatusCode,
			"code":      apiErr.Code,
		}).WithError(apiErr).Error("Insert error")
		return apiErr
	}

	return nil
}

func decodeAPIError(resp *resty.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode()}
	raw := resp.Body()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, apiErr); err != nil {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
	}
	return apiErr
}
