// Package sbi talks to the SBI General customer services: policy lookup,
// claim intimation, policy PDF dispatch and email update.
package sbi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"voicebot/internal/cache"
	"voicebot/internal/metrics"
)

const (
	servicesPath    = "/SOA12C/services/Customer/"
	tokenCacheKey   = "sbi:access_token"
	defaultTokenTTL = 50 * time.Minute
	accidentPin     = "1234"
)

var (
	// ErrInvalidCredential indicates the gateway rejected the client id or secret.
	ErrInvalidCredential = errors.New("sbi invalid credential")
)

// Config holds backend client configuration.
type Config struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	AESKey       string
	AESIV        string
	Timeout      time.Duration
	TokenTTL     time.Duration
}

// Client provides typed access to the SBI customer services.
type Client struct {
	logger       *slog.Logger
	baseURL      string
	clientID     string
	clientSecret string
	http         *http.Client
	envelope     *envelope
	metrics      *metrics.Metrics
	cache        *cache.Redis
	tokenTTL     time.Duration

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// New creates a backend client. redis may be nil.
func New(cfg Config, logger *slog.Logger, metrics *metrics.Metrics, redis *cache.Redis) (*Client, error) {
	env, err := newEnvelope(cfg.AESKey, cfg.AESIV)
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Client{
		logger:       logger.With("component", "sbi"),
		baseURL:      strings.TrimRight(cfg.Endpoint, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		http:         &http.Client{Timeout: timeout},
		envelope:     env,
		metrics:      metrics,
		cache:        redis,
		tokenTTL:     ttl,
	}, nil
}

// LookupPolicies searches the customer record registered to mobile.
func (c *Client) LookupPolicies(ctx context.Context, mobile string) Result {
	return c.call(ctx, "SearchCustomer", map[string]string{"phone_number": mobile})
}

// IntimateClaim registers a motor claim for the collected accident details.
func (c *Client) IntimateClaim(ctx context.Context, req ClaimRequest) Result {
	date, err := time.Parse("02/01/2006", strings.TrimSpace(req.Date))
	if err != nil {
		return failure("invalid accident date %q", req.Date)
	}
	accidentAt := date
	if req.Time != "" && req.Meridiem != "" {
		ts, err := time.Parse("02/01/2006 03:04:05 PM", req.Date+" "+req.Time+" "+strings.ToUpper(req.Meridiem))
		if err != nil {
			return failure("invalid accident time %q %q", req.Time, req.Meridiem)
		}
		accidentAt = ts
	}

	return c.call(ctx, "ClaimIntimation", map[string]string{
		"accident_state":   req.State,
		"policy_number":    req.PolicyNumber,
		"accident_time":    accidentAt.Format("2006-01-02 15:04:05"),
		"accident_city":    req.City,
		"driver_passenger": req.Driver,
		"accident_date":    date.Format("2006-01-02"),
		"accident_pin":     accidentPin,
	})
}

// SubmitPolicyEmail asks the backend to mail the policy PDF.
func (c *Client) SubmitPolicyEmail(ctx context.Context, policyNumber, email string) Result {
	return c.call(ctx, "InsertPolicyPDF", map[string]string{
		"policy_number": policyNumber,
		"email_id":      email,
	})
}

// UpdateEmail records a new email address against the policy.
func (c *Client) UpdateEmail(ctx context.Context, policyNumber, email string, otpVerified bool) Result {
	return c.call(ctx, "UpdateEmail", map[string]any{
		"policyNumber": policyNumber,
		"otpVerified":  otpVerified,
		"emailId":      email,
	})
}

type cipherBody struct {
	Ciphertext string `json:"ciphertext"`
}

func (c *Client) call(ctx context.Context, service string, payload any) Result {
	token, err := c.accessToken(ctx)
	if err != nil {
		c.logger.Error("token request failed", "service", service, "error", err)
		return failure("token request failed: %v", err)
	}

	sealed, err := c.envelope.seal(payload)
	if err != nil {
		return failure("encrypt payload: %v", err)
	}
	body, err := json.Marshal(cipherBody{Ciphertext: sealed})
	if err != nil {
		return failure("encode request: %v", err)
	}

	var resp cipherBody
	status, err := c.do(ctx, http.MethodPost, servicesPath+service, bytes.NewReader(body), token, &resp)
	if err != nil {
		c.logger.Warn("backend call failed", "service", service, "status", status, "error", err)
		if status != 0 && status != http.StatusOK {
			return failure("API call failed with status %d", status)
		}
		return failure("%s request failed: %v", service, err)
	}

	data, err := c.envelope.open(resp.Ciphertext)
	if err != nil {
		c.logger.Warn("backend response unreadable", "service", service, "error", err)
		return failure("%s response unreadable: %v", service, err)
	}
	c.logger.Debug("backend call ok", "service", service)
	return success(data)
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}
	if c.cache != nil {
		var cached string
		ok, err := c.cache.GetJSON(ctx, tokenCacheKey, &cached)
		if err != nil {
			c.logger.Warn("read token cache failed", "error", err)
		} else if ok && cached != "" {
			c.token, c.tokenExpiry = cached, time.Now().Add(time.Minute)
			return cached, nil
		}
	}

	var tok struct {
		AccessToken json.RawMessage `json:"accessToken"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/v1/tokens", nil, "", &tok); err != nil {
		return "", err
	}
	token := strings.Trim(strings.TrimSpace(string(tok.AccessToken)), `"`)
	if token == "" || token == "null" {
		return "", fmt.Errorf("access token not found in response")
	}

	c.token, c.tokenExpiry = token, time.Now().Add(c.tokenTTL)
	if c.cache != nil {
		if err := c.cache.SetJSON(ctx, tokenCacheKey, token, c.tokenTTL); err != nil {
			c.logger.Warn("set token cache failed", "error", err)
		}
	}
	return token, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, token string, dest any) (int, error) {
	reqURL := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return 0, fmt.Errorf("new request: %w", err)
	}

	req.Header.Set("X-IBM-Client-Id", c.clientID)
	req.Header.Set("X-IBM-Client-Secret", c.clientSecret)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "voicebot/sbi-client")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	label := strings.TrimPrefix(endpoint, servicesPath)
	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		if c.metrics != nil {
			c.metrics.BackendRequests.WithLabelValues(label, "error").Inc()
		}
		return 0, fmt.Errorf("sbi request: %w", err)
	}
	defer res.Body.Close()

	duration := time.Since(start).Seconds()
	statusLabel := fmt.Sprintf("%d", res.StatusCode)
	if c.metrics != nil {
		c.metrics.BackendRequests.WithLabelValues(label, statusLabel).Inc()
		c.metrics.BackendLatency.WithLabelValues(label, statusLabel).Observe(duration)
	}

	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return res.StatusCode, classifyHTTPError(res.StatusCode, string(bodyBytes))
	}

	if err := json.Unmarshal(bodyBytes, dest); err != nil {
		return res.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return res.StatusCode, nil
}

func classifyHTTPError(status int, body string) error {
	snippet := strings.TrimSpace(body)
	if len(snippet) > 300 {
		snippet = snippet[:300]
	}
	lower := strings.ToLower(snippet)
	if status == http.StatusUnauthorized ||
		strings.Contains(lower, "invalid client id") ||
		strings.Contains(lower, "client id not registered") ||
		strings.Contains(lower, "invalid credential") {
		return fmt.Errorf("%w: %s", ErrInvalidCredential, snippet)
	}
	return fmt.Errorf("sbi error: status=%d body=%s", status, snippet)
}
