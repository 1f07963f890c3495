package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PabloGalante/compass-agent/internal/app/assistant"
	"github.com/PabloGalante/compass-agent/internal/domain"
)

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.Code, e.Message)
}

// Client talks to compass-api. It implements the session ports.
type Client struct {
	baseURL    string
	token      string
	userHeader string
	http       *http.Client
}

type Option func(*Client)

// WithToken sends Authorization: Bearer <token>.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithUserHeader sends X-User-ID, accepted by servers in local mode.
func WithUserHeader(userID string) Option {
	return func(c *Client) { c.userHeader = userID }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 90 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ─────────────────────────────────────────────
// DTOs, mirroring the server's
// ─────────────────────────────────────────────

type planResponse struct {
	Plan *domain.Plan `json:"plan"`
}

type chatRequest struct {
	Profile         *domain.Profile  `json:"profile"`
	Plan            *domain.Plan     `json:"plan"`
	SelectedMonthID *domain.MonthID  `json:"selectedMonthId"`
	Messages        []assistant.Turn `json:"messages"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type stateEnvelope struct {
	State *domain.AppState `json:"state"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ─────────────────────────────────────────────
// Calls
// ─────────────────────────────────────────────

func (c *Client) GeneratePlan(ctx context.Context, profile domain.Profile) (*domain.Plan, error) {
	var resp planResponse
	if err := c.do(ctx, http.MethodPost, "/api/plan", profile, &resp); err != nil {
		return nil, err
	}
	if resp.Plan == nil {
		return nil, fmt.Errorf("%w: response carried no plan", domain.ErrMalformedCompletion)
	}
	return resp.Plan, nil
}

func (c *Client) Reply(ctx context.Context, in assistant.Input) (string, error) {
	var resp chatResponse
	err := c.do(ctx, http.MethodPost, "/api/chat", chatRequest{
		Profile:         in.Profile,
		Plan:            in.Plan,
		SelectedMonthID: in.SelectedMonthID,
		Messages:        in.Messages,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Reply, nil
}

// LoadState returns the stored snapshot undecoded, or nil when there is none.
func (c *Client) LoadState(ctx context.Context) (json.RawMessage, error) {
	var resp struct {
		State json.RawMessage `json:"state"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/state", nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.State) == 0 || bytes.Equal(bytes.TrimSpace(resp.State), []byte("null")) {
		return nil, nil
	}
	return resp.State, nil
}

func (c *Client) SaveState(ctx context.Context, state domain.AppState) error {
	return c.do(ctx, http.MethodPost, "/api/state", stateEnvelope{State: &state}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.userHeader != "" {
		req.Header.Set("X-User-ID", c.userHeader)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var apiErr errorResponse
		_ = json.NewDecoder(io.LimitReader(res.Body, 64<<10)).Decode(&apiErr)
		statusErr := &StatusError{Code: res.StatusCode, Message: apiErr.Error}
		if res.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %w", domain.ErrUnauthenticated, statusErr)
		}
		return statusErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
