package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// genericFailure is shown when the upstream gives us nothing usable.
const genericFailure = "Could not reach the authentication service. Please try again."

// maxBodySize caps upstream response bodies. Auth responses are tiny.
const maxBodySize = 1 << 20

// Error is a failed upstream call. Message holds the human-readable
// text the upstream attached ("message" field, then "detail"); it is
// empty for transport failures and for responses carrying neither.
type Error struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("authentication service returned status %d", e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage returns the text to surface to the user: the upstream's
// own message verbatim when it sent one, otherwise a generic
// transport-error description.
func UserMessage(err error) string {
	if apiErr, ok := err.(*Error); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return genericFailure
}

// Client issues JSON requests to the authentication API. One attempt
// per call, no retry or backoff; callers interpret failures. The
// caller's upstream cookies ride along on every request and any
// cookies the upstream sets come back for the caller to persist.
type Client struct {
	base *url.URL
	http *http.Client
}

func New(baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid upstream API URL: %w", err)
	}
	return &Client{base: u, http: &http.Client{}}, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest, creds []*http.Cookie) (*GenericResponse, []*http.Cookie, error) {
	var out GenericResponse
	cookies, err := c.post(ctx, "auth/register", req, &out, creds)
	return &out, cookies, err
}

func (c *Client) Login(ctx context.Context, req LoginRequest, creds []*http.Cookie) (*LoginResponse, []*http.Cookie, error) {
	var out LoginResponse
	cookies, err := c.post(ctx, "auth/login", req, &out, creds)
	return &out, cookies, err
}

func (c *Client) GenerateOTP(ctx context.Context, req GenerateRequest, creds []*http.Cookie) (*GenerateResponse, []*http.Cookie, error) {
	var out GenerateResponse
	cookies, err := c.post(ctx, "auth/otp/generate", req, &out, creds)
	return &out, cookies, err
}

func (c *Client) VerifyOTP(ctx context.Context, req TokenRequest, creds []*http.Cookie) (*VerifyResponse, []*http.Cookie, error) {
	var out VerifyResponse
	cookies, err := c.post(ctx, "auth/otp/verify", req, &out, creds)
	return &out, cookies, err
}

func (c *Client) ValidateOTP(ctx context.Context, req TokenRequest, creds []*http.Cookie) (*ValidateResponse, []*http.Cookie, error) {
	var out ValidateResponse
	cookies, err := c.post(ctx, "auth/otp/validate", req, &out, creds)
	return &out, cookies, err
}

func (c *Client) DisableOTP(ctx context.Context, req DisableRequest, creds []*http.Cookie) (*DisableResponse, []*http.Cookie, error) {
	var out DisableResponse
	cookies, err := c.post(ctx, "auth/otp/disable", req, &out, creds)
	return &out, cookies, err
}

func (c *Client) post(ctx context.Context, path string, body, out any, creds []*http.Cookie) ([]*http.Cookie, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &Error{Err: err}
	}

	ref, err := url.Parse(path)
	if err != nil {
		return nil, &Error{Err: err}
	}
	target := c.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range creds {
		req.AddCookie(cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("upstream request failed", "source", "api", "path", path, "error", err.Error())
		return nil, &Error{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &Error{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("upstream rejected request",
			"source", "api", "path", path, "status", resp.StatusCode)
		return resp.Cookies(), &Error{
			StatusCode: resp.StatusCode,
			Message:    rejectionMessage(data),
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.Cookies(), &Error{StatusCode: resp.StatusCode, Err: err}
		}
	}
	return resp.Cookies(), nil
}

// rejectionMessage extracts the human-readable text from an upstream
// error body: "message" first, then "detail". Every step is
// presence-checked; a body that is not JSON, or carries neither
// field, yields "" and the caller falls back to a generic message.
func rejectionMessage(body []byte) string {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	if msg, ok := fields["message"].(string); ok && msg != "" {
		return msg
	}
	if detail, ok := fields["detail"].(string); ok && detail != "" {
		return detail
	}
	return ""
}
