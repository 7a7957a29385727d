// Package api is a small JSON client for the remote account service that
// stores contacts & settings. The session cookie is opaque to it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const DEFAULT_SESSION_COOKIE = "connect.sid"

var (
	// ErrTransientNetwork is returned when the request didn't complete or the
	// service failed, the caller may retry later
	ErrTransientNetwork = errors.New("remote service unreachable")
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("session is not authorized")
	ErrRejected         = errors.New("request rejected by remote service")
)

// RemoteError describes a failed call. It matches one of the sentinel errors
// above with errors.Is.
type RemoteError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}

	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches on the status code only when no cause is set, otherwise the
// cause is matched through Unwrap
func (e *RemoteError) Is(target error) bool {
	if e.Err != nil {
		return false
	}
	return target == kindOf(e.StatusCode)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

type Config struct {
	BaseURL       string
	SessionCookie string
	CookieName    string
	Timeout       time.Duration
}

type Client struct {
	baseURL    string
	cookie     *http.Cookie
	httpClient *http.Client
}

func NewClient(config Config) *Client {
	client := &Client{
		baseURL:    strings.TrimSuffix(config.BaseURL, "/"),
		httpClient: &http.Client{Timeout: config.Timeout},
	}

	if config.SessionCookie != "" {
		name := config.CookieName
		if name == "" {
			name = DEFAULT_SESSION_COOKIE
		}
		client.cookie = &http.Cookie{Name: name, Value: config.SessionCookie}
	}

	return client
}

// Do sends body as JSON & decodes the response into out (if not nil)
func (c *Client) Do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "%s %s: encode body", method, path)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RemoteError{Method: method, Path: path, Err: errors.Wrap(ErrTransientNetwork, err.Error())}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return &RemoteError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	// A 2xx body that isn't JSON usually comes from a captive portal or proxy
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RemoteError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Err:        errors.Wrap(ErrTransientNetwork, "decode response: "+err.Error()),
		}
	}

	return nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func kindOf(statusCode int) error {
	switch {
	case statusCode == 0 || statusCode >= http.StatusInternalServerError:
		return ErrTransientNetwork
	case statusCode == http.StatusNotFound:
		return ErrNotFound
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return ErrUnauthorized
	default:
		return ErrRejected
	}
}

// errorMessage pulls '{"message": "..."}' or '{"error": "..."}' out of an error body
func errorMessage(body io.Reader) string {
	raw, err := ioutil.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}

	payload := struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}{}
	if json.Unmarshal(raw, &payload) != nil {
		return strings.TrimSpace(string(raw))
	}

	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
