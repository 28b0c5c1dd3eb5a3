package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	apiPrefix = "/api/v1"

	// conflictRetries is how often a request answered 409 is sent again.
	// The server returns 409 when another instance updated the session
	// mid-request.
	conflictRetries = 2
)

// Client talks to the pegjump session API
type Client struct {
	baseURL    string
	httpClient *http.Client
	trace      io.Writer
	backoff    time.Duration
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		backoff: 100 * time.Millisecond,
	}
}

// SetTrace makes the client log each request and its status to w
func (c *Client) SetTrace(w io.Writer) {
	c.trace = w
}

// RequestError is a non-2xx answer from the server
type RequestError struct {
	Status  int
	Code    string
	Message string
}

func (e *RequestError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// errorBody mirrors the server's {"error":{"code","message"}} envelope
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Health checks the server
func (c *Client) Health() (HealthResult, error) {
	var result HealthResult
	err := c.do(http.MethodGet, "/health", nil, &result)
	return result, err
}

// CreateSession starts a new game
func (c *Client) CreateSession() (SessionState, error) {
	var result SessionState
	err := c.do(http.MethodPost, "/sessions", nil, &result)
	return result, err
}

// GetSession fetches a session's state
func (c *Client) GetSession(id string) (SessionState, error) {
	var result SessionState
	err := c.sessionCall(http.MethodGet, id, "", nil, &result)
	return result, err
}

// Activate taps a cell given in visible coordinates
func (c *Client) Activate(id string, row, col int) (ActivateResult, error) {
	var result ActivateResult
	body := map[string]int{"row": row, "col": col}
	err := c.sessionCall(http.MethodPost, id, "/activate", body, &result)
	return result, err
}

// Pan moves the viewport left or right
func (c *Client) Pan(id, direction string) (SessionState, error) {
	var result SessionState
	body := map[string]string{"direction": direction}
	err := c.sessionCall(http.MethodPost, id, "/pan", body, &result)
	return result, err
}

// Undo reverts the last move
func (c *Client) Undo(id string) (SessionState, error) {
	var result SessionState
	err := c.sessionCall(http.MethodPost, id, "/undo", nil, &result)
	return result, err
}

// Reset starts the session's game over
func (c *Client) Reset(id string) (SessionState, error) {
	var result SessionState
	err := c.sessionCall(http.MethodPost, id, "/reset", nil, &result)
	return result, err
}

// DismissAdvisory clears the milestone message
func (c *Client) DismissAdvisory(id string) (SessionState, error) {
	var result SessionState
	err := c.sessionCall(http.MethodDelete, id, "/advisory", nil, &result)
	return result, err
}

// EndSession deletes the session on the server
func (c *Client) EndSession(id string) error {
	return c.sessionCall(http.MethodDelete, id, "", nil, nil)
}

// EventsURL is the SSE stream the web UI listens on
func (c *Client) EventsURL(id string) string {
	return c.baseURL + "/game/" + url.PathEscape(id) + "/events"
}

// sessionCall calls a session endpoint and names the session in not-found errors
func (c *Client) sessionCall(method, id, suffix string, body, result any) error {
	err := c.do(method, "/sessions/"+url.PathEscape(id)+suffix, body, result)

	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Status == http.StatusNotFound {
		return fmt.Errorf("session %s not found (it may have expired); run 'pegjump new': %w", id, err)
	}
	return err
}

// do sends one API request, retrying briefly on 409 Conflict
func (c *Client) do(method, path string, body, result any) error {
	var data []byte
	if body != nil {
		var err error
		if data, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	var err error
	for attempt := 0; attempt <= conflictRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(c.backoff * time.Duration(attempt))
		}
		err = c.send(method, c.baseURL+apiPrefix+path, data, result)

		var reqErr *RequestError
		if !errors.As(err, &reqErr) || reqErr.Status != http.StatusConflict {
			return err
		}
	}
	return err
}

func (c *Client) send(method, target string, data []byte, result any) error {
	var bodyReader io.Reader
	if data != nil {
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if c.trace != nil {
		_, _ = fmt.Fprintf(c.trace, "%s %s -> %d (%s)\n", method, target, resp.StatusCode, time.Since(start).Round(time.Millisecond))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		reqErr := &RequestError{Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		var eb errorBody
		if json.Unmarshal(respBody, &eb) == nil && eb.Error.Code != "" {
			reqErr.Code = eb.Error.Code
			reqErr.Message = eb.Error.Message
		}
		return reqErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}
