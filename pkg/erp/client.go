package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	OpJournalTable   = "wfRequestUniformJournalTable"
	OpJournalDetails = "wfRequestUniformJournalDetails"
	OpByFRP          = "wfRequestUniformByFRP"
	OpJournalCreate  = "wfRequestUniformJournalCreate"
	OpJournalUpdate  = "wfRequestUniformJournalUpdate"
	OpJournalDelete  = "wfRequestUniformJournalDelete"
	OpJournalPost    = "wfRequestUniformJournalPost"
)

const (
	defaultTimeout             = 30 * time.Second
	responseBodyReadLimit int64 = 1024
)

var (
	errBaseURLRequired = errors.New("erp base url is required")
	errTokenRequired   = errors.New("erp token is required")
)

// resultValidator is implemented by results that must carry data on success.
type resultValidator interface {
	validateResult() string
}

// Recorder observes finished ERP calls.
type Recorder interface {
	Observe(operation string, took time.Duration, err error)
}

// Client calls the ERP uniform journal operations over JSON/HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	recorder   Recorder
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithRecorder attaches call metrics.
func WithRecorder(recorder Recorder) Option {
	return func(c *Client) {
		c.recorder = recorder
	}
}

// NewClient builds the ERP client for the given gateway base URL and token.
func NewClient(baseURL, token string, opts ...Option) (*Client, error) {
	trimmedURL := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmedURL == "" {
		return nil, errBaseURLRequired
	}
	trimmedToken := strings.TrimSpace(token)
	if trimmedToken == "" {
		return nil, errTokenRequired
	}

	client := &Client{
		baseURL:    trimmedURL,
		token:      trimmedToken,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return client, nil
}

// JournalTable lists journal headers of one type within a date range.
func (c *Client) JournalTable(ctx context.Context, req JournalTableRequest) ([]JournalTableRow, error) {
	var rows []JournalTableRow
	if _, err := c.invoke(ctx, OpJournalTable, req, &rows, true); err != nil {
		return nil, err
	}
	return rows, nil
}

// JournalDetails fetches one journal with its lines.
func (c *Client) JournalDetails(ctx context.Context, req JournalDetailsRequest) (*JournalDetails, error) {
	var details JournalDetails
	if _, err := c.invoke(ctx, OpJournalDetails, req, &details, true); err != nil {
		return nil, err
	}
	return &details, nil
}

// ByFRP lists items the employee currently holds and may return.
func (c *Client) ByFRP(ctx context.Context, req ByFRPRequest) ([]ByFRPRow, error) {
	var rows []ByFRPRow
	if _, err := c.invoke(ctx, OpByFRP, req, &rows, true); err != nil {
		return nil, err
	}
	return rows, nil
}

// JournalCreate creates a journal and returns its id.
func (c *Client) JournalCreate(ctx context.Context, req JournalCreateRequest) (string, error) {
	var result journalCreateResult
	if _, err := c.invoke(ctx, OpJournalCreate, req, &result, true); err != nil {
		return "", err
	}
	return result.JournalID, nil
}

// JournalUpdate replaces journal lines. A flagged failure is returned in the
// response rather than as an error.
func (c *Client) JournalUpdate(ctx context.Context, req JournalUpdateRequest) (*Response, error) {
	return c.invoke(ctx, OpJournalUpdate, req, nil, false)
}

func (c *Client) JournalDelete(ctx context.Context, req JournalRequest) (*Response, error) {
	return c.invoke(ctx, OpJournalDelete, req, nil, false)
}

// JournalPost finalizes the journal in the ERP.
func (c *Client) JournalPost(ctx context.Context, req JournalRequest) (*Response, error) {
	return c.invoke(ctx, OpJournalPost, req, nil, false)
}

// invoke posts payload to the operation endpoint. When failOnFlag is set a
// response flagged IsError becomes an *Error.
func (c *Client) invoke(ctx context.Context, op string, payload any, dest any, failOnFlag bool) (resp *Response, err error) {
	if c == nil {
		return nil, &Error{Op: op, Message: "erp client not configured"}
	}

	start := time.Now()
	defer func() {
		if c.recorder != nil {
			c.recorder.Observe(op, time.Since(start), err)
		}
	}()

	env, err := c.do(ctx, op, payload)
	if err != nil {
		return nil, err
	}

	if failOnFlag && env.Failed() {
		msg := strings.TrimSpace(env.Message)
		if msg == "" {
			msg = "operation flagged as failed"
		}
		return nil, &Error{Op: op, Message: msg}
	}

	if dest != nil && env.hasResult() {
		if err := json.Unmarshal(env.Result, dest); err != nil {
			return nil, &Error{Op: op, Message: "decode result", Err: err}
		}
	}
	if v, ok := dest.(resultValidator); ok {
		if msg := v.validateResult(); msg != "" {
			return nil, &Error{Op: op, Message: msg}
		}
	}

	return &env.Response, nil
}

func (c *Client) do(ctx context.Context, op string, payload any) (*envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Op: op, Message: "marshal request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(op), bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Op: op, Message: "build request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &Error{Op: op, Message: "execute request", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Message: "decode response", Err: err}
	}
	return &env, nil
}

func (c *Client) buildURL(op string) string {
	return fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(op, "/"))
}
