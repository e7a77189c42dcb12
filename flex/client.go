package flex

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://ndcdyn.interactivebrokers.com/AccountManagement/FlexWebService"
	defaultWait    = 5 * time.Second

	sendRequestPath  = "/SendRequest"
	getStatementPath = "/GetStatement"

	statusSuccess = "Success"
)

// StatementResponse is the reply to a SendRequest call. A Success status
// carries the reference code used to retrieve the generated statement.
type StatementResponse struct {
	XMLName       xml.Name `xml:"FlexStatementResponse"`
	Status        string   `xml:"Status"`
	ReferenceCode string   `xml:"ReferenceCode"`
	ErrorCode     string   `xml:"ErrorCode"`
	ErrorMessage  string   `xml:"ErrorMessage"`
}

// StatusError is returned when the web service does not report Success.
// The raw response body is preserved for the caller to surface, since the
// service reports errors in several shapes.
type StatusError struct {
	Status       string
	ErrorMessage string
	Body         string
}

func (e *StatusError) Error() string {
	if e.ErrorMessage != "" {
		return fmt.Sprintf("flex web service returned %q: %s", e.Status, e.ErrorMessage)
	}
	return fmt.Sprintf("flex web service returned %q:\n%s", e.Status, e.Body)
}

// Client talks to the IBKR Flex web service. Retrieval is a three step
// round trip: request statement generation, wait a fixed interval for the
// statement to be generated, then fetch it by reference code. The service
// offers no readiness signal, so the wait is a plain sleep and there is no
// retry.
type Client struct {
	httpClient *http.Client
	baseURL    string
	wait       time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL overrides the web service base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithWait overrides the fixed wait between generation and retrieval.
func WithWait(wait time.Duration) ClientOption {
	return func(c *Client) {
		c.wait = wait
	}
}

// NewClient creates a Client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    defaultBaseURL,
		wait:       defaultWait,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wait returns the configured wait between generation and retrieval.
func (c *Client) Wait() time.Duration {
	return c.wait
}

// SendRequest asks the web service to generate the statement for a query
// and returns the reference code to retrieve it with.
func (c *Client) SendRequest(ctx context.Context, token, queryID string) (string, error) {
	body, err := c.get(ctx, sendRequestPath, token, queryID)
	if err != nil {
		return "", err
	}

	var response StatementResponse
	if err := xml.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to decode SendRequest response: %w", err)
	}

	if response.Status != statusSuccess {
		return "", &StatusError{
			Status:       response.Status,
			ErrorMessage: response.ErrorMessage,
			Body:         string(body),
		}
	}

	return response.ReferenceCode, nil
}

// GetStatement fetches a generated statement by reference code and returns
// the raw report XML.
func (c *Client) GetStatement(ctx context.Context, token, referenceCode string) ([]byte, error) {
	return c.get(ctx, getStatementPath, token, referenceCode)
}

// Retrieve performs the full round trip: generate, wait, fetch.
func (c *Client) Retrieve(ctx context.Context, token, queryID string) ([]byte, error) {
	referenceCode, err := c.SendRequest(ctx, token, queryID)
	if err != nil {
		return nil, err
	}

	select {
	case <-time.After(c.wait):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return c.GetStatement(ctx, token, referenceCode)
}

func (c *Client) get(ctx context.Context, path, token, query string) ([]byte, error) {
	params := url.Values{}
	params.Set("v", "3")
	params.Set("t", token)
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("flex web service request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read flex web service response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("flex web service returned HTTP %d:\n%s", resp.StatusCode, body)
	}

	return body, nil
}
