package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/kaptinlin/jsonrepair"
)

// HTTPClient defines the interface for an HTTP client
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is what adapters use to reach vendors. Both calls decode the body
// into a generic JSON object and fail on non-2xx statuses.
type Client interface {
	Post(ctx context.Context, endpoint string, body any, headers map[string]string) (map[string]any, error)
	Get(ctx context.Context, endpoint string, query url.Values, headers map[string]string) (map[string]any, error)
}

// JSONClient implements Client over an injected HTTPClient. It never retries;
// timeouts are a property of the underlying client.
type JSONClient struct {
	http HTTPClient
}

func New(c HTTPClient) *JSONClient {
	if c == nil {
		c = http.DefaultClient
	}
	return &JSONClient{http: c}
}

func (c *JSONClient) Post(ctx context.Context, endpoint string, body any, headers map[string]string) (map[string]any, error) {
	var out map[string]any
	if err := SendRequest(ctx, c.http, http.MethodPost, endpoint, headers, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *JSONClient) Get(ctx context.Context, rawURL string, query url.Values, headers map[string]string) (map[string]any, error) {
	if len(query) > 0 {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid url: %w", err)
		}
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
		rawURL = u.String()
	}

	var out map[string]any
	if err := SendRequest(ctx, c.http, http.MethodGet, rawURL, headers, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendRequest handles the common logic of creating a request, sending it, and checking the status code.
func SendRequest(ctx context.Context, client HTTPClient, method, url string, headers map[string]string, body interface{}, response interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// Check for non-200 status codes
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       respBody,
			URL:        url,
		}
	}

	if response != nil {
		return decode(respBody, response)
	}
	return nil
}

// decode unmarshals data, giving a malformed body one pass through jsonrepair
// before failing. Some OpenAI-compatible vendors emit trailing garbage.
func decode(data []byte, response interface{}) error {
	err := json.Unmarshal(data, response)
	if err == nil {
		return nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(string(data))
	if repairErr != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), response); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
