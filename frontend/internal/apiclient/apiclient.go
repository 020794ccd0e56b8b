package apiclient

import (
	"fmt"
	"io"
	"net/http"
)

// APIClient handles all communication with the backend API.
type APIClient struct {
	BaseURL    string
	HttpClient *http.Client
}

func New(baseURL string) *APIClient {
	return &APIClient{
		BaseURL:    baseURL,
		HttpClient: &http.Client{},
	}
}

// do is the single helper for making API requests. Cookies (the session
// token) are forwarded from the browser request.
func (c *APIClient) do(method, path, contentType string, body io.Reader, cookies ...*http.Cookie) (*http.Response, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend unavailable: %w", err)
	}
	return resp, nil
}

func errorFromResponse(action string, resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("failed to %s: %s", action, string(bodyBytes))
}
