// Package client is a typed consumer of the Dropify REST API. It
// mirrors the browser app's state stores: thin wrappers over HTTP
// calls whose handles are injected explicitly rather than reached
// through globals.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

type Client struct {
	BaseURL *url.URL
	HTTP    *http.Client
}

// APIError is a non-2xx response decoded from the server's
// {message} error body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{BaseURL: u, HTTP: httpClient}, nil
}

// do sends one JSON request and decodes the JSON response into out
// (skipped when out is nil). Non-2xx responses become an *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, body, out interface{}) error {
	rel := &url.URL{Path: path, RawQuery: query.Encode()}
	u := c.BaseURL.ResolveReference(rel)

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: "Server Error"}
		var errBody struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil && errBody.Message != "" {
			apiErr.Message = errBody.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Product mirrors the catalog entity as served by the API.
type Product struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
}

// ProductPage is the catalog listing envelope.
type ProductPage struct {
	Products []Product `json:"products"`
	Page     int64     `json:"page"`
	Pages    int64     `json:"pages"`
	Total    int64     `json:"total"`
}

// ListProducts fetches one catalog page. Zero page/limit leave the
// server defaults in effect.
func (c *Client) ListProducts(ctx context.Context, category, search, sort string, page, limit int) (*ProductPage, error) {
	query := url.Values{}
	if category != "" {
		query.Set("category", category)
	}
	if search != "" {
		query.Set("search", search)
	}
	if sort != "" {
		query.Set("sort", sort)
	}
	if page > 0 {
		query.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}

	var result ProductPage
	if err := c.do(ctx, http.MethodGet, "/api/products", query, "", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
