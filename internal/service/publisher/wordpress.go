package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models/integration"
	"blogsmith/internal/metrics"
)

// WordPress REST operations, used as metrics labels
const (
	opCreatePost     = "create_post"
	opListCategories = "list_categories"
)

// wpPostBody is the payload of POST /wp-json/wp/v2/posts
type wpPostBody struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Status     string  `json:"status"`
	Categories []int64 `json:"categories"`
	Date       string  `json:"date,omitempty"`
}

// wpClient talks to a user's WordPress site with application password auth
type wpClient struct {
	httpClient *http.Client
}

func newWPClient(timeout time.Duration) *wpClient {
	return &wpClient{httpClient: &http.Client{Timeout: timeout}}
}

func (c *wpClient) createPost(ctx context.Context, site *integration.WordPressIntegration, body *wpPostBody) (*integration.ExternalPostRef, error) {
	var ref integration.ExternalPostRef
	if err := c.do(ctx, http.MethodPost, site.APIBase()+"/posts", site, body, &ref, opCreatePost); err != nil {
		return nil, err
	}
	return &ref, nil
}

func (c *wpClient) listCategories(ctx context.Context, site *integration.WordPressIntegration) ([]integration.RemoteCategory, error) {
	categories := []integration.RemoteCategory{}
	if err := c.do(ctx, http.MethodGet, site.APIBase()+"/categories?per_page=100", site, nil, &categories, opListCategories); err != nil {
		return nil, err
	}
	return categories, nil
}

// do sends one request. Non-2xx responses become a PublishError carrying the body verbatim.
func (c *wpClient) do(ctx context.Context, method, url string, site *integration.WordPressIntegration, in, out any, operation string) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(site.WPUsername, site.WPAppPassword)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.WordPressRequests.WithLabelValues(operation, metrics.ResultError).Inc()
		return &domain.UpstreamError{Provider: "wordpress", Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.WordPressRequests.WithLabelValues(operation, metrics.ResultError).Inc()
		return &domain.UpstreamError{Provider: "wordpress", Message: fmt.Sprintf("failed to read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.WordPressRequests.WithLabelValues(operation, metrics.ResultError).Inc()
		return &domain.PublishError{Status: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		metrics.WordPressRequests.WithLabelValues(operation, metrics.ResultError).Inc()
		return &domain.UpstreamError{Provider: "wordpress", Message: fmt.Sprintf("failed to decode response: %v", err)}
	}

	metrics.WordPressRequests.WithLabelValues(operation, metrics.ResultOK).Inc()
	return nil
}
