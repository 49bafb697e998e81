package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/services"
)

// adminPageSize is the page size requested from the Supabase admin API
const adminPageSize = 1000

// AdminClient provides access to the Supabase Admin API for user management.
// Requires the service role key (SUPABASE_KEY).
type AdminClient struct {
	supabaseURL string
	serviceKey  string
	httpClient  *http.Client
}

var _ services.UserDirectory = (*AdminClient)(nil)

// NewAdminClient creates a new Supabase Admin API client
func NewAdminClient(supabaseURL, serviceKey string) *AdminClient {
	return &AdminClient{
		supabaseURL: strings.TrimRight(supabaseURL, "/"),
		serviceKey:  serviceKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// listUsersResponse is one page of GET /auth/v1/admin/users
type listUsersResponse struct {
	Users []services.DirectoryUser `json:"users"`
}

// ListUsers returns every user, following pages until a short page is returned
func (c *AdminClient) ListUsers(ctx context.Context) ([]services.DirectoryUser, error) {
	var users []services.DirectoryUser
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/auth/v1/admin/users?page=%d&per_page=%d", c.supabaseURL, page, adminPageSize)

		var resp listUsersResponse
		if err := c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}

		users = append(users, resp.Users...)
		if len(resp.Users) < adminPageSize {
			return users, nil
		}
	}
}

// FindByEmail returns the user with the given email, case-insensitively
func (c *AdminClient) FindByEmail(ctx context.Context, email string) (*services.DirectoryUser, error) {
	users, err := c.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}

	return nil, &domain.NotFoundError{Message: fmt.Sprintf("user %s not found", email)}
}

// UpdateAppMetadata replaces the user's app_metadata
func (c *AdminClient) UpdateAppMetadata(ctx context.Context, userID string, appMetadata map[string]interface{}) error {
	url := fmt.Sprintf("%s/auth/v1/admin/users/%s", c.supabaseURL, userID)
	payload := map[string]interface{}{"app_metadata": appMetadata}

	if err := c.do(ctx, http.MethodPut, url, payload, nil); err != nil {
		return fmt.Errorf("update user %s: %w", userID, err)
	}
	return nil
}

func (c *AdminClient) do(ctx context.Context, method, url string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.UpstreamError{Provider: "supabase", Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return &domain.UpstreamError{
			Provider: "supabase",
			Message:  fmt.Sprintf("request failed with status %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
