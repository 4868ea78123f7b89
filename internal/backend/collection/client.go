// Package collection is a read-only client for the museum collection API.
package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jo-hoe/artcolor/internal/common"
)

const (
	DefaultBaseURL = "https://collectionapi.metmuseum.org/public/collection/v1/"

	departmentsPath = "departments"
	objectsPath     = "objects"
)

// Client issues requests against a configured collection API base address.
// It does not retry, cache or rate-limit.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewClient creates a client for the API rooted at baseURL. A nil httpClient
// falls back to http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid collection base url %q: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid collection base url %q: scheme and host are required", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    parsed,
		httpClient: httpClient,
	}, nil
}

// ListDepartments returns all departments of the collection.
func (c *Client) ListDepartments(ctx context.Context) ([]Department, error) {
	var response departmentsResponse
	if err := c.getJSON(ctx, nil, &response, departmentsPath); err != nil {
		return nil, err
	}
	return response.Departments, nil
}

// ListObjectIDs returns the object IDs of a department in API order. The result may be empty.
func (c *Client) ListObjectIDs(ctx context.Context, departmentID int) ([]int, error) {
	query := url.Values{}
	query.Set("departmentIds", strconv.Itoa(departmentID))

	var response objectIDsResponse
	if err := c.getJSON(ctx, query, &response, objectsPath); err != nil {
		return nil, err
	}
	if response.ObjectIDs == nil {
		return []int{}, nil
	}
	return response.ObjectIDs, nil
}

// FetchObject returns the metadata of a single object.
func (c *Client) FetchObject(ctx context.Context, objectID int) (*Object, error) {
	var object Object
	if err := c.getJSON(ctx, nil, &object, objectsPath, strconv.Itoa(objectID)); err != nil {
		return nil, err
	}
	return &object, nil
}

// newRequest builds a GET request for the base URL extended by the given path segments.
func (c *Client) newRequest(ctx context.Context, query url.Values, segments ...string) (*http.Request, error) {
	target := c.baseURL.JoinPath(segments...)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", target, err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) getJSON(ctx context.Context, query url.Values, out any, segments ...string) error {
	req, err := c.newRequest(ctx, query, segments...)
	if err != nil {
		return err
	}
	target := req.URL.String()

	slog.Debug("collection: sending request", "url", target)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &common.RemoteCallError{URL: target, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return &common.RemoteCallError{
			URL:        target,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &common.ParseError{URL: target, Err: err}
	}
	return nil
}
