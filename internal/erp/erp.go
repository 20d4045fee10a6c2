// Package erp proxies project lookups to an ERPNext instance so the
// frontend never sees the API credentials.
package erp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	BaseURL    string
	APIKey     string
	APISecret  string
	HTTPClient *http.Client
}

func NewClient(baseURL, apiKey, apiSecret string) *Client {
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		APISecret:  apiSecret,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether an ERPNext endpoint was set up at all.
func (c *Client) Configured() bool {
	return c != nil && c.BaseURL != ""
}

func (c *Client) get(rawURL string, out any) error {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", fmt.Sprintf("token %s:%s", c.APIKey, c.APISecret))

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("erpnext returned status %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// SearchProjects looks up open projects matching the search text.
func (c *Client) SearchProjects(search string) ([]map[string]any, error) {
	params := url.Values{}
	params.Set("doctype", "Project")
	params.Set("txt", search)
	params.Set("filters", `{"status":"Open"}`)
	params.Set("fields", `["name","project_name","customer","status","company"]`)
	params.Set("limit_page_length", "20")

	var out struct {
		Data []map[string]any `json:"data"`
	}
	if err := c.get(c.BaseURL+"/api/resource/Project?"+params.Encode(), &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetProject fetches the full record of one project by name.
func (c *Client) GetProject(name string) (map[string]any, error) {
	var out struct {
		Data map[string]any `json:"data"`
	}
	if err := c.get(c.BaseURL+"/api/resource/Project/"+url.PathEscape(name), &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}
