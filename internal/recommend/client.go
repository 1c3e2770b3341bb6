package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Endpoint identifies the publisher and source the recommendations are
// requested for.
type Endpoint struct {
	PublisherID string
	APIKey      string
	AppType     string
	SourceType  string
	SourceID    string
	SourceURL   string
}

type apiThumbnail struct {
	URL string `json:"url"`
}

type apiRecommendation struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Branding  string         `json:"branding"`
	Origin    string         `json:"origin"`
	URL       string         `json:"url"`
	Thumbnail []apiThumbnail `json:"thumbnail"`
}

type apiResponse struct {
	List []apiRecommendation `json:"list"`
}

// Client performs a single recommendations.get call per Fetch. Retrying
// until a non-empty result is the caller's concern.
type Client struct {
	baseURL  string
	endpoint Endpoint
	http     *http.Client
}

// NewClient returns a client for baseURL. A nil httpClient gets a 10s timeout.
func NewClient(baseURL string, endpoint Endpoint, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		endpoint: endpoint,
		http:     httpClient,
	}
}

// Fetch requests count recommendations and returns them in response order,
// whatever their origin. An empty list is not an error.
func (c *Client) Fetch(ctx context.Context, count int) ([]Recommendation, error) {
	if count < 1 {
		count = 1
	}

	req, err := c.newRequest(ctx, c.recommendationsURL(count))
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recommendations request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("recommendations failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode recommendations response: %w", err)
	}

	out := make([]Recommendation, 0, len(payload.List))
	for _, item := range payload.List {
		out = append(out, item.toRecommendation())
	}
	return out, nil
}

func (a apiRecommendation) toRecommendation() Recommendation {
	rec := Recommendation{
		ID:          a.ID,
		Title:       PlainText(a.Name),
		Branding:    PlainText(a.Branding),
		Destination: strings.TrimSpace(a.URL),
		Origin:      a.Origin,
	}
	if len(a.Thumbnail) > 0 {
		rec.ThumbnailURL = strings.TrimSpace(a.Thumbnail[0].URL)
	}
	return rec
}

func (c *Client) recommendationsURL(count int) string {
	q := make(url.Values)
	q.Set("app.type", c.endpoint.AppType)
	q.Set("app.apikey", c.endpoint.APIKey)
	q.Set("count", strconv.Itoa(count))
	q.Set("source.type", c.endpoint.SourceType)
	q.Set("source.id", c.endpoint.SourceID)
	q.Set("source.url", c.endpoint.SourceURL)
	return c.baseURL + "/" + url.PathEscape(c.endpoint.PublisherID) + "/recommendations.get?" + q.Encode()
}

func (c *Client) newRequest(ctx context.Context, fullURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}
