// Package firecrawl implements medicine web search backed by the
// Firecrawl search API.
package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"medscan/internal/config"
	"medscan/internal/port"
)

const (
	searchPath = "/v1/search"

	// scrapeTimeoutMS is forwarded to Firecrawl so page scraping cannot
	// stall a lookup.
	scrapeTimeoutMS = 10000
)

// Client calls the Firecrawl search API and satisfies port.MedicineSearcher.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Firecrawl client from configuration.
func NewClient(cfg *config.SearchConfig) *Client {
	return NewClientWithEndpoint(cfg, cfg.Endpoint)
}

// NewClientWithEndpoint overrides the API base URL, used by tests.
func NewClientWithEndpoint(cfg *config.SearchConfig, endpoint string) *Client {
	return &Client{
		apiKey:   cfg.APIKey,
		endpoint: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSecs) * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
	}
}

type searchRequest struct {
	Query         string        `json:"query"`
	Limit         int           `json:"limit"`
	ScrapeOptions scrapeOptions `json:"scrapeOptions"`
}

type scrapeOptions struct {
	Formats []string `json:"formats"`
	Timeout int      `json:"timeout"`
}

type searchResponse struct {
	Success bool `json:"success"`
	Data    []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Description string `json:"description"`
		Markdown    string `json:"markdown"`
	} `json:"data"`
}

// Search runs a rate-limited search and returns up to limit results. Results
// that come back with a URL but neither markdown nor description are enriched
// by fetching the page directly.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]port.SearchResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	payload, err := json.Marshal(searchRequest{
		Query: query,
		Limit: limit,
		ScrapeOptions: scrapeOptions{
			Formats: []string{"markdown"},
			Timeout: scrapeTimeoutMS,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+searchPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("firecrawl request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("firecrawl API error: status %d: %s", resp.StatusCode, truncate(string(body), 500))
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]port.SearchResult, 0, len(parsed.Data))
	for _, item := range parsed.Data {
		result := port.SearchResult{
			Title:       item.Title,
			URL:         item.URL,
			Description: item.Description,
			Markdown:    item.Markdown,
		}
		if result.Markdown == "" && result.Description == "" && result.URL != "" {
			result.Description = c.fetchPageSummary(ctx, result.URL)
		}
		results = append(results, result)
	}
	return results, nil
}

// fetchPageSummary pulls the page title and first paragraph as a stand-in
// description. Best effort only.
func (c *Client) fetchPageSummary(ctx context.Context, pageURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ""
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("firecrawl.Client: page fetch failed for %s: %v", pageURL, err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	paragraph := strings.TrimSpace(doc.Find("p").First().Text())
	switch {
	case title != "" && paragraph != "":
		return title + " - " + paragraph
	case title != "":
		return title
	default:
		return paragraph
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
