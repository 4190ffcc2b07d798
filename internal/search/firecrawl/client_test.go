package firecrawl_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medscan/internal/config"
	"medscan/internal/search/firecrawl"
)

func testConfig() *config.SearchConfig {
	return &config.SearchConfig{
		APIKey:      "fc-test-key",
		RateLimit:   100,
		TimeoutSecs: 5,
	}
}

func TestSearch_Success(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"data": [
				{
					"title": "Metformin - Uses and Side Effects",
					"url": "https://example.com/metformin",
					"description": "Metformin is an oral diabetes medicine.",
					"markdown": "# Metformin\n\nOral diabetes medicine."
				}
			]
		}`))
	}))
	defer server.Close()

	client := firecrawl.NewClientWithEndpoint(testConfig(), server.URL)
	results, err := client.Search(context.Background(), "Metformin medicine price availability", 1)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "Metformin - Uses and Side Effects", results[0].Title)
	assert.Equal(t, "https://example.com/metformin", results[0].URL)
	assert.Equal(t, "# Metformin\n\nOral diabetes medicine.", results[0].Markdown)

	assert.Equal(t, "Bearer fc-test-key", gotAuth)
	assert.Equal(t, "/v1/search", gotPath)
	assert.Equal(t, "Metformin medicine price availability", gotBody["query"])
	assert.Equal(t, float64(1), gotBody["limit"])

	scrape, ok := gotBody["scrapeOptions"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"markdown"}, scrape["formats"])
	assert.Equal(t, float64(10000), scrape["timeout"])
}

func TestSearch_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limit exceeded"}`))
	}))
	defer server.Close()

	client := firecrawl.NewClientWithEndpoint(testConfig(), server.URL)
	_, err := client.Search(context.Background(), "Aspirin", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestSearch_EmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": []}`))
	}))
	defer server.Close()

	client := firecrawl.NewClientWithEndpoint(testConfig(), server.URL)
	results, err := client.Search(context.Background(), "UnknownDrug", 1)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_EnrichesBareURLResult(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Ibuprofen Guide</title></head><body><p>Ibuprofen is an NSAID pain reliever.</p></body></html>`))
	}))
	defer page.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": [{"title": "Result", "url": "` + page.URL + `"}]}`))
	}))
	defer server.Close()

	client := firecrawl.NewClientWithEndpoint(testConfig(), server.URL)
	results, err := client.Search(context.Background(), "Ibuprofen", 1)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "Ibuprofen Guide - Ibuprofen is an NSAID pain reliever.", results[0].Description)
}
