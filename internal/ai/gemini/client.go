package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"medscan/internal/config"
)

const (
	apiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
)

// Client implements port.Completer using Google's Gemini API.
type Client struct {
	apiKey         string
	model          string
	visionModel    string
	endpoint       string
	visionEndpoint string
	client         *http.Client
}

// NewClient creates a Gemini-based completion client.
func NewClient(cfg *config.AIConfig) *Client {
	return newClient(cfg, "")
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewClientWithEndpoint(cfg *config.AIConfig, endpoint string) *Client {
	return newClient(cfg, endpoint)
}

func newClient(cfg *config.AIConfig, endpoint string) *Client {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-pro"
	}
	visionModel := cfg.VisionModel
	if visionModel == "" {
		visionModel = "gemini-2.5-flash"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	textEndpoint := endpoint
	visionEndpoint := endpoint
	if endpoint == "" {
		textEndpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
		visionEndpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, visionModel)
	}
	return &Client{
		apiKey:         cfg.APIKey,
		model:          model,
		visionModel:    visionModel,
		endpoint:       textEndpoint,
		visionEndpoint: visionEndpoint,
		client:         &http.Client{Timeout: timeout},
	}
}

// Complete sends a text-only prompt and returns the model's text response.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	parts := []map[string]interface{}{
		{"text": prompt},
	}
	return c.generate(ctx, c.endpoint, parts)
}

// CompleteWithImage sends a prompt with inline image bytes to the vision model.
func (c *Client) CompleteWithImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(image)
	parts := []map[string]interface{}{
		{
			"inline_data": map[string]interface{}{
				"mime_type": mimeType,
				"data":      encoded,
			},
		},
		{"text": prompt},
	}
	return c.generate(ctx, c.visionEndpoint, parts)
}

func (c *Client) generate(ctx context.Context, endpoint string, parts []map[string]interface{}) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role":  "user",
				"parts": parts,
			},
		},
		"generationConfig": map[string]interface{}{
			"maxOutputTokens": 16384,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
	}

	return extractText(respBody)
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func extractText(body []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from API: no candidates")
	}

	if len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from API: no parts")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
