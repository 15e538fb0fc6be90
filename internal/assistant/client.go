package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"evstation-backend/internal/logger"
)

// ErrRateLimited marks a transient provider rejection worth retrying.
var ErrRateLimited = errors.New("model rate limited")

// ModelClient generates a completion for a prompt.
type ModelClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type geminiClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewGeminiClient(baseURL, apiKey, model string) ModelClient {
	return &geminiClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// backoffDelays drive the retry loop on rate limiting: three attempts at
// 1s, 2s, 4s.
var backoffDelays = []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}

func (c *geminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < len(backoffDelays); attempt++ {
		text, err := c.generateOnce(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !errors.Is(err, ErrRateLimited) {
			return "", err
		}
		logger.Warn("Model rate limited, backing off", "attempt", attempt+1, "delay", backoffDelays[attempt])
		select {
		case <-time.After(backoffDelays[attempt]):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", lastErr
}

func (c *geminiClient) generateOnce(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	logger.ExternalServiceCall("gemini", "generateContent", "model", c.model)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.ExternalServiceResult("gemini", "generateContent", err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		logger.ExternalServiceResult("gemini", "generateContent", ErrRateLimited)
		return "", ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("model returned status %d", resp.StatusCode)
		logger.ExternalServiceResult("gemini", "generateContent", err)
		return "", err
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode model response: %w", err)
	}
	logger.ExternalServiceResult("gemini", "generateContent", nil)

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("model returned no candidates")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
