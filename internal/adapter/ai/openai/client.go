// Package openai implements the AI client against an OpenAI-compatible API.
//
// Both the embeddings and chat completions endpoints are covered, so the
// same adapter works for OpenAI itself and for local Ollama deployments
// exposing the /v1 compatibility surface.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/amithrb/jobfinder/internal/adapter/observability"
	"github.com/amithrb/jobfinder/internal/config"
	"github.com/amithrb/jobfinder/internal/domain"
)

// Client implements domain.AIClient over an OpenAI-compatible HTTP API.
type Client struct {
	cfg     config.Config
	chatHC  *http.Client
	embedHC *http.Client
}

// New constructs a client with sensible timeouts.
func New(cfg config.Config) *Client {
	return &Client{
		cfg:     cfg,
		chatHC:  &http.Client{Timeout: 120 * time.Second},
		embedHC: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) backoffConfig(ctx context.Context) backoff.BackOffContext {
	expo := backoff.NewExponentialBackOff()
	maxElapsed, initial, maxInterval, multiplier := c.cfg.GetAIBackoffConfig()
	expo.MaxElapsedTime = maxElapsed
	expo.InitialInterval = initial
	expo.MaxInterval = maxInterval
	expo.Multiplier = multiplier
	return backoff.WithContext(expo, ctx)
}

// readSnippet reads up to n bytes from r for diagnostic logging.
func readSnippet(r io.Reader, n int) string {
	b, _ := io.ReadAll(io.LimitReader(r, int64(n)))
	return string(b)
}

// Embed returns one embedding vector per input text, index-aligned with the
// request order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no texts to embed", domain.ErrInvalidArgument)
	}
	body, _ := json.Marshal(map[string]any{
		"model": c.cfg.EmbeddingsModel,
		"input": texts,
	})
	var out struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	op := func() error {
		start := time.Now()
		// Recreate the request each attempt to avoid reusing consumed bodies.
		req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AIBaseURL+"/embeddings", bytes.NewReader(body))
		c.setHeaders(req)
		resp, err := c.embedHC.Do(req)
		observability.AIRequestsTotal.WithLabelValues("embed").Inc()
		observability.AIRequestDuration.WithLabelValues("embed").Observe(time.Since(start).Seconds())
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode == http.StatusTooManyRequests {
			slog.Warn("embedding provider rate limited", slog.Int("status", resp.StatusCode))
			return fmt.Errorf("rate limited: 429")
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			slog.Warn("embedding provider 4xx", slog.Int("status", resp.StatusCode), slog.String("body", readSnippet(resp.Body, 512)))
			return backoff.Permanent(fmt.Errorf("embed status %d", resp.StatusCode))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			slog.Error("embedding provider non-2xx", slog.Int("status", resp.StatusCode), slog.String("body", readSnippet(resp.Body, 512)))
			return fmt.Errorf("embed status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&out)
	}
	if err := backoff.Retry(op, c.backoffConfig(ctx)); err != nil {
		return nil, fmt.Errorf("%w: embeddings: %v", domain.ErrServiceUnavailable, err)
	}
	if len(out.Data) != len(texts) {
		return nil, fmt.Errorf("%w: embeddings response has %d vectors for %d inputs", domain.ErrSchemaInvalid, len(out.Data), len(texts))
	}
	res := make([][]float32, len(out.Data))
	for i := range out.Data {
		v := make([]float32, len(out.Data[i].Embedding))
		for j := range out.Data[i].Embedding {
			v[j] = float32(out.Data[i].Embedding[j])
		}
		res[i] = v
	}
	return res, nil
}

// Chat sends a single-user-message chat completion and returns the raw
// message content. Any response without a content field is an error.
func (c *Client) Chat(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(map[string]any{
		"model": c.cfg.ChatModel,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	})
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	op := func() error {
		start := time.Now()
		req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AIBaseURL+"/chat/completions", bytes.NewReader(body))
		c.setHeaders(req)
		resp, err := c.chatHC.Do(req)
		observability.AIRequestsTotal.WithLabelValues("chat").Inc()
		observability.AIRequestDuration.WithLabelValues("chat").Observe(time.Since(start).Seconds())
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode == http.StatusTooManyRequests {
			slog.Warn("chat provider rate limited", slog.Int("status", resp.StatusCode))
			return fmt.Errorf("rate limited: 429")
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			slog.Warn("chat provider 4xx", slog.Int("status", resp.StatusCode), slog.String("body", readSnippet(resp.Body, 512)))
			return backoff.Permanent(fmt.Errorf("chat status %d", resp.StatusCode))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			slog.Error("chat provider non-2xx", slog.Int("status", resp.StatusCode), slog.String("body", readSnippet(resp.Body, 512)))
			return fmt.Errorf("chat status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&out)
	}
	if err := backoff.Retry(op, c.backoffConfig(ctx)); err != nil {
		return "", fmt.Errorf("%w: chat: %v", domain.ErrServiceUnavailable, err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: chat response has no message content", domain.ErrSchemaInvalid)
	}
	return out.Choices[0].Message.Content, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.AIAPIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.AIAPIKey)
	}
}
