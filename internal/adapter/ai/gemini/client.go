// Package gemini implements the rate-limited text-generation client
// backed by the Google Generative Language API.
package gemini

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"log/slog"

	"github.com/prepwise/ai-interview-evaluator/internal/adapter/ai/tokencount"
	"github.com/prepwise/ai-interview-evaluator/internal/adapter/observability"
	"github.com/prepwise/ai-interview-evaluator/internal/config"
	"github.com/prepwise/ai-interview-evaluator/internal/domain"
)

// errVersionNotFound signals a 404 from the provider, which usually
// means the model is not served under the requested API version. The
// caller retries once against the alternate version before giving up.
var errVersionNotFound = errors.New("model not found for api version")

// Client implements domain.TextGenerator and domain.Embedder against
// the Generative Language REST API. All calls share one IntervalLimiter
// so the aggregate request rate respects the configured minimum gap
// regardless of which pipeline stage is calling.
type Client struct {
	cfg     config.Config
	hc      *http.Client
	limiter *IntervalLimiter
	tokens  *tokencount.Counter
}

// New constructs a Client with sensible timeouts.
func New(cfg config.Config) *Client {
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 30 * time.Second},
		limiter: NewIntervalLimiter(cfg.GenMinInterval),
		tokens:  tokencount.NewCounter(),
	}
}

func (c *Client) endpoint(version, model, method string) string {
	return fmt.Sprintf("%s/%s/models/%s:%s?key=%s", c.cfg.GeminiBaseURL, version, model, method, c.cfg.GeminiAPIKey)
}

func alternateVersion(v string) string {
	if v == "v1beta" {
		return "v1"
	}
	return "v1beta"
}

func (c *Client) backoffConfig() *backoff.ExponentialBackOff {
	expo := backoff.NewExponentialBackOff()
	maxElapsed, initial, maxIvl, mult := c.cfg.GetAIBackoffConfig()
	expo.MaxElapsedTime = maxElapsed
	expo.InitialInterval = initial
	expo.MaxInterval = maxIvl
	expo.Multiplier = mult
	return expo
}

// retryPolicy caps the exponential backoff at AIMaxRetries retries past
// the initial attempt, on top of the elapsed-time ceiling.
func (c *Client) retryPolicy(ctx domain.Context) backoff.BackOff {
	var bo backoff.BackOff = c.backoffConfig()
	if c.cfg.AIMaxRetries > 0 {
		bo = backoff.WithMaxRetries(bo, uint64(c.cfg.AIMaxRetries))
	}
	return backoff.WithContext(bo, ctx)
}

// Generate produces free text for prompt. Rate limiting, retry with
// exponential backoff on 429/5xx/network errors and the alternate-
// version fallback on 404 all happen here, so callers only ever decide
// between the returned text and their local fallback.
func (c *Client) Generate(ctx domain.Context, prompt string) (string, error) {
	if c.cfg.GeminiAPIKey == "" {
		return "", fmt.Errorf("%w: GEMINI_API_KEY missing", domain.ErrInvalidArgument)
	}
	if n := c.tokens.Count(prompt); c.cfg.MaxPromptTokens > 0 && n > c.cfg.MaxPromptTokens {
		prompt = c.tokens.Truncate(prompt, c.cfg.MaxPromptTokens)
		slog.Warn("prompt truncated to token budget",
			slog.Int("tokens", n),
			slog.Int("budget", c.cfg.MaxPromptTokens))
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body, _ := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	})

	versions := []string{c.cfg.GeminiAPIVersion, alternateVersion(c.cfg.GeminiAPIVersion)}
	var lastErr error
	for _, version := range versions {
		text, err := c.generateOnce(ctx, version, body)
		if err == nil {
			if strings.TrimSpace(text) == "" {
				slog.Warn("generation returned blank payload", slog.String("version", version))
				return "", fmt.Errorf("op=gemini.generate: %w", domain.ErrEmptyResponse)
			}
			return text, nil
		}
		lastErr = err
		if errors.Is(err, errVersionNotFound) {
			slog.Info("model not found, trying alternate api version",
				slog.String("version", version),
				slog.String("alternate", alternateVersion(version)))
			continue
		}
		return "", err
	}
	return "", fmt.Errorf("op=gemini.generate: %w", lastErr)
}

func (c *Client) generateOnce(ctx domain.Context, version string, body []byte) (string, error) {
	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	url := c.endpoint(version, c.cfg.GeminiModel, "generateContent")
	op := func() error {
		start := time.Now()
		// Recreate request each attempt to avoid reusing consumed bodies
		r, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		resp, err := c.hc.Do(r)
		observability.AIRequestsTotal.WithLabelValues("gemini", "generate").Inc()
		observability.AIRequestDuration.WithLabelValues("gemini", "generate").Observe(time.Since(start).Seconds())
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
		}
		defer func() { _ = resp.Body.Close() }()
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: read body: %v", domain.ErrNetwork, err)
		}
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			slog.Warn("generation provider rate limited",
				slog.String("version", version), slog.Int("status", resp.StatusCode))
			return fmt.Errorf("%w: status 429", domain.ErrRateLimited)
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(errVersionNotFound)
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return backoff.Permanent(fmt.Errorf("%w: status %d: %s", domain.ErrUpstream, resp.StatusCode, snippet(respBody)))
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			slog.Error("generation provider non-2xx",
				slog.String("version", version),
				slog.Int("status", resp.StatusCode),
				slog.String("body", snippet(respBody)))
			return fmt.Errorf("%w: status %d", domain.ErrUpstream, resp.StatusCode)
		}
		if err := json.Unmarshal(respBody, &out); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %v", domain.ErrParse, err))
		}
		return nil
	}
	if err := backoff.Retry(op, c.retryPolicy(ctx)); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 {
		return "", nil
	}
	var b strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}

// Embed returns one vector per text via the batch embeddings endpoint.
func (c *Client) Embed(ctx domain.Context, texts []string) ([][]float64, error) {
	if c.cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY missing", domain.ErrInvalidArgument)
	}
	// Embeddings draw on the same provider quota as generation, so they
	// go through the shared interval limiter too.
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	reqs := make([]map[string]any, len(texts))
	for i, t := range texts {
		reqs[i] = map[string]any{
			"model":   "models/" + c.cfg.EmbeddingsModel,
			"content": map[string]any{"parts": []map[string]string{{"text": t}}},
		}
	}
	body, _ := json.Marshal(map[string]any{"requests": reqs})
	var out struct {
		Embeddings []struct {
			Values []float64 `json:"values"`
		} `json:"embeddings"`
	}
	url := c.endpoint(c.cfg.GeminiAPIVersion, c.cfg.EmbeddingsModel, "batchEmbedContents")
	op := func() error {
		start := time.Now()
		r, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		resp, err := c.hc.Do(r)
		observability.AIRequestsTotal.WithLabelValues("gemini", "embed").Inc()
		observability.AIRequestDuration.WithLabelValues("gemini", "embed").Observe(time.Since(start).Seconds())
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
		}
		defer func() { _ = resp.Body.Close() }()
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: read body: %v", domain.ErrNetwork, err)
		}
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: status 429", domain.ErrRateLimited)
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return backoff.Permanent(fmt.Errorf("%w: status %d: %s", domain.ErrUpstream, resp.StatusCode, snippet(respBody)))
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return fmt.Errorf("%w: status %d", domain.ErrUpstream, resp.StatusCode)
		}
		if err := json.Unmarshal(respBody, &out); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %v", domain.ErrParse, err))
		}
		return nil
	}
	if err := backoff.Retry(op, c.retryPolicy(ctx)); err != nil {
		return nil, fmt.Errorf("op=gemini.embed: %w", err)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("op=gemini.embed: %w: got %d embeddings for %d texts", domain.ErrEmptyResponse, len(out.Embeddings), len(texts))
	}
	res := make([][]float64, len(out.Embeddings))
	for i := range out.Embeddings {
		res[i] = out.Embeddings[i].Values
	}
	return res, nil
}

func snippet(b []byte) string {
	s := string(b)
	if len(s) > 512 {
		s = s[:512]
	}
	return s
}
