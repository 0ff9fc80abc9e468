// Package mlservice provides the HTTP client for the external ML content
// service that performs blog analysis and generation.
package mlservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/inkwell-ai/inkwell-api/internal/domain/model"
	apperrors "github.com/inkwell-ai/inkwell-api/internal/errors"
	"github.com/inkwell-ai/inkwell-api/internal/ports"
)

const (
	analyzePath  = "/api/analyze"
	generatePath = "/api/generate"
)

// Config captures the subset of ML service behaviour we need.
type Config struct {
	BaseURL string
	Client  *http.Client
}

// Client calls the external ML content service over HTTP. Each call is
// bounded by the caller's context deadline; the embedded http.Client carries
// no timeout of its own.
type Client struct {
	baseURL string
	client  *http.Client
}

var _ ports.MLClient = (*Client)(nil)

// NewClient builds an ML service client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("ml service base url is required")
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{}
	}

	return &Client{
		baseURL: baseURL,
		client:  hc,
	}, nil
}

// Analyze submits content for analysis and returns the raw result document.
func (c *Client) Analyze(ctx context.Context, req model.AnalyzeRequest) (json.RawMessage, error) {
	return c.post(ctx, analyzePath, req)
}

// Generate submits a generation request and returns the raw result document.
func (c *Client) Generate(ctx context.Context, req model.GenerateRequest) (json.RawMessage, error) {
	return c.post(ctx, generatePath, req)
}

func (c *Client) post(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode ml request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "create ml request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeTimeout, "ml service did not respond in time")
		}
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeUpstream, "ml service request to %s failed", path)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.errorFromResponse(path, resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUpstream, "read ml response body")
	}
	if !json.Valid(data) {
		return nil, apperrors.Upstreamf("ml service returned invalid JSON from %s", path)
	}

	return json.RawMessage(data), nil
}

// errorFromResponse maps a non-2xx status to an Upstream error carrying a
// short excerpt of the response body for diagnostics.
func (c *Client) errorFromResponse(path string, resp *http.Response) error {
	const maxExcerpt = 512

	excerpt, readErr := io.ReadAll(io.LimitReader(resp.Body, maxExcerpt))
	if readErr != nil {
		return apperrors.Upstreamf("ml service %s returned %s", path, resp.Status)
	}

	detail := strings.TrimSpace(string(excerpt))
	if detail == "" {
		return apperrors.Upstreamf("ml service %s returned %s", path, resp.Status)
	}
	return apperrors.Upstreamf("ml service %s returned %s: %s", path, resp.Status, detail)
}
