package paperless

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kirillkom/paperless-archiver/internal/core/domain"
)

// HTTPStatusError carries the remote status and a bounded slice of the
// response body for diagnostics.
type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "paperless status error"
	}
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("paperless %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("paperless %s status: %s: %s", e.Operation, e.Status, strings.TrimSpace(e.Body))
}

// resolveURL accepts either an API path or the absolute cursor URL the
// service embeds in paginated responses.
func (c *Client) resolveURL(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return c.baseURL + ref
}

func (c *Client) doJSON(ctx context.Context, method, ref string, payload any, out any, operation string) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return domain.WrapError(domain.ErrInvalid, operation, fmt.Errorf("marshal request: %w", err))
		}
		body = bytes.NewReader(raw)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return domain.WrapError(domain.ErrTransport, operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolveURL(ref), body)
	if err != nil {
		return domain.WrapError(domain.ErrInvalid, operation, err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(domain.ErrTransport, operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return statusError(operation, resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return domain.WrapError(domain.ErrDecode, operation, err)
		}
	}
	return nil
}

// getJSON retries transparently on retryable statuses; it must only be
// used for idempotent reads.
func (c *Client) getJSON(ctx context.Context, ref string, out any, operation string) error {
	return c.executor.Execute(ctx, operation, func(ctx context.Context) error {
		return c.doJSON(ctx, http.MethodGet, ref, nil, out, operation)
	}, classifyPaperlessError)
}

// postJSON issues a single, never-retried creation request.
func (c *Client) postJSON(ctx context.Context, ref string, payload any, out any, operation string) error {
	return c.doJSON(ctx, http.MethodPost, ref, payload, out, operation)
}

// patchJSON issues a single, never-retried partial update.
func (c *Client) patchJSON(ctx context.Context, ref string, payload any, operation string) error {
	return c.doJSON(ctx, http.MethodPatch, ref, payload, nil, operation)
}

func statusError(operation string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	statusErr := &HTTPStatusError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(raw),
	}

	kind := domain.ErrTransport
	switch resp.StatusCode {
	case http.StatusConflict:
		kind = domain.ErrConflict
	case http.StatusNotFound:
		kind = domain.ErrNotFound
	}
	return domain.WrapError(kind, operation, statusErr)
}
