package paperless

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/kirillkom/paperless-archiver/internal/core/domain"
)

// pageEnvelope is the cursor-paginated list shape. Results stay raw so
// each collection decodes its own row type.
type pageEnvelope struct {
	Next    *string         `json:"next"`
	Results json.RawMessage `json:"results"`
}

// fetchAllPages walks a collection from startRef, following the next
// cursor until exhausted, handing each page's raw results to visit.
// Deployments that return a bare JSON array are treated as one page.
// The first transport or decode error aborts the walk.
func (c *Client) fetchAllPages(ctx context.Context, startRef, operation string, visit func(results json.RawMessage) error) error {
	ref := startRef
	for ref != "" {
		var raw json.RawMessage
		if err := c.getJSON(ctx, ref, &raw, operation); err != nil {
			return err
		}

		if isJSONArray(raw) {
			return visit(raw)
		}

		var page pageEnvelope
		if err := json.Unmarshal(raw, &page); err != nil {
			return domain.WrapError(domain.ErrDecode, operation, fmt.Errorf("decode page: %w", err))
		}
		if len(page.Results) > 0 {
			if err := visit(page.Results); err != nil {
				return err
			}
		}
		if page.Next == nil || *page.Next == "" {
			return nil
		}
		ref = *page.Next
	}
	return nil
}

func isJSONArray(raw []byte) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
