package paperless

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kirillkom/paperless-archiver/internal/core/domain"
)

type taxonomyRow struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Owner *int   `json:"owner"`
}

// taxonomyCache is a lazily populated name to id map for one taxonomy
// kind. Entries only accumulate; an id is cached only after the remote
// service confirmed it exists. The mutex serializes population and
// creation within the kind; kinds never contend with each other.
type taxonomyCache struct {
	kind string
	path string

	mu        sync.Mutex
	entries   map[string]int
	populated bool
}

func newTaxonomyCache(kind, path string) *taxonomyCache {
	return &taxonomyCache{
		kind:    kind,
		path:    path,
		entries: make(map[string]int),
	}
}

func (tc *taxonomyCache) invalidate() {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.entries = make(map[string]int)
	tc.populated = false
}

func (c *Client) ResolveCorrespondent(ctx context.Context, name string) (int, error) {
	return c.resolveOrCreate(ctx, c.correspondents, name, nil)
}

func (c *Client) ResolveDocumentType(ctx context.Context, name string) (int, error) {
	return c.resolveOrCreate(ctx, c.documentTypes, name, nil)
}

func (c *Client) ResolveCustomField(ctx context.Context, name, dataType string) (int, error) {
	return c.resolveOrCreate(ctx, c.customFields, name, map[string]any{"data_type": dataType})
}

// ResolveTags resolves each non-empty name in input order, creating tags
// as needed. Individual failures are logged and skipped so one bad tag
// never sinks the archive call.
func (c *Client) ResolveTags(ctx context.Context, names []string) ([]int, error) {
	ids := make([]int, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		id, err := c.resolveOrCreate(ctx, c.tags, name, nil)
		if err != nil {
			if ctx.Err() != nil {
				return ids, ctx.Err()
			}
			c.logger.Warn("taxonomy_resolution_failed", "kind", c.tags.kind, "name", name, "error", err)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *Client) resolveOrCreate(ctx context.Context, cache *taxonomyCache, name string, extra map[string]any) (int, error) {
	operation := cache.kind + ".resolve"
	if strings.TrimSpace(name) == "" {
		return 0, domain.WrapError(domain.ErrInvalid, operation, errors.New("name is empty"))
	}

	cache.mu.Lock()
	defer cache.mu.Unlock()

	if id, ok := cache.entries[name]; ok {
		return id, nil
	}

	if !cache.populated {
		if err := c.populateLocked(ctx, cache); err != nil {
			return 0, err
		}
		if id, ok := cache.entries[name]; ok {
			return id, nil
		}
	}

	id, err := c.createEntry(ctx, cache, name, extra)
	if err == nil {
		cache.entries[name] = id
		return id, nil
	}
	if !domain.IsKind(err, domain.ErrConflict) {
		return 0, err
	}

	// A concurrent caller created the same name first. The 409 is the
	// expected signal to re-fetch and adopt their entry.
	if err := c.populateLocked(ctx, cache); err != nil {
		return 0, err
	}
	if id, ok := cache.entries[name]; ok {
		return id, nil
	}
	return 0, domain.NewError(domain.ErrNotFound, operation, "name absent after conflict re-fetch")
}

// populateLocked fetches the complete collection and merges it into the
// cache. Caller holds cache.mu. The populated flag flips only after a
// full successful walk so a failed fetch is retried on the next call.
func (c *Client) populateLocked(ctx context.Context, cache *taxonomyCache) error {
	operation := cache.kind + ".fetch"
	err := c.fetchAllPages(ctx, cache.path, operation, func(results json.RawMessage) error {
		var rows []taxonomyRow
		if err := json.Unmarshal(results, &rows); err != nil {
			return domain.WrapError(domain.ErrDecode, operation, err)
		}
		for _, row := range rows {
			cache.entries[row.Name] = row.ID
			if row.Owner != nil {
				c.shareEntry(ctx, cache, row)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.populated = true
	return nil
}

// shareEntry clears the private owner of a taxonomy entry so every
// account can keep using it. Best effort: a failed PATCH is logged and
// the entry stays cached, it merely remains privately owned for now.
func (c *Client) shareEntry(ctx context.Context, cache *taxonomyCache, row taxonomyRow) {
	ref := fmt.Sprintf("%s%d/", cache.path, row.ID)
	if err := c.patchJSON(ctx, ref, map[string]any{"owner": nil}, cache.kind+".share"); err != nil {
		c.logger.Warn("taxonomy_share_failed", "kind", cache.kind, "name", row.Name, "id", row.ID, "error", err)
	}
}

func (c *Client) createEntry(ctx context.Context, cache *taxonomyCache, name string, extra map[string]any) (int, error) {
	operation := cache.kind + ".create"
	payload := map[string]any{"name": name, "owner": nil}
	for k, v := range extra {
		payload[k] = v
	}

	var created struct {
		ID int `json:"id"`
	}
	if err := c.postJSON(ctx, cache.path, payload, &created, operation); err != nil {
		return 0, err
	}
	if c.onCreate != nil {
		c.onCreate(cache.kind)
	}
	return created.ID, nil
}
