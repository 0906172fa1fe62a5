package paperless

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kirillkom/paperless-archiver/internal/core/domain"
	"github.com/kirillkom/paperless-archiver/internal/infrastructure/resilience"
)

// Client talks to a Paperless-ngx style document-management API. One
// instance is constructed per process and is safe for concurrent use;
// taxonomy resolution serializes per kind, uploads do not serialize.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	executor   *resilience.Executor
	logger     *slog.Logger
	onCreate   func(kind string)

	correspondents *taxonomyCache
	documentTypes  *taxonomyCache
	tags           *taxonomyCache
	customFields   *taxonomyCache
}

type Options struct {
	HTTPClient        *http.Client
	Executor          *resilience.Executor
	Logger            *slog.Logger
	RequestsPerSecond float64
	Burst             int

	// OnTaxonomyCreate is called after a taxonomy entry is created
	// remotely, keyed by kind. Used for instrumentation.
	OnTaxonomyCreate func(kind string)
}

func New(baseURL, token string, opts Options) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, domain.WrapError(domain.ErrNotConfigured, "paperless client", errors.New("base url is empty"))
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.WrapError(domain.ErrNotConfigured, "paperless client", errors.New("api token is empty"))
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	executor := opts.Executor
	if executor == nil {
		executor = resilience.NewExecutor(resilience.DefaultConfig())
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 8
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 4
	}

	c := &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		executor:   executor,
		logger:     logger,
		onCreate:   opts.OnTaxonomyCreate,
	}
	c.correspondents = newTaxonomyCache("correspondent", "/api/correspondents/")
	c.documentTypes = newTaxonomyCache("document_type", "/api/document_types/")
	c.tags = newTaxonomyCache("tag", "/api/tags/")
	c.customFields = newTaxonomyCache("custom_field", "/api/custom_fields/")
	return c, nil
}

// InvalidateTaxonomy drops the cached entries for one taxonomy kind so
// the next resolution re-fetches the collection. Long-lived processes
// call this instead of relying on time-based expiry.
func (c *Client) InvalidateTaxonomy(kind string) {
	for _, cache := range []*taxonomyCache{c.correspondents, c.documentTypes, c.tags, c.customFields} {
		if cache.kind == kind {
			cache.invalidate()
		}
	}
}
