package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"time"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/deepresearch/internal/model"
)

// Resolver defaults.
const (
	DefaultTimeout     = 15 * time.Second
	DefaultConcurrency = 4
	DefaultMaxBodySize = 2 * 1024 * 1024
	DefaultUserAgent   = "DeepResearchBot/1.0 (+https://github.com/nao1215/deepresearch)"
	maxRedirects       = 10
)

var (
	// ErrDisallowed is returned when robots.txt forbids fetching a URL.
	ErrDisallowed = errors.New("disallowed by robots.txt")

	// ErrUnsupportedScheme is returned for source links that are not http or https.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
)

// Resolver follows grounding links to the page they point at and reads the
// page title. Grounding links are usually redirect URLs, so the final URL is
// what the user wants to see.
type Resolver struct {
	client      *http.Client
	userAgent   string
	timeout     time.Duration
	maxBodySize int64
	concurrency int
	useRobots   bool
	robots      *robotsCache
	logger      *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithUserAgent sets the User-Agent header and the robots.txt agent name.
func WithUserAgent(ua string) ResolverOption {
	return func(r *Resolver) {
		if ua != "" {
			r.userAgent = ua
		}
	}
}

// WithTimeout bounds the fetch of a single source.
func WithTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithMaxBodySize limits how much of each page is read.
func WithMaxBodySize(size int64) ResolverOption {
	return func(r *Resolver) {
		if size > 0 {
			r.maxBodySize = size
		}
	}
}

// WithConcurrency sets how many sources are fetched at once.
func WithConcurrency(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithIgnoreRobots disables robots.txt checks.
func WithIgnoreRobots() ResolverOption {
	return func(r *Resolver) {
		r.useRobots = false
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver. A nil client means a client whose timeout
// is the per-source timeout.
func NewResolver(client *http.Client, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		userAgent:   DefaultUserAgent,
		timeout:     DefaultTimeout,
		maxBodySize: DefaultMaxBodySize,
		concurrency: DefaultConcurrency,
		useRobots:   true,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if client == nil {
		client = &http.Client{Timeout: r.timeout}
	}
	r.client = client
	if r.useRobots {
		r.robots = newRobotsCache(client, r.userAgent)
	}
	return r
}

// Resolve returns a copy of sources with ResolvedURL set and missing titles
// filled in. A source that cannot be fetched is returned unchanged; only
// cancellation of ctx is reported as an error.
func (r *Resolver) Resolve(ctx context.Context, sources []model.Source) ([]model.Source, error) {
	out := make([]model.Source, len(sources))
	copy(out, sources)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i := range out {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resolved, err := r.ResolveOne(gctx, out[i])
			if err != nil {
				r.logger.Debug("source not resolved", "uri", out[i].URI, "error", err)
				return nil
			}
			out[i] = resolved
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ResolveOne fetches a single source.
func (r *Resolver) ResolveOne(ctx context.Context, src model.Source) (model.Source, error) {
	start, err := url.Parse(src.URI)
	if err != nil {
		return src, fmt.Errorf("invalid source URL: %w", err)
	}
	if start.Scheme != "http" && start.Scheme != "https" {
		return src, ErrUnsupportedScheme
	}

	// robots.txt counts against the per-source timeout.
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if r.robots != nil && !r.robots.Allowed(ctx, start) {
		return src, ErrDisallowed
	}
	if err := ctx.Err(); err != nil {
		return src, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, start.String(), nil)
	if err != nil {
		return src, err
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := r.redirectClient().Do(req)
	if err != nil {
		return src, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return src, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	final := resp.Request.URL
	src.ResolvedURL = final.String()
	if src.Title != "" || !isHTML(resp.Header.Get("Content-Type")) {
		return src, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBodySize))
	if err != nil {
		return src, fmt.Errorf("failed to read body: %w", err)
	}
	src.Title = r.pageTitle(body, final)
	return src, nil
}

// redirectClient returns a client that checks robots.txt on every hop.
func (r *Resolver) redirectClient() *http.Client {
	c := *r.client
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		if r.robots != nil && !r.robots.Allowed(req.Context(), req.URL) {
			return ErrDisallowed
		}
		return nil
	}
	return &c
}

// pageTitle reads the title from the markup, then from a readability extraction.
func (r *Resolver) pageTitle(body []byte, pageURL *url.URL) string {
	parser, err := NewParser(pageURL.String())
	if err == nil {
		if info, err := parser.Parse(bytes.NewReader(body)); err == nil {
			if title := info.BestTitle(); title != "" {
				return title
			}
		}
	}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		r.logger.Debug("readability extraction failed", "url", pageURL.String(), "error", err)
		return ""
	}
	return collapseSpace(article.Title)
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
