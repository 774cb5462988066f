package intel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/nao1215/deepresearch/internal/model"
)

// Default models per operation.
const (
	DefaultScanModel     = "gemini-3-pro-preview"
	DefaultNewsModel     = "gemini-3-flash-preview"
	DefaultRebuttalModel = "gemini-3-pro-preview"
)

// Operation names used in logs and EngineError.Op.
const (
	opDeepScan  = "deep scan"
	opLiveNews  = "live news"
	opRebuttals = "tactical rebuttals"
)

// Client calls the Gemini API with Google Search grounding and turns the
// structured responses into model types. It never retries, caches or
// rate-limits; a Client is safe for concurrent use.
type Client struct {
	models   *genai.Models
	scan     string
	news     string
	rebuttal string
	logger   *slog.Logger
	now      func() time.Time
}

type options struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	scan       string
	news       string
	rebuttal   string
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Client.
type Option func(*options)

// WithBaseURL points the client at another endpoint, e.g. a proxy or a test server.
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.baseURL = url
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithModels overrides the models. Empty names keep the defaults.
func WithModels(scan, news, rebuttal string) Option {
	return func(o *options) {
		if scan != "" {
			o.scan = scan
		}
		if news != "" {
			o.news = news
		}
		if rebuttal != "" {
			o.rebuttal = rebuttal
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithNow sets the clock used to timestamp results.
func WithNow(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New creates a Client for the Gemini API backend.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	o := &options{
		scan:     DefaultScanModel,
		news:     DefaultNewsModel,
		rebuttal: DefaultRebuttalModel,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: o.httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: o.baseURL,
		},
	}
	if o.timeout > 0 {
		timeout := o.timeout
		cc.HTTPOptions.Timeout = &timeout
	}

	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		models:   gc.Models,
		scan:     o.scan,
		news:     o.news,
		rebuttal: o.rebuttal,
		logger:   o.logger,
		now:      o.now,
	}, nil
}

// request is one structured, search-grounded generation.
type request struct {
	op       string
	model    string
	prompt   string
	system   string
	schema   *genai.Schema
	fallback string // document used when the model returns no text
}

// generate runs req and decodes the checked response into out.
func (c *Client) generate(ctx context.Context, req request, out any) ([]model.Source, error) {
	cfg := &genai.GenerateContentConfig{
		Tools:            []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.schema,
	}
	if req.system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.system, genai.RoleUser)
	}

	c.logger.Debug("requesting model", "op", req.op, "model", req.model)
	started := c.now()

	resp, err := c.models.GenerateContent(ctx, req.model,
		[]*genai.Content{genai.NewContentFromText(req.prompt, genai.RoleUser)}, cfg)
	if err != nil {
		c.logger.Warn("model request failed", "op", req.op, "error", err)
		return nil, engineError(req.op, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		text = req.fallback
	}
	if err := decodeChecked(text, req.schema, out); err != nil {
		c.logger.Warn("model response rejected", "op", req.op, "error", err)
		return nil, engineError(req.op, err)
	}

	sources := groundingSources(resp)
	c.logger.Debug("model response accepted",
		"op", req.op,
		"sources", len(sources),
		"elapsed", c.now().Sub(started),
	)
	return sources, nil
}

// groundingSources returns the web chunks of the first candidate.
// The result is never nil.
func groundingSources(resp *genai.GenerateContentResponse) []model.Source {
	sources := []model.Source{}
	if resp == nil || len(resp.Candidates) == 0 {
		return sources
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return sources
	}
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		sources = append(sources, model.Source{URI: chunk.Web.URI, Title: chunk.Web.Title})
	}
	return sources
}

type deepScanPayload struct {
	Battlecard *model.Battlecard `json:"battlecard"`
	KillScript *model.KillScript `json:"killScript"`
}

// DeepScan produces a battlecard and kill script for target.
// Both URLs must be present.
func (c *Client) DeepScan(ctx context.Context, target model.Target) (*model.ResearchResult, error) {
	if !target.Complete() {
		return nil, ErrMissingInput
	}

	var payload deepScanPayload
	sources, err := c.generate(ctx, request{
		op:       opDeepScan,
		model:    c.scan,
		prompt:   deepScanPrompt(target.TargetURL, target.HomeURL, target.Industry),
		system:   systemInstruction,
		schema:   deepScanSchema,
		fallback: "{}",
	}, &payload)
	if err != nil {
		return nil, err
	}

	return model.NewResearchResult(target, payload.Battlecard, payload.KillScript, sources, c.now()), nil
}

type liveNewsPayload struct {
	News []model.NewsItem `json:"news"`
}

// LiveNews finds recent news about the company at targetURL.
func (c *Client) LiveNews(ctx context.Context, targetURL string) (*model.NewsReport, error) {
	targetURL = strings.TrimSpace(targetURL)
	if targetURL == "" {
		return nil, ErrMissingInput
	}

	var payload liveNewsPayload
	sources, err := c.generate(ctx, request{
		op:       opLiveNews,
		model:    c.news,
		prompt:   liveNewsPrompt(targetURL),
		schema:   liveNewsSchema,
		fallback: `{"news":[]}`,
	}, &payload)
	if err != nil {
		return nil, err
	}

	if payload.News == nil {
		payload.News = []model.NewsItem{}
	}
	return &model.NewsReport{TargetURL: targetURL, Items: payload.News, Sources: sources}, nil
}

type rebuttalsPayload struct {
	Rebuttals []model.TacticalRebuttal `json:"rebuttals"`
}

// TacticalRebuttals generates objection handlers against target.
func (c *Client) TacticalRebuttals(ctx context.Context, target model.Target) (*model.RebuttalReport, error) {
	if !target.Complete() {
		return nil, ErrMissingInput
	}

	var payload rebuttalsPayload
	sources, err := c.generate(ctx, request{
		op:       opRebuttals,
		model:    c.rebuttal,
		prompt:   rebuttalsPrompt(target.TargetURL, target.HomeURL, target.Industry),
		schema:   rebuttalsSchema,
		fallback: `{"rebuttals":[]}`,
	}, &payload)
	if err != nil {
		return nil, err
	}

	if payload.Rebuttals == nil {
		payload.Rebuttals = []model.TacticalRebuttal{}
	}
	return &model.RebuttalReport{Target: target, Rebuttals: payload.Rebuttals, Sources: sources}, nil
}
