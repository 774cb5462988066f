package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/nao1215/deepresearch/internal/history"
	"github.com/nao1215/deepresearch/internal/license"
	"github.com/nao1215/deepresearch/internal/model"
	"github.com/nao1215/deepresearch/internal/photo"
	"github.com/nao1215/deepresearch/internal/pipeline"
)

// Engine is the intelligence engine. *intel.Client implements it.
type Engine interface {
	DeepScan(ctx context.Context, target model.Target) (*model.ResearchResult, error)
	LiveNews(ctx context.Context, targetURL string) (*model.NewsReport, error)
	TacticalRebuttals(ctx context.Context, target model.Target) (*model.RebuttalReport, error)
}

// Store persists the license key and the founder photo.
// *database.Store implements it.
type Store interface {
	LicenseKey(ctx context.Context) (string, bool, error)
	SetLicenseKey(ctx context.Context, key string) error
	ClearLicenseKey(ctx context.Context) error
	FounderPhoto(ctx context.Context) (string, bool, error)
	SetFounderPhoto(ctx context.Context, dataURI string) error
}

// Controller is the single owner of the application state.
// All methods are safe for concurrent use; at most one scan runs at a time.
type Controller struct {
	engine  Engine
	checker license.Checker
	store   Store
	history *history.Recorder

	enrich  *pipeline.Pipeline
	auditor *photo.Auditor
	logger  *slog.Logger

	batchSize int

	mu       sync.Mutex
	session  model.SessionState
	user     model.User
	view     model.View
	status   model.ScanStatus
	errMsg   string
	form     ScanForm
	active   *model.ResearchResult
	scanning bool
	hasPhoto bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithEnrichment runs p on every successful scan before it is recorded.
func WithEnrichment(p *pipeline.Pipeline) Option {
	return func(c *Controller) {
		c.enrich = p
	}
}

// WithAuditor sets the founder photo auditor.
func WithAuditor(a *photo.Auditor) Option {
	return func(c *Controller) {
		if a != nil {
			c.auditor = a
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithBatchSize sets how many scans of a batch run concurrently.
func WithBatchSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// NewController creates a Controller in the unchecked session state.
// Call Bootstrap before any other action.
func NewController(engine Engine, checker license.Checker, store Store, hist *history.Recorder, opts ...Option) *Controller {
	c := &Controller{
		engine:    engine,
		checker:   checker,
		store:     store,
		history:   hist,
		auditor:   photo.NewAuditor(),
		logger:    slog.Default(),
		batchSize: 1,
		session:   model.SessionUnchecked,
		user:      model.GuestUser(),
		view:      model.ViewLanding,
		status:    model.ScanIdle,
		form:      ScanForm{Industry: model.DefaultIndustry},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// snapshot must be called with c.mu held.
func (c *Controller) snapshot() State {
	return State{
		Session:  c.session,
		User:     c.user,
		View:     c.view,
		Status:   c.status,
		Error:    c.errMsg,
		Form:     c.form,
		Active:   c.active,
		History:  c.history.List(),
		HasPhoto: c.hasPhoto,
	}.clone()
}

// Bootstrap reads the persisted license key and resolves the initial view
// from path. A member landing on "/" is sent to the dashboard.
// A stored key the authority refuses is removed.
func (c *Controller) Bootstrap(ctx context.Context, path string) (State, error) {
	c.mu.Lock()
	if c.session != model.SessionUnchecked {
		c.navigate(model.ViewFromPath(path), false)
		defer c.mu.Unlock()
		return c.snapshot(), nil
	}
	c.session = model.SessionChecking
	c.mu.Unlock()

	user, session := c.restoreSession(ctx)

	hasPhoto := false
	if _, ok, err := c.store.FounderPhoto(ctx); err != nil {
		c.logger.Warn("failed to read founder photo", "error", err)
	} else {
		hasPhoto = ok
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
	c.user = user
	c.hasPhoto = hasPhoto

	view := model.ViewFromPath(path)
	if session == model.SessionAuthenticated && view == model.ViewLanding {
		view = model.ViewDashboard
	}
	c.navigate(view, false)

	c.logger.Debug("session bootstrapped", "session", session, "view", view)
	return c.snapshot(), nil
}

func (c *Controller) restoreSession(ctx context.Context) (model.User, model.SessionState) {
	key, ok, err := c.store.LicenseKey(ctx)
	if err != nil {
		c.logger.Warn("failed to read license key", "error", err)
		return model.GuestUser(), model.SessionGuest
	}
	if !ok || key == "" {
		return model.GuestUser(), model.SessionGuest
	}

	valid, err := c.checker.Verify(ctx, key)
	switch {
	case err != nil:
		c.logger.Warn("license verification unavailable, continuing as guest", "error", err)
		return model.GuestUser(), model.SessionGuest
	case !valid:
		c.logger.Info("stored license key was refused, removing it")
		if err := c.store.ClearLicenseKey(ctx); err != nil {
			c.logger.Warn("failed to remove license key", "error", err)
		}
		return model.GuestUser(), model.SessionGuest
	}
	return model.MemberUser(key), model.SessionAuthenticated
}

// Redeem verifies key, stores it and opens a fresh dashboard. A blank key is
// ignored: nothing is verified and the state is left as is.
func (c *Controller) Redeem(ctx context.Context, key string) (State, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return c.State(), ErrMissingKey
	}

	valid, err := c.checker.Verify(ctx, key)
	if err != nil {
		c.logger.Warn("license verification failed", "error", err)
	}
	if err != nil || !valid {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.errMsg = ErrRedeemFailed.Error()
		return c.snapshot(), ErrRedeemFailed
	}

	if err := c.store.SetLicenseKey(ctx, key); err != nil {
		return c.State(), fmt.Errorf("failed to save license key: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = model.SessionAuthenticated
	c.user = model.MemberUser(key)
	c.navigate(model.ViewDashboard, true)
	c.logger.Info("license redeemed")
	return c.snapshot(), nil
}

// SignOut removes the stored key and returns to the landing view as a guest.
func (c *Controller) SignOut(ctx context.Context) (State, error) {
	if err := c.store.ClearLicenseKey(ctx); err != nil {
		return c.State(), fmt.Errorf("failed to remove license key: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = model.SessionGuest
	c.user = model.GuestUser()
	c.navigate(model.ViewLanding, true)
	return c.snapshot(), nil
}

// Navigate switches the active view. The inline error is cleared; with reset,
// or when going to the landing view, the active result and the form are
// cleared and the scan status returns to idle.
func (c *Controller) Navigate(view model.View, reset bool) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.navigate(view, reset)
	return c.snapshot()
}

// navigate must be called with c.mu held.
func (c *Controller) navigate(view model.View, reset bool) {
	c.view = view
	c.errMsg = ""
	if reset || view == model.ViewLanding {
		c.active = nil
		c.form = ScanForm{Industry: model.DefaultIndustry}
		if !c.scanning {
			c.status = model.ScanIdle
		}
	}
}

// Open makes a history entry the active result.
func (c *Controller) Open(id string) (State, error) {
	result, ok := c.history.Find(id)
	if !ok {
		return c.State(), ErrNotFound
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = model.ViewDashboard
	c.errMsg = ""
	c.active = result
	c.form = ScanForm{TargetURL: result.TargetURL, HomeURL: result.HomeURL, Industry: result.Industry}
	if !c.scanning {
		c.status = model.ScanSuccess
	}
	return c.snapshot(), nil
}

func normalizeForm(target model.Target) ScanForm {
	industry := model.NormalizeIndustry(target.Industry)
	if industry == "" {
		industry = model.DefaultIndustry
	}
	return ScanForm{
		TargetURL: strings.TrimSpace(target.TargetURL),
		HomeURL:   strings.TrimSpace(target.HomeURL),
		Industry:  industry,
	}
}

// beginScan validates the session and takes the scan flag.
// It must be called with c.mu held.
func (c *Controller) beginScan() error {
	if c.session != model.SessionAuthenticated || !c.user.IsSubscribed {
		return ErrNotSubscribed
	}
	if c.scanning {
		return ErrScanInProgress
	}
	c.scanning = true
	c.status = model.ScanScanning
	c.errMsg = ""
	return nil
}

// Scan runs a deep scan of target. Empty inputs fail before any network call.
// On engine failure the previous result stays on screen and nothing is
// recorded; on success the result is enriched, recorded and shown.
func (c *Controller) Scan(ctx context.Context, target model.Target) (State, error) {
	form := normalizeForm(target)

	c.mu.Lock()
	c.form = form
	if form.TargetURL == "" || form.HomeURL == "" {
		c.errMsg = ErrMissingInputs.Error()
		defer c.mu.Unlock()
		return c.snapshot(), ErrMissingInputs
	}
	if err := c.beginScan(); err != nil {
		defer c.mu.Unlock()
		return c.snapshot(), err
	}
	c.mu.Unlock()

	result, err := c.scanOne(ctx, form.Target())

	c.mu.Lock()
	defer c.mu.Unlock()
	c.scanning = false
	if err != nil {
		c.status = model.ScanError
		c.errMsg = ErrEngineFailure.Error()
		return c.snapshot(), err
	}
	c.status = model.ScanSuccess
	c.active = result
	return c.snapshot(), nil
}

// scanOne calls the engine, enriches and records the result.
// Engine errors are logged and replaced by ErrEngineFailure.
func (c *Controller) scanOne(ctx context.Context, target model.Target) (*model.ResearchResult, error) {
	c.logger.Info("deep scan started", "target", target.TargetURL, "industry", target.Industry)

	result, err := c.engine.DeepScan(ctx, target)
	if err != nil {
		c.logger.Error("deep scan failed", "target", target.TargetURL, "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, ErrEngineFailure
	}

	if c.enrich != nil && c.enrich.StepCount() > 0 {
		run, err := c.enrich.Execute(ctx, result)
		if err != nil {
			c.logger.Warn("enrichment stopped", "target", target.TargetURL, "error", err)
		} else if run.Failed() {
			for _, f := range run.Failures {
				c.logger.Warn("enrichment step failed", "step", f.Step, "error", f.Err)
			}
		}
	}

	if err := c.history.Add(ctx, result); err != nil {
		c.logger.Error("failed to record scan", "target", target.TargetURL, "error", err)
	}
	c.logger.Info("deep scan completed", "target", target.TargetURL, "company", result.CompanyName())
	return result, nil
}

// ScanBatch scans every target with the configured concurrency and calls
// onResult as each scan finishes. Targets with missing inputs fail with
// ErrMissingInputs without a network call. The last successful result
// becomes the active one.
func (c *Controller) ScanBatch(ctx context.Context, targets []model.Target, onResult func(pipeline.BatchResult, int)) (State, error) {
	c.mu.Lock()
	if err := c.beginScan(); err != nil {
		defer c.mu.Unlock()
		return c.snapshot(), err
	}
	c.mu.Unlock()

	var (
		resultMu sync.Mutex
		last     *model.ResearchResult
		failed   int
	)
	bp := pipeline.NewBatchProcessor(
		func(ctx context.Context, target model.Target) (*model.ResearchResult, error) {
			form := normalizeForm(target)
			if form.TargetURL == "" || form.HomeURL == "" {
				return nil, ErrMissingInputs
			}
			return c.scanOne(ctx, form.Target())
		},
		pipeline.WithConcurrency(c.batchSize),
		pipeline.WithBatchLogger(c.logger),
	)
	err := bp.ProcessBatchWithCallback(ctx, targets, func(r pipeline.BatchResult, index int) {
		resultMu.Lock()
		if r.Err != nil {
			failed++
		} else {
			last = r.Result
		}
		resultMu.Unlock()
		if onResult != nil {
			onResult(r, index)
		}
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.scanning = false
	if last != nil {
		c.active = last
		c.form = ScanForm{TargetURL: last.TargetURL, HomeURL: last.HomeURL, Industry: last.Industry}
	}
	switch {
	case err != nil:
		c.status = model.ScanError
		c.errMsg = ErrEngineFailure.Error()
		return c.snapshot(), err
	case last == nil && failed > 0:
		c.status = model.ScanError
		c.errMsg = ErrEngineFailure.Error()
		return c.snapshot(), ErrEngineFailure
	case last == nil:
		c.status = model.ScanIdle
	default:
		c.status = model.ScanSuccess
	}
	return c.snapshot(), nil
}

// FetchNews looks up recent news about targetURL. It does not touch the
// history or the active result.
func (c *Controller) FetchNews(ctx context.Context, targetURL string) (*model.NewsReport, error) {
	targetURL = strings.TrimSpace(targetURL)
	if targetURL == "" {
		return nil, ErrMissingTarget
	}
	if err := c.requireSubscription(); err != nil {
		return nil, err
	}

	report, err := c.engine.LiveNews(ctx, targetURL)
	if err != nil {
		c.logger.Error("news lookup failed", "target", targetURL, "error", err)
		return nil, c.engineFailure(ctx)
	}
	return report, nil
}

// FetchRebuttals generates tactical rebuttals for target. It does not touch
// the history or the active result.
func (c *Controller) FetchRebuttals(ctx context.Context, target model.Target) (*model.RebuttalReport, error) {
	form := normalizeForm(target)
	if form.TargetURL == "" || form.HomeURL == "" {
		return nil, ErrMissingInputs
	}
	if err := c.requireSubscription(); err != nil {
		return nil, err
	}

	report, err := c.engine.TacticalRebuttals(ctx, form.Target())
	if err != nil {
		c.logger.Error("rebuttal lookup failed", "target", form.TargetURL, "error", err)
		return nil, c.engineFailure(ctx)
	}
	return report, nil
}

func (c *Controller) requireSubscription() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != model.SessionAuthenticated || !c.user.IsSubscribed {
		return ErrNotSubscribed
	}
	return nil
}

func (c *Controller) engineFailure(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrEngineFailure
}

// History returns the scan history, most recent first.
func (c *Controller) History() []*model.ResearchResult {
	return c.history.List()
}

// Lookup returns the history entry with the given id or target URL.
func (c *Controller) Lookup(idOrTarget string) (*model.ResearchResult, error) {
	if r, ok := c.history.Find(idOrTarget); ok {
		return r, nil
	}
	if r, ok := c.history.FindByTarget(idOrTarget); ok {
		return r, nil
	}
	return nil, ErrNotFound
}

// UploadPhoto audits and stores the founder photo. The audit is returned
// even when the photo is refused.
func (c *Controller) UploadPhoto(ctx context.Context, upload []byte) (*model.PhotoAudit, error) {
	dataURI, audit, err := c.auditor.Prepare(upload)
	if err != nil {
		return audit, err
	}
	if err := c.store.SetFounderPhoto(ctx, dataURI); err != nil {
		return audit, fmt.Errorf("failed to save founder photo: %w", err)
	}

	c.mu.Lock()
	c.hasPhoto = true
	c.mu.Unlock()
	c.logger.Info("founder photo updated", "type", audit.MIMEType, "bytes", audit.Size)
	return audit, nil
}

// FounderPhoto returns the stored founder photo as a data URI.
func (c *Controller) FounderPhoto(ctx context.Context) (string, error) {
	uri, ok, err := c.store.FounderPhoto(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read founder photo: %w", err)
	}
	if !ok || uri == "" {
		return "", ErrNoPhoto
	}
	return uri, nil
}

// IsUserError reports whether err carries a message meant for the user,
// as opposed to an internal failure.
func IsUserError(err error) bool {
	return errors.Is(err, ErrMissingInputs) ||
		errors.Is(err, ErrMissingTarget) ||
		errors.Is(err, ErrEngineFailure) ||
		errors.Is(err, ErrRedeemFailed) ||
		errors.Is(err, ErrNotSubscribed) ||
		errors.Is(err, ErrScanInProgress)
}
