package web

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/deepresearch/internal/app"
	"github.com/nao1215/deepresearch/internal/config"
	"github.com/nao1215/deepresearch/internal/model"
	"github.com/nao1215/deepresearch/internal/photo"
	"github.com/nao1215/deepresearch/internal/report"
)

// maxRequestBody limits JSON and form request bodies.
const maxRequestBody = 64 * 1024

// Handler serves the views and the JSON API of one Controller.
type Handler struct {
	ctrl      *app.Controller
	mux       *http.ServeMux
	logger    *slog.Logger
	maxUpload int64
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMaxUpload limits the size of a founder photo upload. Data URIs are
// base64, so the request limit is a third larger than the photo limit.
func WithMaxUpload(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxUpload = n
		}
	}
}

// NewHandler creates a Handler for ctrl.
func NewHandler(ctrl *app.Controller, opts ...HandlerOption) *Handler {
	h := &Handler{
		ctrl:      ctrl,
		mux:       http.NewServeMux(),
		logger:    slog.Default(),
		maxUpload: config.DefaultMaxPhotoBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.routes()
	return h
}

func (h *Handler) routes() {
	// GET / also catches unknown paths, which render the landing view.
	for _, v := range model.Views {
		h.mux.HandleFunc("GET "+v.Path(), h.handleView)
	}
	h.mux.HandleFunc("GET /checkout", h.handleCheckout)

	h.mux.HandleFunc("GET /api/session", h.handleSession)
	h.mux.HandleFunc("POST /api/navigate", h.handleNavigate)
	h.mux.HandleFunc("POST /api/license", h.handleRedeem)
	h.mux.HandleFunc("DELETE /api/license", h.handleSignOut)
	h.mux.HandleFunc("POST /api/signout", h.handleSignOut)

	h.mux.HandleFunc("POST /api/scan", h.handleScan)
	h.mux.HandleFunc("POST /api/news", h.handleNews)
	h.mux.HandleFunc("POST /api/rebuttals", h.handleRebuttals)

	h.mux.HandleFunc("GET /api/history", h.handleHistory)
	h.mux.HandleFunc("GET /api/history/{id}", h.handleHistoryEntry)
	h.mux.HandleFunc("POST /api/history/{id}/open", h.handleOpen)
	h.mux.HandleFunc("GET /api/compare", h.handleCompare)

	h.mux.HandleFunc("GET /api/founder-photo", h.handleGetPhoto)
	h.mux.HandleFunc("PUT /api/founder-photo", h.handlePutPhoto)
	h.mux.HandleFunc("POST /api/founder-photo", h.handlePostPhoto)

	h.mux.HandleFunc("GET /api/industries", h.handleIndustries)
	h.mux.HandleFunc("GET /api/roadmap", h.handleRoadmap)
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// errorBody is the JSON body of every failed API call.
type errorBody struct {
	Error string            `json:"error"`
	State *app.State        `json:"state,omitempty"`
	Audit *model.PhotoAudit `json:"audit,omitempty"`
}

type navigateRequest struct {
	View  model.View `json:"view"`
	Reset bool       `json:"reset"`
}

type redeemRequest struct {
	Key string `json:"key"`
}

type newsRequest struct {
	TargetURL string `json:"targetUrl"`
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, model.CheckoutURL, http.StatusFound)
}

func (h *Handler) handleSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.State())
}

func (h *Handler) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if !h.decode(w, r, &req) {
		return
	}
	view := model.ViewFromPath(req.View.Path())
	writeJSON(w, http.StatusOK, h.ctrl.Navigate(view, req.Reset))
}

func (h *Handler) handleRedeem(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if !h.decode(w, r, &req) {
		return
	}
	state, err := h.ctrl.Redeem(r.Context(), req.Key)
	if isForm(r) {
		h.answerForm(w, r, state, err)
		return
	}
	if err != nil {
		h.writeError(w, err, withState(state))
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	state, err := h.ctrl.SignOut(r.Context())
	if isForm(r) {
		h.answerForm(w, r, state, err)
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	var form app.ScanForm
	if !h.decode(w, r, &form) {
		return
	}
	state, err := h.ctrl.Scan(r.Context(), form.Target())
	if isForm(r) {
		h.answerForm(w, r, state, err)
		return
	}
	if err != nil {
		h.writeError(w, err, withState(state))
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) handleNews(w http.ResponseWriter, r *http.Request) {
	var req newsRequest
	if !h.decode(w, r, &req) {
		return
	}
	news, err := h.ctrl.FetchNews(r.Context(), req.TargetURL)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, news)
}

func (h *Handler) handleRebuttals(w http.ResponseWriter, r *http.Request) {
	var form app.ScanForm
	if !h.decode(w, r, &form) {
		return
	}
	rebuttals, err := h.ctrl.FetchRebuttals(r.Context(), form.Target())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rebuttals)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if _, err := report.NewJSONWriter(&buf).WriteHistory(h.ctrl.History()); err != nil {
		h.writeError(w, err)
		return
	}
	writeTagged(w, r, "application/json", buf.Bytes())
}

func (h *Handler) handleHistoryEntry(w http.ResponseWriter, r *http.Request) {
	result, err := h.ctrl.Lookup(r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	contentType := "application/json"
	var writer report.Writer = report.NewJSONWriter(&buf)
	if r.URL.Query().Get("format") == "markdown" {
		contentType = "text/markdown; charset=utf-8"
		writer = report.NewMarkdownWriter(&buf)
	}
	if _, err := writer.WriteResult(result); err != nil {
		h.writeError(w, err)
		return
	}
	writeTagged(w, r, contentType, buf.Bytes())
}

func (h *Handler) handleOpen(w http.ResponseWriter, r *http.Request) {
	state, err := h.ctrl.Open(r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	left, err := h.ctrl.Lookup(q.Get("left"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	right, err := h.ctrl.Lookup(q.Get("right"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Compare(left, right))
}

func (h *Handler) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	uri, err := h.ctrl.FounderPhoto(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	data, err := photo.Decode([]byte(uri))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeTagged(w, r, http.DetectContentType(data), data)
}

func (h *Handler) handlePutPhoto(w http.ResponseWriter, r *http.Request) {
	limit := h.maxUpload + h.maxUpload/3 + 64
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, photo.ErrTooLarge)
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	audit, err := h.ctrl.UploadPhoto(r.Context(), body)
	if err != nil {
		h.writeError(w, err, withAudit(audit))
		return
	}
	writeJSON(w, http.StatusOK, audit)
}

// handlePostPhoto takes the multipart upload of the about page form.
func (h *Handler) handlePostPhoto(w http.ResponseWriter, r *http.Request) {
	state := h.ctrl.Navigate(model.ViewAbout, false)
	limit := h.maxUpload + 64*1024
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var body []byte
	err := r.ParseMultipartForm(limit)
	if err == nil {
		file, _, ferr := r.FormFile("photo")
		if ferr != nil {
			err = photo.ErrEmpty
		} else {
			body, err = io.ReadAll(file)
			_ = file.Close()
		}
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = photo.ErrTooLarge
		} else if !errors.Is(err, photo.ErrEmpty) {
			err = errInvalidBody
		}
		h.answerForm(w, r, state, err)
		return
	}

	_, err = h.ctrl.UploadPhoto(r.Context(), body)
	h.answerForm(w, r, state, err)
}

func (h *Handler) handleIndustries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.Industries)
}

func (h *Handler) handleRoadmap(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.Roadmap)
}

// errInvalidBody is reported for bodies that cannot be decoded.
var errInvalidBody = errors.New("invalid request body")

// isForm reports whether r was submitted by an HTML form.
func isForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

// decode reads a JSON or url-encoded request body into v and answers 400
// on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			h.answerForm(w, r, h.ctrl.State(), errInvalidBody)
			return false
		}
		fillForm(r, v)
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errInvalidBody.Error()})
		return false
	}
	return true
}

// fillForm copies the posted form fields into v.
func fillForm(r *http.Request, v any) {
	switch req := v.(type) {
	case *redeemRequest:
		req.Key = r.PostFormValue("key")
	case *newsRequest:
		req.TargetURL = r.PostFormValue("targetUrl")
	case *navigateRequest:
		req.View = model.ViewFromPath(r.PostFormValue("view"))
		req.Reset = r.PostFormValue("reset") == "true"
	case *app.ScanForm:
		req.TargetURL = r.PostFormValue("targetUrl")
		req.HomeURL = r.PostFormValue("homeUrl")
		req.Industry = r.PostFormValue("industry")
	}
}

// answerForm finishes an HTML form submission. A successful action
// redirects to the view it left the Controller on; a failed one renders that
// view with the inline message and the error status.
func (h *Handler) answerForm(w http.ResponseWriter, r *http.Request, state app.State, err error) {
	if err == nil {
		http.Redirect(w, r, state.View.Path(), http.StatusSeeOther)
		return
	}
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		h.logger.Error("form submission failed", "path", r.URL.Path, "error", err)
	}
	if state.Error == "" {
		state.Error = msg
	}
	h.render(w, status, state)
}

type errorOption func(*errorBody)

func withState(s app.State) errorOption {
	return func(b *errorBody) {
		b.State = &s
	}
}

func withAudit(a *model.PhotoAudit) errorOption {
	return func(b *errorBody) {
		b.Audit = a
	}
}

// writeError answers with the status and message for err. Internal errors
// are logged and reported without detail.
func (h *Handler) writeError(w http.ResponseWriter, err error, opts ...errorOption) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		h.logger.Error("request failed", "error", err)
	}
	body := errorBody{Error: msg}
	for _, opt := range opts {
		opt(&body)
	}
	writeJSON(w, status, body)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, app.ErrMissingInputs), errors.Is(err, app.ErrMissingTarget), errors.Is(err, app.ErrMissingKey),
		errors.Is(err, photo.ErrEmpty), errors.Is(err, photo.ErrInvalidDataURI):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, app.ErrRedeemFailed):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, app.ErrNotSubscribed):
		return http.StatusPaymentRequired, err.Error()
	case errors.Is(err, app.ErrNotFound), errors.Is(err, app.ErrNoPhoto):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, app.ErrScanInProgress):
		return http.StatusConflict, err.Error()
	case errors.Is(err, photo.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, photo.ErrNotImage):
		return http.StatusUnsupportedMediaType, err.Error()
	case errors.Is(err, photo.ErrLocationEmbedded):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, app.ErrEngineFailure):
		return http.StatusBadGateway, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "request cancelled"
	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

// etag returns a strong entity tag for body.
func etag(body []byte) string {
	sum := sha3.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// writeTagged writes body with an ETag and answers 304 when the client
// already has it.
func writeTagged(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	tag := etag(body)
	w.Header().Set("ETag", tag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == tag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
