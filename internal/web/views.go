package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/nao1215/deepresearch/internal/app"
	"github.com/nao1215/deepresearch/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"navViews": func() []model.View { return model.Views },
}).ParseFS(templateFS, "templates/*.html"))

// page is the data every view is rendered with.
type page struct {
	app.State
	Title       string
	Industries  []string
	Roadmap     []model.RoadmapPhase
	CheckoutURL string
}

// handleView follows the address bar: the Controller navigates to the view
// named by the path, and the resulting state is rendered. Unknown paths
// resolve to the landing view.
func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}
	view := model.ViewFromPath(r.URL.Path)
	h.render(w, http.StatusOK, h.ctrl.Navigate(view, false))
}

// render writes the page of state's view with the given status.
func (h *Handler) render(w http.ResponseWriter, status int, state app.State) {
	view := state.View
	data := page{
		State:       state,
		Title:       view.Title(),
		Industries:  model.Industries,
		Roadmap:     model.Roadmap,
		CheckoutURL: model.CheckoutURL,
	}

	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.Error("failed to render view", "view", view, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
