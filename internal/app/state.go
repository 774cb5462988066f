package app

import (
	"slices"

	"github.com/nao1215/deepresearch/internal/model"
)

// ScanForm holds the inputs of the scan form.
type ScanForm struct {
	TargetURL string `json:"targetUrl"`
	HomeURL   string `json:"homeUrl"`
	Industry  string `json:"industry"`
}

// Target returns the form as a scan target.
func (f ScanForm) Target() model.Target {
	return model.NewTarget(f.TargetURL, f.HomeURL, f.Industry)
}

// State is an immutable snapshot of the application state handed to views.
type State struct {
	Session model.SessionState `json:"session"`
	User    model.User         `json:"user"`
	View    model.View         `json:"view"`
	Status  model.ScanStatus   `json:"status"`

	// Error is the inline message of the last failed action.
	Error string `json:"error,omitempty"`

	Form ScanForm `json:"form"`

	// Active is the battlecard on screen, if any.
	Active *model.ResearchResult `json:"activeResult,omitempty"`

	// History is the scan history, most recent first.
	History []*model.ResearchResult `json:"history"`

	HasPhoto bool `json:"hasPhoto"`
}

// Subscribed reports whether paid actions are available.
func (s State) Subscribed() bool {
	return s.Session == model.SessionAuthenticated && s.User.IsSubscribed
}

// Scanning reports whether a scan is running.
func (s State) Scanning() bool {
	return s.Status == model.ScanScanning
}

func (s State) clone() State {
	s.History = slices.Clone(s.History)
	return s
}
