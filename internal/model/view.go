package model

import "strings"

// View is one of the pages of the dashboard.
type View string

// Views and their address-bar paths.
const (
	ViewLanding   View = "landing"
	ViewDashboard View = "dashboard"
	ViewRoadmap   View = "roadmap"
	ViewAbout     View = "about"
)

// Views lists every view in navigation order.
var Views = []View{ViewLanding, ViewDashboard, ViewRoadmap, ViewAbout}

// Path returns the address-bar path of the view.
func (v View) Path() string {
	if v == ViewLanding || v == "" {
		return "/"
	}
	return "/" + string(v)
}

// Title returns the navigation label of the view.
func (v View) Title() string {
	switch v {
	case ViewDashboard:
		return "Dashboard"
	case ViewRoadmap:
		return "Roadmap"
	case ViewAbout:
		return "About"
	default:
		return "DeepResearch"
	}
}

// ViewFromPath maps an address-bar path to a view.
// Unknown paths resolve to the landing view.
func ViewFromPath(path string) View {
	path = strings.TrimSuffix(path, "/")
	switch path {
	case "/dashboard":
		return ViewDashboard
	case "/roadmap":
		return ViewRoadmap
	case "/about":
		return ViewAbout
	default:
		return ViewLanding
	}
}

// CheckoutURL is the external payment page for a lifetime license.
const CheckoutURL = "https://deepresearch.lemonsqueezy.com/buy/8e6c4333-e578-4f81-9f2d-74d3d237937e?embed=0&test_mode=1"
