// Package web serves the DeepResearch dashboard and its JSON API.
//
// The Handler maps the address-bar routes (/, /dashboard, /roadmap, /about)
// to server-rendered views and exposes every Controller action under /api.
// NewHTTPServer mounts the Handler on a kratos HTTP server with recovery
// and logging middleware, and NewApp runs it under the kratos lifecycle.
package web
