// Package app holds the application state of DeepResearch and the actions
// that change it.
//
// A Controller owns the session, the active view, the scan form and the
// active battlecard. Views never mutate it: they call an action method and
// render the State snapshot it returns. The CLI and the HTTP server drive
// the same Controller.
package app
