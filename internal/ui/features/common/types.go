// Package common provides shared types and utilities for UI features.
package common

import (
	"net/http"

	"github.com/a-h/templ"
)

// Panel renders one workbench component for a request. Every panel's root
// element carries a stable id so SSE patches can morph it in place.
type Panel func(r *http.Request) (templ.Component, error)

// PageData holds what the page shell needs.
type PageData struct {
	Title string
	IsDev bool
	// Body is the rendered workbench.
	Body templ.Component
}

// ToastLevel selects the toast styling.
type ToastLevel string

// Toast levels.
const (
	ToastError ToastLevel = "error"
	ToastInfo  ToastLevel = "info"
)

// Toast is a transient message shown above the workbench.
type Toast struct {
	Level   ToastLevel
	Message string
}

// PanelID returns the DOM id of a component's panel.
func PanelID(component string) string {
	return "panel-" + component
}
