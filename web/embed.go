// Package web embeds the dashboard UI: templates for the entry forms and
// HTMX partials, plus the stylesheet.
package web

import "embed"

// TemplatesFS holds the HTML templates for server-side rendering.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the static assets.
//
//go:embed static/*
var StaticFS embed.FS
