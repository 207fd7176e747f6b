// Package web carries the embedded dashboard assets so the binary is
// self-contained.
package web

import "embed"

// TemplatesFS holds the server-rendered dashboard templates.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and any other static files, rooted so
// /static/ URLs resolve directly.
//
//go:embed static/*
var StaticFS embed.FS
