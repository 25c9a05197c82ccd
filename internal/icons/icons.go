// Package icons maps application icon names to Lucide icon names and renders
// the placeholder markup the Lucide script replaces in the browser.
package icons

import (
	"fmt"
	"html/template"
	"strings"
)

const DefaultSize = 20

var names = map[string]string{
	// navigation
	"package":   "package",
	"box":       "box",
	"boxes":     "boxes",
	"home":      "home",
	"dashboard": "layout-dashboard",
	"search":    "search",
	"menu":      "menu",
	"x":         "x",

	// job types
	"swap-upgrade": "refresh-cw",
	"install":      "plus-circle",
	"deinstall":    "minus-circle",

	// actions
	"add":      "plus",
	"edit":     "edit",
	"delete":   "trash-2",
	"save":     "save",
	"copy":     "copy",
	"download": "download",
	"upload":   "upload",
	"check":    "check",
	"close":    "x",

	// status
	"success": "check-circle",
	"error":   "x-circle",
	"warning": "alert-triangle",
	"info":    "info",
	"alert":   "alert-circle",

	// shifts
	"shift":       "clock",
	"car":         "car",
	"start-shift": "play-circle",
	"end-shift":   "square",
	"report":      "file-text",

	// user
	"user":     "user",
	"users":    "users",
	"logout":   "log-out",
	"login":    "log-in",
	"settings": "settings",

	// data
	"chart":     "bar-chart-2",
	"calendar":  "calendar",
	"clipboard": "clipboard",
	"file":      "file",

	"help":          "help-circle",
	"external-link": "external-link",
	"chevron-down":  "chevron-down",
	"chevron-up":    "chevron-up",
	"chevron-right": "chevron-right",
	"chevron-left":  "chevron-left",
}

// Lookup returns the Lucide name for name. Unknown names pass through unchanged.
func Lookup(name string) string {
	if mapped, ok := names[name]; ok {
		return mapped
	}
	return name
}

type Options struct {
	Size  int
	Class string
	Style string
}

// HTML renders an <i data-lucide> placeholder for name.
func HTML(name string, opts Options) template.HTML {
	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<i data-lucide="%s"`, template.HTMLEscapeString(Lookup(name)))
	if opts.Class != "" {
		fmt.Fprintf(&b, ` class="%s"`, template.HTMLEscapeString(opts.Class))
	}
	if opts.Style != "" {
		fmt.Fprintf(&b, ` style="%s"`, template.HTMLEscapeString(opts.Style))
	}
	fmt.Fprintf(&b, ` width="%d" height="%d"></i>`, size, size)
	return template.HTML(b.String())
}

// Icon is the template helper form of HTML: {{icon "boxes"}} or {{icon "boxes" 16}}.
func Icon(name string, size ...int) template.HTML {
	opts := Options{}
	if len(size) > 0 {
		opts.Size = size[0]
	}
	return HTML(name, opts)
}

// Alert returns the glyph shown beside an alert of the given type.
func Alert(kind string) string {
	switch kind {
	case "success":
		return "✓"
	case "error":
		return "✕"
	case "warning":
		return "⚠"
	default:
		return "ℹ"
	}
}
