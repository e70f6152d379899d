// Package render turns vdom trees into HTML.
//
// It is used twice by toastd: the server renders the dashboard page with
// the current overlay already in place, and every WebSocket frame that
// mounts or updates a notification carries that notification's HTML.
//
//   - Text and attribute values are escaped
//   - Void elements have no closing tag
//   - Boolean attributes render as bare names
//   - Attribute order is sorted so output is deterministic
//
// # Basic Usage
//
//	renderer := render.NewRenderer()
//	html, err := renderer.RenderToString(node)
//
// # Full Page Rendering
//
//	page := render.PageData{
//	    Title:   "Dashboard",
//	    Body:    bodyNode,
//	    Scripts: []render.ScriptTag{{Src: "/toast.js", Defer: true}},
//	}
//	err := renderer.RenderPage(w, page)
//
// RenderPage builds the document itself from vdom nodes. Page styles are
// inlined as raw nodes, so they must be trusted.
package render
