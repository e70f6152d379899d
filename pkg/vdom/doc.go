// Package vdom provides the virtual node tree used to describe the toast
// overlay and the dashboard page on the server.
//
// # Core Types
//
// VNode represents elements, text, fragments and raw HTML. Props holds the
// attributes of an element and Attr is the unit used to build Props.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("toast"), Data("toast", handle),
//	    Strong(Text("Saved")),
//	    P(Text("Your changes have been saved.")),
//	)
//
// Arguments may be Attr, []Attr, *VNode, []*VNode, string (a text child) or
// nil, which is skipped so conditional children compose with If.
package vdom
