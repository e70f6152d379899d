package vdom

import "strings"

func attr(key string, value any) Attr { return Attr{Key: key, Value: value} }

// AttrIf returns a when cond holds and the zero Attr otherwise.
func AttrIf(cond bool, a Attr) Attr {
	if !cond {
		return Attr{}
	}
	return a
}

func ID(id string) Attr { return attr("id", id) }

// Class joins classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// StyleAttr sets the style attribute. Style is the element.
func StyleAttr(css string) Attr { return attr("style", css) }

// Data sets data-key, so Data("toast", h) renders data-toast="h".
func Data(key, value string) Attr { return attr("data-"+key, value) }

func Lang(lang string) Attr { return attr("lang", lang) }

// Accessibility

func Role(role string) Attr           { return attr("role", role) }
func AriaLabel(label string) Attr     { return attr("aria-label", label) }
func AriaHidden(hidden bool) Attr     { return attr("aria-hidden", hidden) }
func AriaLive(politeness string) Attr { return attr("aria-live", politeness) }

// Head and scripts

func Charset(charset string) Attr { return attr("charset", charset) }
func Name(name string) Attr       { return attr("name", name) }
func Content(content string) Attr { return attr("content", content) }
func Src(url string) Attr         { return attr("src", url) }
func Defer() Attr                 { return attr("defer", true) }

// Forms

func Type(t string) Attr           { return attr("type", t) }
func Value(value string) Attr      { return attr("value", value) }
func Placeholder(text string) Attr { return attr("placeholder", text) }
func Min(value string) Attr        { return attr("min", value) }
func Step(value string) Attr       { return attr("step", value) }
func Required() Attr               { return attr("required", true) }
func Selected() Attr               { return attr("selected", true) }

// SVG

func ViewBox(box string) Attr         { return attr("viewBox", box) }
func Width(w int) Attr                { return attr("width", w) }
func Height(h int) Attr               { return attr("height", h) }
func Fill(fill string) Attr           { return attr("fill", fill) }
func Stroke(stroke string) Attr       { return attr("stroke", stroke) }
func StrokeWidth(width string) Attr   { return attr("stroke-width", width) }
func StrokeLinecap(cap string) Attr   { return attr("stroke-linecap", cap) }
func StrokeLinejoin(join string) Attr { return attr("stroke-linejoin", join) }
func D(path string) Attr              { return attr("d", path) }
