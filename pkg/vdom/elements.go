package vdom

// IsVoidElement reports whether tag never has children or a closing tag.
func IsVoidElement(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "source", "track", "wbr":
		return true
	}
	return false
}

// createElement builds an element from the mixed argument list described in
// the package documentation.
func createElement(tag string, args []any) *VNode {
	node := &VNode{Kind: KindElement, Tag: tag, Props: make(Props)}
	for _, arg := range args {
		switch v := arg.(type) {
		case Attr:
			node.setAttr(v)
		case []Attr:
			for _, a := range v {
				node.setAttr(a)
			}
		default:
			node.appendChild(arg)
		}
	}
	return node
}

func (v *VNode) setAttr(a Attr) {
	if a.IsEmpty() {
		return
	}
	if a.Key == "key" {
		v.Key, _ = a.Value.(string)
	}
	v.Props[a.Key] = a.Value
}

// appendChild adds a *VNode, every non-nil node of a []*VNode, or a string
// as a text node. Anything else is ignored.
func (v *VNode) appendChild(child any) {
	switch c := child.(type) {
	case *VNode:
		if c != nil {
			v.Children = append(v.Children, c)
		}
	case []*VNode:
		for _, n := range c {
			v.appendChild(n)
		}
	case string:
		v.Children = append(v.Children, Text(c))
	}
}

// Document

func Html(args ...any) *VNode   { return createElement("html", args) }
func Head(args ...any) *VNode   { return createElement("head", args) }
func Body(args ...any) *VNode   { return createElement("body", args) }
func Title(args ...any) *VNode  { return createElement("title", args) }
func Meta(args ...any) *VNode   { return createElement("meta", args) }
func Style(args ...any) *VNode  { return createElement("style", args) }
func Script(args ...any) *VNode { return createElement("script", args) }

// Layout and text

func Header(args ...any) *VNode { return createElement("header", args) }
func Main(args ...any) *VNode   { return createElement("main", args) }
func H1(args ...any) *VNode     { return createElement("h1", args) }
func Div(args ...any) *VNode    { return createElement("div", args) }
func P(args ...any) *VNode      { return createElement("p", args) }
func Span(args ...any) *VNode   { return createElement("span", args) }
func Strong(args ...any) *VNode { return createElement("strong", args) }

// Forms

func Form(args ...any) *VNode   { return createElement("form", args) }
func Label(args ...any) *VNode  { return createElement("label", args) }
func Input(args ...any) *VNode  { return createElement("input", args) }
func Select(args ...any) *VNode { return createElement("select", args) }
func Option(args ...any) *VNode { return createElement("option", args) }
func Button(args ...any) *VNode { return createElement("button", args) }

// Icons

func Svg(args ...any) *VNode  { return createElement("svg", args) }
func Path(args ...any) *VNode { return createElement("path", args) }
