package render

import (
	"io"

	"github.com/vango-dev/toastd/pkg/vdom"
)

// PageData describes a complete HTML document.
type PageData struct {
	// Title is the document title. Empty omits the title element.
	Title string

	// Meta holds named meta tags added after charset and viewport.
	Meta []MetaTag

	// Styles are inlined into the head unescaped, so they must be trusted.
	Styles []string

	// Body is the page content.
	Body *vdom.VNode

	// Scripts are appended at the end of the body.
	Scripts []ScriptTag
}

// MetaTag is a <meta name content> pair.
type MetaTag struct {
	Name    string
	Content string
}

// ScriptTag is an external script.
type ScriptTag struct {
	Src   string
	Defer bool
}

// RenderPage writes page as an HTML5 document.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	return r.RenderToWriter(w, Document(page))
}

// Document builds the html element for page.
func Document(page PageData) *vdom.VNode {
	head := []*vdom.VNode{
		vdom.Meta(vdom.Charset("utf-8")),
		vdom.Meta(vdom.Name("viewport"), vdom.Content("width=device-width, initial-scale=1")),
		vdom.If(page.Title != "", vdom.Title(page.Title)),
	}
	for _, m := range page.Meta {
		head = append(head, vdom.Meta(vdom.Name(m.Name), vdom.Content(m.Content)))
	}
	for _, css := range page.Styles {
		head = append(head, vdom.Style(vdom.Raw(css)))
	}

	body := []*vdom.VNode{page.Body}
	for _, s := range page.Scripts {
		body = append(body, vdom.Script(vdom.Src(s.Src), vdom.AttrIf(s.Defer, vdom.Defer())))
	}

	return vdom.Html(vdom.Lang("en"), vdom.Head(head), vdom.Body(body))
}
