package server

import (
	"bytes"
	"net/http"

	"github.com/vango-dev/toastd/pkg/render"
	"github.com/vango-dev/toastd/pkg/toast"
	"github.com/vango-dev/toastd/pkg/vdom"
)

const pageStyles = `
body{margin:0;font-family:system-ui,-apple-system,sans-serif;background:#f8fafc;color:#0f172a}
main{max-width:40rem;margin:3rem auto;padding:0 1rem}
form{display:grid;gap:0.75rem;background:#fff;border:1px solid #e2e8f0;border-radius:0.5rem;padding:1.25rem}
label{display:grid;gap:0.25rem;font-size:0.875rem}
input,select{font:inherit;padding:0.375rem 0.5rem;border:1px solid #cbd5e1;border-radius:0.375rem}
.row{display:flex;gap:0.75rem;align-items:end}
.row label{flex:1}
button[type=submit]{font:inherit;padding:0.5rem 1rem;border:0;border-radius:0.375rem;background:#0f172a;color:#fff;cursor:pointer}
.toast-title{display:block;margin-bottom:0.125rem}
.toast-message{margin:0}
`

// dashboardView renders the demo page body: a form that posts to the API
// and the server-rendered overlay, if any.
func dashboardView(overlay *vdom.VNode) *vdom.VNode {
	return vdom.Fragment(
		vdom.Main(
			vdom.Header(
				vdom.H1(vdom.Text("toastd")),
				vdom.P(vdom.Text("Send a notification; every open tab shows it.")),
			),
			vdom.Form(
				vdom.ID("toast-form"),
				vdom.Label(
					vdom.Text("Kind"),
					vdom.Select(
						vdom.Name("kind"),
						vdom.Range(toast.Kinds, func(k toast.Kind, i int) *vdom.VNode {
							return vdom.Option(
								vdom.Value(string(k)),
								vdom.AttrIf(i == 0, vdom.Selected()),
								vdom.Text(string(k)),
							)
						}),
					),
				),
				vdom.Label(
					vdom.Text("Title"),
					vdom.Input(vdom.Type("text"), vdom.Name("title"), vdom.Placeholder("Optional")),
				),
				vdom.Label(
					vdom.Text("Message"),
					vdom.Input(vdom.Type("text"), vdom.Name("message"), vdom.Required()),
				),
				vdom.Div(
					vdom.Class("row"),
					vdom.Label(
						vdom.Text("Duration (ms)"),
						vdom.Input(vdom.Type("number"), vdom.Name("durationMs"), vdom.Min("0"), vdom.Step("100"),
							vdom.Placeholder("4000")),
					),
					vdom.Label(
						vdom.Input(vdom.Type("checkbox"), vdom.Name("persistent")),
						vdom.Text("Persistent"),
					),
				),
				vdom.Button(vdom.Type("submit"), vdom.Text("Send")),
			),
		),
		overlay,
	)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := s.renderer.RenderPage(&buf, render.PageData{
		Title:   "toastd",
		Meta:    []render.MetaTag{{Name: "description", Content: "Live toast notifications"}},
		Body:    dashboardView(s.center.View()),
		Styles:  []string{pageStyles},
		Scripts: []render.ScriptTag{{Src: "/toast.js", Defer: true}},
	})
	if err != nil {
		s.logger.Error("page render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}
