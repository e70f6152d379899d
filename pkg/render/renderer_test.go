package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vango-dev/toastd/pkg/vdom"
)

func render(t *testing.T, node *vdom.VNode) string {
	t.Helper()
	html, err := NewRenderer().RenderToString(node)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return html
}

func TestRenderToString(t *testing.T) {
	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{"nil", nil, ""},
		{"text escaped", vdom.Text(`<b>"x" & 'y'</b>`), "&lt;b&gt;&quot;x&quot; &amp; &#39;y&#39;&lt;/b&gt;"},
		{"raw", vdom.Raw("<b>x</b>"), "<b>x</b>"},
		{"sorted attrs", vdom.Div(vdom.ID("a"), vdom.Class("c")), `<div class="c" id="a"></div>`},
		{"void", vdom.Input(vdom.Type("text")), `<input type="text">`},
		{"boolean true", vdom.Input(vdom.Required()), `<input required>`},
		{"boolean false", vdom.Option(vdom.AttrIf(false, vdom.Selected())), `<option></option>`},
		{"empty attr skipped", vdom.Div(vdom.Data("x", "")), `<div></div>`},
		{"key hidden", vdom.Div(vdom.Key("k")), `<div></div>`},
		{"int attr", vdom.Svg(vdom.Width(16)), `<svg width="16"></svg>`},
		{"attr escaped", vdom.Div(vdom.Data("v", "a\"b\nc")), `<div data-v="a&quot;b&#10;c"></div>`},
		{"fragment", vdom.Fragment(vdom.Span("a"), vdom.Span("b")), `<span>a</span><span>b</span>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(t, tt.node); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	r := NewRenderer()
	if _, err := r.RenderToString(&vdom.VNode{Kind: vdom.KindElement}); err == nil {
		t.Error("expected error for element without tag")
	}
	if _, err := r.RenderToString(&vdom.VNode{Kind: vdom.VKind(42)}); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestRenderPage(t *testing.T) {
	var buf bytes.Buffer
	err := NewRenderer().RenderPage(&buf, PageData{
		Title:   "A & B",
		Body:    vdom.Main("hi"),
		Meta:    []MetaTag{{Name: "description", Content: `say "hi"`}},
		Styles:  []string{"body{margin:0}", `a > b{content:"x"}`},
		Scripts: []ScriptTag{{Src: "/toast.js", Defer: true}, {Src: "/late.js"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	html := buf.String()

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en"><head><meta charset="utf-8">`,
		`<meta content="width=device-width, initial-scale=1" name="viewport">`,
		"<title>A &amp; B</title>",
		`<meta content="say &quot;hi&quot;" name="description">`,
		"<style>body{margin:0}</style>",
		`<style>a > b{content:"x"}</style>`,
		"<body><main>hi</main>",
		`<script defer src="/toast.js"></script>`,
		`<script src="/late.js"></script></body></html>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q:\n%s", want, html)
		}
	}
	if strings.Index(html, "<main>") > strings.Index(html, "/toast.js") {
		t.Error("scripts should follow the body content")
	}
}

func TestRenderPageWithoutTitle(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer().RenderPage(&buf, PageData{}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "<title>") {
		t.Errorf("empty title should be omitted: %s", buf.String())
	}
}
