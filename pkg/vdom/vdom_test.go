package vdom

import "testing"

func TestCreateElementArgs(t *testing.T) {
	node := Div(
		ID("root"),
		nil,
		[]Attr{Class("a", "b"), Data("toast", "h1")},
		AttrIf(false, Role("alert")),
		Span(Text("one")),
		[]*VNode{P(Text("two")), nil},
		"three",
		(*VNode)(nil),
	)

	if node.Tag != "div" || node.Kind != KindElement {
		t.Fatalf("unexpected node %+v", node)
	}
	if node.Props["id"] != "root" {
		t.Errorf("id = %v", node.Props["id"])
	}
	if node.Props["class"] != "a b" {
		t.Errorf("class = %v", node.Props["class"])
	}
	if node.Props["data-toast"] != "h1" {
		t.Errorf("data-toast = %v", node.Props["data-toast"])
	}
	if _, ok := node.Props["role"]; ok {
		t.Error("false AttrIf should not set role")
	}
	if len(node.Children) != 3 {
		t.Fatalf("children = %d, want 3", len(node.Children))
	}
	if node.Children[2].Kind != KindText || node.Children[2].Text != "three" {
		t.Errorf("string child = %+v", node.Children[2])
	}
}

func TestKey(t *testing.T) {
	node := Span(Key(42))
	if node.Key != "42" {
		t.Errorf("Key = %q, want 42", node.Key)
	}
	if got := Div(Key("toast-1")).Key; got != "toast-1" {
		t.Errorf("Key = %q, want toast-1", got)
	}
}

func TestFragmentAndRange(t *testing.T) {
	items := []string{"a", "", "c"}
	frag := Fragment(
		Range(items, func(s string, _ int) *VNode {
			return If(s != "", Span(Text(s)))
		}),
		nil,
		"tail",
	)
	if frag.Kind != KindFragment {
		t.Fatalf("Kind = %v", frag.Kind)
	}
	if len(frag.Children) != 3 {
		t.Fatalf("children = %d, want 3", len(frag.Children))
	}
	if frag.Children[1].Children[0].Text != "c" {
		t.Errorf("second item = %+v", frag.Children[1])
	}
}

func TestFind(t *testing.T) {
	tree := Div(Form(Label(ID("x")), Label(ID("y"))))
	found := tree.Find(func(v *VNode) bool { return v.Props["id"] == "y" })
	if found == nil || found.Tag != "label" {
		t.Fatalf("Find = %+v", found)
	}
	if tree.Find(func(v *VNode) bool { return v.Tag == "table" }) != nil {
		t.Error("Find should return nil without a match")
	}
	var nilNode *VNode
	if nilNode.Find(func(*VNode) bool { return true }) != nil {
		t.Error("Find on nil should return nil")
	}
}

func TestVKindString(t *testing.T) {
	tests := map[VKind]string{
		KindElement:  "Element",
		KindText:     "Text",
		KindFragment: "Fragment",
		KindRaw:      "Raw",
		VKind(99):    "Unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}

func TestIsVoidElement(t *testing.T) {
	if !IsVoidElement("input") || !IsVoidElement("meta") || IsVoidElement("div") {
		t.Error("unexpected void element classification")
	}
}
