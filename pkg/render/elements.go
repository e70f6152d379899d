package render

import "github.com/vango-dev/toastd/pkg/vdom"

// booleanAttrs render as a bare name when true and are omitted when false.
var booleanAttrs = map[string]bool{
	"checked":  true,
	"defer":    true,
	"disabled": true,
	"hidden":   true,
	"required": true,
	"selected": true,
}

func isBooleanAttr(name string) bool {
	return booleanAttrs[name]
}

func isVoidElement(tag string) bool {
	return vdom.IsVoidElement(tag)
}
