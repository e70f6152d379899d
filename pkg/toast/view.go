package toast

import (
	"fmt"

	"github.com/vango-dev/toastd/pkg/vdom"
)

// OverlayID is the DOM id of the overlay container.
const OverlayID = "toast-overlay"

const (
	overlayStyle = "position:fixed;top:1rem;right:1rem;z-index:9999;display:flex;" +
		"flex-direction:column;gap:0.5rem;width:24rem;max-width:calc(100vw - 2rem);"
	cardStyle = "display:flex;align-items:flex-start;gap:0.75rem;padding:0.75rem 1rem;" +
		"border-radius:0.5rem;border:1px solid %s;background:%s;color:%s;" +
		"box-shadow:0 4px 12px rgba(0,0,0,0.08);transition:transform 300ms ease,opacity 300ms ease;"
	exitStyle  = "transform:translateX(110%);opacity:0;"
	iconStyle  = "flex:none;display:inline-flex;align-items:center;justify-content:center;" +
		"width:1.5rem;height:1.5rem;border-radius:9999px;background:%s;color:#fff;"
	closeStyle = "flex:none;border:0;background:transparent;color:inherit;cursor:pointer;" +
		"font-size:1.125rem;line-height:1;opacity:0.6;"
	actionStyle = "margin-top:0.5rem;border:1px solid currentColor;border-radius:0.375rem;" +
		"background:transparent;color:inherit;cursor:pointer;font-size:0.75rem;padding:0.125rem 0.5rem;"
)

// View returns the overlay as a virtual node, or nil when there is no overlay.
func (c *Center) View() *vdom.VNode {
	ov, ok, items := c.Snapshot()
	if !ok {
		return nil
	}
	return OverlayView(ov, items)
}

// OverlayView renders the overlay container and its notifications in
// arrival order.
func OverlayView(ov Overlay, items []Notification) *vdom.VNode {
	return vdom.Div(
		vdom.ID(OverlayID),
		vdom.Data("overlay", ov.ID),
		vdom.AriaLive("polite"),
		vdom.StyleAttr(overlayStyle),
		vdom.Range(items, func(n Notification, _ int) *vdom.VNode {
			return NotificationView(n)
		}),
	)
}

// NotificationView renders a single notification card.
func NotificationView(n Notification) *vdom.VNode {
	kind := n.Kind.orInfo()
	p := PaletteFor(kind)

	style := fmt.Sprintf(cardStyle, p.Border, p.Background, p.Text)
	if n.State == StateDismissing {
		style += exitStyle
	}

	return vdom.Div(
		vdom.Key(string(n.Handle)),
		vdom.Class("toast", "toast-"+string(kind)),
		vdom.Data("toast", string(n.Handle)),
		vdom.Data("state", n.State.String()),
		vdom.Role(roleFor(kind)),
		vdom.StyleAttr(style),
		iconView(kind, p),
		vdom.Div(
			vdom.StyleAttr("flex:1;min-width:0;"),
			vdom.If(n.Title != "", vdom.Strong(
				vdom.Class("toast-title"),
				vdom.StyleAttr("display:block;font-weight:600;margin-bottom:0.125rem;"),
				vdom.Text(n.Title),
			)),
			vdom.P(
				vdom.Class("toast-message"),
				vdom.StyleAttr("margin:0;font-size:0.875rem;"),
				vdom.Text(n.Message),
			),
			actionView(n),
		),
		vdom.Button(
			vdom.Type("button"),
			vdom.Class("toast-close"),
			vdom.Data("toast-dismiss", string(n.Handle)),
			vdom.AriaLabel("Dismiss"),
			vdom.StyleAttr(closeStyle),
			vdom.Text("×"),
		),
	)
}

func iconView(kind Kind, p Palette) *vdom.VNode {
	return vdom.Span(
		vdom.Class("toast-icon"),
		vdom.AriaHidden(true),
		vdom.StyleAttr(fmt.Sprintf(iconStyle, p.IconBackground)),
		vdom.Svg(
			vdom.ViewBox("0 0 24 24"),
			vdom.Width(16),
			vdom.Height(16),
			vdom.Fill("none"),
			vdom.Stroke("currentColor"),
			vdom.StrokeWidth("2"),
			vdom.Path(
				vdom.D(IconPath(kind)),
				vdom.StrokeLinecap("round"),
				vdom.StrokeLinejoin("round"),
			),
		),
	)
}

func actionView(n Notification) *vdom.VNode {
	if n.Action == nil {
		return nil
	}
	return vdom.Button(
		vdom.Type("button"),
		vdom.Class("toast-action"),
		vdom.Data("toast-action", string(n.Handle)),
		vdom.Data("action-id", n.Action.ID),
		vdom.StyleAttr(actionStyle),
		vdom.Text(n.Action.Label),
	)
}

func roleFor(kind Kind) string {
	if kind == KindError || kind == KindWarning {
		return "alert"
	}
	return "status"
}
