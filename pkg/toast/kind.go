package toast

import "strings"

// Kind is the semantic category of a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Kinds lists every supported kind in display order.
var Kinds = []Kind{KindSuccess, KindError, KindWarning, KindInfo}

// Valid reports whether k is one of the four supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindSuccess, KindError, KindWarning, KindInfo:
		return true
	}
	return false
}

// orInfo returns k, or KindInfo when k is not supported.
func (k Kind) orInfo() Kind {
	if k.Valid() {
		return k
	}
	return KindInfo
}

// ParseKind converts s into a Kind. It never fails: unknown values map to
// KindInfo.
func ParseKind(s string) Kind {
	return Kind(strings.ToLower(strings.TrimSpace(s))).orInfo()
}

// Palette is the color set used to draw a notification.
type Palette struct {
	Background     string `json:"background"`
	Border         string `json:"border"`
	Text           string `json:"text"`
	IconBackground string `json:"iconBackground"`
}

var palettes = map[Kind]Palette{
	KindSuccess: {Background: "#f0fdf4", Border: "#bbf7d0", Text: "#166534", IconBackground: "#22c55e"},
	KindError:   {Background: "#fef2f2", Border: "#fecaca", Text: "#991b1b", IconBackground: "#ef4444"},
	KindWarning: {Background: "#fffbeb", Border: "#fde68a", Text: "#92400e", IconBackground: "#f59e0b"},
	KindInfo:    {Background: "#eff6ff", Border: "#bfdbfe", Text: "#1e40af", IconBackground: "#3b82f6"},
}

// PaletteFor returns the palette for k. Unknown kinds get the info palette.
func PaletteFor(k Kind) Palette {
	return palettes[k.orInfo()]
}

// Icon paths (24x24 viewBox, stroked).
var icons = map[Kind]string{
	KindSuccess: "M5 13l4 4L19 7",
	KindError:   "M6 18L18 6M6 6l12 12",
	KindWarning: "M12 9v2m0 4h.01M10.29 3.86L1.82 18a2 2 0 001.71 3h16.94a2 2 0 001.71-3L13.71 3.86a2 2 0 00-3.42 0z",
	KindInfo:    "M13 16h-1v-4h-1m1-4h.01M21 12a9 9 0 11-18 0 9 9 0 0118 0z",
}

// IconPath returns the SVG path drawn in the icon badge for k.
func IconPath(k Kind) string {
	return icons[k.orInfo()]
}
