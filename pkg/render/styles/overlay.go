package styles

import (
	"bytes"
	"fmt"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/card"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render/layout"
)

// OverlayParams is what an overlay treatment needs to draw itself.
type OverlayParams struct {
	Canvas   layout.Canvas
	Box      layout.Rect // Artwork box
	Position card.TextPosition
	Frame    card.FrameStyle
}

// Overlay is one legibility treatment drawn between artwork and caption.
type Overlay struct {
	Key card.OverlayStyle

	// ShadowOpacity is the strength of the caption drop shadow.
	ShadowOpacity float64

	render func(buf *bytes.Buffer, p OverlayParams)
}

// Render writes the overlay's SVG elements. Overlays with no layer write
// nothing.
func (o Overlay) Render(buf *bytes.Buffer, p OverlayParams) {
	if o.render != nil {
		o.render(buf, p)
	}
}

// Gradient stops from the caption edge inward.
var gradientStops = [...]struct{ offset, opacity float64 }{
	{0, 0.75},
	{0.5, 0.30},
	{1, 0},
}

const scrimOpacity = 0.45

var overlays = map[card.OverlayStyle]Overlay{
	card.OverlayGradient: {Key: card.OverlayGradient, ShadowOpacity: 0.5, render: renderGradient},
	card.OverlayScrim:    {Key: card.OverlayScrim, ShadowOpacity: 0.5, render: renderScrim},
	card.OverlayFrame:    {Key: card.OverlayFrame, ShadowOpacity: 0.6, render: renderFrameOverlay},
	card.OverlayNone:     {Key: card.OverlayNone, ShadowOpacity: 0.9},
}

// OverlayFor returns the treatment for s. Unknown keys resolve to none.
func OverlayFor(s card.OverlayStyle) Overlay {
	if o, ok := overlays[s]; ok {
		return o
	}
	return overlays[card.OverlayNone]
}

// CaptionShadow returns the caption shadow opacity for an overlay and frame
// combination. A vignette darkens the edges already, so it sits between the
// other frames and no overlay at all.
func CaptionShadow(s card.OverlayStyle, f card.FrameStyle) float64 {
	o := OverlayFor(s)
	if o.Key == card.OverlayFrame && f == card.FrameVignette {
		return 0.7
	}
	return o.ShadowOpacity
}

func renderGradient(buf *bytes.Buffer, p OverlayParams) {
	b := p.Box
	buf.WriteString("  <defs>")
	switch p.Position {
	case card.TextCenter:
		buf.WriteString(`<radialGradient id="overlay-gradient" cx="50%" cy="50%" r="50%">`)
		for _, s := range [...]struct{ offset, opacity float64 }{{0, 0.5}, {0.4, 0.3}, {0.7, 0}} {
			fmt.Fprintf(buf, `<stop offset="%.2f" stop-color="%s" stop-opacity="%.2f"/>`, s.offset, Ink, s.opacity)
		}
		buf.WriteString("</radialGradient>")
	default:
		// Darkest at the caption edge.
		y1, y2 := 1, 0
		if p.Position == card.TextTop {
			y1, y2 = 0, 1
		}
		fmt.Fprintf(buf, `<linearGradient id="overlay-gradient" x1="0" y1="%d" x2="0" y2="%d">`, y1, y2)
		for _, s := range gradientStops {
			fmt.Fprintf(buf, `<stop offset="%.2f" stop-color="%s" stop-opacity="%.2f"/>`, s.offset, Ink, s.opacity)
		}
		buf.WriteString("</linearGradient>")
	}
	buf.WriteString("</defs>\n")
	fmt.Fprintf(buf, `  <rect class="overlay overlay-gradient" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="url(#overlay-gradient)"/>`+"\n",
		b.X, b.Y, b.Width, b.Height)
}

func renderScrim(buf *bytes.Buffer, p OverlayParams) {
	b := p.Box
	fmt.Fprintf(buf, `  <rect class="overlay overlay-scrim" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="%.2f"/>`+"\n",
		b.X, b.Y, b.Width, b.Height, Ink, scrimOpacity)
}

func renderFrameOverlay(buf *bytes.Buffer, p OverlayParams) {
	fmt.Fprintf(buf, `  <g class="overlay overlay-frame frame-%s">`+"\n", frameKey(p.Frame))
	RenderFrame(buf, p.Frame, p.Canvas)
	buf.WriteString("  </g>\n")
}

func frameKey(f card.FrameStyle) card.FrameStyle {
	for _, s := range card.FrameStyles {
		if s == f {
			return f
		}
	}
	return card.FrameThin
}

// RenderShadowFilter writes a drop-shadow filter with the given id.
func RenderShadowFilter(buf *bytes.Buffer, id string, opacity float64) {
	fmt.Fprintf(buf, `  <defs><filter id="%s" x="-10%%" y="-10%%" width="120%%" height="140%%">`, id)
	buf.WriteString(`<feGaussianBlur in="SourceAlpha" stdDeviation="2"/>`)
	buf.WriteString(`<feOffset dx="0" dy="1.5" result="blur"/>`)
	fmt.Fprintf(buf, `<feFlood flood-color="%s" flood-opacity="%.2f"/>`, Ink, opacity)
	buf.WriteString(`<feComposite in2="blur" operator="in"/>`)
	buf.WriteString(`<feMerge><feMergeNode/><feMergeNode in="SourceGraphic"/></feMerge>`)
	buf.WriteString("</filter></defs>\n")
}
