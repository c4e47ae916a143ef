package sink

import (
	"bytes"
	"fmt"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/card"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/fonts"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render/layout"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render/styles"
)

// Caption typography.
const (
	CaptionSize       = 28.0
	CaptionLineHeight = 1.2
	maxCaptionLines   = 6
)

var sansCSS = fonts.Sans.CSS()

// RenderFront composes the front of a card. A nil art draws the fallback
// background in the image box instead of the artwork.
func RenderFront(r layout.Resolved, caption string, art *Artwork, opts ...Option) Page {
	o := newRenderer(opts...)
	c := r.Canvas
	box := r.ImageBox

	var buf bytes.Buffer
	openSVG(&buf, c)
	fontStyles(&buf, r.Body, fonts.Sans)
	safeAreaClip(&buf, c)
	styles.RenderShadowFilter(&buf, "caption-shadow", styles.CaptionShadow(r.Overlay, r.Frame))

	fmt.Fprintf(&buf, `  <rect class="background" x="0" y="0" width="%s" height="%s" fill="%s"/>`+"\n",
		num(c.Width), num(c.Height), r.Background)

	if art != nil {
		fmt.Fprintf(&buf, `  <image class="artwork" x="%.2f" y="%.2f" width="%.2f" height="%.2f" preserveAspectRatio="xMidYMid slice" xlink:href="%s"/>`+"\n",
			box.X, box.Y, box.Width, box.Height, art.DataURI())
	} else {
		fmt.Fprintf(&buf, `  <rect class="artwork-fallback" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
			box.X, box.Y, box.Width, box.Height, styles.Plum)
	}

	styles.OverlayFor(r.Overlay).Render(&buf, styles.OverlayParams{
		Canvas:   c,
		Box:      box,
		Position: r.Position,
		Frame:    r.Frame,
	})

	buf.WriteString(`  <g clip-path="url(#safe-area)">` + "\n")
	captionBlock(r, caption).render(&buf)
	buf.WriteString("  </g>\n")
	renderOrderTag(&buf, o.orderID, styles.Parchment, 0.6)

	return closeSVG(&buf, c)
}

// CaptionLines returns the caption as it will be set on the front.
func CaptionLines(r layout.Resolved, caption string) []string {
	lines := styles.Wrap(caption, r.Body, CaptionSize, r.Caption.MaxWidth)
	return styles.Clamp(lines, maxCaptionLines)
}

func captionBlock(r layout.Resolved, caption string) textBlock {
	a := r.Caption
	lines := CaptionLines(r, caption)
	lh := CaptionSize * CaptionLineHeight
	h := blockHeight(len(lines), CaptionSize, lh)

	var first float64
	switch a.Position {
	case card.TextTop:
		first = a.Y + ascent*CaptionSize
	case card.TextCenter:
		first = a.Y - h/2 + ascent*CaptionSize
	default:
		first = a.Y - h + ascent*CaptionSize
	}

	extra := `filter="url(#caption-shadow)"`
	if r.Overlay == card.OverlayNone {
		extra += fmt.Sprintf(` stroke="%s" stroke-opacity="0.35" stroke-width="0.6" paint-order="stroke"`, styles.Ink)
	}

	return textBlock{
		lines:      lines,
		x:          a.X,
		y:          first,
		lineHeight: lh,
		size:       CaptionSize,
		family:     r.Body.CSS(),
		style:      string(r.Body.Style),
		weight:     r.Body.Weight,
		fill:       styles.Parchment,
		anchor:     a.Anchor,
		class:      "caption",
		extra:      extra,
	}
}
