package sink

import (
	"bytes"
	"fmt"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/fonts"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render/layout"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render/styles"
)

// Inside page typography.
const (
	ProseSize           = 14.0
	ProseLineHeight     = 1.6
	SignatureSize       = 32.0
	SignatureLineHeight = 1.1
	SignatureGap        = 32.0
	AttributionSize     = 8.0

	// proseCenterLift raises the prose block above the page centre.
	proseCenterLift = 40.0
	// attributionBand is kept clear of prose at the foot of the page.
	attributionBand = 12.0
)

// insideBackground is the design's background colour, or the warm inside
// tone when the design sets none.
func insideBackground(r layout.Resolved) string {
	if !r.BackgroundSet {
		return styles.InsideTone
	}
	return r.Background
}

// InsideLines holds the text of an inside page after wrapping and clamping.
type InsideLines struct {
	Prose     []string
	Signature []string
	Truncated bool
}

// LayoutInside wraps prose and splits the signature, clamping prose so the
// whole block fits in the safe area above the attribution line.
func LayoutInside(r layout.Resolved, prose, signature string) InsideLines {
	safe := r.Canvas.SafeArea()
	prLines := styles.Wrap(prose, r.Body, ProseSize, safe.Width)

	var sig []string
	if signature != "" {
		for _, s := range styles.SplitSignature(signature) {
			sig = append(sig, styles.Fit(s, r.Signature, SignatureSize, safe.Width))
		}
	}

	avail := safe.Height - attributionBand
	if len(sig) > 0 {
		avail -= SignatureGap + blockHeight(len(sig), SignatureSize, SignatureSize*SignatureLineHeight)
	}
	lh := ProseSize * ProseLineHeight
	maxLines := max(1, int((avail-ProseSize)/lh)+1)

	clamped := styles.Clamp(prLines, maxLines)
	return InsideLines{Prose: clamped, Signature: sig, Truncated: len(clamped) < len(prLines)}
}

// RenderInside composes the inside page: prose centred in the upper middle,
// the signature beneath it and the attribution line at the foot.
func RenderInside(r layout.Resolved, prose, signature string, opts ...Option) Page {
	o := newRenderer(opts...)
	c := r.Canvas
	safe := c.SafeArea()
	lines := LayoutInside(r, prose, signature)

	var buf bytes.Buffer
	openSVG(&buf, c)
	fontStyles(&buf, r.Body, r.Signature, fonts.Sans)
	safeAreaClip(&buf, c)
	fmt.Fprintf(&buf, `  <rect class="background" x="0" y="0" width="%s" height="%s" fill="%s"/>`+"\n",
		num(c.Width), num(c.Height), insideBackground(r))

	x, anchor := layout.Horizontal(c, r.Alignment)
	lh := ProseSize * ProseLineHeight
	sigLH := SignatureSize * SignatureLineHeight

	proseH := blockHeight(len(lines.Prose), ProseSize, lh)
	top := c.Height/2 - proseCenterLift - proseH/2

	// Keep the prose and signature together inside the safe area.
	total := proseH
	if len(lines.Signature) > 0 {
		total += SignatureGap + blockHeight(len(lines.Signature), SignatureSize, sigLH)
	}
	if bottom := safe.Y + safe.Height - attributionBand; top+total > bottom {
		top = bottom - total
	}
	top = max(top, safe.Y)

	buf.WriteString(`  <g clip-path="url(#safe-area)">` + "\n")
	textBlock{
		lines:      lines.Prose,
		x:          x,
		y:          top + ascent*ProseSize,
		lineHeight: lh,
		size:       ProseSize,
		family:     r.Body.CSS(),
		style:      string(r.Body.Style),
		weight:     r.Body.Weight,
		fill:       styles.Charcoal,
		anchor:     anchor,
		class:      "prose",
	}.render(&buf)

	if len(lines.Signature) > 0 {
		textBlock{
			lines:      lines.Signature,
			x:          x,
			y:          top + proseH + SignatureGap + ascent*SignatureSize,
			lineHeight: sigLH,
			size:       SignatureSize,
			family:     r.Signature.CSS(),
			style:      string(r.Signature.Style),
			weight:     r.Signature.Weight,
			fill:       styles.Plum,
			anchor:     anchor,
			class:      "signature",
		}.render(&buf)
	}
	buf.WriteString("  </g>\n")

	textBlock{
		lines:   []string{o.attribution},
		x:       c.Width / 2,
		y:       c.Height - 10,
		size:    AttributionSize,
		family:  fonts.Sans.CSS(),
		fill:    styles.Charcoal,
		opacity: 0.5,
		anchor:  layout.AnchorMiddle,
		class:   "attribution",
	}.render(&buf)

	renderOrderTag(&buf, o.orderID, styles.Ink, 0.3)
	return closeSVG(&buf, c)
}
