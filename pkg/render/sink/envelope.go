package sink

import (
	"bytes"
	"fmt"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/card"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/fonts"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render/layout"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render/styles"
)

// Envelope typography and placement.
const (
	EnvelopeTagSize        = 9.0
	ReturnAddressSize      = 10.0
	ReturnAddressLeading   = 13.0
	RecipientSize          = 14.0
	RecipientLeading       = 20.0
	RecipientInset         = 18.0 // right of the vertical centre line
	recipientAboveCentre   = 10.0
	returnAddressFirstLine = 45.0
)

// RenderEnvelope composes a landscape envelope: the order stamp top-left,
// the return address below it and the recipient block right of centre.
func RenderEnvelope(rcpt card.RecipientAddress, opts ...Option) Page {
	o := newRenderer(opts...)
	c := layout.Envelope()

	var buf bytes.Buffer
	openSVG(&buf, c)
	fontStyles(&buf, fonts.Sans, fonts.SansBold)
	fmt.Fprintf(&buf, `  <rect class="background" x="0" y="0" width="%s" height="%s" fill="#FFFFFF"/>`+"\n",
		num(c.Width), num(c.Height))

	if tag := styles.OrderTag(o.orderID); tag != "" {
		textBlock{
			lines:  []string{tag},
			x:      layout.SafeMargin,
			y:      layout.SafeMargin + EnvelopeTagSize*ascent,
			size:   EnvelopeTagSize,
			family: fonts.SansBold.CSS(),
			weight: fonts.SansBold.Weight,
			fill:   styles.Ink,
			anchor: layout.AnchorStart,
			class:  "order-tag",
		}.render(&buf)
	}

	x := RecipientX(c)
	retWidth := x - 2*layout.SafeMargin
	ret := make([]string, len(o.returnAddress))
	for i, l := range o.returnAddress {
		ret[i] = styles.Fit(l, fonts.Sans, ReturnAddressSize, retWidth)
	}
	textBlock{
		lines:      ret,
		x:          layout.SafeMargin,
		y:          returnAddressFirstLine,
		lineHeight: ReturnAddressLeading,
		size:       ReturnAddressSize,
		family:     fonts.Sans.CSS(),
		fill:       styles.Charcoal,
		anchor:     layout.AnchorStart,
		class:      "return-address",
	}.render(&buf)

	maxW := c.Width - x - layout.SafeMargin
	lines := rcpt.Lines()
	for i, l := range lines {
		lines[i] = styles.Fit(l, fonts.Sans, RecipientSize, maxW)
	}
	textBlock{
		lines:      lines,
		x:          x,
		y:          RecipientBaseline(c),
		lineHeight: RecipientLeading,
		size:       RecipientSize,
		family:     fonts.Sans.CSS(),
		fill:       styles.Ink,
		anchor:     layout.AnchorStart,
		class:      "recipient",
	}.render(&buf)

	return closeSVG(&buf, c)
}

// RecipientX is the left edge of the recipient block, right of the
// envelope's vertical centre line.
func RecipientX(c layout.Canvas) float64 {
	return c.Width/2 + RecipientInset
}

// RecipientBaseline is the first baseline of the recipient block.
func RecipientBaseline(c layout.Canvas) float64 {
	return c.Height/2 - recipientAboveCentre
}
