// Package layout resolves a card design's presentation options into concrete
// page geometry.
//
// Everything here is a pure function of its inputs: the same layout options
// always produce the same image box, caption anchor and font faces. Unknown or
// missing option values resolve to documented defaults instead of failing, so
// the composers never see an invalid layout.
//
// All coordinates are PDF points (1/72 in) with the origin at the top-left
// corner of the page, matching SVG user space.
package layout

import (
	"math"
	"regexp"
	"strings"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/card"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/fonts"
)

// Physical constants for print-shop output.
const (
	PointsPerInch  = 72.0
	CardWidth      = 5 * PointsPerInch    // 360
	CardHeight     = 7 * PointsPerInch    // 504
	EnvelopeWidth  = 7.25 * PointsPerInch // 522
	EnvelopeHeight = 5.25 * PointsPerInch // 378
	SafeMargin     = 0.25 * PointsPerInch // 18
	TargetDPI      = 300

	// CaptionPadding is the extra inset of the caption block beyond the
	// safe margin.
	CaptionPadding = 40.0
)

// Canvas is a page size in points.
type Canvas struct {
	Width, Height float64
}

// Card returns the 5x7in portrait card canvas.
func Card() Canvas { return Canvas{Width: CardWidth, Height: CardHeight} }

// Envelope returns the 7.25x5.25in landscape envelope canvas.
func Envelope() Canvas { return Canvas{Width: EnvelopeWidth, Height: EnvelopeHeight} }

// Area returns Width*Height.
func (c Canvas) Area() float64 { return c.Width * c.Height }

// Inches returns the canvas size in inches.
func (c Canvas) Inches() (w, h float64) {
	return c.Width / PointsPerInch, c.Height / PointsPerInch
}

// PixelSize returns the raster size of the canvas at dpi.
func (c Canvas) PixelSize(dpi int) (w, h int) {
	return Pixels(c.Width, dpi), Pixels(c.Height, dpi)
}

// Pixels converts a length in points to whole pixels at dpi.
func Pixels(points float64, dpi int) int {
	return int(math.Round(points / PointsPerInch * float64(dpi)))
}

// Rect is an axis-aligned box in points.
type Rect struct {
	X, Y, Width, Height float64
}

// Area returns Width*Height.
func (r Rect) Area() float64 { return r.Width * r.Height }

// Within reports whether r lies entirely inside c.
func (r Rect) Within(c Canvas) bool {
	const eps = 1e-9
	return r.X >= -eps && r.Y >= -eps &&
		r.X+r.Width <= c.Width+eps && r.Y+r.Height <= c.Height+eps
}

// SafeArea returns the canvas inset by the safe margin on every side.
func (c Canvas) SafeArea() Rect {
	return Rect{
		X:      SafeMargin,
		Y:      SafeMargin,
		Width:  c.Width - 2*SafeMargin,
		Height: c.Height - 2*SafeMargin,
	}
}

var scaleFactors = map[card.ImageScale]float64{
	card.ScaleFull:   1.0,
	card.ScaleLarge:  0.9,
	card.ScaleMedium: 0.8,
	card.ScaleSmall:  0.6,
}

// ScaleFactor returns the image scale as a fraction of the canvas. Unknown
// scales are treated as full.
func ScaleFactor(s card.ImageScale) float64 {
	if f, ok := scaleFactors[s]; ok {
		return f
	}
	return 1.0
}

// ImageBox returns where the artwork is drawn. The box keeps the canvas
// aspect ratio, scaled uniformly, and is placed by the two anchors.
func ImageBox(c Canvas, s card.ImageScale, v card.VerticalPosition, h card.HorizontalPosition) Rect {
	f := ScaleFactor(s)
	r := Rect{Width: c.Width * f, Height: c.Height * f}

	switch h {
	case card.AnchorLeft:
		r.X = 0
	case card.AnchorRight:
		r.X = c.Width - r.Width
	default:
		r.X = (c.Width - r.Width) / 2
	}

	switch v {
	case card.AnchorTop:
		r.Y = 0
	case card.AnchorBottom:
		r.Y = c.Height - r.Height
	default:
		r.Y = (c.Height - r.Height) / 2
	}
	return r
}

// TextAnchor is the SVG text-anchor value for an alignment.
type TextAnchor string

const (
	AnchorStart  TextAnchor = "start"
	AnchorMiddle TextAnchor = "middle"
	AnchorEnd    TextAnchor = "end"
)

// CaptionAnchor locates the front caption block.
//
// Y is the bottom edge of the block for bottom captions, the top edge for top
// captions and the block's vertical center for centered captions.
type CaptionAnchor struct {
	X, Y     float64
	Anchor   TextAnchor
	Position card.TextPosition
	MaxWidth float64
}

// Caption resolves the caption anchor for a text position and alignment.
func Caption(c Canvas, pos card.TextPosition, align card.Alignment) CaptionAnchor {
	a := CaptionAnchor{
		Position: pos,
		MaxWidth: c.Width - 2*SafeMargin,
	}
	a.X, a.Anchor = Horizontal(c, align)

	switch pos {
	case card.TextTop:
		a.Y = SafeMargin + CaptionPadding
	case card.TextCenter:
		a.Y = c.Height / 2
	default:
		a.Position = card.TextBottom
		a.Y = c.Height - SafeMargin - CaptionPadding
	}
	return a
}

// Horizontal returns the x coordinate and text anchor for an alignment
// within the safe area of c.
func Horizontal(c Canvas, align card.Alignment) (float64, TextAnchor) {
	switch align {
	case card.AlignLeft:
		return SafeMargin, AnchorStart
	case card.AlignRight:
		return c.Width - SafeMargin, AnchorEnd
	default:
		return c.Width / 2, AnchorMiddle
	}
}

// BodyFace maps a font family key to its print face.
func BodyFace(f card.FontFamily) fonts.Face {
	return fonts.Lookup(fonts.Body(), string(f))
}

// SignatureFace maps a signature font key to its print face.
func SignatureFace(f card.SignatureFont) fonts.Face {
	return fonts.Lookup(fonts.Signatures(), string(f))
}

// Resolved is a layout with every option normalized and every geometric
// quantity computed.
type Resolved struct {
	Canvas     Canvas
	Scale      card.ImageScale
	ImageBox   Rect
	Alignment  card.Alignment
	Position   card.TextPosition
	Caption    CaptionAnchor
	Overlay    card.OverlayStyle
	Frame      card.FrameStyle
	Body       fonts.Face
	Signature  fonts.Face
	Background string

	// BackgroundSet reports whether the design chose a valid background
	// colour rather than taking the default.
	BackgroundSet bool
}

// Resolve normalizes l and computes its card geometry.
func Resolve(l card.Layout) Resolved {
	c := Card()
	r := Resolved{
		Canvas:     c,
		Scale:      pick(l.ImageScale, card.ScaleFull, card.ImageScales...),
		Alignment:  pick(l.Alignment, card.AlignCenter, card.AlignLeft, card.AlignRight),
		Position:   pick(l.TextPosition, card.TextBottom, card.TextTop, card.TextCenter),
		Overlay:    pick(l.OverlayStyle, card.OverlayNone, card.OverlayGradient, card.OverlayScrim, card.OverlayFrame),
		Frame:      pick(l.FrameStyle, card.FrameThin, card.FrameStyles...),
		Body:       BodyFace(l.FontFamily),
		Signature:  SignatureFace(l.SignatureFont),
		Background: Color(l.BackgroundColor, card.DefaultBackgroundColor),
	}
	r.BackgroundSet = hexColor.MatchString(strings.TrimSpace(l.BackgroundColor))
	v := pick(l.ImageVerticalPosition, card.AnchorMiddle, card.VerticalPositions...)
	h := pick(l.ImageHorizontalPosition, card.AnchorCenter, card.HorizontalPositions...)
	r.ImageBox = ImageBox(c, r.Scale, v, h)
	r.Caption = Caption(c, r.Position, r.Alignment)
	return r
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Color returns s as an upper-case hex color, or def when s is not one.
func Color(s, def string) string {
	s = strings.TrimSpace(s)
	if !hexColor.MatchString(s) {
		return def
	}
	return strings.ToUpper(s)
}

func pick[T comparable](v, def T, allowed ...T) T {
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return def
}
