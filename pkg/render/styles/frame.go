package styles

import (
	"bytes"
	"fmt"
	"math"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/card"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render/layout"
)

// Frame geometry in points.
const (
	ThickBorder   = 14.0
	ThinBorder    = 3.0
	CornerArm     = 48.0
	CornerStroke  = 4.0
	CornerInset   = layout.SafeMargin
	vignetteAlpha = 0.6
)

// ShapeKind distinguishes how a frame shape is painted.
type ShapeKind int

const (
	// StrokeRect outlines Rect with StrokeWidth, centered on the rect edge.
	StrokeRect ShapeKind = iota
	// Polyline strokes Points with StrokeWidth.
	Polyline
	// FillRect fills Rect with the frame's gradient.
	FillRect
)

// Point is a coordinate in points.
type Point struct{ X, Y float64 }

// Shape is one painted element of a frame treatment.
type Shape struct {
	Kind        ShapeKind
	Rect        layout.Rect
	Points      []Point
	StrokeWidth float64
	Color       string
	Opacity     float64
}

// Bounds returns the painted extent of the shape including its stroke.
func (s Shape) Bounds() layout.Rect {
	half := s.StrokeWidth / 2
	switch s.Kind {
	case Polyline:
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, p := range s.Points {
			minX, maxX = min(minX, p.X), max(maxX, p.X)
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		}
		return layout.Rect{X: minX - half, Y: minY - half, Width: maxX - minX + s.StrokeWidth, Height: maxY - minY + s.StrokeWidth}
	case StrokeRect:
		return layout.Rect{X: s.Rect.X - half, Y: s.Rect.Y - half, Width: s.Rect.Width + s.StrokeWidth, Height: s.Rect.Height + s.StrokeWidth}
	}
	return s.Rect
}

// FrameShapes returns the shapes that make up a frame style on canvas c.
// Unknown styles resolve to thin.
func FrameShapes(style card.FrameStyle, c layout.Canvas) []Shape {
	switch style {
	case card.FrameThick:
		return []Shape{
			insetStroke(c, 0, ThickBorder, Parchment, 0.9),
			insetStroke(c, ThickBorder, 1.5, Ink, 0.25),
		}
	case card.FrameVignette:
		return []Shape{{
			Kind:    FillRect,
			Rect:    layout.Rect{Width: c.Width, Height: c.Height},
			Color:   Ink,
			Opacity: vignetteAlpha,
		}}
	case card.FrameCorners:
		return cornerShapes(c)
	default:
		return []Shape{insetStroke(c, 0, ThinBorder, Parchment, 0.95)}
	}
}

// insetStroke places a stroked rectangle whose outer edge sits inset points
// inside the canvas edge.
func insetStroke(c layout.Canvas, inset, width float64, color string, opacity float64) Shape {
	off := inset + width/2
	return Shape{
		Kind:        StrokeRect,
		Rect:        layout.Rect{X: off, Y: off, Width: c.Width - 2*off, Height: c.Height - 2*off},
		StrokeWidth: width,
		Color:       color,
		Opacity:     opacity,
	}
}

func cornerShapes(c layout.Canvas) []Shape {
	l, t := CornerInset, CornerInset
	r, b := c.Width-CornerInset, c.Height-CornerInset
	bracket := func(pts ...Point) Shape {
		return Shape{Kind: Polyline, Points: pts, StrokeWidth: CornerStroke, Color: Parchment, Opacity: 0.9}
	}
	return []Shape{
		bracket(Point{l, t + CornerArm}, Point{l, t}, Point{l + CornerArm, t}),
		bracket(Point{r - CornerArm, t}, Point{r, t}, Point{r, t + CornerArm}),
		bracket(Point{r, b - CornerArm}, Point{r, b}, Point{r - CornerArm, b}),
		bracket(Point{l + CornerArm, b}, Point{l, b}, Point{l, b - CornerArm}),
	}
}

// RenderFrame writes the frame's gradient definitions and shapes.
func RenderFrame(buf *bytes.Buffer, style card.FrameStyle, c layout.Canvas) {
	for i, s := range FrameShapes(style, c) {
		switch s.Kind {
		case StrokeRect:
			fmt.Fprintf(buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-opacity="%.2f" stroke-width="%.2f"/>`+"\n",
				s.Rect.X, s.Rect.Y, s.Rect.Width, s.Rect.Height, s.Color, s.Opacity, s.StrokeWidth)
		case Polyline:
			buf.WriteString(`  <polyline points="`)
			for j, p := range s.Points {
				if j > 0 {
					buf.WriteByte(' ')
				}
				fmt.Fprintf(buf, "%.2f,%.2f", p.X, p.Y)
			}
			fmt.Fprintf(buf, `" fill="none" stroke="%s" stroke-opacity="%.2f" stroke-width="%.2f" stroke-linejoin="miter" stroke-linecap="butt"/>`+"\n",
				s.Color, s.Opacity, s.StrokeWidth)
		case FillRect:
			id := fmt.Sprintf("vignette-%d", i)
			fmt.Fprintf(buf, `  <defs><radialGradient id="%s" cx="50%%" cy="50%%" r="70%%">`, id)
			fmt.Fprintf(buf, `<stop offset="0.55" stop-color="%s" stop-opacity="0"/>`, s.Color)
			fmt.Fprintf(buf, `<stop offset="1" stop-color="%s" stop-opacity="%.2f"/>`, s.Color, s.Opacity)
			buf.WriteString("</radialGradient></defs>\n")
			fmt.Fprintf(buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="url(#%s)"/>`+"\n",
				s.Rect.X, s.Rect.Y, s.Rect.Width, s.Rect.Height, id)
		}
	}
}
