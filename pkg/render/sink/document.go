package sink

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/fonts"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render/layout"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render/styles"
)

// Kind names the kind of document.
type Kind string

const (
	KindCard     Kind = "card"
	KindEnvelope Kind = "envelope"
)

// Page is one composed page.
type Page struct {
	Width, Height float64 // points
	SVG           []byte
}

// Document is an ordered set of pages.
type Document struct {
	Kind  Kind
	Pages []Page

	// Degraded is set when a page was drawn with a fallback in place of
	// content that could not be loaded, such as unreachable artwork.
	Degraded bool
}

// PageCount returns the number of pages.
func (d Document) PageCount() int { return len(d.Pages) }

// Artwork is a decoded, cropped raster ready to be placed into the image box.
type Artwork struct {
	Data          []byte
	MediaType     string
	Width, Height int // pixels
}

// DataURI returns the artwork as a base64 data URI.
func (a *Artwork) DataURI() string {
	return "data:" + a.MediaType + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// DefaultAttribution is printed at the foot of every inside page.
const DefaultAttribution = "Illustration © Whispering Art by Nana"

// DefaultReturnAddress is printed on envelopes when none is configured.
var DefaultReturnAddress = []string{"Whispering Art"}

// Option configures page composition.
type Option func(*renderer)

type renderer struct {
	orderID       string
	attribution   string
	returnAddress []string
}

// WithOrderID stamps the order reference tag on the page.
func WithOrderID(id string) Option { return func(r *renderer) { r.orderID = id } }

// WithAttribution replaces the inside-page attribution line.
func WithAttribution(s string) Option {
	return func(r *renderer) {
		if s != "" {
			r.attribution = s
		}
	}
}

// WithReturnAddress replaces the envelope return address lines.
func WithReturnAddress(lines ...string) Option {
	return func(r *renderer) {
		if len(lines) > 0 {
			r.returnAddress = lines
		}
	}
}

func newRenderer(opts ...Option) renderer {
	r := renderer{
		attribution:   DefaultAttribution,
		returnAddress: DefaultReturnAddress,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func openSVG(buf *bytes.Buffer, c layout.Canvas) {
	w, h := c.Inches()
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%sin" height="%sin" viewBox="0 0 %s %s">`+"\n",
		num(w), num(h), num(c.Width), num(c.Height))
}

func closeSVG(buf *bytes.Buffer, c layout.Canvas) Page {
	buf.WriteString("</svg>\n")
	return Page{Width: c.Width, Height: c.Height, SVG: buf.Bytes()}
}

// fontStyles declares every face the page sets text in from its embedded
// data, so the page draws with the font its lines were measured in.
func fontStyles(buf *bytes.Buffer, faces ...fonts.Face) {
	seen := make(map[fonts.Face]bool, len(faces))
	buf.WriteString(`  <defs><style type="text/css">`)
	for _, f := range faces {
		if seen[f] {
			continue
		}
		seen[f] = true
		buf.WriteString(f.FontFaceCSS())
	}
	buf.WriteString("</style></defs>\n")
}

// safeAreaClip defines the "safe-area" clip path for canvas c.
func safeAreaClip(buf *bytes.Buffer, c layout.Canvas) {
	safe := c.SafeArea()
	fmt.Fprintf(buf, `  <defs><clipPath id="safe-area"><rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"/></clipPath></defs>`+"\n",
		safe.X, safe.Y, safe.Width, safe.Height)
}

func num(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	for len(s) > 1 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}

// textBlock is a run of lines set in one face and anchored at x.
type textBlock struct {
	lines      []string
	x, y       float64 // y is the first baseline
	lineHeight float64
	size       float64
	family     string
	style      string
	weight     int
	fill       string
	opacity    float64
	anchor     layout.TextAnchor
	class      string
	extra      string // additional raw attributes
}

func (t textBlock) render(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <text class="%s" font-family="%s" font-size="%.2f" fill="%s" text-anchor="%s"`,
		t.class, styles.EscapeXML(t.family), t.size, t.fill, t.anchor)
	if t.style != "" && t.style != "normal" {
		fmt.Fprintf(buf, ` font-style="%s"`, t.style)
	}
	if t.weight != 0 && t.weight != 400 {
		fmt.Fprintf(buf, ` font-weight="%d"`, t.weight)
	}
	if t.opacity > 0 && t.opacity < 1 {
		fmt.Fprintf(buf, ` fill-opacity="%.2f"`, t.opacity)
	}
	if t.extra != "" {
		buf.WriteString(" " + t.extra)
	}
	buf.WriteString(">")
	for i, line := range t.lines {
		if line == "" {
			continue
		}
		fmt.Fprintf(buf, `<tspan x="%.2f" y="%.2f">%s</tspan>`, t.x, t.y+float64(i)*t.lineHeight, styles.EscapeXML(line))
	}
	buf.WriteString("</text>\n")
}

// Baseline offsets as a fraction of font size, used to place a block of lines
// by its visual edges rather than by baselines.
const (
	ascent  = 0.8
	descent = 0.2
)

func blockHeight(n int, size, lineHeight float64) float64 {
	if n == 0 {
		return 0
	}
	return float64(n-1)*lineHeight + size
}

func renderOrderTag(buf *bytes.Buffer, orderID string, fill string, opacity float64) {
	tag := styles.OrderTag(orderID)
	if tag == "" {
		return
	}
	fmt.Fprintf(buf, `  <text class="order-tag" x="%.2f" y="%.2f" font-family="%s" font-size="6" fill="%s" fill-opacity="%.2f">%s</text>`+"\n",
		layout.SafeMargin/2, layout.SafeMargin/2+6, styles.EscapeXML(sansCSS), fill, opacity, styles.EscapeXML(tag))
}
