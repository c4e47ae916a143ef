package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os/exec"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/artwork"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/card"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/errors"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render/sink"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 60))
	for y := range 60 {
		for x := range 40 {
			img.Set(x, y, color.NRGBA{R: 200, G: uint8(y * 4), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testDesign() *card.Design {
	return &card.Design{
		ID:     "design-1",
		Intent: card.Intent{Occasion: card.OccasionBirthday, SenderName: "Grandma Rose"},
		Image:  card.Image{URL: "https://cdn.example.com/roses.png"},
		Text: card.Text{
			FrontCaption: "Happy Birthday",
			InsideProse:  "Wishing you a year as bright as you are.",
			Signature:    "With love, Grandma",
		},
		Layout: card.Layout{OverlayStyle: card.OverlayGradient, FrameStyle: card.FrameThin},
	}
}

func staticSource(data []byte, err error) artwork.Source {
	return artwork.SourceFunc(func(context.Context, string) ([]byte, error) { return data, err })
}

func TestComposeCard(t *testing.T) {
	e := NewEngine(staticSource(pngBytes(t), nil))
	doc, err := e.ComposeCard(context.Background(), testDesign(), "order-abc12345")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Kind != sink.KindCard || doc.PageCount() != 2 {
		t.Fatalf("kind %s with %d pages", doc.Kind, doc.PageCount())
	}
	front, inside := doc.Pages[0], doc.Pages[1]
	if front.Width != inside.Width || front.Height != inside.Height {
		t.Error("front and inside must share the canvas size")
	}
	if !bytes.Contains(front.SVG, []byte("<image")) || doc.Degraded {
		t.Error("front should embed the artwork")
	}
	if !bytes.Contains(front.SVG, []byte("#12345")) || !bytes.Contains(inside.SVG, []byte("#12345")) {
		t.Error("order tag should appear on both pages")
	}
	if !bytes.Contains(inside.SVG, []byte("Grandma")) {
		t.Error("signature missing from inside page")
	}
}

func TestComposeCardArtworkFailureFallsBack(t *testing.T) {
	var logs bytes.Buffer
	src := staticSource(nil, errors.New(errors.ErrCodeNetwork, "connection refused"))
	e := NewEngine(src, WithLogger(log.New(&logs)))

	doc, err := e.ComposeCard(context.Background(), testDesign(), "order-1")
	if err != nil {
		t.Fatalf("artwork failure must not fail the render: %v", err)
	}
	if doc.PageCount() != 2 {
		t.Fatalf("pages = %d", doc.PageCount())
	}
	front := doc.Pages[0].SVG
	if !bytes.Contains(front, []byte(`class="artwork-fallback"`)) || !doc.Degraded {
		t.Error("missing fallback background")
	}
	if !bytes.Contains(front, []byte("Happy Birthday")) {
		t.Error("caption should still be drawn")
	}
	out := logs.String()
	for _, want := range []string{"WARN", "order=order-1", "ref=", "err="} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}
}

func TestComposeCardUndecodableArtwork(t *testing.T) {
	e := NewEngine(staticSource([]byte("<html>404</html>"), nil), WithLogger(log.New(&bytes.Buffer{})))
	doc, err := e.ComposeCard(context.Background(), testDesign(), "")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(doc.Pages[0].SVG, []byte("artwork-fallback")) || !doc.Degraded {
		t.Error("undecodable artwork should fall back")
	}
}

func TestComposeCardInvalidDesign(t *testing.T) {
	e := NewEngine(staticSource(pngBytes(t), nil))
	tests := []struct {
		name   string
		mutate func(*card.Design)
	}{
		{"no caption", func(d *card.Design) { d.Text.FrontCaption = "  " }},
		{"no prose", func(d *card.Design) { d.Text.InsideProse = "" }},
		{"no image", func(d *card.Design) { d.Image = card.Image{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDesign()
			tt.mutate(d)
			doc, err := e.ComposeCard(context.Background(), d, "o")
			if !errors.Is(err, errors.ErrCodeInvalidDesign) {
				t.Errorf("err = %v", err)
			}
			if doc.PageCount() != 0 {
				t.Error("no pages should be produced for an invalid design")
			}
		})
	}
	if _, err := e.ComposeCard(context.Background(), nil, ""); !errors.Is(err, errors.ErrCodeInvalidDesign) {
		t.Errorf("nil design: %v", err)
	}
}

func TestComposeCardDeterministic(t *testing.T) {
	e := NewEngine(staticSource(pngBytes(t), nil))
	a, err := e.ComposeCard(context.Background(), testDesign(), "o-1")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := e.ComposeCard(context.Background(), testDesign(), "o-1")
	for i := range a.Pages {
		if !bytes.Equal(a.Pages[i].SVG, b.Pages[i].SVG) {
			t.Errorf("page %d differs between identical renders", i+1)
		}
	}
}

func TestComposeCardAttribution(t *testing.T) {
	e := NewEngine(staticSource(pngBytes(t), nil), WithAttribution("Art by Nana"))
	doc, err := e.ComposeCard(context.Background(), testDesign(), "")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(doc.Pages[1].SVG, []byte("Art by Nana")) {
		t.Error("custom attribution not used")
	}
}

func TestComposeEnvelope(t *testing.T) {
	e := NewEngine(nil, WithReturnAddress("Whispering Art", "PO Box 1"))
	rcpt := &card.RecipientAddress{Name: "John Smith", AddressLine1: "123 Main St", City: "NY", State: "NY", ZipCode: "10001"}
	doc, err := e.ComposeEnvelope(context.Background(), rcpt, "abc12345")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Kind != sink.KindEnvelope || doc.PageCount() != 1 {
		t.Fatalf("kind %s with %d pages", doc.Kind, doc.PageCount())
	}
	p := doc.Pages[0]
	if p.Width <= p.Height {
		t.Error("envelope must be landscape")
	}
	for _, want := range []string{"#12345", "PO Box 1", "John Smith", "NY, NY 10001"} {
		if !bytes.Contains(p.SVG, []byte(want)) {
			t.Errorf("envelope missing %q", want)
		}
	}
}

func TestComposeEnvelopeInvalid(t *testing.T) {
	e := NewEngine(nil)
	for _, rcpt := range []*card.RecipientAddress{nil, {City: "NY"}} {
		if _, err := e.ComposeEnvelope(context.Background(), rcpt, "o"); !errors.Is(err, errors.ErrCodeInvalidAddress) {
			t.Errorf("ComposeEnvelope(%+v) err = %v", rcpt, err)
		}
	}
}

func TestConverterMissing(t *testing.T) {
	c := &Converter{Path: "definitely-not-rsvg-convert"}
	if c.Available() {
		t.Fatal("bogus binary reported available")
	}
	_, err := c.ToPDF(context.Background(), sink.Page{SVG: []byte("<svg/>")})
	if !errors.Is(err, errors.ErrCodeConverter) {
		t.Errorf("err = %v", err)
	}
	if _, err := c.ToPDF(context.Background()); !errors.Is(err, errors.ErrCodeRender) {
		t.Errorf("no pages: %v", err)
	}
}

func requireRSVG(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		t.Skip("rsvg-convert not installed")
	}
}

func TestRenderCardPDF(t *testing.T) {
	requireRSVG(t)
	e := NewEngine(staticSource(pngBytes(t), nil))
	pdf, err := e.RenderCard(context.Background(), testDesign(), "order-1")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("not a PDF: %q", pdf[:min(len(pdf), 16)])
	}
}

func TestRenderEnvelopePDF(t *testing.T) {
	requireRSVG(t)
	rcpt := &card.RecipientAddress{Name: "Jane", AddressLine1: "1 Elm", City: "Salem", State: "OR", ZipCode: "97301"}
	pdf, err := NewEngine(nil).RenderEnvelope(context.Background(), rcpt, "x")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("not a PDF")
	}
}

func TestToPNGSize(t *testing.T) {
	requireRSVG(t)
	e := NewEngine(staticSource(pngBytes(t), nil))
	doc, err := e.ComposeCard(context.Background(), testDesign(), "")
	if err != nil {
		t.Fatal(err)
	}
	out, err := ToPNG(context.Background(), doc.Pages[0], 150)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 750 || cfg.Height != 1050 {
		t.Errorf("PNG %dx%d, want 750x1050", cfg.Width, cfg.Height)
	}
}
