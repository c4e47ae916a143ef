package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os/exec"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/artwork"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/cache"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/card"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/errors"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render"
)

func quietLogger() *log.Logger { return log.New(&bytes.Buffer{}) }

// offlineEngine fails every artwork fetch, so pages use the fallback
// background and tests need no network.
func offlineEngine() *render.Engine {
	src := artwork.SourceFunc(func(context.Context, string) ([]byte, error) {
		return nil, errors.New(errors.ErrCodeNetwork, "offline")
	})
	return render.NewEngine(src, render.WithLogger(quietLogger()))
}

// pngArtwork returns a small encoded PNG.
func pngArtwork(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 50, 70))
	for y := range 70 {
		for x := range 50 {
			img.Set(x, y, color.NRGBA{R: 120, G: uint8(x * 5), B: 160, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// flakyEngine serves art while up is set and fails every fetch otherwise.
func flakyEngine(art []byte, up *atomic.Bool, opts ...render.EngineOption) *render.Engine {
	src := artwork.SourceFunc(func(context.Context, string) ([]byte, error) {
		if !up.Load() {
			return nil, errors.New(errors.ErrCodeNetwork, "cdn unavailable")
		}
		return art, nil
	})
	return render.NewEngine(src, append([]render.EngineOption{render.WithLogger(quietLogger())}, opts...)...)
}

func testDesign(id string) card.Design {
	return card.Design{
		ID:    id,
		Image: card.Image{URL: "https://cdn.example.com/" + id + ".jpg"},
		Text: card.Text{
			FrontCaption: "Thinking of you",
			InsideProse:  "Sending warm thoughts your way.",
			Signature:    "Love, Nana",
		},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"pdf", false},
		{"svg", false},
		{"png", false},
		{"json", true},
		{"PDF", true}, // case-sensitive
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats(" PDF, png,pdf,,svg ")
	if err != nil {
		t.Fatal(err)
	}
	if fmt.Sprint(got) != "[pdf png svg]" {
		t.Errorf("ParseFormats = %v", got)
	}
	if _, err := ParseFormats("pdf,gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("gif: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatPDF || o.DPI != DefaultDPI || o.Logger == nil {
		t.Errorf("defaults = %+v", o)
	}

	bad := Options{DPI: 5000}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("dpi 5000: %v", err)
	}
}

func TestArtifactNames(t *testing.T) {
	o := Options{Formats: []string{"pdf", "svg", "png"}}
	got := fmt.Sprint(o.artifactNames(2))
	if got != "[pdf svg/1 svg/2 png/1 png/2]" {
		t.Errorf("artifactNames = %s", got)
	}
}

func TestFilenames(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{CardFilename("ord_0123456789abcdef", "d1"), "card-89abcdef.pdf"},
		{CardFilename("", "d1"), "whispering-art-card-d1.pdf"},
		{CardFilename("", ""), "whispering-art-card-preview.pdf"},
		{EnvelopeFilename("ord_0123456789abcdef"), "envelope-89abcdef.pdf"},
		{EnvelopeFilename("abc"), "envelope-abc.pdf"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}

	r := &Result{Filename: "card-89abcdef.pdf"}
	if got := r.FileName("png/2"); got != "card-89abcdef-2.png" {
		t.Errorf("FileName(png/2) = %q", got)
	}
	if got := r.FileName("pdf"); got != "card-89abcdef.pdf" {
		t.Errorf("FileName(pdf) = %q", got)
	}
}

func TestRenderCardSVG(t *testing.T) {
	runner := NewRunner(offlineEngine(), nil, nil, quietLogger())
	d := testDesign("d1")
	res, err := runner.RenderCard(context.Background(), &d, "order-0001", Options{Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit || res.Document == nil {
		t.Fatal("first render should compose")
	}
	if res.Stats.Pages != 2 || len(res.Artifacts) != 2 {
		t.Errorf("pages %d, artifacts %d", res.Stats.Pages, len(res.Artifacts))
	}
	if !bytes.Contains(res.Artifacts["svg/1"], []byte("Thinking of you")) {
		t.Error("front artifact missing caption")
	}
	if res.Filename != "card-der-0001.pdf" {
		t.Errorf("filename %q", res.Filename)
	}
}

func TestRenderCardCached(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var up atomic.Bool
	up.Store(true)
	runner := NewRunner(flakyEngine(pngArtwork(t), &up), fc, nil, quietLogger())
	ctx := context.Background()
	d := testDesign("d1")
	opts := Options{Formats: []string{FormatSVG}}

	first, err := runner.RenderCard(ctx, &d, "o1", opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := runner.RenderCard(ctx, &d, "o1", opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit || second.Document != nil {
		t.Error("second render should come from cache")
	}
	if !bytes.Equal(first.Artifacts["svg/2"], second.Artifacts["svg/2"]) {
		t.Error("cached artifact differs")
	}

	// A different order id is a different tag, so a different artifact.
	other, _ := runner.RenderCard(ctx, &d, "o2", opts)
	if other.CacheHit {
		t.Error("different order should miss")
	}

	// Changing the design changes the key.
	d.Text.FrontCaption = "Get well soon"
	changed, _ := runner.RenderCard(ctx, &d, "o1", opts)
	if changed.CacheHit {
		t.Error("edited design should miss")
	}

	refreshed, _ := runner.RenderCard(ctx, &d, "o1", Options{Formats: []string{FormatSVG}, Refresh: true})
	if refreshed.CacheHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestDegradedRenderNotCached(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var up atomic.Bool
	runner := NewRunner(flakyEngine(pngArtwork(t), &up), fc, nil, quietLogger())
	ctx := context.Background()
	d := testDesign("d1")
	opts := Options{Formats: []string{FormatSVG}}

	down, err := runner.RenderCard(ctx, &d, "o1", opts)
	if err != nil {
		t.Fatal(err)
	}
	if !down.Degraded || !bytes.Contains(down.Artifacts["svg/1"], []byte("artwork-fallback")) {
		t.Fatal("render without artwork should be degraded")
	}

	up.Store(true)
	recovered, err := runner.RenderCard(ctx, &d, "o1", opts)
	if err != nil {
		t.Fatal(err)
	}
	if recovered.CacheHit {
		t.Fatal("fallback print was served from cache after artwork recovered")
	}
	if recovered.Degraded || !bytes.Contains(recovered.Artifacts["svg/1"], []byte(`class="artwork"`)) {
		t.Error("recovered render should carry the artwork")
	}

	again, err := runner.RenderCard(ctx, &d, "o1", opts)
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheHit || !bytes.Equal(again.Artifacts["svg/1"], recovered.Artifacts["svg/1"]) {
		t.Error("complete render should be cached")
	}
}

func TestEngineSettingsInCacheKey(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var up atomic.Bool
	up.Store(true)
	art := pngArtwork(t)
	ctx := context.Background()
	opts := Options{Formats: []string{FormatSVG}}
	rcpt := card.RecipientAddress{Name: "John Smith", AddressLine1: "123 Main St", City: "NY", State: "NY", ZipCode: "10001"}

	envelope := func(lines ...string) *Result {
		t.Helper()
		r := NewRunner(flakyEngine(art, &up, render.WithReturnAddress(lines...)), fc, nil, quietLogger())
		res, err := r.RenderEnvelope(ctx, &rcpt, "abc12345", opts)
		if err != nil {
			t.Fatal(err)
		}
		return res
	}
	if first := envelope("Nana", "2 Oak Ln"); first.CacheHit {
		t.Fatal("empty cache should miss")
	}
	moved := envelope("Nana", "9 Elm Rd")
	if moved.CacheHit || !bytes.Contains(moved.Artifacts["svg/1"], []byte("9 Elm Rd")) {
		t.Error("changed return address served a stale envelope")
	}
	if same := envelope("Nana", "2 Oak Ln"); !same.CacheHit {
		t.Error("unchanged settings should hit")
	}

	cardWith := func(eo ...render.EngineOption) *Result {
		t.Helper()
		r := NewRunner(flakyEngine(art, &up, eo...), fc, nil, quietLogger())
		d := testDesign("d9")
		res, err := r.RenderCard(ctx, &d, "o9", opts)
		if err != nil {
			t.Fatal(err)
		}
		return res
	}
	cardWith(render.WithAttribution("Art by Nana"))
	if res := cardWith(render.WithAttribution("Art by June")); res.CacheHit {
		t.Error("changed attribution served a stale card")
	}
	if res := cardWith(render.WithAttribution("Art by June"), render.WithDPI(150)); res.CacheHit {
		t.Error("changed artwork DPI served a stale card")
	}
}

func TestRenderCardInvalid(t *testing.T) {
	runner := NewRunner(offlineEngine(), nil, nil, quietLogger())
	d := testDesign("d1")
	d.Text.InsideProse = ""
	if _, err := runner.RenderCard(context.Background(), &d, "o", Options{Formats: []string{FormatSVG}}); !errors.Is(err, errors.ErrCodeInvalidDesign) {
		t.Errorf("err = %v", err)
	}

	// Order ids become file names, so traversal is rejected before rendering.
	ok := testDesign("d2")
	if _, err := runner.RenderCard(context.Background(), &ok, "../../etc/x", Options{Formats: []string{FormatSVG}}); !errors.Is(err, errors.ErrCodeInvalidOrder) {
		t.Errorf("traversal order id: %v", err)
	}
}

func TestRenderEnvelopeSVG(t *testing.T) {
	runner := NewRunner(offlineEngine(), nil, nil, quietLogger())
	rcpt := card.RecipientAddress{Name: "John Smith", AddressLine1: "123 Main St", City: "NY", State: "NY", ZipCode: "10001"}
	res, err := runner.RenderEnvelope(context.Background(), &rcpt, "abc12345", Options{Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Artifacts) != 1 || !bytes.Contains(res.Artifacts["svg/1"], []byte("#12345")) {
		t.Errorf("envelope artifacts: %d", len(res.Artifacts))
	}
	if res.Filename != "envelope-abc12345.pdf" {
		t.Errorf("filename %q", res.Filename)
	}
	if _, err := runner.RenderEnvelope(context.Background(), nil, "x", Options{}); !errors.Is(err, errors.ErrCodeInvalidAddress) {
		t.Errorf("nil recipient: %v", err)
	}
}

func TestBatchIsolatesFailures(t *testing.T) {
	runner := NewRunner(offlineEngine(), nil, nil, quietLogger())
	var orders []card.Order
	for i := range 6 {
		d := testDesign(fmt.Sprintf("d%d", i))
		if i == 2 {
			d.Text.FrontCaption = ""
		}
		orders = append(orders, card.Order{ID: fmt.Sprintf("order-%08d", i), CardDesign: d})
	}

	start := time.Now()
	results := runner.Batch(context.Background(), KindCards, orders, Options{Formats: []string{FormatSVG}}, 3)
	if len(results) != len(orders) {
		t.Fatalf("results = %d", len(results))
	}
	for i, r := range results {
		if r.OrderID != orders[i].ID {
			t.Errorf("result %d is for %s", i, r.OrderID)
		}
		if i == 2 {
			if !errors.Is(r.Err, errors.ErrCodeInvalidDesign) || r.Result != nil {
				t.Errorf("order 2: %+v", r)
			}
			continue
		}
		if r.Err != nil || r.Result == nil {
			t.Errorf("order %d failed: %v", i, r.Err)
		}
	}

	s := Summarize(results, time.Since(start))
	if s.Total != 6 || s.Succeeded != 5 || s.Failed != 1 {
		t.Errorf("summary %+v", s)
	}
}

func TestBatchEnvelopes(t *testing.T) {
	runner := NewRunner(offlineEngine(), nil, nil, quietLogger())
	orders := []card.Order{
		{ID: "a1", Recipient: card.RecipientAddress{Name: "A", AddressLine1: "1 St"}},
		{ID: "b2", Recipient: card.RecipientAddress{}},
	}
	results := runner.Batch(context.Background(), KindEnvelopes, orders, Options{Formats: []string{FormatSVG}}, 0)
	if results[0].Err != nil || results[1].Err == nil {
		t.Errorf("results: %v / %v", results[0].Err, results[1].Err)
	}
}

func TestBatchCanceled(t *testing.T) {
	runner := NewRunner(offlineEngine(), nil, nil, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := testDesign("d")
	results := runner.Batch(ctx, KindCards, []card.Order{{ID: "x", CardDesign: d}}, Options{}, 1)
	if results[0].Err == nil {
		t.Error("canceled batch should report the context error")
	}
}

func TestParseBatchKind(t *testing.T) {
	tests := []struct {
		in   string
		want BatchKind
		err  bool
	}{
		{"cards", KindCards, false},
		{"downloadCards", KindCards, false},
		{"envelopes", KindEnvelopes, false},
		{"downloadEnvelopes", KindEnvelopes, false},
		{"stickers", "", true},
	}
	for _, tt := range tests {
		got, err := ParseBatchKind(tt.in)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("ParseBatchKind(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestRenderCardPDF(t *testing.T) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		t.Skip("rsvg-convert not installed")
	}
	runner := NewRunner(offlineEngine(), nil, nil, quietLogger())
	d := testDesign("d1")
	res, err := runner.RenderCard(context.Background(), &d, "", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(res.PDF(), []byte("%PDF")) {
		t.Error("not a PDF")
	}
	if res.Filename != "whispering-art-card-d1.pdf" {
		t.Errorf("filename %q", res.Filename)
	}
}
