package fonts

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

func TestMeasureMonotonic(t *testing.T) {
	short := Cormorant.Measure("Love", 14)
	long := Cormorant.Measure("Love always", 14)
	if short <= 0 || long <= short {
		t.Fatalf("widths: short=%v long=%v", short, long)
	}
	if big := Cormorant.Measure("Love", 28); big <= short*1.9 || big >= short*2.1 {
		t.Errorf("doubling size should roughly double width: %v vs %v", big, short)
	}
}

func TestMeasureUsesDrawnFace(t *testing.T) {
	const s = "With love, always"
	for _, f := range append(faces(Signatures()), Cormorant, LibreBaskerville, Sans, SansBold) {
		ttf, err := opentype.Parse(f.TTF())
		if err != nil {
			t.Fatalf("%s: embedded data does not parse: %v", f.Key, err)
		}
		face, err := opentype.NewFace(ttf, &opentype.FaceOptions{Size: 20, DPI: 72, Hinting: font.HintingNone})
		if err != nil {
			t.Fatal(err)
		}
		want := float64(font.MeasureString(face, s)) / 64
		face.Close()
		if got := f.Measure(s, 20); got != want {
			t.Errorf("%s: Measure = %v, embedded face measures %v", f.Key, got, want)
		}
	}
}

func TestSignatureFacesDistinct(t *testing.T) {
	seen := map[[sha256.Size]byte]string{}
	for key, f := range Signatures() {
		data := f.TTF()
		if len(data) == 0 {
			t.Fatalf("%s: no font data", key)
		}
		sum := sha256.Sum256(data)
		if other, ok := seen[sum]; ok {
			t.Errorf("%s and %s draw with the same font data", key, other)
		}
		seen[sum] = key
	}
}

func TestFontFaceCSS(t *testing.T) {
	css := GreatVibes.FontFaceCSS()
	for _, want := range []string{
		"@font-face{font-family:'Great Vibes'",
		"font-style:italic",
		"font-weight:400",
		"src:url(data:font/ttf;base64," + GreatVibes.Base64() + ")",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("FontFaceCSS missing %q", want)
		}
	}
	if !strings.Contains(SansBold.FontFaceCSS(), "font-weight:700") {
		t.Error("bold weight not declared")
	}
	if (Face{Family: "Nothing"}).FontFaceCSS() != "" {
		t.Error("a face without data should declare nothing")
	}
}

func TestSubstituteWhenPrintFileMissing(t *testing.T) {
	s := newSource("NoSuchFace-Regular.ttf", Sans.TTF())
	f := Face{Key: "x", Family: "X", src: s}
	if f.Printed() {
		t.Error("missing print file reported as printed")
	}
	if !bytes.Equal(f.TTF(), Sans.TTF()) {
		t.Error("substitute data not used")
	}
}

func TestMeasureEmpty(t *testing.T) {
	if w := Sans.Measure("", 12); w != 0 {
		t.Errorf("empty string width = %v", w)
	}
	if w := Sans.Measure("x", 0); w != 0 {
		t.Errorf("zero size width = %v", w)
	}
}

func TestMeasureConcurrent(t *testing.T) {
	want := GreatVibes.Measure("Love, Nana", 32)
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := GreatVibes.Measure("Love, Nana", 32); got != want {
				t.Errorf("concurrent measure = %v, want %v", got, want)
			}
		}()
	}
	wg.Wait()
}

func TestLookup(t *testing.T) {
	tests := []struct {
		catalog map[string]Face
		key     string
		family  string
	}{
		{Body(), "cormorant", "Cormorant Garamond"},
		{Body(), "libreBaskerville", "Libre Baskerville"},
		{Signatures(), "greatVibes", "Great Vibes"},
		{Signatures(), " dancingScript ", "Dancing Script"},
		{Body(), "playfair", "Cormorant Garamond"},
		{Signatures(), "", "Cormorant Garamond"},
	}
	for _, tt := range tests {
		if got := Lookup(tt.catalog, tt.key).Family; got != tt.family {
			t.Errorf("Lookup(%q) = %q, want %q", tt.key, got, tt.family)
		}
	}
	if len(Signatures()) != 6 || len(Body()) != 2 {
		t.Error("catalog sizes changed")
	}
}

func faces(m map[string]Face) []Face {
	out := make([]Face, 0, len(m))
	for _, f := range m {
		out = append(out, f)
	}
	return out
}

func ExampleFace_CSS() {
	fmt.Println(Allura.CSS())
	// Output: 'Allura', cursive
}
