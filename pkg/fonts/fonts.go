// Package fonts provides the typefaces printed on cards and measures text set
// in them.
//
// Every face is backed by concrete font data embedded in the binary, so the
// face a layout key names never depends on what the rendering host has
// installed. Print faces (Cormorant Garamond, Libre Baskerville and the six
// signature scripts) are read from ttf/ via go:embed when their files are
// present; a face whose file is absent is pinned to its own bundled Go font
// from golang.org/x/image. Pages declare each face with an @font-face data URI
// and line breaking measures with the same data, so what is measured is what
// is drawn.
package fonts

import (
	"cmp"
	"embed"
	"encoding/base64"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcapsitalic"
	"golang.org/x/image/font/opentype"
)

//go:embed ttf
var printFS embed.FS

// Style is the CSS font-style of a face.
type Style string

const (
	StyleNormal Style = "normal"
	StyleItalic Style = "italic"
)

// Face is a print typeface and the font data used to draw and measure it.
type Face struct {
	Key     string // Layout key, e.g. "cormorant"
	Family  string // CSS family name declared by @font-face
	Generic string // Generic CSS family
	Style   Style  // normal or italic
	Weight  int    // CSS weight

	src *source
}

// CSS returns the font-family declaration value for SVG text.
func (f Face) CSS() string {
	if f.Generic == "" {
		return "'" + f.Family + "'"
	}
	return "'" + f.Family + "', " + f.Generic
}

// TTF returns the font data backing the face.
func (f Face) TTF() []byte {
	if f.src == nil {
		return nil
	}
	return f.src.load().data
}

// Printed reports whether the face is backed by its print font file rather
// than the bundled substitute.
func (f Face) Printed() bool {
	return f.src != nil && f.src.load().printed
}

// Base64 returns the font data as a base64 string.
// The result is cached after first computation.
func (f Face) Base64() string {
	if f.src == nil {
		return ""
	}
	return f.src.load().b64
}

// FontFaceCSS returns an @font-face rule declaring the face from its embedded
// data, or "" for a face without data.
func (f Face) FontFaceCSS() string {
	b64 := f.Base64()
	if b64 == "" {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("@font-face{font-family:'")
	sb.WriteString(f.Family)
	sb.WriteString("';font-style:")
	sb.WriteString(string(f.Style))
	sb.WriteString(";font-weight:")
	sb.WriteString(strconv.Itoa(cmp.Or(f.Weight, 400)))
	sb.WriteString(";src:url(data:font/ttf;base64,")
	sb.WriteString(b64)
	sb.WriteString(") format('truetype');}")
	return sb.String()
}

// Measure returns the advance width of s set at size points.
func (f Face) Measure(s string, size float64) float64 {
	if s == "" || size <= 0 {
		return 0
	}
	var src *opentype.Font
	if f.src != nil {
		src = f.src.load().font
	}
	if src == nil {
		return float64(utf8.RuneCountInString(s)) * size * approxCharWidth
	}
	// A font.Face holds a glyph cache that is not safe for concurrent use.
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return float64(utf8.RuneCountInString(s)) * size * approxCharWidth
	}
	defer face.Close()
	return float64(font.MeasureString(face, s)) / 64
}

// approxCharWidth is the average glyph advance in ems, used only if a face's
// data fails to parse.
const approxCharWidth = 0.5

// source is the font data behind a face: a print file under ttf/ if one was
// embedded, else a bundled substitute. Loaded once.
type source struct {
	file       string
	substitute []byte

	once    sync.Once
	data    []byte
	font    *opentype.Font
	b64     string
	printed bool
}

func (s *source) load() *source {
	s.once.Do(func() {
		if s.file != "" {
			if data, err := printFS.ReadFile("ttf/" + s.file); err == nil {
				if f, err := opentype.Parse(data); err == nil {
					s.data, s.font, s.printed = data, f, true
				}
			}
		}
		if s.font == nil {
			s.data = s.substitute
			s.font, _ = opentype.Parse(s.substitute)
		}
		s.b64 = base64.StdEncoding.EncodeToString(s.data)
	})
	return s
}

func newSource(file string, substitute []byte) *source {
	return &source{file: file, substitute: substitute}
}

// Body faces.
var (
	Cormorant = Face{
		Key: "cormorant", Family: "Cormorant Garamond", Generic: "serif",
		Style: StyleNormal, Weight: 400,
		src: newSource("CormorantGaramond-Regular.ttf", goregular.TTF),
	}
	LibreBaskerville = Face{
		Key: "libreBaskerville", Family: "Libre Baskerville", Generic: "serif",
		Style: StyleNormal, Weight: 400,
		src: newSource("LibreBaskerville-Regular.ttf", gomedium.TTF),
	}
)

// Signature faces. Each key has its own substitute so no two keys collapse
// to the same drawn face.
var (
	GreatVibes    = script("greatVibes", "Great Vibes", "GreatVibes-Regular.ttf", goitalic.TTF)
	Allura        = script("allura", "Allura", "Allura-Regular.ttf", gomediumitalic.TTF)
	AlexBrush     = script("alexBrush", "Alex Brush", "AlexBrush-Regular.ttf", gobolditalic.TTF)
	PinyonScript  = script("pinyonScript", "Pinyon Script", "PinyonScript-Regular.ttf", gosmallcapsitalic.TTF)
	Sacramento    = script("sacramento", "Sacramento", "Sacramento-Regular.ttf", gomonoitalic.TTF)
	DancingScript = script("dancingScript", "Dancing Script", "DancingScript-Regular.ttf", gomonobolditalic.TTF)
)

// Utility faces for the envelope and small print.
var (
	Sans = Face{
		Key: "sans", Family: "Whispering Sans", Generic: "sans-serif",
		Style: StyleNormal, Weight: 400,
		src: newSource("", goregular.TTF),
	}
	SansBold = Face{
		Key: "sansBold", Family: "Whispering Sans", Generic: "sans-serif",
		Style: StyleNormal, Weight: 700,
		src: newSource("", gobold.TTF),
	}
)

// Default is the face used when a layout key is unknown.
var Default = Cormorant

func script(key, family, file string, substitute []byte) Face {
	return Face{
		Key: key, Family: family, Generic: "cursive",
		Style: StyleItalic, Weight: 400,
		src: newSource(file, substitute),
	}
}

// Body returns every body face keyed by layout key.
func Body() map[string]Face {
	return map[string]Face{
		Cormorant.Key:        Cormorant,
		LibreBaskerville.Key: LibreBaskerville,
	}
}

// Signatures returns every signature face keyed by layout key.
func Signatures() map[string]Face {
	return map[string]Face{
		GreatVibes.Key:    GreatVibes,
		Allura.Key:        Allura,
		AlexBrush.Key:     AlexBrush,
		PinyonScript.Key:  PinyonScript,
		Sacramento.Key:    Sacramento,
		DancingScript.Key: DancingScript,
	}
}

// Lookup finds a face by key in catalog, falling back to [Default]. The
// same key always yields the same face.
func Lookup(catalog map[string]Face, key string) Face {
	if f, ok := catalog[strings.TrimSpace(key)]; ok {
		return f
	}
	return Default
}
