package styles

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/fonts"
)

// Ellipsis marks text cut short by [Clamp].
const Ellipsis = "…"

// Wrap breaks text into lines no wider than maxWidth when set in face at
// size. Embedded line breaks are kept exactly: each one starts a new line and
// blank lines survive as empty strings. Words wider than maxWidth on their own
// are broken between characters.
func Wrap(text string, face fonts.Face, size, maxWidth float64) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(para, face, size, maxWidth)...)
	}
	return lines
}

func wrapParagraph(para string, face fonts.Face, size, maxWidth float64) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := ""
	for _, w := range words {
		candidate := w
		if line != "" {
			candidate = line + " " + w
		}
		if face.Measure(candidate, size) <= maxWidth {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
		if face.Measure(w, size) <= maxWidth {
			line = w
			continue
		}
		pieces := breakWord(w, face, size, maxWidth)
		lines = append(lines, pieces[:len(pieces)-1]...)
		line = pieces[len(pieces)-1]
	}
	return append(lines, line)
}

func breakWord(w string, face fonts.Face, size, maxWidth float64) []string {
	var pieces []string
	cur := []rune{}
	for _, r := range w {
		next := append(cur, r)
		if len(cur) > 0 && face.Measure(string(next), size) > maxWidth {
			pieces = append(pieces, string(cur))
			cur = []rune{r}
			continue
		}
		cur = next
	}
	return append(pieces, string(cur))
}

// SplitSignature splits a signature at its first comma into a closing and a
// name line ("Love," and "Nana"). The comma stays on the closing line.
// Signatures without a comma come back as a single line.
func SplitSignature(s string) []string {
	s = strings.TrimSpace(s)
	i := strings.IndexByte(s, ',')
	if i < 0 {
		return []string{s}
	}
	return []string{strings.TrimSpace(s[:i+1]), strings.TrimSpace(s[i+1:])}
}

// Clamp keeps at most n lines, ending the last kept line with an ellipsis
// when anything was dropped.
func Clamp(lines []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if len(lines) <= n {
		return lines
	}
	out := append([]string(nil), lines[:n]...)
	out[n-1] = strings.TrimRight(out[n-1], " .,;:") + Ellipsis
	return out
}

// Fit returns line shortened word by word until it fits maxWidth, with an
// ellipsis appended when anything was removed.
func Fit(line string, face fonts.Face, size, maxWidth float64) string {
	if face.Measure(line, size) <= maxWidth {
		return line
	}
	words := strings.Fields(strings.TrimSuffix(line, Ellipsis))
	for len(words) > 1 {
		words = words[:len(words)-1]
		s := strings.Join(words, " ") + Ellipsis
		if face.Measure(s, size) <= maxWidth {
			return s
		}
	}
	return line
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// OrderTag formats the reference stamp for an order: "#" followed by the last
// five characters of the id. Empty ids yield an empty tag.
func OrderTag(orderID string) string {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return ""
	}
	r := []rune(orderID)
	if len(r) > 5 {
		r = r[len(r)-5:]
	}
	return "#" + string(r)
}
