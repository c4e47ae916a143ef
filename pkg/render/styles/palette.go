package styles

// Brand palette.
const (
	Ink        = "#0D0B0B" // Near-black used for shadows and overlays
	Parchment  = "#F9F4EE" // Caption text and frame color
	Plum       = "#5B3E43" // Signature ink and fallback front background
	Charcoal   = "#4A4A4A" // Inside prose
	InsideTone = "#FAF7F2" // Warm near-white
)
