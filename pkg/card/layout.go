package card

// FontFamily selects the body serif used for caption and prose.
type FontFamily string

const (
	FontCormorant        FontFamily = "cormorant"
	FontLibreBaskerville FontFamily = "libreBaskerville"
)

// SignatureFont selects the script face used for the signature.
type SignatureFont string

const (
	SignatureGreatVibes    SignatureFont = "greatVibes"
	SignatureAllura        SignatureFont = "allura"
	SignatureAlexBrush     SignatureFont = "alexBrush"
	SignaturePinyonScript  SignatureFont = "pinyonScript"
	SignatureSacramento    SignatureFont = "sacramento"
	SignatureDancingScript SignatureFont = "dancingScript"
)

// SignatureFonts lists every signature font key.
var SignatureFonts = []SignatureFont{
	SignatureGreatVibes, SignatureAllura, SignatureAlexBrush,
	SignaturePinyonScript, SignatureSacramento, SignatureDancingScript,
}

// Alignment is the horizontal alignment of the front caption.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// TextPosition is where the caption block sits on the front.
type TextPosition string

const (
	TextBottom TextPosition = "bottom"
	TextTop    TextPosition = "top"
	TextCenter TextPosition = "center"
)

// OverlayStyle is the legibility treatment drawn between artwork and caption.
type OverlayStyle string

const (
	OverlayGradient OverlayStyle = "gradient"
	OverlayScrim    OverlayStyle = "scrim"
	OverlayFrame    OverlayStyle = "frame"
	OverlayNone     OverlayStyle = "none"
)

// FrameStyle is the decoration drawn when the overlay is [OverlayFrame].
type FrameStyle string

const (
	FrameThick    FrameStyle = "thick"
	FrameThin     FrameStyle = "thin"
	FrameVignette FrameStyle = "vignette"
	FrameCorners  FrameStyle = "corners"
)

// FrameStyles lists every frame style.
var FrameStyles = []FrameStyle{FrameThick, FrameThin, FrameVignette, FrameCorners}

// ImageScale is the fraction of the card the artwork occupies.
type ImageScale string

const (
	ScaleFull   ImageScale = "full"
	ScaleLarge  ImageScale = "large"
	ScaleMedium ImageScale = "medium"
	ScaleSmall  ImageScale = "small"
)

// ImageScales lists every image scale.
var ImageScales = []ImageScale{ScaleFull, ScaleLarge, ScaleMedium, ScaleSmall}

// VerticalPosition anchors a scaled image vertically.
type VerticalPosition string

const (
	AnchorTop    VerticalPosition = "top"
	AnchorMiddle VerticalPosition = "center"
	AnchorBottom VerticalPosition = "bottom"
)

// VerticalPositions lists every vertical anchor.
var VerticalPositions = []VerticalPosition{AnchorTop, AnchorMiddle, AnchorBottom}

// HorizontalPosition anchors a scaled image horizontally.
type HorizontalPosition string

const (
	AnchorLeft   HorizontalPosition = "left"
	AnchorCenter HorizontalPosition = "center"
	AnchorRight  HorizontalPosition = "right"
)

// HorizontalPositions lists every horizontal anchor.
var HorizontalPositions = []HorizontalPosition{AnchorLeft, AnchorCenter, AnchorRight}

// DefaultBackgroundColor is used when a layout has no background color.
const DefaultBackgroundColor = "#FFFFFF"

// Layout carries the presentation choices made in the creation flow. Every
// field is optional; the layout resolver fills in defaults.
type Layout struct {
	FontFamily              FontFamily         `json:"fontFamily,omitempty"`
	CaptionSize             string             `json:"captionSize,omitempty"`
	ProseSize               string             `json:"proseSize,omitempty"`
	SignatureFont           SignatureFont      `json:"signatureFont,omitempty"`
	Alignment               Alignment          `json:"alignment,omitempty"`
	TextPosition            TextPosition       `json:"textPosition,omitempty"`
	OverlayStyle            OverlayStyle       `json:"overlayStyle,omitempty"`
	FrameStyle              FrameStyle         `json:"frameStyle,omitempty"`
	ImageScale              ImageScale         `json:"imageScale,omitempty"`
	ImageVerticalPosition   VerticalPosition   `json:"imageVerticalPosition,omitempty"`
	ImageHorizontalPosition HorizontalPosition `json:"imageHorizontalPosition,omitempty"`
	BackgroundColor         string             `json:"backgroundColor,omitempty"`
}
