// Package card defines the data model shared by every Whispering Art surface:
// the card design produced by the creation flow, the recipient address used
// for envelopes and the order that ties both together.
//
// Types mirror the JSON wire format of the web application (camelCase keys)
// so designs can be decoded straight from request bodies or exported files.
//
// # Validation
//
// [Design.Validate] is the single fatal-error gate of the rendering engine. A
// design missing its front caption, inside prose or image reference cannot be
// rendered. Everything else (unknown layout keys, empty signature, bad
// background color) degrades to documented defaults at layout time.
package card

import (
	"strings"
	"time"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/errors"
)

// Occasion is what the card is for.
type Occasion string

const (
	OccasionBirthday      Occasion = "birthday"
	OccasionComfort       Occasion = "comfort"
	OccasionGratitude     Occasion = "gratitude"
	OccasionFaith         Occasion = "faith"
	OccasionCelebration   Occasion = "celebration"
	OccasionSympathy      Occasion = "sympathy"
	OccasionLove          Occasion = "love"
	OccasionEncouragement Occasion = "encouragement"
)

// Occasions lists every occasion in display order.
var Occasions = []Occasion{
	OccasionBirthday, OccasionComfort, OccasionGratitude, OccasionFaith,
	OccasionCelebration, OccasionSympathy, OccasionLove, OccasionEncouragement,
}

// Valid reports whether o is one of the enumerated occasions.
func (o Occasion) Valid() bool { return contains(Occasions, o) }

// Mood is the emotional register of the card.
type Mood string

const (
	MoodGentle       Mood = "gentle"
	MoodPlayful      Mood = "playful"
	MoodHopeful      Mood = "hopeful"
	MoodReflective   Mood = "reflective"
	MoodWarm         Mood = "warm"
	MoodPeaceful     Mood = "peaceful"
	MoodJoyful       Mood = "joyful"
	MoodLighthearted Mood = "lighthearted"
)

// Moods lists every mood in display order.
var Moods = []Mood{
	MoodGentle, MoodPlayful, MoodHopeful, MoodReflective,
	MoodWarm, MoodPeaceful, MoodJoyful, MoodLighthearted,
}

// Valid reports whether m is one of the enumerated moods.
func (m Mood) Valid() bool { return contains(Moods, m) }

// ArtStyle is the illustration style of the front artwork.
type ArtStyle string

const (
	StyleFloralLineArt ArtStyle = "floral-line-art"
	StyleWatercolor    ArtStyle = "watercolor"
	StyleBotanical     ArtStyle = "botanical"
	StyleBoho          ArtStyle = "boho"
	StyleVintage       ArtStyle = "vintage"
	StyleMinimalist    ArtStyle = "minimalist"
	StyleImpressionist ArtStyle = "impressionist"
)

// ArtStyles lists every art style in display order.
var ArtStyles = []ArtStyle{
	StyleFloralLineArt, StyleWatercolor, StyleBotanical, StyleBoho,
	StyleVintage, StyleMinimalist, StyleImpressionist,
}

// Valid reports whether s is one of the enumerated art styles.
func (s ArtStyle) Valid() bool { return contains(ArtStyles, s) }

// Intent captures what the sender asked for.
type Intent struct {
	Occasion         Occasion `json:"occasion"`
	SpecificOccasion string   `json:"specificOccasion,omitempty"`
	Mood             Mood     `json:"mood"`
	Style            ArtStyle `json:"style"`
	SenderName       string   `json:"senderName"`
}

// Image references the front artwork.
type Image struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	BlobURL      string    `json:"blobUrl,omitempty"`
	Prompt       string    `json:"prompt,omitempty"`
	ColorPalette []string  `json:"colorPalette,omitempty"`
	AspectRatio  string    `json:"aspectRatio,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitzero"`
}

// Source returns the reference the renderer should fetch: the durable blob
// URL when present, otherwise the display URL.
func (i Image) Source() string {
	if s := strings.TrimSpace(i.BlobURL); s != "" {
		return s
	}
	return strings.TrimSpace(i.URL)
}

// Text holds the words printed on the card.
type Text struct {
	FrontCaption string `json:"frontCaption"`
	InsideProse  string `json:"insideProse"`
	Signature    string `json:"signature,omitempty"`
}

// Design is a complete card design ready to be rendered.
type Design struct {
	ID        string    `json:"id"`
	Intent    Intent    `json:"intent"`
	Image     Image     `json:"image"`
	Text      Text      `json:"text"`
	Layout    Layout    `json:"layout"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Validate rejects designs that cannot be rendered at all.
func (d *Design) Validate() error {
	if d == nil {
		return errors.New(errors.ErrCodeInvalidDesign, "design is required")
	}
	if strings.TrimSpace(d.Text.FrontCaption) == "" {
		return errors.New(errors.ErrCodeInvalidDesign, "front caption is required")
	}
	if strings.TrimSpace(d.Text.InsideProse) == "" {
		return errors.New(errors.ErrCodeInvalidDesign, "inside prose is required")
	}
	if d.Image.Source() == "" {
		return errors.New(errors.ErrCodeInvalidDesign, "image reference is required")
	}
	return nil
}

// SignatureText returns the signature to print inside the card. An explicit
// signature wins; otherwise the sender name is used verbatim. An empty result
// means no signature is drawn.
func (d *Design) SignatureText() string {
	if s := strings.TrimSpace(d.Text.Signature); s != "" {
		return s
	}
	return strings.TrimSpace(d.Intent.SenderName)
}

// RecipientAddress is where the card is mailed. No format validation is
// performed: what the buyer typed is what gets printed.
type RecipientAddress struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
	Country      string `json:"country,omitempty"`
}

// CityLine formats the last address line as "City, ST ZIP".
func (a RecipientAddress) CityLine() string {
	return strings.TrimSpace(a.City + ", " + a.State + " " + a.ZipCode)
}

// Lines returns the recipient block top to bottom. The second address line is
// included only when present; country is never printed.
func (a RecipientAddress) Lines() []string {
	lines := []string{a.Name, a.AddressLine1}
	if strings.TrimSpace(a.AddressLine2) != "" {
		lines = append(lines, a.AddressLine2)
	}
	return append(lines, a.CityLine())
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
