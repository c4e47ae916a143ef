// Package render composes Whispering Art cards and envelopes into print-ready
// documents.
//
// # Overview
//
// An [Engine] maps a card design onto fixed physical pages:
//
//   - a card is two 5x7 in pages, front then inside;
//   - an envelope is one 7.25x5.25 in landscape page.
//
// Composition is deterministic. The same design and order id always produce
// byte-identical pages, which is what lets callers cache artifacts by design
// hash (see the pipeline package).
//
// # Subpackages
//
//   - [layout]: canvas constants and option resolution (image box, caption anchor, font roles)
//   - [styles]: frames, overlays and text fitting
//   - [sink]: SVG page writers for the front, inside and envelope
//
// # Format Conversion
//
// Pages are SVG with their physical size in inches. [Converter] pipes them
// through the external rsvg-convert tool (from librsvg):
//
//	doc, err := engine.ComposeCard(ctx, design, orderID)
//	pdf, err := render.ToPDF(ctx, doc.Pages...)      // one PDF, two pages
//	png, err := render.ToPNG(ctx, doc.Pages[0], 300) // 1500x2100 proof
//
// When rsvg-convert is not installed these return [ErrConverterMissing].
//
// # Failure Policy
//
// An incomplete design (no caption, prose or image reference) fails the
// render. Artwork that cannot be fetched or decoded does not: the engine logs
// a warning and draws the fallback background in the image box.
package render
