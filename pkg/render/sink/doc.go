// Package sink composes card and envelope pages as SVG.
//
// Each page is a standalone SVG document sized in physical units (for example
// width="5in" height="7in") over a point-based viewBox, so converters keep the
// exact print dimensions. The composers are pure: identical inputs produce
// byte-identical SVG, and no timestamp or random identifier is ever written.
//
// # Pages
//
//   - [RenderFront]: artwork, one overlay treatment and the caption.
//   - [RenderInside]: prose, signature and the attribution line.
//   - [RenderEnvelope]: order stamp, return address and recipient block.
//
// Artwork arrives already decoded and cropped (see package artwork); a nil
// [*Artwork] means the image could not be loaded and the front falls back to a
// solid background.
//
// # Options
//
// Composers accept functional options:
//
//	page := sink.RenderFront(resolved, caption, art,
//	    sink.WithOrderID(orderID),
//	)
package sink
