// Package styles holds the visual vocabulary of a Whispering Art card: the
// brand palette, the overlay and frame treatments drawn over the artwork, and
// the text helpers (wrapping, signature splitting, clamping) the composers
// use to set type.
//
// Overlay and frame treatments are lookup tables keyed by the layout option
// that selects them. Adding a treatment means adding a table entry, not a new
// branch in the composer.
//
// Frame geometry is exposed through [FrameShapes] so callers can check bounds
// numerically without parsing SVG.
package styles
