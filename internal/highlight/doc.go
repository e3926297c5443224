// Package highlight correlates PDF highlight annotations with the text and
// pixels underneath them.
//
// A parse walks the pages of a Document. For each page that carries at least
// one Highlight annotation the page is rendered once into a raster surface
// owned by the parse, and every annotation rectangle is matched against the
// page text runs (in PDF space) and cropped out of the raster (in raster
// space, via Viewport). The collected highlights are then put in reading
// order: page, top to bottom, and left to right within a line.
package highlight
