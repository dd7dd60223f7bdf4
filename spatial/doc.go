// Package spatial converts parsed slide shape trees into normalized,
// JSON-serializable spatial maps: for every slide, a flat z-ordered list of
// semantically classified components with canvas-relative bounding boxes.
//
// The package is a pure in-memory transform. It never mutates the source
// shape tree, performs no I/O, and processes slides independently, so
// callers may parallelize per slide without changing observable output.
package spatial
