// Package slidemap provides a fluent API for extracting spatial component
// maps from PowerPoint files.
//
// Basic usage:
//
//	mapping, err := slidemap.Open("deck.pptx").Map()
//	if err != nil {
//	    // handle error
//	}
//	for _, slide := range mapping.Slides {
//	    fmt.Println(slide.Index, len(slide.Components))
//	}
//
// With options:
//
//	data, err := slidemap.Open("deck.pptx").
//	    DisableSuppression().
//	    JSON()
//
// For advanced use cases, the lower-level pptx and spatial packages are
// also available.
package slidemap

import (
	"encoding/json"
	"fmt"

	"github.com/tsawler/slidemap/pptx"
	"github.com/tsawler/slidemap/spatial"
)

// Open prepares a PPTX file for mapping and returns an Extractor for
// fluent configuration. The file is not read until a terminal operation
// like Map or JSON is called.
//
// Example:
//
//	mapping, err := slidemap.Open("deck.pptx").Map()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromDocument creates an Extractor from an already-parsed document. This
// is useful when the same document feeds several consumers.
func FromDocument(doc *pptx.Document) *Extractor {
	return &Extractor{
		doc:     doc,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	mapping := slidemap.Must(slidemap.Open("deck.pptx").Map())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// Extractor holds the pending configuration for one mapping run. Its
// methods return the Extractor to allow chaining; terminal operations
// perform the work.
type Extractor struct {
	filename string
	doc      *pptx.Document
	options  mapOptions
}

// DisableSuppression keeps badge background shapes labeled by their
// classified type instead of relabeling them icon_bg.
func (e *Extractor) DisableSuppression() *Extractor {
	e.options.disableSuppression = true
	return e
}

// Document parses the file and returns the raw document model.
func (e *Extractor) Document() (*pptx.Document, error) {
	if e.doc != nil {
		return e.doc, nil
	}
	doc, err := pptx.Open(e.filename)
	if err != nil {
		return nil, err
	}
	e.doc = doc
	return doc, nil
}

// Map parses the file and builds its spatial map.
func (e *Extractor) Map() (*spatial.Mapping, error) {
	doc, err := e.Document()
	if err != nil {
		return nil, err
	}
	mapper := spatial.NewMapper(spatial.Config{
		DisableSuppression: e.options.disableSuppression,
	})
	return mapper.Map(doc), nil
}

// JSON parses the file and returns its spatial map as indented JSON.
func (e *Extractor) JSON() ([]byte, error) {
	mapping, err := e.Map()
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(mapping, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding mapping: %w", err)
	}
	return data, nil
}
