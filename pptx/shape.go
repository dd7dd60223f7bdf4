package pptx

import "strings"

// ShapeKind identifies the structural element a shape was parsed from.
type ShapeKind int

const (
	KindAuto      ShapeKind = iota // p:sp
	KindPicture                    // p:pic
	KindFrame                      // p:graphicFrame
	KindConnector                  // p:cxnSp
	KindGroup                      // p:grpSp
)

// Tag returns the OOXML element name for the kind.
func (k ShapeKind) Tag() string {
	switch k {
	case KindAuto:
		return "sp"
	case KindPicture:
		return "pic"
	case KindFrame:
		return "graphicFrame"
	case KindConnector:
		return "cxnSp"
	case KindGroup:
		return "grpSp"
	}
	return ""
}

// Run represents a text run with the formatting relevant to style aggregation.
type Run struct {
	Text string
	Size int   // Font size in hundredths of a point (0 = not specified)
	Bold *bool // nil = not specified on the run
}

// Shape is a node in a slide's shape tree. All capability flags are
// precomputed during parsing so consumers can classify shapes by plain
// pattern matching without probing optional parts.
type Shape struct {
	ID   int    // cNvPr id, unique within the slide
	Name string // cNvPr name
	Kind ShapeKind

	// Geometry in EMUs from a:xfrm. Group children keep the offsets
	// recorded in the file; no group transform is applied.
	Left, Top, Width, Height int

	// Placeholder is true when the shape carries a p:ph element.
	Placeholder     bool
	PlaceholderType string // title, body, subTitle, ...

	// Text is the concatenated run and field text of all paragraphs.
	Text string
	Runs []Run

	// Graphic frame payload flags, from the a:graphicData URI.
	IsChart   bool
	IsTable   bool
	IsDiagram bool

	// Visual style flags from a:spPr.
	HasVisibleFill bool
	HasVisibleLine bool

	// Preset is the a:prstGeom prst attribute (line, bentConnector3, ...).
	Preset string

	// Children holds the ordered members of a group shape.
	Children []*Shape
}

// HasText reports whether the shape carries non-whitespace text.
func (s *Shape) HasText() bool {
	return strings.TrimSpace(s.Text) != ""
}

// Slide represents a parsed slide.
type Slide struct {
	Index   int      // 0-indexed slide number
	CanvasW int      // Canvas width in EMUs
	CanvasH int      // Canvas height in EMUs
	Shapes  []*Shape // Top-level shapes in document order

	// ParseErr is set when the slide part could not be parsed. The slide
	// is still present so document processing can report it and move on.
	ParseErr error
}

// Document is an immutable parsed presentation.
type Document struct {
	File   string
	Slides []*Slide

	// Optional metadata from docProps.
	Title       string
	Author      string
	Application string
}

// SlideCount returns the number of slides.
func (d *Document) SlideCount() int {
	return len(d.Slides)
}
