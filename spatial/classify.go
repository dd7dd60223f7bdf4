package spatial

import (
	"regexp"
	"strings"

	"github.com/tsawler/slidemap/pptx"
)

// badgeTextRE matches badge labels: one or two digits, or a bang.
var badgeTextRE = regexp.MustCompile(`^(?:[0-9]{1,2}|!)$`)

// connectorPresets are the preset geometries that make a plain auto shape a
// connector. Free-form curves use custGeom and carry no preset name, so
// they cannot be recognized here.
var connectorPresets = map[string]bool{
	"line":              true,
	"straightConnector1": true,
	"bentConnector2":    true,
	"bentConnector3":    true,
	"bentConnector4":    true,
	"bentConnector5":    true,
	"curvedConnector2":  true,
	"curvedConnector3":  true,
	"curvedConnector4":  true,
	"curvedConnector5":  true,
}

// Classify maps a shape node to its semantic component type. It is a total
// function: shapes that match no rule come back as TypeUnknown, never an
// error. Classification is pure pattern matching over the capability flags
// the pptx package precomputes.
//
// Decision order, first match wins:
//  1. layout placeholders are text, whatever their structural kind
//  2. structural shortcuts: group, connector, picture
//  3. graphic frames dispatch on their payload: chart, table, diagram
//  4. auto shapes: connector presets, then badge labels, then text,
//     then visible fill or line, else unknown
func Classify(s *pptx.Shape) ComponentType {
	if s.Placeholder {
		return TypeText
	}

	switch s.Kind {
	case pptx.KindGroup:
		return TypeGroup
	case pptx.KindConnector:
		return TypeConnector
	case pptx.KindPicture:
		return TypeImage
	case pptx.KindFrame:
		if s.IsChart {
			return TypeChart
		}
		if s.IsTable {
			return TypeTable
		}
		if s.IsDiagram {
			return TypeFigure
		}
		return TypeShape
	case pptx.KindAuto:
		if connectorPresets[s.Preset] {
			return TypeConnector
		}
		if badgeTextRE.MatchString(strings.TrimSpace(s.Text)) && (s.HasVisibleFill || s.HasVisibleLine) {
			return TypeIcon
		}
		if s.HasText() {
			return TypeText
		}
		if s.HasVisibleFill || s.HasVisibleLine {
			return TypeShape
		}
		return TypeUnknown
	}

	return TypeUnknown
}

// extractTextStyle aggregates run formatting: maximum positive font size in
// points and an OR of the bold flags. Runs without a size (or with a zero
// size) are ignored; if no run specifies an attribute the field stays nil
// rather than reporting zero or false.
func extractTextStyle(s *pptx.Shape) *TextStyle {
	style := &TextStyle{}
	for _, run := range s.Runs {
		if run.Size > 0 {
			pt := float64(run.Size) / 100.0
			if style.FontPt == nil || pt > *style.FontPt {
				v := pt
				style.FontPt = &v
			}
		}
		if run.Bold != nil {
			if style.Bold == nil {
				v := *run.Bold
				style.Bold = &v
			} else {
				v := *style.Bold || *run.Bold
				style.Bold = &v
			}
		}
	}
	return style
}
