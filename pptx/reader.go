package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Open parses a PPTX file into an immutable Document. Individual slides
// whose XML cannot be parsed are kept with ParseErr set so callers can
// report them while still processing the rest of the presentation.
func Open(filename string) (*Document, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	defer zr.Close()

	r := &reader{zip: &zr.Reader}

	if err := r.validate(); err != nil {
		return nil, err
	}

	doc := &Document{File: filename}
	if err := r.parsePresentation(); err != nil {
		return nil, fmt.Errorf("parsing presentation: %w", err)
	}
	if err := r.parseSlides(doc); err != nil {
		return nil, err
	}

	// Metadata is optional.
	r.parseProperties(doc)

	return doc, nil
}

// reader holds parse state while a Document is being materialized.
type reader struct {
	zip          *zip.Reader
	presentation *presentationXML
}

// validate checks that required PPTX files exist.
func (r *reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		"ppt/presentation.xml",
	}

	fileMap := make(map[string]bool)
	for _, f := range r.zip.File {
		fileMap[f.Name] = true
	}

	for _, name := range required {
		if !fileMap[name] {
			return fmt.Errorf("missing required file: %s", name)
		}
	}

	hasSlide := false
	for name := range fileMap {
		if strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml") {
			hasSlide = true
			break
		}
	}
	if !hasSlide {
		return fmt.Errorf("no slides found in presentation")
	}

	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *reader) getFileContent(name string) ([]byte, error) {
	for _, f := range r.zip.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

// parsePresentation parses the main presentation file for the canvas size.
func (r *reader) parsePresentation() error {
	data, err := r.getFileContent("ppt/presentation.xml")
	if err != nil {
		return err
	}

	r.presentation = &presentationXML{}
	return xml.Unmarshal(data, r.presentation)
}

// canvas returns the slide canvas size in EMUs.
func (r *reader) canvas() (w, h int) {
	if r.presentation != nil && r.presentation.SlideSz != nil {
		return r.presentation.SlideSz.Cx, r.presentation.SlideSz.Cy
	}
	return 0, 0
}

// parseSlides parses all slide files in presentation order.
func (r *reader) parseSlides(doc *Document) error {
	slideFiles := make([]string, 0)
	for _, f := range r.zip.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			if !strings.Contains(f.Name, "_rels") {
				slideFiles = append(slideFiles, f.Name)
			}
		}
	}

	// Sort slides by number
	sort.Slice(slideFiles, func(i, j int) bool {
		return extractSlideNumber(slideFiles[i]) < extractSlideNumber(slideFiles[j])
	})

	w, h := r.canvas()
	doc.Slides = make([]*Slide, 0, len(slideFiles))

	for i, slidePath := range slideFiles {
		slide := &Slide{Index: i, CanvasW: w, CanvasH: h}
		if err := r.parseSlide(slidePath, slide); err != nil {
			slide.ParseErr = fmt.Errorf("parsing %s: %w", slidePath, err)
		}
		doc.Slides = append(doc.Slides, slide)
	}

	if len(doc.Slides) == 0 {
		return fmt.Errorf("no slides could be parsed")
	}

	return nil
}

// extractSlideNumber extracts the slide number from a path like "ppt/slides/slide1.xml"
func extractSlideNumber(path string) int {
	name := strings.TrimPrefix(path, "ppt/slides/slide")
	name = strings.TrimSuffix(name, ".xml")
	var num int
	fmt.Sscanf(name, "%d", &num)
	return num
}

// parseSlide parses a single slide file into an ordered shape tree.
func (r *reader) parseSlide(slidePath string, slide *Slide) error {
	data, err := r.getFileContent(slidePath)
	if err != nil {
		return err
	}

	var sx slideXML
	if err := xml.Unmarshal(data, &sx); err != nil {
		return err
	}

	slide.Shapes = buildShapes(&sx.CSld.SpTree)
	return nil
}

// buildShapes converts a decoded shape sequence into Shape nodes,
// preserving document order.
func buildShapes(tree *spTreeXML) []*Shape {
	shapes := make([]*Shape, 0, len(tree.Items))
	for _, item := range tree.Items {
		switch item.kind {
		case KindAuto:
			shapes = append(shapes, shapeFromSp(item.sp))
		case KindPicture:
			shapes = append(shapes, shapeFromPic(item.pic))
		case KindFrame:
			shapes = append(shapes, shapeFromFrame(item.frame))
		case KindConnector:
			shapes = append(shapes, shapeFromCxn(item.cxn))
		case KindGroup:
			shapes = append(shapes, shapeFromGroup(item.grp))
		}
	}
	return shapes
}

func shapeFromSp(sp *spXML) *Shape {
	s := &Shape{
		ID:   sp.NvSpPr.CNvPr.ID,
		Name: sp.NvSpPr.CNvPr.Name,
		Kind: KindAuto,
	}
	applyXfrm(s, sp.SpPr.Xfrm)
	applyStyle(s, &sp.SpPr)

	if ph := sp.NvSpPr.NvPr.Ph; ph != nil {
		s.Placeholder = true
		s.PlaceholderType = ph.Type
	}
	if sp.TxBody != nil {
		applyText(s, sp.TxBody)
	}
	return s
}

func shapeFromPic(pic *picXML) *Shape {
	s := &Shape{
		ID:   pic.NvPicPr.CNvPr.ID,
		Name: pic.NvPicPr.CNvPr.Name,
		Kind: KindPicture,
	}
	applyXfrm(s, pic.SpPr.Xfrm)
	return s
}

func shapeFromCxn(cxn *cxnSpXML) *Shape {
	s := &Shape{
		ID:   cxn.NvCxnSpPr.CNvPr.ID,
		Name: cxn.NvCxnSpPr.CNvPr.Name,
		Kind: KindConnector,
	}
	applyXfrm(s, cxn.SpPr.Xfrm)
	applyStyle(s, &cxn.SpPr)
	return s
}

func shapeFromFrame(gf *graphicFrameXML) *Shape {
	s := &Shape{
		ID:   gf.NvGraphicFramePr.CNvPr.ID,
		Name: gf.NvGraphicFramePr.CNvPr.Name,
		Kind: KindFrame,
	}
	applyXfrm(s, gf.Xfrm)

	switch gf.Graphic.GraphicData.URI {
	case nsChart:
		s.IsChart = true
	case nsDiagram:
		s.IsDiagram = true
	case nsTable:
		s.IsTable = true
	}
	// Old producers sometimes omit the table URI but include the a:tbl.
	if gf.Graphic.GraphicData.Tbl != nil {
		s.IsTable = true
	}
	return s
}

func shapeFromGroup(grp *spTreeXML) *Shape {
	s := &Shape{
		ID:   grp.CNvPr.ID,
		Name: grp.CNvPr.Name,
		Kind: KindGroup,
	}
	applyXfrm(s, grp.Xfrm)
	s.Children = buildShapes(grp)
	return s
}

// applyXfrm copies EMU geometry onto the shape. A missing transform leaves
// the zero geometry in place rather than failing the shape.
func applyXfrm(s *Shape, xfrm *xfrmXML) {
	if xfrm == nil {
		return
	}
	s.Left = xfrm.Off.X
	s.Top = xfrm.Off.Y
	s.Width = xfrm.Ext.Cx
	s.Height = xfrm.Ext.Cy
}

// applyStyle derives the visible fill/line flags and preset geometry name.
func applyStyle(s *Shape, spPr *spPrXML) {
	if spPr.PrstGeom != nil {
		s.Preset = spPr.PrstGeom.Prst
	}
	if spPr.NoFill == nil {
		if spPr.SolidFill != nil || spPr.GradFill != nil || spPr.PattFill != nil {
			s.HasVisibleFill = true
		}
	}
	if spPr.Ln != nil && spPr.Ln.NoFill == nil {
		s.HasVisibleLine = true
	}
}

// applyText extracts concatenated text and formatting runs.
func applyText(s *Shape, body *txBodyXML) {
	var text strings.Builder
	for _, p := range body.P {
		for _, run := range p.R {
			text.WriteString(run.T)

			r := Run{Text: run.T}
			if run.RPr != nil {
				r.Size = run.RPr.Sz
				if run.RPr.B != nil {
					b := *run.RPr.B == 1
					r.Bold = &b
				}
			}
			s.Runs = append(s.Runs, r)
		}
		// Include field values (like slide numbers)
		for _, fld := range p.Fld {
			text.WriteString(fld.T)
		}
	}
	s.Text = text.String()
}

// parseProperties parses optional docProps metadata.
func (r *reader) parseProperties(doc *Document) {
	if data, err := r.getFileContent("docProps/core.xml"); err == nil {
		var core corePropertiesXML
		if xml.Unmarshal(data, &core) == nil {
			doc.Title = core.Title
			doc.Author = core.Creator
		}
	}
	if data, err := r.getFileContent("docProps/app.xml"); err == nil {
		var app appPropertiesXML
		if xml.Unmarshal(data, &app) == nil {
			doc.Application = app.Application
		}
	}
}
