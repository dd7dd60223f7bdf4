// Package pptx provides PPTX (Office Open XML Presentation) document parsing
// into an ordered, spatially annotated shape tree.
package pptx

import (
	"encoding/xml"
	"io"
)

// XML namespaces used in PPTX files.
const (
	nsPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsChart          = "http://schemas.openxmlformats.org/drawingml/2006/chart"
	nsDiagram        = "http://schemas.openxmlformats.org/drawingml/2006/diagram"
	nsTable          = "http://schemas.openxmlformats.org/drawingml/2006/table"
)

// presentationXML represents the ppt/presentation.xml file structure.
type presentationXML struct {
	XMLName xml.Name    `xml:"presentation"`
	SlideSz *slideSzXML `xml:"sldSz"`
}

type slideSzXML struct {
	Cx int `xml:"cx,attr"` // Width in EMUs
	Cy int `xml:"cy,attr"` // Height in EMUs
}

// slideXML represents a ppt/slides/slide*.xml file structure.
type slideXML struct {
	XMLName xml.Name `xml:"sld"`
	CSld    cSldXML  `xml:"cSld"`
}

type cSldXML struct {
	SpTree spTreeXML `xml:"spTree"`
}

// shapeItemXML is one member of a shape sequence, tagged with the element
// kind it was decoded from.
type shapeItemXML struct {
	kind  ShapeKind
	sp    *spXML
	pic   *picXML
	frame *graphicFrameXML
	cxn   *cxnSpXML
	grp   *spTreeXML
}

// spTreeXML represents a p:spTree or p:grpSp element. The standard decoder
// collects repeated elements into per-kind slices, which loses the
// interleaved document order that z-ordering depends on, so the shape
// sequence is decoded by hand.
type spTreeXML struct {
	CNvPr cNvPrXML // from nvGrpSpPr
	Xfrm  *xfrmXML // from grpSpPr
	Items []shapeItemXML
}

func (st *spTreeXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "nvGrpSpPr":
				var nv nvGrpSpPrXML
				if err := d.DecodeElement(&nv, &t); err != nil {
					return err
				}
				st.CNvPr = nv.CNvPr
			case "grpSpPr":
				var pr grpSpPrXML
				if err := d.DecodeElement(&pr, &t); err != nil {
					return err
				}
				st.Xfrm = pr.Xfrm
			case "sp":
				var v spXML
				if err := d.DecodeElement(&v, &t); err != nil {
					return err
				}
				st.Items = append(st.Items, shapeItemXML{kind: KindAuto, sp: &v})
			case "pic":
				var v picXML
				if err := d.DecodeElement(&v, &t); err != nil {
					return err
				}
				st.Items = append(st.Items, shapeItemXML{kind: KindPicture, pic: &v})
			case "graphicFrame":
				var v graphicFrameXML
				if err := d.DecodeElement(&v, &t); err != nil {
					return err
				}
				st.Items = append(st.Items, shapeItemXML{kind: KindFrame, frame: &v})
			case "cxnSp":
				var v cxnSpXML
				if err := d.DecodeElement(&v, &t); err != nil {
					return err
				}
				st.Items = append(st.Items, shapeItemXML{kind: KindConnector, cxn: &v})
			case "grpSp":
				var v spTreeXML
				if err := d.DecodeElement(&v, &t); err != nil {
					return err
				}
				st.Items = append(st.Items, shapeItemXML{kind: KindGroup, grp: &v})
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

type nvGrpSpPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
}

type cNvPrXML struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type grpSpPrXML struct {
	Xfrm *xfrmXML `xml:"xfrm"`
}

// spXML represents a shape element.
type spXML struct {
	NvSpPr nvSpPrXML  `xml:"nvSpPr"`
	SpPr   spPrXML    `xml:"spPr"`
	TxBody *txBodyXML `xml:"txBody"`
}

type nvSpPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
	NvPr  nvPrXML  `xml:"nvPr"`
}

type nvPrXML struct {
	Ph *phXML `xml:"ph"` // Placeholder info
}

type phXML struct {
	Type string `xml:"type,attr"` // title, body, subTitle, ctrTitle, etc.
	Idx  int    `xml:"idx,attr"`
}

type spPrXML struct {
	Xfrm      *xfrmXML     `xml:"xfrm"`
	PrstGeom  *prstGeomXML `xml:"prstGeom"`
	NoFill    *struct{}    `xml:"noFill"`
	SolidFill *struct{}    `xml:"solidFill"`
	GradFill  *struct{}    `xml:"gradFill"`
	PattFill  *struct{}    `xml:"pattFill"`
	Ln        *lnXML       `xml:"ln"`
}

type prstGeomXML struct {
	Prst string `xml:"prst,attr"` // rect, line, bentConnector3, ...
}

type lnXML struct {
	NoFill *struct{} `xml:"noFill"`
}

type xfrmXML struct {
	Off offXML `xml:"off"`
	Ext extXML `xml:"ext"`
}

type offXML struct {
	X int `xml:"x,attr"` // X position in EMUs
	Y int `xml:"y,attr"` // Y position in EMUs
}

type extXML struct {
	Cx int `xml:"cx,attr"` // Width in EMUs
	Cy int `xml:"cy,attr"` // Height in EMUs
}

// txBodyXML represents text body content.
type txBodyXML struct {
	P []pXML `xml:"p"` // Paragraphs
}

// pXML represents a paragraph.
type pXML struct {
	R   []rXML   `xml:"r"`   // Text runs
	Fld []fldXML `xml:"fld"` // Fields (like slide number)
}

// rXML represents a text run.
type rXML struct {
	RPr *rPrXML `xml:"rPr"` // Run properties
	T   string  `xml:"t"`   // Text content
}

type rPrXML struct {
	Sz int  `xml:"sz,attr"` // Font size in hundredths of a point
	B  *int `xml:"b,attr"`  // Bold (1 = true)
}

type fldXML struct {
	Type string `xml:"type,attr"` // slidenum, datetime, etc.
	T    string `xml:"t"`         // Field value
}

// picXML represents a picture element.
type picXML struct {
	NvPicPr nvPicPrXML `xml:"nvPicPr"`
	SpPr    spPrXML    `xml:"spPr"`
}

type nvPicPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
}

// cxnSpXML represents a connector element.
type cxnSpXML struct {
	NvCxnSpPr nvCxnSpPrXML `xml:"nvCxnSpPr"`
	SpPr      spPrXML      `xml:"spPr"`
}

type nvCxnSpPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
}

// graphicFrameXML represents a graphic frame (tables, charts, diagrams).
type graphicFrameXML struct {
	NvGraphicFramePr nvGraphicFramePrXML `xml:"nvGraphicFramePr"`
	Xfrm             *xfrmXML            `xml:"xfrm"` // Direct child, not inside spPr
	Graphic          graphicXML          `xml:"graphic"`
}

type nvGraphicFramePrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
}

type graphicXML struct {
	GraphicData graphicDataXML `xml:"graphicData"`
}

type graphicDataXML struct {
	URI string    `xml:"uri,attr"`
	Tbl *struct{} `xml:"tbl"`
}

// corePropertiesXML represents docProps/core.xml.
type corePropertiesXML struct {
	XMLName xml.Name `xml:"coreProperties"`
	Title   string   `xml:"title"`
	Creator string   `xml:"creator"`
}

// appPropertiesXML represents docProps/app.xml.
type appPropertiesXML struct {
	XMLName     xml.Name `xml:"Properties"`
	Application string   `xml:"Application"`
	Slides      int      `xml:"Slides"`
}
