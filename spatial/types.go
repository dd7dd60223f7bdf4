package spatial

// ComponentType is the semantic classification of a slide component.
type ComponentType string

// Classifier output set, plus the two tags that only appear in assembled
// maps: TypeIcon marks badge labels, TypeIconBG marks decorative
// backgrounds demoted by the suppression pass.
const (
	TypeText      ComponentType = "text"
	TypeImage     ComponentType = "image"
	TypeTable     ComponentType = "table"
	TypeChart     ComponentType = "chart"
	TypeFigure    ComponentType = "figure"
	TypeShape     ComponentType = "shape"
	TypeConnector ComponentType = "connector"
	TypeGroup     ComponentType = "group"
	TypeIcon      ComponentType = "icon"
	TypeUnknown   ComponentType = "unknown"
	TypeIconBG    ComponentType = "icon_bg"
)

// TextStyle aggregates run formatting for text components. FontPt is the
// maximum positive font size seen across runs; Bold is true if any run is
// bold. Either is nil when no run specifies the attribute.
type TextStyle struct {
	FontPt *float64 `json:"font_pt"`
	Bold   *bool    `json:"bold"`
}

// Debug carries diagnostic information about a component's source element.
type Debug struct {
	Tag string `json:"tag"`
}

// Component is one classified, positioned element of a slide's spatial map.
type Component struct {
	ID        string        `json:"id"`
	Type      ComponentType `json:"type"`
	BBoxEMU   EMUBox        `json:"bbox_emus"`
	BBoxRel   RelBox        `json:"bbox_rel"`
	Z         int           `json:"z"`
	GroupID   *string       `json:"group_id"`
	Debug     Debug         `json:"debug"`
	TextStyle *TextStyle    `json:"text_style,omitempty"`
}

// Canvas is the slide canvas size in EMUs.
type Canvas struct {
	W int `json:"w_emus"`
	H int `json:"h_emus"`
}

// SlideRecord is the spatial map of one slide. Components are listed in
// z-order, which for a freshly built record equals insertion order.
type SlideRecord struct {
	Index      int         `json:"index"`
	Canvas     Canvas      `json:"canvas"`
	Components []Component `json:"components"`

	// Error is set when the slide's shape tree could not be parsed; the
	// record is kept as a placeholder so the rest of the document
	// still maps.
	Error string `json:"error,omitempty"`
}

// Mapping is the document-level spatial map.
type Mapping struct {
	File   string         `json:"file"`
	Slides []*SlideRecord `json:"slides"`
}

// Slide returns the record at the given index, or nil.
func (m *Mapping) Slide(index int) *SlideRecord {
	if index < 0 || index >= len(m.Slides) {
		return nil
	}
	return m.Slides[index]
}

// Component returns a pointer to the component with the given id, or nil.
func (r *SlideRecord) Component(id string) *Component {
	for i := range r.Components {
		if r.Components[i].ID == id {
			return &r.Components[i]
		}
	}
	return nil
}
