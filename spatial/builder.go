package spatial

import (
	"fmt"

	"github.com/tsawler/slidemap/pptx"
)

// zCounter is the single z-order counter for one slide. It is threaded
// explicitly through the recursive walk: entering a group never resets it,
// so z values are strictly increasing across the whole flattened
// depth-first order.
type zCounter struct {
	next int
}

func (z *zCounter) take() int {
	v := z.next
	z.next++
	return v
}

// BuildSlide flattens a slide's shape tree into an ordered component list.
// The walk is depth-first in document order. A group consumes one z value
// as a synthetic figure component emitted before its children; the
// children carry the group's id as their group_id and continue the same
// counter.
func BuildSlide(slide *pptx.Slide) []Component {
	z := &zCounter{}
	comps := make([]Component, 0, len(slide.Shapes))
	walkShapes(slide, slide.Shapes, nil, z, &comps)
	return comps
}

func walkShapes(slide *pptx.Slide, shapes []*pptx.Shape, groupID *string, z *zCounter, out *[]Component) {
	for _, s := range shapes {
		ctype := Classify(s)

		if ctype == TypeGroup {
			gid := fmt.Sprintf("s%d_g%d", slide.Index, s.ID)
			*out = append(*out, newComponent(s, slide, TypeFigure, gid, groupID, z.take()))
			walkShapes(slide, s.Children, &gid, z, out)
			continue
		}

		id := fmt.Sprintf("s%d_c%d", slide.Index, s.ID)
		c := newComponent(s, slide, ctype, id, groupID, z.take())
		if ctype == TypeText {
			c.TextStyle = extractTextStyle(s)
		}
		*out = append(*out, c)
	}
}

func newComponent(s *pptx.Shape, slide *pptx.Slide, ctype ComponentType, id string, groupID *string, z int) Component {
	return Component{
		ID:      id,
		Type:    ctype,
		BBoxEMU: EMUBox{s.Left, s.Top, s.Width, s.Height},
		BBoxRel: RelBBox(s.Left, s.Top, s.Width, s.Height, slide.CanvasW, slide.CanvasH),
		Z:       z,
		GroupID: groupID,
		Debug:   Debug{Tag: s.Kind.Tag()},
	}
}
