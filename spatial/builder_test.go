package spatial

import (
	"testing"

	"github.com/tsawler/slidemap/pptx"
)

// testSlide builds a slide with a standard 16:9 canvas around the given
// shape tree.
func testSlide(index int, shapes ...*pptx.Shape) *pptx.Slide {
	return &pptx.Slide{
		Index:   index,
		CanvasW: 9144000,
		CanvasH: 6858000,
		Shapes:  shapes,
	}
}

func textShape(id int, text string) *pptx.Shape {
	return &pptx.Shape{ID: id, Kind: pptx.KindAuto, Text: text, Left: 100, Top: 100, Width: 1000, Height: 500}
}

func TestBuildSlide_FlatOrder(t *testing.T) {
	slide := testSlide(0,
		textShape(2, "first"),
		&pptx.Shape{ID: 3, Kind: pptx.KindPicture},
		&pptx.Shape{ID: 4, Kind: pptx.KindFrame, IsTable: true},
	)

	comps := BuildSlide(slide)
	if len(comps) != 3 {
		t.Fatalf("got %d components, want 3", len(comps))
	}

	wantIDs := []string{"s0_c2", "s0_c3", "s0_c4"}
	wantTypes := []ComponentType{TypeText, TypeImage, TypeTable}
	for i, c := range comps {
		if c.ID != wantIDs[i] {
			t.Errorf("component %d id = %q, want %q", i, c.ID, wantIDs[i])
		}
		if c.Type != wantTypes[i] {
			t.Errorf("component %d type = %q, want %q", i, c.Type, wantTypes[i])
		}
		if c.Z != i {
			t.Errorf("component %d z = %d, want %d", i, c.Z, i)
		}
		if c.GroupID != nil {
			t.Errorf("component %d group_id = %v, want nil", i, *c.GroupID)
		}
	}
}

func TestBuildSlide_NestedGroups(t *testing.T) {
	// Top: text(2), group(10){ shape(11), group(20){ pic(21) }, shape(12) }, text(3)
	slide := testSlide(1,
		textShape(2, "before"),
		&pptx.Shape{ID: 10, Kind: pptx.KindGroup, Children: []*pptx.Shape{
			{ID: 11, Kind: pptx.KindAuto, HasVisibleFill: true},
			{ID: 20, Kind: pptx.KindGroup, Children: []*pptx.Shape{
				{ID: 21, Kind: pptx.KindPicture},
			}},
			{ID: 12, Kind: pptx.KindAuto, HasVisibleFill: true},
		}},
		textShape(3, "after"),
	)

	comps := BuildSlide(slide)
	if len(comps) != 7 {
		t.Fatalf("got %d components, want 7", len(comps))
	}

	// z strictly increasing from 0 across the whole depth-first order, one
	// shared counter per slide.
	for i, c := range comps {
		if c.Z != i {
			t.Errorf("component %d (%s) z = %d, want %d", i, c.ID, c.Z, i)
		}
	}

	byID := make(map[string]Component)
	for _, c := range comps {
		byID[c.ID] = c
	}

	outer, ok := byID["s1_g10"]
	if !ok {
		t.Fatal("missing synthetic component for outer group")
	}
	if outer.Type != TypeFigure {
		t.Errorf("outer group type = %q, want figure", outer.Type)
	}
	if outer.GroupID != nil {
		t.Errorf("top-level group has group_id %v, want nil", *outer.GroupID)
	}

	inner := byID["s1_g20"]
	if inner.GroupID == nil || *inner.GroupID != "s1_g10" {
		t.Errorf("inner group group_id = %v, want s1_g10", inner.GroupID)
	}

	for _, id := range []string{"s1_c11", "s1_c12"} {
		c := byID[id]
		if c.GroupID == nil || *c.GroupID != "s1_g10" {
			t.Errorf("%s group_id = %v, want s1_g10", id, c.GroupID)
		}
	}
	if c := byID["s1_c21"]; c.GroupID == nil || *c.GroupID != "s1_g20" {
		t.Errorf("s1_c21 group_id = %v, want s1_g20", c.GroupID)
	}

	// After the fully-recursed subtree, the next sibling continues the
	// counter rather than resetting it.
	if byID["s1_c3"].Z != 6 {
		t.Errorf("trailing sibling z = %d, want 6", byID["s1_c3"].Z)
	}
}

func TestBuildSlide_GroupBeforeDescendants(t *testing.T) {
	slide := testSlide(0,
		&pptx.Shape{ID: 5, Kind: pptx.KindGroup, Children: []*pptx.Shape{
			{ID: 6, Kind: pptx.KindAuto, Text: "inside"},
		}},
	)

	comps := BuildSlide(slide)
	pos := make(map[string]int)
	for i, c := range comps {
		pos[c.ID] = i
	}

	for _, c := range comps {
		if c.GroupID == nil {
			continue
		}
		gpos, ok := pos[*c.GroupID]
		if !ok {
			t.Fatalf("%s references unknown group %q", c.ID, *c.GroupID)
		}
		if gpos >= pos[c.ID] {
			t.Errorf("group %s emitted at %d, after descendant %s at %d", *c.GroupID, gpos, c.ID, pos[c.ID])
		}
		if comps[gpos].Type != TypeFigure {
			t.Errorf("group component type = %q, want figure", comps[gpos].Type)
		}
	}
}

func TestBuildSlide_UniqueIDs(t *testing.T) {
	slide := testSlide(2,
		textShape(2, "a"),
		&pptx.Shape{ID: 3, Kind: pptx.KindGroup, Children: []*pptx.Shape{
			{ID: 4, Kind: pptx.KindAuto, Text: "b"},
		}},
	)

	comps := BuildSlide(slide)
	seen := make(map[string]bool)
	for _, c := range comps {
		if seen[c.ID] {
			t.Errorf("duplicate component id %q", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestBuildSlide_TextStyleOnlyForText(t *testing.T) {
	bold := true
	slide := testSlide(0,
		&pptx.Shape{ID: 2, Kind: pptx.KindAuto, Text: "styled", Runs: []pptx.Run{
			{Text: "styled", Size: 1850, Bold: &bold},
		}},
		&pptx.Shape{ID: 3, Kind: pptx.KindAuto, HasVisibleFill: true},
	)

	comps := BuildSlide(slide)
	if comps[0].TextStyle == nil {
		t.Fatal("text component missing text_style")
	}
	if comps[0].TextStyle.FontPt == nil || *comps[0].TextStyle.FontPt != 18.5 {
		t.Errorf("font_pt = %v, want 18.5", comps[0].TextStyle.FontPt)
	}
	if comps[0].TextStyle.Bold == nil || !*comps[0].TextStyle.Bold {
		t.Errorf("bold = %v, want true", comps[0].TextStyle.Bold)
	}
	if comps[1].TextStyle != nil {
		t.Errorf("shape component carries text_style %+v", comps[1].TextStyle)
	}
}

func TestBuildSlide_MalformedShapeStillEmitted(t *testing.T) {
	// A shape with no geometry and no recognizable signals is still
	// emitted as unknown with whatever geometry it has.
	slide := testSlide(0, &pptx.Shape{ID: 9, Kind: pptx.KindAuto})

	comps := BuildSlide(slide)
	if len(comps) != 1 {
		t.Fatalf("got %d components, want 1", len(comps))
	}
	if comps[0].Type != TypeUnknown {
		t.Errorf("type = %q, want unknown", comps[0].Type)
	}
	if comps[0].BBoxEMU != (EMUBox{}) {
		t.Errorf("bbox_emus = %v, want zeros", comps[0].BBoxEMU)
	}
}

func TestBuildSlide_RelBoxWithinUnit(t *testing.T) {
	slide := testSlide(0,
		textShape(2, "x"),
		&pptx.Shape{ID: 3, Kind: pptx.KindPicture, Left: 4572000, Top: 3429000, Width: 4572000, Height: 3429000},
	)

	for _, c := range BuildSlide(slide) {
		for i, v := range c.BBoxRel {
			if v < 0 || v > 1 {
				t.Errorf("%s bbox_rel[%d] = %v out of [0,1]", c.ID, i, v)
			}
		}
	}
}
