package spatial

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/tsawler/slidemap/pptx"
)

func TestMapper_Map(t *testing.T) {
	doc := &pptx.Document{
		File: "deck.pptx",
		Slides: []*pptx.Slide{
			testSlide(0, textShape(2, "title")),
			testSlide(1, &pptx.Shape{ID: 2, Kind: pptx.KindPicture}),
		},
	}

	m := NewMapper(Config{})
	got := m.Map(doc)

	if got.File != "deck.pptx" {
		t.Errorf("file = %q", got.File)
	}
	if len(got.Slides) != 2 {
		t.Fatalf("got %d slides, want 2", len(got.Slides))
	}
	for i, rec := range got.Slides {
		if rec.Index != i {
			t.Errorf("slide %d index = %d", i, rec.Index)
		}
		if rec.Canvas.W != 9144000 || rec.Canvas.H != 6858000 {
			t.Errorf("slide %d canvas = %+v", i, rec.Canvas)
		}
		if len(rec.Components) != 1 {
			t.Errorf("slide %d has %d components, want 1", i, len(rec.Components))
		}
	}
}

func TestMapper_PartialDocument(t *testing.T) {
	// A slide that failed to parse yields a placeholder record; the other
	// slides still map.
	doc := &pptx.Document{
		File: "broken.pptx",
		Slides: []*pptx.Slide{
			testSlide(0, textShape(2, "ok")),
			{Index: 1, CanvasW: 9144000, CanvasH: 6858000, ParseErr: errors.New("malformed slide XML")},
			testSlide(2, textShape(2, "also ok")),
		},
	}

	got := NewMapper(Config{}).Map(doc)

	if len(got.Slides) != 3 {
		t.Fatalf("got %d slides, want 3", len(got.Slides))
	}
	if got.Slides[1].Error == "" {
		t.Error("failed slide should carry an error")
	}
	if len(got.Slides[1].Components) != 0 {
		t.Errorf("failed slide has %d components, want 0", len(got.Slides[1].Components))
	}
	if len(got.Slides[0].Components) != 1 || len(got.Slides[2].Components) != 1 {
		t.Error("healthy slides should still map")
	}
}

func TestMapper_SuppressionWired(t *testing.T) {
	// Badge detection plus suppression: a digit badge over a comparable
	// rectangle demotes the rectangle to icon_bg during Map.
	badge := &pptx.Shape{
		ID: 2, Kind: pptx.KindAuto, Text: "1", HasVisibleFill: true,
		Left: 914400, Top: 685800, Width: 914400, Height: 685800,
	}
	bg := &pptx.Shape{
		ID: 3, Kind: pptx.KindAuto, HasVisibleFill: true,
		Left: 914400, Top: 685800, Width: 914400, Height: 685800,
	}
	doc := &pptx.Document{File: "badges.pptx", Slides: []*pptx.Slide{testSlide(0, badge, bg)}}

	got := NewMapper(Config{}).Map(doc)
	comps := got.Slides[0].Components
	if comps[0].Type != TypeIcon {
		t.Errorf("badge type = %q, want icon", comps[0].Type)
	}
	if comps[1].Type != TypeIconBG {
		t.Errorf("background type = %q, want icon_bg", comps[1].Type)
	}

	// And the pass can be disabled.
	got = NewMapper(Config{DisableSuppression: true}).Map(doc)
	if ct := got.Slides[0].Components[1].Type; ct != TypeShape {
		t.Errorf("with suppression disabled background type = %q, want shape", ct)
	}
}

func TestMapping_JSONContract(t *testing.T) {
	bold := true
	pt := 24.0
	gid := "s0_g4"
	m := &Mapping{
		File: "deck.pptx",
		Slides: []*SlideRecord{{
			Index:  0,
			Canvas: Canvas{W: 9144000, H: 6858000},
			Components: []Component{{
				ID: "s0_c2", Type: TypeText,
				BBoxEMU:   EMUBox{10, 20, 30, 40},
				BBoxRel:   RelBox{0.1, 0.2, 0.3, 0.4},
				Z:         0,
				GroupID:   &gid,
				Debug:     Debug{Tag: "sp"},
				TextStyle: &TextStyle{FontPt: &pt, Bold: &bold},
			}},
		}},
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{
		`"file":"deck.pptx"`,
		`"index":0`,
		`"w_emus":9144000`,
		`"h_emus":6858000`,
		`"id":"s0_c2"`,
		`"type":"text"`,
		`"bbox_emus":[10,20,30,40]`,
		`"bbox_rel":[0.1,0.2,0.3,0.4]`,
		`"z":0`,
		`"group_id":"s0_g4"`,
		`"debug":{"tag":"sp"}`,
		`"font_pt":24`,
		`"bold":true`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON missing %s in %s", want, data)
		}
	}

	// A nil group_id must serialize as null, not be omitted.
	m.Slides[0].Components[0].GroupID = nil
	data, _ = json.Marshal(m)
	if !strings.Contains(string(data), `"group_id":null`) {
		t.Error("nil group_id should serialize as null")
	}
}
