// Package render draws schematic preview images of slide spatial maps:
// one PNG per slide with component outlines, numeric type-code labels,
// and an optional legend.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tsawler/slidemap/spatial"
)

// typeCodes are the numeric labels drawn on component boxes and in the
// legend. Unlisted types fall back to the unknown code.
var typeCodes = map[spatial.ComponentType]int{
	spatial.TypeText:      1,
	spatial.TypeImage:     2,
	spatial.TypeTable:     3,
	spatial.TypeChart:     4,
	spatial.TypeShape:     5,
	spatial.TypeConnector: 6,
	spatial.TypeFigure:    7,
	spatial.TypeUnknown:   8,
	spatial.TypeIcon:      9,
}

// legendOrder fixes the legend line order.
var legendOrder = []spatial.ComponentType{
	spatial.TypeText, spatial.TypeImage, spatial.TypeTable, spatial.TypeChart,
	spatial.TypeShape, spatial.TypeConnector, spatial.TypeFigure,
	spatial.TypeUnknown, spatial.TypeIcon,
}

// Config configures a Renderer.
type Config struct {
	// Width is the output image width in pixels (default 1600). Height
	// follows the slide aspect ratio.
	Width int `json:"width" yaml:"width"`

	// Stroke is the outline thickness in pixels (default 3).
	Stroke int `json:"stroke" yaml:"stroke"`

	// NoLabels disables the numeric type code drawn on each box.
	NoLabels bool `json:"no_labels" yaml:"no_labels"`

	// NoLegend disables the code legend in the top-left corner.
	NoLegend bool `json:"no_legend" yaml:"no_legend"`

	// ShowSuppressed includes icon_bg components, which are hidden by
	// default.
	ShowSuppressed bool `json:"show_suppressed" yaml:"show_suppressed"`
}

func (c *Config) defaults() {
	if c.Width <= 0 {
		c.Width = 1600
	}
	if c.Stroke <= 0 {
		c.Stroke = 3
	}
}

// Renderer draws slide previews.
type Renderer struct {
	cfg Config
}

// New creates a Renderer. The zero Config draws labels and legend at the
// default size.
func New(cfg Config) *Renderer {
	cfg.defaults()
	return &Renderer{cfg: cfg}
}

// RenderSlide draws one slide record onto a fresh image.
func (r *Renderer) RenderSlide(rec *spatial.SlideRecord) *image.RGBA {
	w := r.cfg.Width

	// Landscape 16:9 fallback when the canvas width is unusable.
	aspect := 9.0 / 16.0
	if rec.Canvas.W > 0 {
		aspect = float64(rec.Canvas.H) / float64(rec.Canvas.W)
	}
	h := int(math.Round(float64(w) * aspect))
	if h < 1 {
		h = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	black := color.RGBA{A: 255}
	for _, c := range rec.Components {
		if c.Type == spatial.TypeIconBG && !r.cfg.ShowSuppressed {
			continue
		}

		x0 := int(math.Round(c.BBoxRel[0] * float64(w)))
		y0 := int(math.Round(c.BBoxRel[1] * float64(h)))
		x1 := int(math.Round((c.BBoxRel[0] + c.BBoxRel[2]) * float64(w)))
		y1 := int(math.Round((c.BBoxRel[1] + c.BBoxRel[3]) * float64(h)))

		for s := 0; s < r.cfg.Stroke; s++ {
			drawRectOutline(img, x0-s, y0-s, x1+s, y1+s, black)
		}

		if !r.cfg.NoLabels {
			code := typeCodes[c.Type]
			if code == 0 {
				code = typeCodes[spatial.TypeUnknown]
			}
			drawChip(img, x0, y0, fmt.Sprintf("%d", code), black)
		}
	}

	if !r.cfg.NoLegend {
		y := 16
		for _, ct := range legendOrder {
			drawText(img, 8, y, fmt.Sprintf("%d  %s", typeCodes[ct], ct), black)
			y += 16
		}
	}

	return img
}

// RenderAll writes slide_NN.png previews for every slide into dir.
func (r *Renderer) RenderAll(m *spatial.Mapping, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating preview dir: %w", err)
	}

	for _, rec := range m.Slides {
		img := r.RenderSlide(rec)
		path := filepath.Join(dir, fmt.Sprintf("slide_%02d.png", rec.Index))
		if err := writePNG(path, img); err != nil {
			return fmt.Errorf("slide %d: %w", rec.Index, err)
		}
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return err
	}
	return f.Close()
}

// drawRectOutline draws a one-pixel rectangle outline clipped to the image.
func drawRectOutline(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	fillRect(img, image.Rect(x0, y0, x1+1, y0+1), c) // top
	fillRect(img, image.Rect(x0, y1, x1+1, y1+1), c) // bottom
	fillRect(img, image.Rect(x0, y0, x0+1, y1+1), c) // left
	fillRect(img, image.Rect(x1, y0, x1+1, y1+1), c) // right
}

func fillRect(img *image.RGBA, rect image.Rectangle, c color.Color) {
	draw.Draw(img, rect.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

// drawChip draws a small white chip with the label text at the box corner.
func drawChip(img *image.RGBA, x, y int, label string, c color.Color) {
	const pad = 3
	face := basicfont.Face7x13
	w := font.MeasureString(face, label).Ceil()
	chip := image.Rect(x, y, x+w+2*pad, y+face.Height+2*pad)
	fillRect(img, chip, color.White)
	drawText(img, x+pad, y+pad+face.Ascent, label, c)
}

// drawText draws a string with the fixed bitmap face; (x, y) is the
// baseline origin.
func drawText(img *image.RGBA, x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
