package spatial

import (
	"log/slog"

	"github.com/tsawler/slidemap/pptx"
)

// Config configures a Mapper.
type Config struct {
	// DisableSuppression skips the icon-background suppression pass.
	DisableSuppression bool `json:"disable_suppression" yaml:"disable_suppression"`

	// Logger for per-slide diagnostics.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Mapper assembles document-level spatial maps.
type Mapper struct {
	cfg Config
}

// NewMapper creates a Mapper. The zero Config is valid.
func NewMapper(cfg Config) *Mapper {
	cfg.defaults()
	return &Mapper{cfg: cfg}
}

// Map builds the spatial map for a parsed document. Slides are mutually
// independent: a slide whose shape tree failed to parse contributes a
// placeholder record carrying the parse error, and the remaining slides
// still map normally.
func (m *Mapper) Map(doc *pptx.Document) *Mapping {
	out := &Mapping{
		File:   doc.File,
		Slides: make([]*SlideRecord, 0, len(doc.Slides)),
	}

	for _, slide := range doc.Slides {
		rec := &SlideRecord{
			Index:      slide.Index,
			Canvas:     Canvas{W: slide.CanvasW, H: slide.CanvasH},
			Components: []Component{},
		}

		if slide.ParseErr != nil {
			rec.Error = slide.ParseErr.Error()
			m.cfg.Logger.Warn("slide failed to parse", "slide", slide.Index, "error", slide.ParseErr)
			out.Slides = append(out.Slides, rec)
			continue
		}

		rec.Components = BuildSlide(slide)
		if !m.cfg.DisableSuppression {
			SuppressIconBackgrounds(rec.Components)
		}
		out.Slides = append(out.Slides, rec)
	}

	return out
}
