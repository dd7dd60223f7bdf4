// Package convert exports real slide images from a presentation by driving
// external converters: LibreOffice for direct PNG export, with a PDF +
// pdftoppm fallback when the direct route produces fewer images than
// slides. Both tools are optional; callers treat absence as a soft failure
// and fall back to schematic previews.
package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// ErrNoConverter is returned when no supported converter binary is on PATH.
var ErrNoConverter = errors.New("no slide image converter available")

// Config configures an Exporter.
type Config struct {
	// Timeout bounds each external converter invocation (default 3m).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// DPI for the pdftoppm fallback rendering (default 144).
	DPI int `json:"dpi" yaml:"dpi"`

	// Logger for conversion diagnostics.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 3 * time.Minute
	}
	if c.DPI <= 0 {
		c.DPI = 144
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Exporter converts presentations to per-slide PNG images.
type Exporter struct {
	cfg Config
}

// New creates an Exporter. The zero Config is valid.
func New(cfg Config) *Exporter {
	cfg.defaults()
	return &Exporter{cfg: cfg}
}

// Export renders pptxPath into outDir as slide-NN.png files (1-based,
// zero-padded). expected is the slide count used to decide whether the
// direct conversion covered every slide; pass 0 when unknown.
func (e *Exporter) Export(ctx context.Context, pptxPath, outDir string, expected int) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating image dir: %w", err)
	}

	soffice := lookPathFirst("soffice", "libreoffice")
	if soffice == "" {
		return ErrNoConverter
	}

	if err := e.run(ctx, soffice, "--headless", "--convert-to", "png", "--outdir", outDir, pptxPath); err != nil {
		e.cfg.Logger.Warn("direct png conversion failed", "error", err)
	}

	images := listPNGs(outDir)
	if len(images) == 0 || (expected > 0 && len(images) < expected) {
		if err := e.exportViaPDF(ctx, soffice, pptxPath, outDir); err != nil {
			e.cfg.Logger.Warn("pdf fallback failed", "error", err)
		}
		images = listPNGs(outDir)
	}

	if len(images) == 0 {
		return fmt.Errorf("converting %s: no images produced", filepath.Base(pptxPath))
	}

	normalizeSlideImages(outDir)
	return nil
}

// exportViaPDF converts to PDF first and rasterizes pages with pdftoppm.
func (e *Exporter) exportViaPDF(ctx context.Context, soffice, pptxPath, outDir string) error {
	pdftoppm, err := exec.LookPath("pdftoppm")
	if err != nil {
		return ErrNoConverter
	}

	tmp, err := os.MkdirTemp("", "slidemap-pdf-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	if err := e.run(ctx, soffice, "--headless", "--convert-to", "pdf", "--outdir", tmp, pptxPath); err != nil {
		return err
	}

	// LibreOffice keeps the input base name; find whatever PDF it wrote.
	pdfs, _ := filepath.Glob(filepath.Join(tmp, "*.pdf"))
	if len(pdfs) == 0 {
		return fmt.Errorf("PDF not produced")
	}

	prefix := filepath.Join(outDir, "slide")
	return e.run(ctx, pdftoppm, "-png", "-r", strconv.Itoa(e.cfg.DPI), pdfs[0], prefix)
}

func (e *Exporter) run(ctx context.Context, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w (%s)", filepath.Base(name), err, firstLine(out))
	}
	return nil
}

func lookPathFirst(names ...string) string {
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

func firstLine(b []byte) string {
	for i, c := range b {
		if c == '\n' {
			return string(b[:i])
		}
	}
	return string(b)
}

func listPNGs(dir string) []string {
	matches, _ := filepath.Glob(filepath.Join(dir, "*.png"))
	sort.Strings(matches)
	return matches
}

var (
	imageNumRE   = regexp.MustCompile(`(\d+)`)
	normalizedRE = regexp.MustCompile(`^slide-\d{2}\.png$`)
)

// normalizeSlideImages renames converter output to slide-NN.png so lookup
// by slide index is deterministic. Files carrying a page number keep it;
// leftovers are assigned the next free numbers in sorted order.
func normalizeSlideImages(dir string) {
	taken := make(map[string]bool)
	var leftovers []string

	for _, path := range listPNGs(dir) {
		base := filepath.Base(path)
		if normalizedRE.MatchString(base) {
			taken[base] = true
			continue
		}
		nums := imageNumRE.FindAllString(base, -1)
		if len(nums) == 0 {
			leftovers = append(leftovers, path)
			continue
		}
		// The page number is the last number in the filename.
		n, err := strconv.Atoi(nums[len(nums)-1])
		if err != nil || n < 1 {
			leftovers = append(leftovers, path)
			continue
		}
		target := fmt.Sprintf("slide-%02d.png", n)
		if taken[target] {
			leftovers = append(leftovers, path)
			continue
		}
		if os.Rename(path, filepath.Join(dir, target)) == nil {
			taken[target] = true
		}
	}

	next := 1
	for _, path := range leftovers {
		for {
			target := fmt.Sprintf("slide-%02d.png", next)
			next++
			if !taken[target] {
				if os.Rename(path, filepath.Join(dir, target)) == nil {
					taken[target] = true
				}
				break
			}
		}
	}
}

// SlideImage returns the path of the exported image for a 0-based slide
// index, or "" when it does not exist.
func SlideImage(dir string, index int) string {
	for _, name := range []string{
		fmt.Sprintf("slide-%d.png", index+1),
		fmt.Sprintf("slide-%02d.png", index+1),
	} {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
