// Package slideforge converts PDFs and folders of images into PowerPoint
// decks, one slide per page or image, with deterministic fit/fill
// placement.
//
// The pipeline per input: classify, rasterize (PDFs) or enumerate and
// probe (folders), build the deck through a container sink, and release
// any temporary page images on every exit path. Batch conversions isolate
// failures per input.
package slideforge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flanksource/commons/logger"

	"github.com/slideforge/slideforge/api"
	"github.com/slideforge/slideforge/deck"
	"github.com/slideforge/slideforge/deck/pptx"
	"github.com/slideforge/slideforge/ingest"
	"github.com/slideforge/slideforge/rasterize"
)

// DPI bounds conventionally applied by callers; rendering cost grows with
// the square of the DPI.
const (
	MinDPI     = 72
	MaxDPI     = 1200
	DefaultDPI = 300

	// warnDPI is where rasterization gets noticeably slow.
	warnDPI = 600
)

// Options configures a conversion run.
type Options struct {
	// Size of every slide in the deck. Zero means infer from the first
	// page (PDFs) or first image (folders), landscape-normalized.
	Size api.SlideSize

	// Mode is the placement policy, fit or fill.
	Mode api.Mode

	// DPI used when rasterizing PDF pages.
	DPI int

	// Output is the target .pptx path. Empty derives it from the input:
	// <stem>.pptx next to a file, <folder>/<folder>.pptx for a folder.
	// Only valid when the batch expands to a single deck.
	Output string

	// Recursive descends into subfolders when processing folders.
	Recursive bool

	// Force overwrites an existing output file.
	Force bool
}

func (o Options) withDefaults() Options {
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	return o
}

// Result describes one produced (or failed) deck.
type Result struct {
	Input   string
	Output  string
	Slides  int
	Skipped int // allow-list rejects encountered while enumerating
	Err     error
}

// Summary tallies a batch conversion.
type Summary struct {
	Results   []Result
	Succeeded int
	Failed    int
}

// Converter runs the conversion pipeline. The zero value is not usable;
// call New.
type Converter struct {
	rasterizer *rasterize.Manager
	newSink    func() deck.Sink
}

// New creates a Converter writing PowerPoint decks, with rasterization
// backends auto-detected.
func New() *Converter {
	return &Converter{
		rasterizer: NewRasterizer(),
		newSink:    func() deck.Sink { return pptx.NewWriter() },
	}
}

// NewRasterizer exposes backend auto-detection for callers that want to
// inspect or override backend choice before converting.
func NewRasterizer() *rasterize.Manager {
	return rasterize.NewManager()
}

// Rasterizer returns the manager used for PDF page rendering.
func (c *Converter) Rasterizer() *rasterize.Manager {
	return c.rasterizer
}

// Convert processes a single input path. A folder containing PDFs yields
// one deck per PDF; anything else yields one deck.
func (c *Converter) Convert(ctx context.Context, input string, opts Options) []Result {
	opts = opts.withDefaults()

	jobs, err := c.expand(input, opts)
	if err != nil {
		return []Result{{Input: input, Err: err}}
	}

	// An explicit output names exactly one deck; reusing it across the
	// decks of a folder of PDFs would overwrite all but the last.
	if opts.Output != "" && len(jobs) > 1 {
		return []Result{{Input: input, Err: fmt.Errorf(
			"output %s cannot be shared by the %d decks produced from %s",
			opts.Output, len(jobs), input)}}
	}

	results := make([]Result, 0, len(jobs))
	for _, job := range jobs {
		results = append(results, job.run(ctx, c, opts))
	}
	return results
}

// ConvertBatch processes independent inputs, isolating failures: one bad
// input never aborts its siblings.
func (c *Converter) ConvertBatch(ctx context.Context, inputs []string, opts Options) Summary {
	var s Summary
	for _, input := range inputs {
		for _, r := range c.Convert(ctx, input, opts) {
			s.Results = append(s.Results, r)
			if r.Err != nil {
				s.Failed++
			} else {
				s.Succeeded++
			}
		}
	}
	return s
}

// job is one deck to produce.
type job struct {
	input   string
	kind    ingest.Kind // KindPDF or KindImage; folders expand to jobs
	folder  bool
	skipped int
}

func (j job) run(ctx context.Context, c *Converter, opts Options) Result {
	res := Result{Input: j.input, Skipped: j.skipped}

	var err error
	switch {
	case j.folder:
		res.Output, res.Slides, err = c.convertImageFolder(j.input, opts)
	case j.kind == ingest.KindPDF:
		res.Output, res.Slides, err = c.convertPDF(ctx, j.input, opts)
	default:
		res.Output, res.Slides, err = c.convertSingleImage(j.input, opts)
	}
	res.Err = err
	return res
}

// expand maps an input path to the decks it should produce.
func (c *Converter) expand(input string, opts Options) ([]job, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("input not found: %s", input)
	}

	if !info.IsDir() {
		switch kind := ingest.Classify(input); kind {
		case ingest.KindPDF, ingest.KindImage:
			return []job{{input: input, kind: kind}}, nil
		default:
			return nil, fmt.Errorf("%w: %s", api.ErrUnsupportedFormat, filepath.Base(input))
		}
	}

	return c.expandFolder(input, opts)
}

func (c *Converter) expandFolder(dir string, opts Options) ([]job, error) {
	listing, err := ingest.ListFolder(dir)
	if err != nil {
		return nil, err
	}

	var jobs []job
	switch {
	case len(listing.PDFs) > 0 && len(listing.Images) > 0:
		logger.Warnf("mixed content in %s: prioritizing %d PDFs over %d images",
			filepath.Base(dir), len(listing.PDFs), len(listing.Images))
		fallthrough
	case len(listing.PDFs) > 0:
		for _, pdf := range listing.PDFs {
			jobs = append(jobs, job{input: pdf, kind: ingest.KindPDF})
		}
	case len(listing.Images) > 0:
		jobs = append(jobs, job{input: dir, folder: true, skipped: listing.Skipped})
	}

	if opts.Recursive {
		subdirs, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, e := range subdirs {
			if !e.IsDir() {
				continue
			}
			sub, err := c.expandFolder(filepath.Join(dir, e.Name()), opts)
			if err != nil {
				// Empty subfolders are fine during recursion.
				if errors.Is(err, api.ErrNothingToConvert) {
					continue
				}
				return nil, err
			}
			jobs = append(jobs, sub...)
		}
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: no supported files in %s", api.ErrNothingToConvert, dir)
	}
	return jobs, nil
}

func (c *Converter) convertPDF(ctx context.Context, path string, opts Options) (string, int, error) {
	pdfInfo, err := rasterize.Preflight(path)
	if err != nil {
		return "", 0, err
	}

	size := opts.Size
	if size.IsZero() {
		size = api.SlideSize{WidthIn: pdfInfo.PageWidthIn, HeightIn: pdfInfo.PageHeightIn}
	}

	if opts.DPI > warnDPI {
		logger.Warnf("rasterizing %s at %d dpi; rendering time grows with dpi²",
			filepath.Base(path), opts.DPI)
	}

	pages, err := c.rasterizer.Rasterize(ctx, path, opts.DPI)
	if err != nil {
		return "", 0, err
	}
	defer pages.Release()

	out, err := c.outputPath(path, false, opts)
	if err != nil {
		return "", 0, err
	}
	if err := c.buildDeck(out, pages.Sources, size, opts.Mode); err != nil {
		return "", 0, err
	}
	return out, len(pages.Sources), nil
}

func (c *Converter) convertImageFolder(dir string, opts Options) (string, int, error) {
	listing, err := ingest.ListFolder(dir)
	if err != nil {
		return "", 0, err
	}
	if len(listing.Images) == 0 {
		return "", 0, fmt.Errorf("%w: no images in %s", api.ErrNothingToConvert, dir)
	}

	sources, err := ingest.ProbeAll(listing.Images)
	if err != nil {
		return "", 0, err
	}

	size := opts.Size
	if size.IsZero() {
		size = inferredSlideSize(sources[0])
	}

	out, err := c.outputPath(dir, true, opts)
	if err != nil {
		return "", 0, err
	}
	if err := c.buildDeck(out, sources, size, opts.Mode); err != nil {
		return "", 0, err
	}
	return out, len(sources), nil
}

func (c *Converter) convertSingleImage(path string, opts Options) (string, int, error) {
	src, err := ingest.Probe(path)
	if err != nil {
		return "", 0, err
	}

	size := opts.Size
	if size.IsZero() {
		size = inferredSlideSize(src)
	}

	out, err := c.outputPath(path, false, opts)
	if err != nil {
		return "", 0, err
	}
	if err := c.buildDeck(out, []api.ImageSource{src}, size, opts.Mode); err != nil {
		return "", 0, err
	}
	return out, 1, nil
}

func (c *Converter) buildDeck(out string, sources []api.ImageSource, size api.SlideSize, mode api.Mode) error {
	sink := c.newSink()
	if err := deck.Build(sink, sources, size, mode); err != nil {
		return err
	}
	if err := sink.Save(out); err != nil {
		return err
	}
	logger.Infof("wrote %s (%d slides, %s, %s)", out, len(sources), size, mode)
	return nil
}

// inferredSlideSize derives a slide size from an image's pixel dimensions
// assuming 96 px per inch, normalized to landscape.
func inferredSlideSize(src api.ImageSource) api.SlideSize {
	w := float64(src.Width) / 96
	h := float64(src.Height) / 96
	if w < h {
		w, h = h, w
	}
	return api.SlideSize{WidthIn: w, HeightIn: h}
}

// outputPath resolves the deck path for an input and enforces the
// overwrite policy.
func (c *Converter) outputPath(input string, isDir bool, opts Options) (string, error) {
	out := opts.Output
	if out == "" {
		if isDir {
			out = filepath.Join(input, filepath.Base(input)+".pptx")
		} else {
			out = strings.TrimSuffix(input, filepath.Ext(input)) + ".pptx"
		}
	} else if !strings.EqualFold(filepath.Ext(out), ".pptx") {
		out += ".pptx"
	}

	if !opts.Force {
		if _, err := os.Stat(out); err == nil {
			return "", fmt.Errorf("%w: %s", api.ErrOutputExists, out)
		}
	}
	return out, nil
}

// Describe renders a one-line human summary for a result.
func (r Result) Describe() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: %v", r.Input, r.Err)
	}
	plural := "s"
	if r.Slides == 1 {
		plural = ""
	}
	msg := fmt.Sprintf("%s -> %s (%d slide%s)", r.Input, r.Output, r.Slides, plural)
	if r.Skipped > 0 {
		msg += fmt.Sprintf(", %d unsupported file(s) skipped", r.Skipped)
	}
	return msg
}

// NothingConverted reports whether the whole batch produced no deck.
func (s Summary) NothingConverted() bool {
	return s.Succeeded == 0
}

// Err returns a terminal error when every input failed.
func (s Summary) Err() error {
	if len(s.Results) > 0 && s.Failed == len(s.Results) {
		if len(s.Results) == 1 {
			return s.Results[0].Err
		}
		return errors.New("all inputs failed")
	}
	return nil
}
