// Package pptx implements the deck.Sink contract for PowerPoint files.
//
// The writer emits a minimal but valid OOXML package through archive/zip:
// one blank slide per AddBlankSlide, one picture per PlaceImage, with
// offsets and extents in EMU and fill-mode cropping expressed as an
// a:srcRect in thousandths of a percent. Decks are saved atomically — the
// package is written to a temp file and renamed into place, so a failed
// save never leaves a partial deck on disk.
package pptx

import (
	"archive/zip"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/slideforge/slideforge/api"
	"github.com/slideforge/slideforge/deck"
)

// picture is one placed image, geometry already converted to EMU.
type picture struct {
	media                  int    // 1-based media part index
	ext                    string // media extension, lowercase, no dot
	offX, offY, extX, extY int64
	crop                   api.Crop
}

type slideSpec struct {
	pic *picture
}

type mediaRef struct {
	srcPath string
	ext     string // lowercase, no dot
}

// Writer accumulates slides in memory and serializes them on Save.
// A deck has a single slide size; the first AddBlankSlide fixes it.
type Writer struct {
	widthEMU  int64
	heightEMU int64
	slides    []*slideSpec
	media     []mediaRef
}

var _ deck.Sink = (*Writer)(nil)

// NewWriter creates an empty deck writer.
func NewWriter() *Writer {
	return &Writer{}
}

// AddBlankSlide appends a blank slide. Every slide in a PPTX package shares
// the presentation-wide size, so a size differing from the first slide's is
// rejected.
func (w *Writer) AddBlankSlide(widthIn, heightIn float64) (deck.SlideHandle, error) {
	cx, err := api.EMU(widthIn)
	if err != nil {
		return 0, err
	}
	cy, err := api.EMU(heightIn)
	if err != nil {
		return 0, err
	}

	if len(w.slides) == 0 {
		w.widthEMU, w.heightEMU = cx, cy
	} else if cx != w.widthEMU || cy != w.heightEMU {
		return 0, fmt.Errorf("pptx: deck uses a single slide size (%d x %d EMU), got %d x %d",
			w.widthEMU, w.heightEMU, cx, cy)
	}

	w.slides = append(w.slides, &slideSpec{})
	return deck.SlideHandle(len(w.slides) - 1), nil
}

// PlaceImage registers the image as a media part and records its placement
// on the slide. One image per slide.
func (w *Writer) PlaceImage(handle deck.SlideHandle, src api.ImageSource, p api.Placement) error {
	if int(handle) < 0 || int(handle) >= len(w.slides) {
		return fmt.Errorf("pptx: unknown slide handle %d", handle)
	}
	slide := w.slides[handle]
	if slide.pic != nil {
		return fmt.Errorf("pptx: slide %d already has an image", int(handle)+1)
	}
	if err := src.Validate(); err != nil {
		return err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(src.Path), "."))
	if ext == "" {
		return fmt.Errorf("pptx: image %s has no extension", src.Path)
	}

	offX, err := api.OffsetEMU(p.X)
	if err != nil {
		return err
	}
	offY, err := api.OffsetEMU(p.Y)
	if err != nil {
		return err
	}
	extX, err := api.EMU(p.Width)
	if err != nil {
		return err
	}
	extY, err := api.EMU(p.Height)
	if err != nil {
		return err
	}

	w.media = append(w.media, mediaRef{srcPath: src.Path, ext: ext})
	slide.pic = &picture{
		media: len(w.media),
		ext:   ext,
		offX:  offX,
		offY:  offY,
		extX:  extX,
		extY:  extY,
		crop:  p.Crop,
	}
	return nil
}

// Save writes the package to path atomically.
func (w *Writer) Save(path string) error {
	if len(w.slides) == 0 {
		return fmt.Errorf("pptx: deck has no slides")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".deck-*.pptx")
	if err != nil {
		return fmt.Errorf("pptx: create temp file: %w", err)
	}

	// CreateTemp opens the file 0600; the finished deck is a regular
	// document and keeps these permissions through the rename.
	err = tmp.Chmod(0o644)
	if err == nil {
		err = w.writePackage(tmp)
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("pptx: write %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("pptx: save %s: %w", path, err)
	}
	return nil
}

func (w *Writer) writePackage(out io.Writer) error {
	z := zip.NewWriter(out)

	addPart := func(name, content string) error {
		f, err := z.Create(name)
		if err != nil {
			return err
		}
		_, err = io.WriteString(f, content)
		return err
	}

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", w.contentTypesXML()},
		{"_rels/.rels", rootRels},
		{"ppt/presentation.xml", w.presentationXML()},
		{"ppt/_rels/presentation.xml.rels", w.presentationRelsXML()},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRels},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRels},
		{"ppt/theme/theme1.xml", themeXML},
	}
	for _, part := range parts {
		if err := addPart(part.name, part.content); err != nil {
			return err
		}
	}

	for i, s := range w.slides {
		if err := addPart(fmt.Sprintf("ppt/slides/slide%d.xml", i+1), slideXML(s)); err != nil {
			return err
		}
		if err := addPart(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), slideRelsXML(s)); err != nil {
			return err
		}
	}

	for i, m := range w.media {
		if err := copyMedia(z, fmt.Sprintf("ppt/media/image%d.%s", i+1, m.ext), m.srcPath); err != nil {
			return err
		}
	}

	return z.Close()
}

func copyMedia(z *zip.Writer, name, srcPath string) error {
	f, err := z.Create(name)
	if err != nil {
		return err
	}
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(f, src)
	return err
}

func (w *Writer) contentTypesXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)

	types := mediaContentTypes(w.media)
	exts := lo.Keys(types)
	sort.Strings(exts)
	for _, ext := range exts {
		fmt.Fprintf(&b, `<Default Extension="%s" ContentType="%s"/>`, ext, types[ext])
	}

	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	for i := range w.slides {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i+1)
	}
	b.WriteString(`</Types>`)
	return b.String()
}

// mediaContentTypes maps the extensions actually present in the deck to
// their MIME types.
func mediaContentTypes(media []mediaRef) map[string]string {
	mimes := map[string]string{
		"png": "image/png", "jpg": "image/jpeg", "jpeg": "image/jpeg",
		"gif": "image/gif", "tif": "image/tiff", "tiff": "image/tiff",
		"bmp": "image/bmp", "webp": "image/webp", "ico": "image/x-icon",
		"heic": "image/heic", "heif": "image/heif",
	}
	out := map[string]string{}
	for _, m := range media {
		if mime, ok := mimes[m.ext]; ok {
			out[m.ext] = mime
		} else {
			out[m.ext] = "application/octet-stream"
		}
	}
	return out
}

func (w *Writer) presentationXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<p:presentation xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">`, nsA, nsR, nsP)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	b.WriteString(`<p:sldIdLst>`)
	for i := range w.slides {
		fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, 2+i)
	}
	b.WriteString(`</p:sldIdLst>`)
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/>`, w.widthEMU, w.heightEMU)
	b.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func (w *Writer) presentationRelsXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	for i := range w.slides {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, 2+i, i+1)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func slideXML(s *slideSpec) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">`, nsA, nsR, nsP)
	b.WriteString(`<p:cSld>`)
	b.WriteString(emptyShapeTree)
	if s.pic != nil {
		writePicXML(&b, s.pic)
	}
	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sld>`)
	return b.String()
}

func writePicXML(b *strings.Builder, pic *picture) {
	b.WriteString(`<p:pic>`)
	b.WriteString(`<p:nvPicPr><p:cNvPr id="2" name="Picture 1"/>` +
		`<p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`)
	b.WriteString(`<p:blipFill>`)
	b.WriteString(`<a:blip r:embed="rId2"/>`)
	if !pic.crop.IsZero() {
		fmt.Fprintf(b, `<a:srcRect l="%d" t="%d" r="%d" b="%d"/>`,
			cropPermille(pic.crop.Left), cropPermille(pic.crop.Top),
			cropPermille(pic.crop.Right), cropPermille(pic.crop.Bottom))
	}
	b.WriteString(`<a:stretch><a:fillRect/></a:stretch>`)
	b.WriteString(`</p:blipFill>`)
	fmt.Fprintf(b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`,
		pic.offX, pic.offY, pic.extX, pic.extY)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`)
	b.WriteString(`</p:pic>`)
}

// cropPermille converts a crop fraction to OOXML srcRect units,
// thousandths of a percent.
func cropPermille(fraction float64) int64 {
	return int64(math.Round(fraction * 100000))
}

func slideRelsXML(s *slideSpec) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`)
	if s.pic != nil {
		fmt.Fprintf(&b, `<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/image%d.%s"/>`,
			s.pic.media, s.pic.ext)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}
