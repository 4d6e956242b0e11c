// Package skeleton builds small but complete PPTX templates from embedded XML
// parts. The default template backs the init-template command; custom layouts
// are used to produce fixtures with or without title and body placeholders.
package skeleton

import (
	"archive/zip"
	"bytes"
	"embed"
	"encoding/xml"
	"fmt"
	"strings"
)

//go:embed parts
var parts embed.FS

const (
	nsDecl = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`
	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

	relsNS         = "http://schemas.openxmlformats.org/package/2006/relationships"
	relSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctCore         = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtended     = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	masterID       = 2147483648
	firstSlideID   = 256
	emuPerInch     = 914400
	slideWidthEMU  = 9144000
	slideHeightEMU = 6858000
)

// Placeholder describes one placeholder shape on a layout. Type is the OOXML
// ST_PlaceholderType value ("title", "ctrTitle", "body", "subTitle", "pic",
// "dt", ...); an empty Type with a non-zero Idx is a generic content slot.
type Placeholder struct {
	Type string
	Idx  int
}

// Layout is a named slide layout.
type Layout struct {
	Name         string
	Placeholders []Placeholder
}

// Slide is a pre-built slide holding a single text box.
type Slide struct {
	Text string
}

// Options controls what Build produces.
type Options struct {
	Layouts []Layout
	Slides  []Slide
}

// TitleSlideLayout has a centred title and a subtitle.
func TitleSlideLayout() Layout {
	return Layout{Name: "Title Slide", Placeholders: []Placeholder{{Type: "ctrTitle"}, {Type: "subTitle", Idx: 1}}}
}

// TitleAndContentLayout has a title and a generic content slot.
func TitleAndContentLayout() Layout {
	return Layout{Name: "Title and Content", Placeholders: []Placeholder{{Type: "title"}, {Idx: 1}}}
}

// TitleOnlyLayout has only a title.
func TitleOnlyLayout() Layout {
	return Layout{Name: "Title Only", Placeholders: []Placeholder{{Type: "title"}}}
}

// BlankLayout has no placeholders.
func BlankLayout() Layout {
	return Layout{Name: "Blank"}
}

// DefaultOptions is the layout set written by init-template.
func DefaultOptions() Options {
	return Options{Layouts: []Layout{TitleSlideLayout(), TitleAndContentLayout(), TitleOnlyLayout(), BlankLayout()}}
}

// Default returns the built-in default template.
func Default() ([]byte, error) {
	return Build(DefaultOptions())
}

// Build renders a PPTX package.
func Build(opts Options) ([]byte, error) {
	if len(opts.Layouts) == 0 {
		return nil, fmt.Errorf("skeleton: at least one layout is required")
	}

	files := []file{
		{"[Content_Types].xml", contentTypes(len(opts.Layouts), len(opts.Slides))},
		{"_rels/.rels", mustPart("root.rels")},
		{"docProps/core.xml", mustPart("core.xml")},
		{"docProps/app.xml", mustPart("app.xml")},
		{"ppt/presentation.xml", presentation(len(opts.Slides))},
		{"ppt/_rels/presentation.xml.rels", presentationRels(len(opts.Slides))},
		{"ppt/theme/theme1.xml", mustPart("theme1.xml")},
		{"ppt/slideMasters/slideMaster1.xml", slideMaster(len(opts.Layouts))},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRels(len(opts.Layouts))},
	}
	for i, l := range opts.Layouts {
		files = append(files,
			file{fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", i+1), slideLayout(l)},
			file{fmt.Sprintf("ppt/slideLayouts/_rels/slideLayout%d.xml.rels", i+1),
				rels(rel{1, relSlideMaster, "../slideMasters/slideMaster1.xml"})},
		)
	}
	for i, s := range opts.Slides {
		files = append(files,
			file{fmt.Sprintf("ppt/slides/slide%d.xml", i+1), slide(s)},
			file{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1),
				rels(rel{1, relSlideLayout, "../slideLayouts/slideLayout1.xml"})},
		)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			return nil, fmt.Errorf("skeleton: create %s: %w", f.name, err)
		}
		if _, err := w.Write([]byte(f.data)); err != nil {
			return nil, fmt.Errorf("skeleton: write %s: %w", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("skeleton: close archive: %w", err)
	}
	return buf.Bytes(), nil
}

type file struct {
	name string
	data string
}

func mustPart(name string) string {
	data, err := parts.ReadFile("parts/" + name)
	if err != nil {
		panic(fmt.Sprintf("skeleton: missing embedded part %s", name))
	}
	return string(data)
}

type rel struct {
	id     int
	typ    string
	target string
}

func rels(entries ...rel) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="` + relsNS + `">`)
	for _, e := range entries {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="%s" Target="%s"/>`, e.id, e.typ, e.target)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func contentTypes(layouts, slides int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	override := func(part, ct string) {
		fmt.Fprintf(&b, `<Override PartName="%s" ContentType="%s"/>`, part, ct)
	}
	override("/ppt/presentation.xml", ctPresentation)
	override("/ppt/slideMasters/slideMaster1.xml", ctSlideMaster)
	for i := 1; i <= layouts; i++ {
		override(fmt.Sprintf("/ppt/slideLayouts/slideLayout%d.xml", i), ctSlideLayout)
	}
	for i := 1; i <= slides; i++ {
		override(fmt.Sprintf("/ppt/slides/slide%d.xml", i), ctSlide)
	}
	override("/ppt/theme/theme1.xml", ctTheme)
	override("/docProps/core.xml", ctCore)
	override("/docProps/app.xml", ctExtended)
	b.WriteString(`</Types>`)
	return b.String()
}

// presentation.xml.rels: rId1 master, rId2 theme, rId3.. slides.
func presentation(slides int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:presentation ` + nsDecl + ` saveSubsetFonts="1">`)
	fmt.Fprintf(&b, `<p:sldMasterIdLst><p:sldMasterId id="%d" r:id="rId1"/></p:sldMasterIdLst>`, masterID)
	if slides > 0 {
		b.WriteString(`<p:sldIdLst>`)
		for i := 0; i < slides; i++ {
			fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, firstSlideID+i, i+3)
		}
		b.WriteString(`</p:sldIdLst>`)
	}
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d" type="screen4x3"/>`, slideWidthEMU, slideHeightEMU)
	fmt.Fprintf(&b, `<p:notesSz cx="%d" cy="%d"/>`, slideHeightEMU, slideWidthEMU)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func presentationRels(slides int) string {
	entries := []rel{
		{1, relSlideMaster, "slideMasters/slideMaster1.xml"},
		{2, relTheme, "theme/theme1.xml"},
	}
	for i := 0; i < slides; i++ {
		entries = append(entries, rel{i + 3, relSlide, fmt.Sprintf("slides/slide%d.xml", i+1)})
	}
	return rels(entries...)
}

// slideMaster1.xml.rels: rId1..n layouts, rId(n+1) theme.
func slideMaster(layouts int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sldMaster ` + nsDecl + `>`)
	b.WriteString(`<p:cSld><p:spTree>`)
	b.WriteString(groupShapeHeader())
	b.WriteString(placeholderShape(Placeholder{Type: "title"}, 2))
	b.WriteString(placeholderShape(Placeholder{Type: "body", Idx: 1}, 3))
	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" ` +
		`accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>`)
	b.WriteString(`<p:sldLayoutIdLst>`)
	for i := 0; i < layouts; i++ {
		fmt.Fprintf(&b, `<p:sldLayoutId id="%d" r:id="rId%d"/>`, masterID+1+i, i+1)
	}
	b.WriteString(`</p:sldLayoutIdLst>`)
	b.WriteString(`</p:sldMaster>`)
	return b.String()
}

func slideMasterRels(layouts int) string {
	entries := make([]rel, 0, layouts+1)
	for i := 0; i < layouts; i++ {
		entries = append(entries, rel{i + 1, relSlideLayout, fmt.Sprintf("../slideLayouts/slideLayout%d.xml", i+1)})
	}
	entries = append(entries, rel{layouts + 1, relTheme, "../theme/theme1.xml"})
	return rels(entries...)
}

func slideLayout(l Layout) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sldLayout ` + nsDecl + ` preserve="1">`)
	b.WriteString(`<p:cSld name="` + escape(l.Name) + `"><p:spTree>`)
	b.WriteString(groupShapeHeader())
	for i, ph := range l.Placeholders {
		b.WriteString(placeholderShape(ph, i+2))
	}
	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sldLayout>`)
	return b.String()
}

func slide(s Slide) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld ` + nsDecl + `>`)
	b.WriteString(`<p:cSld><p:spTree>`)
	b.WriteString(groupShapeHeader())
	b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="TextBox 1"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`)
	b.WriteString(xfrm(emuPerInch, emuPerInch, 8*emuPerInch, emuPerInch))
	b.WriteString(`<p:txBody><a:bodyPr wrap="square"/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US"/><a:t>`)
	b.WriteString(escape(s.Text))
	b.WriteString(`</a:t></a:r></a:p></p:txBody></p:sp>`)
	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sld>`)
	return b.String()
}

func groupShapeHeader() string {
	return `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
		`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/>` +
		`<a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`
}

func placeholderShape(ph Placeholder, id int) string {
	attrs := ""
	if ph.Type != "" {
		attrs += fmt.Sprintf(` type="%s"`, ph.Type)
	}
	if ph.Idx != 0 {
		attrs += fmt.Sprintf(` idx="%d"`, ph.Idx)
	}

	name := ph.Type
	if name == "" {
		name = "Content"
	}
	y, h := int64(emuPerInch)/2, int64(emuPerInch)
	if ph.Idx != 0 {
		y, h = int64(emuPerInch)*7/4, int64(emuPerInch)*9/2
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s Placeholder %d"/>`, id, escape(name), id-1)
	b.WriteString(`<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>`)
	fmt.Fprintf(&b, `<p:nvPr><p:ph%s/></p:nvPr></p:nvSpPr>`, attrs)
	b.WriteString(xfrm(emuPerInch/2, y, 9*emuPerInch, h))
	b.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:endParaRPr lang="en-US"/></a:p></p:txBody></p:sp>`)
	return b.String()
}

func xfrm(x, y, cx, cy int64) string {
	return fmt.Sprintf(`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`, x, y, cx, cy)
}

func escape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
