package document

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/eval/template"
	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/layout"
	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/resume"
	"go.uber.org/zap"
)

const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

const docxPackageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

// Font sizes in half-points, colours as RGB hex
const (
	docxFont          = "Microsoft YaHei"
	docxSizeName      = 32
	docxSizeSection   = 28
	docxSizeSubtitle  = 22
	docxSizeBody      = 21
	docxSizeAuxiliary = 18

	docxColorPrimary   = "2C3E50"
	docxColorSecondary = "666666"
	docxColorTertiary  = "888888"
)

// A4 page with 0.6in top/bottom and 0.75in side margins, in twips
const (
	docxPageWidth    = 11906
	docxPageHeight   = 16838
	docxMarginTop    = 864
	docxMarginSide   = 1080
	docxTextWidth    = docxPageWidth - 2*docxMarginSide
	docxIndentBullet = 360
	docxIndentSkill  = 216
	docxIndentTech   = 144
)

var docxSectionTitles = map[string]string{
	layout.SectionSummary:    "个人简介",
	layout.SectionEducation:  "教育背景",
	layout.SectionExperience: "工作经历",
	layout.SectionProjects:   "项目经验",
	layout.SectionSkills:     "技能清单",
	layout.SectionOther:      "其他",
}

// DOCXBuilder writes a resume as a Word document, sections in layout order.
type DOCXBuilder struct {
	Planner *layout.Planner
	Layout  *layout.Config // nil uses layout.DefaultConfig
	Logger  *zap.Logger
}

// NewDOCXBuilder creates a builder with default layout rules
func NewDOCXBuilder(planner *layout.Planner, logger *zap.Logger) *DOCXBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if planner == nil {
		planner = layout.NewPlanner(logger)
	}
	return &DOCXBuilder{Planner: planner, Logger: logger}
}

// Build plans the section order and writes the document
func (b *DOCXBuilder) Build(ctx context.Context, data template.Context) ([]byte, *layout.Plan, error) {
	if b.Planner == nil {
		return nil, nil, NewError(KindInternal, "docx builder is not configured", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	plan, err := b.Planner.Plan(ctx, data, b.Layout)
	if err != nil {
		return nil, nil, NewError(KindValidation, "layout planning failed", err)
	}

	body := docxResumeBody(resume.Prepare(data, plan), plan.Order)
	out, err := writeDOCX(body)
	if err != nil {
		return nil, nil, NewError(KindInternal, "failed to write docx", err)
	}

	b.Logger.Debug("docx resume rendered",
		zap.String("hint", plan.Hint),
		zap.Int("paragraphs", len(body.Paragraphs)),
		zap.Int("bytes", len(out)),
	)
	return out, plan, nil
}

func writeDOCX(body docxBody) ([]byte, error) {
	document, err := xml.Marshal(docxDocument{Namespace: wordNamespace, Body: body})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(docxContentTypes)},
		{"_rels/.rels", []byte(docxPackageRels)},
		{"word/document.xml", append([]byte(xml.Header), document...)},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", part.name, err)
		}
		if _, err := w.Write(part.data); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close archive: %w", err)
	}
	return buf.Bytes(), nil
}

// docxResumeBody lays out the header followed by every non-empty section in order
func docxResumeBody(data template.Context, order []string) docxBody {
	var w docxWriter

	name := lookupText(data, "name")
	if name == "" {
		name = "姓名"
	}
	w.add(docxParagraph{
		Props: &docxParaProps{Spacing: &docxSpacing{After: 120}, Justify: &docxVal{Val: "center"}},
		Runs:  []docxRun{textRun(name, docxSizeName, docxColorPrimary, true)},
	})
	if title := lookupText(data, "title"); title != "" {
		w.add(docxParagraph{
			Props: &docxParaProps{Spacing: &docxSpacing{After: 80}, Justify: &docxVal{Val: "center"}},
			Runs:  []docxRun{textRun(title, docxSizeSubtitle, docxColorSecondary, false)},
		})
	}
	if contact := lookupText(data, resume.KeyContact); contact != "" {
		w.add(docxParagraph{
			Props: &docxParaProps{Spacing: &docxSpacing{After: 240}, Justify: &docxVal{Val: "center"}},
			Runs:  []docxRun{textRun(contact, docxSizeAuxiliary, docxColorSecondary, false)},
		})
	}

	for _, section := range order {
		value, ok := data.Lookup(section)
		if !ok || !value.Truthy() {
			continue
		}
		w.sectionTitle(docxSectionTitles[section])

		switch section {
		case layout.SectionSummary:
			w.add(docxParagraph{
				Props: &docxParaProps{Spacing: &docxSpacing{After: 240, Line: 360}},
				Runs:  []docxRun{textRun(value.String(), docxSizeBody, "", false)},
			})
		case layout.SectionExperience:
			for _, entry := range entries(value) {
				w.entryHeader(lookupText(entry, "company"), lookupText(entry, "position"), "", dateRange(entry))
				w.bullets(entry, "achievements")
			}
		case layout.SectionProjects:
			for _, entry := range entries(value) {
				w.entryHeader(lookupText(entry, "name"), lookupText(entry, "role"), docxColorSecondary, firstText(entry, "date", "period"))
				if tech := joinedText(entry, "tech"); tech != "" {
					w.add(docxParagraph{
						Props: &docxParaProps{Spacing: &docxSpacing{After: 80}, Indent: &docxIndent{Left: docxIndentTech}},
						Runs: []docxRun{
							textRun("技术栈：", docxSizeBody, "", true),
							textRun(tech, docxSizeBody, docxColorSecondary, false),
						},
					})
				}
				if desc := lookupText(entry, "description"); desc != "" {
					w.add(docxParagraph{
						Props: &docxParaProps{Spacing: &docxSpacing{After: 40}, Indent: &docxIndent{Left: docxIndentTech}},
						Runs:  []docxRun{textRun(desc, docxSizeBody, "", false)},
					})
				}
				w.bullets(entry, "details")
				w.bullets(entry, "achievements")
			}
		case layout.SectionEducation:
			for _, entry := range entries(value) {
				w.entryHeader(lookupText(entry, "school"), degreeText(entry), docxColorSecondary, dateRange(entry))
				if gpa := lookupText(entry, "gpa"); gpa != "" {
					w.add(docxParagraph{
						Props: &docxParaProps{Spacing: &docxSpacing{After: 80}, Indent: &docxIndent{Left: docxIndentBullet}},
						Runs:  []docxRun{textRun("GPA: "+gpa, docxSizeBody, docxColorSecondary, false)},
					})
				}
			}
		case layout.SectionSkills:
			for _, entry := range entries(value) {
				w.add(docxParagraph{
					Props: &docxParaProps{Spacing: &docxSpacing{After: 80}, Indent: &docxIndent{Left: docxIndentSkill}},
					Runs: []docxRun{
						textRun(lookupText(entry, "category")+"：", docxSizeBody, "", true),
						textRun(joinedText(entry, "items"), docxSizeBody, "", false),
					},
				})
			}
		default:
			items, ok := value.AsSeq()
			if !ok {
				items = []template.Value{value}
			}
			for _, item := range items {
				w.bullet(item.String())
			}
		}
	}

	return docxBody{
		Paragraphs: w.paragraphs,
		Section: docxSectPr{
			PageSize: docxPageSize{Width: docxPageWidth, Height: docxPageHeight},
			Margins: docxPageMargins{
				Top: docxMarginTop, Bottom: docxMarginTop,
				Left: docxMarginSide, Right: docxMarginSide,
				Header: 720, Footer: 720,
			},
		},
	}
}

type docxWriter struct {
	paragraphs []docxParagraph
}

func (w *docxWriter) add(p docxParagraph) {
	w.paragraphs = append(w.paragraphs, p)
}

func (w *docxWriter) sectionTitle(title string) {
	w.add(docxParagraph{
		Props: &docxParaProps{
			KeepNext: &struct{}{},
			Border: &docxBorders{Bottom: docxBorder{
				Val: "single", Size: 6, Space: 1, Color: docxColorPrimary,
			}},
			Spacing: &docxSpacing{Before: 280, After: 160},
		},
		Runs: []docxRun{textRun(title, docxSizeSection, docxColorPrimary, true)},
	})
}

// entryHeader writes "Heading | detail" with the dates pushed to a right tab stop
func (w *docxWriter) entryHeader(heading, detail, detailColor, dates string) {
	runs := []docxRun{textRun(heading, docxSizeSubtitle, "", true)}
	if detail != "" {
		runs = append(runs,
			textRun(" | ", docxSizeBody, "", false),
			textRun(detail, docxSizeBody, detailColor, false),
		)
	}
	if dates != "" {
		runs = append(runs,
			docxRun{Tab: &struct{}{}},
			textRun(dates, docxSizeAuxiliary, docxColorTertiary, false),
		)
	}
	w.add(docxParagraph{
		Props: &docxParaProps{
			Tabs:    &docxTabs{Tab: docxTabStop{Val: "right", Pos: docxTextWidth}},
			Spacing: &docxSpacing{After: 80},
		},
		Runs: runs,
	})
}

func (w *docxWriter) bullets(entry template.Context, key string) {
	value, _ := entry.Lookup(key)
	items, _ := value.AsSeq()
	for _, item := range items {
		w.bullet(item.String())
	}
}

func (w *docxWriter) bullet(text string) {
	w.add(docxParagraph{
		Props: &docxParaProps{Spacing: &docxSpacing{After: 40}, Indent: &docxIndent{Left: docxIndentBullet}},
		Runs:  []docxRun{textRun("• "+text, docxSizeBody, "", false)},
	})
}

func textRun(text string, size int, color string, bold bool) docxRun {
	props := &docxRunProps{
		Fonts: docxFonts{ASCII: docxFont, HAnsi: docxFont, EastAsia: docxFont},
		Size:  &docxIntVal{Val: size},
	}
	if bold {
		props.Bold = &struct{}{}
	}
	if color != "" {
		props.Color = &docxVal{Val: color}
	}
	return docxRun{Props: props, Text: &docxText{Space: "preserve", Value: text}}
}

// entries returns the mapping items of a sequence value
func entries(value template.Value) []template.Context {
	items, _ := value.AsSeq()
	out := make([]template.Context, 0, len(items))
	for _, item := range items {
		if m, ok := item.AsMap(); ok {
			out = append(out, m)
		}
	}
	return out
}

// lookupText returns the text of a truthy field, "" otherwise
func lookupText(data template.Context, key string) string {
	v, ok := data.Lookup(key)
	if !ok || !v.Truthy() {
		return ""
	}
	return v.String()
}

func firstText(data template.Context, keys ...string) string {
	for _, key := range keys {
		if s := lookupText(data, key); s != "" {
			return s
		}
	}
	return ""
}

// joinedText joins a sequence with ", "; other values print as usual
func joinedText(data template.Context, key string) string {
	v, ok := data.Lookup(key)
	if !ok {
		return ""
	}
	items, isSeq := v.AsSeq()
	if !isSeq {
		return lookupText(data, key)
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, ", ")
}

// dateRange prefers startDate/endDate and falls back to period
func dateRange(entry template.Context) string {
	start, end := lookupText(entry, "startDate"), lookupText(entry, "endDate")
	if start != "" || end != "" {
		return start + " - " + end
	}
	return lookupText(entry, "period")
}

func degreeText(entry template.Context) string {
	degree, major := lookupText(entry, "degree"), lookupText(entry, "major")
	switch {
	case degree != "" && major != "":
		return degree + " · " + major
	case degree != "":
		return degree
	default:
		return major
	}
}

// WordprocessingML subset written by DOCXBuilder. Field order follows the schema.

type docxDocument struct {
	XMLName   xml.Name `xml:"w:document"`
	Namespace string   `xml:"xmlns:w,attr"`
	Body      docxBody `xml:"w:body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"w:p"`
	Section    docxSectPr      `xml:"w:sectPr"`
}

type docxParagraph struct {
	Props *docxParaProps `xml:"w:pPr,omitempty"`
	Runs  []docxRun      `xml:"w:r"`
}

type docxParaProps struct {
	KeepNext *struct{}    `xml:"w:keepNext,omitempty"`
	Border   *docxBorders `xml:"w:pBdr,omitempty"`
	Tabs     *docxTabs    `xml:"w:tabs,omitempty"`
	Spacing  *docxSpacing `xml:"w:spacing,omitempty"`
	Indent   *docxIndent  `xml:"w:ind,omitempty"`
	Justify  *docxVal     `xml:"w:jc,omitempty"`
}

type docxBorders struct {
	Bottom docxBorder `xml:"w:bottom"`
}

type docxBorder struct {
	Val   string `xml:"w:val,attr"`
	Size  int    `xml:"w:sz,attr"`
	Space int    `xml:"w:space,attr"`
	Color string `xml:"w:color,attr"`
}

type docxTabs struct {
	Tab docxTabStop `xml:"w:tab"`
}

type docxTabStop struct {
	Val string `xml:"w:val,attr"`
	Pos int    `xml:"w:pos,attr"`
}

type docxSpacing struct {
	Before int `xml:"w:before,attr,omitempty"`
	After  int `xml:"w:after,attr,omitempty"`
	Line   int `xml:"w:line,attr,omitempty"`
}

type docxIndent struct {
	Left int `xml:"w:left,attr"`
}

type docxVal struct {
	Val string `xml:"w:val,attr"`
}

type docxIntVal struct {
	Val int `xml:"w:val,attr"`
}

type docxRun struct {
	Props *docxRunProps `xml:"w:rPr,omitempty"`
	Tab   *struct{}     `xml:"w:tab,omitempty"`
	Text  *docxText     `xml:"w:t,omitempty"`
}

type docxRunProps struct {
	Fonts docxFonts   `xml:"w:rFonts"`
	Bold  *struct{}   `xml:"w:b,omitempty"`
	Color *docxVal    `xml:"w:color,omitempty"`
	Size  *docxIntVal `xml:"w:sz,omitempty"`
}

type docxFonts struct {
	ASCII    string `xml:"w:ascii,attr"`
	HAnsi    string `xml:"w:hAnsi,attr"`
	EastAsia string `xml:"w:eastAsia,attr"`
}

type docxText struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

type docxSectPr struct {
	PageSize docxPageSize    `xml:"w:pgSz"`
	Margins  docxPageMargins `xml:"w:pgMar"`
}

type docxPageSize struct {
	Width  int `xml:"w:w,attr"`
	Height int `xml:"w:h,attr"`
}

type docxPageMargins struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
	Header int `xml:"w:header,attr"`
	Footer int `xml:"w:footer,attr"`
}
