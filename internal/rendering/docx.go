package rendering

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"github.com/jonathan/resume-tailor/internal/templates"
	"github.com/jonathan/resume-tailor/internal/types"
)

// photoExtentEMU is the rendered photo size (100px) in English Metric Units
const photoExtentEMU = 100 * 9525

// run is a span of text with character formatting
type run struct {
	text   string
	bold   bool
	italic bool
	color  string
}

// wordBody accumulates WordprocessingML paragraphs
type wordBody struct {
	sb           strings.Builder
	headingColor string
	spacing      float64
}

func newWordBody(tpl templates.Template) *wordBody {
	return &wordBody{
		headingColor: strings.TrimPrefix(tpl.Colors.Heading, "#"),
		spacing:      tpl.SpacingMultiplier(),
	}
}

func (b *wordBody) String() string {
	return b.sb.String()
}

func (b *wordBody) title(text string) {
	b.sb.WriteString(`<w:p><w:pPr><w:pStyle w:val="Title"/><w:spacing w:after="200"/></w:pPr>`)
	b.writeRun(run{text: text, bold: true})
	b.sb.WriteString(`</w:p>`)
}

func (b *wordBody) subtitle(text string) {
	b.sb.WriteString(`<w:p><w:pPr><w:jc w:val="center"/><w:spacing w:after="400"/></w:pPr>`)
	b.writeRun(run{text: text, italic: true})
	b.sb.WriteString(`</w:p>`)
}

func (b *wordBody) heading(text string) {
	before := int(200 * b.spacing)
	fmt.Fprintf(&b.sb, `<w:p><w:pPr><w:pStyle w:val="Heading1"/><w:spacing w:before="%d" w:after="100"/></w:pPr>`, before)
	b.writeRun(run{text: text, bold: true, color: b.headingColor})
	b.sb.WriteString(`</w:p>`)
}

func (b *wordBody) paragraph(after int, runs ...run) {
	fmt.Fprintf(&b.sb, `<w:p><w:pPr><w:spacing w:after="%d"/></w:pPr>`, after)
	for _, r := range runs {
		b.writeRun(r)
	}
	b.sb.WriteString(`</w:p>`)
}

func (b *wordBody) indented(text string) {
	b.sb.WriteString(`<w:p><w:pPr><w:ind w:left="360"/><w:spacing w:after="50"/></w:pPr>`)
	b.writeRun(run{text: text})
	b.sb.WriteString(`</w:p>`)
}

func (b *wordBody) photo() {
	fmt.Fprintf(&b.sb, `<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:drawing>`+
		`<wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%[1]d" cy="%[1]d"/>`+
		`<wp:docPr id="1" name="Photo"/>`+
		`<wp:cNvGraphicFramePr><a:graphicFrameLocks noChangeAspect="1"/></wp:cNvGraphicFramePr>`+
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic><pic:nvPicPr><pic:cNvPr id="0" name="photo"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%[2]s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[1]d" cy="%[1]d"/></a:xfrm><a:prstGeom prst="ellipse"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`,
		photoExtentEMU, photoRelID)
}

// writeRun emits a run, turning newlines into line breaks
func (b *wordBody) writeRun(r run) {
	b.sb.WriteString(`<w:r>`)
	if r.bold || r.italic || r.color != "" {
		b.sb.WriteString(`<w:rPr>`)
		if r.bold {
			b.sb.WriteString(`<w:b/>`)
		}
		if r.italic {
			b.sb.WriteString(`<w:i/>`)
		}
		if r.color != "" {
			fmt.Fprintf(&b.sb, `<w:color w:val="%s"/>`, EscapeXML(r.color))
		}
		b.sb.WriteString(`</w:rPr>`)
	}
	for i, line := range strings.Split(r.text, "\n") {
		if i > 0 {
			b.sb.WriteString(`<w:br/>`)
		}
		fmt.Fprintf(&b.sb, `<w:t xml:space="preserve">%s</w:t>`, EscapeXML(line))
	}
	b.sb.WriteString(`</w:r>`)
}

// resumeBody lays out the resume sections as WordprocessingML paragraphs
func resumeBody(resume *types.CustomizedResume, tpl templates.Template, withPhoto bool) string {
	b := newWordBody(tpl)

	if withPhoto {
		b.photo()
	}
	b.title("RESUME")

	if summary := resume.Summary.Text(); summary != "" {
		b.heading(tpl.FormatHeading("Professional Summary"))
		b.paragraph(200, run{text: summary})
	}

	if len(resume.Skills) > 0 {
		b.heading(tpl.FormatHeading("Skills"))
		if withPhoto {
			for _, group := range templates.GroupSkillsByCategory(resume.Skills) {
				b.paragraph(50, run{text: group.Category + ": ", bold: true}, run{text: strings.Join(group.Skills, ", ")})
			}
		} else {
			b.paragraph(200, run{text: strings.Join(resume.Skills, " • ")})
		}
	}

	if len(resume.Experience) > 0 {
		b.heading(tpl.FormatHeading("Experience"))
		for _, exp := range resume.Experience {
			b.paragraph(50, run{text: exp.Role, bold: true})
			b.paragraph(100, run{text: joinNonEmpty(" | ", exp.Company, exp.Duration), italic: true})
			for _, bullet := range exp.Bullets {
				if text := bullet.Text(); text != "" {
					b.indented(tpl.FormatBullet(text))
				}
			}
			b.paragraph(100)
		}
	}

	if len(resume.Projects) > 0 {
		b.heading(tpl.FormatHeading("Projects"))
		for _, p := range resume.Projects {
			b.paragraph(50, run{text: p.Name, bold: true})
			if p.Description != "" {
				b.paragraph(50, run{text: p.Description})
			}
			if len(p.Technologies) > 0 {
				b.paragraph(100, run{text: "Technologies: " + strings.Join(p.Technologies, ", "), italic: true})
			}
		}
	}

	if len(resume.Education) > 0 {
		b.heading(tpl.FormatHeading("Education"))
		for _, edu := range resume.Education {
			b.paragraph(50, run{text: edu.Degree, bold: true})
			b.paragraph(100, run{text: joinNonEmpty(" | ", edu.Institution, edu.Field, edu.Year)})
		}
	}

	return b.String()
}

// coverLetterBody lays out the cover letter paragraphs
func coverLetterBody(text, company, role string) string {
	b := newWordBody(templates.Resolve(templates.DefaultID))
	b.title("COVER LETTER")
	if subtitle := coverLetterSubtitle(company, role); subtitle != "" {
		b.subtitle(subtitle)
	}
	for _, p := range SplitParagraphs(text) {
		b.paragraph(200, run{text: p})
	}
	return b.String()
}

// ResumeDOCX renders a customized resume as a Word document. A non-nil photo
// is embedded as an inline picture above the title.
func ResumeDOCX(resume *types.CustomizedResume, tpl templates.Template, photo *Photo) ([]byte, error) {
	if resume == nil {
		return nil, &RenderError{Message: "resume is required"}
	}

	withPhoto := photo != nil && len(photo.Data) > 0
	return writeDOCX(docxFont(tpl.FontFamily), resumeBody(resume, tpl, withPhoto), photoIf(withPhoto, photo))
}

// CoverLetterDOCX renders cover letter text as a Word document
func CoverLetterDOCX(text, company, role string) ([]byte, error) {
	return writeDOCX(docxFont(templates.FontSerif), coverLetterBody(text, company, role), nil)
}

func photoIf(ok bool, photo *Photo) *Photo {
	if ok {
		return photo
	}
	return nil
}

// writeDOCX fills a skeleton package with body and, optionally, the photo
func writeDOCX(font, body string, photo *Photo) ([]byte, error) {
	ext := ""
	if photo != nil {
		var err error
		if ext, err = imageExtension(photo.MIMEType); err != nil {
			return nil, err
		}
	}

	skeleton, err := buildSkeleton(font, ext)
	if err != nil {
		return nil, &RenderError{Format: "docx", Message: "failed to build docx package", Cause: err}
	}

	r, err := docx.ReadDocxFromMemory(bytes.NewReader(skeleton), int64(len(skeleton)))
	if err != nil {
		return nil, &RenderError{Format: "docx", Message: "failed to open docx package", Cause: err}
	}
	defer func() { _ = r.Close() }()

	doc := r.Editable()
	doc.ReplaceRaw(placeholderParagraph, body, 1)

	if photo != nil {
		// the docx library reads replacement images from disk
		tmp, err := os.CreateTemp("", "resume-photo-*."+ext)
		if err != nil {
			return nil, &RenderError{Format: "docx", Message: "failed to stage photo", Cause: err}
		}
		defer func() { _ = os.Remove(tmp.Name()) }()

		if _, err := tmp.Write(photo.Data); err != nil {
			_ = tmp.Close()
			return nil, &RenderError{Format: "docx", Message: "failed to stage photo", Cause: err}
		}
		if err := tmp.Close(); err != nil {
			return nil, &RenderError{Format: "docx", Message: "failed to stage photo", Cause: err}
		}
		if err := doc.ReplaceImage(skeletonImageName(ext), tmp.Name()); err != nil {
			return nil, &RenderError{Format: "docx", Message: "failed to embed photo", Cause: err}
		}
	}

	var out bytes.Buffer
	if err := doc.Write(&out); err != nil {
		return nil, &RenderError{Format: "docx", Message: "failed to write docx", Cause: err}
	}
	return out.Bytes(), nil
}

func imageExtension(mimeType string) (string, error) {
	switch strings.ToLower(mimeType) {
	case "image/png":
		return "png", nil
	case "image/jpeg", "image/jpg":
		return "jpeg", nil
	default:
		return "", &RenderError{Format: "docx", Message: fmt.Sprintf("unsupported photo type: %s", mimeType)}
	}
}

func docxFont(family string) string {
	if family == templates.FontSerif {
		return "Times New Roman"
	}
	return "Arial"
}
