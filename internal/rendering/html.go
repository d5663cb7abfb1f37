package rendering

import (
	"bytes"
	"embed"
	"encoding/base64"
	"html/template"
	"regexp"
	"strings"

	"github.com/jonathan/resume-tailor/internal/templates"
	"github.com/jonathan/resume-tailor/internal/types"
)

//go:embed assets/*.html.tmpl
var assetFiles embed.FS

var (
	resumeTemplate      = template.Must(template.New("resume.html.tmpl").Funcs(baseFuncs()).ParseFS(assetFiles, "assets/resume.html.tmpl"))
	coverLetterTemplate = template.Must(template.ParseFS(assetFiles, "assets/cover_letter.html.tmpl"))
	paragraphBreak      = regexp.MustCompile(`\n\s*\n`)
)

// Photo is an image embedded in the resume header or sidebar
type Photo struct {
	Data     []byte
	MIMEType string
}

// DataURI encodes the photo for use in an <img> src attribute
func (p *Photo) DataURI() template.URL {
	return template.URL("data:" + p.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(p.Data))
}

type experienceView struct {
	Role    string
	Meta    string
	Bullets []string
}

type projectView struct {
	Name         string
	Description  string
	Technologies string
}

type educationView struct {
	Degree string
	Meta   string
}

type resumeView struct {
	Template    templates.Template
	FontStack   template.CSS
	SectionGap  float64
	EntryGap    float64
	Summary     string
	Skills      []string
	SkillGroups []templates.SkillGroup
	Experience  []experienceView
	Projects    []projectView
	Education   []educationView
	Photo       template.URL
}

func baseFuncs() template.FuncMap {
	return template.FuncMap{
		"join": strings.Join,
		// replaced per execution with the active template's heading style
		"heading": func(s string) string { return s },
	}
}

// ResumeHTML renders a customized resume as a standalone HTML document. With a
// photo the sidebar layout is used and skills are grouped by category.
func ResumeHTML(resume *types.CustomizedResume, tpl templates.Template, photo *Photo) (string, error) {
	if resume == nil {
		return "", &RenderError{Message: "resume is required"}
	}

	view := buildResumeView(resume, tpl, photo)

	t, err := resumeTemplate.Clone()
	if err != nil {
		return "", &RenderError{Format: "html", Message: "failed to clone resume template", Cause: err}
	}
	t.Funcs(template.FuncMap{"heading": tpl.FormatHeading})

	var buf bytes.Buffer
	if err := t.Execute(&buf, view); err != nil {
		return "", &RenderError{Format: "html", Message: "failed to execute resume template", Cause: err}
	}
	return buf.String(), nil
}

func buildResumeView(resume *types.CustomizedResume, tpl templates.Template, photo *Photo) resumeView {
	view := resumeView{
		Template:   tpl,
		FontStack:  fontStack(tpl.FontFamily),
		SectionGap: 1.2 * tpl.SpacingMultiplier(),
		EntryGap:   0.8 * tpl.SpacingMultiplier(),
		Summary:    resume.Summary.Text(),
		Skills:     resume.Skills,
	}

	if photo != nil && len(photo.Data) > 0 {
		view.Photo = photo.DataURI()
		view.SkillGroups = templates.GroupSkillsByCategory(resume.Skills)
	}

	for _, exp := range resume.Experience {
		ev := experienceView{
			Role: exp.Role,
			Meta: joinNonEmpty(" | ", exp.Company, exp.Duration),
		}
		for _, b := range exp.Bullets {
			if text := b.Text(); text != "" {
				ev.Bullets = append(ev.Bullets, tpl.FormatBullet(text))
			}
		}
		view.Experience = append(view.Experience, ev)
	}

	for _, p := range resume.Projects {
		view.Projects = append(view.Projects, projectView{
			Name:         p.Name,
			Description:  p.Description,
			Technologies: strings.Join(p.Technologies, ", "),
		})
	}

	for _, edu := range resume.Education {
		view.Education = append(view.Education, educationView{
			Degree: edu.Degree,
			Meta:   joinNonEmpty(" | ", edu.Institution, edu.Field, edu.Year),
		})
	}

	return view
}

// CoverLetterHTML renders cover letter text as an HTML document. Paragraphs are
// separated by blank lines in the input.
func CoverLetterHTML(text, company, role string) (string, error) {
	data := struct {
		Subtitle   string
		Paragraphs []string
	}{
		Subtitle:   coverLetterSubtitle(company, role),
		Paragraphs: SplitParagraphs(text),
	}

	var buf bytes.Buffer
	if err := coverLetterTemplate.Execute(&buf, data); err != nil {
		return "", &RenderError{Format: "html", Message: "failed to execute cover letter template", Cause: err}
	}
	return buf.String(), nil
}

// SplitParagraphs splits text on blank lines, trimming each paragraph and
// dropping empty ones
func SplitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range paragraphBreak.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func coverLetterSubtitle(company, role string) string {
	company = strings.TrimSpace(company)
	role = strings.TrimSpace(role)
	switch {
	case company != "" && role != "":
		return role + " at " + company
	case role != "":
		return role
	default:
		return company
	}
}

func fontStack(family string) template.CSS {
	if family == templates.FontSerif {
		return template.CSS(`Georgia, "Times New Roman", serif`)
	}
	return template.CSS(`"Helvetica Neue", Helvetica, Arial, sans-serif`)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
