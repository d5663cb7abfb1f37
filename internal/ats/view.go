// Package ats scores resumes for applicant tracking system compatibility and
// proposes safe rewordings.
package ats

import (
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// ResumeView is the flattened resume shape the ATS scan reads
type ResumeView struct {
	Summary    string           `json:"summary,omitempty"`
	Skills     []string         `json:"skills"`
	Experience []ExperienceView `json:"experience"`
	Education  []EducationView  `json:"education"`
}

// ExperienceView is one employment entry of a ResumeView
type ExperienceView struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Description string   `json:"description"`
	Bullets     []string `json:"bullets"`
}

// EducationView is one education entry of a ResumeView
type EducationView struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Field  string `json:"field"`
}

// FromCustomized builds a view from a customized resume using the revised text
// where present. The duration becomes the entry description.
func FromCustomized(r *types.CustomizedResume) ResumeView {
	view := ResumeView{
		Summary:    r.Summary.Text(),
		Skills:     append([]string{}, r.Skills...),
		Experience: make([]ExperienceView, 0, len(r.Experience)),
		Education:  educationViews(r.Education),
	}
	for _, exp := range r.Experience {
		bullets := make([]string, 0, len(exp.Bullets))
		for _, b := range exp.Bullets {
			if text := b.Text(); text != "" {
				bullets = append(bullets, text)
			}
		}
		view.Experience = append(view.Experience, ExperienceView{
			Title:       exp.Role,
			Company:     exp.Company,
			Description: exp.Duration,
			Bullets:     bullets,
		})
	}
	return view
}

// FromParsed builds a view from a parsed resume
func FromParsed(r *types.ParsedResume) ResumeView {
	view := ResumeView{
		Summary:    r.Summary,
		Skills:     append([]string{}, r.Skills...),
		Experience: make([]ExperienceView, 0, len(r.Experience)),
		Education:  educationViews(r.Education),
	}
	for _, exp := range r.Experience {
		view.Experience = append(view.Experience, ExperienceView{
			Title:       exp.Role,
			Company:     exp.Company,
			Description: exp.Duration,
			Bullets:     append([]string{}, exp.Bullets...),
		})
	}
	return view
}

func educationViews(education []types.Education) []EducationView {
	out := make([]EducationView, 0, len(education))
	for _, edu := range education {
		out = append(out, EducationView{
			School: edu.Institution,
			Degree: edu.Degree,
			Field:  edu.Field,
		})
	}
	return out
}

// BuildResumeText renders the view as the plain text an ATS would extract
func BuildResumeText(v ResumeView) string {
	var parts []string

	if v.Summary != "" {
		parts = append(parts, "PROFESSIONAL SUMMARY:\n"+v.Summary+"\n")
	}

	if len(v.Skills) > 0 {
		parts = append(parts, "SKILLS:\n"+strings.Join(v.Skills, ", ")+"\n")
	}

	if len(v.Experience) > 0 {
		parts = append(parts, "EXPERIENCE:")
		for _, exp := range v.Experience {
			parts = append(parts, exp.Title+" at "+exp.Company)
			if exp.Description != "" {
				parts = append(parts, exp.Description)
			}
			if len(exp.Bullets) > 0 {
				lines := make([]string, len(exp.Bullets))
				for i, b := range exp.Bullets {
					lines[i] = "- " + b
				}
				parts = append(parts, strings.Join(lines, "\n"))
			}
		}
		parts = append(parts, "")
	}

	if len(v.Education) > 0 {
		parts = append(parts, "EDUCATION:")
		for _, edu := range v.Education {
			parts = append(parts, edu.Degree+" in "+edu.Field+" from "+edu.School)
		}
	}

	return strings.Join(parts, "\n")
}
