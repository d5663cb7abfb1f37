// Package types provides type definitions for structured data used throughout the resume-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ParsedResume is the structured content extracted from an uploaded resume
type ParsedResume struct {
	Summary    string       `json:"summary"`
	Skills     []string     `json:"skills"`
	Experience []Experience `json:"experience"`
	Projects   []Project    `json:"projects"`
	Education  []Education  `json:"education"`
}

// Experience is a single employment entry on a parsed resume
type Experience struct {
	Company  string   `json:"company"`
	Role     string   `json:"role"`
	Duration string   `json:"duration,omitempty"`
	Bullets  []string `json:"bullets"`
}

// Project is a project entry on a resume
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies,omitempty"`
}

// Education is an education entry on a resume
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	Year        string `json:"year,omitempty"`
}

// Normalize replaces nil slices with empty ones so the resume always
// serializes with every section present.
func (r *ParsedResume) Normalize() {
	if r.Skills == nil {
		r.Skills = []string{}
	}
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
	for i := range r.Experience {
		if r.Experience[i].Bullets == nil {
			r.Experience[i].Bullets = []string{}
		}
	}
}
