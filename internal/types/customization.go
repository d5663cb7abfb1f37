package types

// Revision pairs an original piece of resume text with its rewrite
type Revision struct {
	Original string `json:"original"`
	Revised  string `json:"revised"`
	Reason   string `json:"reason"`
}

// Text returns the revised text, falling back to the original when no rewrite exists
func (r Revision) Text() string {
	if r.Revised != "" {
		return r.Revised
	}
	return r.Original
}

// CustomizedExperience is an experience entry whose bullets were rewritten
type CustomizedExperience struct {
	Company  string     `json:"company"`
	Role     string     `json:"role"`
	Duration string     `json:"duration,omitempty"`
	Bullets  []Revision `json:"bullets"`
}

// CustomizedResume is a resume rewritten for a specific job.
// Skills, Projects and Education are carried over verbatim from the parsed resume.
type CustomizedResume struct {
	Summary    Revision               `json:"summary"`
	Experience []CustomizedExperience `json:"experience"`
	Skills     []string               `json:"skills"`
	Projects   []Project              `json:"projects"`
	Education  []Education            `json:"education"`
}

// Explanation summarizes what a customization changed
type Explanation struct {
	SkillEmphasis   []string `json:"skill_emphasis"`
	WordingChanges  []string `json:"wording_changes"`
	ATSImprovements []string `json:"ats_improvements"`
}

// GeneratedFiles holds the download URLs of rendered documents
type GeneratedFiles struct {
	ResumePDFURL       string `json:"resume_pdf_url"`
	ResumeDOCXURL      string `json:"resume_docx_url"`
	CoverLetterPDFURL  string `json:"cover_letter_pdf_url"`
	CoverLetterDOCXURL string `json:"cover_letter_docx_url"`
}
