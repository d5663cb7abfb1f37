package types

// JobAnalysis holds the requirements extracted from a job description
type JobAnalysis struct {
	RequiredSkills   []string `json:"required_skills"`
	NiceToHaveSkills []string `json:"nice_to_have_skills"`
	Responsibilities []string `json:"responsibilities"`
	Keywords         []string `json:"keywords"`
	SoftSkills       []string `json:"soft_skills"`
}

// MatchScore rates how well a resume aligns with a job. All numeric fields are 0-100.
type MatchScore struct {
	OverallMatch        int      `json:"overall_match"`
	Strengths           []string `json:"strengths"`
	Gaps                []string `json:"gaps"`
	SkillOverlap        int      `json:"skill_overlap"`
	ExperienceRelevance int      `json:"experience_relevance"`
	KeywordAlignment    int      `json:"keyword_alignment"`
}

// Clamp forces every score into the 0-100 range
func (m *MatchScore) Clamp() {
	m.OverallMatch = ClampScore(m.OverallMatch)
	m.SkillOverlap = ClampScore(m.SkillOverlap)
	m.ExperienceRelevance = ClampScore(m.ExperienceRelevance)
	m.KeywordAlignment = ClampScore(m.KeywordAlignment)
}

// ClampScore limits a score to [0, 100]
func ClampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
