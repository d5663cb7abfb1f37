package templates

import "strings"

// SkillGroup is a named bucket of skills in the sidebar layout
type SkillGroup struct {
	Category string
	Skills   []string
}

var skillCategories = []struct {
	name     string
	keywords []string
}{
	{"Frontend", []string{"react", "vue", "angular", "next", "typescript", "javascript", "html", "css", "tailwind", "vite"}},
	{"Backend", []string{"python", "django", "node", "express", "java", "spring", "go", "rust", "php"}},
	{"Databases", []string{"postgresql", "mysql", "mongodb", "redis", "supabase", "firebase"}},
	{"AI/ML", []string{"tensorflow", "pytorch", "llm", "ollama", "langchain", "huggingface"}},
	{"DevOps", []string{"docker", "kubernetes", "github", "gitlab", "ci/cd", "aws", "gcp", "azure"}},
}

// OtherCategory collects skills that match no keyword
const OtherCategory = "Other"

// GroupSkillsByCategory assigns each skill to the first category with a keyword
// contained in the lowercased skill. Empty categories are dropped and the
// category order is fixed.
func GroupSkillsByCategory(skills []string) []SkillGroup {
	buckets := make([][]string, len(skillCategories)+1)

	for _, skill := range skills {
		lower := strings.ToLower(skill)
		idx := len(skillCategories)
	categories:
		for i, cat := range skillCategories {
			for _, kw := range cat.keywords {
				if strings.Contains(lower, kw) {
					idx = i
					break categories
				}
			}
		}
		buckets[idx] = append(buckets[idx], skill)
	}

	var groups []SkillGroup
	for i, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		name := OtherCategory
		if i < len(skillCategories) {
			name = skillCategories[i].name
		}
		groups = append(groups, SkillGroup{Category: name, Skills: bucket})
	}
	return groups
}
