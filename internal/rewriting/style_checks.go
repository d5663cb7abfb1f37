package rewriting

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// Common strong action verbs for resume bullets (heuristic check)
var strongVerbs = map[string]bool{
	"achieved": true, "architected": true, "built": true, "created": true,
	"delivered": true, "designed": true, "developed": true, "engineered": true,
	"implemented": true, "improved": true, "increased": true, "launched": true,
	"led": true, "optimized": true, "reduced": true, "scaled": true,
	"shipped": true, "transformed": true, "automated": true, "migrated": true,
}

// weakPhrases read as passive filler on a resume
var weakPhrases = []string{
	"responsible for",
	"worked on",
	"helped with",
	"assisted in",
	"duties included",
	"various tasks",
}

var digitPattern = regexp.MustCompile(`\d`)

// StyleChecks holds the results of the bullet style heuristics
type StyleChecks struct {
	StrongVerb  bool     `json:"strong_verb"`
	Quantified  bool     `json:"quantified"`
	WeakPhrases []string `json:"weak_phrases,omitempty"`
}

// Passed reports whether the bullet opens with an action verb and avoids weak phrases
func (s StyleChecks) Passed() bool {
	return s.StrongVerb && len(s.WeakPhrases) == 0
}

// BulletReview is the style check of one rewritten bullet
type BulletReview struct {
	Company string      `json:"company"`
	Role    string      `json:"role"`
	Text    string      `json:"text"`
	Checks  StyleChecks `json:"checks"`
}

// ValidateStyle checks a bullet for an opening action verb, a metric and weak phrasing
func ValidateStyle(text string) StyleChecks {
	textLower := strings.ToLower(strings.TrimSpace(text))
	return StyleChecks{
		StrongVerb:  checkStrongVerb(textLower),
		Quantified:  checkQuantifiedImpact(text),
		WeakPhrases: findWeakPhrases(textLower),
	}
}

// ReviewBullets style-checks every bullet of a customized resume and returns
// the ones that fail
func ReviewBullets(resume *types.CustomizedResume) []BulletReview {
	if resume == nil {
		return nil
	}
	var reviews []BulletReview
	for _, exp := range resume.Experience {
		for _, b := range exp.Bullets {
			text := b.Text()
			checks := ValidateStyle(text)
			if checks.Passed() {
				continue
			}
			reviews = append(reviews, BulletReview{
				Company: exp.Company,
				Role:    exp.Role,
				Text:    text,
				Checks:  checks,
			})
		}
	}
	return reviews
}

// checkStrongVerb checks if text starts with a strong action verb
func checkStrongVerb(textLower string) bool {
	words := strings.Fields(textLower)
	if len(words) == 0 {
		return false
	}

	firstWord := strings.TrimRight(words[0], ".,!?;:")
	if strongVerbs[firstWord] {
		return true
	}

	// past-tense verbs are usually action verbs
	return strings.HasSuffix(firstWord, "ed") && len(firstWord) > 3
}

// checkQuantifiedImpact checks if text contains numbers or metrics
func checkQuantifiedImpact(text string) bool {
	return digitPattern.MatchString(text) || strings.Contains(text, "%")
}

func findWeakPhrases(textLower string) []string {
	var found []string
	for _, phrase := range weakPhrases {
		if strings.Contains(textLower, phrase) {
			found = append(found, phrase)
		}
	}
	return found
}
