package types

import "fmt"

// RiskLevel classifies how likely an ATS is to mis-handle a resume
type RiskLevel string

// Risk levels
const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// IsValid reports whether the risk level is one of the known values
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// KeywordAnalysis groups job keywords by how they appear in the resume
type KeywordAnalysis struct {
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
	Weak    []string `json:"weak"`
}

// Suggestion is a rewording proposed by the ATS scan
type Suggestion struct {
	Original   string `json:"original"`
	Suggestion string `json:"suggestion"`
	Reason     string `json:"reason"`
}

// ATSAnalysis is the result of an ATS compatibility scan
type ATSAnalysis struct {
	ATSScore           int             `json:"ats_score"`
	KeywordAnalysis    KeywordAnalysis `json:"keyword_analysis"`
	FormattingWarnings []string        `json:"formatting_warnings"`
	Suggestions        []Suggestion    `json:"suggestions"`
	RiskLevel          RiskLevel       `json:"risk_level"`
}

// Validate checks the score range and risk level
func (a *ATSAnalysis) Validate() error {
	if a.ATSScore < 0 || a.ATSScore > 100 {
		return fmt.Errorf("ats score out of range: %d", a.ATSScore)
	}
	if !a.RiskLevel.IsValid() {
		return fmt.Errorf("invalid risk level: %q", a.RiskLevel)
	}
	return nil
}

// Normalize clamps the score and fills nil slices
func (a *ATSAnalysis) Normalize() {
	a.ATSScore = ClampScore(a.ATSScore)
	if a.KeywordAnalysis.Matched == nil {
		a.KeywordAnalysis.Matched = []string{}
	}
	if a.KeywordAnalysis.Missing == nil {
		a.KeywordAnalysis.Missing = []string{}
	}
	if a.KeywordAnalysis.Weak == nil {
		a.KeywordAnalysis.Weak = []string{}
	}
	if a.FormattingWarnings == nil {
		a.FormattingWarnings = []string{}
	}
	if a.Suggestions == nil {
		a.Suggestions = []Suggestion{}
	}
}
