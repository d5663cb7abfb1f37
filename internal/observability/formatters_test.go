package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintParsedResume(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintParsedResume(&types.ParsedResume{
		Summary: "Backend engineer",
		Skills:  []string{"Go", "PostgreSQL", "Kubernetes"},
		Experience: []types.Experience{
			{Company: "Acme", Role: "Engineer", Bullets: []string{"a", "b"}},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "PARSED RESUME")
	assert.Contains(t, output, "Backend engineer")
	assert.Contains(t, output, "PostgreSQL")
	assert.Contains(t, output, "Engineer at Acme (2 bullets)")
}

func TestPrintParsedResume_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintParsedResume(nil)
	assert.Empty(t, buf.String())
}

func TestPrintJobAnalysis_TruncatesLongLists(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobAnalysis(&types.JobAnalysis{
		RequiredSkills: []string{"Go", "SQL", "Docker", "AWS", "gRPC", "Kafka", "Redis"},
	})
	output := buf.String()

	assert.Contains(t, output, "JOB ANALYSIS")
	assert.Contains(t, output, "gRPC")
	assert.NotContains(t, output, "Kafka")
	assert.Contains(t, output, "... and 2 more")
}

func TestPrintMatchScore(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintMatchScore(&types.MatchScore{
		OverallMatch: 82,
		Strengths:    []string{"Strong Go background"},
		Gaps:         []string{"No Kafka"},
	})
	output := buf.String()

	assert.Contains(t, output, "MATCH SCORE")
	assert.Contains(t, output, " 82%")
	assert.Contains(t, output, "No Kafka")
}

func TestPrintCustomizedResume_CountsRevisedBullets(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintCustomizedResume(&types.CustomizedResume{
		Summary: types.Revision{Original: "old", Revised: "new", Reason: "keywords"},
		Experience: []types.CustomizedExperience{{
			Company: "Acme",
			Bullets: []types.Revision{
				{Original: "a", Revised: "a2"},
				{Original: "b", Revised: "b"},
				{Original: "c"},
			},
		}},
	})
	output := buf.String()

	assert.Contains(t, output, "Summary: new")
	assert.Contains(t, output, "[keywords]")
	assert.Contains(t, output, "Rewrote 1 bullets across 1 roles")
}

func TestPrintATSAnalysis(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintATSAnalysis(&types.ATSAnalysis{
		ATSScore:           71,
		RiskLevel:          types.RiskMedium,
		KeywordAnalysis:    types.KeywordAnalysis{Matched: []string{"go"}, Missing: []string{"terraform"}},
		FormattingWarnings: []string{"Avoid tables"},
	})
	output := buf.String()

	assert.Contains(t, output, "71/100")
	assert.Contains(t, output, "MEDIUM")
	assert.Contains(t, output, "terraform")
	assert.Contains(t, output, "⚠ Avoid tables")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 100))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), line)
	}
	assert.Contains(t, buf.String(), "...")
}
