package matching

import (
	"context"
	"testing"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/llm/llmtest"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInputs() (*types.ParsedResume, *types.JobAnalysis) {
	resume := &types.ParsedResume{
		Summary: "Go engineer",
		Skills:  []string{"Go", "PostgreSQL"},
	}
	analysis := &types.JobAnalysis{
		RequiredSkills: []string{"Go", "Kafka"},
		Keywords:       []string{"event streaming"},
	}
	return resume, analysis
}

func TestCalculateMatchScore(t *testing.T) {
	fake := llmtest.New(`{
		"overall_match": 78,
		"strengths": ["Strong Go background"],
		"gaps": ["No Kafka"],
		"skill_overlap": 70,
		"experience_relevance": 85,
		"keyword_alignment": 60
	}`)
	resume, analysis := testInputs()

	score, err := CalculateMatchScore(context.Background(), fake, resume, analysis)
	require.NoError(t, err)

	assert.Equal(t, 78, score.OverallMatch)
	assert.Equal(t, []string{"No Kafka"}, score.Gaps)
	assert.Equal(t, llm.TierStandard, fake.Requests()[0].Tier)
	assert.Contains(t, fake.LastUserMessage(), `"Kafka"`)
	assert.Contains(t, fake.LastUserMessage(), `"PostgreSQL"`)
}

func TestCalculateMatchScore_ClampsOutOfRange(t *testing.T) {
	fake := llmtest.New(`{
		"overall_match": 140,
		"strengths": [],
		"gaps": [],
		"skill_overlap": -5,
		"experience_relevance": 100,
		"keyword_alignment": 0
	}`)
	resume, analysis := testInputs()

	score, err := CalculateMatchScore(context.Background(), fake, resume, analysis)
	require.NoError(t, err)

	assert.Equal(t, 100, score.OverallMatch)
	assert.Equal(t, 0, score.SkillOverlap)
	assert.Equal(t, 100, score.ExperienceRelevance)
}

func TestCalculateMatchScore_Errors(t *testing.T) {
	resume, analysis := testInputs()

	_, err := CalculateMatchScore(context.Background(), llmtest.New(), nil, analysis)
	assert.Error(t, err)

	_, err = CalculateMatchScore(context.Background(), llmtest.New(""), resume, analysis)
	assert.ErrorIs(t, err, llm.ErrNoContent)
	assert.EqualError(t, err, "failed to calculate match score: no response from AI")
}
