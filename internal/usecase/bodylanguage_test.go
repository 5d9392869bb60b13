package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepwise/ai-interview-evaluator/internal/service/signal"
)

func TestEstimateBodyLanguageNoVideo(t *testing.T) {
	t.Parallel()
	assert.Nil(t, EstimateBodyLanguage("", signal.Fixed{Expr: "confident", Eye: true}))
}

func TestEstimateBodyLanguageSuggestions(t *testing.T) {
	t.Parallel()
	bl := EstimateBodyLanguage("video.webm", signal.Fixed{Expr: "nervous", Eye: false})
	require.NotNil(t, bl)
	assert.Equal(t, "nervous", bl.Expression)
	assert.False(t, bl.EyeContact)
	assert.Contains(t, bl.Suggestions, "Maintain eye contact with the camera for a more confident impression.")
	assert.Contains(t, bl.Suggestions, "Try to relax and avoid fidgeting.")
}

func TestEstimateBodyLanguageConfident(t *testing.T) {
	t.Parallel()
	bl := EstimateBodyLanguage("video.webm", signal.Fixed{Expr: "confident", Eye: true})
	require.NotNil(t, bl)
	assert.Equal(t, []string{"Excellent confident body language!"}, bl.Suggestions)
}

func TestCategorizeSkill(t *testing.T) {
	t.Parallel()
	tests := []struct {
		question string
		want     string
	}{
		{"Tell me about your experience with Go", "Experience"},
		{"Which tools and technology do you use daily?", "Technical Skills"},
		{"Describe a difficult challenge you faced", "Problem Solving"},
		{"How do you handle collaboration across teams?", "Teamwork"},
		{"Where do you see yourself in the future?", "Career Goals"},
		{"What is your biggest weakness?", "Self Assessment"},
		{"Why do you want this job?", "General"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, CategorizeSkill(tc.question), tc.question)
	}
}
