package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prepwise/ai-interview-evaluator/internal/adapter/ai"
)

func TestExtractSection(t *testing.T) {
	t.Parallel()
	in := "QUESTIONS:\nQ1\nQ2\n\nIDEAL_ANSWERS:\nA1\nA2\n\nSKILLS:\nGo, SQL"
	assert.Equal(t, "Q1\nQ2", ai.ExtractSection(in, "QUESTIONS:", "IDEAL_ANSWERS:"))
	assert.Equal(t, "A1\nA2", ai.ExtractSection(in, "IDEAL_ANSWERS:", "SKILLS:"))
	assert.Equal(t, "Go, SQL", ai.ExtractSection(in, "SKILLS:", ""))
	// case-insensitive marker search
	assert.Equal(t, "Q1\nQ2", ai.ExtractSection(in, "questions:", "ideal_answers:"))
	assert.Equal(t, "", ai.ExtractSection(in, "MISSING:", ""))
}

func TestStripBulletPrefix(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"1. First question":  "First question",
		"2) Second question": "Second question",
		"- bullet":           "bullet",
		"* star":             "star",
		"plain":              "plain",
		"10 items":           "items",
	}
	for in, want := range cases {
		assert.Equal(t, want, ai.StripBulletPrefix(in), in)
	}
}

func TestLines(t *testing.T) {
	t.Parallel()
	got := ai.Lines("1. one\n\n  2) two  \n- three\n")
	assert.Equal(t, []string{"one", "two", "three"}, got)
}

func TestLeadingInt(t *testing.T) {
	t.Parallel()
	n, ok := ai.LeadingInt("Score: 7/10")
	assert.True(t, ok)
	assert.Equal(t, 7, n)
	_, ok = ai.LeadingInt("no digits here")
	assert.False(t, ok)
}

func TestParseIntList(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []int{7, 8, 6, 9}, ai.ParseIntList("7, 8, 6, 9", 4, 5))
	// missing and garbage entries default
	assert.Equal(t, []int{7, 5, 5, 5}, ai.ParseIntList("7", 4, 5))
	assert.Equal(t, []int{5, 5, 5, 5}, ai.ParseIntList("n/a, ?, , junk", 4, 5))
	// extra entries ignored
	assert.Equal(t, []int{1, 2}, ai.ParseIntList("1,2,3,4", 2, 5))
}

func TestCommaList(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"Go", "SQL", "Kafka"}, ai.CommaList(" Go, SQL ,Kafka, "))
	assert.Empty(t, ai.CommaList("  ,  "))
}
