package usecase

import "strings"

// skillCategories maps question keywords to a skill label, checked in
// order so the more specific categories win.
var skillCategories = []struct {
	label    string
	keywords []string
}{
	{"Experience", []string{"experience", "background", "work"}},
	{"Technical Skills", []string{"skill", "technology", "tool"}},
	{"Problem Solving", []string{"challenge", "problem", "difficult"}},
	{"Teamwork", []string{"team", "collaboration", "work with"}},
	{"Career Goals", []string{"goal", "future", "plan"}},
	{"Self Assessment", []string{"strength", "weakness", "improve"}},
}

// CategorizeSkill labels a question with the skill it assesses, based
// on simple keyword matching.
func CategorizeSkill(question string) string {
	q := strings.ToLower(question)
	for _, c := range skillCategories {
		for _, kw := range c.keywords {
			if strings.Contains(q, kw) {
				return c.label
			}
		}
	}
	return "General"
}
