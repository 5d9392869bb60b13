package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed questionbank.yaml
var questionBankYAML []byte

// QuestionBank is the generic interview content served when the
// generation service is degraded or unavailable.
type QuestionBank struct {
	Questions []string `yaml:"questions"`
	Skills    []string `yaml:"skills"`
}

// LoadQuestionBank parses the embedded fallback bank.
func LoadQuestionBank() (QuestionBank, error) {
	var qb QuestionBank
	if err := yaml.Unmarshal(questionBankYAML, &qb); err != nil {
		return QuestionBank{}, fmt.Errorf("op=config.LoadQuestionBank: %w", err)
	}
	if len(qb.Questions) == 0 {
		return QuestionBank{}, fmt.Errorf("op=config.LoadQuestionBank: bank has no questions")
	}
	return qb, nil
}
