package file

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"sheet-quiz/internal/domain"
	"sheet-quiz/internal/infra/memory"
)

// LoadQuestionBank reads a YAML mapping of sheet name to questions:
//
//	"IOT UT1 (I)":
//	  - prompt: What does IoT stand for?
//	    options: [Internet of Things, Input of Text, Internal of Tools, Index of Tables]
//	    correct: Internet of Things
func LoadQuestionBank(path string) (*memory.StaticQuestionLoader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	bank := make(map[string][]domain.Question)
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("parse question bank %s: %w", path, err)
	}
	return memory.NewStaticQuestionLoader(bank), nil
}
