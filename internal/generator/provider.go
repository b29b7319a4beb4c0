package generator

import (
	"context"

	"github.com/examforge/examforge/internal/question"
)

// Request asks a provider for freshly authored questions for one breakdown
// cell that the question bank could not fill.
type Request struct {
	Category   string                `json:"category"`
	Difficulty question.Difficulty   `json:"difficulty"`
	Type       question.QuestionType `json:"type"`
	Count      int                   `json:"count"`
	Topic      string                `json:"topic,omitempty"`
}

// Draft is a generated question that has not been persisted yet.
type Draft struct {
	Text          string                `json:"text"`
	Type          question.QuestionType `json:"type"`
	Difficulty    question.Difficulty   `json:"difficulty"`
	Category      string                `json:"category"`
	Options       []string              `json:"options,omitempty"`
	CorrectAnswer string                `json:"correct_answer,omitempty"`
	TestCases     []question.TestCase   `json:"test_cases,omitempty"`
	Explanation   string                `json:"explanation,omitempty"`
}

type Provider interface {
	Generate(ctx context.Context, req Request) ([]Draft, error)
}
