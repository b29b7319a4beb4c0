package exam

import (
	"github.com/google/uuid"

	"github.com/examforge/examforge/internal/question"
	"github.com/examforge/examforge/internal/selector"
)

type AssignTestDTO struct {
	StudentID uuid.UUID       `json:"student_id" validate:"required"`
	Title     string          `json:"title" validate:"required"`
	Selection selector.Config `json:"selection"`
	Config    TestConfig      `json:"config"`
}

type SubmitTestDTO struct {
	Answers        []SubmissionAnswer `json:"answers" validate:"required"`
	TabSwitchCount int                `json:"tab_switch_count" validate:"gte=0"`
}

type ExecuteCodeDTO struct {
	Code           string `json:"code" validate:"required"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	TimeoutSeconds int    `json:"timeout_seconds" validate:"gte=0,lte=10"`
}

// CaseResult is the sanitized outcome of one live execution. Infrastructure
// detail never reaches the caller through it.
type CaseResult struct {
	Output       string `json:"output"`
	Stderr       string `json:"stderr,omitempty"`
	Passed       bool   `json:"passed"`
	TimedOut     bool   `json:"timed_out"`
	RuntimeError bool   `json:"runtime_error"`
}

// TestCaseView exposes only the visible sample cases of a coding question.
type TestCaseView struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// QuestionView is the learner-facing projection of a question: no correct
// answer, no hidden test cases.
type QuestionView struct {
	ID         uuid.UUID             `json:"id"`
	Text       string                `json:"text"`
	Type       question.QuestionType `json:"type"`
	Difficulty question.Difficulty   `json:"difficulty"`
	Category   string                `json:"category"`
	Options    []string              `json:"options,omitempty"`
	TestCases  []TestCaseView        `json:"test_cases,omitempty"`
	Points     int                   `json:"points"`
}

type TestView struct {
	ID        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	Status    TestStatus     `json:"status"`
	Config    TestConfig     `json:"config"`
	Questions []QuestionView `json:"questions"`
}
