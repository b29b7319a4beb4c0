package question

import (
	"github.com/google/uuid"
)

type CreateQuestionDTO struct {
	Text          string       `json:"text" validate:"required"`
	Type          QuestionType `json:"type" validate:"required"`
	Difficulty    Difficulty   `json:"difficulty" validate:"required"`
	Category      string       `json:"category" validate:"required"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correct_answer"`
	TestCases     []TestCase   `json:"test_cases"`
	Points        int          `json:"points" validate:"gte=0"`
}

type UpdateQuestionDTO struct {
	Text          *string     `json:"text"`
	Difficulty    *Difficulty `json:"difficulty"`
	Category      *string     `json:"category"`
	Options       []string    `json:"options"`
	CorrectAnswer *string     `json:"correct_answer"`
	TestCases     []TestCase  `json:"test_cases"`
	Points        *int        `json:"points"`
	IsActive      *bool       `json:"is_active"`
}

type CreatePoolDTO struct {
	Name                   string                 `json:"name" validate:"required"`
	Description            string                 `json:"description"`
	QuestionsPerTest       int                    `json:"questions_per_test" validate:"required,gt=0"`
	DifficultyDistribution DifficultyDistribution `json:"difficulty_distribution"`
	TypeDistribution       map[QuestionType]int   `json:"type_distribution"`
	Categories             []string               `json:"categories"`
	QuestionIDs            []uuid.UUID            `json:"question_ids"`
	IsDefault              bool                   `json:"is_default"`
}
