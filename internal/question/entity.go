package question

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TestCase is one input/expected-output pair attached to a coding question.
// Hidden cases are used for grading but never shown to the learner.
type TestCase struct {
	Input  string `json:"input"`
	Output string `json:"output"`
	Hidden bool   `json:"hidden,omitempty"`
}

type Question struct {
	ID            uuid.UUID                     `gorm:"type:uuid;default:uuid_generate_v4()" json:"id"`
	Text          string                        `gorm:"type:text;not null" json:"text"`
	Type          QuestionType                  `gorm:"type:varchar(20);not null;index" json:"type"`
	Difficulty    Difficulty                    `gorm:"type:varchar(10);not null;index" json:"difficulty"`
	Category      string                        `gorm:"not null;index" json:"category"`
	Options       datatypes.JSONSlice[string]   `json:"options,omitempty"`
	CorrectAnswer string                        `gorm:"type:text" json:"correct_answer,omitempty"`
	TestCases     datatypes.JSONSlice[TestCase] `json:"test_cases,omitempty"`
	Points        int                           `gorm:"not null" json:"points"`
	IsActive      bool                          `gorm:"not null;default:true" json:"is_active"`
	Generated     bool                          `gorm:"not null;default:false" json:"generated"`
	CreatedAt     time.Time                     `json:"created_at"`
	UpdatedAt     time.Time                     `json:"updated_at"`
}

// DifficultyDistribution is a percentage triple over the difficulty tiers.
// Sums are tolerant of rounding, so 33/33/33 is acceptable.
type DifficultyDistribution struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

func (d DifficultyDistribution) Sum() int {
	return d.Easy + d.Medium + d.Hard
}

type QuestionPool struct {
	ID                     uuid.UUID                                  `gorm:"type:uuid;default:uuid_generate_v4()" json:"id"`
	Name                   string                                     `gorm:"uniqueIndex;not null" json:"name"`
	Description            string                                     `json:"description,omitempty"`
	QuestionsPerTest       int                                        `gorm:"not null" json:"questions_per_test"`
	DifficultyDistribution datatypes.JSONType[DifficultyDistribution] `json:"difficulty_distribution"`
	TypeDistribution       datatypes.JSONType[map[QuestionType]int]   `json:"type_distribution"`
	Categories             datatypes.JSONSlice[string]                `json:"categories,omitempty"`
	Questions              []Question                                 `gorm:"many2many:question_pool_questions" json:"questions,omitempty"`
	IsDefault              bool                                       `gorm:"not null;default:false" json:"is_default"`
	CreatedAt              time.Time                                  `json:"created_at"`
	UpdatedAt              time.Time                                  `json:"updated_at"`
}
