package history

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/examforge/examforge/internal/question"
)

// PerformanceStat is one bucket of a keyed aggregate (per category or per
// difficulty tier).
type PerformanceStat struct {
	Attempted int `json:"attempted"`
	Correct   int `json:"correct"`
}

func (p PerformanceStat) Accuracy() float64 {
	if p.Attempted == 0 {
		return 0
	}
	return float64(p.Correct) / float64(p.Attempted)
}

// SeenQuestion is one row of the append-only per-learner log.
type SeenQuestion struct {
	ID                uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4()" json:"id"`
	HistoryID         uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	QuestionID        uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	TestID            uuid.UUID `gorm:"type:uuid;not null" json:"test_id"`
	SeenAt            time.Time `gorm:"not null;index" json:"seen_at"`
	AnsweredCorrectly bool      `gorm:"not null" json:"answered_correctly"`
}

type StudentQuestionHistory struct {
	ID                      uuid.UUID                                      `gorm:"type:uuid;default:uuid_generate_v4()" json:"id"`
	StudentID               uuid.UUID                                      `gorm:"type:uuid;not null;uniqueIndex" json:"student_id"`
	Entries                 []SeenQuestion                                 `gorm:"foreignKey:HistoryID" json:"entries,omitempty"`
	TotalQuestionsAttempted int                                            `gorm:"not null;default:0" json:"total_questions_attempted"`
	CorrectAnswers          int                                            `gorm:"not null;default:0" json:"correct_answers"`
	CategoryPerformance     datatypes.JSONType[map[string]PerformanceStat] `json:"category_performance"`
	DifficultyPerformance   datatypes.JSONType[map[string]PerformanceStat] `json:"difficulty_performance"`
	CreatedAt               time.Time                                      `json:"created_at"`
	UpdatedAt               time.Time                                      `json:"updated_at"`
}

// QuestionResult is the per-question outcome the grader reports; one commit
// carries every result of a graded submission as a single atomic unit.
type QuestionResult struct {
	QuestionID uuid.UUID
	TestID     uuid.UUID
	Category   string
	Difficulty question.Difficulty
	Correct    bool
}
