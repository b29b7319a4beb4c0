package exam

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/examforge/examforge/internal/question"
)

// TestConfig is the config snapshot frozen onto a test at assignment time.
type TestConfig struct {
	ShuffleQuestions   bool `json:"shuffle_questions"`
	ShuffleOptions     bool `json:"shuffle_options"`
	TimeLimitMinutes   int  `json:"time_limit_minutes"`
	PassingPercent     int  `json:"passing_percent"`
	CaseTimeoutSeconds int  `json:"case_timeout_seconds"`
}

const defaultPassingPercent = 60

func (c TestConfig) PassingFraction() float64 {
	if c.PassingPercent <= 0 {
		return float64(defaultPassingPercent) / 100
	}
	return float64(c.PassingPercent) / 100
}

func (c TestConfig) CaseTimeout() time.Duration {
	if c.CaseTimeoutSeconds <= 0 {
		return 0 // executor default
	}
	return time.Duration(c.CaseTimeoutSeconds) * time.Second
}

// Test is one assessment attempt: a frozen, ordered list of question
// references selected for one learner.
type Test struct {
	ID          uuid.UUID                      `gorm:"type:uuid;default:uuid_generate_v4()" json:"id"`
	StudentID   uuid.UUID                      `gorm:"type:uuid;not null;index" json:"student_id"`
	Title       string                         `gorm:"not null" json:"title"`
	Config      datatypes.JSONType[TestConfig] `json:"config"`
	Questions   []TestQuestion                 `gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	Score       int                            `gorm:"not null;default:0" json:"score"`
	Status      TestStatus                     `gorm:"type:varchar(20);not null;default:'ASSIGNED'" json:"status"`
	CompletedAt *time.Time                     `json:"completed_at,omitempty"`
	CreatedAt   time.Time                      `json:"created_at"`
	UpdatedAt   time.Time                      `json:"updated_at"`
}

type TestQuestion struct {
	ID         uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4()" json:"id"`
	TestID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"test_id"`
	QuestionID uuid.UUID         `gorm:"type:uuid;not null;index" json:"question_id"`
	Position   int               `gorm:"not null" json:"position"`
	Question   question.Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}

type SubmissionAnswer struct {
	QuestionID uuid.UUID `json:"question_id"`
	Answer     Answer    `json:"answer"`
}

// Submission records the learner's answers for one test. Exactly one per
// test; immutable once written.
type Submission struct {
	ID             uuid.UUID                             `gorm:"type:uuid;default:uuid_generate_v4()" json:"id"`
	TestID         uuid.UUID                             `gorm:"type:uuid;not null;uniqueIndex" json:"test_id"`
	StudentID      uuid.UUID                             `gorm:"type:uuid;not null;index" json:"student_id"`
	Answers        datatypes.JSONSlice[SubmissionAnswer] `json:"answers"`
	Score          int                                   `gorm:"not null;default:0" json:"score"`
	IsPassed       bool                                  `gorm:"not null;default:false" json:"is_passed"`
	TabSwitchCount int                                   `gorm:"not null;default:0" json:"tab_switch_count"`
	CreatedAt      time.Time                             `json:"created_at"`
}
