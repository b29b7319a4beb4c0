package selector

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/examforge/examforge/internal/question"
)

var ErrInvalidConfig = errors.New("invalid selector config")

// Config describes one test-assembly request. Distribution percentages are
// tolerant of rounding and need not sum to exactly 100.
type Config struct {
	TotalQuestions         int                             `json:"total_questions"`
	DifficultyDistribution question.DifficultyDistribution `json:"difficulty_distribution"`
	QuestionTypes          map[question.QuestionType]int   `json:"question_types,omitempty"`
	Categories             []string                        `json:"categories,omitempty"`
	AvoidRecentQuestions   bool                            `json:"avoid_recent_questions"`
	RecentQuestionDays     int                             `json:"recent_question_days"`
	GenerateIfNeeded       bool                            `json:"generate_if_needed"`
	AdaptiveDifficulty     bool                            `json:"adaptive_difficulty"`
	PoolID                 *uuid.UUID                      `json:"pool_id,omitempty"`
	Topic                  string                          `json:"topic,omitempty"`
}

// Validate rejects malformed configs before any store access.
func (c Config) Validate() error {
	if c.TotalQuestions < 0 {
		return fmt.Errorf("%w: total questions must not be negative", ErrInvalidConfig)
	}
	dd := c.DifficultyDistribution
	if dd.Easy < 0 || dd.Medium < 0 || dd.Hard < 0 {
		return fmt.Errorf("%w: difficulty percentages must not be negative", ErrInvalidConfig)
	}
	for qType, pct := range c.QuestionTypes {
		if !qType.Valid() {
			return fmt.Errorf("%w: unknown question type %q", ErrInvalidConfig, qType)
		}
		if pct < 0 {
			return fmt.Errorf("%w: type percentage for %q must not be negative", ErrInvalidConfig, qType)
		}
	}
	if c.AvoidRecentQuestions && c.RecentQuestionDays <= 0 {
		return fmt.Errorf("%w: recent question window must be positive", ErrInvalidConfig)
	}
	return nil
}
