package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/examforge/examforge/internal/history"
	"github.com/examforge/examforge/internal/question"
)

type fakeHistoryRepo struct {
	history.Repository

	record *history.StudentQuestionHistory
}

func (f *fakeHistoryRepo) LoadOrCreate(studentID uuid.UUID) (*history.StudentQuestionHistory, error) {
	if f.record != nil {
		return f.record, nil
	}
	return &history.StudentQuestionHistory{StudentID: studentID}, nil
}

func (f *fakeHistoryRepo) RecentQuestionIDs(studentID uuid.UUID, since time.Time) ([]uuid.UUID, error) {
	return nil, nil
}

func TestHistoryService(t *testing.T) {
	ctx := context.Background()
	studentID := uuid.New()

	t.Run("WeakCategoriesComeFromTheRecord", func(t *testing.T) {
		record := &history.StudentQuestionHistory{
			StudentID: studentID,
			CategoryPerformance: datatypes.NewJSONType(map[string]history.PerformanceStat{
				"networking": {Attempted: 6, Correct: 1},
				"go":         {Attempted: 6, Correct: 5},
			}),
		}
		svc := history.NewService(&fakeHistoryRepo{record: record})

		weak, err := svc.WeakCategories(ctx, studentID)
		require.NoError(t, err)
		assert.Equal(t, []string{"networking"}, weak)
	})

	t.Run("AdaptiveDifficultyTracksAccuracy", func(t *testing.T) {
		record := &history.StudentQuestionHistory{
			StudentID:               studentID,
			TotalQuestionsAttempted: 20,
			CorrectAnswers:          18,
		}
		svc := history.NewService(&fakeHistoryRepo{record: record})

		dist, err := svc.AdaptiveDifficulty(ctx, studentID)
		require.NoError(t, err)
		assert.Equal(t, question.DifficultyDistribution{Easy: 10, Medium: 40, Hard: 50}, dist)
	})

	t.Run("FreshLearnerGetsTheStartingMix", func(t *testing.T) {
		svc := history.NewService(&fakeHistoryRepo{})

		dist, err := svc.AdaptiveDifficulty(ctx, studentID)
		require.NoError(t, err)
		assert.Equal(t, question.DifficultyDistribution{Easy: 30, Medium: 50, Hard: 20}, dist)
	})
}
