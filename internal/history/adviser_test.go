package history_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/examforge/examforge/internal/history"
	"github.com/examforge/examforge/internal/question"
)

func TestRecommendDistribution(t *testing.T) {
	t.Run("TooFewAttemptsStaysNeutral", func(t *testing.T) {
		dist := history.RecommendDistribution(9, 9)
		assert.Equal(t, question.DifficultyDistribution{Easy: 30, Medium: 50, Hard: 20}, dist)
	})

	t.Run("NoAttemptsStaysNeutral", func(t *testing.T) {
		dist := history.RecommendDistribution(0, 0)
		assert.Equal(t, question.DifficultyDistribution{Easy: 30, Medium: 50, Hard: 20}, dist)
	})

	t.Run("HighAccuracyShiftsHard", func(t *testing.T) {
		dist := history.RecommendDistribution(20, 17)
		assert.Equal(t, question.DifficultyDistribution{Easy: 10, Medium: 40, Hard: 50}, dist)
	})

	t.Run("ExactlyEightyPercentCountsAsStrong", func(t *testing.T) {
		dist := history.RecommendDistribution(10, 8)
		assert.Equal(t, question.DifficultyDistribution{Easy: 10, Medium: 40, Hard: 50}, dist)
	})

	t.Run("MiddlingAccuracyBalances", func(t *testing.T) {
		dist := history.RecommendDistribution(10, 7)
		assert.Equal(t, question.DifficultyDistribution{Easy: 25, Medium: 50, Hard: 25}, dist)
	})

	t.Run("LowAccuracyShiftsEasy", func(t *testing.T) {
		dist := history.RecommendDistribution(10, 3)
		assert.Equal(t, question.DifficultyDistribution{Easy: 50, Medium: 40, Hard: 10}, dist)
	})
}

func TestWeakCategoriesFrom(t *testing.T) {
	t.Run("FlagsLowAccuracyCategories", func(t *testing.T) {
		perf := map[string]history.PerformanceStat{
			"pointers":   {Attempted: 4, Correct: 1},
			"slices":     {Attempted: 10, Correct: 9},
			"goroutines": {Attempted: 6, Correct: 2},
		}
		assert.Equal(t, []string{"goroutines", "pointers"}, history.WeakCategoriesFrom(perf))
	})

	t.Run("IgnoresThinSamples", func(t *testing.T) {
		perf := map[string]history.PerformanceStat{
			"channels": {Attempted: 2, Correct: 0},
		}
		assert.Empty(t, history.WeakCategoriesFrom(perf))
	})

	t.Run("HalfAccuracyIsNotWeak", func(t *testing.T) {
		perf := map[string]history.PerformanceStat{
			"maps": {Attempted: 4, Correct: 2},
		}
		assert.Empty(t, history.WeakCategoriesFrom(perf))
	})

	t.Run("EmptyPerformance", func(t *testing.T) {
		assert.Empty(t, history.WeakCategoriesFrom(nil))
	})
}
