package selector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examforge/examforge/internal/question"
	"github.com/examforge/examforge/internal/selector"
)

func cellTotal(cells []selector.Cell) int {
	total := 0
	for _, c := range cells {
		total += c.Count
	}
	return total
}

func countFor(cells []selector.Cell, d question.Difficulty) int {
	total := 0
	for _, c := range cells {
		if c.Difficulty == d {
			total += c.Count
		}
	}
	return total
}

func TestBuildBreakdown(t *testing.T) {
	t.Run("StandardSplit", func(t *testing.T) {
		cells := selector.BuildBreakdown(10,
			question.DifficultyDistribution{Easy: 30, Medium: 50, Hard: 20}, nil)

		require.Equal(t, 10, cellTotal(cells))
		assert.Equal(t, 3, countFor(cells, question.DifficultyEasy))
		assert.Equal(t, 5, countFor(cells, question.DifficultyMedium))
		assert.Equal(t, 2, countFor(cells, question.DifficultyHard))
	})

	t.Run("HardTierAbsorbsRemainder", func(t *testing.T) {
		cells := selector.BuildBreakdown(7,
			question.DifficultyDistribution{Easy: 33, Medium: 33, Hard: 34}, nil)

		assert.Equal(t, 7, cellTotal(cells))
	})

	t.Run("RoundingOvershootTrimsMediumFirst", func(t *testing.T) {
		// 60% and 60% of 5 both round to 3; hard would go negative.
		cells := selector.BuildBreakdown(5,
			question.DifficultyDistribution{Easy: 60, Medium: 60, Hard: 0}, nil)

		require.Equal(t, 5, cellTotal(cells))
		assert.Equal(t, 3, countFor(cells, question.DifficultyEasy))
		assert.Equal(t, 2, countFor(cells, question.DifficultyMedium))
		assert.Equal(t, 0, countFor(cells, question.DifficultyHard))
	})

	t.Run("ZeroTotal", func(t *testing.T) {
		cells := selector.BuildBreakdown(0,
			question.DifficultyDistribution{Easy: 30, Medium: 50, Hard: 20}, nil)
		assert.Empty(t, cells)
	})

	t.Run("EmptyDistribution", func(t *testing.T) {
		cells := selector.BuildBreakdown(10, question.DifficultyDistribution{}, nil)
		assert.Empty(t, cells)
	})

	t.Run("TypeMixSumsToTier", func(t *testing.T) {
		types := map[question.QuestionType]int{
			question.TypeMCQ:       60,
			question.TypeCoding:    30,
			question.TypeTrueFalse: 10,
		}
		cells := selector.BuildBreakdown(10,
			question.DifficultyDistribution{Easy: 30, Medium: 50, Hard: 20}, types)

		require.Equal(t, 10, cellTotal(cells))
		for _, c := range cells {
			assert.NotEmpty(t, c.Type, "typed plan must not contain unrestricted cells")
			assert.Positive(t, c.Count)
		}
	})

	t.Run("NoTypeMixKeepsTiersIntact", func(t *testing.T) {
		cells := selector.BuildBreakdown(10,
			question.DifficultyDistribution{Easy: 100, Medium: 0, Hard: 0}, nil)

		require.Len(t, cells, 1)
		assert.Equal(t, question.DifficultyEasy, cells[0].Difficulty)
		assert.Equal(t, question.QuestionType(""), cells[0].Type)
		assert.Equal(t, 10, cells[0].Count)
	})

	t.Run("SingleTypeTakesWholeTier", func(t *testing.T) {
		types := map[question.QuestionType]int{question.TypeCoding: 100}
		cells := selector.BuildBreakdown(6,
			question.DifficultyDistribution{Easy: 50, Medium: 50, Hard: 0}, types)

		require.Equal(t, 6, cellTotal(cells))
		for _, c := range cells {
			assert.Equal(t, question.TypeCoding, c.Type)
		}
	})

	t.Run("ObjectiveTypeAbsorbsSlackWithoutTrueFalse", func(t *testing.T) {
		types := map[question.QuestionType]int{
			question.TypeMCQ:    50,
			question.TypeCoding: 50,
		}
		cells := selector.BuildBreakdown(5,
			question.DifficultyDistribution{Easy: 100}, types)

		require.Equal(t, 5, cellTotal(cells))
		byType := make(map[question.QuestionType]int)
		for _, c := range cells {
			byType[c.Type] += c.Count
		}
		assert.Equal(t, 3, byType[question.TypeCoding], "the non-objective share is rounded, not padded")
		assert.Equal(t, 2, byType[question.TypeMCQ], "the objective type takes the rounding slack")
	})

	t.Run("AllCodingMixStillSumsExactly", func(t *testing.T) {
		types := map[question.QuestionType]int{question.TypeCoding: 100}
		cells := selector.BuildBreakdown(7,
			question.DifficultyDistribution{Easy: 100}, types)

		require.Equal(t, 7, cellTotal(cells))
		for _, c := range cells {
			assert.Equal(t, question.TypeCoding, c.Type)
		}
	})

	t.Run("SumInvariantAcrossAwkwardTotals", func(t *testing.T) {
		types := map[question.QuestionType]int{
			question.TypeMCQ:         40,
			question.TypeCoding:      25,
			question.TypeFillInBlank: 25,
			question.TypeTrueFalse:   10,
		}
		for total := 1; total <= 40; total++ {
			cells := selector.BuildBreakdown(total,
				question.DifficultyDistribution{Easy: 33, Medium: 34, Hard: 33}, types)
			assert.Equalf(t, total, cellTotal(cells), "total=%d", total)
		}
	})
}
