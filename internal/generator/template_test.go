package generator_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examforge/examforge/internal/generator"
	"github.com/examforge/examforge/internal/question"
)

func TestTemplateProvider(t *testing.T) {
	ctx := context.Background()
	provider := generator.NewTemplateProvider()

	t.Run("CoversEveryTypeAndDifficulty", func(t *testing.T) {
		types := []question.QuestionType{
			question.TypeMCQ, question.TypeCoding,
			question.TypeTrueFalse, question.TypeFillInBlank,
		}
		difficulties := []question.Difficulty{
			question.DifficultyEasy, question.DifficultyMedium, question.DifficultyHard,
		}
		for _, qType := range types {
			for _, difficulty := range difficulties {
				drafts, err := provider.Generate(ctx, generator.Request{
					Category:   "algorithms",
					Difficulty: difficulty,
					Type:       qType,
					Count:      1,
				})
				require.NoError(t, err)
				require.NotEmptyf(t, drafts, "no template for %s/%s", qType, difficulty)
				assert.Equal(t, qType, drafts[0].Type)
				assert.Equal(t, difficulty, drafts[0].Difficulty)
			}
		}
	})

	t.Run("SubstitutesTheCategory", func(t *testing.T) {
		drafts, err := provider.Generate(ctx, generator.Request{
			Category:   "databases",
			Difficulty: question.DifficultyEasy,
			Type:       question.TypeMCQ,
			Count:      1,
		})
		require.NoError(t, err)
		require.Len(t, drafts, 1)
		assert.Contains(t, drafts[0].Text, "databases")
		assert.NotContains(t, drafts[0].Text, "%s")
	})

	t.Run("CodingDraftsCarryTestCases", func(t *testing.T) {
		drafts, err := provider.Generate(ctx, generator.Request{
			Difficulty: question.DifficultyEasy,
			Type:       question.TypeCoding,
			Count:      1,
		})
		require.NoError(t, err)
		require.Len(t, drafts, 1)
		require.NotEmpty(t, drafts[0].TestCases)

		hidden := false
		for _, tc := range drafts[0].TestCases {
			assert.NotEmpty(t, tc.Output)
			hidden = hidden || tc.Hidden
		}
		assert.True(t, hidden, "the bank must keep at least one hidden case per coding task")
	})

	t.Run("TrueFalseAnswersAreCanonical", func(t *testing.T) {
		drafts, err := provider.Generate(ctx, generator.Request{
			Category:   "go",
			Difficulty: question.DifficultyMedium,
			Type:       question.TypeTrueFalse,
			Count:      1,
		})
		require.NoError(t, err)
		require.Len(t, drafts, 1)
		answer := strings.ToLower(drafts[0].CorrectAnswer)
		assert.Contains(t, []string{"true", "false"}, answer)
	})

	t.Run("CountIsCappedByTheBank", func(t *testing.T) {
		drafts, err := provider.Generate(ctx, generator.Request{
			Category:   "go",
			Difficulty: question.DifficultyHard,
			Type:       question.TypeMCQ,
			Count:      50,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, drafts)
		assert.LessOrEqual(t, len(drafts), 50)
	})

	t.Run("UnknownCellRunsDry", func(t *testing.T) {
		drafts, err := provider.Generate(ctx, generator.Request{
			Difficulty: "impossible",
			Type:       question.TypeMCQ,
			Count:      1,
		})
		require.NoError(t, err)
		assert.Empty(t, drafts)
	})
}
