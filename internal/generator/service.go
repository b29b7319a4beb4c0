package generator

import (
	"context"

	"github.com/google/uuid"

	"github.com/examforge/examforge/internal/question"
)

type Service interface {
	// GenerateQuestions returns freshly authored, not-yet-persisted
	// questions for the request. Best-effort: a short or empty slice is a
	// valid outcome.
	GenerateQuestions(ctx context.Context, req Request) ([]question.Question, error)
}

type service struct {
	provider Provider
}

func NewService(provider Provider) Service {
	return &service{provider: provider}
}

func (s *service) GenerateQuestions(ctx context.Context, req Request) ([]question.Question, error) {
	drafts, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	questions := make([]question.Question, 0, len(drafts))
	for _, draft := range drafts {
		if !draft.Type.Valid() || !draft.Difficulty.Valid() {
			continue
		}
		questions = append(questions, question.Question{
			ID:            uuid.New(),
			Text:          draft.Text,
			Type:          draft.Type,
			Difficulty:    draft.Difficulty,
			Category:      draft.Category,
			Options:       draft.Options,
			CorrectAnswer: draft.CorrectAnswer,
			TestCases:     draft.TestCases,
			Points:        draft.Difficulty.DefaultPoints(),
			IsActive:      true,
			Generated:     true,
		})
	}
	return questions, nil
}
