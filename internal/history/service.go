package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/examforge/examforge/internal/config"
	"github.com/examforge/examforge/internal/question"
)

type Service interface {
	Load(ctx context.Context, studentID uuid.UUID) (*StudentQuestionHistory, error)
	RecentQuestionIDs(ctx context.Context, studentID uuid.UUID, days int) ([]uuid.UUID, error)
	AdaptiveDifficulty(ctx context.Context, studentID uuid.UUID) (question.DifficultyDistribution, error)
	WeakCategories(ctx context.Context, studentID uuid.UUID) ([]string, error)
	Commit(ctx context.Context, studentID uuid.UUID, results []QuestionResult) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Load(ctx context.Context, studentID uuid.UUID) (*StudentQuestionHistory, error) {
	return s.repo.LoadOrCreate(studentID)
}

func (s *service) RecentQuestionIDs(ctx context.Context, studentID uuid.UUID, days int) ([]uuid.UUID, error) {
	if days <= 0 {
		return nil, nil
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	return s.repo.RecentQuestionIDs(studentID, since)
}

func (s *service) AdaptiveDifficulty(ctx context.Context, studentID uuid.UUID) (question.DifficultyDistribution, error) {
	record, err := s.repo.LoadOrCreate(studentID)
	if err != nil {
		return question.DifficultyDistribution{}, err
	}
	return RecommendDistribution(record.TotalQuestionsAttempted, record.CorrectAnswers), nil
}

func (s *service) WeakCategories(ctx context.Context, studentID uuid.UUID) ([]string, error) {
	record, err := s.repo.LoadOrCreate(studentID)
	if err != nil {
		return nil, err
	}
	return WeakCategoriesFrom(record.CategoryPerformance.Data()), nil
}

func (s *service) Commit(ctx context.Context, studentID uuid.UUID, results []QuestionResult) error {
	log := config.WithContext(ctx)

	if err := s.repo.Commit(studentID, results); err != nil {
		log.WithError(err).WithField("student_id", studentID).Error("Failed to commit question history")
		return err
	}

	log.WithField("student_id", studentID).
		WithField("results", len(results)).
		Info("Question history committed")
	return nil
}
