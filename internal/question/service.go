package question

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/examforge/examforge/internal/config"
)

var (
	ErrQuestionLocked      = errors.New("question belongs to a graded test and is immutable")
	ErrInvalidQuestion     = errors.New("invalid question definition")
	ErrInvalidDistribution = errors.New("distribution percentages must sum to 100")
)

// distributionTolerance absorbs rounding in admin-supplied percentage
// triples (33/33/33 must be accepted).
const distributionTolerance = 2

type Service interface {
	Create(ctx context.Context, dto CreateQuestionDTO) (*Question, error)
	Get(ctx context.Context, id uuid.UUID) (*Question, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateQuestionDTO) (*Question, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, category string, difficulty Difficulty) ([]Question, error)

	CreatePool(ctx context.Context, dto CreatePoolDTO) (*QuestionPool, error)
	ListPools(ctx context.Context) ([]QuestionPool, error)
	GetPool(ctx context.Context, id uuid.UUID) (*QuestionPool, error)
	DeletePool(ctx context.Context, id uuid.UUID) error
	SetDefaultPool(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validateDefinition(qType QuestionType, difficulty Difficulty, correctAnswer string, testCases []TestCase) error {
	if !qType.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidQuestion, qType)
	}
	if !difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidQuestion, difficulty)
	}
	if qType.IsObjective() && correctAnswer == "" {
		return fmt.Errorf("%w: objective questions need a correct answer", ErrInvalidQuestion)
	}
	if qType == TypeCoding && len(testCases) == 0 {
		return fmt.Errorf("%w: coding questions need at least one test case", ErrInvalidQuestion)
	}
	return nil
}

func (s *service) Create(ctx context.Context, dto CreateQuestionDTO) (*Question, error) {
	log := config.WithContext(ctx)

	if err := validateDefinition(dto.Type, dto.Difficulty, dto.CorrectAnswer, dto.TestCases); err != nil {
		return nil, err
	}

	points := dto.Points
	if points == 0 {
		points = dto.Difficulty.DefaultPoints()
	}

	q := Question{
		ID:            uuid.New(),
		Text:          dto.Text,
		Type:          dto.Type,
		Difficulty:    dto.Difficulty,
		Category:      dto.Category,
		Options:       dto.Options,
		CorrectAnswer: dto.CorrectAnswer,
		TestCases:     dto.TestCases,
		Points:        points,
		IsActive:      true,
	}

	if err := s.repo.Create(&q); err != nil {
		log.WithError(err).Error("Failed to create question")
		return nil, err
	}

	log.WithField("question_id", q.ID).Info("Question created")
	return &q, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Question, error) {
	return s.repo.FindByID(id)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateQuestionDTO) (*Question, error) {
	log := config.WithContext(ctx)

	q, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	locked, err := s.repo.InGradedTest(id)
	if err != nil {
		log.WithError(err).Error("Failed to check question lock state")
		return nil, err
	}
	if locked {
		return nil, ErrQuestionLocked
	}

	if dto.Text != nil {
		q.Text = *dto.Text
	}
	if dto.Difficulty != nil {
		q.Difficulty = *dto.Difficulty
	}
	if dto.Category != nil {
		q.Category = *dto.Category
	}
	if dto.Options != nil {
		q.Options = dto.Options
	}
	if dto.CorrectAnswer != nil {
		q.CorrectAnswer = *dto.CorrectAnswer
	}
	if dto.TestCases != nil {
		q.TestCases = dto.TestCases
	}
	if dto.Points != nil {
		q.Points = *dto.Points
	}
	if dto.IsActive != nil {
		q.IsActive = *dto.IsActive
	}

	if err := validateDefinition(q.Type, q.Difficulty, q.CorrectAnswer, q.TestCases); err != nil {
		return nil, err
	}

	if err := s.repo.Update(q); err != nil {
		log.WithError(err).Error("Failed to update question")
		return nil, err
	}
	return q, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	log := config.WithContext(ctx)

	locked, err := s.repo.InGradedTest(id)
	if err != nil {
		return err
	}
	if locked {
		// Graded history must keep resolving; retire instead of removing.
		q, err := s.repo.FindByID(id)
		if err != nil {
			return err
		}
		q.IsActive = false
		log.WithField("question_id", id).Info("Question in graded test, deactivating instead of deleting")
		return s.repo.Update(q)
	}

	return s.repo.Delete(id)
}

func (s *service) List(ctx context.Context, category string, difficulty Difficulty) ([]Question, error) {
	return s.repo.List(category, difficulty)
}

func (s *service) CreatePool(ctx context.Context, dto CreatePoolDTO) (*QuestionPool, error) {
	log := config.WithContext(ctx)

	sum := dto.DifficultyDistribution.Sum()
	if sum < 100-distributionTolerance || sum > 100+distributionTolerance {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDistribution, sum)
	}

	pool := QuestionPool{
		ID:               uuid.New(),
		Name:             dto.Name,
		Description:      dto.Description,
		QuestionsPerTest: dto.QuestionsPerTest,
		Categories:       dto.Categories,
	}
	pool.DifficultyDistribution = datatypes.NewJSONType(dto.DifficultyDistribution)
	pool.TypeDistribution = datatypes.NewJSONType(dto.TypeDistribution)

	for _, qid := range dto.QuestionIDs {
		pool.Questions = append(pool.Questions, Question{ID: qid})
	}

	if err := s.repo.CreatePool(&pool); err != nil {
		log.WithError(err).Error("Failed to create question pool")
		return nil, err
	}

	if dto.IsDefault {
		if err := s.repo.SetDefaultPool(pool.ID); err != nil {
			log.WithError(err).Error("Failed to mark pool as default")
			return nil, err
		}
		pool.IsDefault = true
	}

	log.WithField("pool_id", pool.ID).Info("Question pool created")
	return &pool, nil
}

func (s *service) ListPools(ctx context.Context) ([]QuestionPool, error) {
	return s.repo.ListPools()
}

func (s *service) GetPool(ctx context.Context, id uuid.UUID) (*QuestionPool, error) {
	return s.repo.FindPoolByID(id)
}

func (s *service) DeletePool(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeletePool(id)
}

func (s *service) SetDefaultPool(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetDefaultPool(id)
}
