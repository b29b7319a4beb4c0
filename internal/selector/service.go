package selector

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/examforge/examforge/internal/config"
	"github.com/examforge/examforge/internal/generator"
	"github.com/examforge/examforge/internal/history"
	"github.com/examforge/examforge/internal/question"
)

type Service interface {
	// SelectQuestionsForTest assembles a shuffled, deduplicated question set
	// for one test instance. The result may be shorter than requested when
	// the bank and the generator together cannot fill the plan; that is for
	// the caller to judge, not an error.
	SelectQuestionsForTest(ctx context.Context, studentID uuid.UUID, cfg Config) ([]question.Question, error)
}

type service struct {
	store     question.Repository
	history   history.Service
	generator generator.Service
}

func NewService(store question.Repository, historyService history.Service, generatorService generator.Service) Service {
	return &service{
		store:     store,
		history:   historyService,
		generator: generatorService,
	}
}

func (s *service) SelectQuestionsForTest(ctx context.Context, studentID uuid.UUID, cfg Config) ([]question.Question, error) {
	log := config.WithContext(ctx)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.TotalQuestions == 0 {
		return []question.Question{}, nil
	}

	if cfg.AdaptiveDifficulty {
		dist, err := s.history.AdaptiveDifficulty(ctx, studentID)
		if err != nil {
			return nil, err
		}
		cfg.DifficultyDistribution = dist
	}

	excludeIDs, err := s.recentlySeen(ctx, studentID, cfg)
	if err != nil {
		return nil, err
	}

	poolID, categories, err := s.resolvePool(cfg)
	if err != nil {
		return nil, err
	}

	cells := BuildBreakdown(cfg.TotalQuestions, cfg.DifficultyDistribution, cfg.QuestionTypes)

	var selected []question.Question
	for _, cell := range cells {
		drawn, err := s.store.Sample(question.SampleFilter{
			Difficulty: cell.Difficulty,
			Type:       cell.Type,
			Categories: categories,
			ExcludeIDs: excludeIDs,
			PoolID:     poolID,
			ActiveOnly: true,
		}, cell.Count)
		if err != nil {
			log.WithError(err).Error("Failed to sample questions from the store")
			return nil, err
		}

		if missing := cell.Count - len(drawn); missing > 0 && cfg.GenerateIfNeeded {
			generated := s.generateShortfall(ctx, cell, missing, categories, cfg.Topic)
			drawn = append(drawn, generated...)
		}

		// Later cells must not re-draw what this cell took.
		for _, q := range drawn {
			excludeIDs = append(excludeIDs, q.ID)
		}
		selected = append(selected, drawn...)
	}

	rand.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})

	if len(selected) < cfg.TotalQuestions {
		log.WithField("student_id", studentID).
			WithField("requested", cfg.TotalQuestions).
			WithField("selected", len(selected)).
			Warn("Question bank could not fill the request, returning a short set")
	}
	return selected, nil
}

func (s *service) recentlySeen(ctx context.Context, studentID uuid.UUID, cfg Config) ([]uuid.UUID, error) {
	if !cfg.AvoidRecentQuestions {
		return nil, nil
	}
	ids, err := s.history.RecentQuestionIDs(ctx, studentID, cfg.RecentQuestionDays)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to load recently seen questions")
		return nil, err
	}
	return ids, nil
}

// resolvePool picks the explicit pool when given, else the default pool,
// else no pool filter at all. The pool's category allow-list applies when
// the config does not bring its own.
func (s *service) resolvePool(cfg Config) (*uuid.UUID, []string, error) {
	categories := cfg.Categories

	var pool *question.QuestionPool
	var err error
	switch {
	case cfg.PoolID != nil:
		pool, err = s.store.FindPoolByID(*cfg.PoolID)
		if err != nil {
			return nil, nil, err
		}
	default:
		pool, err = s.store.FindDefaultPool()
		if err != nil {
			if errors.Is(err, question.ErrPoolNotFound) {
				return nil, categories, nil
			}
			return nil, nil, err
		}
	}

	if len(categories) == 0 {
		categories = pool.Categories
	}
	return &pool.ID, categories, nil
}

// generateShortfall asks the generator for the questions a cell is missing
// and persists the ones it gets back. Generation is best-effort; failures
// shrink the set instead of failing the selection.
func (s *service) generateShortfall(ctx context.Context, cell Cell, missing int, categories []string, topic string) []question.Question {
	log := config.WithContext(ctx)

	category := "General"
	if len(categories) > 0 {
		category = categories[rand.IntN(len(categories))]
	}

	qType := cell.Type
	if qType == "" {
		qType = question.TypeMCQ
	}

	generated, err := s.generator.GenerateQuestions(ctx, generator.Request{
		Category:   category,
		Difficulty: cell.Difficulty,
		Type:       qType,
		Count:      missing,
		Topic:      topic,
	})
	if err != nil {
		log.WithError(err).Warn("Question generation failed, continuing with a short set")
		return nil
	}
	if len(generated) > missing {
		generated = generated[:missing]
	}

	kept := make([]question.Question, 0, len(generated))
	for i := range generated {
		if err := s.store.Create(&generated[i]); err != nil {
			log.WithError(err).Warn("Failed to persist a generated question, dropping it")
			continue
		}
		kept = append(kept, generated[i])
	}

	if len(kept) > 0 {
		log.WithField("difficulty", cell.Difficulty).
			WithField("type", qType).
			Infof("Filled %d of %d missing questions via generation", len(kept), missing)
	}
	return kept
}
