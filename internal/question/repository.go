package question

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrPoolNotFound     = errors.New("question pool not found")
)

// SampleFilter narrows Sample to one cell of the selection breakdown.
type SampleFilter struct {
	Difficulty Difficulty
	Type       QuestionType
	Categories []string
	ExcludeIDs []uuid.UUID
	PoolID     *uuid.UUID
	ActiveOnly bool
}

type Repository interface {
	Create(q *Question) error
	FindByID(id uuid.UUID) (*Question, error)
	Update(q *Question) error
	Delete(id uuid.UUID) error
	List(category string, difficulty Difficulty) ([]Question, error)
	InGradedTest(id uuid.UUID) (bool, error)

	// Sample returns up to n distinct matching questions, approximately
	// uniformly at random. Fewer than n when the bank runs short.
	Sample(filter SampleFilter, n int) ([]Question, error)

	CreatePool(pool *QuestionPool) error
	FindPoolByID(id uuid.UUID) (*QuestionPool, error)
	FindDefaultPool() (*QuestionPool, error)
	ListPools() ([]QuestionPool, error)
	UpdatePool(pool *QuestionPool) error
	DeletePool(id uuid.UUID) error
	SetDefaultPool(id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(q *Question) error {
	return r.db.Create(q).Error
}

func (r *repository) FindByID(id uuid.UUID) (*Question, error) {
	var q Question
	if err := r.db.First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *repository) Update(q *Question) error {
	return r.db.Save(q).Error
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Delete(&Question{}, "id = ?", id).Error
}

func (r *repository) List(category string, difficulty Difficulty) ([]Question, error) {
	query := r.db.Model(&Question{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}

	var questions []Question
	if err := query.Order("created_at DESC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// InGradedTest reports whether the question belongs to a test that has
// already been graded. Such questions are locked against edits.
func (r *repository) InGradedTest(id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Table("test_questions").
		Joins("JOIN tests ON tests.id = test_questions.test_id").
		Where("test_questions.question_id = ? AND tests.status IN ?", id, []string{"COMPLETED", "TERMINATED"}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) Sample(filter SampleFilter, n int) ([]Question, error) {
	if n <= 0 {
		return nil, nil
	}

	query := r.db.Model(&Question{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if len(filter.Categories) > 0 {
		query = query.Where("category IN ?", filter.Categories)
	}
	if len(filter.ExcludeIDs) > 0 {
		query = query.Where("id NOT IN ?", filter.ExcludeIDs)
	}
	if filter.PoolID != nil {
		query = query.
			Joins("JOIN question_pool_questions pq ON pq.question_id = questions.id").
			Where("pq.question_pool_id = ?", *filter.PoolID)
	}

	var questions []Question
	if err := query.Order("RANDOM()").Limit(n).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *repository) CreatePool(pool *QuestionPool) error {
	return r.db.Create(pool).Error
}

func (r *repository) FindPoolByID(id uuid.UUID) (*QuestionPool, error) {
	var pool QuestionPool
	if err := r.db.Preload("Questions").First(&pool, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPoolNotFound
		}
		return nil, err
	}
	return &pool, nil
}

func (r *repository) FindDefaultPool() (*QuestionPool, error) {
	var pool QuestionPool
	if err := r.db.First(&pool, "is_default = ?", true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPoolNotFound
		}
		return nil, err
	}
	return &pool, nil
}

func (r *repository) ListPools() ([]QuestionPool, error) {
	var pools []QuestionPool
	if err := r.db.Order("created_at DESC").Find(&pools).Error; err != nil {
		return nil, err
	}
	return pools, nil
}

func (r *repository) UpdatePool(pool *QuestionPool) error {
	return r.db.Save(pool).Error
}

func (r *repository) DeletePool(id uuid.UUID) error {
	return r.db.Delete(&QuestionPool{}, "id = ?", id).Error
}

// SetDefaultPool promotes one pool to default and demotes every other pool
// in the same transaction, so at most one default exists at any point.
func (r *repository) SetDefaultPool(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&QuestionPool{}).
			Where("is_default = ?", true).
			Update("is_default", false).Error; err != nil {
			return err
		}

		result := tx.Model(&QuestionPool{}).
			Where("id = ?", id).
			Update("is_default", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPoolNotFound
		}
		return nil
	})
}
