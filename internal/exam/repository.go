package exam

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTestNotFound       = errors.New("test not found")
	ErrSubmissionNotFound = errors.New("submission not found")
)

type Repository interface {
	CreateTest(t *Test) error
	FindTestByID(id uuid.UUID) (*Test, error)
	ListTestsByStudent(studentID uuid.UUID) ([]Test, error)
	MarkInProgress(id uuid.UUID) error
	// SaveResult writes the graded score, terminal status and the
	// submission in one transaction.
	SaveResult(t *Test, submission *Submission) error
	FindSubmissionByTest(testID uuid.UUID) (*Submission, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateTest(t *Test) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Questions.Question").Create(t).Error
	})
}

func (r *repository) FindTestByID(id uuid.UUID) (*Test, error) {
	var t Test
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("test_questions.position ASC")
		}).
		Preload("Questions.Question").
		First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) ListTestsByStudent(studentID uuid.UUID) ([]Test, error) {
	var tests []Test
	err := r.db.
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&tests).Error
	if err != nil {
		return nil, err
	}
	return tests, nil
}

func (r *repository) MarkInProgress(id uuid.UUID) error {
	result := r.db.Model(&Test{}).
		Where("id = ? AND status = ?", id, TestStatusAssigned).
		Update("status", TestStatusInProgress)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *repository) SaveResult(t *Test, submission *Submission) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		t.CompletedAt = &now
		if err := tx.Model(&Test{}).
			Where("id = ?", t.ID).
			Updates(map[string]interface{}{
				"score":        t.Score,
				"status":       t.Status,
				"completed_at": t.CompletedAt,
			}).Error; err != nil {
			return err
		}
		return tx.Create(submission).Error
	})
}

func (r *repository) FindSubmissionByTest(testID uuid.UUID) (*Submission, error) {
	var s Submission
	if err := r.db.First(&s, "test_id = ?", testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &s, nil
}
