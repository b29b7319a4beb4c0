package history

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// LoadOrCreate returns the learner's record, creating an empty one on
	// first access.
	LoadOrCreate(studentID uuid.UUID) (*StudentQuestionHistory, error)

	// RecentQuestionIDs lists distinct question ids the learner saw since
	// the given instant.
	RecentQuestionIDs(studentID uuid.UUID, since time.Time) ([]uuid.UUID, error)

	// Commit appends the seen-question entries and bumps every aggregate in
	// one transaction, so a crash can never leave the counters out of step
	// with the log.
	Commit(studentID uuid.UUID, results []QuestionResult) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) LoadOrCreate(studentID uuid.UUID) (*StudentQuestionHistory, error) {
	record := StudentQuestionHistory{
		ID:        uuid.New(),
		StudentID: studentID,
	}
	err := r.db.
		Where(StudentQuestionHistory{StudentID: studentID}).
		Attrs(record).
		FirstOrCreate(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) RecentQuestionIDs(studentID uuid.UUID, since time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&SeenQuestion{}).
		Distinct("seen_questions.question_id").
		Joins("JOIN student_question_histories h ON h.id = seen_questions.history_id").
		Where("h.student_id = ? AND seen_questions.seen_at >= ?", studentID, since).
		Pluck("seen_questions.question_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) Commit(studentID uuid.UUID, results []QuestionResult) error {
	if len(results) == 0 {
		return nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		record := StudentQuestionHistory{
			ID:        uuid.New(),
			StudentID: studentID,
		}
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(StudentQuestionHistory{StudentID: studentID}).
			Attrs(record).
			FirstOrCreate(&record).Error
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		entries := make([]SeenQuestion, 0, len(results))
		for _, res := range results {
			entries = append(entries, SeenQuestion{
				ID:                uuid.New(),
				HistoryID:         record.ID,
				QuestionID:        res.QuestionID,
				TestID:            res.TestID,
				SeenAt:            now,
				AnsweredCorrectly: res.Correct,
			})
		}
		if err := tx.Create(&entries).Error; err != nil {
			return err
		}

		byCategory := record.CategoryPerformance.Data()
		byDifficulty := record.DifficultyPerformance.Data()
		if byCategory == nil {
			byCategory = map[string]PerformanceStat{}
		}
		if byDifficulty == nil {
			byDifficulty = map[string]PerformanceStat{}
		}

		for _, res := range results {
			record.TotalQuestionsAttempted++
			if res.Correct {
				record.CorrectAnswers++
			}
			bump(byCategory, res.Category, res.Correct)
			bump(byDifficulty, string(res.Difficulty), res.Correct)
		}
		record.CategoryPerformance = datatypes.NewJSONType(byCategory)
		record.DifficultyPerformance = datatypes.NewJSONType(byDifficulty)

		return tx.Omit("Entries").Save(&record).Error
	})
}

// bump is the get-or-default-then-increment update for a keyed aggregate.
func bump(stats map[string]PerformanceStat, key string, correct bool) {
	stat := stats[key]
	stat.Attempted++
	if correct {
		stat.Correct++
	}
	stats[key] = stat
}
