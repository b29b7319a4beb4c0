package exam

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/examforge/examforge/internal/config"
	"github.com/examforge/examforge/internal/history"
	"github.com/examforge/examforge/internal/sandbox"
	"github.com/examforge/examforge/internal/selector"
)

var (
	ErrAlreadyGraded  = errors.New("test has already been graded")
	ErrForbidden      = errors.New("test belongs to another learner")
	ErrEmptySelection = errors.New("no questions available for this test")
)

type Service interface {
	AssignTest(ctx context.Context, dto AssignTestDTO) (*Test, error)
	GetTestForStudent(ctx context.Context, testID, studentID uuid.UUID) (*TestView, error)
	ListTests(ctx context.Context, studentID uuid.UUID) ([]Test, error)
	GradeSubmission(ctx context.Context, testID, studentID uuid.UUID, dto SubmitTestDTO) (*GradeResult, error)
	GetSubmission(ctx context.Context, testID, studentID uuid.UUID) (*Submission, error)
	ExecuteCode(ctx context.Context, dto ExecuteCodeDTO) (*CaseResult, error)
}

type service struct {
	repo     Repository
	selector selector.Service
	grader   *Grader
	history  history.Service
	executor sandbox.Executor
}

func NewService(repo Repository, selectorService selector.Service, grader *Grader, historyService history.Service, executor sandbox.Executor) Service {
	return &service{
		repo:     repo,
		selector: selectorService,
		grader:   grader,
		history:  historyService,
		executor: executor,
	}
}

func (s *service) AssignTest(ctx context.Context, dto AssignTestDTO) (*Test, error) {
	log := config.WithContext(ctx)

	questions, err := s.selector.SelectQuestionsForTest(ctx, dto.StudentID, dto.Selection)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrEmptySelection
	}

	test := Test{
		ID:        uuid.New(),
		StudentID: dto.StudentID,
		Title:     dto.Title,
		Config:    datatypes.NewJSONType(dto.Config),
		Status:    TestStatusAssigned,
	}
	for i, q := range questions {
		test.Questions = append(test.Questions, TestQuestion{
			ID:         uuid.New(),
			TestID:     test.ID,
			QuestionID: q.ID,
			Position:   i + 1,
		})
	}

	if err := s.repo.CreateTest(&test); err != nil {
		log.WithError(err).Error("Failed to create test")
		return nil, err
	}

	log.WithField("test_id", test.ID).
		WithField("student_id", dto.StudentID).
		WithField("questions", len(test.Questions)).
		Info("Test assigned")
	return &test, nil
}

func (s *service) GetTestForStudent(ctx context.Context, testID, studentID uuid.UUID) (*TestView, error) {
	test, err := s.repo.FindTestByID(testID)
	if err != nil {
		return nil, err
	}
	if test.StudentID != studentID {
		return nil, ErrForbidden
	}

	if test.Status == TestStatusAssigned {
		if err := s.repo.MarkInProgress(testID); err != nil {
			config.WithContext(ctx).WithError(err).Warn("Failed to mark test in progress")
		} else {
			test.Status = TestStatusInProgress
		}
	}

	return buildTestView(test), nil
}

func (s *service) ListTests(ctx context.Context, studentID uuid.UUID) ([]Test, error) {
	return s.repo.ListTestsByStudent(studentID)
}

func (s *service) GradeSubmission(ctx context.Context, testID, studentID uuid.UUID, dto SubmitTestDTO) (*GradeResult, error) {
	log := config.WithContext(ctx)

	test, err := s.repo.FindTestByID(testID)
	if err != nil {
		return nil, err
	}
	if test.StudentID != studentID {
		return nil, ErrForbidden
	}
	if test.Status.Graded() {
		return nil, ErrAlreadyGraded
	}

	result, updates, err := s.grader.Grade(ctx, test, dto.Answers)
	if err != nil {
		return nil, err
	}

	test.Score = result.Score
	test.Status = TestStatusCompleted
	submission := Submission{
		ID:             uuid.New(),
		TestID:         test.ID,
		StudentID:      studentID,
		Answers:        dto.Answers,
		Score:          result.Score,
		IsPassed:       result.IsPassed,
		TabSwitchCount: dto.TabSwitchCount,
	}
	if err := s.repo.SaveResult(test, &submission); err != nil {
		log.WithError(err).Error("Failed to persist grading result")
		return nil, err
	}

	// The score stands even when the adaptive-history write fails; the
	// failure is logged inside Commit for a later retry.
	_ = s.history.Commit(ctx, studentID, updates)

	if result.InfraErrors > 0 {
		log.WithField("test_id", test.ID).
			WithField("infra_errors", result.InfraErrors).
			Error("Grading finished with sandbox infrastructure errors")
	}

	log.WithField("test_id", test.ID).
		WithField("score", result.Score).
		WithField("is_passed", result.IsPassed).
		Info("Submission graded")
	return result, nil
}

func (s *service) GetSubmission(ctx context.Context, testID, studentID uuid.UUID) (*Submission, error) {
	test, err := s.repo.FindTestByID(testID)
	if err != nil {
		return nil, err
	}
	if test.StudentID != studentID {
		return nil, ErrForbidden
	}
	return s.repo.FindSubmissionByTest(testID)
}

// ExecuteCode backs the live "try it" endpoint: one artifact, one case,
// outside any formal submission.
func (s *service) ExecuteCode(ctx context.Context, dto ExecuteCodeDTO) (*CaseResult, error) {
	log := config.WithContext(ctx)

	timeout := time.Duration(dto.TimeoutSeconds) * time.Second
	res, err := s.executor.Run(ctx, dto.Code, dto.Input, timeout)
	if err != nil {
		// Infrastructure detail stays in the logs, not in the response.
		log.WithError(err).WithField("infra", true).Error("Live execution failed")
		return nil, err
	}

	out := &CaseResult{
		Output:       res.Output,
		Stderr:       res.Stderr,
		TimedOut:     res.TimedOut,
		RuntimeError: !res.TimedOut && res.ExitCode != 0,
	}
	if dto.ExpectedOutput != "" {
		out.Passed = res.Passed(dto.ExpectedOutput)
	}
	return out, nil
}

func buildTestView(test *Test) *TestView {
	cfg := test.Config.Data()
	view := &TestView{
		ID:     test.ID,
		Title:  test.Title,
		Status: test.Status,
		Config: cfg,
	}

	for _, tq := range test.Questions {
		q := tq.Question
		options := append([]string(nil), q.Options...)
		if cfg.ShuffleOptions {
			rand.Shuffle(len(options), func(i, j int) {
				options[i], options[j] = options[j], options[i]
			})
		}

		var cases []TestCaseView
		for _, tc := range q.TestCases {
			if tc.Hidden {
				continue
			}
			cases = append(cases, TestCaseView{Input: tc.Input, Output: tc.Output})
		}

		view.Questions = append(view.Questions, QuestionView{
			ID:         q.ID,
			Text:       q.Text,
			Type:       q.Type,
			Difficulty: q.Difficulty,
			Category:   q.Category,
			Options:    options,
			TestCases:  cases,
			Points:     q.Points,
		})
	}
	return view
}
