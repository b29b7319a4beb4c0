package exam_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/examforge/examforge/internal/exam"
	"github.com/examforge/examforge/internal/question"
	"github.com/examforge/examforge/internal/sandbox"
)

// stubExecutor maps each test-case input to a canned outcome and counts
// runs, standing in for the process sandbox.
type stubExecutor struct {
	mu      sync.Mutex
	results map[string]*sandbox.Result
	errs    map[string]error
	runs    []string
}

func (s *stubExecutor) Run(ctx context.Context, code, input string, timeout time.Duration) (*sandbox.Result, error) {
	s.mu.Lock()
	s.runs = append(s.runs, input)
	s.mu.Unlock()

	if err, ok := s.errs[input]; ok {
		return nil, err
	}
	if res, ok := s.results[input]; ok {
		return res, nil
	}
	return &sandbox.Result{Output: "", ExitCode: 0}, nil
}

func passing(output string) *sandbox.Result {
	return &sandbox.Result{Output: output, ExitCode: 0}
}

func objectiveQuestion(correct string) question.Question {
	return question.Question{
		ID:            uuid.New(),
		Text:          "pick one",
		Type:          question.TypeMCQ,
		Difficulty:    question.DifficultyEasy,
		Category:      "go",
		CorrectAnswer: correct,
		IsActive:      true,
	}
}

func codingQuestion(cases ...question.TestCase) question.Question {
	return question.Question{
		ID:         uuid.New(),
		Text:       "write a program",
		Type:       question.TypeCoding,
		Difficulty: question.DifficultyMedium,
		Category:   "go",
		TestCases:  datatypes.NewJSONSlice(cases),
		IsActive:   true,
	}
}

func buildTest(cfg exam.TestConfig, questions ...question.Question) *exam.Test {
	test := &exam.Test{
		ID:        uuid.New(),
		StudentID: uuid.New(),
		Title:     "graded test",
		Config:    datatypes.NewJSONType(cfg),
		Status:    exam.TestStatusInProgress,
	}
	for i, q := range questions {
		test.Questions = append(test.Questions, exam.TestQuestion{
			ID:         uuid.New(),
			TestID:     test.ID,
			QuestionID: q.ID,
			Position:   i + 1,
			Question:   q,
		})
	}
	return test
}

func answerFor(q question.Question, a exam.Answer) exam.SubmissionAnswer {
	return exam.SubmissionAnswer{QuestionID: q.ID, Answer: a}
}

func TestGrade(t *testing.T) {
	ctx := context.Background()

	t.Run("ObjectiveExactMatch", func(t *testing.T) {
		q := objectiveQuestion("B")
		test := buildTest(exam.TestConfig{}, q)
		grader := exam.NewGrader(&stubExecutor{})

		result, updates, err := grader.Grade(ctx, test, []exam.SubmissionAnswer{
			answerFor(q, exam.ObjectiveAnswer("B")),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Score)
		assert.True(t, result.IsPassed)
		require.Len(t, updates, 1)
		assert.True(t, updates[0].Correct)
		assert.Equal(t, q.ID, updates[0].QuestionID)
	})

	t.Run("ObjectiveComparisonIsCaseSensitive", func(t *testing.T) {
		q := objectiveQuestion("True")
		test := buildTest(exam.TestConfig{}, q)
		grader := exam.NewGrader(&stubExecutor{})

		result, _, err := grader.Grade(ctx, test, []exam.SubmissionAnswer{
			answerFor(q, exam.ObjectiveAnswer("true")),
		})
		require.NoError(t, err)
		assert.Equal(t, 0, result.Score)
	})

	t.Run("UnansweredQuestionScoresZero", func(t *testing.T) {
		q := objectiveQuestion("A")
		test := buildTest(exam.TestConfig{}, q)
		grader := exam.NewGrader(&stubExecutor{})

		result, updates, err := grader.Grade(ctx, test, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Score)
		assert.Equal(t, 1, result.TotalQuestions)
		require.Len(t, updates, 1)
		assert.False(t, updates[0].Correct)
	})

	t.Run("CodingPassesWhenAllCasesPass", func(t *testing.T) {
		q := codingQuestion(
			question.TestCase{Input: "1 2", Output: "3"},
			question.TestCase{Input: "5 5", Output: "10", Hidden: true},
		)
		test := buildTest(exam.TestConfig{}, q)
		exec := &stubExecutor{results: map[string]*sandbox.Result{
			"1 2": passing("3"),
			"5 5": passing("10\n"),
		}}
		grader := exam.NewGrader(exec)

		result, _, err := grader.Grade(ctx, test, []exam.SubmissionAnswer{
			answerFor(q, exam.CodeAnswer("print(sum(map(int, input().split())))")),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Score)
		assert.Len(t, exec.runs, 2)
	})

	t.Run("FirstFailingCaseShortCircuits", func(t *testing.T) {
		q := codingQuestion(
			question.TestCase{Input: "a", Output: "1"},
			question.TestCase{Input: "b", Output: "2"},
			question.TestCase{Input: "c", Output: "3"},
		)
		test := buildTest(exam.TestConfig{}, q)
		exec := &stubExecutor{results: map[string]*sandbox.Result{
			"a": passing("1"),
			"b": {Output: "", TimedOut: true},
			"c": passing("3"),
		}}
		grader := exam.NewGrader(exec)

		result, _, err := grader.Grade(ctx, test, []exam.SubmissionAnswer{
			answerFor(q, exam.CodeAnswer("while True: pass")),
		})
		require.NoError(t, err)
		assert.Equal(t, 0, result.Score)
		assert.Equal(t, []string{"a", "b"}, exec.runs, "cases after the first failure must be skipped")
	})

	t.Run("RuntimeErrorFailsTheQuestion", func(t *testing.T) {
		q := codingQuestion(question.TestCase{Input: "x", Output: "y"})
		test := buildTest(exam.TestConfig{}, q)
		exec := &stubExecutor{results: map[string]*sandbox.Result{
			"x": {Output: "y", ExitCode: 1, Stderr: "Traceback"},
		}}
		grader := exam.NewGrader(exec)

		result, _, err := grader.Grade(ctx, test, []exam.SubmissionAnswer{
			answerFor(q, exam.CodeAnswer("raise SystemExit(1)")),
		})
		require.NoError(t, err)
		assert.Equal(t, 0, result.Score)
	})

	t.Run("SandboxOutageScoresFailedAndFlagsInfra", func(t *testing.T) {
		q := codingQuestion(question.TestCase{Input: "x", Output: "y"})
		test := buildTest(exam.TestConfig{}, q)
		exec := &stubExecutor{errs: map[string]error{"x": sandbox.ErrUnavailable}}
		grader := exam.NewGrader(exec)

		result, updates, err := grader.Grade(ctx, test, []exam.SubmissionAnswer{
			answerFor(q, exam.CodeAnswer("print('y')")),
		})
		require.NoError(t, err)
		assert.Equal(t, 0, result.Score)
		assert.Equal(t, 1, result.InfraErrors)
		require.Len(t, updates, 1)
		assert.False(t, updates[0].Correct)
	})

	t.Run("PassThresholdRoundsUp", func(t *testing.T) {
		// 7 questions at 60%: ceil(4.2) = 5 correct to pass.
		questions := make([]question.Question, 7)
		answers := make([]exam.SubmissionAnswer, 0, 5)
		for i := range questions {
			questions[i] = objectiveQuestion("A")
			if i < 5 {
				answers = append(answers, answerFor(questions[i], exam.ObjectiveAnswer("A")))
			}
		}
		test := buildTest(exam.TestConfig{PassingPercent: 60}, questions...)
		grader := exam.NewGrader(&stubExecutor{})

		result, _, err := grader.Grade(ctx, test, answers)
		require.NoError(t, err)
		assert.Equal(t, 5, result.Score)
		assert.True(t, result.IsPassed)

		result, _, err = grader.Grade(ctx, test, answers[:4])
		require.NoError(t, err)
		assert.Equal(t, 4, result.Score)
		assert.False(t, result.IsPassed)
	})

	t.Run("GradingIsDeterministic", func(t *testing.T) {
		q1 := objectiveQuestion("A")
		q2 := codingQuestion(question.TestCase{Input: "in", Output: "out"})
		test := buildTest(exam.TestConfig{}, q1, q2)
		exec := &stubExecutor{results: map[string]*sandbox.Result{"in": passing("out")}}
		grader := exam.NewGrader(exec)

		answers := []exam.SubmissionAnswer{
			answerFor(q1, exam.ObjectiveAnswer("A")),
			answerFor(q2, exam.CodeAnswer("print('out')")),
		}
		first, _, err := grader.Grade(ctx, test, answers)
		require.NoError(t, err)
		second, _, err := grader.Grade(ctx, test, answers)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("CancelledRequestDiscardsTheResult", func(t *testing.T) {
		q := codingQuestion(question.TestCase{Input: "in", Output: "out"})
		test := buildTest(exam.TestConfig{}, q)
		exec := &stubExecutor{results: map[string]*sandbox.Result{"in": passing("out")}}
		grader := exam.NewGrader(exec)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		result, updates, err := grader.Grade(cancelled, test, []exam.SubmissionAnswer{
			answerFor(q, exam.CodeAnswer("print('out')")),
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, result)
		assert.Nil(t, updates)
	})
}
