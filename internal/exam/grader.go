package exam

import (
	"context"
	"math"
	"sync"

	"github.com/examforge/examforge/internal/config"
	"github.com/examforge/examforge/internal/history"
	"github.com/examforge/examforge/internal/question"
	"github.com/examforge/examforge/internal/sandbox"
)

// GradeResult is what the learner-facing caller gets back. InfraErrors is
// operational detail for retry/alerting and is never serialized outward.
type GradeResult struct {
	Score          int  `json:"score"`
	TotalQuestions int  `json:"total_questions"`
	IsPassed       bool `json:"is_passed"`
	InfraErrors    int  `json:"-"`
}

// Grader scores one submission against one test. It owns no persistence:
// given the same test and answers it always computes the same result.
type Grader struct {
	executor      sandbox.Executor
	maxConcurrent int
}

const defaultMaxConcurrentRuns = 4

func NewGrader(executor sandbox.Executor) *Grader {
	return &Grader{
		executor:      executor,
		maxConcurrent: defaultMaxConcurrentRuns,
	}
}

type questionOutcome struct {
	correct bool
	infra   bool
}

// Grade scores every question of the test. Objective questions compare the
// answer against the stored one by exact string equality. Coding questions
// pass only when every test case passes; the first failing case settles the
// question and the remaining cases are skipped. Coding questions run
// concurrently under a bounded pool; the per-case executions inside one
// question stay sequential.
//
// Cancellation: in-flight sandbox runs are detached from the request
// context and bounded by their own timeout; when the request context is
// already dead by the end, the computed result is discarded and the
// context's error returned.
func (g *Grader) Grade(ctx context.Context, test *Test, answers []SubmissionAnswer) (*GradeResult, []history.QuestionResult, error) {
	log := config.WithContext(ctx)
	cfg := test.Config.Data()

	answerFor := make(map[string]Answer, len(answers))
	for _, a := range answers {
		answerFor[a.QuestionID.String()] = a.Answer
	}

	outcomes := make([]questionOutcome, len(test.Questions))

	// Sandbox runs outlive a cancelled request on purpose: they stop at
	// their own timeout and the result is simply thrown away below.
	sandboxCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	sem := make(chan struct{}, g.maxConcurrent)

	for i, tq := range test.Questions {
		q := tq.Question
		answer := answerFor[tq.QuestionID.String()]

		if q.Type.IsObjective() {
			outcomes[i].correct = answer.Kind == AnswerKindObjective &&
				answer.Value == q.CorrectAnswer
			continue
		}

		if answer.Kind != AnswerKindCode || answer.Value == "" {
			continue
		}

		wg.Add(1)
		go func(idx int, q question.Question, code string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			correct, infra := g.gradeCoding(sandboxCtx, q, code, cfg)
			outcomes[idx] = questionOutcome{correct: correct, infra: infra}
		}(i, q, answer.Value)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		log.Warn("Grading request cancelled, discarding computed result")
		return nil, nil, err
	}

	result := &GradeResult{TotalQuestions: len(test.Questions)}
	updates := make([]history.QuestionResult, 0, len(test.Questions))
	for i, tq := range test.Questions {
		if outcomes[i].correct {
			result.Score++
		}
		if outcomes[i].infra {
			result.InfraErrors++
		}
		updates = append(updates, history.QuestionResult{
			QuestionID: tq.QuestionID,
			TestID:     test.ID,
			Category:   tq.Question.Category,
			Difficulty: tq.Question.Difficulty,
			Correct:    outcomes[i].correct,
		})
	}

	threshold := int(math.Ceil(float64(result.TotalQuestions) * cfg.PassingFraction()))
	result.IsPassed = result.Score >= threshold

	return result, updates, nil
}

func (g *Grader) gradeCoding(ctx context.Context, q question.Question, code string, cfg TestConfig) (correct, infra bool) {
	log := config.WithContext(ctx)

	for _, tc := range q.TestCases {
		res, err := g.executor.Run(ctx, code, tc.Input, cfg.CaseTimeout())
		if err != nil {
			// Not the learner's fault; flagged for the operator, scored
			// as a failed case for the submission.
			log.WithError(err).
				WithField("question_id", q.ID).
				WithField("infra", true).
				Error("Sandbox execution failed")
			return false, true
		}
		if !res.Passed(tc.Output) {
			return false, false
		}
	}
	return true, false
}
