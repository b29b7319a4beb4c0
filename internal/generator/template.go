package generator

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/examforge/examforge/internal/config"
	"github.com/examforge/examforge/internal/question"
)

// templateProvider serves drafts from a static bank. It is the last resort
// of the fallback chain and never fails; it only runs dry.
type templateProvider struct{}

func NewTemplateProvider() Provider {
	return &templateProvider{}
}

type draftTemplate struct {
	text          string
	options       []string
	correctAnswer string
	testCases     []question.TestCase
}

// The bank keeps a few generic items per (type, difficulty) cell. MCQ and
// fill-in-the-blank templates take the category tag as a %s placeholder.
var templateBank = map[question.QuestionType]map[question.Difficulty][]draftTemplate{
	question.TypeMCQ: {
		question.DifficultyEasy: {
			{
				text:          "Which of the following is a core concept of %s?",
				options:       []string{"Abstraction", "Precipitation", "Photosynthesis", "Tectonics"},
				correctAnswer: "Abstraction",
			},
			{
				text:          "In %s, which term describes breaking a problem into smaller parts?",
				options:       []string{"Decomposition", "Evaporation", "Sedimentation", "Fermentation"},
				correctAnswer: "Decomposition",
			},
		},
		question.DifficultyMedium: {
			{
				text:          "When studying %s, which approach best verifies that a solution is correct?",
				options:       []string{"Testing it against known cases", "Assuming it works", "Asking a friend", "Running it once"},
				correctAnswer: "Testing it against known cases",
			},
		},
		question.DifficultyHard: {
			{
				text:          "In advanced %s, what is the main trade-off when optimizing for speed?",
				options:       []string{"Increased memory or complexity", "Lower accuracy of arithmetic", "Loss of persistence", "Reduced portability of data"},
				correctAnswer: "Increased memory or complexity",
			},
		},
	},
	question.TypeTrueFalse: {
		question.DifficultyEasy: {
			{
				text:          "%s problems always have exactly one valid solution approach.",
				options:       []string{"true", "false"},
				correctAnswer: "false",
			},
		},
		question.DifficultyMedium: {
			{
				text:          "In %s, verifying edge cases is as important as verifying the common case.",
				options:       []string{"true", "false"},
				correctAnswer: "true",
			},
		},
		question.DifficultyHard: {
			{
				text:          "In %s, an approach that is asymptotically faster is always faster in practice.",
				options:       []string{"true", "false"},
				correctAnswer: "false",
			},
		},
	},
	question.TypeFillInBlank: {
		question.DifficultyEasy: {
			{
				text:          "In %s, a repeatable step-by-step procedure is called an _____.",
				correctAnswer: "algorithm",
			},
		},
		question.DifficultyMedium: {
			{
				text:          "In %s, checking a result against expected outputs is called _____.",
				correctAnswer: "testing",
			},
		},
		question.DifficultyHard: {
			{
				text:          "In %s, a solution that calls itself on smaller inputs is called _____.",
				correctAnswer: "recursive",
			},
		},
	},
	question.TypeCoding: {
		question.DifficultyEasy: {
			{
				text: "Write a program that reads two integers from standard input (space separated on one line) and prints their sum.",
				testCases: []question.TestCase{
					{Input: "1 2", Output: "3"},
					{Input: "10 20", Output: "30"},
					{Input: "-5 5", Output: "0", Hidden: true},
				},
			},
		},
		question.DifficultyMedium: {
			{
				text: "Write a program that reads one line from standard input and prints it reversed.",
				testCases: []question.TestCase{
					{Input: "abc", Output: "cba"},
					{Input: "hello", Output: "olleh"},
					{Input: "racecar", Output: "racecar", Hidden: true},
				},
			},
		},
		question.DifficultyHard: {
			{
				text: "Write a program that reads an integer n and then n integers, one per line, and prints the largest one.",
				testCases: []question.TestCase{
					{Input: "3\n1\n5\n2", Output: "5"},
					{Input: "1\n-7", Output: "-7"},
					{Input: "4\n-3\n-1\n-9\n-2", Output: "-1", Hidden: true},
				},
			},
		},
	},
}

func (p *templateProvider) Generate(ctx context.Context, req Request) ([]Draft, error) {
	log := config.WithContext(ctx)

	templates := templateBank[req.Type][req.Difficulty]
	if len(templates) == 0 {
		return nil, nil
	}

	category := req.Category
	if category == "" {
		category = "General"
	}

	order := rand.Perm(len(templates))
	count := req.Count
	if count > len(templates) {
		count = len(templates)
	}

	drafts := make([]Draft, 0, count)
	for _, idx := range order[:count] {
		tpl := templates[idx]
		text := tpl.text
		if req.Type != question.TypeCoding {
			text = fmt.Sprintf(tpl.text, category)
		}
		drafts = append(drafts, Draft{
			Text:          text,
			Type:          req.Type,
			Difficulty:    req.Difficulty,
			Category:      category,
			Options:       tpl.options,
			CorrectAnswer: tpl.correctAnswer,
			TestCases:     tpl.testCases,
		})
	}

	log.Debugf("Template bank produced %d of %d requested drafts", len(drafts), req.Count)
	return drafts, nil
}
