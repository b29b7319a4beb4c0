package history

import (
	"sort"

	"github.com/examforge/examforge/internal/question"
)

const (
	// Below this many attempts the learner's history carries too little
	// signal to adapt on.
	minAttemptsForSignal = 10

	weakCategoryMinAttempts = 3
	weakCategoryAccuracy    = 0.5

	strongAccuracy = 0.8
	steadyAccuracy = 0.6
)

var (
	neutralDistribution    = question.DifficultyDistribution{Easy: 30, Medium: 50, Hard: 20}
	strongDistribution     = question.DifficultyDistribution{Easy: 10, Medium: 40, Hard: 50}
	steadyDistribution     = question.DifficultyDistribution{Easy: 25, Medium: 50, Hard: 25}
	strugglingDistribution = question.DifficultyDistribution{Easy: 50, Medium: 40, Hard: 10}
)

// RecommendDistribution maps overall accuracy onto one of three fixed
// difficulty bands, falling back to a neutral mix while the sample is small.
func RecommendDistribution(attempted, correct int) question.DifficultyDistribution {
	if attempted < minAttemptsForSignal {
		return neutralDistribution
	}

	accuracy := float64(correct) / float64(attempted)
	switch {
	case accuracy >= strongAccuracy:
		return strongDistribution
	case accuracy >= steadyAccuracy:
		return steadyDistribution
	default:
		return strugglingDistribution
	}
}

// WeakCategoriesFrom lists category tags the learner keeps missing: at least
// three attempts with accuracy under one half. Sorted for stable output.
func WeakCategoriesFrom(perf map[string]PerformanceStat) []string {
	var weak []string
	for category, stat := range perf {
		if stat.Attempted >= weakCategoryMinAttempts && stat.Accuracy() < weakCategoryAccuracy {
			weak = append(weak, category)
		}
	}
	sort.Strings(weak)
	return weak
}
