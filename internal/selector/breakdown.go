package selector

import (
	"math"

	"github.com/examforge/examforge/internal/question"
)

// Cell is one (difficulty, type, count) slot of the selection plan. An empty
// Type means the cell is not restricted to a question type.
type Cell struct {
	Difficulty question.Difficulty
	Type       question.QuestionType
	Count      int
}

// typeOrder fixes the iteration order of type sub-division. Rounding slack
// goes to the last objective type present, so TrueFalse comes last.
var typeOrder = []question.QuestionType{
	question.TypeCoding,
	question.TypeMCQ,
	question.TypeFillInBlank,
	question.TypeTrueFalse,
}

// BuildBreakdown turns the requested total and distributions into an exact
// per-cell plan. Rounding never changes the total: the hard tier takes the
// difficulty remainder and the last type of each tier takes the type
// remainder, so the cell counts always sum to exactly total.
func BuildBreakdown(total int, dist question.DifficultyDistribution, types map[question.QuestionType]int) []Cell {
	if total <= 0 || dist.Sum() == 0 {
		return nil
	}

	easy := roundShare(total, dist.Easy)
	medium := roundShare(total, dist.Medium)
	hard := total - easy - medium
	// Rounding can overshoot; trim medium first, then easy.
	if hard < 0 {
		medium += hard
		hard = 0
		if medium < 0 {
			easy += medium
			medium = 0
		}
	}

	tiers := []struct {
		difficulty question.Difficulty
		count      int
	}{
		{question.DifficultyEasy, easy},
		{question.DifficultyMedium, medium},
		{question.DifficultyHard, hard},
	}

	var cells []Cell
	for _, tier := range tiers {
		if tier.count == 0 {
			continue
		}
		cells = append(cells, splitByType(tier.difficulty, tier.count, types)...)
	}
	return cells
}

func splitByType(difficulty question.Difficulty, tierCount int, types map[question.QuestionType]int) []Cell {
	if typeSum(types) == 0 {
		// No type mix requested: one unrestricted cell keeps the tier intact.
		return []Cell{{Difficulty: difficulty, Count: tierCount}}
	}

	present := make([]question.QuestionType, 0, len(typeOrder))
	for _, qType := range typeOrder {
		if _, ok := types[qType]; ok {
			present = append(present, qType)
		}
	}
	if len(present) == 0 {
		return []Cell{{Difficulty: difficulty, Count: tierCount}}
	}

	// Rounding slack goes to an objective type, never to Coding: pick the
	// last objective type present, falling back to the last type when the
	// mix is all Coding.
	taker := len(present) - 1
	for i := len(present) - 1; i >= 0; i-- {
		if present[i].IsObjective() {
			taker = i
			break
		}
	}

	counts := make([]int, len(present))
	assigned := 0
	for i, qType := range present {
		if i == taker {
			continue
		}
		counts[i] = roundShare(tierCount, types[qType])
		assigned += counts[i]
	}

	// The taker absorbs the remainder; trim the other cells if rounding
	// overshot the tier.
	remainder := tierCount - assigned
	for i := len(present) - 1; remainder < 0 && i >= 0; i-- {
		if i == taker {
			continue
		}
		take := min(counts[i], -remainder)
		counts[i] -= take
		remainder += take
	}
	counts[taker] = remainder

	var cells []Cell
	for i, qType := range present {
		if counts[i] == 0 {
			continue
		}
		cells = append(cells, Cell{Difficulty: difficulty, Type: qType, Count: counts[i]})
	}
	return cells
}

func roundShare(total, pct int) int {
	return int(math.Round(float64(total) * float64(pct) / 100))
}

func typeSum(types map[question.QuestionType]int) int {
	sum := 0
	for _, pct := range types {
		sum += pct
	}
	return sum
}
