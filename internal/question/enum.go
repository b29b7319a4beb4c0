package question

type QuestionType string

const (
	TypeMCQ         QuestionType = "MCQ"
	TypeCoding      QuestionType = "CODING"
	TypeTrueFalse   QuestionType = "TRUE_FALSE"
	TypeFillInBlank QuestionType = "FILL_IN_BLANK"
)

func (t QuestionType) Valid() bool {
	switch t {
	case TypeMCQ, TypeCoding, TypeTrueFalse, TypeFillInBlank:
		return true
	}
	return false
}

// IsObjective reports whether the type is graded by direct answer comparison
// rather than by executing code.
func (t QuestionType) IsObjective() bool {
	return t != TypeCoding
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// DefaultPoints is the point value a question inherits when the admin does
// not set one explicitly.
func (d Difficulty) DefaultPoints() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	}
	return 1
}
