package exam

// AnswerKind discriminates the two shapes a learner answer can take. The
// kind must agree with the question's type: objective answers for MCQ,
// true/false and fill-in-the-blank questions, code answers for coding ones.
type AnswerKind string

const (
	AnswerKindObjective AnswerKind = "objective"
	AnswerKindCode      AnswerKind = "code"
)

type Answer struct {
	Kind  AnswerKind `json:"kind"`
	Value string     `json:"value"`
}

func ObjectiveAnswer(value string) Answer {
	return Answer{Kind: AnswerKindObjective, Value: value}
}

func CodeAnswer(code string) Answer {
	return Answer{Kind: AnswerKindCode, Value: code}
}

func (a Answer) IsZero() bool {
	return a.Kind == "" && a.Value == ""
}
