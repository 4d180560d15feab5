package quiz

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	TrueFalse      QuestionType = "true-false"
	ShortAnswer    QuestionType = "short-answer"
)

var AllQuestionTypes = []QuestionType{
	MultipleChoice,
	TrueFalse,
	ShortAnswer,
}

func (t QuestionType) IsValid() bool {
	for _, v := range AllQuestionTypes {
		if t == v {
			return true
		}
	}
	return false
}

// IsObjective reports whether answers of this type can be checked automatically.
func (t QuestionType) IsObjective() bool {
	switch t {
	case MultipleChoice, TrueFalse:
		return true
	case ShortAnswer:
		return false
	default:
		return false
	}
}
