package quiz

import (
	"fmt"
	"strings"

	"github.com/saulo-duarte/classroom-lambda/internal/apperr"
)

const DefaultPoints = 1

// ValidateDraft checks the authoring form. It is pure so clients can run it
// before sending; the service runs it again on every create and update.
func ValidateDraft(in QuizInput) error {
	verr := apperr.NewValidation()

	if strings.TrimSpace(in.Title) == "" {
		verr.Add("title", "title is required")
	}
	if len(in.Questions) == 0 {
		verr.Add("questions", "add at least one question")
	}

	for i, q := range in.Questions {
		path := fmt.Sprintf("questions[%d]", i)

		if strings.TrimSpace(q.Text) == "" {
			verr.Add(path+".text", "question text is required")
		}
		if q.Points < 0 {
			verr.Add(path+".points", "points must be positive")
		}

		switch q.Type {
		case MultipleChoice:
			validateOptions(verr, path, q.Options)
		case TrueFalse:
			validateOptions(verr, path, q.Options)
			if len(q.Options) != 2 {
				verr.Add(path+".options", "true/false questions have exactly 2 options")
			} else if countCorrect(q.Options) != 1 {
				verr.Add(path+".options", "mark exactly one option as correct")
			}
		case ShortAnswer:
			if len(q.Options) > 0 {
				verr.Add(path+".options", "short answer questions have no options")
			}
		default:
			verr.Add(path+".type", fmt.Sprintf("unknown question type %q", q.Type))
		}
	}

	return verr.OrNil()
}

func validateOptions(verr *apperr.ValidationError, path string, options []OptionInput) {
	if len(options) < 2 {
		verr.Add(path+".options", "add at least 2 options")
	}
	for j, o := range options {
		if strings.TrimSpace(o.Text) == "" {
			verr.Add(fmt.Sprintf("%s.options[%d].text", path, j), "option text is required")
		}
	}
	if len(options) > 0 && countCorrect(options) == 0 {
		verr.Add(path+".options", "mark the correct answer")
	}
}

func countCorrect(options []OptionInput) int {
	n := 0
	for _, o := range options {
		if o.IsCorrect {
			n++
		}
	}
	return n
}
