package submission

import "fmt"

// RetakePolicy decides what a resubmission does to an existing grade.
type RetakePolicy string

const (
	// KeepGrade leaves score, feedback and the graded flag untouched.
	KeepGrade RetakePolicy = "keep-grade"
	// ResetGrade puts the submission back in the grading queue.
	ResetGrade RetakePolicy = "reset-grade"
)

func ParseRetakePolicy(s string) (RetakePolicy, error) {
	switch p := RetakePolicy(s); p {
	case KeepGrade, ResetGrade:
		return p, nil
	case "":
		return KeepGrade, nil
	default:
		return "", fmt.Errorf("unknown retake policy %q", s)
	}
}
