package submission

import "time"

// SetClock replaces the service clock in tests.
func SetClock(s SubmissionService, now func() time.Time) {
	s.(*submissionService).now = now
}
