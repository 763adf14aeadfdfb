package domain

import "fmt"

// ValidationError marks a malformed candidate. Drafts failing validation are
// reported back to the adapter and never reach fingerprinting or merge logic.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid candidate: %s %s", e.Field, e.Reason)
}
