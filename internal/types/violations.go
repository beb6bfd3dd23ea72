package types

// Violation severities
const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Violation represents a single soft-constraint finding on a deck
type Violation struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Details  string `json:"details"`

	// SlideID is set when the finding concerns one slide
	SlideID *int `json:"slide_id,omitempty"`
}

// Violations represents a collection of findings
type Violations struct {
	Violations []Violation `json:"violations"`
}

// HasErrors reports whether any finding has error severity
func (v Violations) HasErrors() bool {
	for _, violation := range v.Violations {
		if violation.Severity == SeverityError {
			return true
		}
	}
	return false
}
