package domain

// RejectionKind tells which check rejected a command.
type RejectionKind string

const (
	RejectDenylist RejectionKind = "denylist"
	RejectPath     RejectionKind = "path"
)

// ValidationResult is either Valid or Rejected, never partially valid.
type ValidationResult struct {
	Valid     bool
	Kind      RejectionKind
	Reason    string
	Offending string
}

// Accepted builds a passing result.
func Accepted() ValidationResult {
	return ValidationResult{Valid: true}
}

// Rejected builds a failing result.
func Rejected(kind RejectionKind, reason, offending string) ValidationResult {
	return ValidationResult{Kind: kind, Reason: reason, Offending: offending}
}

// Err converts a rejection into a *SafetyRejectedError, or nil when valid.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &SafetyRejectedError{Kind: r.Kind, Reason: r.Reason, Offending: r.Offending}
}
