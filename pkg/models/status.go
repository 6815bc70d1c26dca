package models

// TargetStatus tracks a target through QUEUED -> DISPATCHED -> COMPLETED|FAILED
type TargetStatus string

const (
	TargetStatusUnset      TargetStatus = ""           // Zero value = unset/unknown
	TargetStatusQueued     TargetStatus = "queued"     // Seen and waiting for a permit
	TargetStatusDispatched TargetStatus = "dispatched" // Fetch+extract in flight
	TargetStatusCompleted  TargetStatus = "completed"  // Produced items and follow-ups
	TargetStatusFailed     TargetStatus = "failed"     // Logged and dropped
	TargetStatusNotFound   TargetStatus = "not_found"  // Not in database
	TargetStatusDBError    TargetStatus = "db_error"   // Database error occurred
)

// String implements fmt.Stringer for logging
func (s TargetStatus) String() string {
	if s == "" {
		return "unset"
	}
	return string(s)
}

// IsValid returns true if the status is a known operational value
func (s TargetStatus) IsValid() bool {
	switch s {
	case TargetStatusQueued, TargetStatusDispatched, TargetStatusCompleted, TargetStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether the target has resolved to its single outcome
func (s TargetStatus) IsTerminal() bool {
	return s == TargetStatusCompleted || s == TargetStatusFailed
}
