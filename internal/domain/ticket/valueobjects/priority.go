package valueobjects

import "fmt"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

const DefaultPriority = PriorityNormal

func (p Priority) String() string {
	return string(p)
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// NewPriority parses s; an empty string yields DefaultPriority.
func NewPriority(s string) (Priority, error) {
	if s == "" {
		return DefaultPriority, nil
	}
	p := Priority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority: %s", s)
	}
	return p, nil
}
