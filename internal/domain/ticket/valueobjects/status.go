package valueobjects

import "fmt"

type TicketStatus string

const (
	StatusOpen       TicketStatus = "open"
	StatusInProgress TicketStatus = "in_progress"
	StatusResolved   TicketStatus = "resolved"
	StatusClosed     TicketStatus = "closed"
)

// AllStatuses lists every status in workflow order.
var AllStatuses = []TicketStatus{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

func (s TicketStatus) String() string {
	return string(s)
}

func (s TicketStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	default:
		return false
	}
}

// IsSettled reports whether the status carries a resolution timestamp.
func (s TicketStatus) IsSettled() bool {
	return s == StatusResolved || s == StatusClosed
}

func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}
