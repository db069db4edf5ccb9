package valueobjects

import "fmt"

type TicketStatus string

const (
	StatusOpen       TicketStatus = "open"
	StatusInProgress TicketStatus = "in_progress"
	StatusResolved   TicketStatus = "resolved"
	StatusClosed     TicketStatus = "closed"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []TicketStatus{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

func ParseStatus(s string) (TicketStatus, error) {
	st := TicketStatus(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid status %q, must be one of open, in_progress, resolved, closed", s)
	}
	return st, nil
}

func (s TicketStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// CanTransitionTo allows staff to move between any two valid statuses,
// including reopening a closed ticket.
func (s TicketStatus) CanTransitionTo(next TicketStatus) bool {
	return s.IsValid() && next.IsValid()
}

// AllowsOwnerEdit reports whether the submitting user may still change the
// title and description.
func (s TicketStatus) AllowsOwnerEdit() bool {
	return s == StatusOpen
}

func (s TicketStatus) String() string {
	return string(s)
}
