package access

import (
	"helpdesk/internal/shared/errors"
)

type Effect int

const (
	Permit Effect = iota
	Unauthenticated
	Forbidden
	NotFound
)

func (e Effect) String() string {
	switch e {
	case Permit:
		return "permit"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	}
	return "unknown"
}

// Decision is the outcome of a policy check with a human readable reason.
type Decision struct {
	Effect Effect
	Reason string
}

func permit() Decision { return Decision{Effect: Permit} }

func deny(e Effect, reason string) Decision {
	return Decision{Effect: e, Reason: reason}
}

func (d Decision) Allowed() bool {
	return d.Effect == Permit
}

// Err converts a denial into the matching AppError, or nil when permitted.
func (d Decision) Err() error {
	switch d.Effect {
	case Permit:
		return nil
	case Unauthenticated:
		return errors.NewUnauthorizedError(d.Reason)
	case NotFound:
		return errors.NewNotFoundError(d.Reason)
	default:
		return errors.NewForbiddenError(d.Reason)
	}
}
