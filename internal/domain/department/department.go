// Package department groups tickets by the team responsible for them.
package department

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinNameLength = 2
	MaxNameLength = 100
)

type Department struct {
	id          uint
	name        string
	ticketCount int64
	createdAt   time.Time
	updatedAt   time.Time
}

func NewDepartment(name string) (*Department, error) {
	name, err := ValidateName(name)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Department{name: name, createdAt: now, updatedAt: now}, nil
}

// ReconstructDepartment rebuilds a Department loaded from storage.
// ticketCount is only populated by queries that count references.
func ReconstructDepartment(id uint, name string, ticketCount int64, createdAt, updatedAt time.Time) (*Department, error) {
	if id == 0 {
		return nil, fmt.Errorf("department ID cannot be zero")
	}
	return &Department{
		id:          id,
		name:        name,
		ticketCount: ticketCount,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

// ValidateName trims name and checks its length in characters.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < MinNameLength || n > MaxNameLength {
		return "", fmt.Errorf("department name must be between %d and %d characters", MinNameLength, MaxNameLength)
	}
	return name, nil
}

func (d *Department) ID() uint             { return d.id }
func (d *Department) Name() string         { return d.name }
func (d *Department) TicketCount() int64   { return d.ticketCount }
func (d *Department) CreatedAt() time.Time { return d.createdAt }
func (d *Department) UpdatedAt() time.Time { return d.updatedAt }

func (d *Department) SetID(id uint) error {
	if d.id != 0 {
		return fmt.Errorf("department ID is already set")
	}
	d.id = id
	return nil
}

func (d *Department) Rename(name string) error {
	name, err := ValidateName(name)
	if err != nil {
		return err
	}
	d.name = name
	d.updatedAt = time.Now()
	return nil
}

// CanDelete reports whether no ticket references the department.
func (d *Department) CanDelete() bool {
	return d.ticketCount == 0
}
