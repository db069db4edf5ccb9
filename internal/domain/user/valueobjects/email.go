package valueobjects

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const maxEmailLength = 255

var (
	validate   = validator.New()
	emailCaser = cases.Lower(language.Und)
)

// Email is a validated, lower-cased address. Two addresses that differ only by
// case are the same Email.
type Email struct {
	value string
}

func NewEmail(raw string) (Email, error) {
	normalized := NormalizeEmail(raw)
	if normalized == "" {
		return Email{}, fmt.Errorf("email is required")
	}
	if len(normalized) > maxEmailLength {
		return Email{}, fmt.Errorf("email cannot exceed %d characters", maxEmailLength)
	}
	if err := validate.Var(normalized, "email"); err != nil {
		return Email{}, fmt.Errorf("invalid email format")
	}
	return Email{value: normalized}, nil
}

// NormalizeEmail trims and lower-cases raw without validating it. Lookups use
// it so that mixed-case input finds the stored row.
func NormalizeEmail(raw string) string {
	return emailCaser.String(strings.TrimSpace(raw))
}

func (e Email) String() string { return e.value }

func (e Email) IsZero() bool { return e.value == "" }
