package repository

import (
	"errors"

	"gorm.io/gorm"

	apperrors "helpdesk/internal/shared/errors"
)

// translate maps gorm errors onto the application taxonomy: missing rows
// become NotFound, unique violations Conflict, anything else Internal with
// the cause attached.
func translate(err error, notFound, conflict, internal string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NewNotFoundError(notFound)
	case apperrors.IsDuplicateError(err):
		return apperrors.NewConflictError(conflict)
	default:
		return apperrors.Wrap(err, internal)
	}
}
