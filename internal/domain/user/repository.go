package user

import (
	"context"

	vo "helpdesk/internal/domain/user/valueobjects"
)

// Repository persists users. Lookups return a NotFound AppError when the row
// is missing; Create and Update return Conflict on a duplicate email.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter ListFilter) ([]*User, int64, error)
}

type ListFilter struct {
	Role     *vo.Role
	Roles    []vo.Role
	Page     int
	PageSize int
}
