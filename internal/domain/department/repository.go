package department

import "context"

type Repository interface {
	Create(ctx context.Context, d *Department) error
	GetByID(ctx context.Context, id uint) (*Department, error)
	// GetByIDWithCount loads the department with its ticket count filled in.
	GetByIDWithCount(ctx context.Context, id uint) (*Department, error)
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
	Update(ctx context.Context, d *Department) error
	// Delete removes the department only while no ticket references it and
	// returns a Conflict error otherwise.
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, withCounts bool) ([]*Department, error)
}
