package dto

import (
	"time"

	"helpdesk/internal/domain/department"
	"helpdesk/internal/shared/mapper"
)

type DepartmentRequest struct {
	Name string `json:"name" binding:"required"`
}

type DepartmentResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	TicketCount *int64    `json:"ticket_count,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToDepartmentResponse includes ticket_count only when withCount is set.
func ToDepartmentResponse(d *department.Department, withCount bool) *DepartmentResponse {
	resp := &DepartmentResponse{
		ID:        d.ID(),
		Name:      d.Name(),
		CreatedAt: d.CreatedAt(),
		UpdatedAt: d.UpdatedAt(),
	}
	if withCount {
		n := d.TicketCount()
		resp.TicketCount = &n
	}
	return resp
}

func ToDepartmentResponses(ds []*department.Department, withCount bool) []*DepartmentResponse {
	return mapper.Slice(ds, func(d *department.Department) *DepartmentResponse {
		return ToDepartmentResponse(d, withCount)
	})
}
