package models

import (
	"time"

	"helpdesk/internal/shared/constants"
)

type DepartmentModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (DepartmentModel) TableName() string {
	return constants.TableDepartments
}

// DepartmentRow is a department joined with its ticket count.
type DepartmentRow struct {
	DepartmentModel
	TicketCount int64
}
