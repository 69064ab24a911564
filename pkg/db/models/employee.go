package models

import "time"

// Employee is the locally synced copy of an ERP worker.
type Employee struct {
	ID           uint      `gorm:"primaryKey"`
	EmployeeID   string    `gorm:"column:employee_id;not null;uniqueIndex"`
	EmployeeGUID string    `gorm:"column:employee_guid;not null;index"`
	FirstName    string    `gorm:"column:first_name;not null;default:''"`
	LastName     string    `gorm:"column:last_name;not null;default:''"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}
