package model

import (
	"time"
)

type LeaveType string
type LeaveStatus string

const (
	LeaveSick   LeaveType = "sick"
	LeaveCasual LeaveType = "casual"
	LeaveAnnual LeaveType = "annual"
	LeaveUnpaid LeaveType = "unpaid"

	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

func (t LeaveType) Valid() bool {
	switch t {
	case LeaveSick, LeaveCasual, LeaveAnnual, LeaveUnpaid:
		return true
	}
	return false
}

func (s LeaveStatus) Valid() bool {
	switch s {
	case LeavePending, LeaveApproved, LeaveRejected:
		return true
	}
	return false
}

type Leave struct {
	ID         uint        `gorm:"primarykey" json:"id"`
	EmployeeID uint        `gorm:"not null;index" json:"employeeId"`
	LeaveType  LeaveType   `gorm:"type:varchar(20);not null" json:"leaveType"`
	StartDate  time.Time   `gorm:"not null" json:"startDate"`
	EndDate    time.Time   `gorm:"not null" json:"endDate"`
	Reason     string      `gorm:"type:text" json:"reason"`
	Status     LeaveStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`

	Employee *User `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

func (Leave) TableName() string {
	return "leaves"
}
