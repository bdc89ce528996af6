package model

import (
	"time"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceOnLeave AttendanceStatus = "on_leave"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceOnLeave:
		return true
	}
	return false
}

// Attendance is one row per employee per calendar day.
type Attendance struct {
	ID         uint             `gorm:"primarykey" json:"id"`
	EmployeeID uint             `gorm:"not null;uniqueIndex:idx_attendance_employee_date" json:"employeeId"`
	Date       time.Time        `gorm:"type:date;not null;uniqueIndex:idx_attendance_employee_date" json:"date"`
	Status     AttendanceStatus `gorm:"type:varchar(20);not null" json:"status"`
	CheckIn    *time.Time       `json:"checkIn,omitempty"`
	CheckOut   *time.Time       `json:"checkOut,omitempty"`
	Notes      string           `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`

	Employee *User `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

func (Attendance) TableName() string {
	return "attendances"
}
