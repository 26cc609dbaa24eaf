package models

import (
	"time"
)

// WorkSchedule holds a doctor's recurring weekly working hours, one row per
// (doctor, weekday). Times are "HH:MM" in 24h format. The break window is
// optional; both ends must be set together.
type WorkSchedule struct {
	BaseModel
	DoctorID   string `gorm:"size:36;uniqueIndex:idx_doctor_weekday" json:"doctorId"`
	DayOfWeek  int    `gorm:"uniqueIndex:idx_doctor_weekday" json:"dayOfWeek"` // 0=Sunday ... 6=Saturday
	StartTime  string `gorm:"size:5;not null" json:"startTime"`
	EndTime    string `gorm:"size:5;not null" json:"endTime"`
	BreakStart string `gorm:"size:5" json:"breakStart,omitempty"`
	BreakEnd   string `gorm:"size:5" json:"breakEnd,omitempty"`

	Doctor User `gorm:"foreignKey:DoctorID" json:"-"`
}

// HasBreak reports whether the schedule defines a break window.
func (w *WorkSchedule) HasBreak() bool {
	return w.BreakStart != "" && w.BreakEnd != ""
}

// BlockedTime is an ad hoc unavailable interval for a doctor on a specific
// date (vacation, meetings, etc.).
type BlockedTime struct {
	BaseModel
	DoctorID  string    `gorm:"size:36;index:idx_blocked_doctor_date" json:"doctorId"`
	Date      time.Time `gorm:"type:date;index:idx_blocked_doctor_date" json:"date"`
	StartTime string    `gorm:"size:5;not null" json:"startTime"`
	EndTime   string    `gorm:"size:5;not null" json:"endTime"`
	Reason    string    `gorm:"size:255" json:"reason"`

	Doctor User `gorm:"foreignKey:DoctorID" json:"-"`
}
