package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "SCHEDULED"
	StatusConfirmed  AppointmentStatus = "CONFIRMED"
	StatusInProgress AppointmentStatus = "IN_PROGRESS"
	StatusCompleted  AppointmentStatus = "COMPLETED"
	StatusCancelled  AppointmentStatus = "CANCELLED"
	StatusNoShow     AppointmentStatus = "NO_SHOW"
)

// statusTransitions holds the forward lifecycle. CANCELLED and NO_SHOW are
// reachable from any non-terminal state and handled in CanTransition.
var statusTransitions = map[AppointmentStatus]AppointmentStatus{
	StatusScheduled:  StatusConfirmed,
	StatusConfirmed:  StatusInProgress,
	StatusInProgress: StatusCompleted,
}

// IsTerminal reports whether no further status change is allowed.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// CanTransition reports whether the status may move from s to next.
func (s AppointmentStatus) CanTransition(next AppointmentStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StatusCancelled || next == StatusNoShow {
		return true
	}
	return statusTransitions[s] == next
}

// AppointmentType classifies the visit.
type AppointmentType string

const (
	TypeConsultation AppointmentType = "CONSULTATION"
	TypeCleaning     AppointmentType = "CLEANING"
	TypeTreatment    AppointmentType = "TREATMENT"
	TypeEmergency    AppointmentType = "EMERGENCY"
	TypeFollowUp     AppointmentType = "FOLLOW_UP"
)

// Appointment represents a scheduled visit. Appointments are never
// hard-deleted; cancellation is a status change.
type Appointment struct {
	BaseModel
	PatientID              string            `gorm:"size:36;index" json:"patientId"`
	DoctorID               string            `gorm:"size:36;index:idx_doctor_date" json:"doctorId"`
	Date                   time.Time         `gorm:"type:date;index:idx_doctor_date" json:"date"`
	StartTime              string            `gorm:"size:5;not null" json:"startTime"` // "HH:MM"
	EndTime                string            `gorm:"size:5;not null" json:"endTime"`   // derived from start + duration
	DurationMinutes        int               `gorm:"not null" json:"durationMinutes"`
	Type                   AppointmentType   `gorm:"size:20;default:'CONSULTATION'" json:"type"`
	Status                 AppointmentStatus `gorm:"size:20;default:'SCHEDULED'" json:"status"`
	Reason                 string            `gorm:"size:255" json:"reason"`
	Notes                  string            `gorm:"type:text" json:"notes,omitempty"`
	Color                  string            `gorm:"size:7" json:"color,omitempty"`
	RecurringAppointmentID *string           `gorm:"size:36;index" json:"recurringAppointmentId,omitempty"`

	// Relations
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient"`
	Doctor  User    `gorm:"foreignKey:DoctorID" json:"doctor"`
}

// RecurrenceFrequency enumerates the supported repetition rules.
type RecurrenceFrequency string

const (
	FrequencyDaily    RecurrenceFrequency = "DAILY"
	FrequencyWeekly   RecurrenceFrequency = "WEEKLY"
	FrequencyBiweekly RecurrenceFrequency = "BIWEEKLY"
	FrequencyMonthly  RecurrenceFrequency = "MONTHLY"
)

// RecurringAppointment is a pattern that expands into concrete Appointment
// rows at creation time. The pattern row persists for reference; the
// generated appointments are independent thereafter.
type RecurringAppointment struct {
	BaseModel
	PatientID       string              `gorm:"size:36;index" json:"patientId"`
	DoctorID        string              `gorm:"size:36;index" json:"doctorId"`
	Frequency       RecurrenceFrequency `gorm:"size:10;not null" json:"frequency"`
	DaysOfWeek      string              `gorm:"size:20" json:"daysOfWeek,omitempty"` // comma-separated 0-6, Sunday=0
	StartDate       time.Time           `gorm:"type:date;not null" json:"startDate"`
	EndDate         *time.Time          `gorm:"type:date" json:"endDate,omitempty"`
	Occurrences     int                 `json:"occurrences,omitempty"`
	StartTime       string              `gorm:"size:5;not null" json:"startTime"`
	DurationMinutes int                 `gorm:"not null" json:"durationMinutes"`
	Type            AppointmentType     `gorm:"size:20;default:'CONSULTATION'" json:"type"`
	Reason          string              `gorm:"size:255" json:"reason"`

	// Relations
	Appointments []Appointment `gorm:"foreignKey:RecurringAppointmentID" json:"-"`
}
