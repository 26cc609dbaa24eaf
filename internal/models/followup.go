package models

import (
	"time"
)

// FollowUpStatus represents the status of a follow-up task.
type FollowUpStatus string

const (
	FollowUpPending   FollowUpStatus = "PENDING"
	FollowUpDone      FollowUpStatus = "DONE"
	FollowUpCancelled FollowUpStatus = "CANCELLED"
)

// FollowUp is a reminder to contact a patient after a visit or treatment.
type FollowUp struct {
	BaseModel
	PatientID     string         `gorm:"size:36;index" json:"patientId"`
	AppointmentID *string        `gorm:"size:36;index" json:"appointmentId,omitempty"`
	TreatmentID   *string        `gorm:"size:36;index" json:"treatmentId,omitempty"`
	DueDate       time.Time      `gorm:"type:date;not null" json:"dueDate"`
	Description   string         `gorm:"size:255;not null" json:"description"`
	Status        FollowUpStatus `gorm:"size:20;default:'PENDING'" json:"status"`
	CompletedAt   *time.Time     `json:"completedAt,omitempty"`

	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
}

// Note is a free-form annotation on a patient's record.
type Note struct {
	BaseModel
	PatientID string `gorm:"size:36;index" json:"patientId"`
	AuthorID  string `gorm:"size:36;index" json:"authorId"`
	Content   string `gorm:"type:text;not null" json:"content"`

	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
	Author  User    `gorm:"foreignKey:AuthorID" json:"author"`
}
