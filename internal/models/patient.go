package models

import (
	"time"
)

// Patient represents a patient of the clinic. Patients are soft-deleted:
// deactivating one keeps its clinical and accounting history reachable.
type Patient struct {
	SoftDeleteModel
	FirstName      string     `gorm:"size:100;not null" json:"firstName"`
	LastName       string     `gorm:"size:100;not null" json:"lastName"`
	Identification string     `gorm:"uniqueIndex;size:50;not null" json:"identification"`
	Email          string     `gorm:"size:255;index" json:"email,omitempty"`
	PhoneNumber    string     `gorm:"size:30" json:"phoneNumber,omitempty"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	Sex            string     `gorm:"size:10" json:"sex,omitempty"`
	Address        string     `gorm:"size:255" json:"address,omitempty"`
	Occupation     string     `gorm:"size:100" json:"occupation,omitempty"`
	Allergies      string     `gorm:"type:text" json:"allergies,omitempty"`
	EmergencyName  string     `gorm:"size:100" json:"emergencyName,omitempty"`
	EmergencyPhone string     `gorm:"size:30" json:"emergencyPhone,omitempty"`

	// Relations (not always preloaded)
	Appointments     []Appointment    `gorm:"foreignKey:PatientID" json:"-"`
	MedicalHistories []MedicalHistory `gorm:"foreignKey:PatientID" json:"-"`
	Diagnoses        []Diagnosis      `gorm:"foreignKey:PatientID" json:"-"`
	Treatments       []Treatment      `gorm:"foreignKey:PatientID" json:"-"`
	Odontograms      []Odontogram     `gorm:"foreignKey:PatientID" json:"-"`
	FollowUps        []FollowUp       `gorm:"foreignKey:PatientID" json:"-"`
	Notes            []Note           `gorm:"foreignKey:PatientID" json:"-"`
	Transactions     []Transaction    `gorm:"foreignKey:PatientID" json:"-"`
	PaymentPlans     []PaymentPlan    `gorm:"foreignKey:PatientID" json:"-"`
}

// FullName returns the patient's display name.
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}
