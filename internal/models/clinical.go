package models

import (
	"time"
)

// MedicalHistory represents an anamnesis entry recorded for a patient.
type MedicalHistory struct {
	BaseModel
	PatientID       string    `gorm:"size:36;index" json:"patientId"`
	DoctorID        string    `gorm:"size:36;index" json:"doctorId"`
	RecordDate      time.Time `json:"recordDate"`
	Conditions      string    `gorm:"type:text" json:"conditions,omitempty"`
	Medications     string    `gorm:"type:text" json:"medications,omitempty"`
	Surgeries       string    `gorm:"type:text" json:"surgeries,omitempty"`
	FamilyHistory   string    `gorm:"type:text" json:"familyHistory,omitempty"`
	SmokingStatus   string    `gorm:"size:20" json:"smokingStatus,omitempty"`
	PregnancyStatus string    `gorm:"size:20" json:"pregnancyStatus,omitempty"`
	Observations    string    `gorm:"type:text" json:"observations,omitempty"`

	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  User    `gorm:"foreignKey:DoctorID" json:"-"`
}

// Diagnosis represents a clinical finding, optionally tied to a tooth in
// FDI notation.
type Diagnosis struct {
	BaseModel
	PatientID   string    `gorm:"size:36;index" json:"patientId"`
	DoctorID    string    `gorm:"size:36;index" json:"doctorId"`
	ToothNumber *int      `json:"toothNumber,omitempty"` // FDI 11-48 permanent, 51-85 temporary
	Code        string    `gorm:"size:20" json:"code,omitempty"`
	Description string    `gorm:"type:text;not null" json:"description"`
	DiagnosedAt time.Time `json:"diagnosedAt"`

	Patient    Patient     `gorm:"foreignKey:PatientID" json:"-"`
	Doctor     User        `gorm:"foreignKey:DoctorID" json:"-"`
	Treatments []Treatment `gorm:"foreignKey:DiagnosisID" json:"-"`
}

// TreatmentStatus represents the lifecycle of a treatment.
type TreatmentStatus string

const (
	TreatmentPlanned    TreatmentStatus = "PLANNED"
	TreatmentInProgress TreatmentStatus = "IN_PROGRESS"
	TreatmentCompleted  TreatmentStatus = "COMPLETED"
	TreatmentCancelled  TreatmentStatus = "CANCELLED"
)

// Treatment represents a dental procedure performed or planned for a
// patient. Costs are stored in cents.
type Treatment struct {
	BaseModel
	PatientID       string          `gorm:"size:36;index" json:"patientId"`
	DoctorID        string          `gorm:"size:36;index" json:"doctorId"`
	DiagnosisID     *string         `gorm:"size:36;index" json:"diagnosisId,omitempty"`
	TreatmentPlanID *string         `gorm:"size:36;index" json:"treatmentPlanId,omitempty"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	Description     string          `gorm:"type:text" json:"description,omitempty"`
	ToothNumber     *int            `json:"toothNumber,omitempty"`
	CostCents       int64           `gorm:"not null;default:0" json:"costCents"`
	Status          TreatmentStatus `gorm:"size:20;default:'PLANNED'" json:"status"`
	StartedAt       *time.Time      `json:"startedAt,omitempty"`
	CompletedAt     *time.Time      `json:"completedAt,omitempty"`

	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  User    `gorm:"foreignKey:DoctorID" json:"-"`
}

// TreatmentPlan groups treatments proposed to a patient with a total cost.
type TreatmentPlan struct {
	BaseModel
	PatientID   string `gorm:"size:36;index" json:"patientId"`
	DoctorID    string `gorm:"size:36;index" json:"doctorId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Status      string `gorm:"size:20;default:'PROPOSED'" json:"status"` // PROPOSED, ACCEPTED, IN_PROGRESS, COMPLETED

	Patient    Patient     `gorm:"foreignKey:PatientID" json:"-"`
	Doctor     User        `gorm:"foreignKey:DoctorID" json:"-"`
	Treatments []Treatment `gorm:"foreignKey:TreatmentPlanID" json:"treatments,omitempty"`
}

// TotalCostCents sums the cost of the plan's non-cancelled treatments.
func (tp *TreatmentPlan) TotalCostCents() int64 {
	var total int64
	for _, t := range tp.Treatments {
		if t.Status != TreatmentCancelled {
			total += t.CostCents
		}
	}
	return total
}
