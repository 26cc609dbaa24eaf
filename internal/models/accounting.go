package models

import (
	"time"
)

// TransactionKind distinguishes charges to a patient from payments received.
type TransactionKind string

const (
	TransactionCharge  TransactionKind = "CHARGE"
	TransactionPayment TransactionKind = "PAYMENT"
)

// PaymentMethod enumerates how a payment was made.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "CASH"
	MethodCard     PaymentMethod = "CARD"
	MethodTransfer PaymentMethod = "TRANSFER"
	MethodOther    PaymentMethod = "OTHER"
)

// Transaction is one accounting entry on a patient's account. Amounts are
// stored in cents. A patient's balance is sum(charges) - sum(payments).
type Transaction struct {
	SoftDeleteModel
	PatientID   string          `gorm:"size:36;index" json:"patientId"`
	TreatmentID *string         `gorm:"size:36;index" json:"treatmentId,omitempty"`
	Kind        TransactionKind `gorm:"size:10;not null" json:"kind"`
	Concept     string          `gorm:"size:255;not null" json:"concept"`
	AmountCents int64           `gorm:"not null" json:"amountCents"`
	Method      PaymentMethod   `gorm:"size:10" json:"method,omitempty"`
	Date        time.Time       `gorm:"type:date;not null" json:"date"`

	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
}

// PaymentPlanStatus represents the lifecycle of a payment plan.
type PaymentPlanStatus string

const (
	PlanActive    PaymentPlanStatus = "ACTIVE"
	PlanCompleted PaymentPlanStatus = "COMPLETED"
	PlanCancelled PaymentPlanStatus = "CANCELLED"
)

// InstallmentFrequency sets the spacing between installment due dates.
type InstallmentFrequency string

const (
	InstallmentWeekly   InstallmentFrequency = "WEEKLY"
	InstallmentBiweekly InstallmentFrequency = "BIWEEKLY"
	InstallmentMonthly  InstallmentFrequency = "MONTHLY"
)

// DueDayOffset returns the day spacing between consecutive due dates.
func (f InstallmentFrequency) DueDayOffset() int {
	switch f {
	case InstallmentWeekly:
		return 7
	case InstallmentBiweekly:
		return 14
	default:
		return 30
	}
}

// PaymentPlan splits a total amount into N scheduled installments.
type PaymentPlan struct {
	BaseModel
	PatientID        string               `gorm:"size:36;index" json:"patientId"`
	TreatmentPlanID  *string              `gorm:"size:36;index" json:"treatmentPlanId,omitempty"`
	Description      string               `gorm:"size:255" json:"description,omitempty"`
	TotalCents       int64                `gorm:"not null" json:"totalCents"`
	InstallmentCount int                  `gorm:"not null" json:"installmentCount"`
	Frequency        InstallmentFrequency `gorm:"size:10;not null" json:"frequency"`
	Status           PaymentPlanStatus    `gorm:"size:10;default:'ACTIVE'" json:"status"`

	Patient      Patient       `gorm:"foreignKey:PatientID" json:"-"`
	Installments []Installment `gorm:"foreignKey:PaymentPlanID" json:"installments,omitempty"`
}

// InstallmentStatus represents the status of one installment.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "PENDING"
	InstallmentPaid    InstallmentStatus = "PAID"
	InstallmentOverdue InstallmentStatus = "OVERDUE"
)

// Installment is one scheduled partial payment of a PaymentPlan.
type Installment struct {
	BaseModel
	PaymentPlanID string            `gorm:"size:36;index" json:"paymentPlanId"`
	Sequence      int               `gorm:"not null" json:"sequence"`
	AmountCents   int64             `gorm:"not null" json:"amountCents"`
	DueDate       time.Time         `gorm:"type:date;not null" json:"dueDate"`
	Status        InstallmentStatus `gorm:"size:10;default:'PENDING'" json:"status"`
	PaidAt        *time.Time        `json:"paidAt,omitempty"`
	Method        PaymentMethod     `gorm:"size:10" json:"method,omitempty"`
}

// Expense is a clinic outgoing (supplies, rent, lab fees). Soft-deleted so
// monthly summaries stay auditable.
type Expense struct {
	SoftDeleteModel
	Date        time.Time `gorm:"type:date;not null;index" json:"date"`
	Category    string    `gorm:"size:50;not null" json:"category"`
	Description string    `gorm:"size:255" json:"description,omitempty"`
	AmountCents int64     `gorm:"not null" json:"amountCents"`
}
