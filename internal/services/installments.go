package services

import (
	"context"
	"fmt"
	"time"

	"dental-clinic-server/internal/models"
	"dental-clinic-server/internal/utils"

	"gorm.io/gorm"
)

// SplitAmount divides totalCents into n installment amounts of
// floor(total/n) each, with the rounding remainder added to the last so the
// parts always sum to the total exactly.
func SplitAmount(totalCents int64, n int) ([]int64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("installment count must be positive, got %d", n)
	}
	if totalCents <= 0 {
		return nil, fmt.Errorf("total must be positive, got %d", totalCents)
	}
	base := totalCents / int64(n)
	amounts := make([]int64, n)
	for i := range amounts {
		amounts[i] = base
	}
	amounts[n-1] += totalCents - base*int64(n)
	return amounts, nil
}

// InstallmentService creates payment plans and records installment
// payments.
type InstallmentService struct {
	DB *gorm.DB
}

// NewInstallmentService creates a new InstallmentService.
func NewInstallmentService(db *gorm.DB) *InstallmentService {
	return &InstallmentService{DB: db}
}

// CreatePlan persists a payment plan and its generated installments in one
// transaction. Due dates start at firstDue and advance by the frequency's
// day offset (7/14/30).
func (s *InstallmentService) CreatePlan(ctx context.Context, plan *models.PaymentPlan, firstDue time.Time) (*models.PaymentPlan, error) {
	amounts, err := SplitAmount(plan.TotalCents, plan.InstallmentCount)
	if err != nil {
		return nil, err
	}

	offset := plan.Frequency.DueDayOffset()
	due := utils.DateOnly(firstDue)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan.Status = models.PlanActive
		if err := tx.Create(plan).Error; err != nil {
			return err
		}
		installments := make([]models.Installment, 0, len(amounts))
		for i, amount := range amounts {
			installments = append(installments, models.Installment{
				PaymentPlanID: plan.ID,
				Sequence:      i + 1,
				AmountCents:   amount,
				DueDate:       due.AddDate(0, 0, i*offset),
				Status:        models.InstallmentPending,
			})
		}
		if err := tx.Create(&installments).Error; err != nil {
			return err
		}
		plan.Installments = installments
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// PayInstallment marks an installment paid, records the matching payment
// transaction on the patient's account, and completes the plan when it was
// the last pending one.
func (s *InstallmentService) PayInstallment(ctx context.Context, installmentID string, method models.PaymentMethod) (*models.Installment, error) {
	var installment models.Installment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&installment, "id = ?", installmentID).Error; err != nil {
			return err
		}
		if installment.Status == models.InstallmentPaid {
			return fmt.Errorf("installment %d is already paid", installment.Sequence)
		}

		var plan models.PaymentPlan
		if err := tx.First(&plan, "id = ?", installment.PaymentPlanID).Error; err != nil {
			return err
		}
		if plan.Status == models.PlanCancelled {
			return fmt.Errorf("payment plan is cancelled")
		}

		now := time.Now()
		installment.Status = models.InstallmentPaid
		installment.PaidAt = &now
		installment.Method = method
		if err := tx.Save(&installment).Error; err != nil {
			return err
		}

		payment := models.Transaction{
			PatientID:   plan.PatientID,
			Kind:        models.TransactionPayment,
			Concept:     fmt.Sprintf("Installment %d/%d", installment.Sequence, plan.InstallmentCount),
			AmountCents: installment.AmountCents,
			Method:      method,
			Date:        utils.DateOnly(now),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		var pending int64
		if err := tx.Model(&models.Installment{}).
			Where("payment_plan_id = ? AND status <> ?", plan.ID, models.InstallmentPaid).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending == 0 {
			return tx.Model(&plan).Update("status", models.PlanCompleted).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &installment, nil
}

// MarkOverdue flags pending installments whose due date has passed.
// Invoked lazily when plans are listed.
func (s *InstallmentService) MarkOverdue(ctx context.Context, planID string) error {
	return s.DB.WithContext(ctx).Model(&models.Installment{}).
		Where("payment_plan_id = ? AND status = ? AND due_date < ?",
			planID, models.InstallmentPending, utils.DateOnly(time.Now())).
		Update("status", models.InstallmentOverdue).Error
}
