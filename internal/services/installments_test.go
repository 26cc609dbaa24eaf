package services

import (
	"context"
	"testing"
	"time"

	"dental-clinic-server/internal/models"
	"dental-clinic-server/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitAmount(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		n     int
		want  []int64
	}{
		{"remainder on last", 10000, 3, []int64{3333, 3333, 3334}},
		{"even split", 50000, 5, []int64{10000, 10000, 10000, 10000, 10000}},
		{"single installment", 7500, 1, []int64{7500}},
		{"one cent short of even", 9999, 2, []int64{4999, 5000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitAmount(tt.total, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			var sum int64
			for _, a := range got {
				sum += a
			}
			assert.Equal(t, tt.total, sum)
		})
	}
}

func TestSplitAmountRejectsInvalid(t *testing.T) {
	_, err := SplitAmount(10000, 0)
	assert.Error(t, err)
	_, err = SplitAmount(0, 3)
	assert.Error(t, err)
}

func TestCreatePlanDueDates(t *testing.T) {
	db := newTestDB(t)
	patient := createPatient(t, db)
	firstDue := utils.DateOnly(time.Now().AddDate(0, 0, 7))

	svc := NewInstallmentService(db)
	plan, err := svc.CreatePlan(context.Background(), &models.PaymentPlan{
		PatientID:        patient.ID,
		Description:      "orthodontics",
		TotalCents:       120000,
		InstallmentCount: 3,
		Frequency:        models.InstallmentBiweekly,
	}, firstDue)
	require.NoError(t, err)
	assert.Equal(t, models.PlanActive, plan.Status)
	require.Len(t, plan.Installments, 3)

	for i, inst := range plan.Installments {
		assert.Equal(t, i+1, inst.Sequence)
		assert.Equal(t, int64(40000), inst.AmountCents)
		assert.Equal(t, firstDue.AddDate(0, 0, i*14), inst.DueDate)
		assert.Equal(t, models.InstallmentPending, inst.Status)
	}
}

func TestPayInstallmentRecordsTransactionAndCompletesPlan(t *testing.T) {
	db := newTestDB(t)
	patient := createPatient(t, db)
	firstDue := utils.DateOnly(time.Now().AddDate(0, 0, 7))

	svc := NewInstallmentService(db)
	plan, err := svc.CreatePlan(context.Background(), &models.PaymentPlan{
		PatientID:        patient.ID,
		Description:      "implant",
		TotalCents:       10000,
		InstallmentCount: 2,
		Frequency:        models.InstallmentWeekly,
	}, firstDue)
	require.NoError(t, err)

	paid, err := svc.PayInstallment(context.Background(), plan.Installments[0].ID, models.MethodCash)
	require.NoError(t, err)
	assert.Equal(t, models.InstallmentPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	var payment models.Transaction
	require.NoError(t, db.First(&payment, "patient_id = ?", patient.ID).Error)
	assert.Equal(t, models.TransactionPayment, payment.Kind)
	assert.Equal(t, int64(5000), payment.AmountCents)
	assert.Equal(t, "Installment 1/2", payment.Concept)

	// Plan still active with one pending installment
	var stored models.PaymentPlan
	require.NoError(t, db.First(&stored, "id = ?", plan.ID).Error)
	assert.Equal(t, models.PlanActive, stored.Status)

	_, err = svc.PayInstallment(context.Background(), plan.Installments[1].ID, models.MethodCard)
	require.NoError(t, err)

	require.NoError(t, db.First(&stored, "id = ?", plan.ID).Error)
	assert.Equal(t, models.PlanCompleted, stored.Status)
}

func TestPayInstallmentRejectsDoublePay(t *testing.T) {
	db := newTestDB(t)
	patient := createPatient(t, db)

	svc := NewInstallmentService(db)
	plan, err := svc.CreatePlan(context.Background(), &models.PaymentPlan{
		PatientID:        patient.ID,
		Description:      "cleaning",
		TotalCents:       5000,
		InstallmentCount: 1,
		Frequency:        models.InstallmentMonthly,
	}, utils.DateOnly(time.Now().AddDate(0, 0, 30)))
	require.NoError(t, err)

	_, err = svc.PayInstallment(context.Background(), plan.Installments[0].ID, models.MethodCash)
	require.NoError(t, err)

	_, err = svc.PayInstallment(context.Background(), plan.Installments[0].ID, models.MethodCash)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already paid")
}

func TestMarkOverdue(t *testing.T) {
	db := newTestDB(t)
	patient := createPatient(t, db)

	svc := NewInstallmentService(db)
	plan, err := svc.CreatePlan(context.Background(), &models.PaymentPlan{
		PatientID:        patient.ID,
		Description:      "crown",
		TotalCents:       30000,
		InstallmentCount: 2,
		Frequency:        models.InstallmentWeekly,
	}, utils.DateOnly(time.Now().AddDate(0, 0, -10)))
	require.NoError(t, err)

	require.NoError(t, svc.MarkOverdue(context.Background(), plan.ID))

	var installments []models.Installment
	require.NoError(t, db.Where("payment_plan_id = ?", plan.ID).Order("sequence").Find(&installments).Error)
	require.Len(t, installments, 2)
	// First due 10 days ago, second 3 days ago: both overdue
	assert.Equal(t, models.InstallmentOverdue, installments[0].Status)
	assert.Equal(t, models.InstallmentOverdue, installments[1].Status)
}
