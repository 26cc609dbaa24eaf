package handlers

import (
	"time"

	"dental-clinic-server/internal/models"
	"dental-clinic-server/internal/services"
	"dental-clinic-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AccountingHandler handles transactions, payment plans and expenses.
type AccountingHandler struct {
	DB           *gorm.DB
	Installments *services.InstallmentService
}

// NewAccountingHandler creates a new AccountingHandler.
func NewAccountingHandler(db *gorm.DB) *AccountingHandler {
	return &AccountingHandler{DB: db, Installments: services.NewInstallmentService(db)}
}

// CreateTransactionRequest represents the request body for an accounting entry.
type CreateTransactionRequest struct {
	PatientID   string `json:"patientId" binding:"required,uuid"`
	TreatmentID string `json:"treatmentId" binding:"omitempty,uuid"`
	Kind        string `json:"kind" binding:"required,oneof=CHARGE PAYMENT"`
	Concept     string `json:"concept" binding:"required"`
	AmountCents int64  `json:"amountCents" binding:"required"`
	Method      string `json:"method" binding:"omitempty,oneof=CASH CARD TRANSFER OTHER"`
	Date        string `json:"date"`
}

// CreateTransaction records a charge or payment on a patient's account.
func (h *AccountingHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if req.AmountCents <= 0 {
		utils.BadRequest(c, "amountCents must be positive")
		return
	}

	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", req.PatientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error verifying patient: "+err.Error())
		}
		return
	}

	date := utils.DateOnly(time.Now())
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			utils.BadRequest(c, "Invalid date: expected YYYY-MM-DD")
			return
		}
		date = utils.DateOnly(parsed)
	}

	transaction := models.Transaction{
		PatientID:   req.PatientID,
		Kind:        models.TransactionKind(req.Kind),
		Concept:     req.Concept,
		AmountCents: req.AmountCents,
		Method:      models.PaymentMethod(req.Method),
		Date:        date,
	}
	if req.TreatmentID != "" {
		transaction.TreatmentID = &req.TreatmentID
	}

	if err := h.DB.Create(&transaction).Error; err != nil {
		utils.InternalServerError(c, "Failed to create transaction: "+err.Error())
		return
	}

	utils.Created(c, "Transaction created successfully", transaction)
}

// GetTransactions lists transactions, optionally filtered by patient and
// date range.
func (h *AccountingHandler) GetTransactions(c *gin.Context) {
	query := h.DB.Order("date desc, created_at desc")

	if patientID := c.Query("patientId"); patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}
	if from := c.Query("from"); from != "" {
		date, err := time.Parse("2006-01-02", from)
		if err != nil {
			utils.BadRequest(c, "Invalid from date: expected YYYY-MM-DD")
			return
		}
		query = query.Where("date >= ?", utils.DateOnly(date))
	}
	if to := c.Query("to"); to != "" {
		date, err := time.Parse("2006-01-02", to)
		if err != nil {
			utils.BadRequest(c, "Invalid to date: expected YYYY-MM-DD")
			return
		}
		query = query.Where("date <= ?", utils.DateOnly(date))
	}

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch transactions: "+err.Error())
		return
	}

	utils.Success(c, "Transactions fetched successfully", transactions)
}

// DeleteTransaction soft-deletes an accounting entry (admin).
func (h *AccountingHandler) DeleteTransaction(c *gin.Context) {
	transactionID := c.Param("id")

	var transaction models.Transaction
	if err := h.DB.First(&transaction, "id = ?", transactionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Transaction not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if err := h.DB.Delete(&transaction).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete transaction: "+err.Error())
		return
	}

	utils.Success(c, "Transaction deleted successfully", nil)
}

// CreatePaymentPlanRequest represents the request body for a payment plan.
type CreatePaymentPlanRequest struct {
	PatientID        string `json:"patientId" binding:"required,uuid"`
	TreatmentPlanID  string `json:"treatmentPlanId" binding:"omitempty,uuid"`
	Description      string `json:"description"`
	TotalCents       int64  `json:"totalCents" binding:"required"`
	InstallmentCount int    `json:"installmentCount" binding:"required,min=1,max=60"`
	Frequency        string `json:"frequency" binding:"required,oneof=WEEKLY BIWEEKLY MONTHLY"`
	FirstDueDate     string `json:"firstDueDate" binding:"required"`
}

// CreatePaymentPlan splits a total into scheduled installments. The parts
// are floor(total/n) each with the remainder on the last, so they always
// sum to the total.
func (h *AccountingHandler) CreatePaymentPlan(c *gin.Context) {
	var req CreatePaymentPlanRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if req.TotalCents <= 0 {
		utils.BadRequest(c, "totalCents must be positive")
		return
	}
	firstDue, err := time.Parse("2006-01-02", req.FirstDueDate)
	if err != nil {
		utils.BadRequest(c, "Invalid firstDueDate: expected YYYY-MM-DD")
		return
	}
	if utils.DateOnly(firstDue).Before(utils.DateOnly(time.Now())) {
		utils.BadRequest(c, "firstDueDate must not be in the past")
		return
	}

	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", req.PatientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error verifying patient: "+err.Error())
		}
		return
	}

	plan := &models.PaymentPlan{
		PatientID:        req.PatientID,
		Description:      req.Description,
		TotalCents:       req.TotalCents,
		InstallmentCount: req.InstallmentCount,
		Frequency:        models.InstallmentFrequency(req.Frequency),
	}
	if req.TreatmentPlanID != "" {
		plan.TreatmentPlanID = &req.TreatmentPlanID
	}

	created, err := h.Installments.CreatePlan(c.Request.Context(), plan, firstDue)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Created(c, "Payment plan created successfully", created)
}

// GetPaymentPlans lists payment plans with installments, optionally by
// patient. Pending installments past their due date are flagged overdue
// first.
func (h *AccountingHandler) GetPaymentPlans(c *gin.Context) {
	idQuery := h.DB.Model(&models.PaymentPlan{}).Where("status = ?", models.PlanActive)
	if patientID := c.Query("patientId"); patientID != "" {
		idQuery = idQuery.Where("patient_id = ?", patientID)
	}
	var activeIDs []string
	if err := idQuery.Pluck("id", &activeIDs).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch payment plans: "+err.Error())
		return
	}
	for _, id := range activeIDs {
		if err := h.Installments.MarkOverdue(c.Request.Context(), id); err != nil {
			utils.InternalServerError(c, "Failed to flag overdue installments: "+err.Error())
			return
		}
	}

	query := h.DB.Preload("Installments", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence asc")
	}).Order("created_at desc")

	if patientID := c.Query("patientId"); patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}

	var plans []models.PaymentPlan
	if err := query.Find(&plans).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch payment plans: "+err.Error())
		return
	}

	utils.Success(c, "Payment plans fetched successfully", plans)
}

// PayInstallmentRequest represents the request body for paying an installment.
type PayInstallmentRequest struct {
	Method string `json:"method" binding:"required,oneof=CASH CARD TRANSFER OTHER"`
}

// PayInstallment marks an installment paid and posts the payment to the
// patient's account.
func (h *AccountingHandler) PayInstallment(c *gin.Context) {
	installmentID := c.Param("id")

	var req PayInstallmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	installment, err := h.Installments.PayInstallment(c.Request.Context(), installmentID, models.PaymentMethod(req.Method))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Installment not found")
		} else {
			utils.BadRequest(c, err.Error())
		}
		return
	}

	utils.Success(c, "Installment paid successfully", installment)
}

// CreateExpenseRequest represents the request body for a clinic expense.
type CreateExpenseRequest struct {
	Date        string `json:"date" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Description string `json:"description"`
	AmountCents int64  `json:"amountCents" binding:"required"`
}

// CreateExpense records a clinic outgoing.
func (h *AccountingHandler) CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if req.AmountCents <= 0 {
		utils.BadRequest(c, "amountCents must be positive")
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		utils.BadRequest(c, "Invalid date: expected YYYY-MM-DD")
		return
	}

	expense := models.Expense{
		Date:        utils.DateOnly(date),
		Category:    req.Category,
		Description: req.Description,
		AmountCents: req.AmountCents,
	}
	if err := h.DB.Create(&expense).Error; err != nil {
		utils.InternalServerError(c, "Failed to create expense: "+err.Error())
		return
	}

	utils.Created(c, "Expense created successfully", expense)
}

// GetExpenses lists expenses, optionally filtered by month ("2006-01").
func (h *AccountingHandler) GetExpenses(c *gin.Context) {
	query := h.DB.Order("date desc")

	if month := c.Query("month"); month != "" {
		start, err := time.Parse("2006-01", month)
		if err != nil {
			utils.BadRequest(c, "Invalid month: expected YYYY-MM")
			return
		}
		end := start.AddDate(0, 1, 0)
		query = query.Where("date >= ? AND date < ?", start, end)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var expenses []models.Expense
	if err := query.Find(&expenses).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch expenses: "+err.Error())
		return
	}

	utils.Success(c, "Expenses fetched successfully", expenses)
}

// DeleteExpense soft-deletes an expense (admin).
func (h *AccountingHandler) DeleteExpense(c *gin.Context) {
	expenseID := c.Param("id")

	var expense models.Expense
	if err := h.DB.First(&expense, "id = ?", expenseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Expense not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if err := h.DB.Delete(&expense).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete expense: "+err.Error())
		return
	}

	utils.Success(c, "Expense deleted successfully", nil)
}

// GetExpenseSummary aggregates expenses by category for one month.
func (h *AccountingHandler) GetExpenseSummary(c *gin.Context) {
	month := c.Query("month")
	if month == "" {
		utils.BadRequest(c, "month is required (YYYY-MM)")
		return
	}
	start, err := time.Parse("2006-01", month)
	if err != nil {
		utils.BadRequest(c, "Invalid month: expected YYYY-MM")
		return
	}
	end := start.AddDate(0, 1, 0)

	type categoryTotal struct {
		Category   string `json:"category"`
		TotalCents int64  `json:"totalCents"`
	}
	var totals []categoryTotal
	err = h.DB.Model(&models.Expense{}).
		Select("category, SUM(amount_cents) AS total_cents").
		Where("date >= ? AND date < ?", start, end).
		Group("category").
		Order("total_cents desc").
		Scan(&totals).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to compute expense summary: "+err.Error())
		return
	}

	var grand int64
	for _, t := range totals {
		grand += t.TotalCents
	}

	utils.Success(c, "Expense summary computed successfully", gin.H{
		"month":      month,
		"categories": totals,
		"totalCents": grand,
	})
}
