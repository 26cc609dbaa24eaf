package handlers

import (
	"time"

	"dental-clinic-server/internal/middleware"
	"dental-clinic-server/internal/models"
	"dental-clinic-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ClinicalHandler handles medical histories, diagnoses, treatments and
// treatment plans.
type ClinicalHandler struct {
	DB *gorm.DB
}

// NewClinicalHandler creates a new ClinicalHandler.
func NewClinicalHandler(db *gorm.DB) *ClinicalHandler {
	return &ClinicalHandler{DB: db}
}

func (h *ClinicalHandler) patientExists(c *gin.Context, patientID string) bool {
	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", patientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error verifying patient: "+err.Error())
		}
		return false
	}
	return true
}

// CreateMedicalHistoryRequest represents the request body for an anamnesis entry.
type CreateMedicalHistoryRequest struct {
	PatientID       string `json:"patientId" binding:"required,uuid"`
	Conditions      string `json:"conditions"`
	Medications     string `json:"medications"`
	Surgeries       string `json:"surgeries"`
	FamilyHistory   string `json:"familyHistory"`
	SmokingStatus   string `json:"smokingStatus"`
	PregnancyStatus string `json:"pregnancyStatus"`
	Observations    string `json:"observations"`
}

// CreateMedicalHistory records an anamnesis entry. Doctors only; the
// author is taken from the token.
func (h *ClinicalHandler) CreateMedicalHistory(c *gin.Context) {
	var req CreateMedicalHistoryRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Doctor ID not found in token")
		return
	}
	if !h.patientExists(c, req.PatientID) {
		return
	}

	history := models.MedicalHistory{
		PatientID:       req.PatientID,
		DoctorID:        doctorID,
		RecordDate:      time.Now(),
		Conditions:      req.Conditions,
		Medications:     req.Medications,
		Surgeries:       req.Surgeries,
		FamilyHistory:   req.FamilyHistory,
		SmokingStatus:   req.SmokingStatus,
		PregnancyStatus: req.PregnancyStatus,
		Observations:    req.Observations,
	}
	if err := h.DB.Create(&history).Error; err != nil {
		utils.InternalServerError(c, "Failed to create medical history: "+err.Error())
		return
	}

	utils.Created(c, "Medical history created successfully", history)
}

// GetMedicalHistories lists a patient's anamnesis entries, newest first.
func (h *ClinicalHandler) GetMedicalHistories(c *gin.Context) {
	patientID := c.Param("patientId")
	if !h.patientExists(c, patientID) {
		return
	}

	var histories []models.MedicalHistory
	if err := h.DB.Where("patient_id = ?", patientID).
		Order("record_date desc").Find(&histories).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch medical histories: "+err.Error())
		return
	}

	utils.Success(c, "Medical histories fetched successfully", histories)
}

// CreateDiagnosisRequest represents the request body for a diagnosis.
type CreateDiagnosisRequest struct {
	PatientID   string `json:"patientId" binding:"required,uuid"`
	ToothNumber *int   `json:"toothNumber"`
	Code        string `json:"code"`
	Description string `json:"description" binding:"required"`
}

// CreateDiagnosis records a clinical finding, optionally tied to a tooth.
func (h *ClinicalHandler) CreateDiagnosis(c *gin.Context) {
	var req CreateDiagnosisRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Doctor ID not found in token")
		return
	}
	if req.ToothNumber != nil && !models.ValidFDINumber(*req.ToothNumber) {
		utils.BadRequest(c, "Invalid FDI tooth number")
		return
	}
	if !h.patientExists(c, req.PatientID) {
		return
	}

	diagnosis := models.Diagnosis{
		PatientID:   req.PatientID,
		DoctorID:    doctorID,
		ToothNumber: req.ToothNumber,
		Code:        req.Code,
		Description: req.Description,
		DiagnosedAt: time.Now(),
	}
	if err := h.DB.Create(&diagnosis).Error; err != nil {
		utils.InternalServerError(c, "Failed to create diagnosis: "+err.Error())
		return
	}

	utils.Created(c, "Diagnosis created successfully", diagnosis)
}

// GetDiagnoses lists a patient's diagnoses, newest first.
func (h *ClinicalHandler) GetDiagnoses(c *gin.Context) {
	patientID := c.Param("patientId")
	if !h.patientExists(c, patientID) {
		return
	}

	var diagnoses []models.Diagnosis
	if err := h.DB.Where("patient_id = ?", patientID).
		Order("diagnosed_at desc").Find(&diagnoses).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch diagnoses: "+err.Error())
		return
	}

	utils.Success(c, "Diagnoses fetched successfully", diagnoses)
}

// CreateTreatmentRequest represents the request body for a treatment.
type CreateTreatmentRequest struct {
	PatientID       string `json:"patientId" binding:"required,uuid"`
	DiagnosisID     string `json:"diagnosisId" binding:"omitempty,uuid"`
	TreatmentPlanID string `json:"treatmentPlanId" binding:"omitempty,uuid"`
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	ToothNumber     *int   `json:"toothNumber"`
	CostCents       int64  `json:"costCents" binding:"min=0"`
}

// CreateTreatment records a planned or performed procedure. The matching
// charge is posted to the patient's account when the treatment completes.
func (h *ClinicalHandler) CreateTreatment(c *gin.Context) {
	var req CreateTreatmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Doctor ID not found in token")
		return
	}
	if req.ToothNumber != nil && !models.ValidFDINumber(*req.ToothNumber) {
		utils.BadRequest(c, "Invalid FDI tooth number")
		return
	}
	if !h.patientExists(c, req.PatientID) {
		return
	}

	treatment := models.Treatment{
		PatientID:   req.PatientID,
		DoctorID:    doctorID,
		Name:        req.Name,
		Description: req.Description,
		ToothNumber: req.ToothNumber,
		CostCents:   req.CostCents,
		Status:      models.TreatmentPlanned,
	}
	if req.DiagnosisID != "" {
		treatment.DiagnosisID = &req.DiagnosisID
	}
	if req.TreatmentPlanID != "" {
		treatment.TreatmentPlanID = &req.TreatmentPlanID
	}

	if err := h.DB.Create(&treatment).Error; err != nil {
		utils.InternalServerError(c, "Failed to create treatment: "+err.Error())
		return
	}

	utils.Created(c, "Treatment created successfully", treatment)
}

// GetTreatments lists a patient's treatments, newest first.
func (h *ClinicalHandler) GetTreatments(c *gin.Context) {
	patientID := c.Param("patientId")
	if !h.patientExists(c, patientID) {
		return
	}

	var treatments []models.Treatment
	if err := h.DB.Where("patient_id = ?", patientID).
		Order("created_at desc").Find(&treatments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch treatments: "+err.Error())
		return
	}

	utils.Success(c, "Treatments fetched successfully", treatments)
}

// UpdateTreatmentStatusRequest represents the request body for a treatment
// status change.
type UpdateTreatmentStatusRequest struct {
	Status models.TreatmentStatus `json:"status" binding:"required,oneof=PLANNED IN_PROGRESS COMPLETED CANCELLED"`
}

// UpdateTreatmentStatus moves a treatment through its lifecycle. Completing
// a treatment posts a charge transaction for its cost.
func (h *ClinicalHandler) UpdateTreatmentStatus(c *gin.Context) {
	treatmentID := c.Param("id")

	var req UpdateTreatmentStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var treatment models.Treatment
	if err := h.DB.First(&treatment, "id = ?", treatmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Treatment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if treatment.Status == models.TreatmentCompleted || treatment.Status == models.TreatmentCancelled {
		utils.BadRequest(c, "Treatment in status "+string(treatment.Status)+" cannot change status")
		return
	}

	now := time.Now()
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		switch req.Status {
		case models.TreatmentInProgress:
			treatment.StartedAt = &now
		case models.TreatmentCompleted:
			treatment.CompletedAt = &now
			if treatment.CostCents > 0 {
				charge := models.Transaction{
					PatientID:   treatment.PatientID,
					TreatmentID: &treatment.ID,
					Kind:        models.TransactionCharge,
					Concept:     treatment.Name,
					AmountCents: treatment.CostCents,
					Date:        utils.DateOnly(now),
				}
				if err := tx.Create(&charge).Error; err != nil {
					return err
				}
			}
		}
		treatment.Status = req.Status
		return tx.Save(&treatment).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to update treatment status: "+err.Error())
		return
	}

	utils.Success(c, "Treatment status updated successfully", treatment)
}

// CreateTreatmentPlanRequest represents the request body for a treatment plan.
type CreateTreatmentPlanRequest struct {
	PatientID   string `json:"patientId" binding:"required,uuid"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// CreateTreatmentPlan groups treatments proposed to a patient.
func (h *ClinicalHandler) CreateTreatmentPlan(c *gin.Context) {
	var req CreateTreatmentPlanRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Doctor ID not found in token")
		return
	}
	if !h.patientExists(c, req.PatientID) {
		return
	}

	plan := models.TreatmentPlan{
		PatientID:   req.PatientID,
		DoctorID:    doctorID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := h.DB.Create(&plan).Error; err != nil {
		utils.InternalServerError(c, "Failed to create treatment plan: "+err.Error())
		return
	}

	utils.Created(c, "Treatment plan created successfully", plan)
}

// GetTreatmentPlans lists a patient's treatment plans with their
// treatments and total cost.
func (h *ClinicalHandler) GetTreatmentPlans(c *gin.Context) {
	patientID := c.Param("patientId")
	if !h.patientExists(c, patientID) {
		return
	}

	var plans []models.TreatmentPlan
	if err := h.DB.Preload("Treatments").Where("patient_id = ?", patientID).
		Order("created_at desc").Find(&plans).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch treatment plans: "+err.Error())
		return
	}

	type planView struct {
		models.TreatmentPlan
		TotalCostCents int64 `json:"totalCostCents"`
	}
	views := make([]planView, len(plans))
	for i, p := range plans {
		views[i] = planView{TreatmentPlan: p, TotalCostCents: p.TotalCostCents()}
	}

	utils.Success(c, "Treatment plans fetched successfully", views)
}
