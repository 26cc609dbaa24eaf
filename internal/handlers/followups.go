package handlers

import (
	"time"

	"dental-clinic-server/internal/middleware"
	"dental-clinic-server/internal/models"
	"dental-clinic-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// FollowUpHandler handles follow-up reminders and patient notes.
type FollowUpHandler struct {
	DB *gorm.DB
}

// NewFollowUpHandler creates a new FollowUpHandler.
func NewFollowUpHandler(db *gorm.DB) *FollowUpHandler {
	return &FollowUpHandler{DB: db}
}

// CreateFollowUpRequest represents the request body for a follow-up.
type CreateFollowUpRequest struct {
	PatientID     string `json:"patientId" binding:"required,uuid"`
	AppointmentID string `json:"appointmentId" binding:"omitempty,uuid"`
	TreatmentID   string `json:"treatmentId" binding:"omitempty,uuid"`
	DueDate       string `json:"dueDate" binding:"required"`
	Description   string `json:"description" binding:"required"`
}

// CreateFollowUp schedules a reminder to contact a patient.
func (h *FollowUpHandler) CreateFollowUp(c *gin.Context) {
	var req CreateFollowUpRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	due, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		utils.BadRequest(c, "Invalid dueDate: expected YYYY-MM-DD")
		return
	}
	if utils.DateOnly(due).Before(utils.DateOnly(time.Now())) {
		utils.BadRequest(c, "dueDate must not be in the past")
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

	followUp := models.FollowUp{
		PatientID:   req.PatientID,
		DueDate:     utils.DateOnly(due),
		Description: req.Description,
		Status:      models.FollowUpPending,
	}
	if req.AppointmentID != "" {
		followUp.AppointmentID = &req.AppointmentID
	}
	if req.TreatmentID != "" {
		followUp.TreatmentID = &req.TreatmentID
	}

	if err := h.DB.Create(&followUp).Error; err != nil {
		utils.InternalServerError(c, "Failed to create follow-up: "+err.Error())
		return
	}

	utils.Created(c, "Follow-up created successfully", followUp)
}

// GetFollowUps lists follow-ups, optionally filtered by patient, status or
// due date upper bound.
func (h *FollowUpHandler) GetFollowUps(c *gin.Context) {
	query := h.DB.Order("due_date asc")

	if patientID := c.Query("patientId"); patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if dueBefore := c.Query("dueBefore"); dueBefore != "" {
		date, err := time.Parse("2006-01-02", dueBefore)
		if err != nil {
			utils.BadRequest(c, "Invalid dueBefore: expected YYYY-MM-DD")
			return
		}
		query = query.Where("due_date <= ?", utils.DateOnly(date))
	}

	var followUps []models.FollowUp
	if err := query.Find(&followUps).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch follow-ups: "+err.Error())
		return
	}

	utils.Success(c, "Follow-ups fetched successfully", followUps)
}

// UpdateFollowUpStatusRequest represents the request body for closing or
// cancelling a follow-up.
type UpdateFollowUpStatusRequest struct {
	Status models.FollowUpStatus `json:"status" binding:"required,oneof=PENDING DONE CANCELLED"`
}

// UpdateFollowUpStatus marks a follow-up done or cancelled.
func (h *FollowUpHandler) UpdateFollowUpStatus(c *gin.Context) {
	followUpID := c.Param("id")

	var req UpdateFollowUpStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var followUp models.FollowUp
	if err := h.DB.First(&followUp, "id = ?", followUpID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Follow-up not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	followUp.Status = req.Status
	if req.Status == models.FollowUpDone {
		now := time.Now()
		followUp.CompletedAt = &now
	}

	if err := h.DB.Save(&followUp).Error; err != nil {
		utils.InternalServerError(c, "Failed to update follow-up: "+err.Error())
		return
	}

	utils.Success(c, "Follow-up updated successfully", followUp)
}

// CreateNoteRequest represents the request body for a patient note.
type CreateNoteRequest struct {
	PatientID string `json:"patientId" binding:"required,uuid"`
	Content   string `json:"content" binding:"required"`
}

// CreateNote adds a free-form annotation to a patient's record. The author
// is taken from the token.
func (h *FollowUpHandler) CreateNote(c *gin.Context) {
	var req CreateNoteRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	authorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
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

	note := models.Note{
		PatientID: req.PatientID,
		AuthorID:  authorID,
		Content:   req.Content,
	}
	if err := h.DB.Create(&note).Error; err != nil {
		utils.InternalServerError(c, "Failed to create note: "+err.Error())
		return
	}

	utils.Created(c, "Note created successfully", note)
}

// GetNotes lists a patient's notes, newest first.
func (h *FollowUpHandler) GetNotes(c *gin.Context) {
	patientID := c.Param("patientId")

	var notes []models.Note
	if err := h.DB.Preload("Author").Where("patient_id = ?", patientID).
		Order("created_at desc").Find(&notes).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch notes: "+err.Error())
		return
	}

	utils.Success(c, "Notes fetched successfully", notes)
}
