package handlers

import (
	"strconv"

	"dental-clinic-server/internal/models"
	"dental-clinic-server/internal/services"
	"dental-clinic-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OdontogramHandler handles the versioned dental chart.
type OdontogramHandler struct {
	DB      *gorm.DB
	Service *services.OdontogramService
}

// NewOdontogramHandler creates a new OdontogramHandler.
func NewOdontogramHandler(db *gorm.DB) *OdontogramHandler {
	return &OdontogramHandler{DB: db, Service: services.NewOdontogramService(db)}
}

func (h *OdontogramHandler) patientExists(c *gin.Context, patientID string) bool {
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

// GetCurrentOdontogram returns the patient's current chart version. The
// first request for a patient seeds version 1 with the 32 permanent teeth.
func (h *OdontogramHandler) GetCurrentOdontogram(c *gin.Context) {
	patientID := c.Param("patientId")
	if !h.patientExists(c, patientID) {
		return
	}

	odontogram, err := h.Service.Current(c.Request.Context(), patientID)
	if err == gorm.ErrRecordNotFound {
		odontogram, err = h.Service.Initial(c.Request.Context(), patientID)
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch odontogram: "+err.Error())
		return
	}

	utils.Success(c, "Odontogram fetched successfully", odontogram)
}

// UpdateOdontogramRequest represents the request body for a chart update.
type UpdateOdontogramRequest struct {
	Teeth []services.ToothUpdate `json:"teeth" binding:"required,min=1,dive"`
	Notes string                 `json:"notes"`
}

// UpdateOdontogram applies tooth changes as a new immutable version.
func (h *OdontogramHandler) UpdateOdontogram(c *gin.Context) {
	patientID := c.Param("patientId")

	var req UpdateOdontogramRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if !h.patientExists(c, patientID) {
		return
	}

	// Seed the first version if the patient has no chart yet.
	if _, err := h.Service.Current(c.Request.Context(), patientID); err == gorm.ErrRecordNotFound {
		if _, err := h.Service.Initial(c.Request.Context(), patientID); err != nil {
			utils.InternalServerError(c, "Failed to initialize odontogram: "+err.Error())
			return
		}
	}

	odontogram, err := h.Service.Update(c.Request.Context(), patientID, req.Teeth, req.Notes)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Created(c, "Odontogram updated successfully", odontogram)
}

// GetOdontogramHistory lists all chart versions for a patient, newest first.
func (h *OdontogramHandler) GetOdontogramHistory(c *gin.Context) {
	patientID := c.Param("patientId")
	if !h.patientExists(c, patientID) {
		return
	}

	versions, err := h.Service.History(c.Request.Context(), patientID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch odontogram history: "+err.Error())
		return
	}

	utils.Success(c, "Odontogram history fetched successfully", versions)
}

// GetOdontogramVersion returns one specific chart version with its teeth.
func (h *OdontogramHandler) GetOdontogramVersion(c *gin.Context) {
	patientID := c.Param("patientId")
	version, err := strconv.Atoi(c.Param("version"))
	if err != nil || version < 1 {
		utils.BadRequest(c, "Invalid version number")
		return
	}
	if !h.patientExists(c, patientID) {
		return
	}

	odontogram, err := h.Service.Version(c.Request.Context(), patientID, version)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Odontogram version not found")
		} else {
			utils.InternalServerError(c, "Failed to fetch odontogram version: "+err.Error())
		}
		return
	}

	utils.Success(c, "Odontogram version fetched successfully", odontogram)
}
