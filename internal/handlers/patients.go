package handlers

import (
	"time"

	"dental-clinic-server/internal/models"
	"dental-clinic-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PatientHandler handles patient record requests.
type PatientHandler struct {
	DB *gorm.DB
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(db *gorm.DB) *PatientHandler {
	return &PatientHandler{DB: db}
}

// CreatePatientRequest represents the request body for registering a patient.
type CreatePatientRequest struct {
	FirstName      string `json:"firstName" binding:"required"`
	LastName       string `json:"lastName" binding:"required"`
	Identification string `json:"identification" binding:"required"`
	Email          string `json:"email" binding:"omitempty,email"`
	PhoneNumber    string `json:"phoneNumber"`
	DateOfBirth    string `json:"dateOfBirth"` // "2006-01-02"
	Sex            string `json:"sex" binding:"omitempty,oneof=MALE FEMALE OTHER"`
	Address        string `json:"address"`
	Occupation     string `json:"occupation"`
	Allergies      string `json:"allergies"`
	EmergencyName  string `json:"emergencyName"`
	EmergencyPhone string `json:"emergencyPhone"`
}

// CreatePatient handles registering a new patient.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req CreatePatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	// Identification must be unique among non-deleted patients
	var existing models.Patient
	if err := h.DB.Where("identification = ?", req.Identification).First(&existing).Error; err == nil {
		utils.Conflict(c, "Patient with this identification already exists")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	patient := models.Patient{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Identification: req.Identification,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Sex:            req.Sex,
		Address:        req.Address,
		Occupation:     req.Occupation,
		Allergies:      req.Allergies,
		EmergencyName:  req.EmergencyName,
		EmergencyPhone: req.EmergencyPhone,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			utils.BadRequest(c, "Invalid dateOfBirth: expected YYYY-MM-DD")
			return
		}
		patient.DateOfBirth = &dob
	}

	if err := h.DB.Create(&patient).Error; err != nil {
		utils.InternalServerError(c, "Failed to create patient: "+err.Error())
		return
	}

	utils.Created(c, "Patient created successfully", patient)
}

// GetPatients handles listing patients, optionally filtered by a search
// term matched against name, identification, email and phone.
func (h *PatientHandler) GetPatients(c *gin.Context) {
	var patients []models.Patient
	query := h.DB.Order("last_name asc, first_name asc")

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"first_name LIKE ? OR last_name LIKE ? OR identification LIKE ? OR email LIKE ? OR phone_number LIKE ?",
			like, like, like, like, like)
	}

	if err := query.Find(&patients).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch patients: "+err.Error())
		return
	}

	utils.Success(c, "Patients fetched successfully", patients)
}

// GetPatientByID handles fetching a single patient.
func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	patientID := c.Param("id")

	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", patientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "Patient fetched successfully", patient)
}

// UpdatePatientRequest represents the request body for updating a patient.
type UpdatePatientRequest struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email" binding:"omitempty,email"`
	PhoneNumber    string `json:"phoneNumber"`
	DateOfBirth    string `json:"dateOfBirth"`
	Sex            string `json:"sex"`
	Address        string `json:"address"`
	Occupation     string `json:"occupation"`
	Allergies      string `json:"allergies"`
	EmergencyName  string `json:"emergencyName"`
	EmergencyPhone string `json:"emergencyPhone"`
}

// UpdatePatient handles updating a patient's demographics.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	patientID := c.Param("id")

	var req UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.UnprocessableEntity(c, "Invalid request payload", utils.FieldErrors(err))
		return
	}

	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", patientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if req.FirstName != "" {
		patient.FirstName = req.FirstName
	}
	if req.LastName != "" {
		patient.LastName = req.LastName
	}
	if req.Email != "" {
		patient.Email = req.Email
	}
	if req.PhoneNumber != "" {
		patient.PhoneNumber = req.PhoneNumber
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			utils.BadRequest(c, "Invalid dateOfBirth: expected YYYY-MM-DD")
			return
		}
		patient.DateOfBirth = &dob
	}
	if req.Sex != "" {
		patient.Sex = req.Sex
	}
	if req.Address != "" {
		patient.Address = req.Address
	}
	if req.Occupation != "" {
		patient.Occupation = req.Occupation
	}
	if req.Allergies != "" {
		patient.Allergies = req.Allergies
	}
	if req.EmergencyName != "" {
		patient.EmergencyName = req.EmergencyName
	}
	if req.EmergencyPhone != "" {
		patient.EmergencyPhone = req.EmergencyPhone
	}

	if err := h.DB.Save(&patient).Error; err != nil {
		utils.InternalServerError(c, "Failed to update patient: "+err.Error())
		return
	}

	utils.Success(c, "Patient updated successfully", patient)
}

// DeletePatient soft-deletes a patient. Clinical and accounting history
// remains in place.
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	patientID := c.Param("id")

	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", patientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if err := h.DB.Delete(&patient).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete patient: "+err.Error())
		return
	}

	utils.Success(c, "Patient deleted successfully", nil)
}

// GetPatientBalance returns the patient's account balance:
// sum(charges) - sum(payments), in cents.
func (h *PatientHandler) GetPatientBalance(c *gin.Context) {
	patientID := c.Param("id")

	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", patientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	type sums struct {
		Charges  int64
		Payments int64
	}
	var s sums
	err := h.DB.Model(&models.Transaction{}).
		Select("COALESCE(SUM(CASE WHEN kind = ? THEN amount_cents ELSE 0 END), 0) AS charges,"+
			" COALESCE(SUM(CASE WHEN kind = ? THEN amount_cents ELSE 0 END), 0) AS payments",
			models.TransactionCharge, models.TransactionPayment).
		Where("patient_id = ?", patientID).
		Scan(&s).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to compute balance: "+err.Error())
		return
	}

	utils.Success(c, "Balance computed successfully", gin.H{
		"patientId":     patientID,
		"chargesCents":  s.Charges,
		"paymentsCents": s.Payments,
		"balanceCents":  s.Charges - s.Payments,
	})
}
