package handlers

import (
	"errors"
	"strconv"
	"time"

	"dental-clinic-server/internal/config"
	"dental-clinic-server/internal/models"
	"dental-clinic-server/internal/services"
	"dental-clinic-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AppointmentHandler handles appointment and scheduling requests.
type AppointmentHandler struct {
	DB           *gorm.DB
	Cfg          *config.Config
	Booking      *services.BookingService
	Availability *services.AvailabilityService
	Recurrence   *services.RecurrenceService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, cfg *config.Config) *AppointmentHandler {
	return &AppointmentHandler{
		DB:           db,
		Cfg:          cfg,
		Booking:      services.NewBookingService(db),
		Availability: services.NewAvailabilityService(db),
		Recurrence:   services.NewRecurrenceService(db),
	}
}

// CreateAppointmentRequest represents the request body for booking an appointment.
type CreateAppointmentRequest struct {
	PatientID       string `json:"patientId" binding:"required,uuid"`
	DoctorID        string `json:"doctorId" binding:"required,uuid"`
	Date            string `json:"date" binding:"required"`      // "2006-01-02"
	StartTime       string `json:"startTime" binding:"required"` // "HH:MM"
	DurationMinutes int    `json:"durationMinutes" binding:"required,min=5,max=480"`
	Type            string `json:"type" binding:"omitempty,oneof=CONSULTATION CLEANING TREATMENT EMERGENCY FOLLOW_UP"`
	Reason          string `json:"reason" binding:"required"`
	Notes           string `json:"notes"`
	Color           string `json:"color"`
}

// CreateAppointment books a new appointment after the availability check
// passes. Check and insert run in one transaction.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		utils.BadRequest(c, "Invalid date: expected YYYY-MM-DD")
		return
	}
	if utils.DateOnly(date).Before(utils.DateOnly(time.Now())) {
		utils.BadRequest(c, "Appointment date must not be in the past")
		return
	}

	if !h.verifyDoctor(c, req.DoctorID) || !h.verifyPatient(c, req.PatientID) {
		return
	}

	appointmentType := models.AppointmentType(req.Type)
	if req.Type == "" {
		appointmentType = models.TypeConsultation
	}

	appointment, err := h.Booking.Book(c.Request.Context(), services.BookingRequest{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		Date:            date,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Type:            appointmentType,
		Reason:          req.Reason,
		Notes:           req.Notes,
		Color:           req.Color,
	})
	if err != nil {
		var unavailable *services.ErrUnavailable
		if errors.As(err, &unavailable) {
			utils.ErrorWithDetails(c, 409, unavailable.Availability.Reason, unavailable.Availability.Conflicts)
			return
		}
		utils.InternalServerError(c, "Failed to create appointment: "+err.Error())
		return
	}

	utils.Created(c, "Appointment created successfully", appointment)
}

// GetAppointments lists appointments filtered by doctor, patient, date
// range and status.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	query := h.DB.Preload("Patient").Preload("Doctor").
		Order("date asc, start_time asc")

	if doctorID := c.Query("doctorId"); doctorID != "" {
		query = query.Where("doctor_id = ?", doctorID)
	}
	if patientID := c.Query("patientId"); patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
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

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID handles fetching a single appointment by its ID.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointmentID := c.Param("id")

	var appointment models.Appointment
	if err := h.DB.Preload("Patient").Preload("Doctor").
		First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Appointment fetched successfully", appointment)
}

// UpdateAppointmentStatusRequest represents the request body for a status change.
type UpdateAppointmentStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required,oneof=SCHEDULED CONFIRMED IN_PROGRESS COMPLETED CANCELLED NO_SHOW"`
	Notes  string                   `json:"notes"` // Optional notes (e.g., cancellation reason)
}

// UpdateAppointmentStatus moves an appointment through its lifecycle.
// SCHEDULED→CONFIRMED→IN_PROGRESS→COMPLETED; CANCELLED and NO_SHOW are
// reachable from any non-terminal state.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	appointmentID := c.Param("id")

	var req UpdateAppointmentStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !appointment.Status.CanTransition(req.Status) {
		utils.BadRequest(c, "Invalid status transition from "+string(appointment.Status)+" to "+string(req.Status))
		return
	}

	appointment.Status = req.Status
	if req.Notes != "" {
		appointment.Notes = req.Notes
	}

	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to update appointment status: "+err.Error())
		return
	}

	utils.Success(c, "Appointment status updated successfully", appointment)
}

// RescheduleAppointmentRequest represents the request body for rescheduling.
type RescheduleAppointmentRequest struct {
	Date            string `json:"date" binding:"required"`
	StartTime       string `json:"startTime" binding:"required"`
	DurationMinutes int    `json:"durationMinutes" binding:"required,min=5,max=480"`
	Notes           string `json:"notes"`
}

// RescheduleAppointment moves an appointment to a new slot. The conflict
// scan excludes the appointment itself.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	appointmentID := c.Param("id")

	var req RescheduleAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		utils.BadRequest(c, "Invalid date: expected YYYY-MM-DD")
		return
	}
	if utils.DateOnly(date).Before(utils.DateOnly(time.Now())) {
		utils.BadRequest(c, "New appointment date must not be in the past")
		return
	}

	appointment, err := h.Booking.Reschedule(c.Request.Context(), appointmentID, date, req.StartTime, req.DurationMinutes)
	if err != nil {
		var unavailable *services.ErrUnavailable
		switch {
		case errors.As(err, &unavailable):
			utils.ErrorWithDetails(c, 409, unavailable.Availability.Reason, unavailable.Availability.Conflicts)
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.NotFound(c, "Appointment not found")
		default:
			utils.BadRequest(c, err.Error())
		}
		return
	}

	if req.Notes != "" {
		appointment.Notes = req.Notes
		if err := h.DB.Save(appointment).Error; err != nil {
			utils.InternalServerError(c, "Failed to save appointment notes: "+err.Error())
			return
		}
	}

	utils.Success(c, "Appointment rescheduled successfully", appointment)
}

// CheckAvailability probes a candidate slot without booking it.
func (h *AppointmentHandler) CheckAvailability(c *gin.Context) {
	doctorID := c.Query("doctorId")
	if doctorID == "" {
		utils.BadRequest(c, "doctorId is required")
		return
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		utils.BadRequest(c, "Invalid date: expected YYYY-MM-DD")
		return
	}
	startMin, err := utils.MinutesFromClock(c.Query("startTime"))
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	duration := h.Cfg.DefaultSlotMinutes
	if d := c.Query("durationMinutes"); d != "" {
		duration, err = strconv.Atoi(d)
		if err != nil || duration <= 0 {
			utils.BadRequest(c, "Invalid durationMinutes")
			return
		}
	}

	availability, err := h.Availability.CheckAvailability(
		c.Request.Context(), doctorID, date, startMin, duration, c.Query("excludeAppointmentId"))
	if err != nil {
		utils.InternalServerError(c, "Failed to check availability: "+err.Error())
		return
	}

	utils.Success(c, "Availability checked successfully", availability)
}

// GetDaySlots returns the slot view of a doctor's working day.
func (h *AppointmentHandler) GetDaySlots(c *gin.Context) {
	doctorID := c.Query("doctorId")
	if doctorID == "" {
		utils.BadRequest(c, "doctorId is required")
		return
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		utils.BadRequest(c, "Invalid date: expected YYYY-MM-DD")
		return
	}
	slotMinutes := h.Cfg.DefaultSlotMinutes
	if d := c.Query("slotMinutes"); d != "" {
		slotMinutes, err = strconv.Atoi(d)
		if err != nil || slotMinutes <= 0 {
			utils.BadRequest(c, "Invalid slotMinutes")
			return
		}
	}

	slots, err := h.Availability.DaySlots(c.Request.Context(), doctorID, date, slotMinutes)
	if err != nil {
		utils.InternalServerError(c, "Failed to compute slots: "+err.Error())
		return
	}

	utils.Success(c, "Slots computed successfully", slots)
}

// CreateRecurringRequest represents the request body for a recurring pattern.
type CreateRecurringRequest struct {
	PatientID       string `json:"patientId" binding:"required,uuid"`
	DoctorID        string `json:"doctorId" binding:"required,uuid"`
	Frequency       string `json:"frequency" binding:"required,oneof=DAILY WEEKLY BIWEEKLY MONTHLY"`
	DaysOfWeek      string `json:"daysOfWeek"` // comma-separated 0-6
	StartDate       string `json:"startDate" binding:"required"`
	EndDate         string `json:"endDate"`
	Occurrences     int    `json:"occurrences" binding:"omitempty,min=1,max=52"`
	StartTime       string `json:"startTime" binding:"required"`
	DurationMinutes int    `json:"durationMinutes" binding:"required,min=5,max=480"`
	Type            string `json:"type" binding:"omitempty,oneof=CONSULTATION CLEANING TREATMENT EMERGENCY FOLLOW_UP"`
	Reason          string `json:"reason" binding:"required"`
}

// CreateRecurringAppointments expands a pattern into concrete appointments.
// Every generated date must pass the availability check or the whole batch
// is rejected.
func (h *AppointmentHandler) CreateRecurringAppointments(c *gin.Context) {
	var req CreateRecurringRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		utils.BadRequest(c, "Invalid startDate: expected YYYY-MM-DD")
		return
	}
	if utils.DateOnly(startDate).Before(utils.DateOnly(time.Now())) {
		utils.BadRequest(c, "startDate must not be in the past")
		return
	}
	if req.EndDate == "" && req.Occurrences == 0 {
		utils.BadRequest(c, "Either endDate or occurrences is required")
		return
	}

	if !h.verifyDoctor(c, req.DoctorID) || !h.verifyPatient(c, req.PatientID) {
		return
	}

	pattern := &models.RecurringAppointment{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		Frequency:       models.RecurrenceFrequency(req.Frequency),
		DaysOfWeek:      req.DaysOfWeek,
		StartDate:       startDate,
		Occurrences:     req.Occurrences,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Reason:          req.Reason,
	}
	if req.Type != "" {
		pattern.Type = models.AppointmentType(req.Type)
	} else {
		pattern.Type = models.TypeConsultation
	}
	if req.EndDate != "" {
		endDate, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			utils.BadRequest(c, "Invalid endDate: expected YYYY-MM-DD")
			return
		}
		if endDate.Before(startDate) {
			utils.BadRequest(c, "endDate must not be before startDate")
			return
		}
		pattern.EndDate = &endDate
	}

	created, appointments, err := h.Recurrence.CreateRecurring(c.Request.Context(), pattern)
	if err != nil {
		var batch *services.ErrBatchUnavailable
		if errors.As(err, &batch) {
			utils.ErrorWithDetails(c, 409, "Some generated dates are unavailable", batch.Failures)
			return
		}
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Created(c, "Recurring appointments created successfully", gin.H{
		"pattern":      created,
		"appointments": appointments,
	})
}

// verifyDoctor checks the referenced user exists, is a doctor and is
// active. Writes the error response and returns false otherwise.
func (h *AppointmentHandler) verifyDoctor(c *gin.Context, doctorID string) bool {
	var doctor models.User
	if err := h.DB.Where("id = ? AND role = ?", doctorID, models.RoleDoctor).First(&doctor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found or user is not a doctor")
		} else {
			utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
		}
		return false
	}
	if !doctor.IsActive {
		utils.BadRequest(c, "Doctor account is deactivated")
		return false
	}
	return true
}

// verifyPatient checks the referenced patient exists (and is not
// soft-deleted). Writes the error response and returns false otherwise.
func (h *AppointmentHandler) verifyPatient(c *gin.Context, patientID string) bool {
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
