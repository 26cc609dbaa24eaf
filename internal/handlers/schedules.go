package handlers

import (
	"time"

	"dental-clinic-server/internal/middleware"
	"dental-clinic-server/internal/models"
	"dental-clinic-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ScheduleHandler handles work schedules and blocked times.
type ScheduleHandler struct {
	DB *gorm.DB
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(db *gorm.DB) *ScheduleHandler {
	return &ScheduleHandler{DB: db}
}

// UpsertWorkScheduleRequest represents the request body for setting a
// doctor's working hours for one weekday.
type UpsertWorkScheduleRequest struct {
	DoctorID   string `json:"doctorId" binding:"required,uuid"`
	DayOfWeek  *int   `json:"dayOfWeek" binding:"required,min=0,max=6"`
	StartTime  string `json:"startTime" binding:"required"`
	EndTime    string `json:"endTime" binding:"required"`
	BreakStart string `json:"breakStart"`
	BreakEnd   string `json:"breakEnd"`
}

// UpsertWorkSchedule creates or replaces the (doctor, weekday) schedule row.
func (h *ScheduleHandler) UpsertWorkSchedule(c *gin.Context) {
	var req UpsertWorkScheduleRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	start, err := utils.MinutesFromClock(req.StartTime)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	end, err := utils.MinutesFromClock(req.EndTime)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	if start >= end {
		utils.BadRequest(c, "startTime must be before endTime")
		return
	}

	if (req.BreakStart == "") != (req.BreakEnd == "") {
		utils.BadRequest(c, "breakStart and breakEnd must be set together")
		return
	}
	if req.BreakStart != "" {
		breakStart, err := utils.MinutesFromClock(req.BreakStart)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		breakEnd, err := utils.MinutesFromClock(req.BreakEnd)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		if breakStart >= breakEnd || breakStart < start || breakEnd > end {
			utils.BadRequest(c, "break window must lie inside working hours")
			return
		}
	}

	schedule := models.WorkSchedule{
		DoctorID:   req.DoctorID,
		DayOfWeek:  *req.DayOfWeek,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		BreakStart: req.BreakStart,
		BreakEnd:   req.BreakEnd,
	}

	var existing models.WorkSchedule
	err = h.DB.Where("doctor_id = ? AND day_of_week = ?", req.DoctorID, *req.DayOfWeek).
		First(&existing).Error
	switch {
	case err == nil:
		schedule.ID = existing.ID
		schedule.CreatedAt = existing.CreatedAt
		if err := h.DB.Save(&schedule).Error; err != nil {
			utils.InternalServerError(c, "Failed to update work schedule: "+err.Error())
			return
		}
		utils.Success(c, "Work schedule updated successfully", schedule)
	case err == gorm.ErrRecordNotFound:
		if err := h.DB.Create(&schedule).Error; err != nil {
			utils.InternalServerError(c, "Failed to create work schedule: "+err.Error())
			return
		}
		utils.Created(c, "Work schedule created successfully", schedule)
	default:
		utils.InternalServerError(c, "Database error: "+err.Error())
	}
}

// GetWorkSchedules lists a doctor's weekly schedule.
func (h *ScheduleHandler) GetWorkSchedules(c *gin.Context) {
	doctorID := c.Param("doctorId")

	var schedules []models.WorkSchedule
	if err := h.DB.Where("doctor_id = ?", doctorID).
		Order("day_of_week asc").Find(&schedules).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch work schedules: "+err.Error())
		return
	}

	utils.Success(c, "Work schedules fetched successfully", schedules)
}

// DeleteWorkSchedule removes one weekday row from a doctor's schedule.
func (h *ScheduleHandler) DeleteWorkSchedule(c *gin.Context) {
	scheduleID := c.Param("id")

	var schedule models.WorkSchedule
	if err := h.DB.First(&schedule, "id = ?", scheduleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Work schedule not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if err := h.DB.Delete(&schedule).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete work schedule: "+err.Error())
		return
	}

	utils.Success(c, "Work schedule deleted successfully", nil)
}

// CreateBlockedTimeRequest represents the request body for blocking an interval.
type CreateBlockedTimeRequest struct {
	DoctorID  string `json:"doctorId" binding:"required,uuid"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Reason    string `json:"reason"`
}

// CreateBlockedTime marks an ad hoc unavailable interval for a doctor.
// Doctors may only block their own time; admins and receptionists any.
func (h *ScheduleHandler) CreateBlockedTime(c *gin.Context) {
	var req CreateBlockedTimeRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	role, _ := middleware.GetUserRoleFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)
	if role == models.RoleDoctor && userID != req.DoctorID {
		utils.Forbidden(c, "Doctors can only block their own time")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		utils.BadRequest(c, "Invalid date: expected YYYY-MM-DD")
		return
	}
	start, err := utils.MinutesFromClock(req.StartTime)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	end, err := utils.MinutesFromClock(req.EndTime)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	if start >= end {
		utils.BadRequest(c, "startTime must be before endTime")
		return
	}

	block := models.BlockedTime{
		DoctorID:  req.DoctorID,
		Date:      utils.DateOnly(date),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	}
	if err := h.DB.Create(&block).Error; err != nil {
		utils.InternalServerError(c, "Failed to create blocked time: "+err.Error())
		return
	}

	utils.Created(c, "Blocked time created successfully", block)
}

// GetBlockedTimes lists a doctor's blocked intervals, optionally for one date.
func (h *ScheduleHandler) GetBlockedTimes(c *gin.Context) {
	doctorID := c.Param("doctorId")

	query := h.DB.Where("doctor_id = ?", doctorID).Order("date asc, start_time asc")
	if d := c.Query("date"); d != "" {
		date, err := time.Parse("2006-01-02", d)
		if err != nil {
			utils.BadRequest(c, "Invalid date: expected YYYY-MM-DD")
			return
		}
		query = query.Where("date = ?", utils.DateOnly(date))
	}

	var blocks []models.BlockedTime
	if err := query.Find(&blocks).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch blocked times: "+err.Error())
		return
	}

	utils.Success(c, "Blocked times fetched successfully", blocks)
}

// DeleteBlockedTime removes a blocked interval.
func (h *ScheduleHandler) DeleteBlockedTime(c *gin.Context) {
	blockID := c.Param("id")

	var block models.BlockedTime
	if err := h.DB.First(&block, "id = ?", blockID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Blocked time not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	role, _ := middleware.GetUserRoleFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)
	if role == models.RoleDoctor && userID != block.DoctorID {
		utils.Forbidden(c, "Doctors can only unblock their own time")
		return
	}

	if err := h.DB.Delete(&block).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete blocked time: "+err.Error())
		return
	}

	utils.Success(c, "Blocked time deleted successfully", nil)
}
