package services

import (
	"context"
	"fmt"
	"time"

	"dental-clinic-server/internal/models"
	"dental-clinic-server/internal/utils"

	"gorm.io/gorm"
)

// ErrUnavailable is returned when a booking fails the availability check.
// The Availability carries the reason and any conflicting appointments.
type ErrUnavailable struct {
	Availability *Availability
}

func (e *ErrUnavailable) Error() string {
	return "slot unavailable: " + e.Availability.Reason
}

// BookingRequest carries the validated parameters for a new appointment.
type BookingRequest struct {
	PatientID       string
	DoctorID        string
	Date            time.Time
	StartTime       string // "HH:MM"
	DurationMinutes int
	Type            models.AppointmentType
	Reason          string
	Notes           string
	Color           string
}

// BookingService creates and reschedules appointments. The availability
// check runs as a locking read in the same transaction as the write, so two
// concurrent bookings of the same slot cannot both pass the check.
type BookingService struct {
	DB *gorm.DB
}

// NewBookingService creates a new BookingService.
func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

// Book validates availability and inserts the appointment. Returns
// *ErrUnavailable when the slot cannot be taken.
func (s *BookingService) Book(ctx context.Context, req BookingRequest) (*models.Appointment, error) {
	startMin, err := utils.MinutesFromClock(req.StartTime)
	if err != nil {
		return nil, err
	}
	if req.DurationMinutes <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d", req.DurationMinutes)
	}

	appointment := &models.Appointment{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		Date:            utils.DateOnly(req.Date),
		StartTime:       req.StartTime,
		EndTime:         utils.ClockFromMinutes(startMin + req.DurationMinutes),
		DurationMinutes: req.DurationMinutes,
		Type:            req.Type,
		Status:          models.StatusScheduled,
		Reason:          req.Reason,
		Notes:           req.Notes,
		Color:           req.Color,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		availability, err := NewAvailabilityService(tx).ForUpdate().CheckAvailability(
			ctx, req.DoctorID, req.Date, startMin, req.DurationMinutes, "")
		if err != nil {
			return err
		}
		if !availability.Available {
			return &ErrUnavailable{Availability: availability}
		}
		return tx.Create(appointment).Error
	})
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// Reschedule moves an existing appointment to a new date and time, checking
// availability with the appointment itself excluded from the conflict scan.
func (s *BookingService) Reschedule(ctx context.Context, appointmentID string, date time.Time, startTime string, durationMinutes int) (*models.Appointment, error) {
	startMin, err := utils.MinutesFromClock(startTime)
	if err != nil {
		return nil, err
	}
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d", durationMinutes)
	}

	var appointment models.Appointment
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&appointment, "id = ?", appointmentID).Error; err != nil {
			return err
		}
		if appointment.Status.IsTerminal() {
			return fmt.Errorf("appointment in status %s cannot be rescheduled", appointment.Status)
		}

		availability, err := NewAvailabilityService(tx).ForUpdate().CheckAvailability(
			ctx, appointment.DoctorID, date, startMin, durationMinutes, appointment.ID)
		if err != nil {
			return err
		}
		if !availability.Available {
			return &ErrUnavailable{Availability: availability}
		}

		appointment.Date = utils.DateOnly(date)
		appointment.StartTime = startTime
		appointment.EndTime = utils.ClockFromMinutes(startMin + durationMinutes)
		appointment.DurationMinutes = durationMinutes
		return tx.Save(&appointment).Error
	})
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}
