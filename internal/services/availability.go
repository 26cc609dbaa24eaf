package services

import (
	"context"
	"fmt"
	"time"

	"dental-clinic-server/internal/models"
	"dental-clinic-server/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Availability is the structured result of an availability check. When the
// requested interval is not bookable, Reason says why and Conflicts lists
// the appointments in the way, if any.
type Availability struct {
	Available bool                 `json:"available"`
	Reason    string               `json:"reason,omitempty"`
	Conflicts []models.Appointment `json:"conflicts,omitempty"`
}

// SlotStatus classifies one slot of a doctor's day.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBreak     SlotStatus = "break"
	SlotBlocked   SlotStatus = "blocked"
	SlotBooked    SlotStatus = "booked"
)

// Slot is one fixed-size increment of a doctor's working day.
type Slot struct {
	StartTime string     `json:"startTime"`
	EndTime   string     `json:"endTime"`
	Status    SlotStatus `json:"status"`
}

// AvailabilityService answers whether a doctor can take an appointment at a
// given time and produces the slot view of a working day. All checks read
// the current database state; nothing is memoized.
type AvailabilityService struct {
	DB *gorm.DB

	lockForUpdate bool
}

// NewAvailabilityService creates a new AvailabilityService.
func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db}
}

// ForUpdate makes the appointment overlap scan a locking read. Inside a
// booking transaction this takes row and gap locks on the doctor's day, so
// a concurrent booking of the same slot blocks until this one commits.
// SQLite has no row locks and drops the clause.
func (s *AvailabilityService) ForUpdate() *AvailabilityService {
	s.lockForUpdate = true
	return s
}

// activeStatuses are the appointment statuses that occupy a time slot.
// Cancelled and no-show appointments free their interval.
var activeStatuses = []models.AppointmentStatus{
	models.StatusScheduled,
	models.StatusConfirmed,
	models.StatusInProgress,
	models.StatusCompleted,
}

// CheckAvailability validates a candidate interval for a doctor on a date.
// Checks run in order and short-circuit on the first failure: working-hours
// row, working-hours bounds, break window, blocked times, then existing
// appointments. excludeAppointmentID skips one appointment in the conflict
// scan so reschedules do not collide with themselves; pass "" otherwise.
func (s *AvailabilityService) CheckAvailability(ctx context.Context, doctorID string, date time.Time, startMin, durationMin int, excludeAppointmentID string) (*Availability, error) {
	if durationMin <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d", durationMin)
	}
	endMin := startMin + durationMin
	day := utils.DateOnly(date)

	schedule, err := s.scheduleFor(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return &Availability{Available: false, Reason: "doctor does not work this day"}, nil
	}

	workStart, workEnd, err := scheduleBounds(schedule)
	if err != nil {
		return nil, err
	}
	if startMin < workStart || endMin > workEnd {
		return &Availability{
			Available: false,
			Reason: fmt.Sprintf("requested time is outside working hours (%s - %s)",
				schedule.StartTime, schedule.EndTime),
		}, nil
	}

	if schedule.HasBreak() {
		breakStart, breakEnd, err := clockRange(schedule.BreakStart, schedule.BreakEnd)
		if err != nil {
			return nil, err
		}
		if utils.RangesOverlap(startMin, endMin, breakStart, breakEnd) {
			return &Availability{
				Available: false,
				Reason: fmt.Sprintf("requested time overlaps the break window (%s - %s)",
					schedule.BreakStart, schedule.BreakEnd),
			}, nil
		}
	}

	blocks, err := s.blockedTimesFor(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}
	for _, b := range blocks {
		blockStart, blockEnd, err := clockRange(b.StartTime, b.EndTime)
		if err != nil {
			return nil, err
		}
		if utils.RangesOverlap(startMin, endMin, blockStart, blockEnd) {
			reason := "requested time is blocked"
			if b.Reason != "" {
				reason += ": " + b.Reason
			}
			return &Availability{Available: false, Reason: reason}, nil
		}
	}

	conflicts, err := s.overlappingAppointments(ctx, doctorID, day, startMin, endMin, excludeAppointmentID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return &Availability{
			Available: false,
			Reason:    "requested time conflicts with an existing appointment",
			Conflicts: conflicts,
		}, nil
	}

	return &Availability{Available: true}, nil
}

// DaySlots walks the doctor's working day in slotMinutes increments and
// classifies each increment. The list has floor((end-start)/slotMinutes)
// entries; a nil schedule yields an empty list.
func (s *AvailabilityService) DaySlots(ctx context.Context, doctorID string, date time.Time, slotMinutes int) ([]Slot, error) {
	if slotMinutes <= 0 {
		return nil, fmt.Errorf("slot duration must be positive, got %d", slotMinutes)
	}
	day := utils.DateOnly(date)

	schedule, err := s.scheduleFor(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return []Slot{}, nil
	}

	workStart, workEnd, err := scheduleBounds(schedule)
	if err != nil {
		return nil, err
	}

	var breakStart, breakEnd int
	hasBreak := schedule.HasBreak()
	if hasBreak {
		breakStart, breakEnd, err = clockRange(schedule.BreakStart, schedule.BreakEnd)
		if err != nil {
			return nil, err
		}
	}

	blocks, err := s.blockedTimesFor(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}
	blockSpans := make([]span, 0, len(blocks))
	for _, b := range blocks {
		bs, be, err := clockRange(b.StartTime, b.EndTime)
		if err != nil {
			return nil, err
		}
		blockSpans = append(blockSpans, span{bs, be})
	}

	booked, err := s.appointmentSpans(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}

	slots := make([]Slot, 0, (workEnd-workStart)/slotMinutes)
	for cur := workStart; cur+slotMinutes <= workEnd; cur += slotMinutes {
		slot := Slot{
			StartTime: utils.ClockFromMinutes(cur),
			EndTime:   utils.ClockFromMinutes(cur + slotMinutes),
			Status:    SlotAvailable,
		}
		slotEnd := cur + slotMinutes

		switch {
		case hasBreak && utils.RangesOverlap(cur, slotEnd, breakStart, breakEnd):
			slot.Status = SlotBreak
		case overlapsAny(cur, slotEnd, blockSpans):
			slot.Status = SlotBlocked
		case overlapsAny(cur, slotEnd, booked):
			slot.Status = SlotBooked
		}

		slots = append(slots, slot)
	}
	return slots, nil

}

// scheduleFor returns the work schedule row for the date's weekday, or nil
// when the doctor does not work that day.
func (s *AvailabilityService) scheduleFor(ctx context.Context, doctorID string, day time.Time) (*models.WorkSchedule, error) {
	var schedule models.WorkSchedule
	err := s.DB.WithContext(ctx).
		Where("doctor_id = ? AND day_of_week = ?", doctorID, int(day.Weekday())).
		First(&schedule).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load work schedule: %w", err)
	}
	return &schedule, nil
}

func (s *AvailabilityService) blockedTimesFor(ctx context.Context, doctorID string, day time.Time) ([]models.BlockedTime, error) {
	var blocks []models.BlockedTime
	err := s.DB.WithContext(ctx).
		Where("doctor_id = ? AND date = ?", doctorID, day).
		Order("start_time asc").
		Find(&blocks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load blocked times: %w", err)
	}
	return blocks, nil
}

// overlappingAppointments returns the doctor's active appointments on the
// date whose intervals intersect [startMin, endMin).
func (s *AvailabilityService) overlappingAppointments(ctx context.Context, doctorID string, day time.Time, startMin, endMin int, excludeID string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	query := s.DB.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND status IN ?", doctorID, day, activeStatuses).
		Order("start_time asc")
	if s.lockForUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}

	conflicts := make([]models.Appointment, 0)
	for _, a := range appointments {
		aStart, aEnd, err := clockRange(a.StartTime, a.EndTime)
		if err != nil {
			return nil, err
		}
		if utils.RangesOverlap(startMin, endMin, aStart, aEnd) {
			conflicts = append(conflicts, a)
		}
	}
	return conflicts, nil
}

// span is a half-open minute interval within a day.
type span struct{ start, end int }

func (s *AvailabilityService) appointmentSpans(ctx context.Context, doctorID string, day time.Time) ([]span, error) {
	var appointments []models.Appointment
	err := s.DB.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND status IN ?", doctorID, day, activeStatuses).
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	spans := make([]span, 0, len(appointments))
	for _, a := range appointments {
		start, end, err := clockRange(a.StartTime, a.EndTime)
		if err != nil {
			return nil, err
		}
		spans = append(spans, span{start, end})
	}
	return spans, nil
}

func scheduleBounds(schedule *models.WorkSchedule) (int, int, error) {
	return clockRange(schedule.StartTime, schedule.EndTime)
}

func clockRange(startClock, endClock string) (int, int, error) {
	start, err := utils.MinutesFromClock(startClock)
	if err != nil {
		return 0, 0, err
	}
	end, err := utils.MinutesFromClock(endClock)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func overlapsAny(start, end int, spans []span) bool {
	for _, sp := range spans {
		if utils.RangesOverlap(start, end, sp.start, sp.end) {
			return true
		}
	}
	return false
}
