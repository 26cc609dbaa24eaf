package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dental-clinic-server/internal/models"
	"dental-clinic-server/internal/utils"

	"gorm.io/gorm"
)

const (
	// MaxOccurrences caps how many appointments one pattern may expand into.
	MaxOccurrences = 52
	// maxExpansionDays is the safety bound on how far the day-by-day walk
	// may run past the start date.
	maxExpansionDays = 365
)

// ErrBatchUnavailable is returned when recurrence expansion produced dates
// that fail the availability check. The whole batch is rejected; no
// appointment is created.
type ErrBatchUnavailable struct {
	Failures []DateFailure
}

// DateFailure pairs a rejected date with the availability reason.
type DateFailure struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

func (e *ErrBatchUnavailable) Error() string {
	return fmt.Sprintf("%d of the generated dates are unavailable", len(e.Failures))
}

// RecurrenceService expands recurring appointment patterns into concrete
// appointments, all-or-nothing.
type RecurrenceService struct {
	DB *gorm.DB
}

// NewRecurrenceService creates a new RecurrenceService.
func NewRecurrenceService(db *gorm.DB) *RecurrenceService {
	return &RecurrenceService{DB: db}
}

// ParseDaysOfWeek parses the comma-separated weekday list stored on a
// pattern ("1,3" = Monday, Wednesday). Returns nil for an empty list.
func ParseDaysOfWeek(s string) (map[time.Weekday]bool, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	days := make(map[time.Weekday]bool)
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("invalid day of week %q", part)
		}
		days[time.Weekday(n)] = true
	}
	return days, nil
}

// ExpandDates enumerates the concrete dates a pattern produces, walking
// day-by-day from the start date. It stops at the occurrence cap, the
// pattern's end date, or the 365-day safety bound, whichever comes first.
func ExpandDates(pattern *models.RecurringAppointment) ([]time.Time, error) {
	days, err := ParseDaysOfWeek(pattern.DaysOfWeek)
	if err != nil {
		return nil, err
	}
	if (pattern.Frequency == models.FrequencyWeekly || pattern.Frequency == models.FrequencyBiweekly) && len(days) == 0 {
		return nil, fmt.Errorf("%s recurrence requires daysOfWeek", pattern.Frequency)
	}

	limit := pattern.Occurrences
	if limit <= 0 || limit > MaxOccurrences {
		limit = MaxOccurrences
	}

	start := utils.DateOnly(pattern.StartDate)
	var end *time.Time
	if pattern.EndDate != nil {
		e := utils.DateOnly(*pattern.EndDate)
		end = &e
	}

	var dates []time.Time
	for offset := 0; offset < maxExpansionDays && len(dates) < limit; offset++ {
		day := start.AddDate(0, 0, offset)
		if end != nil && day.After(*end) {
			break
		}
		if matchesPattern(pattern, days, start, day, offset) {
			dates = append(dates, day)
		}
	}
	return dates, nil
}

func matchesPattern(pattern *models.RecurringAppointment, days map[time.Weekday]bool, start, day time.Time, offset int) bool {
	switch pattern.Frequency {
	case models.FrequencyDaily:
		return true
	case models.FrequencyWeekly:
		return days[day.Weekday()]
	case models.FrequencyBiweekly:
		// Only weeks at an even offset from the start week count.
		week := offset / 7
		return days[day.Weekday()] && week%2 == 0
	case models.FrequencyMonthly:
		return day.Day() == start.Day()
	default:
		return false
	}
}

// CreateRecurring expands the pattern, validates every generated date
// through the availability check, and creates the pattern row plus all
// appointments in one transaction. If any date is unavailable the whole
// batch is rejected with *ErrBatchUnavailable.
func (s *RecurrenceService) CreateRecurring(ctx context.Context, pattern *models.RecurringAppointment) (*models.RecurringAppointment, []models.Appointment, error) {
	dates, err := ExpandDates(pattern)
	if err != nil {
		return nil, nil, err
	}
	if len(dates) == 0 {
		return nil, nil, fmt.Errorf("pattern produces no dates")
	}

	startMin, err := utils.MinutesFromClock(pattern.StartTime)
	if err != nil {
		return nil, nil, err
	}
	if pattern.DurationMinutes <= 0 {
		return nil, nil, fmt.Errorf("duration must be positive, got %d", pattern.DurationMinutes)
	}
	endClock := utils.ClockFromMinutes(startMin + pattern.DurationMinutes)

	var appointments []models.Appointment
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		availability := NewAvailabilityService(tx).ForUpdate()

		var failures []DateFailure
		for _, date := range dates {
			result, err := availability.CheckAvailability(ctx, pattern.DoctorID, date, startMin, pattern.DurationMinutes, "")
			if err != nil {
				return err
			}
			if !result.Available {
				failures = append(failures, DateFailure{
					Date:   date.Format("2006-01-02"),
					Reason: result.Reason,
				})
			}
		}
		if len(failures) > 0 {
			return &ErrBatchUnavailable{Failures: failures}
		}

		if err := tx.Create(pattern).Error; err != nil {
			return err
		}

		appointments = make([]models.Appointment, 0, len(dates))
		for _, date := range dates {
			appointments = append(appointments, models.Appointment{
				PatientID:              pattern.PatientID,
				DoctorID:               pattern.DoctorID,
				Date:                   date,
				StartTime:              pattern.StartTime,
				EndTime:                endClock,
				DurationMinutes:        pattern.DurationMinutes,
				Type:                   pattern.Type,
				Status:                 models.StatusScheduled,
				Reason:                 pattern.Reason,
				RecurringAppointmentID: &pattern.ID,
			})
		}
		return tx.Create(&appointments).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return pattern, appointments, nil
}
