package services

import (
	"context"
	"testing"
	"time"

	"dental-clinic-server/internal/models"
	"dental-clinic-server/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nextMonday returns the first Monday at least seven days out.
func nextMonday() time.Time {
	d := utils.DateOnly(time.Now().AddDate(0, 0, 7))
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func TestExpandDatesWeekly(t *testing.T) {
	start := nextMonday()
	pattern := &models.RecurringAppointment{
		Frequency:   models.FrequencyWeekly,
		DaysOfWeek:  "1,3", // Monday, Wednesday
		StartDate:   start,
		Occurrences: 4,
	}

	dates, err := ExpandDates(pattern)
	require.NoError(t, err)
	require.Len(t, dates, 4)

	assert.Equal(t, start, dates[0])
	assert.Equal(t, start.AddDate(0, 0, 2), dates[1]) // Wednesday
	assert.Equal(t, start.AddDate(0, 0, 7), dates[2]) // next Monday
	assert.Equal(t, start.AddDate(0, 0, 9), dates[3]) // next Wednesday
}

func TestExpandDatesDaily(t *testing.T) {
	start := nextMonday()
	pattern := &models.RecurringAppointment{
		Frequency:   models.FrequencyDaily,
		StartDate:   start,
		Occurrences: 5,
	}

	dates, err := ExpandDates(pattern)
	require.NoError(t, err)
	require.Len(t, dates, 5)
	for i, d := range dates {
		assert.Equal(t, start.AddDate(0, 0, i), d)
	}
}

func TestExpandDatesBiweekly(t *testing.T) {
	start := nextMonday()
	pattern := &models.RecurringAppointment{
		Frequency:   models.FrequencyBiweekly,
		DaysOfWeek:  "1",
		StartDate:   start,
		Occurrences: 3,
	}

	dates, err := ExpandDates(pattern)
	require.NoError(t, err)
	require.Len(t, dates, 3)
	assert.Equal(t, start, dates[0])
	assert.Equal(t, start.AddDate(0, 0, 14), dates[1])
	assert.Equal(t, start.AddDate(0, 0, 28), dates[2])
}

func TestExpandDatesMonthly(t *testing.T) {
	start := nextMonday()
	pattern := &models.RecurringAppointment{
		Frequency:   models.FrequencyMonthly,
		StartDate:   start,
		Occurrences: 3,
	}

	dates, err := ExpandDates(pattern)
	require.NoError(t, err)
	require.Len(t, dates, 3)
	for _, d := range dates {
		assert.Equal(t, start.Day(), d.Day())
	}
}

func TestExpandDatesEndDateBound(t *testing.T) {
	start := nextMonday()
	end := start.AddDate(0, 0, 7) // start Monday through next Monday
	pattern := &models.RecurringAppointment{
		Frequency:  models.FrequencyWeekly,
		DaysOfWeek: "1,3",
		StartDate:  start,
		EndDate:    &end,
	}

	dates, err := ExpandDates(pattern)
	require.NoError(t, err)
	// Monday, Wednesday, next Monday
	require.Len(t, dates, 3)
}

func TestExpandDatesOccurrenceCap(t *testing.T) {
	pattern := &models.RecurringAppointment{
		Frequency: models.FrequencyDaily,
		StartDate: nextMonday(),
		// No explicit occurrence count: the 52-occurrence cap applies
		// before the 365-day walk bound.
	}

	dates, err := ExpandDates(pattern)
	require.NoError(t, err)
	assert.Len(t, dates, MaxOccurrences)
}

func TestExpandDatesWeeklyRequiresDays(t *testing.T) {
	pattern := &models.RecurringAppointment{
		Frequency:   models.FrequencyWeekly,
		StartDate:   nextMonday(),
		Occurrences: 2,
	}

	_, err := ExpandDates(pattern)
	assert.Error(t, err)
}

func TestCreateRecurringAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	doctor := createDoctor(t, db)
	patient := createPatient(t, db)
	createWeekSchedule(t, db, doctor.ID, "08:00", "18:00", "", "")

	start := nextMonday()
	// Block the second generated date entirely
	block := &models.BlockedTime{
		DoctorID:  doctor.ID,
		Date:      start.AddDate(0, 0, 7),
		StartTime: "08:00",
		EndTime:   "18:00",
		Reason:    "vacation",
	}
	require.NoError(t, db.Create(block).Error)

	pattern := &models.RecurringAppointment{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		Frequency:       models.FrequencyWeekly,
		DaysOfWeek:      "1",
		StartDate:       start,
		Occurrences:     3,
		StartTime:       "09:00",
		DurationMinutes: 30,
		Type:            models.TypeConsultation,
	}

	svc := NewRecurrenceService(db)
	_, _, err := svc.CreateRecurring(context.Background(), pattern)

	var batch *ErrBatchUnavailable
	require.ErrorAs(t, err, &batch)
	require.Len(t, batch.Failures, 1)
	assert.Equal(t, start.AddDate(0, 0, 7).Format("2006-01-02"), batch.Failures[0].Date)
	assert.Contains(t, batch.Failures[0].Reason, "vacation")

	// Nothing was committed
	var appointmentCount, patternCount int64
	require.NoError(t, db.Model(&models.Appointment{}).Count(&appointmentCount).Error)
	require.NoError(t, db.Model(&models.RecurringAppointment{}).Count(&patternCount).Error)
	assert.Zero(t, appointmentCount)
	assert.Zero(t, patternCount)
}

func TestCreateRecurringSuccess(t *testing.T) {
	db := newTestDB(t)
	doctor := createDoctor(t, db)
	patient := createPatient(t, db)
	createWeekSchedule(t, db, doctor.ID, "08:00", "18:00", "", "")

	pattern := &models.RecurringAppointment{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		Frequency:       models.FrequencyWeekly,
		DaysOfWeek:      "1,3",
		StartDate:       nextMonday(),
		Occurrences:     4,
		StartTime:       "10:00",
		DurationMinutes: 45,
		Type:            models.TypeTreatment,
		Reason:          "orthodontic adjustment",
	}

	svc := NewRecurrenceService(db)
	created, appointments, err := svc.CreateRecurring(context.Background(), pattern)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Len(t, appointments, 4)

	for _, a := range appointments {
		assert.Equal(t, "10:00", a.StartTime)
		assert.Equal(t, "10:45", a.EndTime)
		assert.Equal(t, models.StatusScheduled, a.Status)
		require.NotNil(t, a.RecurringAppointmentID)
		assert.Equal(t, created.ID, *a.RecurringAppointmentID)
	}

	var stored []models.Appointment
	require.NoError(t, db.Where("recurring_appointment_id = ?", created.ID).Find(&stored).Error)
	assert.Len(t, stored, 4)
}

func TestParseDaysOfWeek(t *testing.T) {
	days, err := ParseDaysOfWeek("1, 3,5")
	require.NoError(t, err)
	assert.True(t, days[time.Monday])
	assert.True(t, days[time.Wednesday])
	assert.True(t, days[time.Friday])
	assert.False(t, days[time.Sunday])

	_, err = ParseDaysOfWeek("7")
	assert.Error(t, err)

	days, err = ParseDaysOfWeek("")
	require.NoError(t, err)
	assert.Nil(t, days)
}
