package services

import (
	"context"
	"testing"

	"dental-clinic-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookCreatesScheduledAppointment(t *testing.T) {
	db := newTestDB(t)
	doctor := createDoctor(t, db)
	patient := createPatient(t, db)
	createWeekSchedule(t, db, doctor.ID, "08:00", "18:00", "", "")

	svc := NewBookingService(db)
	appointment, err := svc.Book(context.Background(), BookingRequest{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		Date:            futureDate(3),
		StartTime:       "09:00",
		DurationMinutes: 30,
		Type:            models.TypeConsultation,
		Reason:          "tooth pain",
	})
	require.NoError(t, err)
	require.NotEmpty(t, appointment.ID)
	assert.Equal(t, "09:30", appointment.EndTime)
	assert.Equal(t, models.StatusScheduled, appointment.Status)

	var stored models.Appointment
	require.NoError(t, db.First(&stored, "id = ?", appointment.ID).Error)
	assert.Equal(t, patient.ID, stored.PatientID)
}

func TestBookRejectsConflict(t *testing.T) {
	db := newTestDB(t)
	doctor := createDoctor(t, db)
	patient := createPatient(t, db)
	createWeekSchedule(t, db, doctor.ID, "08:00", "18:00", "", "")
	date := futureDate(3)
	createAppointment(t, db, patient.ID, doctor.ID, date, "10:00", 60)

	svc := NewBookingService(db)
	_, err := svc.Book(context.Background(), BookingRequest{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		Date:            date,
		StartTime:       "10:30",
		DurationMinutes: 30,
		Type:            models.TypeConsultation,
	})

	var unavailable *ErrUnavailable
	require.ErrorAs(t, err, &unavailable)
	assert.False(t, unavailable.Availability.Available)
	assert.Len(t, unavailable.Availability.Conflicts, 1)

	var count int64
	require.NoError(t, db.Model(&models.Appointment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestBookRejectsNonPositiveDuration(t *testing.T) {
	db := newTestDB(t)
	doctor := createDoctor(t, db)
	patient := createPatient(t, db)

	svc := NewBookingService(db)
	_, err := svc.Book(context.Background(), BookingRequest{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		Date:            futureDate(3),
		StartTime:       "09:00",
		DurationMinutes: 0,
	})
	assert.Error(t, err)
}

func TestRescheduleExcludesSelf(t *testing.T) {
	db := newTestDB(t)
	doctor := createDoctor(t, db)
	patient := createPatient(t, db)
	createWeekSchedule(t, db, doctor.ID, "08:00", "18:00", "", "")
	date := futureDate(3)
	appointment := createAppointment(t, db, patient.ID, doctor.ID, date, "10:00", 30)

	// Moving within its own original window must not count the
	// appointment as its own conflict.
	svc := NewBookingService(db)
	moved, err := svc.Reschedule(context.Background(), appointment.ID, date, "10:15", 30)
	require.NoError(t, err)
	assert.Equal(t, "10:15", moved.StartTime)
	assert.Equal(t, "10:45", moved.EndTime)
	assert.Equal(t, 30, moved.DurationMinutes)
}

func TestRescheduleRejectsConflictWithOther(t *testing.T) {
	db := newTestDB(t)
	doctor := createDoctor(t, db)
	patient := createPatient(t, db)
	createWeekSchedule(t, db, doctor.ID, "08:00", "18:00", "", "")
	date := futureDate(3)
	appointment := createAppointment(t, db, patient.ID, doctor.ID, date, "10:00", 30)
	other := createAppointment(t, db, patient.ID, doctor.ID, date, "11:00", 30)
	require.NoError(t, db.Model(other).Update("status", models.StatusConfirmed).Error)

	svc := NewBookingService(db)
	_, err := svc.Reschedule(context.Background(), appointment.ID, date, "11:15", 30)

	var unavailable *ErrUnavailable
	require.ErrorAs(t, err, &unavailable)

	// Original slot untouched
	var stored models.Appointment
	require.NoError(t, db.First(&stored, "id = ?", appointment.ID).Error)
	assert.Equal(t, "10:00", stored.StartTime)
}

func TestRescheduleRejectsTerminalStatus(t *testing.T) {
	db := newTestDB(t)
	doctor := createDoctor(t, db)
	patient := createPatient(t, db)
	createWeekSchedule(t, db, doctor.ID, "08:00", "18:00", "", "")
	date := futureDate(3)
	appointment := createAppointment(t, db, patient.ID, doctor.ID, date, "10:00", 30)
	require.NoError(t, db.Model(appointment).Update("status", models.StatusCompleted).Error)

	svc := NewBookingService(db)
	_, err := svc.Reschedule(context.Background(), appointment.ID, date, "14:00", 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be rescheduled")
}
