package services

import (
	"context"
	"testing"

	"dental-clinic-server/internal/models"
	"dental-clinic-server/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAvailabilityNoSchedule(t *testing.T) {
	db := newTestDB(t)
	doctor := createDoctor(t, db)
	svc := NewAvailabilityService(db)

	result, err := svc.CheckAvailability(context.Background(), doctor.ID, futureDate(1), 9*60, 30, "")
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, "doctor does not work this day", result.Reason)
}

func TestCheckAvailabilityOutsideWorkingHours(t *testing.T) {
	db := newTestDB(t)
	doctor := createDoctor(t, db)
	createWeekSchedule(t, db, doctor.ID, "08:00", "18:00", "", "")
	svc := NewAvailabilityService(db)

	// 07:30 starts before opening
	result, err := svc.CheckAvailability(context.Background(), doctor.ID, futureDate(1), 7*60+30, 30, "")
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Contains(t, result.Reason, "working hours")

	// 17:45 + 30min runs past closing
	result, err = svc.CheckAvailability(context.Background(), doctor.ID, futureDate(1), 17*60+45, 30, "")
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Contains(t, result.Reason, "working hours")
}

func TestCheckAvailabilityBreakWindow(t *testing.T) {
	db := newTestDB(t)
	doctor := createDoctor(t, db)
	createWeekSchedule(t, db, doctor.ID, "08:00", "18:00", "12:00", "13:00")
	svc := NewAvailabilityService(db)

	// 12:15 + 30min lands inside the 12:00-13:00 break
	result, err := svc.CheckAvailability(context.Background(), doctor.ID, futureDate(1), 12*60+15, 30, "")
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Contains(t, result.Reason, "break")
	assert.Contains(t, result.Reason, "12:00")

	// 13:00 right after the break is fine
	result, err = svc.CheckAvailability(context.Background(), doctor.ID, futureDate(1), 13*60, 30, "")
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestCheckAvailabilityBlockedTime(t *testing.T) {
	db := newTestDB(t)
	doctor := createDoctor(t, db)
	createWeekSchedule(t, db, doctor.ID, "08:00", "18:00", "", "")
	date := futureDate(1)

	block := &models.BlockedTime{
		DoctorID:  doctor.ID,
		Date:      date,
		StartTime: "10:00",
		EndTime:   "11:00",
		Reason:    "staff meeting",
	}
	require.NoError(t, db.Create(block).Error)

	svc := NewAvailabilityService(db)
	result, err := svc.CheckAvailability(context.Background(), doctor.ID, date, 10*60+30, 30, "")
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Contains(t, result.Reason, "staff meeting")

	// Other days are unaffected
	result, err = svc.CheckAvailability(context.Background(), doctor.ID, futureDate(2), 10*60+30, 30, "")
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestCheckAvailabilityOverlapCases(t *testing.T) {
	db := newTestDB(t)
	doctor := createDoctor(t, db)
	patient := createPatient(t, db)
	createWeekSchedule(t, db, doctor.ID, "08:00", "18:00", "", "")
	date := futureDate(1)

	// Existing booking 10:00-11:00
	createAppointment(t, db, patient.ID, doctor.ID, date, "10:00", 60)

	svc := NewAvailabilityService(db)

	cases := []struct {
		name      string
		start     string
		duration  int
		available bool
	}{
		{"starts inside existing", "10:30", 60, false},
		{"ends inside existing", "09:30", 60, false},
		{"fully contains existing", "09:45", 90, false},
		{"identical interval", "10:00", 60, false},
		{"ends exactly at start", "09:00", 60, true},
		{"starts exactly at end", "11:00", 60, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			startMin, err := utils.MinutesFromClock(tc.start)
			require.NoError(t, err)
			result, err := svc.CheckAvailability(context.Background(), doctor.ID, date, startMin, tc.duration, "")
			require.NoError(t, err)
			assert.Equal(t, tc.available, result.Available)
			if !tc.available {
				assert.NotEmpty(t, result.Conflicts)
			}
		})
	}
}

func TestCheckAvailabilityIgnoresCancelledAndExcluded(t *testing.T) {
	db := newTestDB(t)
	doctor := createDoctor(t, db)
	patient := createPatient(t, db)
	createWeekSchedule(t, db, doctor.ID, "08:00", "18:00", "", "")
	date := futureDate(1)

	cancelled := createAppointment(t, db, patient.ID, doctor.ID, date, "10:00", 60)
	require.NoError(t, db.Model(cancelled).Update("status", models.StatusCancelled).Error)

	svc := NewAvailabilityService(db)
	result, err := svc.CheckAvailability(context.Background(), doctor.ID, date, 10*60, 60, "")
	require.NoError(t, err)
	assert.True(t, result.Available, "cancelled appointments must not block the slot")

	active := createAppointment(t, db, patient.ID, doctor.ID, date, "14:00", 60)
	result, err = svc.CheckAvailability(context.Background(), doctor.ID, date, 14*60, 60, active.ID)
	require.NoError(t, err)
	assert.True(t, result.Available, "excluded appointment must not conflict with itself")
}

func TestCheckAvailabilityForUpdateScan(t *testing.T) {
	db := newTestDB(t)
	doctor := createDoctor(t, db)
	patient := createPatient(t, db)
	createWeekSchedule(t, db, doctor.ID, "08:00", "18:00", "", "")
	date := futureDate(1)
	createAppointment(t, db, patient.ID, doctor.ID, date, "10:00", 60)

	// The locking variant used by booking transactions must see the same
	// conflicts as the plain scan.
	svc := NewAvailabilityService(db).ForUpdate()
	result, err := svc.CheckAvailability(context.Background(), doctor.ID, date, 10*60+30, 30, "")
	require.NoError(t, err)
	assert.False(t, result.Available)
	require.Len(t, result.Conflicts, 1)

	result, err = svc.CheckAvailability(context.Background(), doctor.ID, date, 14*60, 30, "")
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestDaySlotsCountAndClassification(t *testing.T) {
	db := newTestDB(t)
	doctor := createDoctor(t, db)
	patient := createPatient(t, db)
	createWeekSchedule(t, db, doctor.ID, "08:00", "18:00", "12:00", "13:00")
	date := futureDate(1)

	createAppointment(t, db, patient.ID, doctor.ID, date, "09:00", 30)
	block := &models.BlockedTime{
		DoctorID:  doctor.ID,
		Date:      date,
		StartTime: "16:00",
		EndTime:   "17:00",
	}
	require.NoError(t, db.Create(block).Error)

	svc := NewAvailabilityService(db)
	slots, err := svc.DaySlots(context.Background(), doctor.ID, date, 30)
	require.NoError(t, err)

	// (18:00-08:00)/30min = 20 slots
	require.Len(t, slots, 20)

	byStart := make(map[string]Slot, len(slots))
	for _, s := range slots {
		byStart[s.StartTime] = s
	}
	assert.Equal(t, SlotBooked, byStart["09:00"].Status)
	assert.Equal(t, SlotAvailable, byStart["09:30"].Status)
	assert.Equal(t, SlotBreak, byStart["12:00"].Status)
	assert.Equal(t, SlotBreak, byStart["12:30"].Status)
	assert.Equal(t, SlotBlocked, byStart["16:00"].Status)
	assert.Equal(t, SlotBlocked, byStart["16:30"].Status)
	assert.Equal(t, SlotAvailable, byStart["17:30"].Status)

	// Slots are ordered and contiguous
	assert.Equal(t, "08:00", slots[0].StartTime)
	assert.Equal(t, "18:00", slots[len(slots)-1].EndTime)
}

func TestDaySlotsNonWorkingDay(t *testing.T) {
	db := newTestDB(t)
	doctor := createDoctor(t, db)
	svc := NewAvailabilityService(db)

	slots, err := svc.DaySlots(context.Background(), doctor.ID, futureDate(1), 30)
	require.NoError(t, err)
	assert.Empty(t, slots)
}
