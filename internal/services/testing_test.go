package services

import (
	"fmt"
	"testing"
	"time"

	"dental-clinic-server/internal/models"
	"dental-clinic-server/internal/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database and migrates the full
// schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func createDoctor(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	doctor := &models.User{
		Email:     fmt.Sprintf("doctor-%s@clinic.test", t.Name()),
		FirstName: "Test",
		LastName:  "Doctor",
		Role:      models.RoleDoctor,
		IsActive:  true,
	}
	if err := doctor.SetPassword("password123"); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := db.Create(doctor).Error; err != nil {
		t.Fatalf("failed to create doctor: %v", err)
	}
	return doctor
}

func createPatient(t *testing.T, db *gorm.DB) *models.Patient {
	t.Helper()
	patient := &models.Patient{
		FirstName:      "Test",
		LastName:       "Patient",
		Identification: fmt.Sprintf("ID-%s", t.Name()),
	}
	if err := db.Create(patient).Error; err != nil {
		t.Fatalf("failed to create patient: %v", err)
	}
	return patient
}

// createWeekSchedule gives the doctor the same hours every day of the week.
func createWeekSchedule(t *testing.T, db *gorm.DB, doctorID, start, end, breakStart, breakEnd string) {
	t.Helper()
	for day := 0; day < 7; day++ {
		schedule := &models.WorkSchedule{
			DoctorID:   doctorID,
			DayOfWeek:  day,
			StartTime:  start,
			EndTime:    end,
			BreakStart: breakStart,
			BreakEnd:   breakEnd,
		}
		if err := db.Create(schedule).Error; err != nil {
			t.Fatalf("failed to create work schedule: %v", err)
		}
	}
}

func createAppointment(t *testing.T, db *gorm.DB, patientID, doctorID string, date time.Time, start string, duration int) *models.Appointment {
	t.Helper()
	startMin, err := utils.MinutesFromClock(start)
	if err != nil {
		t.Fatalf("bad start time %q: %v", start, err)
	}
	appointment := &models.Appointment{
		PatientID:       patientID,
		DoctorID:        doctorID,
		Date:            utils.DateOnly(date),
		StartTime:       start,
		EndTime:         utils.ClockFromMinutes(startMin + duration),
		DurationMinutes: duration,
		Status:          models.StatusScheduled,
		Reason:          "test",
	}
	if err := db.Create(appointment).Error; err != nil {
		t.Fatalf("failed to create appointment: %v", err)
	}
	return appointment
}

// futureDate returns a date `days` days from now at midnight UTC.
func futureDate(days int) time.Time {
	return utils.DateOnly(time.Now().AddDate(0, 0, days))
}
