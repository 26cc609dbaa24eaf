package handlers

import (
	"net/http"
	"testing"

	"dental-clinic-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patientRouter(h *PatientHandler) *gin.Engine {
	router := gin.New()
	router.Use(fakeAuth("test-admin", models.RoleAdmin))
	router.POST("/patients", h.CreatePatient)
	router.GET("/patients", h.GetPatients)
	router.GET("/patients/:id", h.GetPatientByID)
	router.PUT("/patients/:id", h.UpdatePatient)
	router.DELETE("/patients/:id", h.DeletePatient)
	router.GET("/patients/:id/balance", h.GetPatientBalance)
	return router
}

func TestCreatePatient(t *testing.T) {
	db := newTestDB(t)
	router := patientRouter(NewPatientHandler(db))

	code, env := doJSON(t, router, http.MethodPost, "/patients", gin.H{
		"firstName":      "Maria",
		"lastName":       "Gomez",
		"identification": "CC-100200",
		"email":          "maria@example.com",
		"dateOfBirth":    "1990-04-12",
		"allergies":      "penicillin",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, env.Success)

	var created models.Patient
	decodeData(t, env, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Maria", created.FirstName)
	require.NotNil(t, created.DateOfBirth)
}

func TestCreatePatientDuplicateIdentification(t *testing.T) {
	db := newTestDB(t)
	router := patientRouter(NewPatientHandler(db))

	body := gin.H{"firstName": "Maria", "lastName": "Gomez", "identification": "CC-100200"}
	code, _ := doJSON(t, router, http.MethodPost, "/patients", body)
	require.Equal(t, http.StatusCreated, code)

	code, env := doJSON(t, router, http.MethodPost, "/patients", body)
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "identification")
}

func TestCreatePatientValidation(t *testing.T) {
	db := newTestDB(t)
	router := patientRouter(NewPatientHandler(db))

	// Missing required lastName, malformed email
	code, env := doJSON(t, router, http.MethodPost, "/patients", gin.H{
		"firstName": "Maria",
		"email":     "not-an-email",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.False(t, env.Success)
}

func TestGetPatientsSearch(t *testing.T) {
	db := newTestDB(t)
	router := patientRouter(NewPatientHandler(db))

	for _, p := range []models.Patient{
		{FirstName: "Maria", LastName: "Gomez", Identification: "CC-1"},
		{FirstName: "Juan", LastName: "Perez", Identification: "CC-2"},
	} {
		require.NoError(t, db.Create(&p).Error)
	}

	code, env := doJSON(t, router, http.MethodGet, "/patients?search=Gomez", nil)
	require.Equal(t, http.StatusOK, code)

	var patients []models.Patient
	decodeData(t, env, &patients)
	require.Len(t, patients, 1)
	assert.Equal(t, "Maria", patients[0].FirstName)
}

func TestGetPatientByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	router := patientRouter(NewPatientHandler(db))

	code, env := doJSON(t, router, http.MethodGet, "/patients/nonexistent", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
}

func TestUpdatePatientPartial(t *testing.T) {
	db := newTestDB(t)
	router := patientRouter(NewPatientHandler(db))

	patient := models.Patient{FirstName: "Maria", LastName: "Gomez", Identification: "CC-1", PhoneNumber: "555-0100"}
	require.NoError(t, db.Create(&patient).Error)

	code, env := doJSON(t, router, http.MethodPut, "/patients/"+patient.ID, gin.H{
		"phoneNumber": "555-0199",
	})
	require.Equal(t, http.StatusOK, code)

	var updated models.Patient
	decodeData(t, env, &updated)
	assert.Equal(t, "555-0199", updated.PhoneNumber)
	assert.Equal(t, "Maria", updated.FirstName)
}

func TestDeletePatientSoftDeletes(t *testing.T) {
	db := newTestDB(t)
	router := patientRouter(NewPatientHandler(db))

	patient := models.Patient{FirstName: "Maria", LastName: "Gomez", Identification: "CC-1"}
	require.NoError(t, db.Create(&patient).Error)

	code, _ := doJSON(t, router, http.MethodDelete, "/patients/"+patient.ID, nil)
	require.Equal(t, http.StatusOK, code)

	var count int64
	require.NoError(t, db.Model(&models.Patient{}).Where("id = ?", patient.ID).Count(&count).Error)
	assert.Zero(t, count)

	// Row survives for history
	require.NoError(t, db.Unscoped().Model(&models.Patient{}).Where("id = ?", patient.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetPatientBalance(t *testing.T) {
	db := newTestDB(t)
	router := patientRouter(NewPatientHandler(db))

	patient := models.Patient{FirstName: "Maria", LastName: "Gomez", Identification: "CC-1"}
	require.NoError(t, db.Create(&patient).Error)

	for _, tx := range []models.Transaction{
		{PatientID: patient.ID, Kind: models.TransactionCharge, Concept: "Root canal", AmountCents: 80000},
		{PatientID: patient.ID, Kind: models.TransactionCharge, Concept: "Cleaning", AmountCents: 12000},
		{PatientID: patient.ID, Kind: models.TransactionPayment, Concept: "Deposit", AmountCents: 50000},
	} {
		require.NoError(t, db.Create(&tx).Error)
	}

	code, env := doJSON(t, router, http.MethodGet, "/patients/"+patient.ID+"/balance", nil)
	require.Equal(t, http.StatusOK, code)

	var balance struct {
		ChargesCents  int64 `json:"chargesCents"`
		PaymentsCents int64 `json:"paymentsCents"`
		BalanceCents  int64 `json:"balanceCents"`
	}
	decodeData(t, env, &balance)
	assert.Equal(t, int64(92000), balance.ChargesCents)
	assert.Equal(t, int64(50000), balance.PaymentsCents)
	assert.Equal(t, int64(42000), balance.BalanceCents)
}
