package routes

import (
	"dental-clinic-server/internal/config"
	"dental-clinic-server/internal/handlers"
	"dental-clinic-server/internal/middleware"
	"dental-clinic-server/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	patientHandler := handlers.NewPatientHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(db, cfg)
	scheduleHandler := handlers.NewScheduleHandler(db)
	clinicalHandler := handlers.NewClinicalHandler(db)
	odontogramHandler := handlers.NewOdontogramHandler(db)
	followUpHandler := handlers.NewFollowUpHandler(db)
	accountingHandler := handlers.NewAccountingHandler(db)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// Staff management (admin only, except the doctors list used by
		// scheduling views)
		userRoutes := private.Group("/users")
		{
			userRoutes.GET("/doctors", userHandler.GetDoctors)

			adminRoutes := userRoutes.Group("")
			adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminRoutes.POST("", userHandler.CreateUser)
				adminRoutes.POST("/register", authHandler.Register)
				adminRoutes.GET("", userHandler.GetUsers)
				adminRoutes.GET("/:id", userHandler.GetUserByID)
				adminRoutes.PUT("/:id", userHandler.UpdateUser)
				adminRoutes.DELETE("/:id", userHandler.DeactivateUser)
			}
		}

		// Patient records (all staff)
		patientRoutes := private.Group("/patients")
		{
			patientRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleReceptionist), patientHandler.CreatePatient)
			patientRoutes.GET("", patientHandler.GetPatients)
			patientRoutes.GET("/:id", patientHandler.GetPatientByID)
			patientRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleReceptionist), patientHandler.UpdatePatient)
			patientRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), patientHandler.DeletePatient)
			patientRoutes.GET("/:id/balance", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleReceptionist), patientHandler.GetPatientBalance)
		}

		// Appointments and availability
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleReceptionist, models.RoleDoctor), appointmentHandler.CreateAppointment)
			appointmentRoutes.POST("/recurring", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleReceptionist), appointmentHandler.CreateRecurringAppointments)
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.GET("/availability", appointmentHandler.CheckAvailability)
			appointmentRoutes.GET("/slots", appointmentHandler.GetDaySlots)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PATCH("/:id/status", appointmentHandler.UpdateAppointmentStatus)
			appointmentRoutes.PATCH("/:id/reschedule", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleReceptionist, models.RoleDoctor), appointmentHandler.RescheduleAppointment)
		}

		// Doctor schedules and blocked times
		scheduleRoutes := private.Group("/schedules")
		{
			scheduleRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleReceptionist), scheduleHandler.UpsertWorkSchedule)
			scheduleRoutes.GET("/doctor/:doctorId", scheduleHandler.GetWorkSchedules)
			scheduleRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), scheduleHandler.DeleteWorkSchedule)

			scheduleRoutes.POST("/blocked", scheduleHandler.CreateBlockedTime)
			scheduleRoutes.GET("/blocked/doctor/:doctorId", scheduleHandler.GetBlockedTimes)
			scheduleRoutes.DELETE("/blocked/:id", scheduleHandler.DeleteBlockedTime)
		}

		// Clinical records (doctors create, all staff read)
		clinicalRoutes := private.Group("/clinical")
		{
			clinicalRoutes.POST("/histories", middleware.RoleAuthMiddleware(models.RoleDoctor), clinicalHandler.CreateMedicalHistory)
			clinicalRoutes.GET("/histories/patient/:patientId", clinicalHandler.GetMedicalHistories)

			clinicalRoutes.POST("/diagnoses", middleware.RoleAuthMiddleware(models.RoleDoctor), clinicalHandler.CreateDiagnosis)
			clinicalRoutes.GET("/diagnoses/patient/:patientId", clinicalHandler.GetDiagnoses)

			clinicalRoutes.POST("/treatments", middleware.RoleAuthMiddleware(models.RoleDoctor), clinicalHandler.CreateTreatment)
			clinicalRoutes.GET("/treatments/patient/:patientId", clinicalHandler.GetTreatments)
			clinicalRoutes.PATCH("/treatments/:id/status", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), clinicalHandler.UpdateTreatmentStatus)

			clinicalRoutes.POST("/treatment-plans", middleware.RoleAuthMiddleware(models.RoleDoctor), clinicalHandler.CreateTreatmentPlan)
			clinicalRoutes.GET("/treatment-plans/patient/:patientId", clinicalHandler.GetTreatmentPlans)
		}

		// Odontogram (doctors update, all staff read)
		odontogramRoutes := private.Group("/odontograms")
		{
			odontogramRoutes.GET("/patient/:patientId", odontogramHandler.GetCurrentOdontogram)
			odontogramRoutes.POST("/patient/:patientId", middleware.RoleAuthMiddleware(models.RoleDoctor), odontogramHandler.UpdateOdontogram)
			odontogramRoutes.GET("/patient/:patientId/history", odontogramHandler.GetOdontogramHistory)
			odontogramRoutes.GET("/patient/:patientId/versions/:version", odontogramHandler.GetOdontogramVersion)
		}

		// Follow-ups and notes
		followUpRoutes := private.Group("/follow-ups")
		{
			followUpRoutes.POST("", followUpHandler.CreateFollowUp)
			followUpRoutes.GET("", followUpHandler.GetFollowUps)
			followUpRoutes.PATCH("/:id/status", followUpHandler.UpdateFollowUpStatus)
		}
		noteRoutes := private.Group("/notes")
		{
			noteRoutes.POST("", followUpHandler.CreateNote)
			noteRoutes.GET("/patient/:patientId", followUpHandler.GetNotes)
		}

		// Accounting (admin and receptionist)
		accountingRoutes := private.Group("/accounting")
		accountingRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleReceptionist))
		{
			accountingRoutes.POST("/transactions", accountingHandler.CreateTransaction)
			accountingRoutes.GET("/transactions", accountingHandler.GetTransactions)
			accountingRoutes.DELETE("/transactions/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), accountingHandler.DeleteTransaction)

			accountingRoutes.POST("/payment-plans", accountingHandler.CreatePaymentPlan)
			accountingRoutes.GET("/payment-plans", accountingHandler.GetPaymentPlans)
			accountingRoutes.POST("/installments/:id/pay", accountingHandler.PayInstallment)

			accountingRoutes.POST("/expenses", accountingHandler.CreateExpense)
			accountingRoutes.GET("/expenses", accountingHandler.GetExpenses)
			accountingRoutes.GET("/expenses/summary", accountingHandler.GetExpenseSummary)
			accountingRoutes.DELETE("/expenses/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), accountingHandler.DeleteExpense)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
