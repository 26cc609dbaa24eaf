package handlers

import (
	"dental-clinic-server/internal/models"
	"dental-clinic-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler handles staff management requests (typically admin operations).
type UserHandler struct {
	DB *gorm.DB
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// CreateUserRequest represents the request body for creating a staff user.
type CreateUserRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role" binding:"required,oneof=admin doctor receptionist"`
	Specialty string `json:"specialty"`
}

// CreateUser handles creating a new staff member (admin).
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existingUser models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		utils.Conflict(c, "User with this email already exists")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	user := models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      models.Role(req.Role),
		Specialty: req.Specialty,
		IsActive:  true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		utils.InternalServerError(c, "Failed to hash password: "+err.Error())
		return
	}

	if err := h.DB.Create(&user).Error; err != nil {
		utils.InternalServerError(c, "Failed to create user: "+err.Error())
		return
	}

	utils.Created(c, "User created successfully", user.Sanitize())
}

// GetUsers handles fetching all staff members (admin).
func (h *UserHandler) GetUsers(c *gin.Context) {
	var users []models.User
	query := h.DB.Order("last_name asc")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if err := query.Find(&users).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch users: "+err.Error())
		return
	}

	sanitizedUsers := make([]models.UserSanitized, len(users))
	for i, u := range users {
		sanitizedUsers[i] = u.Sanitize()
	}

	utils.Success(c, "Users fetched successfully", sanitizedUsers)
}

// GetDoctors returns all active doctors. Accessible by any authenticated
// staff member, used by the scheduling views.
func (h *UserHandler) GetDoctors(c *gin.Context) {
	var doctors []models.User
	if err := h.DB.Where("role = ? AND is_active = ?", models.RoleDoctor, true).
		Order("last_name asc").Find(&doctors).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, len(doctors))
	for i, d := range doctors {
		sanitized[i] = d.Sanitize()
	}

	utils.Success(c, "Doctors fetched successfully", sanitized)
}

// GetUserByID handles fetching a single staff member by ID (admin).
func (h *UserHandler) GetUserByID(c *gin.Context) {
	userID := c.Param("id")

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "User not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "User fetched successfully", user.Sanitize())
}

// UpdateUserRequest represents the request body for updating a staff member.
type UpdateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	Specialty string `json:"specialty,omitempty"`
	IsActive  *bool  `json:"isActive,omitempty"`
}

// UpdateUser handles updating a staff member by ID (admin).
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID := c.Param("id")

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil { // Partial update
		utils.UnprocessableEntity(c, "Invalid request payload", utils.FieldErrors(err))
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	if req.Email != "" && req.Email != user.Email {
		var existing models.User
		if err := h.DB.Where("email = ? AND id <> ?", req.Email, userID).First(&existing).Error; err == nil {
			utils.Conflict(c, "Another user with this email already exists")
			return
		}
		user.Email = req.Email
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Role != "" {
		switch models.Role(req.Role) {
		case models.RoleAdmin, models.RoleDoctor, models.RoleReceptionist:
			user.Role = models.Role(req.Role)
		default:
			utils.BadRequest(c, "Invalid role: "+req.Role)
			return
		}
	}
	if req.Specialty != "" {
		user.Specialty = req.Specialty
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.DB.Save(&user).Error; err != nil {
		utils.InternalServerError(c, "Failed to update user: "+err.Error())
		return
	}

	utils.Success(c, "User updated successfully", user.Sanitize())
}

// DeactivateUser disables a staff account (admin). Accounts are never
// removed so historical records keep their author.
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	userID := c.Param("id")

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "User not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if err := h.DB.Model(&user).Update("is_active", false).Error; err != nil {
		utils.InternalServerError(c, "Failed to deactivate user: "+err.Error())
		return
	}

	utils.Success(c, "User deactivated successfully", nil)
}
