package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kamaudevs/sokoapi/common/errors"
	"github.com/kamaudevs/sokoapi/middleware"
	"github.com/kamaudevs/sokoapi/services"
)

// RegisterRequest is the registration body. Optional profile fields may be
// omitted.
type RegisterRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	PhoneNumber     string `json:"phone_number"`
	Address         string `json:"address"`
	DateOfBirth     string `json:"date_of_birth"`
}

type ProfileUpdateRequest struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	DateOfBirth *string `json:"date_of_birth"`
}

type AuthController struct {
	customers *services.CustomerService
}

func NewAuthController(customers *services.CustomerService) *AuthController {
	return &AuthController{customers: customers}
}

// Register creates a new customer account
func (ctl *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_of_birth must be YYYY-MM-DD"})
		return
	}

	customer, err := ctl.customers.Register(c, services.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		PhoneNumber:     req.PhoneNumber,
		Address:         req.Address,
		DateOfBirth:     dob,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetProfile returns the authenticated customer's profile
func (ctl *AuthController) GetProfile(c *gin.Context) {
	customerID, err := middleware.CustomerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	customer, err := ctl.customers.GetProfile(c, customerID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpdateProfile applies a partial update to the authenticated customer's
// profile
func (ctl *AuthController) UpdateProfile(c *gin.Context) {
	customerID, err := middleware.CustomerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	update := services.ProfileUpdate{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	}
	if req.DateOfBirth != nil {
		dob, err := parseDate(*req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_of_birth must be YYYY-MM-DD"})
			return
		}
		update.DateOfBirth = dob
	}

	customer, err := ctl.customers.UpdateProfile(c, customerID, update)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
