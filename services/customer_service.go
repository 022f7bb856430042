package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "github.com/kamaudevs/sokoapi/common/errors"
	"github.com/kamaudevs/sokoapi/models"
	"github.com/kamaudevs/sokoapi/repository"
)

// RegisterInput carries a registration request. Optional profile fields may
// be left blank.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
	PhoneNumber     string
	Address         string
	DateOfBirth     *time.Time
}

// ProfileUpdate carries a partial profile update; nil fields are untouched
type ProfileUpdate struct {
	Email       *string
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Address     *string
	DateOfBirth *time.Time
}

// CustomerService owns registration, authentication and profile management
type CustomerService struct {
	store repository.Store
}

func NewCustomerService(store repository.Store) *CustomerService {
	return &CustomerService{store: store}
}

// Register creates a new customer. Mismatched password confirmation rejects
// the request before any row is written.
func (s *CustomerService) Register(ctx context.Context, input RegisterInput) (*models.Customer, error) {
	if input.Password != input.PasswordConfirm {
		return nil, apperrors.New(http.StatusBadRequest, "Passwords don't match", nil)
	}

	if _, err := s.store.Customers().FindByUsername(ctx, input.Username); err == nil {
		return nil, apperrors.New(http.StatusBadRequest, "Username already exists", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{
		ID:          uuid.New(),
		Username:    input.Username,
		Email:       input.Email,
		Password:    string(hashed),
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		PhoneNumber: input.PhoneNumber,
		Address:     input.Address,
		DateOfBirth: input.DateOfBirth,
	}
	if err := s.store.Customers().Create(ctx, customer); err != nil {
		// a concurrent registration can slip past the pre-check; the unique
		// index is the source of truth
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.New(http.StatusBadRequest, "Username already exists", nil)
		}
		return nil, err
	}
	return customer, nil
}

// Authenticate verifies a username/password pair for token issuance
func (s *CustomerService) Authenticate(ctx context.Context, username, password string) (*models.Customer, error) {
	customer, err := s.store.Customers().FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(password)); err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	return customer, nil
}

// GetProfile fetches the customer's own profile
func (s *CustomerService) GetProfile(ctx context.Context, customerID uuid.UUID) (*models.Customer, error) {
	customer, err := s.store.Customers().FindByID(ctx, customerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// UpdateProfile applies a partial update to the customer's own profile.
// Verification status is not customer-editable.
func (s *CustomerService) UpdateProfile(ctx context.Context, customerID uuid.UUID, update ProfileUpdate) (*models.Customer, error) {
	customer, err := s.GetProfile(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if update.Email != nil {
		customer.Email = *update.Email
	}
	if update.FirstName != nil {
		customer.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		customer.LastName = *update.LastName
	}
	if update.PhoneNumber != nil {
		customer.PhoneNumber = *update.PhoneNumber
	}
	if update.Address != nil {
		customer.Address = *update.Address
	}
	if update.DateOfBirth != nil {
		customer.DateOfBirth = update.DateOfBirth
	}

	if err := s.store.Customers().Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}
