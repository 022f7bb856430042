package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "github.com/kamaudevs/sokoapi/common/errors"
	"github.com/kamaudevs/sokoapi/models"
	"github.com/kamaudevs/sokoapi/repository"
)

func TestRegister_HashesPassword(t *testing.T) {
	store := newFakeStore()
	svc := NewCustomerService(store)

	customer, err := svc.Register(context.Background(), RegisterInput{
		Username:        "wanjiku",
		Email:           "wanjiku@example.com",
		Password:        "hunter2hunter2",
		PasswordConfirm: "hunter2hunter2",
		FirstName:       "Wanjiku",
	})
	require.NoError(t, err)

	assert.NotEqual(t, "hunter2hunter2", customer.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte("hunter2hunter2")))
	assert.False(t, customer.IsVerified)
}

func TestRegister_PasswordMismatchWritesNothing(t *testing.T) {
	store := newFakeStore()
	svc := NewCustomerService(store)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username:        "wanjiku",
		Email:           "wanjiku@example.com",
		Password:        "hunter2hunter2",
		PasswordConfirm: "different",
	})
	require.Error(t, err)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
	assert.Equal(t, "Passwords don't match", appErr.Message)
	assert.Empty(t, store.customers)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	store := newFakeStore()
	seedCustomer(store, "wanjiku")
	svc := NewCustomerService(store)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username:        "wanjiku",
		Email:           "other@example.com",
		Password:        "hunter2hunter2",
		PasswordConfirm: "hunter2hunter2",
	})
	require.Error(t, err)
	assert.Len(t, store.customers, 1)
}

// staleLookupStore misses on FindByUsername even when the row exists,
// mimicking a concurrent registration landing between the pre-check and
// the insert.
type staleLookupStore struct{ repository.Store }

func (s staleLookupStore) Customers() repository.CustomerRepository {
	return staleLookupCustomers{s.Store.Customers()}
}

type staleLookupCustomers struct{ repository.CustomerRepository }

func (staleLookupCustomers) FindByUsername(context.Context, string) (*models.Customer, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestRegister_ConcurrentDuplicateUsernameIsRejected(t *testing.T) {
	store := newFakeStore()
	seedCustomer(store, "wanjiku")
	svc := NewCustomerService(staleLookupStore{store})

	_, err := svc.Register(context.Background(), RegisterInput{
		Username:        "wanjiku",
		Email:           "other@example.com",
		Password:        "hunter2hunter2",
		PasswordConfirm: "hunter2hunter2",
	})
	require.Error(t, err)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "Username already exists", appErr.Message)
	assert.Len(t, store.customers, 1)
}

func TestAuthenticate(t *testing.T) {
	store := newFakeStore()
	svc := NewCustomerService(store)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username:        "wanjiku",
		Email:           "wanjiku@example.com",
		Password:        "hunter2hunter2",
		PasswordConfirm: "hunter2hunter2",
	})
	require.NoError(t, err)

	got, err := svc.Authenticate(context.Background(), "wanjiku", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, "wanjiku", got.Username)

	_, err = svc.Authenticate(context.Background(), "wanjiku", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.Authenticate(context.Background(), "nobody", "hunter2hunter2")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	store := newFakeStore()
	customer := seedCustomer(store, "wanjiku")
	customer.FirstName = "Wanjiku"
	customer.Address = "Nairobi"

	svc := NewCustomerService(store)

	phone := "0712345678"
	updated, err := svc.UpdateProfile(context.Background(), customer.ID, ProfileUpdate{
		PhoneNumber: &phone,
	})
	require.NoError(t, err)

	assert.Equal(t, "0712345678", updated.PhoneNumber)
	assert.Equal(t, "Wanjiku", updated.FirstName, "unset fields untouched")
	assert.Equal(t, "Nairobi", updated.Address)
}

func TestUpdateProfile_UnknownCustomer(t *testing.T) {
	store := newFakeStore()
	svc := NewCustomerService(store)

	email := "x@example.com"
	_, err := svc.UpdateProfile(context.Background(), uuid.New(), ProfileUpdate{Email: &email})
	assert.ErrorIs(t, err, apperrors.ErrCustomerNotFound)
}
