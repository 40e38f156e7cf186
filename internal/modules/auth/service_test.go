package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"courier/internal/domain"
	"courier/internal/pkg/logger"
	"courier/internal/repository"
)

// Mock Customer Repository implementing the interface
type mockCustomerRepo struct {
	mock.Mock
}

func (m *mockCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	args := m.Called(ctx, c)
	if args.Error(0) == nil {
		c.ID = 42
	}
	return args.Error(0)
}

func (m *mockCustomerRepo) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *mockCustomerRepo) GetByLogin(ctx context.Context, login string) (*domain.Customer, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *mockCustomerRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockCustomerRepo) UpdateContact(ctx context.Context, id int64, fields map[string]any) (*domain.Customer, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *mockCustomerRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

// Mock JWT service
type mockJWTService struct {
	mock.Mock
}

func (m *mockJWTService) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func validRegister() RegisterRequest {
	return RegisterRequest{
		CustomerName:    "Asha Rao",
		Email:           "Asha@Example.com ",
		CountryCode:     "+91",
		MobileNumber:    "9876543210",
		Address:         "12 Brigade Road, Bangalore",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		GetUpdatesVia:   "email",
	}
}

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestService_Register_Success(t *testing.T) {
	repo := new(mockCustomerRepo)
	jwtSvc := new(mockJWTService)

	repo.On("ExistsByEmail", mock.Anything, "asha@example.com").Return(false, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Customer) bool {
		return c.Role == domain.RoleCustomer && c.UpdatesVia == "EMAIL" && c.PasswordHash != "secret123"
	})).Return(nil)
	jwtSvc.On("GenerateToken", int64(42), "CUSTOMER").Return("fake-jwt-token", nil)

	service := NewService(repo, jwtSvc, logger.Discard())

	res, err := service.Register(context.Background(), validRegister())
	require.NoError(t, err)
	assert.Equal(t, "fake-jwt-token", res.Token)
	assert.Regexp(t, `^CUST[0-9A-F]{8}$`, res.Customer.UniqueID)
	assert.Equal(t, "asha@example.com", res.Customer.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.Customer.PasswordHash), []byte("secret123")))

	repo.AssertExpectations(t)
	jwtSvc.AssertExpectations(t)
}

func TestService_Register_EmailExists(t *testing.T) {
	repo := new(mockCustomerRepo)
	repo.On("ExistsByEmail", mock.Anything, "asha@example.com").Return(true, nil)

	service := NewService(repo, new(mockJWTService), logger.Discard())

	_, err := service.Register(context.Background(), validRegister())
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Register_RaceOnEmail(t *testing.T) {
	repo := new(mockCustomerRepo)
	repo.On("ExistsByEmail", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrEmailTaken)

	service := NewService(repo, new(mockJWTService), logger.Discard())

	_, err := service.Register(context.Background(), validRegister())
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestService_Register_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *RegisterRequest)
		field  string
	}{
		{"short name", func(r *RegisterRequest) { r.CustomerName = "A" }, "customerName"},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, "email"},
		{"bad mobile", func(r *RegisterRequest) { r.MobileNumber = "1234567890" }, "mobileNumber"},
		{"short address", func(r *RegisterRequest) { r.Address = "MG Road" }, "address"},
		{"short password", func(r *RegisterRequest) { r.Password, r.ConfirmPassword = "abc", "abc" }, "password"},
		{"mismatch", func(r *RegisterRequest) { r.ConfirmPassword = "other123" }, "confirmPassword"},
		{"updates via", func(r *RegisterRequest) { r.GetUpdatesVia = "PIGEON" }, "getUpdatesVia"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewService(new(mockCustomerRepo), new(mockJWTService), logger.Discard())
			req := validRegister()
			tt.modify(&req)

			_, err := service.Register(context.Background(), req)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestService_Login(t *testing.T) {
	customer := &domain.Customer{ID: 7, UniqueID: "CUSTAB12CD34", Role: domain.RoleCustomer, PasswordHash: hashed(t, "secret123")}
	officer := &domain.Customer{ID: 8, UniqueID: "OFFAB12CD34", Role: domain.RoleOfficer, PasswordHash: hashed(t, "officer1")}

	repo := new(mockCustomerRepo)
	repo.On("GetByLogin", mock.Anything, "CUSTAB12CD34").Return(customer, nil)
	repo.On("GetByLogin", mock.Anything, "OFFAB12CD34").Return(officer, nil)
	repo.On("GetByLogin", mock.Anything, "nobody").Return(nil, domain.NotFound("customer", "nobody"))

	jwtSvc := new(mockJWTService)
	jwtSvc.On("GenerateToken", int64(7), "CUSTOMER").Return("customer-token", nil)
	jwtSvc.On("GenerateToken", int64(8), "OFFICER").Return("officer-token", nil)

	service := NewService(repo, jwtSvc, logger.Discard())
	ctx := context.Background()

	res, err := service.Login(ctx, LoginRequest{Login: "CUSTAB12CD34", Password: "secret123"}, domain.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, "customer-token", res.Token)

	res, err = service.Login(ctx, LoginRequest{Login: "OFFAB12CD34", Password: "officer1"}, domain.RoleOfficer)
	require.NoError(t, err)
	assert.Equal(t, "officer-token", res.Token)

	_, err = service.Login(ctx, LoginRequest{Login: "CUSTAB12CD34", Password: "wrong"}, domain.RoleCustomer)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(ctx, LoginRequest{Login: "nobody", Password: "x"}, domain.RoleCustomer)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(ctx, LoginRequest{Login: "OFFAB12CD34", Password: "officer1"}, domain.RoleCustomer)
	assert.ErrorIs(t, err, ErrRoleMismatch)

	_, err = service.Login(ctx, LoginRequest{Login: "CUSTAB12CD34", Password: "secret123"}, domain.RoleOfficer)
	assert.ErrorIs(t, err, ErrRoleMismatch)
}

func TestService_Login_RepositoryError(t *testing.T) {
	repo := new(mockCustomerRepo)
	repo.On("GetByLogin", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	service := NewService(repo, new(mockJWTService), logger.Discard())

	_, err := service.Login(context.Background(), LoginRequest{Login: "x", Password: "y"}, domain.RoleCustomer)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_UpdateContact(t *testing.T) {
	repo := new(mockCustomerRepo)
	updated := &domain.Customer{ID: 7, MobileNumber: "9123456780", UpdatesVia: "SMS"}
	repo.On("UpdateContact", mock.Anything, int64(7), map[string]any{
		"mobile_number": "9123456780",
		"updates_via":   "SMS",
	}).Return(updated, nil)

	service := NewService(repo, new(mockJWTService), logger.Discard())
	actor := domain.Actor{CustomerID: 7, Role: domain.RoleCustomer}

	mobile, via := "9123456780", "sms"
	c, err := service.UpdateContact(context.Background(), actor, UpdateContactRequest{MobileNumber: &mobile, GetUpdatesVia: &via})
	require.NoError(t, err)
	assert.Equal(t, "SMS", c.UpdatesVia)
	repo.AssertExpectations(t)

	bad := "12345"
	_, err = service.UpdateContact(context.Background(), actor, UpdateContactRequest{MobileNumber: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_ChangePassword(t *testing.T) {
	repo := new(mockCustomerRepo)
	repo.On("GetByID", mock.Anything, int64(7)).Return(&domain.Customer{ID: 7, PasswordHash: hashed(t, "secret123")}, nil)
	repo.On("UpdatePassword", mock.Anything, int64(7), mock.MatchedBy(func(h string) bool {
		return bcrypt.CompareHashAndPassword([]byte(h), []byte("newpass1")) == nil
	})).Return(nil)

	service := NewService(repo, new(mockJWTService), logger.Discard())
	actor := domain.Actor{CustomerID: 7, Role: domain.RoleCustomer}

	err := service.ChangePassword(context.Background(), actor, ChangePasswordRequest{
		CurrentPassword: "wrong", NewPassword: "newpass1", ConfirmPassword: "newpass1",
	})
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = service.ChangePassword(context.Background(), actor, ChangePasswordRequest{
		CurrentPassword: "secret123", NewPassword: "newpass1", ConfirmPassword: "newpass2",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = service.ChangePassword(context.Background(), actor, ChangePasswordRequest{
		CurrentPassword: "secret123", NewPassword: "newpass1", ConfirmPassword: "newpass1",
	})
	require.NoError(t, err)
	repo.AssertCalled(t, "UpdatePassword", mock.Anything, int64(7), mock.Anything)
}
