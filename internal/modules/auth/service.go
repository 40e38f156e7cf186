package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"courier/internal/domain"
	"courier/internal/pkg/validator"
	"courier/internal/repository"
)

// Service contains all business logic for authentication
type Service struct {
	customers CustomerRepositoryInterface
	jwt       jwtService
	log       *logrus.Logger
}

func NewService(customers CustomerRepositoryInterface, jwt jwtService, log *logrus.Logger) *Service {
	return &Service{customers: customers, jwt: jwt, log: log}
}

// Register creates a customer account and signs them in. Officer accounts
// are provisioned out of band.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Address = strings.TrimSpace(req.Address)
	req.GetUpdatesVia = strings.ToUpper(strings.TrimSpace(req.GetUpdatesVia))
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	exists, err := s.customers.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	c := &domain.Customer{
		UniqueID:     domain.NewUniqueID(domain.RoleCustomer),
		Name:         req.CustomerName,
		Email:        req.Email,
		PasswordHash: hash,
		CountryCode:  strings.TrimSpace(req.CountryCode),
		MobileNumber: req.MobileNumber,
		Address:      req.Address,
		UpdatesVia:   req.GetUpdatesVia,
		Role:         domain.RoleCustomer,
	}
	if err := s.customers.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"customer_id": c.ID,
		"unique_id":   c.UniqueID,
	}).Info("customer registered")
	return s.issue(c)
}

// Login authenticates by uniqueId or email. An account of the other role
// is refused with ErrRoleMismatch once the password has been verified.
func (s *Service) Login(ctx context.Context, req LoginRequest, role domain.Role) (*AuthResult, error) {
	c, err := s.customers.GetByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(req.Password)); err != nil {
		s.log.WithField("login", req.Login).Warn("failed login attempt")
		return nil, ErrInvalidCredentials
	}
	if c.Role != role {
		return nil, ErrRoleMismatch
	}
	return s.issue(c)
}

func (s *Service) Me(ctx context.Context, actor domain.Actor) (*domain.Customer, error) {
	return s.customers.GetByID(ctx, actor.CustomerID)
}

// UpdateContact changes only the contact details; name, email, role and
// uniqueId are fixed after registration.
func (s *Service) UpdateContact(ctx context.Context, actor domain.Actor, req UpdateContactRequest) (*domain.Customer, error) {
	if req.GetUpdatesVia != nil {
		v := strings.ToUpper(strings.TrimSpace(*req.GetUpdatesVia))
		req.GetUpdatesVia = &v
	}
	if req.Address != nil {
		v := strings.TrimSpace(*req.Address)
		req.Address = &v
	}
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.CountryCode != nil {
		fields["country_code"] = strings.TrimSpace(*req.CountryCode)
	}
	if req.MobileNumber != nil {
		fields["mobile_number"] = *req.MobileNumber
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.GetUpdatesVia != nil {
		fields["updates_via"] = *req.GetUpdatesVia
	}

	c, err := s.customers.UpdateContact(ctx, actor.CustomerID, fields)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		s.log.WithField("customer_id", actor.CustomerID).Info("contact details updated")
	}
	return c, nil
}

func (s *Service) ChangePassword(ctx context.Context, actor domain.Actor, req ChangePasswordRequest) error {
	if err := validator.Struct(req); err != nil {
		return err
	}

	c, err := s.customers.GetByID(ctx, actor.CustomerID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.customers.UpdatePassword(ctx, c.ID, hash); err != nil {
		return err
	}
	s.log.WithField("customer_id", c.ID).Info("password changed")
	return nil
}

func (s *Service) issue(c *domain.Customer) (*AuthResult, error) {
	token, err := s.jwt.GenerateToken(c.ID, string(c.Role))
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResult{Customer: c, Token: token}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
