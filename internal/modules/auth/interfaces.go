package auth

import (
	"context"

	"courier/internal/domain"
)

type CustomerRepositoryInterface interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetByLogin(ctx context.Context, login string) (*domain.Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateContact(ctx context.Context, id int64, fields map[string]any) (*domain.Customer, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
}

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
}
