package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"courier/internal/domain"
)

var ErrEmailTaken = errors.New("email already registered")

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if err := conn(ctx, r.db).Create(c).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var c domain.Customer
	if err := conn(ctx, r.db).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("customer", strconv.FormatInt(id, 10))
		}
		return nil, err
	}
	return &c, nil
}

// GetByLogin resolves a login handle, which is either a uniqueId or an email.
func (r *CustomerRepository) GetByLogin(ctx context.Context, login string) (*domain.Customer, error) {
	login = strings.TrimSpace(login)
	var c domain.Customer
	err := conn(ctx, r.db).
		Where("unique_id = ? OR email = ?", strings.ToUpper(login), strings.ToLower(login)).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("customer", login)
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var cnt int64
	err := conn(ctx, r.db).Model(&domain.Customer{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *CustomerRepository) UpdateContact(ctx context.Context, id int64, fields map[string]any) (*domain.Customer, error) {
	if len(fields) > 0 {
		res := conn(ctx, r.db).Model(&domain.Customer{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, domain.NotFound("customer", strconv.FormatInt(id, 10))
		}
	}
	return r.GetByID(ctx, id)
}

func (r *CustomerRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res := conn(ctx, r.db).Model(&domain.Customer{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("customer", strconv.FormatInt(id, 10))
	}
	return nil
}
