package repository

import (
	"context"
	"errors"
	"strings"

	"kbcportal/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	user.Email = normalizeEmail(user.Email)

	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrUserAlreadyExists
		}
		return result.Error
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).Order("created_at desc").Order("id desc").Find(&users).Error
	return users, err
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.updateColumn(ctx, id, "status", status)
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uint, role string) error {
	return r.updateColumn(ctx, id, "role", role)
}

func (r *UserRepository) updateColumn(ctx context.Context, id uint, column string, value interface{}) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpsertAdmin creates an approved admin or promotes and re-keys an existing
// account with the same email. created reports which one happened.
func (r *UserRepository) UpsertAdmin(ctx context.Context, name, email, passwordHash string) (created bool, err error) {
	email = normalizeEmail(email)
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.User
		err := tx.Where("email = ?", email).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			return tx.Create(&domain.User{
				Name:         name,
				Email:        email,
				PasswordHash: passwordHash,
				Status:       domain.UserStatusApproved,
				Role:         domain.RoleAdmin,
			}).Error
		case err != nil:
			return err
		}
		return tx.Model(&existing).Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"status":        domain.UserStatusApproved,
			"role":          domain.RoleAdmin,
		}).Error
	})
	return created, err
}
