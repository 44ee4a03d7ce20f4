package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tabi/internal/infra"
	"tabi/internal/models/db_models"
)

type UserRepository interface {
	Insert(ctx context.Context, user *db_models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.User, error)
	FindByEmail(ctx context.Context, email string) (*db_models.User, error)
	FindByNickname(ctx context.Context, nickname string) (*db_models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (a *userRepository) Insert(ctx context.Context, user *db_models.User) error {
	user.Email = db_models.NormalizeEmail(user.Email)
	return infra.Conn(ctx, a.db).Create(user).Error
}

func (a *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.User, error) {
	return a.first(ctx, "id = ?", id)
}

// FindByEmail matches case-insensitively; emails are stored normalized.
func (a *userRepository) FindByEmail(ctx context.Context, email string) (*db_models.User, error) {
	return a.first(ctx, "email = ?", db_models.NormalizeEmail(email))
}

func (a *userRepository) FindByNickname(ctx context.Context, nickname string) (*db_models.User, error) {
	return a.first(ctx, "nickname = ?", nickname)
}

func (a *userRepository) first(ctx context.Context, query string, args ...interface{}) (*db_models.User, error) {
	var user db_models.User
	err := infra.Conn(ctx, a.db).Where(query, args...).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
