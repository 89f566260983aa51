package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kariqs/bistro-api/models"
	"gorm.io/gorm"
)

// Users looks up accounts by their login identifier.
type Users struct {
	*GormCollection[models.User, *models.User]
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{GormCollection: NewGormCollection[models.User](db), db: db}
}

func (u *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", email, err)
	}
	return &user, nil
}
