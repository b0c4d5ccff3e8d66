package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"perf-manage/internal/model"
)

// UserRepository keeps the Telegram profiles of everyone who talked to the bot.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertFromTelegram finds the user by TelegramID and refreshes the profile fields.
func (r *UserRepository) UpsertFromTelegram(ctx context.Context, telegramID int64, firstName, lastName, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where(model.User{TelegramID: telegramID}).
		Assign(model.User{FirstName: firstName, LastName: lastName, Username: username}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
