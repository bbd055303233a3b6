package repository

import (
	"context"

	"cookbook/internal/model"

	"gorm.io/gorm"
)

// RefreshTokenRepository persists refresh-token rows keyed by jti.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	GetByID(ctx context.Context, id string) (*model.RefreshToken, error)
	// DeleteAllForUser revokes every refresh token the user owns. Called
	// when a presented jti has no row, which signals replay of a rotated
	// or forged token.
	DeleteAllForUser(ctx context.Context, userID string) error
}

type refreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	return GetDB(ctx, r.db).Create(token).Error
}

func (r *refreshTokenRepository) GetByID(ctx context.Context, id string) (*model.RefreshToken, error) {
	var token model.RefreshToken
	if err := GetDB(ctx, r.db).First(&token, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *refreshTokenRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	return GetDB(ctx, r.db).Where("user_id = ?", userID).Delete(&model.RefreshToken{}).Error
}
