package repository

import (
	"time"

	"flyhigh/internal/models"

	"gorm.io/gorm"
)

// TokenRepository handles database operations for bearer tokens.
type TokenRepository interface {
	Create(token *models.Token) error
	FindByValue(value string) (*models.Token, error)
	UpdateLastUsed(value string, usedAt time.Time) error
	// Delete removes the token row. Deleting an absent token is not an error.
	Delete(value string) error
	DeleteByUser(userID uint) error
	// DeleteLastUsedBefore removes every token last used before cutoff and
	// returns the number of rows deleted.
	DeleteLastUsedBefore(cutoff time.Time) (int64, error)
}

// tokenRepository is the GORM implementation of TokenRepository.
type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(token *models.Token) error {
	return r.db.Create(token).Error
}

func (r *tokenRepository) FindByValue(value string) (*models.Token, error) {
	var token models.Token
	if err := r.db.Where("token = ?", value).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) UpdateLastUsed(value string, usedAt time.Time) error {
	return r.db.Model(&models.Token{}).Where("token = ?", value).
		Update("last_used_at", usedAt).Error
}

func (r *tokenRepository) Delete(value string) error {
	return r.db.Where("token = ?", value).Delete(&models.Token{}).Error
}

func (r *tokenRepository) DeleteByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Token{}).Error
}

func (r *tokenRepository) DeleteLastUsedBefore(cutoff time.Time) (int64, error) {
	res := r.db.Where("last_used_at < ?", cutoff).Delete(&models.Token{})
	return res.RowsAffected, res.Error
}
