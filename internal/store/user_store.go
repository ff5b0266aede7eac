package store

import (
	"errors"
	"strings"
	"time"

	"glowup/server/internal/model"

	"gorm.io/gorm"
)

func (s *Store) CreateUser(user model.User) (model.User, error) {
	user.Email = strings.ToLower(user.Email)
	if _, err := s.GetUserByEmail(user.Email); err == nil {
		return model.User{}, ErrConflict
	}
	if err := s.db.Create(&user).Error; err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (s *Store) GetUserByEmail(email string) (model.User, error) {
	var user model.User
	err := s.db.First(&user, "email = ?", strings.ToLower(email)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (s *Store) GetUserByID(id string) (model.User, error) {
	var user model.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (s *Store) SaveRefreshToken(tok model.RefreshToken) error {
	return s.db.Create(&tok).Error
}

func (s *Store) GetRefreshToken(id string) (model.RefreshToken, error) {
	var tok model.RefreshToken
	if err := s.db.First(&tok, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.RefreshToken{}, ErrNotFound
		}
		return model.RefreshToken{}, err
	}
	return tok, nil
}

func (s *Store) RevokeRefreshToken(id string, revokedAt time.Time) error {
	res := s.db.Model(&model.RefreshToken{}).Where("id = ?", id).
		Update("revoked_at", revokedAt)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
