package store

import (
	"errors"

	"gorm.io/gorm"

	"oneguard/internal/models"
	"oneguard/internal/scope"
)

type userStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) UserStore {
	return &userStore{db: db}
}

func (s *userStore) List(caller *models.User) ([]models.User, error) {
	var users []models.User
	err := s.db.
		Scopes(scope.Users(caller)).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *userStore) Get(caller *models.User, id uint) (*models.User, error) {
	var user models.User
	err := s.db.
		Scopes(scope.Users(caller)).
		First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userStore) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userStore) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create — регистрация: создание учётки целиком в одной транзакции.
func (s *userStore) Create(u *models.User) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(u).Error
	})
}

func (s *userStore) Save(u *models.User) error {
	return s.db.Save(u).Error
}
