package store

import (
	"errors"

	"gorm.io/gorm"

	"oneguard/internal/models"
	"oneguard/internal/scope"
)

type clientStore struct {
	db *gorm.DB
}

func NewClientStore(db *gorm.DB) ClientStore {
	return &clientStore{db: db}
}

func (s *clientStore) List(caller *models.User) ([]models.ClientData, error) {
	var clients []models.ClientData
	err := s.db.
		Scopes(scope.Clients(caller)).
		Preload("Engineer").
		Preload("BuildingObject").
		Preload("BuildingObject.City").
		Order("created_at desc").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *clientStore) Get(caller *models.User, id uint) (*models.ClientData, error) {
	var client models.ClientData
	err := s.db.
		Scopes(scope.Clients(caller)).
		Preload("Engineer").
		Preload("BuildingObject").
		Preload("BuildingObject.City").
		First(&client, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// Create пишет запись и строку истории одной транзакцией.
func (s *clientStore) Create(c *models.ClientData, h *models.ClientHistory) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		h.ClientDataID = c.ID
		return tx.Create(h).Error
	})
}

// Update сохраняет запись и строку истории одной транзакцией.
func (s *clientStore) Update(c *models.ClientData, h *models.ClientHistory) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Engineer", "BuildingObject").Save(c).Error; err != nil {
			return err
		}
		h.ClientDataID = c.ID
		return tx.Create(h).Error
	})
}

func (s *clientStore) Delete(caller *models.User, id uint) error {
	res := s.db.
		Scopes(scope.Clients(caller)).
		Delete(&models.ClientData{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *clientStore) History(clientID uint) ([]models.ClientHistory, error) {
	var logs []models.ClientHistory
	err := s.db.
		Where("client_data_id = ?", clientID).
		Preload("User").
		Order("timestamp desc").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
