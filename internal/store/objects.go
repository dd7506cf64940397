package store

import (
	"errors"

	"gorm.io/gorm"

	"oneguard/internal/models"
)

type objectStore struct {
	db *gorm.DB
}

func NewObjectStore(db *gorm.DB) ObjectStore {
	return &objectStore{db: db}
}

func (s *objectStore) Cities() ([]models.City, error) {
	var cities []models.City
	if err := s.db.Order("id").Find(&cities).Error; err != nil {
		return nil, err
	}
	return cities, nil
}

func (s *objectStore) Objects(f ObjectFilter) ([]models.BuildingObject, error) {
	q := s.db.Preload("City").Order("id")
	if f.CityID != 0 {
		q = q.Where("city_id = ?", f.CityID)
	}
	if f.ObjectType != "" {
		q = q.Where("object_type = ?", f.ObjectType)
	}

	var objects []models.BuildingObject
	if err := q.Find(&objects).Error; err != nil {
		return nil, err
	}
	return objects, nil
}

func (s *objectStore) GetObject(id uint) (*models.BuildingObject, error) {
	var object models.BuildingObject
	err := s.db.Preload("City").First(&object, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &object, nil
}
