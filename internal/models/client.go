package models

import (
	"time"

	"gorm.io/datatypes"
)

type Service string

// Закрытый список услуг: всё, что не отсюда, режется на валидации.
const (
	ServiceInternet  Service = "internet"
	ServiceTV        Service = "tv"
	ServicePhone     Service = "phone"
	ServiceSecurity  Service = "security"
	ServiceSmartHome Service = "smart_home"
)

func ValidService(s Service) bool {
	switch s {
	case ServiceInternet, ServiceTV, ServicePhone, ServiceSecurity, ServiceSmartHome:
		return true
	}
	return false
}

// ServiceList хранится в БД как JSON-массив.
type ServiceList = datatypes.JSONSlice[Service]

func ContainsService(list ServiceList, s Service) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ClientData — запись инженера о клиенте в конкретной квартире объекта.
// Инженер проставляется сервером при создании и больше не меняется.
type ClientData struct {
	ID uint `gorm:"primaryKey" json:"id"`

	EngineerID uint `gorm:"not null;index" json:"engineer"`
	Engineer   User `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	BuildingObjectID uint           `gorm:"not null;index" json:"building_object"`
	BuildingObject   BuildingObject `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	ApartmentNumber string `gorm:"size:10;not null" json:"apartment_number"`
	ContactPhone    string `gorm:"size:20;not null" json:"contact_phone"`

	UsedServices       ServiceList `gorm:"type:jsonb" json:"used_services"`
	InterestedServices ServiceList `gorm:"type:jsonb" json:"interested_services"`

	ProviderRating *int     `json:"provider_rating"`
	DesiredPrice   *float64 `gorm:"type:numeric(10,2)" json:"desired_price"`
	Notes          string   `gorm:"type:text" json:"notes"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
